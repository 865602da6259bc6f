package rest

import (
	"context"
	"strconv"

	"unify/internal/query"
	"unify/internal/record"
)

// DefaultPath is the collection fetched when the query names no
// explicit api path.
const DefaultPath = "/users"

// Adapter exposes the API client as a query source.
type Adapter struct {
	client *Client
}

func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Tag() record.Tag { return record.TagAPI }

// Exact reports false: the upstream serves whole collections, so the
// engine filters the returned records against the full tree.
func (a *Adapter) Exact() bool { return false }

func (a *Adapter) Execute(ctx context.Context, filter query.Node) ([]record.SourceRecord, error) {
	path := DefaultPath
	if p, ok := query.APIPath(filter); ok {
		path = p
	}

	users, err := a.client.FetchUsers(ctx, path)
	if err != nil {
		return nil, err
	}

	out := make([]record.SourceRecord, 0, len(users))
	for _, u := range users {
		fields := record.Fields{
			// Only this adapter stamps the path field; path conditions
			// therefore never match records from other sources.
			record.FieldAPIPath: path,
		}
		if u.ID != 0 {
			fields[record.FieldID] = strconv.Itoa(u.ID)
		}
		if u.Name != "" {
			fields[record.FieldName] = u.Name
		}
		if u.Email != "" {
			fields[record.FieldEmail] = u.Email
		}
		if u.Region != "" {
			fields[record.FieldRegion] = u.Region
		}
		if u.SignupDate != "" {
			fields[record.FieldSignupDate] = u.SignupDate
		}
		out = append(out, record.SourceRecord{Source: record.TagAPI, Fields: fields})
	}
	return out, nil
}
