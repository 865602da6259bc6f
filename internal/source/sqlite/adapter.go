package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"unify/internal/query"
	"unify/internal/record"
)

// Adapter runs compiled filter queries against a Store.
type Adapter struct {
	store *Store
	limit int
}

// NewAdapter wraps a Store. limit caps rows per query; zero means the
// default.
func NewAdapter(store *Store, limit int) *Adapter {
	return &Adapter{store: store, limit: limit}
}

func (a *Adapter) Tag() record.Tag { return record.TagSQL }

// Exact reports that rows already satisfy the filter: the compiled
// WHERE clause is a faithful translation, so no post-filtering is
// needed.
func (a *Adapter) Exact() bool { return true }

func (a *Adapter) Execute(ctx context.Context, filter query.Node) ([]record.SourceRecord, error) {
	stmt, args, err := Compile(filter, a.limit)
	if err != nil {
		return nil, err
	}

	rows, err := a.store.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []record.SourceRecord
	for rows.Next() {
		var (
			id                        int64
			name                      string
			email, region, signupDate sql.NullString
		)
		if err := rows.Scan(&id, &name, &email, &region, &signupDate); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		fields := record.Fields{
			record.FieldID:   strconv.FormatInt(id, 10),
			record.FieldName: name,
		}
		if email.Valid && email.String != "" {
			fields[record.FieldEmail] = email.String
		}
		if region.Valid && region.String != "" {
			fields[record.FieldRegion] = region.String
		}
		if signupDate.Valid && signupDate.String != "" {
			fields[record.FieldSignupDate] = signupDate.String
		}
		out = append(out, record.SourceRecord{Source: record.TagSQL, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}
