// Package memory implements an in-memory source adapter. It filters
// exactly, making it the reference adapter for engine tests and the
// scenario harness; failure and latency injection cover the degraded
// paths without real backends.
package memory

import (
	"context"
	"time"

	"unify/internal/query"
	"unify/internal/record"
)

// Adapter holds a fixed row set and answers filters against it.
type Adapter struct {
	tag  record.Tag
	rows []record.Fields

	// Err, if set, fails every Execute call.
	Err error

	// Delay, if set, is waited before answering; combined with a short
	// executor timeout it simulates a slow source.
	Delay time.Duration
}

// New returns an adapter serving rows under the given source tag.
func New(tag record.Tag, rows []record.Fields) *Adapter {
	return &Adapter{tag: tag, rows: rows}
}

func (a *Adapter) Tag() record.Tag { return a.tag }

// Exact reports true: the in-memory row filter evaluates the whole tree.
func (a *Adapter) Exact() bool { return true }

func (a *Adapter) Execute(ctx context.Context, filter query.Node) ([]record.SourceRecord, error) {
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.Err != nil {
		return nil, a.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []record.SourceRecord
	for _, row := range a.rows {
		r := record.SourceRecord{Source: a.tag, Fields: row}
		if query.Matches(filter, r) {
			out = append(out, r)
		}
	}
	return out, nil
}
