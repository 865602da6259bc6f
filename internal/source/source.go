// Package source defines the single capability every data backend
// implements to answer a filter tree. The engine treats adapters as
// opaque: it never sees SQL, HTTP, or file formats, only records and
// errors.
package source

import (
	"context"

	"unify/internal/query"
	"unify/internal/record"
)

// Adapter executes a filter tree against one data source.
//
// Two execution modes are supported, reported by Exact:
//
//   - exact: the adapter translates the tree to its native query form
//     and returns only matching records;
//   - over-return: the adapter returns a superset of candidates and the
//     engine post-filters with query.Matches. File- and API-backed
//     sources typically cannot execute arbitrary boolean trees natively
//     and use this mode.
//
// Execute must honor ctx cancellation and deadlines; the engine bounds
// every call with a per-source timeout. Retry/backoff, auth, and
// connection details are adapter-internal.
type Adapter interface {
	// Tag is the fixed source tag stamped on every record.
	Tag() record.Tag

	// Exact reports whether Execute applies the filter natively.
	Exact() bool

	Execute(ctx context.Context, filter query.Node) ([]record.SourceRecord, error)
}
