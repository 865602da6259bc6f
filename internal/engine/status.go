package engine

import "unify/internal/record"

// StatusCode categorizes how a single source call ended.
type StatusCode string

const (
	// StatusOk means the source answered within its timeout.
	StatusOk StatusCode = "ok"

	// StatusTimedOut means the source exceeded the per-source timeout.
	StatusTimedOut StatusCode = "timed_out"

	// StatusFailed means the source returned an error or the query was
	// cancelled while the call was outstanding.
	StatusFailed StatusCode = "failed"
)

// ReasonCancelled is the failure reason recorded for sources still
// outstanding when the caller cancels the query.
const ReasonCancelled = "cancelled"

// SourceStatus is the per-source outcome threaded from the executor to
// the caller. Failures are recorded here, never raised: a degraded but
// useful answer stays representable.
type SourceStatus struct {
	Code   StatusCode
	Reason string
}

// Ok reports whether the source completed normally.
func (s SourceStatus) Ok() bool { return s.Code == StatusOk }

// SourceResult pairs one source's records with its status. A failed or
// timed-out source contributes an empty record list.
type SourceResult struct {
	Tag     record.Tag
	Records []record.SourceRecord
	Status  SourceStatus
}

// Status is the engine-level health of an answer.
type Status string

const (
	// StatusComplete means every source answered ok.
	StatusComplete Status = "complete"

	// StatusDegraded means at least one source failed or timed out but
	// an answer was still produced from the rest.
	StatusDegraded Status = "degraded"
)

// Diagnostic is the per-source health entry reported alongside an
// answer.
type Diagnostic struct {
	Source  record.Tag `json:"source"`
	Status  StatusCode `json:"status"`
	Reason  string     `json:"reason,omitempty"`
	Records int        `json:"records"`
}

// overallStatus folds per-source results into the engine-level status.
func overallStatus(results []SourceResult) Status {
	for _, r := range results {
		if !r.Status.Ok() {
			return StatusDegraded
		}
	}
	return StatusComplete
}

func diagnostics(results []SourceResult) []Diagnostic {
	out := make([]Diagnostic, 0, len(results))
	for _, r := range results {
		out = append(out, Diagnostic{
			Source:  r.Tag,
			Status:  r.Status.Code,
			Reason:  r.Status.Reason,
			Records: len(r.Records),
		})
	}
	return out
}
