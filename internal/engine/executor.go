package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"unify/internal/query"
	"unify/internal/record"
	"unify/internal/source"
)

// DefaultTimeout bounds each adapter call when the executor is built
// without an explicit timeout.
const DefaultTimeout = 2 * time.Second

// Executor fans a filter tree out to all registered adapters
// concurrently. Each call is bounded by the per-source timeout and
// isolated: a slow, failing, or panicking source is recorded in its
// status and never aborts the siblings. Run always returns once every
// adapter has completed, timed out, or failed.
type Executor struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecutor builds an executor with the given per-source timeout.
// A zero timeout falls back to DefaultTimeout; a nil logger is replaced
// with a no-op one.
func NewExecutor(timeout time.Duration, logger *zap.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{timeout: timeout, logger: logger}
}

// Run executes the filter against every adapter and collects per-source
// results in registration order. Over-returning adapters are
// post-filtered here with the in-memory matcher.
//
// Cancellation of ctx propagates to all outstanding calls; sources that
// had already completed keep their results, the rest are marked
// failed(cancelled).
func (e *Executor) Run(ctx context.Context, filter query.Node, adapters []source.Adapter) []SourceResult {
	results := make([]SourceResult, len(adapters))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, ad := range adapters {
		eg.Go(func() error {
			results[i] = e.runOne(egCtx, filter, ad)
			return nil
		})
	}
	// Goroutines never return errors; failures live in the per-source
	// status.
	_ = eg.Wait()

	return results
}

func (e *Executor) runOne(ctx context.Context, filter query.Node, ad source.Adapter) (res SourceResult) {
	res = SourceResult{Tag: ad.Tag()}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("source adapter panicked",
				zap.String("source", string(ad.Tag())),
				zap.Any("panic", r))
			res.Records = nil
			res.Status = SourceStatus{Code: StatusFailed, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := time.Now()
	recs, err := ad.Execute(callCtx, filter)
	elapsed := time.Since(started)

	if err != nil {
		res.Status = e.classify(ctx, callCtx, err)
		e.logger.Warn("source execution degraded",
			zap.String("source", string(ad.Tag())),
			zap.String("status", string(res.Status.Code)),
			zap.String("reason", res.Status.Reason),
			zap.Duration("elapsed", elapsed))
		return res
	}

	if !ad.Exact() {
		recs = postFilter(filter, recs)
	}

	res.Records = recs
	res.Status = SourceStatus{Code: StatusOk}
	e.logger.Debug("source execution ok",
		zap.String("source", string(ad.Tag())),
		zap.Int("records", len(recs)),
		zap.Duration("elapsed", elapsed))
	return res
}

// classify maps an adapter error to a source status. The per-call
// deadline means timed-out; cancellation of the whole query means
// failed(cancelled); anything else is failed with the error text.
func (e *Executor) classify(parent, call context.Context, err error) SourceStatus {
	switch {
	case parent.Err() != nil:
		return SourceStatus{Code: StatusFailed, Reason: ReasonCancelled}
	case errors.Is(err, context.DeadlineExceeded) && call.Err() != nil:
		return SourceStatus{Code: StatusTimedOut, Reason: "timeout"}
	case errors.Is(err, context.Canceled):
		return SourceStatus{Code: StatusFailed, Reason: ReasonCancelled}
	default:
		return SourceStatus{Code: StatusFailed, Reason: err.Error()}
	}
}

// postFilter keeps only candidates the tree actually matches; used for
// adapters in over-return mode.
func postFilter(filter query.Node, recs []record.SourceRecord) []record.SourceRecord {
	out := recs[:0]
	for _, r := range recs {
		if query.Matches(filter, r) {
			out = append(out, r)
		}
	}
	return out
}
