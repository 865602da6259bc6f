package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"unify/internal/format"
	"unify/internal/query"
	"unify/internal/record"
	"unify/internal/source"
)

// Engine is the unified query engine: parse, fan out, merge, format.
type Engine struct {
	parser   *query.Parser
	executor *Executor
	adapters []source.Adapter
	priority []record.Tag
	logger   *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTimeout sets the per-source execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.executor = NewExecutor(d, e.logger) }
}

// WithPriority overrides the source priority used for merge conflicts.
func WithPriority(priority []record.Tag) Option {
	return func(e *Engine) { e.priority = priority }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.executor = NewExecutor(e.executor.timeout, logger)
	}
}

// WithClock pins the reference time for relative date phrases.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.parser.Now = now }
}

// New builds an engine over the given adapters.
func New(adapters []source.Adapter, opts ...Option) *Engine {
	e := &Engine{
		parser:   query.NewParser(),
		adapters: adapters,
		priority: record.DefaultPriority,
		logger:   zap.NewNop(),
	}
	e.executor = NewExecutor(DefaultTimeout, e.logger)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer is the result of one query.
type Answer struct {
	Table   *format.Table
	Status  Status
	Sources []Diagnostic
}

// Answer resolves query text end to end. Parse errors are returned to
// the caller verbatim; source failures are not errors, they degrade the
// answer instead. An empty table with ok sources is a valid complete
// answer.
func (e *Engine) Answer(ctx context.Context, text string) (*Answer, error) {
	filter, err := e.parser.Parse(text)
	if err != nil {
		return nil, err
	}

	results := e.executor.Run(ctx, filter, e.adapters)
	unified := Merge(results, e.priority)

	status := overallStatus(results)
	e.logger.Info("query answered",
		zap.String("filter", query.Canonical(filter)),
		zap.String("status", string(status)),
		zap.Int("rows", len(unified)))

	return &Answer{
		Table:   format.Build(unified, query.Fields(filter)),
		Status:  status,
		Sources: diagnostics(results),
	}, nil
}
