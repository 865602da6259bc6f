package harness

import (
	"context"
	"errors"
	"time"

	"unify/internal/engine"
	"unify/internal/query"
	"unify/internal/record"
	"unify/internal/source"
	"unify/internal/source/memory"
)

// Snapshot is the deterministic serialized answer compared against
// golden files.
type Snapshot struct {
	Scenario string              `json:"scenario"`
	Filter   string              `json:"filter"`
	Status   engine.Status       `json:"status"`
	Columns  []string            `json:"columns"`
	Rows     [][]string          `json:"rows"`
	Sources  []engine.Diagnostic `json:"sources"`
}

// Run executes a scenario against in-memory sources and returns its
// snapshot.
func Run(s *Scenario) (*Snapshot, error) {
	now, err := s.ReferenceTime()
	if err != nil {
		return nil, err
	}

	adapters := make([]source.Adapter, 0, len(record.DefaultPriority))
	for _, tag := range record.DefaultPriority {
		fixture := s.Sources[string(tag)]
		a := memory.New(tag, fixtureRows(fixture))
		if fixture.Fail != "" {
			a.Err = errors.New(fixture.Fail)
		}
		if fixture.DelayMS > 0 {
			a.Delay = time.Duration(fixture.DelayMS) * time.Millisecond
		}
		adapters = append(adapters, a)
	}

	opts := []engine.Option{
		engine.WithClock(func() time.Time { return now }),
	}
	if s.TimeoutMS > 0 {
		opts = append(opts, engine.WithTimeout(time.Duration(s.TimeoutMS)*time.Millisecond))
	}

	eng := engine.New(adapters, opts...)
	answer, err := eng.Answer(context.Background(), s.Query)
	if err != nil {
		return nil, err
	}

	// The parse already succeeded inside Answer; re-derive the
	// canonical form for the snapshot.
	parser := query.NewParser()
	parser.Now = func() time.Time { return now }
	filter, err := parser.Parse(s.Query)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Scenario: s.Name,
		Filter:   query.Canonical(filter),
		Status:   answer.Status,
		Columns:  answer.Table.Columns,
		Rows:     answer.Table.Rows,
		Sources:  answer.Sources,
	}, nil
}
