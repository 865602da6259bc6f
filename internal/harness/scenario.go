// Package harness runs YAML query scenarios against in-memory sources
// and compares their answers to golden files. Scenarios pin the clock,
// so relative date phrases are deterministic.
package harness

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"unify/internal/record"
)

// Scenario defines one end-to-end query case.
type Scenario struct {
	// Name uniquely identifies the scenario; the golden file is
	// testdata/golden/{Name}.golden.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Query is the free-text input.
	Query string `yaml:"query"`

	// Now pins the reference date (YYYY-MM-DD) for relative phrases.
	Now string `yaml:"now"`

	// Sources configures the three in-memory sources by tag. Absent
	// tags answer with no rows.
	Sources map[string]SourceFixture `yaml:"sources"`

	// TimeoutMS overrides the per-source timeout, for slow-source
	// scenarios. Zero keeps the default.
	TimeoutMS int `yaml:"timeout_ms,omitempty"`
}

// SourceFixture is one source's behavior in a scenario.
type SourceFixture struct {
	// Rows are the source's records, field name to value.
	Rows []map[string]string `yaml:"rows,omitempty"`

	// Fail, if set, makes the source return this error message.
	Fail string `yaml:"fail,omitempty"`

	// DelayMS, if set, stalls the source before answering.
	DelayMS int `yaml:"delay_ms,omitempty"`
}

// LoadScenario reads one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if s.Query == "" {
		return nil, fmt.Errorf("scenario %s: missing query", path)
	}
	if _, err := s.ReferenceTime(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	for tag := range s.Sources {
		switch record.Tag(tag) {
		case record.TagSQL, record.TagAPI, record.TagFile:
		default:
			return nil, fmt.Errorf("scenario %s: unknown source %q", path, tag)
		}
	}
	return &s, nil
}

// ReferenceTime parses the pinned clock.
func (s *Scenario) ReferenceTime() (time.Time, error) {
	if s.Now == "" {
		return time.Time{}, fmt.Errorf("missing now")
	}
	t, err := time.Parse("2006-01-02", s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad now %q: %w", s.Now, err)
	}
	return t, nil
}

// fixtureRows converts YAML rows to record fields.
func fixtureRows(fixture SourceFixture) []record.Fields {
	rows := make([]record.Fields, 0, len(fixture.Rows))
	for _, raw := range fixture.Rows {
		fields := make(record.Fields, len(raw))
		for k, v := range raw {
			fields[record.Field(k)] = v
		}
		rows = append(rows, fields)
	}
	return rows
}
