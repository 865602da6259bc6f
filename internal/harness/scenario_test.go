package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify/internal/engine"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarioValidates(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "query: \"region EU\"\nnow: \"2025-02-15\"\n"},
		{"missing query", "name: x\nnow: \"2025-02-15\"\n"},
		{"missing now", "name: x\nquery: \"region EU\"\n"},
		{"bad now", "name: x\nquery: \"region EU\"\nnow: \"February\"\n"},
		{"unknown source", "name: x\nquery: \"region EU\"\nnow: \"2025-02-15\"\nsources:\n  ldap:\n    rows: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestRunTimeoutInjection(t *testing.T) {
	s := &Scenario{
		Name:      "slow_source",
		Query:     "region EU",
		Now:       "2025-02-15",
		TimeoutMS: 20,
		Sources: map[string]SourceFixture{
			"sql": {Rows: []map[string]string{{
				"id": "21", "name": "user21", "region": "EU",
			}}},
			"api": {DelayMS: 500},
		},
	}

	snapshot, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, engine.StatusDegraded, snapshot.Status)
	require.Len(t, snapshot.Rows, 1)
	require.Len(t, snapshot.Sources, 3)
	assert.Equal(t, engine.StatusTimedOut, snapshot.Sources[1].Status)
}

func TestRunSurfacesParseErrors(t *testing.T) {
	s := &Scenario{Name: "bad_query", Query: "frobnicate xyz", Now: "2025-02-15"}
	_, err := Run(s)
	require.Error(t, err)
}
