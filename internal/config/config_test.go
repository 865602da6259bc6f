package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify/internal/record"
)

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "unify.db", cfg.Database)
	assert.Equal(t, []string{"users.csv", "users.xlsx"}, cfg.Files)
	assert.Equal(t, "http://localhost:9090", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
	assert.Equal(t, 500, cfg.Limit)
	assert.Equal(t, record.DefaultPriority, cfg.PriorityTags())
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.cue")
	data := `
database: "/tmp/demo.db"
timeout_ms: 750
priority: ["file", "sql", "api"]
api: key: "other-key"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/demo.db", cfg.Database)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout())
	assert.Equal(t, []record.Tag{record.TagFile, record.TagSQL, record.TagAPI}, cfg.PriorityTags())
	assert.Equal(t, "other-key", cfg.API.Key)
	// Untouched fields keep their defaults.
	assert.Equal(t, ":8080", cfg.Listen)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.NoError(t, err)
	assert.Equal(t, "unify.db", cfg.Database)
}

func TestRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown source tag", `priority: ["sql", "ldap"]`},
		{"non-positive timeout", `timeout_ms: 0`},
		{"wrong type", `listen: 8080`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.cue")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
