// Package config loads engine configuration from CUE files. The schema
// carries defaults for every field, so a missing or empty file yields a
// fully usable configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"unify/internal/record"
)

//go:embed schema.cue
var schemaSource string

// API configures the REST source.
type API struct {
	BaseURL    string `json:"base_url"`
	Key        string `json:"key"`
	CacheTTLMS int    `json:"cache_ttl_ms"`
}

// Config is the decoded engine configuration.
type Config struct {
	Listen    string   `json:"listen"`
	Database  string   `json:"database"`
	Files     []string `json:"files"`
	API       API      `json:"api"`
	TimeoutMS int      `json:"timeout_ms"`
	Limit     int      `json:"limit"`
	Priority  []string `json:"priority"`
}

// Timeout returns the per-source deadline.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// CacheTTL returns the API response cache lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.API.CacheTTLMS) * time.Millisecond
}

// PriorityTags converts the configured priority to source tags. The
// schema constrains the values, so unknown tags cannot appear in a
// validated config.
func (c Config) PriorityTags() []record.Tag {
	tags := make([]record.Tag, len(c.Priority))
	for i, p := range c.Priority {
		tags[i] = record.Tag(p)
	}
	return tags
}

// Default returns the configuration with every schema default applied.
func Default() (Config, error) {
	return decode(nil)
}

// Load reads the CUE config at path, unifies it with the schema, and
// decodes it. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return decode(data)
}

func decode(data []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile schema: %w", err)
	}

	value := schema
	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename("config.cue"))
		if err := user.Err(); err != nil {
			return Config{}, fmt.Errorf("compile config: %w", err)
		}
		value = schema.Unify(user)
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
