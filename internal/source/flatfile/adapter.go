package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"unify/internal/query"
	"unify/internal/record"
)

// Adapter reads user rows from a fixed set of export files on every
// query. Files that do not exist are skipped so partial demo setups
// still answer; any other read problem fails the source.
type Adapter struct {
	paths  []string
	logger *zap.Logger
}

func NewAdapter(paths []string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{paths: paths, logger: logger}
}

func (a *Adapter) Tag() record.Tag { return record.TagFile }

// Exact reports false: files hold full exports and the engine filters
// the rows.
func (a *Adapter) Exact() bool { return false }

func (a *Adapter) Execute(ctx context.Context, _ query.Node) ([]record.SourceRecord, error) {
	var out []record.SourceRecord
	for _, path := range a.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := readFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			a.logger.Debug("skipping missing export", zap.String("path", path))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load export: %w", err)
		}
		out = append(out, recs...)
	}
	return out, nil
}
