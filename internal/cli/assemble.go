package cli

import (
	"go.uber.org/zap"

	"unify/internal/config"
	"unify/internal/engine"
	"unify/internal/logging"
	"unify/internal/source"
	"unify/internal/source/flatfile"
	"unify/internal/source/rest"
	"unify/internal/source/sqlite"
)

// assembly holds a fully wired engine and the resources behind it.
type assembly struct {
	cfg    config.Config
	engine *engine.Engine
	logger *zap.Logger
	store  *sqlite.Store
}

func (a *assembly) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logger != nil {
		a.logger.Sync()
	}
}

// assemble loads config and wires the three sources into an engine.
func assemble(opts *RootOptions) (*assembly, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	logger, err := logging.New(opts.Verbose)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "init logging", err)
	}

	store, err := sqlite.Open(cfg.Database)
	if err != nil {
		logger.Sync()
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}

	client := rest.NewClient(cfg.API.BaseURL, cfg.API.Key, cfg.CacheTTL())
	adapters := []source.Adapter{
		sqlite.NewAdapter(store, cfg.Limit),
		rest.NewAdapter(client),
		flatfile.NewAdapter(cfg.Files, logger),
	}

	eng := engine.New(adapters,
		engine.WithTimeout(cfg.Timeout()),
		engine.WithPriority(cfg.PriorityTags()),
		engine.WithLogger(logger))

	return &assembly{cfg: cfg, engine: eng, logger: logger, store: store}, nil
}
