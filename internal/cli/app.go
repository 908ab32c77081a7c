package cli

import (
	"log/slog"

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/internal/config"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/session"
)

// App bundles everything a command needs to work on sessions.
type App struct {
	Options Options
	Config  config.Config
	Logger  *slog.Logger
	Engine  *gift.Engine
	Manager *session.Manager
	backend *Backend
}

// NewApp loads the configuration and opens the session store.
// Callers must Close the app.
func NewApp(opts Options, hooks ...domain.LifecycleHooks) (*App, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := createLogger(cfg, opts.Debug)

	backend, err := OpenStore(cfg, opts.Dir, logger)
	if err != nil {
		return nil, err
	}

	engine := createEngine(cfg, logger, opts.Debug, hooks...)
	mgrOpts := []session.Option{session.WithLogger(logger)}
	if backend.Locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(backend.Locker))
	}

	return &App{
		Options: opts,
		Config:  cfg,
		Logger:  logger,
		Engine:  engine,
		Manager: session.NewManager(backend.Store, engine, mgrOpts...),
		backend: backend,
	}, nil
}

// SessionID is the session selected by --session.
func (a *App) SessionID() string { return a.Options.sessionID() }

func (a *App) Close() error {
	return a.backend.Close()
}
