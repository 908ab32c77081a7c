package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/internal/config"
	"github.com/goldi-lab/gift/internal/logging"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/observability"
)

// LoadConfig reads --config, or gift.yaml in the project directory if present.
func LoadConfig(opts Options) (config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	path := filepath.Join(opts.Dir, config.DefaultFile)
	if _, err := os.Stat(path); err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

// createLogger writes to stderr so stdout stays clean for command output.
// --debug wins over log.level.
func createLogger(cfg config.Config, debug bool) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	return logging.NewWithWriter(os.Stderr, level, cfg.Log.Format == "json")
}

// createEngine initializes an engine with standard CLI conventions.
func createEngine(cfg config.Config, logger *slog.Logger, debug bool, hooks ...domain.LifecycleHooks) *gift.Engine {
	if debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}
	engineOpts := []gift.Option{
		gift.WithLogger(logger),
		gift.WithMaxVersions(cfg.History.MaxVersions),
	}
	if cfg.History.ArrayLCS {
		engineOpts = append(engineOpts, gift.WithArrayLCS())
	}
	if len(hooks) > 0 {
		engineOpts = append(engineOpts, gift.WithLifecycleHooks(observability.Combine(hooks...)))
	}
	return gift.New(engineOpts...)
}
