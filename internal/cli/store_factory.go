package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/goldi-lab/gift/internal/adapters/file"
	"github.com/goldi-lab/gift/internal/config"
	"github.com/goldi-lab/gift/pkg/adapters/badger"
	"github.com/goldi-lab/gift/pkg/adapters/memory"
	"github.com/goldi-lab/gift/pkg/adapters/redis"
	"github.com/goldi-lab/gift/pkg/persistence/middleware"
	"github.com/goldi-lab/gift/pkg/ports"
)

// Backend is an opened snapshot store with its optional locker.
type Backend struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the connections or files held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore builds the store selected by store.backend and wraps it with
// the configured middlewares. Relative paths resolve against dir.
func OpenStore(cfg config.Config, dir string, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}
	path := cfg.Store.Path
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	switch cfg.Store.Backend {
	case config.BackendFile, "":
		b.Store = file.New(path)
	case config.BackendMemory:
		b.Store = memory.NewStore()
	case config.BackendBadger:
		db, err := badger.Open(badger.Config{Path: path, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		b.Store = db
		b.close = db.Close
	case config.BackendRedis:
		rc := cfg.Store.Redis
		prefix := rc.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(prefix), redis.WithTTL(rc.TTL))
		b.Store = rs
		b.close = rs.Close
		if rc.Lock {
			b.Locker = redis.NewLocker(rs.Client(), prefix)
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	var mws []middleware.Middleware
	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return nil, errors.Join(err, b.Close())
	}
	// Flatten must see the plain snapshot before it gets sealed.
	if cfg.Store.Flatten {
		mws = append(mws, middleware.NewFlattenMiddleware())
	}
	if key != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	b.Store = middleware.Chain(b.Store, mws...)

	logger.Debug("store opened", "backend", cfg.Store.Backend, "path", path, "encrypted", key != nil, "flatten", cfg.Store.Flatten)
	return b, nil
}
