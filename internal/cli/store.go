package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/deepset"
	"github.com/aretw0/deepset/internal/config"
	"github.com/aretw0/deepset/pkg/adapters/file"
	"github.com/aretw0/deepset/pkg/adapters/loam"
	"github.com/aretw0/deepset/pkg/adapters/memory"
	"github.com/aretw0/deepset/pkg/adapters/redis"
	"github.com/aretw0/deepset/pkg/adapters/sqlite"
	"github.com/aretw0/deepset/pkg/document"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/persistence/middleware"
	"github.com/aretw0/deepset/pkg/ports"
)

// Backend is an opened store with its optional locker.
type Backend struct {
	Store  ports.DocumentStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases connections held by the store.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend creates the store selected by cfg and wraps it with the
// configured masking and encryption middlewares.
func OpenBackend(cfg config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Store {
	case config.StoreMemory:
		b.Store = memory.NewStore()
	case config.StoreFile:
		format, err := file.ParseFormat(cfg.Format)
		if err != nil {
			return nil, err
		}
		b.Store = file.New(cfg.Dir, format)
	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.Store, b.close = s, s.Close
	case config.StoreRedis:
		opts := []redis.Option{redis.WithPrefix(cfg.RedisPrefix)}
		if cfg.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.RedisTTL))
		}
		s := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		b.Store, b.close = s, s.Close
		if cfg.RedisLock {
			b.Locker = redis.NewLocker(s.Client(), cfg.RedisPrefix+"lock:")
		}
	case config.StoreLoam:
		s, err := loam.Open(cfg.Dir)
		if err != nil {
			return nil, err
		}
		b.Store = s
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	var mws []middleware.Middleware
	if len(cfg.MaskedPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.MaskedPatterns))
	}
	active, fallback, err := cfg.Keys()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	b.Store = middleware.Chain(b.Store, mws...)

	logger.Debug("store opened", "store", cfg.Store, "encrypted", active != nil, "masked", len(cfg.MaskedPatterns))
	return b, nil
}

// NewSetter builds the Setter described by cfg.
func NewSetter(cfg config.Config, logger *slog.Logger, hooks domain.Hooks) (*deepset.Setter, error) {
	opts := []deepset.Option{
		deepset.WithLogger(logger),
		deepset.WithHooks(hooks),
		deepset.WithMaxHoles(cfg.MaxHoles),
	}
	re, err := cfg.MatchPattern()
	if err != nil {
		return nil, err
	}
	if re != nil {
		opts = append(opts, deepset.WithMatch(re))
	}
	return deepset.New(opts...), nil
}

// NewManager opens the backend and builds a document manager over it.
func NewManager(cfg config.Config, logger *slog.Logger, hooks domain.Hooks) (*document.Manager, *Backend, error) {
	setter, err := NewSetter(cfg, logger, hooks)
	if err != nil {
		return nil, nil, err
	}
	backend, err := OpenBackend(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []document.Option{
		document.WithSetter(setter),
		document.WithLogger(logger),
		document.WithLockTTL(cfg.LockTTL),
	}
	if backend.Locker != nil {
		opts = append(opts, document.WithLocker(backend.Locker))
	}
	return document.NewManager(backend.Store, opts...), backend, nil
}
