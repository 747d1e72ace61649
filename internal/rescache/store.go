package rescache

import (
	"context"

	"github.com/metscout/metscout/internal/conf"
)

// NewStoreFromSettings builds the configured cache store backend. An
// unreachable or misconfigured backend degrades to the in-memory store
// with a warning rather than failing startup: a cold cache is always
// preferable to no service.
func NewStoreFromSettings(ctx context.Context, settings *conf.CacheSettings) Store {
	switch settings.Store {
	case "file":
		store, err := NewFileStore(settings.File.Path)
		if err != nil {
			logger.Warn("file cache store unavailable, falling back to memory",
				"path", settings.File.Path,
				"error", err)
			return NewMemoryStore(settings.SearchTTL)
		}
		return store
	case "redis":
		store, err := NewRedisStore(ctx, settings.Redis.Addr, settings.Redis.Password, settings.Redis.DB)
		if err != nil {
			logger.Warn("redis cache store unavailable, falling back to memory",
				"addr", settings.Redis.Addr,
				"error", err)
			return NewMemoryStore(settings.SearchTTL)
		}
		return store
	default:
		return NewMemoryStore(settings.SearchTTL)
	}
}
