// Package rescache implements the response cache used in front of the
// museum API: a key/value store with per-entry TTL, wrapped by a
// compute-on-miss helper with single-flight coalescing so concurrent
// callers racing on the same missing key share one computation.
package rescache

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/metscout/metscout/internal/logging"
	"github.com/metscout/metscout/internal/observability/metrics"
)

// Package-level logger specific to the rescache service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "rescache.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "rescache", serviceLevelVar)
	if err != nil {
		log.Printf("Failed to initialize rescache file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "rescache")
		closeLogger = func() error { return nil }
	}
}

// Store is a key/value backend with per-entry TTL. Implementations must
// treat expired entries as absent. A failing backend must not take the
// application down: callers degrade to always-miss.
type Store interface {
	// Get returns the raw serialized value for key, or found=false when
	// the key is absent or expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key for the given TTL, overwriting any
	// previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache wraps a Store with JSON serialization and single-flight
// compute-on-miss semantics.
type Cache struct {
	store   Store
	group   singleflight.Group
	metrics *metrics.CacheMetrics // may be nil
}

// New creates a Cache over the given store. The metrics argument may be nil.
func New(store Store, m *metrics.CacheMetrics) *Cache {
	return &Cache{
		store:   store,
		metrics: m,
	}
}

// tierOf derives the metrics tier label from a cache key prefix,
// e.g. "object:12345" -> "object".
func tierOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}

// GetOrCompute returns the cached value for key if present and fresh;
// otherwise it invokes compute, stores the result under key with the
// given TTL, and returns it.
//
// Failure semantics: a compute failure is returned to the caller and
// never cached, so subsequent calls retry the computation. A store read
// failure degrades to a miss; a store write failure is logged and the
// freshly computed value is still returned.
//
// Concurrent callers racing on the same missing key are coalesced: only
// one compute runs per key, the others receive the same result.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if raw, found := c.lookup(ctx, key); found {
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			if c.metrics != nil {
				c.metrics.IncrementHits(tierOf(key))
			}
			return value, nil
		}
		// Undecodable entry, treat as a miss and recompute.
		logger.Warn("discarding undecodable cache entry", "key", key)
	}

	if c.metrics != nil {
		c.metrics.IncrementMisses(tierOf(key))
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		value, err := compute(ctx)
		if err != nil {
			if c.metrics != nil {
				c.metrics.IncrementComputeFails()
			}
			return zero, err
		}

		raw, err := json.Marshal(value)
		if err != nil {
			// Unserializable values are returned but not cached.
			logger.Error("failed to serialize cache value", "key", key, "error", err)
			return value, nil
		}

		if err := c.store.Set(ctx, key, raw, ttl); err != nil {
			if c.metrics != nil {
				c.metrics.IncrementStoreErrors()
			}
			logger.Warn("cache write failed, continuing without caching", "key", key, "error", err)
		}

		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := result.(T)
	if !ok {
		// A concurrent caller computed a different type under this key.
		// Decode through JSON as a safety net.
		raw, merr := json.Marshal(result)
		if merr == nil {
			var v T
			if uerr := json.Unmarshal(raw, &v); uerr == nil {
				return v, nil
			}
		}
		return zero, err
	}

	return value, nil
}

// Lookup returns the cached value for key when present, fresh, and
// decodable, counting the hit or miss. It is for callers whose hit
// condition is more involved than GetOrCompute's (e.g. a cached list
// must also be long enough to serve the request).
func Lookup[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var value T

	raw, found := c.lookup(ctx, key)
	if !found {
		if c.metrics != nil {
			c.metrics.IncrementMisses(tierOf(key))
		}
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn("discarding undecodable cache entry", "key", key)
		if c.metrics != nil {
			c.metrics.IncrementMisses(tierOf(key))
		}
		return value, false
	}

	if c.metrics != nil {
		c.metrics.IncrementHits(tierOf(key))
	}
	return value, true
}

// Put stores a value under key with the given TTL. Write failures are
// logged and swallowed: losing a cache write never fails the operation.
func (c *Cache) Put(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Error("failed to serialize cache value", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		if c.metrics != nil {
			c.metrics.IncrementStoreErrors()
		}
		logger.Warn("cache write failed, continuing without caching", "key", key, "error", err)
	}
}

// lookup reads a raw entry from the store, degrading backend errors to a miss.
func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncrementStoreErrors()
		}
		logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return raw, found
}
