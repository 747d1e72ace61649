package rescache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process Store backed by go-cache. Entries expire
// by age and are swept by a background janitor.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store. defaultTTL applies to entries
// stored with ttl <= 0; the janitor sweeps at twice that interval.
func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(defaultTTL, defaultTTL*2),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}

// Flush removes all entries. Used by tests.
func (s *MemoryStore) Flush() {
	s.cache.Flush()
}

// ItemCount returns the number of stored entries, including expired ones
// not yet swept.
func (s *MemoryStore) ItemCount() int {
	return s.cache.ItemCount()
}
