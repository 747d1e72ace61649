package rescache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore is a Store persisting one JSON file per entry, with the TTL
// metadata stored alongside the payload. It survives process restarts,
// which makes it the backend for the curated-timeline cache.
type FileStore struct {
	dir string
	now func() time.Time
}

// fileEntry is the on-disk representation of a cache entry.
type fileEntry struct {
	Key      string          `json:"key"`
	CachedAt time.Time       `json:"cached_at"`
	TTLNanos int64           `json:"ttl_ns"`
	Payload  json.RawMessage `json:"payload"`
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// path maps a cache key to a stable file name.
func (s *FileStore) path(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(h[:16])+".json")
}

// Get implements Store. Expired entries are removed opportunistically.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt entry, drop it and report a miss.
		_ = os.Remove(s.path(key))
		return nil, false, nil
	}

	if s.now().Sub(entry.CachedAt) > time.Duration(entry.TTLNanos) {
		_ = os.Remove(s.path(key))
		return nil, false, nil
	}

	return entry.Payload, true, nil
}

// Set implements Store. The entry is written to a temporary file and
// renamed into place so readers never observe partial writes.
func (s *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := fileEntry{
		Key:      key,
		CachedAt: s.now(),
		TTLNanos: int64(ttl),
		Payload:  value,
	}

	raw, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	tempFile, err := os.CreateTemp(s.dir, "entry-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.Write(raw); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tempName, s.path(key)); err != nil {
		_ = os.Remove(tempName)
		return fmt.Errorf("failed to move cache entry into place: %w", err)
	}

	return nil
}
