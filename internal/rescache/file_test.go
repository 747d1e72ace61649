package rescache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "object:1", []byte(`{"id":1}`), time.Hour))

	raw, found, err := store.Get(context.Background(), "object:1")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"id":1}`, string(raw))
}

func TestFileStoreMiss(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, found, err := store.Get(context.Background(), "object:404")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreExpiry(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	require.NoError(t, store.Set(context.Background(), "timeline:modern", []byte(`[1,2]`), time.Hour))

	// Still fresh just inside the TTL.
	store.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, found, err := store.Get(context.Background(), "timeline:modern")
	require.NoError(t, err)
	assert.True(t, found)

	// Expired past the TTL; the entry is also removed from disk.
	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, found, err = store.Get(context.Background(), "timeline:modern")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = os.Stat(store.path("timeline:modern"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "timeline:baroque", []byte(`[7]`), time.Hour))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	raw, found, err := reopened.Get(context.Background(), "timeline:baroque")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[7]`, string(raw))
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.path("object:1"), []byte("garbage"), 0o644))

	_, found, err := store.Get(context.Background(), "object:1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreOverwrite(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "object:2", []byte(`"old"`), time.Hour))
	require.NoError(t, store.Set(context.Background(), "object:2", []byte(`"new"`), time.Hour))

	raw, found, err := store.Get(context.Background(), "object:2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `"new"`, string(raw))

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(store.path("object:2")))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
