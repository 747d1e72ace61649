package rescache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failStore is a Store whose backend is permanently broken.
type failStore struct{}

func (failStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}

func (failStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("backend down")
}

func TestGetOrComputeCachesValue(t *testing.T) {
	t.Parallel()

	cache := New(NewMemoryStore(time.Minute), nil)
	var computes atomic.Int32

	compute := func(context.Context) (string, error) {
		computes.Add(1)
		return "fresh", nil
	}

	v, err := GetOrCompute(context.Background(), cache, "object:1", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	v, err = GetOrCompute(context.Background(), cache, "object:1", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)

	assert.Equal(t, int32(1), computes.Load(), "second call must be served from cache")
}

func TestGetOrComputeDistinctKeys(t *testing.T) {
	t.Parallel()

	cache := New(NewMemoryStore(time.Minute), nil)
	var computes atomic.Int32

	for _, key := range []string{"object:1", "object:2"} {
		_, err := GetOrCompute(context.Background(), cache, key, time.Minute, func(context.Context) (int, error) {
			computes.Add(1)
			return 42, nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), computes.Load())
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	t.Parallel()

	cache := New(NewMemoryStore(time.Minute), nil)
	var computes atomic.Int32

	compute := func(context.Context) (string, error) {
		computes.Add(1)
		return "", errors.New("upstream failed")
	}

	_, err := GetOrCompute(context.Background(), cache, "search:abc", time.Minute, compute)
	require.Error(t, err)

	_, err = GetOrCompute(context.Background(), cache, "search:abc", time.Minute, compute)
	require.Error(t, err)

	assert.Equal(t, int32(2), computes.Load(), "failures must not be cached")
}

func TestGetOrComputeExpiredEntryRecomputes(t *testing.T) {
	t.Parallel()

	cache := New(NewMemoryStore(time.Minute), nil)
	var computes atomic.Int32

	compute := func(context.Context) (string, error) {
		computes.Add(1)
		return "v", nil
	}

	_, err := GetOrCompute(context.Background(), cache, "search:ttl", 20*time.Millisecond, compute)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = GetOrCompute(context.Background(), cache, "search:ttl", 20*time.Millisecond, compute)
	require.NoError(t, err)
	assert.Equal(t, int32(2), computes.Load())
}

func TestGetOrComputeCoalescesConcurrentCallers(t *testing.T) {
	t.Parallel()

	cache := New(NewMemoryStore(time.Minute), nil)
	var computes atomic.Int32

	compute := func(context.Context) (string, error) {
		computes.Add(1)
		time.Sleep(100 * time.Millisecond)
		return "shared", nil
	}

	const callers = 10
	var wg sync.WaitGroup
	results := make([]string, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := GetOrCompute(context.Background(), cache, "object:7", time.Minute, compute)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), computes.Load(), "concurrent callers must share one compute")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestGetOrComputeDegradesOnBrokenStore(t *testing.T) {
	t.Parallel()

	cache := New(failStore{}, nil)
	var computes atomic.Int32

	compute := func(context.Context) (string, error) {
		computes.Add(1)
		return "computed", nil
	}

	// Both reads and writes fail, so every call recomputes, but callers
	// never see a store error.
	for range 2 {
		v, err := GetOrCompute(context.Background(), cache, "object:9", time.Minute, compute)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)
	}
	assert.Equal(t, int32(2), computes.Load())
}

func TestLookupAndPut(t *testing.T) {
	t.Parallel()

	cache := New(NewMemoryStore(time.Minute), nil)

	_, found := Lookup[[]int](context.Background(), cache, "timeline:renaissance")
	assert.False(t, found)

	cache.Put(context.Background(), "timeline:renaissance", []int{1, 2, 3}, time.Minute)

	v, found := Lookup[[]int](context.Background(), cache, "timeline:renaissance")
	require.True(t, found)
	assert.Equal(t, []int{1, 2, 3}, v)
}

func TestLookupUndecodableEntryIsMiss(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Minute)
	cache := New(store, nil)
	require.NoError(t, store.Set(context.Background(), "object:5", []byte("not json"), time.Minute))

	_, found := Lookup[[]int](context.Background(), cache, "object:5")
	assert.False(t, found)
}

func TestTierOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "object", tierOf("object:123"))
	assert.Equal(t, "search", tierOf("search:abcd"))
	assert.Equal(t, "timeline", tierOf("timeline:modern"))
	assert.Equal(t, "other", tierOf("plainkey"))
}
