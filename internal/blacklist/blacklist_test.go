package blacklist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermanentEntries(t *testing.T) {
	t.Parallel()

	b := New([]int{100, 200})

	assert.True(t, b.IsBlocked(100))
	assert.True(t, b.IsBlocked(200))
	assert.False(t, b.IsBlocked(300))
}

func TestReportFailure(t *testing.T) {
	t.Parallel()

	b := New(nil)
	assert.False(t, b.IsBlocked(42))

	b.ReportFailure(42, NotFound)
	assert.True(t, b.IsBlocked(42))

	b.ReportFailure(43, ServerError)
	assert.True(t, b.IsBlocked(43))

	assert.Equal(t, 2, b.RuntimeLen())
}

func TestFilterPreservesOrder(t *testing.T) {
	t.Parallel()

	b := New([]int{2, 4})
	b.ReportFailure(5, NotFound)

	got := b.Filter([]int{1, 2, 3, 4, 5, 6})
	assert.Equal(t, []int{1, 3, 6}, got)
}

func TestFilterEmpty(t *testing.T) {
	t.Parallel()

	b := New(nil)
	assert.Empty(t, b.Filter(nil))
	assert.Empty(t, b.Filter([]int{}))
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	b := New([]int{1})
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.ReportFailure(i, NotFound)
		}()
		go func() {
			defer wg.Done()
			_ = b.IsBlocked(i)
			_ = b.Filter([]int{i, i + 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, b.RuntimeLen())
}
