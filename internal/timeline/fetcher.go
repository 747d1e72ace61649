package timeline

import (
	"context"
	"sync"
	"time"

	"github.com/metscout/metscout/internal/artwork"
	"github.com/metscout/metscout/internal/blacklist"
	"github.com/metscout/metscout/internal/observability/metrics"
)

// ObjectFetcher yields normalized artworks by object id. In production
// this is the catalog service, so per-object fetches share its cache,
// its blacklist reporting and its validation.
type ObjectFetcher interface {
	GetArtwork(ctx context.Context, id int) (*artwork.Artwork, error)
}

// OnFound receives each accepted record as soon as it is accepted, before
// the whole operation completes, so callers can render or cache
// progressively.
type OnFound func(artwork.Artwork)

// Fetcher works through a candidate id list in bounded concurrent batches
// until a target number of valid, in-range records has been collected.
type Fetcher struct {
	client     ObjectFetcher
	blocked    *blacklist.Blacklist
	metrics    *metrics.TimelineMetrics // may be nil
	batchSize  int
	batchPause time.Duration
	poolFactor int
}

// NewFetcher creates a batch fetcher. batchSize bounds per-batch
// concurrency, batchPause is the inter-batch backoff, and poolFactor caps
// the candidate pool at target*poolFactor to bound worst-case work.
func NewFetcher(client ObjectFetcher, blocked *blacklist.Blacklist, m *metrics.TimelineMetrics, batchSize int, batchPause time.Duration, poolFactor int) *Fetcher {
	if batchSize <= 0 {
		batchSize = 30
	}
	if poolFactor <= 0 {
		poolFactor = 40
	}
	return &Fetcher{
		client:     client,
		blocked:    blocked,
		metrics:    m,
		batchSize:  batchSize,
		batchPause: batchPause,
		poolFactor: poolFactor,
	}
}

// FetchUntil fetches candidates in batches, accepting records that carry
// a valid image and overlap [startDate, endDate], until target records
// are collected or candidates exhaust. Accepted records are streamed to
// onFound (which may be nil) in acceptance order.
//
// Per-object failures are silently excluded; the object fetcher reports
// ids that 404 or hit a server error to the shared blacklist, so they
// are never retried this process lifetime. The only returned error is
// context cancellation.
func (f *Fetcher) FetchUntil(ctx context.Context, candidateIDs []int, target, startDate, endDate int, onFound OnFound) ([]artwork.Artwork, error) {
	if target <= 0 || len(candidateIDs) == 0 {
		return []artwork.Artwork{}, nil
	}

	candidates := f.blocked.Filter(candidateIDs)
	if f.metrics != nil {
		for range len(candidateIDs) - len(candidates) {
			f.metrics.IncrementBlacklistSkips()
		}
	}

	// Bound worst-case work on sparse candidate pools.
	if maxPool := target * f.poolFactor; len(candidates) > maxPool {
		candidates = candidates[:maxPool]
	}

	found := make([]artwork.Artwork, 0, target)

	for offset := 0; offset < len(candidates) && len(found) < target; offset += f.batchSize {
		if offset > 0 && f.batchPause > 0 {
			select {
			case <-ctx.Done():
				return found, ctx.Err()
			case <-time.After(f.batchPause):
			}
		}

		end := min(offset+f.batchSize, len(candidates))
		batch := candidates[offset:end]

		for _, a := range f.fetchBatch(ctx, batch, startDate, endDate) {
			if len(found) >= target {
				break
			}
			found = append(found, a)
			if f.metrics != nil {
				f.metrics.IncrementRecordsAccepted()
			}
			if onFound != nil {
				onFound(a)
			}
		}

		if ctx.Err() != nil {
			return found, ctx.Err()
		}
	}

	return found, nil
}

// fetchBatch issues all per-object fetches of one batch concurrently and
// waits for the whole batch. Accepted records come back in completion
// order, not submission order.
func (f *Fetcher) fetchBatch(ctx context.Context, ids []int, startDate, endDate int) []artwork.Artwork {
	if f.metrics != nil {
		f.metrics.IncrementBatchesFetched()
	}

	results := make(chan artwork.Artwork, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if a := f.fetchOne(ctx, id, startDate, endDate); a != nil {
				results <- *a
			}
		}()
	}

	wg.Wait()
	close(results)

	accepted := make([]artwork.Artwork, 0, len(ids))
	for a := range results {
		accepted = append(accepted, a)
	}
	return accepted
}

// fetchOne fetches and validates a single candidate, returning nil when
// the record is discarded for any reason.
func (f *Fetcher) fetchOne(ctx context.Context, id, startDate, endDate int) *artwork.Artwork {
	a, err := f.client.GetArtwork(ctx, id)
	if err != nil {
		if f.metrics != nil {
			f.metrics.IncrementRecordsDiscarded("fetch_error")
		}
		return nil
	}

	if !a.InRange(startDate, endDate) {
		if f.metrics != nil {
			f.metrics.IncrementRecordsDiscarded("out_of_range")
		}
		return nil
	}

	return a
}
