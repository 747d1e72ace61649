package timeline

import (
	"context"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/metscout/metscout/internal/artwork"
	"github.com/metscout/metscout/internal/logging"
	"github.com/metscout/metscout/internal/metapi"
	"github.com/metscout/metscout/internal/observability/metrics"
	"github.com/metscout/metscout/internal/rescache"
	"github.com/metscout/metscout/internal/shuffle"
)

// Package-level logger specific to the timeline service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "timeline.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "timeline", serviceLevelVar)
	if err != nil {
		log.Printf("Failed to initialize timeline file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "timeline")
		closeLogger = func() error { return nil }
	}
}

// Searcher is the slice of the upstream client the assembler needs.
type Searcher interface {
	Search(ctx context.Context, query string, hasImages bool) (*metapi.SearchResult, error)
}

// Assembler orchestrates curated timeline assembly: run the period's
// search queries, merge and dedupe the ids, shuffle them with today's
// seed, batch-fetch until the limit is reached, and cache the result.
type Assembler struct {
	searcher    Searcher
	fetcher     *Fetcher
	cache       *rescache.Cache
	periods     map[string]Period
	metrics     *metrics.TimelineMetrics // may be nil
	perQueryCap int
	timelineTTL time.Duration
	negativeTTL time.Duration

	// now feeds the daily shuffle seed; injectable for tests.
	now func() time.Time
}

// AssemblerConfig carries the assembly tuning knobs.
type AssemblerConfig struct {
	PerQueryCap int           // max ids taken from each query before merging
	TimelineTTL time.Duration // TTL for assembled timelines
	NegativeTTL time.Duration // TTL for empty results, 0 disables negative caching
}

// NewAssembler creates a timeline assembler over the given collaborators.
func NewAssembler(searcher Searcher, fetcher *Fetcher, cache *rescache.Cache, periods map[string]Period, m *metrics.TimelineMetrics, cfg AssemblerConfig) *Assembler {
	if cfg.PerQueryCap <= 0 {
		cfg.PerQueryCap = 50
	}
	if cfg.TimelineTTL <= 0 {
		cfg.TimelineTTL = 24 * time.Hour
	}
	return &Assembler{
		searcher:    searcher,
		fetcher:     fetcher,
		cache:       cache,
		periods:     periods,
		metrics:     m,
		perQueryCap: cfg.PerQueryCap,
		timelineTTL: cfg.TimelineTTL,
		negativeTTL: cfg.NegativeTTL,
		now:         time.Now,
	}
}

// Period returns the definition for a period key.
func (a *Assembler) Period(key string) (Period, bool) {
	p, ok := a.periods[key]
	return p, ok
}

// Periods returns all configured periods sorted by start date.
func (a *Assembler) Periods() []Period {
	out := make([]Period, 0, len(a.periods))
	for _, p := range a.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// GetCuratedTimeline returns up to limit artworks for a period. On a
// cache hit the stored list is replayed through onFound so callers
// relying on streaming semantics observe every record whether it came
// from cache or fresh assembly. An unknown period key yields an empty
// list without error: unconfigured periods are legitimately empty, not
// a fault.
func (a *Assembler) GetCuratedTimeline(ctx context.Context, periodKey string, limit int, onFound OnFound) ([]artwork.Artwork, error) {
	period, ok := a.periods[periodKey]
	if !ok {
		logger.Debug("unknown timeline period requested", "period", periodKey)
		return []artwork.Artwork{}, nil
	}

	key := rescache.TimelineKey(periodKey)

	if cached, found := rescache.Lookup[[]artwork.Artwork](ctx, a.cache, key); found {
		// An empty cached list is a negative entry: the last assembly
		// found nothing, don't hammer the upstream until it expires.
		if len(cached) >= limit || len(cached) == 0 {
			logger.Debug("timeline cache hit",
				"period", periodKey,
				"records", len(cached))
			if onFound != nil {
				for _, rec := range cached {
					onFound(rec)
				}
			}
			return cached, nil
		}
	}

	start := a.now()

	candidates := a.collectCandidates(ctx, period)
	seed := shuffle.DailySeed(a.now())
	shuffled := shuffle.Shuffle(candidates, seed)

	found, err := a.fetcher.FetchUntil(ctx, shuffled, limit, period.StartDate, period.EndDate, onFound)
	if err != nil {
		// Cancelled mid-assembly: surface what was collected, skip the
		// cache write so a later call assembles the full set.
		return found, err
	}

	if a.metrics != nil {
		a.metrics.ObserveAssemblyDuration(a.now().Sub(start).Seconds())
	}

	switch {
	case len(found) > 0:
		a.cache.Put(ctx, key, found, a.timelineTTL)
	case a.negativeTTL > 0:
		a.cache.Put(ctx, key, found, a.negativeTTL)
	}

	logger.Info("timeline assembled",
		"period", periodKey,
		"limit", limit,
		"candidates", len(candidates),
		"records", len(found),
		"seed", seed)

	return found, nil
}

// collectCandidates runs all of the period's queries concurrently,
// capping each query's contribution, and merges the ids into a deduped
// list preserving first-seen order. A failing query degrades to an
// empty contribution without aborting the others.
func (a *Assembler) collectCandidates(ctx context.Context, period Period) []int {
	perQuery := make([][]int, len(period.Queries))
	var wg sync.WaitGroup

	for i, query := range period.Queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := a.searcher.Search(ctx, query, true)
			if err != nil {
				logger.Warn("timeline query failed, continuing without it",
					"period", period.Key,
					"query", query,
					"error", err)
				return
			}
			ids := result.ObjectIDs
			if len(ids) > a.perQueryCap {
				ids = ids[:a.perQueryCap]
			}
			perQuery[i] = ids
		}()
	}
	wg.Wait()

	seen := make(map[int]struct{})
	merged := make([]int, 0, len(period.Queries)*a.perQueryCap)
	for _, ids := range perQuery {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
