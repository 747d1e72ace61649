// Package catalog is the server-side proxy service over the museum API:
// single-object, free-text, period, and batch lookups, each backed by
// the response cache. Unlike the timeline assembler it performs no
// shuffling or assembly, just cache-fronted passthrough.
package catalog

import (
	"context"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/metscout/metscout/internal/artwork"
	"github.com/metscout/metscout/internal/blacklist"
	"github.com/metscout/metscout/internal/errors"
	"github.com/metscout/metscout/internal/logging"
	"github.com/metscout/metscout/internal/metapi"
	"github.com/metscout/metscout/internal/rescache"
)

// MaxBatchLookup caps the number of ids a single batch lookup accepts.
const MaxBatchLookup = 20

// Package-level logger specific to the catalog service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "catalog.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "catalog", serviceLevelVar)
	if err != nil {
		log.Printf("Failed to initialize catalog file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "catalog")
		closeLogger = func() error { return nil }
	}
}

// UpstreamClient is the slice of the museum API client the catalog needs.
type UpstreamClient interface {
	Search(ctx context.Context, query string, hasImages bool) (*metapi.SearchResult, error)
	SearchByPeriod(ctx context.Context, departmentIDs []int, dateBegin, dateEnd int, hasImages bool) (*metapi.SearchResult, error)
	GetObject(ctx context.Context, id int) (*metapi.ObjectRecord, error)
}

// Service fronts the upstream client with the response cache and the
// id blacklist.
type Service struct {
	client    UpstreamClient
	cache     *rescache.Cache
	blocked   *blacklist.Blacklist
	searchTTL time.Duration
	objectTTL time.Duration
}

// NewService creates a catalog service. searchTTL is the short tier for
// volatile queries, objectTTL the long tier for near-immutable
// per-object data.
func NewService(client UpstreamClient, cache *rescache.Cache, blocked *blacklist.Blacklist, searchTTL, objectTTL time.Duration) *Service {
	return &Service{
		client:    client,
		cache:     cache,
		blocked:   blocked,
		searchTTL: searchTTL,
		objectTTL: objectTTL,
	}
}

// GetArtwork returns the normalized artwork for an id, serving repeat
// lookups from the long-tier cache. Blacklisted ids return a
// CategoryNotFound error with zero network calls. Failures are never
// cached, so a failing id is retried on the next call until it lands in
// the blacklist.
func (s *Service) GetArtwork(ctx context.Context, id int) (*artwork.Artwork, error) {
	if s.blocked.IsBlocked(id) {
		return nil, errors.Newf("object %d is blacklisted", id).
			Category(errors.CategoryNotFound).
			Context("object_id", id).
			Component("catalog").
			Build()
	}

	return rescache.GetOrCompute(ctx, s.cache, rescache.ObjectKey(id), s.objectTTL, func(ctx context.Context) (*artwork.Artwork, error) {
		rec, err := s.client.GetObject(ctx, id)
		if err != nil {
			switch {
			case errors.IsNotFound(err):
				s.blocked.ReportFailure(id, blacklist.NotFound)
			case metapi.IsServerError(err):
				s.blocked.ReportFailure(id, blacklist.ServerError)
			}
			return nil, err
		}

		a, err := artwork.FromObject(rec)
		if err != nil {
			// Unusable records surface as not-found to the caller; they
			// are a data-quality problem, not a server fault.
			return nil, errors.Newf("object %d has no usable record", id).
				Category(errors.CategoryNotFound).
				Context("object_id", id).
				Component("catalog").
				Build()
		}
		return a, nil
	})
}

// GetArtworks looks up several ids concurrently and returns whatever
// subset succeeded, in input order. It never fails as a whole; an
// oversized request is truncated to MaxBatchLookup ids.
func (s *Service) GetArtworks(ctx context.Context, ids []int) []artwork.Artwork {
	if len(ids) > MaxBatchLookup {
		logger.Debug("batch lookup truncated", "requested", len(ids), "cap", MaxBatchLookup)
		ids = ids[:MaxBatchLookup]
	}

	results := make([]*artwork.Artwork, len(ids))
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := s.GetArtwork(ctx, id)
			if err != nil {
				logger.Debug("batch lookup item failed", "object_id", id, "error", err)
				return
			}
			results[i] = a
		}()
	}
	wg.Wait()

	out := make([]artwork.Artwork, 0, len(ids))
	for _, a := range results {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// Search runs a cached free-text search.
func (s *Service) Search(ctx context.Context, query string, hasImages bool) (*metapi.SearchResult, error) {
	key := rescache.SearchKey(query, hasImages)
	return rescache.GetOrCompute(ctx, s.cache, key, s.searchTTL, func(ctx context.Context) (*metapi.SearchResult, error) {
		return s.client.Search(ctx, query, hasImages)
	})
}

// SearchByPeriod runs a cached department/date-range search.
func (s *Service) SearchByPeriod(ctx context.Context, departmentIDs []int, dateBegin, dateEnd int, hasImages bool) (*metapi.SearchResult, error) {
	key := rescache.PeriodKey(departmentIDs, dateBegin, dateEnd, hasImages)
	return rescache.GetOrCompute(ctx, s.cache, key, s.searchTTL, func(ctx context.Context) (*metapi.SearchResult, error) {
		return s.client.SearchByPeriod(ctx, departmentIDs, dateBegin, dateEnd, hasImages)
	})
}
