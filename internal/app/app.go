// Package app wires the services together: configuration in, a ready
// catalog/timeline/API stack out. The CLI subcommands call into this
// package instead of assembling components themselves.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/metscout/metscout/internal/api"
	"github.com/metscout/metscout/internal/blacklist"
	"github.com/metscout/metscout/internal/catalog"
	"github.com/metscout/metscout/internal/conf"
	"github.com/metscout/metscout/internal/logging"
	"github.com/metscout/metscout/internal/metapi"
	"github.com/metscout/metscout/internal/observability"
	"github.com/metscout/metscout/internal/rescache"
	"github.com/metscout/metscout/internal/timeline"
)

// App holds the wired service graph for one process.
type App struct {
	Settings  *conf.Settings
	Metrics   *observability.Metrics
	Cache     *rescache.Cache
	Blacklist *blacklist.Blacklist
	Client    *metapi.Client
	Catalog   *catalog.Service
	Assembler *timeline.Assembler
}

// New builds the full service graph from settings.
func New(ctx context.Context, settings *conf.Settings) (*App, error) {
	m, err := observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("initializing metrics: %w", err)
	}

	store := rescache.NewStoreFromSettings(ctx, &settings.Cache)
	cache := rescache.New(store, m.Cache)

	blocked := blacklist.New(settings.Blacklist.Permanent)

	client, err := metapi.NewClient(metapi.Config{
		BaseURL:       settings.MetAPI.BaseURL,
		UserAgent:     settings.MetAPI.UserAgent,
		SearchTimeout: settings.MetAPI.SearchTimeout,
		ObjectTimeout: settings.MetAPI.ObjectTimeout,
	}, m.Upstream)
	if err != nil {
		return nil, fmt.Errorf("initializing upstream client: %w", err)
	}

	catalogSvc := catalog.NewService(client, cache, blocked,
		settings.Cache.SearchTTL, settings.Cache.ObjectTTL)

	periods, err := timeline.Periods(settings.Timeline.PeriodsFile)
	if err != nil {
		return nil, fmt.Errorf("loading period definitions: %w", err)
	}

	fetcher := timeline.NewFetcher(catalogSvc, blocked, m.Timeline,
		settings.Timeline.BatchSize, settings.Timeline.BatchPause,
		settings.Timeline.PoolFactor)

	assembler := timeline.NewAssembler(catalogSvc, fetcher, cache, periods, m.Timeline,
		timeline.AssemblerConfig{
			PerQueryCap: settings.Timeline.PerQueryCap,
			TimelineTTL: settings.Cache.TimelineTTL,
			NegativeTTL: settings.Cache.NegativeTTL,
		})

	return &App{
		Settings:  settings,
		Metrics:   m,
		Cache:     cache,
		Blacklist: blocked,
		Client:    client,
		Catalog:   catalogSvc,
		Assembler: assembler,
	}, nil
}

// RunServer starts the HTTP proxy and blocks until the context is
// cancelled, then shuts the server down gracefully.
func (a *App) RunServer(ctx context.Context) error {
	controller := api.New(a.Settings, a.Catalog, a.Assembler, a.Metrics)

	errCh := make(chan error, 1)
	go func() {
		errCh <- controller.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := controller.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			return err
		}
		return nil
	}
}
