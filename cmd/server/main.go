// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/streamshelf/internal/api"
	"github.com/tomtom215/streamshelf/internal/availability"
	"github.com/tomtom215/streamshelf/internal/cache"
	"github.com/tomtom215/streamshelf/internal/config"
	"github.com/tomtom215/streamshelf/internal/feed"
	"github.com/tomtom215/streamshelf/internal/logging"
	"github.com/tomtom215/streamshelf/internal/metrics"
	"github.com/tomtom215/streamshelf/internal/pool"
	"github.com/tomtom215/streamshelf/internal/prefs"
	"github.com/tomtom215/streamshelf/internal/shelves"
	"github.com/tomtom215/streamshelf/internal/supervisor"
	"github.com/tomtom215/streamshelf/internal/supervisor/services"
	"github.com/tomtom215/streamshelf/internal/upstream"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// caches holds one cache per domain so TTLs and metrics stay separate.
type caches struct {
	feed         *cache.Cache
	shelf        *cache.Cache
	shelfCatalog *cache.Cache
	decisions    *cache.Cache
	providerMaps *cache.Cache
	pages        *cache.Cache
	recent       *cache.Cache
	lists        *cache.Cache
	links        *cache.Cache
}

func newCaches() caches {
	return caches{
		feed:         cache.New("feed"),
		shelf:        cache.New("shelf"),
		shelfCatalog: cache.New("shelf_catalog"),
		decisions:    cache.New("availability"),
		providerMaps: cache.New("provider_map"),
		pages:        cache.New("page"),
		recent:       cache.New("recent"),
		lists:        cache.New("list"),
		links:        cache.New("watch_links"),
	}
}

func (c caches) all() []services.Sweeper {
	return []services.Sweeper{
		c.feed, c.shelf, c.shelfCatalog, c.decisions, c.providerMaps,
		c.pages, c.recent, c.lists, c.links,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.SetAppInfo(version, runtime.Version())

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Bool("tmdb_configured", cfg.TMDB.APIKey != "").
		Bool("streaming_configured", cfg.Streaming.APIKey != "").
		Str("default_country", cfg.Feed.DefaultCountry).
		Msg("Starting Streamshelf")

	if cfg.TMDB.APIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY is not set; shelves will be empty and catalog lookups will fail")
	}
	if cfg.Streaming.APIKey == "" {
		logging.Info().Msg("Streaming availability key not set; recently added shelves are disabled")
	}

	c := newCaches()

	adapter := upstream.NewAdapter(
		upstream.NewTMDBClient(cfg.TMDB),
		upstream.NewStreamingClient(cfg.Streaming),
		upstream.NewWatchPageScraper(cfg.TMDB),
		upstream.AdapterCaches{
			Pages:  c.pages,
			Recent: c.recent,
			Lists:  c.lists,
			Links:  c.links,
		},
		cfg.Cache,
	)

	resolver := availability.NewResolver(adapter, c.decisions, c.providerMaps,
		cfg.Cache.AvailabilityTTL, cfg.Cache.ProviderMapTTL, cfg.Cache.AvailabilityFailureTTL)
	shelfBuilder := shelves.NewBuilder(adapter, c.shelfCatalog, cfg.Cache.ShelfCatalogTTL)
	poolBuilder := pool.NewBuilder(adapter, resolver, pool.Options{
		PrimaryBudget:   cfg.Feed.PrimaryScanBudget,
		SecondaryBudget: cfg.Feed.SecondaryScanBudget,
		MinRowFloor:     cfg.Feed.MinRowFloor,
		RecentRounds:    cfg.Feed.RecentRounds,
	})

	store, err := prefs.Open(cfg.Preferences.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Preferences.Path).Msg("Failed to open preferences store")
	}
	logging.Info().Int("users", store.Len()).Str("path", cfg.Preferences.Path).Msg("Preferences loaded")

	orchestrator := feed.NewOrchestrator(shelfBuilder, poolBuilder, store, c.feed, c.shelf, cfg.Feed, cfg.Cache)

	handler := api.NewHandler(orchestrator, adapter, resolver, store, cfg, version)
	chiMiddleware := api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security))
	router := api.NewRouter(handler, chiMiddleware, cfg.Server.Timeout)

	// WriteTimeout leaves headroom over the per-request timeout so the
	// timeout envelope can still be written.
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddMaintenanceService(services.NewCacheJanitorService(cfg.Cache.CleanupInterval, c.all()...))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Streamshelf stopped")
}
