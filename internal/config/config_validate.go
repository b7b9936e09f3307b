// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package config

import (
	"fmt"
	"strings"
)

// Validate checks that configuration values are present and consistent
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateUpstreams(); err != nil {
		return err
	}

	if err := c.validateFeed(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

// validateUpstreams checks base URLs and pacing. Missing API keys are allowed;
// the feed degrades to empty results instead of failing to start.
func (c *Config) validateUpstreams() error {
	if err := validateBaseURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.TMDB.WebBaseURL, "TMDB_WEB_BASE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Streaming.BaseURL, "STREAMING_BASE_URL"); err != nil {
		return err
	}

	if c.TMDB.RequestsPerSecond <= 0 || c.TMDB.Burst < 1 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND and TMDB_BURST must be positive")
	}
	if c.Streaming.RequestsPerSecond <= 0 || c.Streaming.Burst < 1 {
		return fmt.Errorf("STREAMING_REQUESTS_PER_SECOND and STREAMING_BURST must be positive")
	}
	if c.TMDB.Timeout <= 0 || c.Streaming.Timeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}
	return nil
}

func (c *Config) validateFeed() error {
	f := c.Feed

	if len(strings.TrimSpace(f.DefaultCountry)) != 2 {
		return fmt.Errorf("FEED_DEFAULT_COUNTRY must be a two-letter country code, got %q", f.DefaultCountry)
	}

	positive := map[string]int{
		"FEED_SHELVES_PER_PAGE":         f.ShelvesPerPage,
		"FEED_MAX_SHELVES_PER_PAGE":     f.MaxShelvesPerPage,
		"FEED_ITEMS_PER_SHELF":          f.ItemsPerShelf,
		"FEED_MAX_SHELF_PAGES":          f.MaxShelfPages,
		"FEED_SHELF_CONCURRENCY":        f.ShelfConcurrency,
		"FEED_AVAILABILITY_CONCURRENCY": f.AvailabilityConcurrency,
		"FEED_PRIMARY_SCAN_BUDGET":      f.PrimaryScanBudget,
		"FEED_RECENT_ROUNDS":            f.RecentRounds,
	}
	for name, v := range positive {
		if v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, v)
		}
	}

	if f.SecondaryScanBudget < 0 {
		return fmt.Errorf("FEED_SECONDARY_SCAN_BUDGET must not be negative, got %d", f.SecondaryScanBudget)
	}
	if f.BackfillHeadroom < 0 {
		return fmt.Errorf("FEED_BACKFILL_HEADROOM must not be negative, got %d", f.BackfillHeadroom)
	}
	if f.ShelvesPerPage > f.MaxShelvesPerPage {
		return fmt.Errorf("FEED_SHELVES_PER_PAGE (%d) exceeds FEED_MAX_SHELVES_PER_PAGE (%d)", f.ShelvesPerPage, f.MaxShelvesPerPage)
	}
	if f.MinRowFloor < 0 || f.MinRowFloor > f.ItemsPerShelf {
		return fmt.Errorf("FEED_MIN_ROW_FLOOR must be between 0 and FEED_ITEMS_PER_SHELF, got %d", f.MinRowFloor)
	}
	return nil
}

func (c *Config) validateCache() error {
	ttls := map[string]int64{
		"CACHE_FEED_TTL":          int64(c.Cache.FeedTTL),
		"CACHE_SHELF_TTL":         int64(c.Cache.ShelfTTL),
		"CACHE_SHELF_CATALOG_TTL": int64(c.Cache.ShelfCatalogTTL),
		"CACHE_AVAILABILITY_TTL":  int64(c.Cache.AvailabilityTTL),
		"CACHE_PROVIDER_MAP_TTL":  int64(c.Cache.ProviderMapTTL),
		"CACHE_GENRE_TTL":         int64(c.Cache.GenreTTL),
		"CACHE_PAGE_TTL":          int64(c.Cache.PageTTL),
		"CACHE_RECENT_TTL":        int64(c.Cache.RecentTTL),
		"CACHE_WATCH_LINKS_TTL":   int64(c.Cache.WatchLinksTTL),
		"CACHE_LIST_TTL":          int64(c.Cache.ListTTL),
		"CACHE_CLEANUP_INTERVAL":  int64(c.Cache.CleanupInterval),

		"CACHE_AVAILABILITY_FAILURE_TTL": int64(c.Cache.AvailabilityFailureTTL),
	}
	for name, v := range ttls {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQS must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if strings.TrimSpace(c.Security.UserHeader) == "" {
		return fmt.Errorf("TRUSTED_USER_HEADER must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
