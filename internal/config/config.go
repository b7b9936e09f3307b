// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package config

import "time"

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	TMDB        TMDBConfig        `koanf:"tmdb"`
	Streaming   StreamingConfig   `koanf:"streaming"`
	Feed        FeedConfig        `koanf:"feed"`
	Cache       CacheConfig       `koanf:"cache"`
	Security    SecurityConfig    `koanf:"security"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// TMDBConfig configures the catalog and watch-provider upstream.
type TMDBConfig struct {
	BaseURL    string `koanf:"base_url"`
	WebBaseURL string `koanf:"web_base_url"` // public site, scraped for watch links
	APIKey     string `koanf:"api_key"`
	Language   string `koanf:"language"`

	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// StreamingConfig configures the recently-added change feed upstream.
type StreamingConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Host    string `koanf:"host"`

	// CatalogCodes overrides or extends the built-in provider id to catalog
	// code table, keyed by provider id as a string.
	CatalogCodes map[string]string `koanf:"catalog_codes"`

	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// FeedConfig holds the pagination, budget and concurrency knobs of the feed engine.
type FeedConfig struct {
	DefaultCountry string `koanf:"default_country"`

	ShelvesPerPage    int `koanf:"shelves_per_page"`
	MaxShelvesPerPage int `koanf:"max_shelves_per_page"`
	ItemsPerShelf     int `koanf:"items_per_shelf"`
	BackfillHeadroom  int `koanf:"backfill_headroom"` // extra items built per shelf for cross-shelf backfill
	MaxShelfPages     int `koanf:"max_shelf_pages"`   // cap on pages= for the single-shelf endpoint

	ShelfConcurrency        int `koanf:"shelf_concurrency"`
	AvailabilityConcurrency int `koanf:"availability_concurrency"`

	PrimaryScanBudget   int `koanf:"primary_scan_budget"`
	SecondaryScanBudget int `koanf:"secondary_scan_budget"`
	MinRowFloor         int `koanf:"min_row_floor"`
	RecentRounds        int `koanf:"recent_rounds"`

	// GeoHeaders are consulted in order for a country hint in guest mode.
	GeoHeaders []string `koanf:"geo_headers"`
}

// CacheConfig holds the TTL of each cache domain
type CacheConfig struct {
	FeedTTL         time.Duration `koanf:"feed_ttl"`
	ShelfTTL        time.Duration `koanf:"shelf_ttl"`
	ShelfCatalogTTL time.Duration `koanf:"shelf_catalog_ttl"`
	AvailabilityTTL time.Duration `koanf:"availability_ttl"`
	ProviderMapTTL  time.Duration `koanf:"provider_map_ttl"`
	GenreTTL        time.Duration `koanf:"genre_ttl"`
	PageTTL         time.Duration `koanf:"page_ttl"`
	RecentTTL       time.Duration `koanf:"recent_ttl"`
	WatchLinksTTL   time.Duration `koanf:"watch_links_ttl"`
	ListTTL         time.Duration `koanf:"list_ttl"` // provider and region lists
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// AvailabilityFailureTTL holds a fail-closed decision after a provider
	// lookup error, so a short outage does not hide titles for AvailabilityTTL.
	AvailabilityFailureTTL time.Duration `koanf:"availability_failure_ttl"`
}

// SecurityConfig holds HTTP exposure settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// UserHeader carries the caller identity set by the fronting auth proxy.
	UserHeader string `koanf:"user_header"`
}

// PreferencesConfig configures the saved-preferences store
type PreferencesConfig struct {
	Path string `koanf:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller adds file:line to every log line.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
