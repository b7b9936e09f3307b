// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/streamshelf/config.yaml",
	"/etc/streamshelf/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		TMDB: TMDBConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			WebBaseURL:        "https://www.themoviedb.org",
			APIKey:            "", // Feed degrades to empty shelves without it
			Language:          "en-US",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 40,
			Burst:             20,
		},
		Streaming: StreamingConfig{
			BaseURL:           "https://streaming-availability.p.rapidapi.com",
			APIKey:            "", // Recently added shelves are omitted without it
			Host:              "streaming-availability.p.rapidapi.com",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Feed: FeedConfig{
			DefaultCountry:          "US",
			ShelvesPerPage:          6,
			MaxShelvesPerPage:       12,
			ItemsPerShelf:           20,
			BackfillHeadroom:        8,
			MaxShelfPages:           5,
			ShelfConcurrency:        4,
			AvailabilityConcurrency: 24,
			PrimaryScanBudget:       4,
			SecondaryScanBudget:     6,
			MinRowFloor:             8,
			RecentRounds:            3,
			GeoHeaders:              []string{"CF-IPCountry", "X-Country-Code"},
		},
		Cache: CacheConfig{
			FeedTTL:         20 * time.Minute,
			ShelfTTL:        20 * time.Minute,
			ShelfCatalogTTL: 30 * time.Minute,
			AvailabilityTTL: 6 * time.Hour,
			ProviderMapTTL:  6 * time.Hour,
			GenreTTL:        24 * time.Hour,
			PageTTL:         30 * time.Minute,
			RecentTTL:       10 * time.Minute,
			WatchLinksTTL:   6 * time.Hour,
			ListTTL:         24 * time.Hour,
			CleanupInterval: 5 * time.Minute,

			AvailabilityFailureTTL: time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			UserHeader:        "X-User-ID",
		},
		Preferences: PreferencesConfig{
			Path: "/data/preferences.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"feed.geo_headers",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// TMDB
	"tmdb_api_key":             "tmdb.api_key",
	"tmdb_base_url":            "tmdb.base_url",
	"tmdb_web_base_url":        "tmdb.web_base_url",
	"tmdb_language":            "tmdb.language",
	"tmdb_timeout":             "tmdb.timeout",
	"tmdb_requests_per_second": "tmdb.requests_per_second",
	"tmdb_burst":               "tmdb.burst",

	// Streaming availability (RapidAPI)
	"streaming_api_key":             "streaming.api_key",
	"rapidapi_key":                  "streaming.api_key",
	"streaming_base_url":            "streaming.base_url",
	"streaming_host":                "streaming.host",
	"streaming_timeout":             "streaming.timeout",
	"streaming_requests_per_second": "streaming.requests_per_second",
	"streaming_burst":               "streaming.burst",

	// Feed engine
	"feed_default_country":          "feed.default_country",
	"feed_shelves_per_page":         "feed.shelves_per_page",
	"feed_max_shelves_per_page":     "feed.max_shelves_per_page",
	"feed_items_per_shelf":          "feed.items_per_shelf",
	"feed_backfill_headroom":        "feed.backfill_headroom",
	"feed_max_shelf_pages":          "feed.max_shelf_pages",
	"feed_shelf_concurrency":        "feed.shelf_concurrency",
	"feed_availability_concurrency": "feed.availability_concurrency",
	"feed_primary_scan_budget":      "feed.primary_scan_budget",
	"feed_secondary_scan_budget":    "feed.secondary_scan_budget",
	"feed_min_row_floor":            "feed.min_row_floor",
	"feed_recent_rounds":            "feed.recent_rounds",
	"feed_geo_headers":              "feed.geo_headers",

	// Cache TTLs
	"cache_feed_ttl":          "cache.feed_ttl",
	"cache_shelf_ttl":         "cache.shelf_ttl",
	"cache_shelf_catalog_ttl": "cache.shelf_catalog_ttl",
	"cache_availability_ttl":  "cache.availability_ttl",
	"cache_provider_map_ttl":  "cache.provider_map_ttl",
	"cache_genre_ttl":         "cache.genre_ttl",
	"cache_page_ttl":          "cache.page_ttl",
	"cache_recent_ttl":        "cache.recent_ttl",
	"cache_watch_links_ttl":   "cache.watch_links_ttl",
	"cache_list_ttl":          "cache.list_ttl",
	"cache_cleanup_interval":  "cache.cleanup_interval",

	"cache_availability_failure_ttl": "cache.availability_failure_ttl",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"trusted_user_header": "security.user_header",

	// Preferences
	"preferences_path": "preferences.path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> tmdb.api_key
//   - FEED_PRIMARY_SCAN_BUDGET -> feed.primary_scan_budget
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// never leak into the configuration
	return ""
}
