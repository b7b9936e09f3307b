// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %q", cfg.TMDB.BaseURL)
	}
	if cfg.Feed.DefaultCountry != "US" {
		t.Errorf("Feed.DefaultCountry = %q, want US", cfg.Feed.DefaultCountry)
	}
	if cfg.Feed.PrimaryScanBudget != 4 || cfg.Feed.SecondaryScanBudget != 6 {
		t.Errorf("scan budgets = %d/%d, want 4/6", cfg.Feed.PrimaryScanBudget, cfg.Feed.SecondaryScanBudget)
	}
	if cfg.Feed.ShelfConcurrency >= cfg.Feed.AvailabilityConcurrency {
		t.Errorf("shelf concurrency %d should be below availability concurrency %d",
			cfg.Feed.ShelfConcurrency, cfg.Feed.AvailabilityConcurrency)
	}
	if cfg.Cache.RecentTTL != 10*time.Minute {
		t.Errorf("Cache.RecentTTL = %v, want 10m", cfg.Cache.RecentTTL)
	}
	if cfg.Cache.ShelfCatalogTTL != 30*time.Minute {
		t.Errorf("Cache.ShelfCatalogTTL = %v, want 30m", cfg.Cache.ShelfCatalogTTL)
	}
	if cfg.Cache.AvailabilityFailureTTL != time.Minute || cfg.Cache.AvailabilityFailureTTL >= cfg.Cache.AvailabilityTTL {
		t.Errorf("Cache.AvailabilityFailureTTL = %v, want 1m and below AvailabilityTTL", cfg.Cache.AvailabilityFailureTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"TMDB_API_KEY", "tmdb.api_key"},
		{"RAPIDAPI_KEY", "streaming.api_key"},
		{"FEED_PRIMARY_SCAN_BUDGET", "feed.primary_scan_budget"},
		{"CACHE_AVAILABILITY_FAILURE_TTL", "cache.availability_failure_ttl"},
		{"HTTP_PORT", "server.port"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TMDB_API_KEY", "tmdb_test_key")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("FEED_SHELF_CONCURRENCY", "2")
	t.Setenv("CACHE_FEED_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.TMDB.APIKey != "tmdb_test_key" {
		t.Errorf("TMDB.APIKey = %q", cfg.TMDB.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Feed.ShelfConcurrency != 2 {
		t.Errorf("Feed.ShelfConcurrency = %d, want 2", cfg.Feed.ShelfConcurrency)
	}
	if cfg.Cache.FeedTTL != 5*time.Minute {
		t.Errorf("Cache.FeedTTL = %v, want 5m", cfg.Cache.FeedTTL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}

	// Defaults survive for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Feed.MinRowFloor != 8 {
		t.Errorf("Feed.MinRowFloor = %d, want 8 (default)", cfg.Feed.MinRowFloor)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests precedence of env over the YAML file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
feed:
  default_country: DE
  items_per_shelf: 24
streaming:
  catalog_codes:
    "1796": netflix
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want 7100 from env", cfg.Server.Port)
	}
	if cfg.Feed.DefaultCountry != "DE" {
		t.Errorf("Feed.DefaultCountry = %q, want DE from file", cfg.Feed.DefaultCountry)
	}
	if cfg.Feed.ItemsPerShelf != 24 {
		t.Errorf("Feed.ItemsPerShelf = %d, want 24", cfg.Feed.ItemsPerShelf)
	}
	if cfg.Streaming.CatalogCodes["1796"] != "netflix" {
		t.Errorf("Streaming.CatalogCodes = %v", cfg.Streaming.CatalogCodes)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FEED_PRIMARY_SCAN_BUDGET", "0")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for zero primary scan budget")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"tmdb url with query", func(c *Config) { c.TMDB.BaseURL = "https://api.themoviedb.org/3?x=1" }, true},
		{"web url with path", func(c *Config) { c.TMDB.WebBaseURL = "https://www.themoviedb.org/movie" }, true},
		{"ftp scheme", func(c *Config) { c.Streaming.BaseURL = "ftp://example.com" }, true},
		{"bad country", func(c *Config) { c.Feed.DefaultCountry = "USA" }, true},
		{"shelves over max", func(c *Config) { c.Feed.ShelvesPerPage = 20 }, true},
		{"floor over items", func(c *Config) { c.Feed.MinRowFloor = 50 }, true},
		{"negative secondary", func(c *Config) { c.Feed.SecondaryScanBudget = -1 }, true},
		{"zero ttl", func(c *Config) { c.Cache.AvailabilityTTL = 0 }, true},
		{"zero failure ttl", func(c *Config) { c.Cache.AvailabilityFailureTTL = 0 }, true},
		{"rate limit disabled ignores reqs", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
