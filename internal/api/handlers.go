// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/config"
	"github.com/tomtom215/streamshelf/internal/feed"
	"github.com/tomtom215/streamshelf/internal/prefs"
)

// FeedService builds feeds, shelves and filtered result sets.
type FeedService interface {
	GetFeed(ctx context.Context, req feed.FeedRequest) (*feed.FeedResponse, error)
	GetShelf(ctx context.Context, shelfID string, req feed.ShelfRequest) (*feed.ShelfResponse, error)
	ResolveFilter(p feed.FilterParams) catalog.FilterContext
	Search(ctx context.Context, query string, fc catalog.FilterContext) (*feed.SearchResponse, error)
	Discover(ctx context.Context, filters []catalog.Filter, fc catalog.FilterContext) (*feed.SearchResponse, error)
}

// CatalogService serves upstream reference data that bypasses the feed
// pipeline.
type CatalogService interface {
	Providers(ctx context.Context, kind catalog.MediaKind, region string) ([]catalog.Provider, error)
	Regions(ctx context.Context) ([]catalog.Region, error)
	WatchLinks(ctx context.Context, kind catalog.MediaKind, id int, countries []string) map[string][]catalog.WatchLink
	Status() map[string]string
}

// AvailabilitySource returns the per-country provider map of one title.
type AvailabilitySource interface {
	Regions(ctx context.Context, kind catalog.MediaKind, id int) (catalog.ProviderMap, error)
}

// PreferenceStore persists saved provider selections per user id.
type PreferenceStore interface {
	Get(userID string) (prefs.Preferences, bool, error)
	Put(userID string, p prefs.Preferences) (prefs.Preferences, error)
	Len() int
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_feed.go: feed, shelf, search and discover
//   - handlers_catalog.go: providers, regions and per-title lookups
//   - handlers_prefs.go: saved preferences
//   - handlers_health.go: health
type Handler struct {
	feed         FeedService
	catalog      CatalogService
	availability AvailabilitySource
	prefs        PreferenceStore

	userHeader     string
	geoHeaders     []string
	defaultCountry string
	version        string
	startTime      time.Time
}

// NewHandler wires the handler to its services. cfg supplies the caller
// identity and geolocation headers.
func NewHandler(feedSvc FeedService, catalogSvc CatalogService, avail AvailabilitySource, store PreferenceStore, cfg *config.Config, version string) *Handler {
	return &Handler{
		feed:           feedSvc,
		catalog:        catalogSvc,
		availability:   avail,
		prefs:          store,
		userHeader:     cfg.Security.UserHeader,
		geoHeaders:     cfg.Feed.GeoHeaders,
		defaultCountry: cfg.Feed.DefaultCountry,
		version:        version,
		startTime:      time.Now(),
	}
}

// userID returns the caller id from the configured identity header.
func (h *Handler) userID(r *http.Request) string {
	if h.userHeader == "" {
		return ""
	}
	return strings.TrimSpace(r.Header.Get(h.userHeader))
}

// linkCountry picks the country for watch links when the caller names none:
// the geolocation hint, then the configured default.
func (h *Handler) linkCountry(r *http.Request) string {
	for _, c := range []string{h.geoCountry(r), h.defaultCountry} {
		if cc := catalog.NormalizeCountry(c); cc != "" && cc != "XX" {
			return cc
		}
	}
	return "US"
}

// geoCountry returns the first geolocation header set by the edge.
func (h *Handler) geoCountry(r *http.Request) string {
	for _, name := range h.geoHeaders {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return v
		}
	}
	return ""
}
