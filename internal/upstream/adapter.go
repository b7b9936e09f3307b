// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package upstream

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/streamshelf/internal/cache"
	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/config"
	"github.com/tomtom215/streamshelf/internal/logging"
)

// ErrUnsupportedStrategy is returned for shelves that cannot be fetched by page.
var ErrUnsupportedStrategy = errors.New("unsupported shelf strategy")

// AdapterCaches holds the cache domains the adapter reads through.
type AdapterCaches struct {
	Pages  cache.Cacher // listing pages
	Recent cache.Cacher // change-feed rounds
	Lists  cache.Cacher // genres, providers, regions
	Links  cache.Cacher // scraped watch links per country
}

// Adapter is the catalog facade the feed engine consumes. It routes shelf
// strategies to upstream endpoints and reads through the page caches.
type Adapter struct {
	tmdb      *TMDBClient
	streaming *StreamingClient
	scraper   *WatchPageScraper
	caches    AdapterCaches
	ttl       config.CacheConfig
}

// NewAdapter wires the upstream clients behind one facade.
func NewAdapter(tmdb *TMDBClient, streaming *StreamingClient, scraper *WatchPageScraper, caches AdapterCaches, ttl config.CacheConfig) *Adapter {
	return &Adapter{tmdb: tmdb, streaming: streaming, scraper: scraper, caches: caches, ttl: ttl}
}

// Status summarizes upstream readiness for the health endpoint.
func (a *Adapter) Status() map[string]string {
	status := map[string]string{
		"tmdb":      "unconfigured",
		"streaming": "unconfigured",
	}
	if a.tmdb.Configured() {
		status["tmdb"] = a.tmdb.BreakerState()
	}
	if a.streaming.Configured() {
		status["streaming"] = a.streaming.rest.breaker.State()
	}
	return status
}

type pageKey struct {
	Kind     catalog.MediaKind
	Strategy catalog.Strategy
	Params   string
	Page     int
}

// FetchShelfPage fetches one listing page for a shelf definition.
func (a *Adapter) FetchShelfPage(ctx context.Context, shelf catalog.ShelfDefinition, page int) (catalog.Page, error) {
	var (
		params string
		fetch  func() (catalog.Page, error)
	)

	switch shelf.Strategy {
	case catalog.StrategyTrending:
		fetch = func() (catalog.Page, error) { return a.tmdb.Trending(ctx, shelf.Kind, page) }
	case catalog.StrategyTopRated:
		fetch = func() (catalog.Page, error) { return a.tmdb.TopRated(ctx, shelf.Kind, page) }
	case catalog.StrategyGenre, catalog.StrategyDiscover:
		discover := shelf
		if shelf.Strategy == catalog.StrategyGenre {
			discover = shelf.AsDiscover()
		}
		params = discoverQuery(shelf.Kind, discover.Filters).Encode()
		fetch = func() (catalog.Page, error) { return a.tmdb.Discover(ctx, shelf.Kind, discover.Filters, page) }
	case catalog.StrategySearch:
		params = shelf.Query
		fetch = func() (catalog.Page, error) { return a.tmdb.Search(ctx, shelf.Kind, shelf.Query, page) }
	default:
		return catalog.Page{}, fmt.Errorf("%w: %s", ErrUnsupportedStrategy, shelf.Strategy)
	}

	key := cache.GenerateKey(cache.PrefixPage, pageKey{Kind: shelf.Kind, Strategy: shelf.Strategy, Params: params, Page: page})
	if v, ok := a.caches.Pages.Get(key); ok {
		if p, ok := v.(catalog.Page); ok {
			return p, nil
		}
	}

	p, err := fetch()
	if err != nil {
		return catalog.Page{}, err
	}
	a.caches.Pages.Set(key, p, a.ttl.PageTTL)
	return p, nil
}

// Search returns one page of free-text search results.
func (a *Adapter) Search(ctx context.Context, kind catalog.MediaKind, query string, page int) (catalog.Page, error) {
	return a.FetchShelfPage(ctx, catalog.ShelfDefinition{Kind: kind, Strategy: catalog.StrategySearch, Query: query}, page)
}

// FetchProviderMap returns the per-country provider map of one title.
// Results are not cached here; the availability layer caches decisions.
func (a *Adapter) FetchProviderMap(ctx context.Context, kind catalog.MediaKind, id int) (catalog.ProviderMap, error) {
	return a.tmdb.WatchProviders(ctx, kind, id)
}

// ResolveProviderCatalogCode maps a provider id to a change-feed catalog code.
// ok is false when the provider has no code or the feed is not configured.
func (a *Adapter) ResolveProviderCatalogCode(providerID int) (string, bool) {
	if !a.streaming.Configured() {
		return "", false
	}
	return a.streaming.CatalogCode(providerID)
}

type recentKey struct {
	Codes     []string
	Countries []string
	Kind      catalog.MediaKind
	Cursor    string
}

// FetchRecentlyAdded runs one change-feed round across countries and merges
// the results, first country first, deduplicated by id. The returned cursor
// is opaque and carries one upstream cursor per country that has more.
func (a *Adapter) FetchRecentlyAdded(ctx context.Context, codes, countries []string, kind catalog.MediaKind, cursor string) (catalog.ChangesPage, error) {
	if len(countries) == 0 {
		countries = []string{"US"}
	}

	key := cache.GenerateKey(cache.PrefixRecent, recentKey{Codes: codes, Countries: countries, Kind: kind, Cursor: cursor})
	if v, ok := a.caches.Recent.Get(key); ok {
		if p, ok := v.(catalog.ChangesPage); ok {
			return p, nil
		}
	}

	cursors, err := decodeRecentCursor(cursor)
	if err != nil {
		return catalog.ChangesPage{}, err
	}

	out := catalog.ChangesPage{}
	next := make(map[string]string)
	seen := make(map[int]struct{})
	var firstErr error
	fetched := 0

	for _, country := range countries {
		countryCursor := ""
		if cursors != nil {
			c, ok := cursors[country]
			if !ok {
				continue // exhausted on an earlier round
			}
			countryCursor = c
		}

		page, err := a.streaming.Changes(ctx, codes, country, kind, countryCursor)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fetched++
		for _, it := range page.Items {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			out.Items = append(out.Items, it)
		}
		if page.NextCursor != "" {
			next[country] = page.NextCursor
		}
	}

	if fetched == 0 && firstErr != nil {
		return catalog.ChangesPage{}, firstErr
	}
	out.NextCursor = encodeRecentCursor(next)
	a.caches.Recent.Set(key, out, a.ttl.RecentTTL)
	return out, nil
}

func encodeRecentCursor(cursors map[string]string) string {
	if len(cursors) == 0 {
		return ""
	}
	data, err := json.Marshal(cursors)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeRecentCursor(cursor string) (map[string]string, error) {
	if cursor == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return out, nil
}

// Genres returns the genre list for a media kind, cached for the genre TTL.
func (a *Adapter) Genres(ctx context.Context, kind catalog.MediaKind) ([]catalog.Genre, error) {
	key := cache.PrefixGenres + ":" + string(kind)
	if v, ok := a.caches.Lists.Get(key); ok {
		if g, ok := v.([]catalog.Genre); ok {
			return g, nil
		}
	}
	genres, err := a.tmdb.Genres(ctx, kind)
	if err != nil {
		return nil, err
	}
	a.caches.Lists.Set(key, genres, a.ttl.GenreTTL)
	return genres, nil
}

// Providers lists streaming services for a media kind and optional region.
func (a *Adapter) Providers(ctx context.Context, kind catalog.MediaKind, region string) ([]catalog.Provider, error) {
	key := fmt.Sprintf("%s:providers:%s:%s", cache.PrefixUpstreamList, kind, region)
	if v, ok := a.caches.Lists.Get(key); ok {
		if p, ok := v.([]catalog.Provider); ok {
			return p, nil
		}
	}
	providers, err := a.tmdb.Providers(ctx, kind, region)
	if err != nil {
		return nil, err
	}
	a.caches.Lists.Set(key, providers, a.ttl.ListTTL)
	return providers, nil
}

// Regions lists countries with watch-provider data.
func (a *Adapter) Regions(ctx context.Context) ([]catalog.Region, error) {
	key := cache.PrefixUpstreamList + ":regions"
	if v, ok := a.caches.Lists.Get(key); ok {
		if r, ok := v.([]catalog.Region); ok {
			return r, nil
		}
	}
	regions, err := a.tmdb.Regions(ctx)
	if err != nil {
		return nil, err
	}
	a.caches.Lists.Set(key, regions, a.ttl.ListTTL)
	return regions, nil
}

// WatchLinks scrapes deep links for a title in each country concurrently.
// A failing country yields no links and is cached as empty, so a broken
// page is not refetched until the TTL passes. Countries without links are
// omitted from the result.
func (a *Adapter) WatchLinks(ctx context.Context, kind catalog.MediaKind, id int, countries []string) map[string][]catalog.WatchLink {
	countries = NormalizeLinkCountries(countries)

	ctx, cancel := context.WithTimeout(ctx, watchLinkTimeout)
	defer cancel()

	var (
		mu  sync.Mutex
		out = make(map[string][]catalog.WatchLink, len(countries))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, country := range countries {
		g.Go(func() error {
			key := fmt.Sprintf("%s:%s:%d:%s", cache.PrefixWatchLinks, kind, id, country)
			links, cached := a.cachedLinks(key)
			if !cached {
				var err error
				links, err = a.scraper.WatchLinks(gctx, kind, id, country)
				if err != nil {
					logging.Ctx(ctx).Debug().Err(err).Str("country", country).Int("id", id).Msg("Watch page scrape failed")
					links = nil
				}
				if gctx.Err() == nil {
					a.caches.Links.Set(key, links, a.ttl.WatchLinksTTL)
				}
			}
			if len(links) > 0 {
				mu.Lock()
				out[country] = links
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return out
}

func (a *Adapter) cachedLinks(key string) ([]catalog.WatchLink, bool) {
	v, ok := a.caches.Links.Get(key)
	if !ok {
		return nil, false
	}
	links, ok := v.([]catalog.WatchLink)
	return links, ok
}
