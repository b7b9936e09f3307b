// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package upstream

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/config"
)

// tmdbMaxPage is the highest page TMDB list endpoints serve.
const tmdbMaxPage = 500

// TMDBClient talks to the TMDB v3 API: listings, discovery, genres and
// per-title watch providers.
type TMDBClient struct {
	rest     *restClient
	apiKey   string
	language string
}

// NewTMDBClient creates a client from config. An empty API key yields a
// client whose calls return ErrNotConfigured.
func NewTMDBClient(cfg config.TMDBConfig) *TMDBClient {
	rest := newRESTClient("tmdb", cfg.BaseURL, cfg.Timeout, cfg.RequestsPerSecond, cfg.Burst)
	rest.headers.Set("Accept", "application/json")
	return &TMDBClient{rest: rest, apiKey: cfg.APIKey, language: cfg.Language}
}

// Configured reports whether an API key is set.
func (c *TMDBClient) Configured() bool {
	return c.apiKey != ""
}

// BreakerState exposes the circuit breaker state for health checks.
func (c *TMDBClient) BreakerState() string {
	return c.rest.breaker.State()
}

type tmdbItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	GenreIDs     []int   `json:"genre_ids"`
	PosterPath   string  `json:"poster_path"`
	Overview     string  `json:"overview"`
	MediaType    string  `json:"media_type"`
}

type tmdbPage struct {
	Page       int        `json:"page"`
	Results    []tmdbItem `json:"results"`
	TotalPages int        `json:"total_pages"`
}

func (it tmdbItem) toItem(kind catalog.MediaKind) catalog.Item {
	title, date := it.Title, it.ReleaseDate
	if kind == catalog.KindSeries {
		title, date = it.Name, it.FirstAirDate
	}
	return catalog.Item{
		ID:          it.ID,
		Kind:        kind,
		Title:       title,
		ReleaseDate: date,
		Popularity:  it.Popularity,
		VoteAverage: it.VoteAverage,
		VoteCount:   it.VoteCount,
		GenreIDs:    it.GenreIDs,
		PosterPath:  it.PosterPath,
		Overview:    it.Overview,
	}
}

func (c *TMDBClient) query() url.Values {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}
	return q
}

func (c *TMDBClient) fetchPage(ctx context.Context, endpoint, path string, kind catalog.MediaKind, q url.Values, page int) (catalog.Page, error) {
	if !c.Configured() {
		return catalog.Page{}, ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))

	var raw tmdbPage
	if err := c.rest.getJSON(ctx, endpoint, path, q, &raw); err != nil {
		return catalog.Page{}, err
	}

	out := catalog.Page{
		Items:      make([]catalog.Item, 0, len(raw.Results)),
		TotalPages: min(raw.TotalPages, tmdbMaxPage),
	}
	for _, it := range raw.Results {
		if it.ID <= 0 {
			continue
		}
		out.Items = append(out.Items, it.toItem(kind))
	}
	return out, nil
}

// Trending returns one page of the weekly trending list.
func (c *TMDBClient) Trending(ctx context.Context, kind catalog.MediaKind, page int) (catalog.Page, error) {
	return c.fetchPage(ctx, "trending", "/trending/"+tmdbPath(kind)+"/week", kind, c.query(), page)
}

// TopRated returns one page of the top rated list.
func (c *TMDBClient) TopRated(ctx context.Context, kind catalog.MediaKind, page int) (catalog.Page, error) {
	return c.fetchPage(ctx, "top_rated", "/"+tmdbPath(kind)+"/top_rated", kind, c.query(), page)
}

// Discover returns one page of a filtered discovery query.
func (c *TMDBClient) Discover(ctx context.Context, kind catalog.MediaKind, filters []catalog.Filter, page int) (catalog.Page, error) {
	q := c.query()
	for k, v := range discoverQuery(kind, filters) {
		q[k] = v
	}
	return c.fetchPage(ctx, "discover", "/discover/"+tmdbPath(kind), kind, q, page)
}

// Search returns one page of free-text title search.
func (c *TMDBClient) Search(ctx context.Context, kind catalog.MediaKind, query string, page int) (catalog.Page, error) {
	q := c.query()
	q.Set("query", query)
	q.Set("include_adult", "false")
	return c.fetchPage(ctx, "search", "/search/"+tmdbPath(kind), kind, q, page)
}

// Genres returns the genre list for a media kind.
func (c *TMDBClient) Genres(ctx context.Context, kind catalog.MediaKind) ([]catalog.Genre, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	var raw struct {
		Genres []catalog.Genre `json:"genres"`
	}
	if err := c.rest.getJSON(ctx, "genres", "/genre/"+tmdbPath(kind)+"/list", c.query(), &raw); err != nil {
		return nil, err
	}
	return raw.Genres, nil
}

type tmdbOffer struct {
	ProviderID int `json:"provider_id"`
}

type tmdbRegionOffers struct {
	Link     string      `json:"link"`
	Flatrate []tmdbOffer `json:"flatrate"`
	Free     []tmdbOffer `json:"free"`
	Ads      []tmdbOffer `json:"ads"`
	Rent     []tmdbOffer `json:"rent"`
	Buy      []tmdbOffer `json:"buy"`
}

// WatchProviders returns the per-country provider map of one title.
func (c *TMDBClient) WatchProviders(ctx context.Context, kind catalog.MediaKind, id int) (catalog.ProviderMap, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	var raw struct {
		Results map[string]tmdbRegionOffers `json:"results"`
	}
	path := fmt.Sprintf("/%s/%d/watch/providers", tmdbPath(kind), id)
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	if err := c.rest.getJSON(ctx, "watch_providers", path, q, &raw); err != nil {
		return nil, err
	}

	out := make(catalog.ProviderMap, len(raw.Results))
	for country, offers := range raw.Results {
		cc := catalog.NormalizeCountry(country)
		if cc == "" {
			continue
		}
		stream := make([]int, 0, len(offers.Flatrate)+len(offers.Free)+len(offers.Ads))
		stream = appendOfferIDs(stream, offers.Flatrate)
		stream = appendOfferIDs(stream, offers.Free)
		stream = appendOfferIDs(stream, offers.Ads)
		out[cc] = catalog.RegionOffers{
			Link:   offers.Link,
			Stream: stream,
			Rent:   appendOfferIDs(nil, offers.Rent),
			Buy:    appendOfferIDs(nil, offers.Buy),
		}
	}
	return out, nil
}

func appendOfferIDs(dst []int, offers []tmdbOffer) []int {
	for _, o := range offers {
		dst = append(dst, o.ProviderID)
	}
	return dst
}

// Providers lists streaming services, optionally scoped to one region, in
// display priority order.
func (c *TMDBClient) Providers(ctx context.Context, kind catalog.MediaKind, region string) ([]catalog.Provider, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	q := c.query()
	setIf(q, "watch_region", region)

	var raw struct {
		Results []struct {
			ProviderID      int            `json:"provider_id"`
			ProviderName    string         `json:"provider_name"`
			LogoPath        string         `json:"logo_path"`
			DisplayPriority int            `json:"display_priority"`
			Priorities      map[string]int `json:"display_priorities"`
		} `json:"results"`
	}
	if err := c.rest.getJSON(ctx, "providers", "/watch/providers/"+tmdbPath(kind), q, &raw); err != nil {
		return nil, err
	}

	out := make([]catalog.Provider, 0, len(raw.Results))
	for _, p := range raw.Results {
		priority := p.DisplayPriority
		if region != "" {
			if rp, ok := p.Priorities[strings.ToUpper(region)]; ok {
				priority = rp
			}
		}
		out = append(out, catalog.Provider{ID: p.ProviderID, Name: p.ProviderName, LogoPath: p.LogoPath, Priority: priority})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

// Regions lists the countries TMDB has watch-provider data for, sorted by name.
func (c *TMDBClient) Regions(ctx context.Context) ([]catalog.Region, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	var raw struct {
		Results []struct {
			Code string `json:"iso_3166_1"`
			Name string `json:"english_name"`
		} `json:"results"`
	}
	if err := c.rest.getJSON(ctx, "regions", "/watch/providers/regions", c.query(), &raw); err != nil {
		return nil, err
	}

	out := make([]catalog.Region, 0, len(raw.Results))
	for _, r := range raw.Results {
		out = append(out, catalog.Region{Code: r.Code, Name: r.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
