// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package upstream

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/config"
)

// defaultCatalogCodes maps TMDB provider ids to streaming-availability
// catalog codes. Several TMDB ids can share one service.
var defaultCatalogCodes = map[int]string{
	8:    "netflix",
	9:    "prime",
	119:  "prime",
	337:  "disney",
	384:  "hbo",
	1899: "hbo",
	15:   "hulu",
	350:  "apple",
	531:  "paramount",
	386:  "peacock",
	283:  "crunchyroll",
}

// StreamingClient reads the "new on streaming" change feed.
type StreamingClient struct {
	rest   *restClient
	apiKey string
	codes  map[int]string
}

// NewStreamingClient creates a client from config. Catalog code overrides
// from config replace or extend the built-in table.
func NewStreamingClient(cfg config.StreamingConfig) *StreamingClient {
	rest := newRESTClient("streaming", cfg.BaseURL, cfg.Timeout, cfg.RequestsPerSecond, cfg.Burst)
	rest.headers.Set("X-RapidAPI-Key", cfg.APIKey)
	rest.headers.Set("X-RapidAPI-Host", cfg.Host)
	rest.headers.Set("Accept", "application/json")

	codes := make(map[int]string, len(defaultCatalogCodes)+len(cfg.CatalogCodes))
	for id, code := range defaultCatalogCodes {
		codes[id] = code
	}
	for rawID, code := range cfg.CatalogCodes {
		if id, err := strconv.Atoi(strings.TrimSpace(rawID)); err == nil && code != "" {
			codes[id] = strings.ToLower(code)
		}
	}

	return &StreamingClient{rest: rest, apiKey: cfg.APIKey, codes: codes}
}

// Configured reports whether an API key is set.
func (c *StreamingClient) Configured() bool {
	return c.apiKey != ""
}

// CatalogCode maps a provider id to a catalog code; ok is false when the
// provider has no change feed.
func (c *StreamingClient) CatalogCode(providerID int) (string, bool) {
	code, ok := c.codes[providerID]
	return code, ok
}

type streamingShow struct {
	TMDBID       json.RawMessage `json:"tmdbId"`
	ShowType     string          `json:"showType"`
	Title        string          `json:"title"`
	OriginalName string          `json:"originalTitle"`
	ReleaseYear  int             `json:"releaseYear"`
	FirstAirYear int             `json:"firstAirYear"`
	Rating       float64         `json:"rating"`
	Overview     string          `json:"overview"`
}

type changesResponse struct {
	Shows      json.RawMessage `json:"shows"`
	HasMore    bool            `json:"hasMore"`
	NextCursor string          `json:"nextCursor"`
}

// Changes fetches one round of newly added titles for one country.
// The returned cursor is empty when upstream has nothing more.
func (c *StreamingClient) Changes(ctx context.Context, codes []string, country string, kind catalog.MediaKind, cursor string) (catalog.ChangesPage, error) {
	if !c.Configured() {
		return catalog.ChangesPage{}, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("country", strings.ToLower(country))
	q.Set("change_type", "new")
	q.Set("item_type", "show")
	q.Set("show_type", showType(kind))
	if len(codes) > 0 {
		q.Set("catalogs", strings.Join(codes, ","))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var raw changesResponse
	if err := c.rest.getJSON(ctx, "changes", "/changes", q, &raw); err != nil {
		return catalog.ChangesPage{}, err
	}

	shows := decodeShows(raw.Shows)
	out := catalog.ChangesPage{Items: make([]catalog.Item, 0, len(shows))}
	seen := make(map[int]struct{}, len(shows))
	for _, s := range shows {
		id := parseTMDBID(s.TMDBID)
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.Items = append(out.Items, s.toItem(id, kind))
	}
	if raw.HasMore {
		out.NextCursor = raw.NextCursor
	}
	return out, nil
}

// decodeShows accepts both the keyed-object and the list form of "shows".
func decodeShows(raw json.RawMessage) []streamingShow {
	if len(raw) == 0 {
		return nil
	}
	var list []streamingShow
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var keyed map[string]streamingShow
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil
	}
	ids := make([]string, 0, len(keyed))
	for id := range keyed {
		ids = append(ids, id)
	}
	// Map order is random; keep rounds deterministic.
	sort.Strings(ids)
	out := make([]streamingShow, 0, len(keyed))
	for _, id := range ids {
		out = append(out, keyed[id])
	}
	return out
}

// parseTMDBID accepts 123, "123" and "movie/123".
func parseTMDBID(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (s streamingShow) toItem(id int, kind catalog.MediaKind) catalog.Item {
	title := s.Title
	if title == "" {
		title = s.OriginalName
	}
	year := s.ReleaseYear
	if kind == catalog.KindSeries && s.FirstAirYear > 0 {
		year = s.FirstAirYear
	}
	date := ""
	if year > 0 {
		date = strconv.Itoa(year) + "-01-01"
	}
	return catalog.Item{
		ID:          id,
		Kind:        kind,
		Title:       title,
		ReleaseDate: date,
		VoteAverage: s.Rating / 10,
		Overview:    s.Overview,
	}
}

func showType(kind catalog.MediaKind) string {
	if kind == catalog.KindSeries {
		return "series"
	}
	return "movie"
}
