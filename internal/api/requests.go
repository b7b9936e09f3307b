// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/feed"
	"github.com/tomtom215/streamshelf/internal/validation"
)

// FilterQuery holds the filter parameters every catalog endpoint accepts.
type FilterQuery struct {
	ProviderIDs string `validate:"omitempty,max=512,idlist"`
	Countries   string `validate:"omitempty,max=256,csvcountries"`
	Country     string `validate:"omitempty,country"`
	MediaKind   string `validate:"omitempty,oneof=movie movies series tv show shows mixed all"`
	VPN         bool
	IncludePaid *bool // nil when the parameter is absent
	Unfiltered  bool
}

// FeedQuery is the validated query of GET /feed.
type FeedQuery struct {
	FilterQuery
	Page     int `validate:"min=1,max=1000"`
	PageSize int `validate:"min=0,max=100"` // 0 selects the configured default
}

// ShelfQuery is the validated query of GET /shelf/{shelfID}.
type ShelfQuery struct {
	FilterQuery
	ShelfID string `validate:"required,max=128"`
	Page    int    `validate:"min=1,max=500"`
	Offset  int    `validate:"min=0,max=1000"`
	Pages   int    `validate:"min=1,max=20"`
	Cursor  string `validate:"omitempty,max=2048,cursor"`
}

// SearchQuery is the validated query of GET /search.
type SearchQuery struct {
	FilterQuery
	Query string `validate:"required,min=1,max=200"`
}

// DiscoverQuery is the validated query of GET /discover.
type DiscoverQuery struct {
	FilterQuery
	Genres        string  `validate:"omitempty,max=256,idlist"`
	WithoutGenres string  `validate:"omitempty,max=256,idlist"`
	From          string  `validate:"omitempty,datetime=2006-01-02"`
	To            string  `validate:"omitempty,datetime=2006-01-02"`
	MinRating     float64 `validate:"gte=0,lte=10"`
	MaxRating     float64 `validate:"gte=0,lte=10"`
	MinVotes      int     `validate:"gte=0"`
	MaxVotes      int     `validate:"gte=0"`
	Language      string  `validate:"omitempty,len=2,alpha"`
	MinRuntime    int     `validate:"gte=0,lte=1000"`
	MaxRuntime    int     `validate:"gte=0,lte=1000"`
	SortBy        string  `validate:"omitempty,oneof=popularity.desc popularity.asc vote_average.desc vote_average.asc primary_release_date.desc primary_release_date.asc first_air_date.desc first_air_date.asc revenue.desc"`
}

// ProvidersQuery is the validated query of GET /providers.
type ProvidersQuery struct {
	MediaKind string `validate:"omitempty,oneof=movie movies series tv show shows"`
	Country   string `validate:"omitempty,country"`
}

// TitleQuery identifies one title in the /titles routes.
type TitleQuery struct {
	MediaKind string `validate:"required,oneof=movie movies series tv show shows"`
	ID        int    `validate:"min=1"`
	Countries string `validate:"omitempty,max=256,csvcountries"`
}

// PreferencesBody is the JSON body of PUT /preferences.
type PreferencesBody struct {
	ProviderIDs []int    `json:"providerIds" validate:"max=64,dive,min=1"`
	Countries   []string `json:"countries" validate:"max=32,dive,country"`
	IncludePaid bool     `json:"includePaid"`
}

func parseFilterQuery(r *http.Request) FilterQuery {
	q := r.URL.Query()
	return FilterQuery{
		ProviderIDs: firstOf(q.Get("providerIds"), q.Get("providers")),
		Countries:   q.Get("countries"),
		Country:     strings.TrimSpace(q.Get("country")),
		MediaKind:   firstOf(q.Get("mediaKind"), q.Get("type")),
		VPN:         getBoolParam(r, "vpn"),
		IncludePaid: getOptionalBoolParam(r, "includePaid"),
		Unfiltered:  getBoolParam(r, "unfiltered"),
	}
}

func parseFeedQuery(r *http.Request) FeedQuery {
	return FeedQuery{
		FilterQuery: parseFilterQuery(r),
		Page:        getIntParam(r, "page", 1),
		PageSize:    getIntParam(r, "pageSize", 0),
	}
}

func parseShelfQuery(r *http.Request, shelfID string) ShelfQuery {
	return ShelfQuery{
		FilterQuery: parseFilterQuery(r),
		ShelfID:     shelfID,
		Page:        getIntParam(r, "page", 1),
		Offset:      getIntParam(r, "offset", 0),
		Pages:       getIntParam(r, "pages", 1),
		Cursor:      r.URL.Query().Get("cursor"),
	}
}

func parseDiscoverQuery(r *http.Request) DiscoverQuery {
	q := r.URL.Query()
	return DiscoverQuery{
		FilterQuery:   parseFilterQuery(r),
		Genres:        q.Get("genres"),
		WithoutGenres: q.Get("withoutGenres"),
		From:          q.Get("from"),
		To:            q.Get("to"),
		MinRating:     getFloatParam(r, "minRating", 0),
		MaxRating:     getFloatParam(r, "maxRating", 0),
		MinVotes:      getIntParam(r, "minVotes", 0),
		MaxVotes:      getIntParam(r, "maxVotes", 0),
		Language:      q.Get("language"),
		MinRuntime:    getIntParam(r, "minRuntime", 0),
		MaxRuntime:    getIntParam(r, "maxRuntime", 0),
		SortBy:        q.Get("sortBy"),
	}
}

// Filters converts the query into typed discovery filters. Empty groups are
// left out.
func (q DiscoverQuery) Filters() []catalog.Filter {
	var out []catalog.Filter
	if q.From != "" || q.To != "" {
		out = append(out, catalog.DateRange{From: q.From, To: q.To})
	}
	if q.MinRating > 0 || q.MaxRating > 0 || q.MinVotes > 0 || q.MaxVotes > 0 {
		out = append(out, catalog.RatingRange{
			Min:      q.MinRating,
			Max:      q.MaxRating,
			MinVotes: q.MinVotes,
			MaxVotes: q.MaxVotes,
		})
	}
	with, without := parseCommaSeparatedInts(q.Genres), parseCommaSeparatedInts(q.WithoutGenres)
	if len(with) > 0 || len(without) > 0 {
		out = append(out, catalog.GenreSet{With: with, Without: without})
	}
	if q.Language != "" {
		out = append(out, catalog.Language{Code: strings.ToLower(q.Language)})
	}
	if q.MinRuntime > 0 || q.MaxRuntime > 0 {
		out = append(out, catalog.RuntimeRange{Min: q.MinRuntime, Max: q.MaxRuntime})
	}
	if q.SortBy != "" {
		out = append(out, catalog.SortBy{Field: q.SortBy})
	}
	return out
}

// rangeErrors reports inverted bounds, which struct tags cannot express.
func (q DiscoverQuery) rangeErrors() *validation.RequestValidationError {
	switch {
	case q.From != "" && q.To != "" && q.From > q.To:
		return validation.New("From", "ltefield", q.From, "From must not be after To")
	case q.MaxRating > 0 && q.MinRating > q.MaxRating:
		return validation.New("MinRating", "ltefield", q.MinRating, "MinRating must not exceed MaxRating")
	case q.MaxVotes > 0 && q.MinVotes > q.MaxVotes:
		return validation.New("MinVotes", "ltefield", q.MinVotes, "MinVotes must not exceed MaxVotes")
	case q.MaxRuntime > 0 && q.MinRuntime > q.MaxRuntime:
		return validation.New("MinRuntime", "ltefield", q.MinRuntime, "MinRuntime must not exceed MaxRuntime")
	}
	return nil
}

// params turns a validated FilterQuery plus caller hints into orchestrator
// input.
func (fq FilterQuery) params(userID, geoCountry string) feed.FilterParams {
	// Validation already accepted the value, so the error cannot occur.
	sel, _ := catalog.ParseSelection(fq.MediaKind)
	return feed.FilterParams{
		ProviderIDs: parseCommaSeparatedInts(fq.ProviderIDs),
		Countries:   parseCommaSeparated(fq.Countries),
		Country:     fq.Country,
		GeoCountry:  geoCountry,
		UserID:      userID,
		MediaKind:   sel,
		VPN:         fq.VPN,
		IncludePaid: fq.IncludePaid,
		Unfiltered:  fq.Unfiltered,
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getFloatParam(r *http.Request, key string, defaultValue float64) float64 {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getBoolParam treats 1, true, yes and on as set.
func getBoolParam(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// getOptionalBoolParam is getBoolParam with nil for an absent or blank
// parameter, so an explicit false can override a saved default.
func getOptionalBoolParam(r *http.Request, key string) *bool {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return nil
	}
	v := getBoolParam(r, key)
	return &v
}

// parseCommaSeparated splits a comma-separated value, dropping blanks.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseCommaSeparatedInts splits a comma-separated list of integers,
// skipping anything that does not parse.
func parseCommaSeparatedInts(value string) []int {
	var result []int
	for _, part := range parseCommaSeparated(value) {
		if n, err := strconv.Atoi(part); err == nil {
			result = append(result, n)
		}
	}
	return result
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
