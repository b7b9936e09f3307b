// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package shelves

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/streamshelf/internal/cache"
	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/logging"
)

// Source supplies the upstream data shelf lists depend on.
type Source interface {
	Genres(ctx context.Context, kind catalog.MediaKind) ([]catalog.Genre, error)
	ResolveProviderCatalogCode(providerID int) (string, bool)
}

// Builder produces ordered shelf definitions per media kind and context.
type Builder struct {
	source Source
	cache  cache.Cacher
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for date-relative shelves.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a builder caching shelf lists for ttl.
func NewBuilder(source Source, c cache.Cacher, ttl time.Duration, opts ...Option) *Builder {
	b := &Builder{source: source, cache: c, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type listKey struct {
	Providers []int
	Countries []string
	Selection catalog.Selection
	Guest     bool
}

// BuildShelves returns the personalized shelf list for the selection.
func (b *Builder) BuildShelves(ctx context.Context, sel catalog.Selection, providerIDs []int, countries []string) []catalog.ShelfDefinition {
	providerIDs = catalog.SortedProviderIDs(providerIDs)
	countries = catalog.SortedCountries(countries)
	key := cache.GenerateKey(cache.PrefixShelves, listKey{Providers: providerIDs, Countries: countries, Selection: sel})

	return b.cached(ctx, key, sel, func(kind catalog.MediaKind, genres []catalog.Genre) []catalog.ShelfDefinition {
		return b.personalized(kind, genres, providerIDs, countries)
	})
}

// BuildGuestShelves returns the unfiltered shelf list. country is recorded
// on the shelves but does not narrow them.
func (b *Builder) BuildGuestShelves(ctx context.Context, sel catalog.Selection, country string) []catalog.ShelfDefinition {
	var countries []string
	if cc := catalog.NormalizeCountry(country); cc != "" {
		countries = []string{cc}
	}
	key := cache.GenerateKey(cache.PrefixShelves, listKey{Countries: countries, Selection: sel, Guest: true})

	return b.cached(ctx, key, sel, func(kind catalog.MediaKind, genres []catalog.Genre) []catalog.ShelfDefinition {
		return b.guest(kind, genres, countries)
	})
}

func (b *Builder) cached(ctx context.Context, key string, sel catalog.Selection, build func(catalog.MediaKind, []catalog.Genre) []catalog.ShelfDefinition) []catalog.ShelfDefinition {
	if v, ok := b.cache.Get(key); ok {
		if list, ok := v.([]catalog.ShelfDefinition); ok {
			return list
		}
	}

	complete := true
	perKind := make([][]catalog.ShelfDefinition, 0, 2)
	for _, kind := range sel.Kinds() {
		genres, err := b.source.Genres(ctx, kind)
		if err != nil {
			complete = false
			logging.Ctx(ctx).Warn().Err(err).Str("component", "shelves").Str("kind", string(kind)).
				Msg("Genre list unavailable, building shelves without genres")
		}
		perKind = append(perKind, build(kind, genres))
	}

	list := interleave(perKind)
	if complete {
		b.cache.Set(key, list, b.ttl)
	}
	return list
}

// interleave merges per-kind lists round robin, keeping each list's order.
func interleave(lists [][]catalog.ShelfDefinition) []catalog.ShelfDefinition {
	if len(lists) == 1 {
		return lists[0]
	}
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	out := make([]catalog.ShelfDefinition, 0, total)
	for i := 0; len(out) < total; i++ {
		for _, l := range lists {
			if i < len(l) {
				out = append(out, l[i])
			}
		}
	}
	return out
}

func (b *Builder) personalized(kind catalog.MediaKind, genres []catalog.Genre, providerIDs []int, countries []string) []catalog.ShelfDefinition {
	out := []catalog.ShelfDefinition{trendingShelf(kind)}
	if codes := b.catalogCodes(providerIDs); len(codes) > 0 {
		out = append(out, catalog.ShelfDefinition{
			ID:           shelfID(kind, "recent"),
			Title:        "New on Your Services",
			Kind:         kind,
			Strategy:     catalog.StrategyRecentlyAdded,
			CatalogCodes: codes,
			Countries:    countries,
		})
	}
	out = append(out, topRatedShelf(kind))
	out = append(out, b.moodShelves(kind)...)
	out = append(out, decadeShelves(kind)...)
	out = append(out, languageShelves(kind)...)
	if kind == catalog.KindMovie {
		out = append(out, runtimeShelves()...)
	}
	out = append(out, genreShelves(kind, genres)...)
	return stamp(out, countries)
}

func (b *Builder) guest(kind catalog.MediaKind, genres []catalog.Genre, countries []string) []catalog.ShelfDefinition {
	out := []catalog.ShelfDefinition{trendingShelf(kind), topRatedShelf(kind)}
	out = append(out, b.moodShelves(kind)...)
	out = append(out, decadeShelves(kind)...)
	out = append(out, languageShelves(kind)...)
	out = append(out, genreShelves(kind, genres)...)
	return stamp(out, countries)
}

func stamp(list []catalog.ShelfDefinition, countries []string) []catalog.ShelfDefinition {
	for i := range list {
		if list[i].Countries == nil {
			list[i].Countries = countries
		}
	}
	return list
}

// catalogCodes maps providers to unique change-feed codes in provider order.
func (b *Builder) catalogCodes(providerIDs []int) []string {
	var codes []string
	seen := make(map[string]struct{})
	for _, id := range providerIDs {
		code, ok := b.source.ResolveProviderCatalogCode(id)
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

func shelfID(kind catalog.MediaKind, suffix string) string {
	return string(kind) + ":" + suffix
}

func kindLabel(kind catalog.MediaKind) string {
	if kind == catalog.KindSeries {
		return "Series"
	}
	return "Movies"
}

func trendingShelf(kind catalog.MediaKind) catalog.ShelfDefinition {
	return catalog.ShelfDefinition{
		ID:       shelfID(kind, "trending"),
		Title:    "Trending " + kindLabel(kind),
		Kind:     kind,
		Strategy: catalog.StrategyTrending,
	}
}

func topRatedShelf(kind catalog.MediaKind) catalog.ShelfDefinition {
	return catalog.ShelfDefinition{
		ID:       shelfID(kind, "top_rated"),
		Title:    "Top Rated " + kindLabel(kind),
		Kind:     kind,
		Strategy: catalog.StrategyTopRated,
	}
}

func discoverShelf(kind catalog.MediaKind, suffix, title string, filters ...catalog.Filter) catalog.ShelfDefinition {
	return catalog.ShelfDefinition{
		ID:       shelfID(kind, suffix),
		Title:    title,
		Kind:     kind,
		Strategy: catalog.StrategyDiscover,
		Filters:  filters,
	}
}

// TMDB genre ids differ between movies and TV for thriller-like genres.
const (
	genreComedy   = 35
	genreFamily   = 10751
	genreHorror   = 27
	genreThriller = 53
	genreMystery  = 9648
)

func (b *Builder) moodShelves(kind catalog.MediaKind) []catalog.ShelfDefinition {
	tense := genreThriller
	if kind == catalog.KindSeries {
		tense = genreMystery
	}
	today := b.now().UTC()
	recent := today.AddDate(0, 0, -90)

	return []catalog.ShelfDefinition{
		discoverShelf(kind, "mood:feel-good", "Feel-Good Picks",
			catalog.GenreSet{With: []int{genreComedy}, Without: []int{genreHorror, genreThriller}},
			catalog.RatingRange{Min: 6.5, MinVotes: 100}),
		discoverShelf(kind, "mood:edge-of-your-seat", "Edge of Your Seat",
			catalog.GenreSet{With: []int{tense}},
			catalog.RatingRange{Min: 6.5, MinVotes: 100}),
		discoverShelf(kind, "mood:hidden-gems", "Hidden Gems",
			catalog.RatingRange{Min: 7.5, MinVotes: 50, MaxVotes: 1000},
			catalog.SortBy{Field: "vote_average.desc"}),
		discoverShelf(kind, "mood:critically-acclaimed", "Critically Acclaimed",
			catalog.RatingRange{Min: 8, MinVotes: 1000},
			catalog.SortBy{Field: "vote_average.desc"}),
		discoverShelf(kind, "mood:new-releases", "New Releases",
			catalog.DateRange{From: recent.Format(time.DateOnly), To: today.Format(time.DateOnly)},
			catalog.SortBy{Field: "popularity.desc"}),
	}
}

func decadeShelves(kind catalog.MediaKind) []catalog.ShelfDefinition {
	decades := []int{2010, 2000, 1990, 1980}
	out := make([]catalog.ShelfDefinition, 0, len(decades))
	for _, start := range decades {
		out = append(out, discoverShelf(kind,
			fmt.Sprintf("decade:%ds", start),
			fmt.Sprintf("Best of the %ds", start),
			catalog.DateRange{From: fmt.Sprintf("%d-01-01", start), To: fmt.Sprintf("%d-12-31", start+9)},
			catalog.RatingRange{MinVotes: 200},
			catalog.SortBy{Field: "popularity.desc"},
		))
	}
	return out
}

var languages = []struct {
	code string
	name string
}{
	{"ko", "Korean"},
	{"ja", "Japanese"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"hi", "Hindi"},
}

func languageShelves(kind catalog.MediaKind) []catalog.ShelfDefinition {
	out := make([]catalog.ShelfDefinition, 0, len(languages))
	for _, l := range languages {
		out = append(out, discoverShelf(kind, "lang:"+l.code, l.name+" "+kindLabel(kind),
			catalog.Language{Code: l.code},
			catalog.RatingRange{MinVotes: 50},
			catalog.SortBy{Field: "popularity.desc"},
		))
	}
	return out
}

func runtimeShelves() []catalog.ShelfDefinition {
	return []catalog.ShelfDefinition{
		discoverShelf(catalog.KindMovie, "runtime:short", "Under 90 Minutes",
			catalog.RuntimeRange{Min: 60, Max: 89},
			catalog.RatingRange{Min: 6, MinVotes: 100}),
		discoverShelf(catalog.KindMovie, "runtime:epic", "Epic Watches",
			catalog.RuntimeRange{Min: 150},
			catalog.RatingRange{Min: 6.5, MinVotes: 200}),
	}
}

// genrePriority lists the genres shown first, per kind. Remaining genres
// follow alphabetically.
var genrePriority = map[catalog.MediaKind][]int{
	catalog.KindMovie:  {28, 35, 18, 878, 53, 27, 10749, 16, 99},
	catalog.KindSeries: {10759, 35, 18, 10765, 80, 16, 99, 10764},
}

func genreShelves(kind catalog.MediaKind, genres []catalog.Genre) []catalog.ShelfDefinition {
	rank := make(map[int]int, len(genrePriority[kind]))
	for i, id := range genrePriority[kind] {
		rank[id] = i
	}

	sorted := make([]catalog.Genre, 0, len(genres))
	seen := make(map[int]struct{}, len(genres))
	for _, g := range genres {
		if g.ID <= 0 || g.Name == "" {
			continue
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		sorted = append(sorted, g)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iok := rank[sorted[i].ID]
		rj, jok := rank[sorted[j].ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return sorted[i].Name < sorted[j].Name
		}
	})

	out := make([]catalog.ShelfDefinition, 0, len(sorted))
	for _, g := range sorted {
		out = append(out, catalog.ShelfDefinition{
			ID:       shelfID(kind, fmt.Sprintf("genre:%d", g.ID)),
			Title:    g.Name,
			Kind:     kind,
			Strategy: catalog.StrategyGenre,
			GenreID:  g.ID,
		})
	}
	return out
}

// KindFromShelfID returns the media kind encoded in a shelf id prefix.
func KindFromShelfID(id string) (catalog.MediaKind, bool) {
	prefix, rest, ok := strings.Cut(id, ":")
	if !ok || rest == "" {
		return "", false
	}
	kind, err := catalog.ParseMediaKind(prefix)
	if err != nil {
		return "", false
	}
	return kind, true
}
