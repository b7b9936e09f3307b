// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package shelves

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/streamshelf/internal/cache"
	"github.com/tomtom215/streamshelf/internal/catalog"
)

type fakeSource struct {
	genreCalls atomic.Int32
	genres     map[catalog.MediaKind][]catalog.Genre
	err        error
	codes      map[int]string
}

func (f *fakeSource) Genres(_ context.Context, kind catalog.MediaKind) ([]catalog.Genre, error) {
	f.genreCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.genres[kind], nil
}

func (f *fakeSource) ResolveProviderCatalogCode(id int) (string, bool) {
	code, ok := f.codes[id]
	return code, ok
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		genres: map[catalog.MediaKind][]catalog.Genre{
			catalog.KindMovie: {
				{ID: 37, Name: "Western"},
				{ID: 18, Name: "Drama"},
				{ID: 36, Name: "History"},
				{ID: 28, Name: "Action"},
			},
			catalog.KindSeries: {
				{ID: 18, Name: "Drama"},
				{ID: 10759, Name: "Action & Adventure"},
			},
		},
		codes: map[int]string{8: "netflix", 9: "prime", 119: "prime"},
	}
}

var fixedNow = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestBuilder(src Source) *Builder {
	return NewBuilder(src, cache.New("shelves"), 30*time.Minute, WithClock(func() time.Time { return fixedNow }))
}

func ids(list []catalog.ShelfDefinition) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}

func TestBuildShelves_Order(t *testing.T) {
	b := newTestBuilder(newFakeSource())
	list := b.BuildShelves(context.Background(), catalog.SelectMovie, []int{9, 8, 119}, []string{"us"})

	want := []string{
		"movie:trending",
		"movie:recent",
		"movie:top_rated",
		"movie:mood:feel-good",
		"movie:mood:edge-of-your-seat",
		"movie:mood:hidden-gems",
		"movie:mood:critically-acclaimed",
		"movie:mood:new-releases",
		"movie:decade:2010s",
		"movie:decade:2000s",
		"movie:decade:1990s",
		"movie:decade:1980s",
		"movie:lang:ko",
		"movie:lang:ja",
		"movie:lang:es",
		"movie:lang:fr",
		"movie:lang:hi",
		"movie:runtime:short",
		"movie:runtime:epic",
		"movie:genre:28",
		"movie:genre:18",
		"movie:genre:36",
		"movie:genre:37",
	}
	got := ids(list)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("shelf ids =\n%v\nwant\n%v", got, want)
	}

	recent := list[1]
	if recent.Strategy != catalog.StrategyRecentlyAdded {
		t.Errorf("recent strategy = %s", recent.Strategy)
	}
	if strings.Join(recent.CatalogCodes, ",") != "netflix,prime" {
		t.Errorf("catalog codes = %v, want [netflix prime]", recent.CatalogCodes)
	}
	if len(recent.Countries) != 1 || recent.Countries[0] != "US" {
		t.Errorf("recent countries = %v", recent.Countries)
	}

	newReleases := list[7]
	dr, ok := newReleases.Filters[0].(catalog.DateRange)
	if !ok || dr.From != "2025-12-31" || dr.To != "2026-03-31" {
		t.Errorf("new releases filter = %+v", newReleases.Filters)
	}
}

func TestBuildShelves_NoCatalogCodes(t *testing.T) {
	b := newTestBuilder(newFakeSource())
	list := b.BuildShelves(context.Background(), catalog.SelectSeries, []int{337}, []string{"US"})

	for _, s := range list {
		if s.Strategy == catalog.StrategyRecentlyAdded {
			t.Fatalf("unexpected recently added shelf for providers without codes")
		}
		if strings.HasPrefix(s.ID, "series:runtime") {
			t.Errorf("series must not get runtime shelves: %s", s.ID)
		}
	}
	if list[len(list)-2].ID != "series:genre:10759" {
		t.Errorf("priority genre not first among genres: %v", ids(list))
	}
}

func TestBuildGuestShelves(t *testing.T) {
	b := newTestBuilder(newFakeSource())
	list := b.BuildGuestShelves(context.Background(), catalog.SelectMovie, "de")

	if list[0].ID != "movie:trending" || list[1].ID != "movie:top_rated" {
		t.Errorf("guest list starts with %v", ids(list)[:2])
	}
	for _, s := range list {
		if s.Strategy == catalog.StrategyRecentlyAdded || strings.Contains(s.ID, "runtime") {
			t.Errorf("unexpected personalized shelf in guest list: %s", s.ID)
		}
		if len(s.Countries) != 1 || s.Countries[0] != "DE" {
			t.Errorf("shelf %s countries = %v, want [DE]", s.ID, s.Countries)
		}
	}
}

func TestBuildShelves_MixedInterleaves(t *testing.T) {
	b := newTestBuilder(newFakeSource())
	list := b.BuildGuestShelves(context.Background(), catalog.SelectMixed, "US")

	if list[0].ID != "movie:trending" || list[1].ID != "series:trending" ||
		list[2].ID != "movie:top_rated" || list[3].ID != "series:top_rated" {
		t.Errorf("mixed order = %v", ids(list)[:4])
	}

	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if _, dup := seen[s.ID]; dup {
			t.Errorf("duplicate shelf id %s", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
}

func TestBuildShelves_Cached(t *testing.T) {
	src := newFakeSource()
	b := newTestBuilder(src)
	ctx := context.Background()

	first := b.BuildShelves(ctx, catalog.SelectMovie, []int{8, 9}, []string{"US"})
	second := b.BuildShelves(ctx, catalog.SelectMovie, []int{9, 8}, []string{"us"})

	if src.genreCalls.Load() != 1 {
		t.Errorf("genre calls = %d, want 1 (second call cached)", src.genreCalls.Load())
	}
	if len(first) != len(second) {
		t.Errorf("cached list differs: %d vs %d", len(first), len(second))
	}

	b.BuildShelves(ctx, catalog.SelectMovie, []int{8}, []string{"US"})
	if src.genreCalls.Load() != 2 {
		t.Errorf("genre calls = %d, want 2 for a different provider set", src.genreCalls.Load())
	}
}

func TestBuildShelves_GenreFailureNotCached(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("tmdb down")
	b := newTestBuilder(src)
	ctx := context.Background()

	list := b.BuildShelves(ctx, catalog.SelectMovie, []int{8}, []string{"US"})
	for _, s := range list {
		if s.Strategy == catalog.StrategyGenre {
			t.Fatalf("unexpected genre shelf %s", s.ID)
		}
	}
	if len(list) == 0 {
		t.Fatal("want non-genre shelves despite genre failure")
	}

	src.err = nil
	list = b.BuildShelves(ctx, catalog.SelectMovie, []int{8}, []string{"US"})
	if list[len(list)-1].Strategy != catalog.StrategyGenre {
		t.Error("genres missing after recovery; failed list was cached")
	}
}

func TestKindFromShelfID(t *testing.T) {
	tests := []struct {
		id     string
		want   catalog.MediaKind
		wantOK bool
	}{
		{"movie:trending", catalog.KindMovie, true},
		{"series:genre:18", catalog.KindSeries, true},
		{"movie:", "", false},
		{"trending", "", false},
		{"book:trending", "", false},
	}
	for _, tt := range tests {
		got, ok := KindFromShelfID(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("KindFromShelfID(%q) = %q,%v want %q,%v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}
