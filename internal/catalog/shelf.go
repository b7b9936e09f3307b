// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package catalog

// Strategy is how a shelf is fetched from upstream.
type Strategy string

const (
	StrategyTrending      Strategy = "trending"
	StrategyTopRated      Strategy = "top_rated"
	StrategyGenre         Strategy = "genre"
	StrategyDiscover      Strategy = "discover"
	StrategyRecentlyAdded Strategy = "recently_added"
	StrategySearch        Strategy = "search"
)

// ShelfDefinition describes one named listing. It is immutable once built.
type ShelfDefinition struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Kind     MediaKind `json:"mediaKind"`
	Strategy Strategy  `json:"strategy"`

	GenreID      int      `json:"genreId,omitempty"`
	Filters      []Filter `json:"-"`
	CatalogCodes []string `json:"catalogCodes,omitempty"`
	Countries    []string `json:"countries,omitempty"`
	Query        string   `json:"-"`
}

// DiscoverRepresentable reports whether the shelf can be expressed as a
// discovery query, which is what the provider-aware fetch needs.
func (s ShelfDefinition) DiscoverRepresentable() bool {
	switch s.Strategy {
	case StrategyDiscover, StrategyGenre, StrategyTopRated:
		return true
	}
	return false
}

// AsDiscover rewrites a representable shelf as a discovery query with extra
// filters appended. The receiver is not modified.
func (s ShelfDefinition) AsDiscover(extra ...Filter) ShelfDefinition {
	out := s
	filters := make([]Filter, 0, len(s.Filters)+len(extra)+2)
	filters = append(filters, s.Filters...)

	switch s.Strategy {
	case StrategyGenre:
		filters = append(filters, GenreSet{With: []int{s.GenreID}}, SortBy{Field: "popularity.desc"})
	case StrategyTopRated:
		filters = append(filters, RatingRange{MinVotes: 300}, SortBy{Field: "vote_average.desc"})
	}

	out.Strategy = StrategyDiscover
	out.Filters = append(filters, extra...)
	return out
}
