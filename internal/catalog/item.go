// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

// Package catalog holds the value types shared by the feed engine: catalog
// items, shelf definitions, typed discovery filters and the filter context
// that decides what "available" means for a request.
package catalog

import (
	"fmt"
	"strings"
)

// MediaKind identifies the upstream media type of a single item.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindSeries MediaKind = "series"
)

// ParseMediaKind accepts the spellings callers use for a single kind.
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return KindMovie, nil
	case "series", "tv", "show", "shows":
		return KindSeries, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// Selection is the media kind choice of a request. Mixed interleaves both kinds.
type Selection string

const (
	SelectMovie  Selection = "movie"
	SelectSeries Selection = "series"
	SelectMixed  Selection = "mixed"
)

// ParseSelection maps a query value to a Selection. Empty means mixed.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mixed", "all":
		return SelectMixed, nil
	case "movie", "movies":
		return SelectMovie, nil
	case "series", "tv", "show", "shows":
		return SelectSeries, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// Kinds expands the selection into concrete media kinds, movies first.
func (s Selection) Kinds() []MediaKind {
	switch s {
	case SelectMovie:
		return []MediaKind{KindMovie}
	case SelectSeries:
		return []MediaKind{KindSeries}
	default:
		return []MediaKind{KindMovie, KindSeries}
	}
}

// Item is an immutable snapshot of one upstream catalog entry.
type Item struct {
	ID          int       `json:"id"`
	Kind        MediaKind `json:"mediaKind"`
	Title       string    `json:"title"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	Popularity  float64   `json:"popularity"`
	VoteAverage float64   `json:"voteAverage"`
	VoteCount   int       `json:"voteCount"`
	GenreIDs    []int     `json:"genreIds,omitempty"`
	PosterPath  string    `json:"posterPath,omitempty"`
	Overview    string    `json:"overview,omitempty"`
}

// Key is the identity of an item across shelves and pools.
type Key struct {
	Kind MediaKind
	ID   int
}

// Key returns the (kind, id) identity of the item.
func (i Item) Key() Key {
	return Key{Kind: i.Kind, ID: i.ID}
}

// Page is one upstream listing page.
type Page struct {
	Items      []Item
	TotalPages int // 0 when upstream did not say
}

// ChangesPage is one round of the cursor-based recently-added feed.
type ChangesPage struct {
	Items      []Item
	NextCursor string
}
