// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package catalog

// Filter is one typed discovery constraint. The set of variants is closed;
// each upstream adapter owns a translator from Filter to its query format.
type Filter interface {
	isFilter()
}

// DateRange bounds the release date (YYYY-MM-DD). Empty bounds are open.
type DateRange struct {
	From string
	To   string
}

// RatingRange bounds the vote average and the vote count. Zero bounds are open.
type RatingRange struct {
	Min      float64
	Max      float64
	MinVotes int
	MaxVotes int
}

// GenreSet requires all of With and none of Without.
type GenreSet struct {
	With    []int
	Without []int
}

// Language restricts the original language (ISO 639-1).
type Language struct {
	Code string
}

// RuntimeRange bounds runtime in minutes. Zero bounds are open.
type RuntimeRange struct {
	Min int
	Max int
}

// ProviderScope restricts results to titles offered by any of ProviderIDs in
// Region under the given monetization scope.
type ProviderScope struct {
	ProviderIDs  []int
	Region       string
	Monetization Monetization
}

// SortBy sets the upstream ordering, e.g. "popularity.desc".
type SortBy struct {
	Field string
}

func (DateRange) isFilter()     {}
func (RatingRange) isFilter()   {}
func (GenreSet) isFilter()      {}
func (Language) isFilter()      {}
func (RuntimeRange) isFilter()  {}
func (ProviderScope) isFilter() {}
func (SortBy) isFilter()        {}
