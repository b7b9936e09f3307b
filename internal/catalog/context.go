// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// Monetization is the set of offer types that count as available.
type Monetization string

const (
	// StreamOnly covers flatrate, free and ad-supported offers.
	StreamOnly Monetization = "stream"
	// IncludePaid also covers rent and buy offers.
	IncludePaid Monetization = "paid"
)

// AnyCountry is the country-scope signature of VPN mode.
const AnyCountry = "*"

// FilterContext defines what "available" means for one request.
type FilterContext struct {
	ProviderIDs  []int
	Countries    []string
	AnyCountry   bool
	Monetization Monetization
	Selection    Selection
}

// Guest reports whether the context has no provider filter.
func (fc FilterContext) Guest() bool {
	return len(fc.ProviderIDs) == 0
}

// SingleCountry returns the only allowed country, or "" when the scope is
// wider than one concrete country.
func (fc FilterContext) SingleCountry() string {
	if fc.AnyCountry || len(fc.Countries) != 1 {
		return ""
	}
	return fc.Countries[0]
}

// CountrySignature is a stable string for the allowed country scope.
func (fc FilterContext) CountrySignature() string {
	if fc.AnyCountry {
		return AnyCountry
	}
	return strings.Join(SortedCountries(fc.Countries), ",")
}

// ProviderSignature is a stable string for the provider set.
func (fc FilterContext) ProviderSignature() string {
	ids := SortedProviderIDs(fc.ProviderIDs)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Normalize returns a copy with deduplicated, sorted providers and
// upper-cased, deduplicated countries.
func (fc FilterContext) Normalize() FilterContext {
	out := fc
	out.ProviderIDs = SortedProviderIDs(fc.ProviderIDs)
	out.Countries = SortedCountries(fc.Countries)
	if out.Monetization == "" {
		out.Monetization = StreamOnly
	}
	if out.Selection == "" {
		out.Selection = SelectMixed
	}
	return out
}

// SortedProviderIDs returns a sorted copy of ids without duplicates or
// non-positive values.
func SortedProviderIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// SortedCountries upper-cases, deduplicates and sorts two-letter country
// codes, dropping anything else.
func SortedCountries(countries []string) []string {
	seen := make(map[string]struct{}, len(countries))
	out := make([]string, 0, len(countries))
	for _, c := range countries {
		c = NormalizeCountry(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// NormalizeCountry returns the upper-case ISO 3166-1 alpha-2 code or "".
func NormalizeCountry(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if len(c) != 2 || c[0] < 'A' || c[0] > 'Z' || c[1] < 'A' || c[1] > 'Z' {
		return ""
	}
	return c
}
