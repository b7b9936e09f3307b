// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package catalog

// RegionOffers lists provider ids per offer type in one country. Stream
// merges flatrate, free and ad-supported offers.
type RegionOffers struct {
	Link   string `json:"link,omitempty"`
	Stream []int  `json:"stream"`
	Rent   []int  `json:"rent"`
	Buy    []int  `json:"buy"`
}

// ProviderMap is the per-country availability of one item.
type ProviderMap map[string]RegionOffers

// Offers reports whether any of providerIDs is offered in any of countries
// (every country when anyCountry is set) under monetization.
func (m ProviderMap) Offers(providerIDs []int, countries []string, anyCountry bool, monetization Monetization) bool {
	if len(providerIDs) == 0 || len(m) == 0 {
		return false
	}
	want := make(map[int]struct{}, len(providerIDs))
	for _, id := range providerIDs {
		want[id] = struct{}{}
	}

	check := func(offers RegionOffers) bool {
		if containsAny(offers.Stream, want) {
			return true
		}
		if monetization == IncludePaid {
			return containsAny(offers.Rent, want) || containsAny(offers.Buy, want)
		}
		return false
	}

	if anyCountry {
		for _, offers := range m {
			if check(offers) {
				return true
			}
		}
		return false
	}
	for _, c := range countries {
		if offers, ok := m[c]; ok && check(offers) {
			return true
		}
	}
	return false
}

func containsAny(ids []int, want map[int]struct{}) bool {
	for _, id := range ids {
		if _, ok := want[id]; ok {
			return true
		}
	}
	return false
}

// Provider is a streaming service as listed upstream.
type Provider struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logoPath,omitempty"`
	Priority int    `json:"priority"`
}

// Region is a country upstream has availability data for.
type Region struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Genre is an upstream genre for one media kind.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WatchLink is a deep link to a title on one provider in one country.
type WatchLink struct {
	Country          string `json:"country"`
	ProviderID       int    `json:"providerId"`
	ProviderName     string `json:"providerName,omitempty"`
	MonetizationType string `json:"monetizationType,omitempty"`
	PresentationType string `json:"presentationType,omitempty"`
	URL              string `json:"url"`
}
