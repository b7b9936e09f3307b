// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package feed

import (
	"github.com/tomtom215/streamshelf/internal/catalog"
	"github.com/tomtom215/streamshelf/internal/logging"
)

// FilterParams are the raw filter inputs of a request.
type FilterParams struct {
	ProviderIDs []int
	Countries   []string

	// Country and GeoCountry are guest-mode country hints, explicit first.
	Country    string
	GeoCountry string

	// UserID selects saved preferences when no providers are given.
	UserID string

	MediaKind catalog.Selection
	VPN       bool

	// IncludePaid is nil when the request did not say; saved preferences
	// then decide.
	IncludePaid *bool
	Unfiltered  bool
}

// ResolveFilter turns request inputs into a normalized filter context.
//
// Explicit provider ids win, then the caller's saved preferences. An explicit
// includePaid overrides the saved flag either way. Without
// either the request is a guest request scoped to one country: the explicit
// country, else the geolocation hint, else the configured default.
// Unfiltered forces guest mode.
func (o *Orchestrator) ResolveFilter(p FilterParams) catalog.FilterContext {
	sel := p.MediaKind
	if sel == "" {
		sel = catalog.SelectMixed
	}
	country := o.guestCountry(p)

	guest := catalog.FilterContext{
		Countries:    []string{country},
		Monetization: catalog.StreamOnly,
		Selection:    sel,
	}
	if p.Unfiltered {
		return guest.Normalize()
	}

	providers := catalog.SortedProviderIDs(p.ProviderIDs)
	countries := p.Countries
	paid := p.IncludePaid != nil && *p.IncludePaid

	if len(providers) == 0 && p.UserID != "" && o.prefs != nil {
		saved, ok, err := o.prefs.Get(p.UserID)
		switch {
		case err != nil:
			logging.Debug().Err(err).Str("component", "feed").Msg("Ignoring preferences for invalid user id")
		case ok:
			providers = catalog.SortedProviderIDs(saved.ProviderIDs)
			if len(catalog.SortedCountries(countries)) == 0 {
				countries = saved.Countries
			}
			if p.IncludePaid == nil {
				paid = saved.IncludePaid
			}
		}
	}

	if len(providers) == 0 {
		return guest.Normalize()
	}

	fc := catalog.FilterContext{
		ProviderIDs:  providers,
		Countries:    countries,
		AnyCountry:   p.VPN,
		Monetization: catalog.StreamOnly,
		Selection:    sel,
	}
	if paid {
		fc.Monetization = catalog.IncludePaid
	}
	if p.VPN {
		fc.Countries = nil
	} else if len(catalog.SortedCountries(countries)) == 0 {
		fc.Countries = []string{country}
	}
	return fc.Normalize()
}

func (o *Orchestrator) guestCountry(p FilterParams) string {
	for _, c := range []string{p.Country, p.GeoCountry, o.cfg.DefaultCountry} {
		// XX is the CDN placeholder for an unknown origin.
		if cc := catalog.NormalizeCountry(c); cc != "" && cc != "XX" {
			return cc
		}
	}
	return "US"
}
