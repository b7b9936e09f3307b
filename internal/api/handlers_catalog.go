// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/streamshelf/internal/catalog"
)

// Providers handles GET /api/v1/providers: the streaming services upstream
// knows for a media kind, optionally ranked for one country.
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := ProvidersQuery{
		MediaKind: firstOf(r.URL.Query().Get("mediaKind"), r.URL.Query().Get("type")),
		Country:   strings.TrimSpace(r.URL.Query().Get("country")),
	}
	if !validateRequest(rw, &q) {
		return
	}

	kind := catalog.KindMovie
	if q.MediaKind != "" {
		kind, _ = catalog.ParseMediaKind(q.MediaKind)
	}
	providers, err := h.catalog.Providers(r.Context(), kind, catalog.NormalizeCountry(q.Country))
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(providers)
}

// Regions handles GET /api/v1/regions.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	regions, err := h.catalog.Regions(r.Context())
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(regions)
}

// parseTitle validates the {mediaKind}/{id} path of the /titles routes.
func parseTitle(rw *ResponseWriter, r *http.Request) (TitleQuery, catalog.MediaKind, bool) {
	q := TitleQuery{
		MediaKind: chi.URLParam(r, "mediaKind"),
		Countries: r.URL.Query().Get("countries"),
	}
	// Non-numeric ids fail the min=1 check below.
	q.ID, _ = strconv.Atoi(chi.URLParam(r, "id"))
	if !validateRequest(rw, &q) {
		return q, "", false
	}
	kind, _ := catalog.ParseMediaKind(q.MediaKind)
	return q, kind, true
}

// TitleProviders handles GET /api/v1/titles/{mediaKind}/{id}/providers: the
// per-country offer map of one title.
func (h *Handler) TitleProviders(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q, kind, ok := parseTitle(rw, r)
	if !ok {
		return
	}

	regions, err := h.availability.Regions(r.Context(), kind, q.ID)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(map[string]interface{}{
		"id":        q.ID,
		"mediaKind": kind,
		"regions":   regions,
	})
}

// TitleLinks handles GET /api/v1/titles/{mediaKind}/{id}/links: provider
// deep links per country scraped from the public watch page.
func (h *Handler) TitleLinks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q, kind, ok := parseTitle(rw, r)
	if !ok {
		return
	}

	countries := parseCommaSeparated(q.Countries)
	if len(countries) == 0 {
		countries = []string{h.linkCountry(r)}
	}
	links := h.catalog.WatchLinks(r.Context(), kind, q.ID, countries)
	rw.Success(map[string]interface{}{
		"id":        q.ID,
		"mediaKind": kind,
		"links":     links,
	})
}
