// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/streamshelf/internal/feed"
	"github.com/tomtom215/streamshelf/internal/validation"
)

// validateRequest writes a VALIDATION_ERROR and returns false when v fails
// its struct tags.
func validateRequest(rw *ResponseWriter, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return false
	}
	return true
}

// Feed handles GET /api/v1/feed: one page of personalized or guest shelves.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := parseFeedQuery(r)
	if !validateRequest(rw, &q) {
		return
	}

	resp, err := h.feed.GetFeed(r.Context(), feed.FeedRequest{
		FilterParams: q.params(h.userID(r), h.geoCountry(r)),
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.SuccessCached(resp, resp.Cached)
}

// Shelf handles GET /api/v1/shelf/{shelfID}: one shelf, possibly several
// upstream pages deep, for "see more" views.
func (h *Handler) Shelf(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := parseShelfQuery(r, chi.URLParam(r, "shelfID"))
	if !validateRequest(rw, &q) {
		return
	}

	resp, err := h.feed.GetShelf(r.Context(), q.ShelfID, feed.ShelfRequest{
		FilterParams: q.params(h.userID(r), h.geoCountry(r)),
		Page:         q.Page,
		Offset:       q.Offset,
		Pages:        q.Pages,
		Cursor:       q.Cursor,
	})
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.SuccessCached(resp, resp.Cached)
}

// Search handles GET /api/v1/search?q=: free-text search restricted to
// titles available under the caller's filter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := SearchQuery{
		FilterQuery: parseFilterQuery(r),
		Query:       strings.TrimSpace(firstOf(r.URL.Query().Get("q"), r.URL.Query().Get("query"))),
	}
	if !validateRequest(rw, &q) {
		return
	}

	fc := h.feed.ResolveFilter(q.params(h.userID(r), h.geoCountry(r)))
	resp, err := h.feed.Search(r.Context(), q.Query, fc)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(resp)
}

// Discover handles GET /api/v1/discover: attribute filters (genres, dates,
// ratings, language, runtime, ordering) applied to the caller's services.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := parseDiscoverQuery(r)
	if !validateRequest(rw, &q) {
		return
	}
	if verr := q.rangeErrors(); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}

	fc := h.feed.ResolveFilter(q.params(h.userID(r), h.geoCountry(r)))
	resp, err := h.feed.Discover(r.Context(), q.Filters(), fc)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	rw.Success(resp)
}
