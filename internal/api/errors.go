// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/streamshelf/internal/feed"
	"github.com/tomtom215/streamshelf/internal/logging"
	"github.com/tomtom215/streamshelf/internal/prefs"
	"github.com/tomtom215/streamshelf/internal/upstream"
)

// respondServiceError maps an error from the service layer onto the
// envelope. Unknown errors become INTERNAL_ERROR.
func respondServiceError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, feed.ErrShelfNotFound):
		rw.NotFound("Shelf not found")
	case upstream.IsNotFound(err):
		rw.NotFound("Title not found")
	case errors.Is(err, feed.ErrEmptyQuery):
		rw.ValidationError("Query is required", map[string]interface{}{"field": "Query", "tag": "required"})
	case errors.Is(err, prefs.ErrInvalidUserID):
		rw.ValidationError("Invalid user id", map[string]interface{}{"field": "UserID"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Request ended before completion")
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavail, "Request cancelled or timed out")
	case upstream.IsUnavailable(err):
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Upstream unavailable")
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavail, "Catalog upstream unavailable")
	default:
		rw.InternalError(err)
	}
}
