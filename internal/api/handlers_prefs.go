// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamshelf/internal/logging"
	"github.com/tomtom215/streamshelf/internal/prefs"
)

const maxPreferencesBody = 64 << 10

// PreferencesView is the response body of both preference endpoints.
type PreferencesView struct {
	prefs.Preferences
	Saved bool `json:"saved"`
}

// requireUser writes a VALIDATION_ERROR unless the identity header carries
// a usable user id.
func (h *Handler) requireUser(rw *ResponseWriter, r *http.Request) (string, bool) {
	userID := h.userID(r)
	if err := prefs.ValidateUserID(userID); err != nil {
		rw.ValidationError("A valid "+h.userHeader+" header is required", map[string]interface{}{
			"field": "UserID",
			"tag":   "required",
		})
		return "", false
	}
	return userID, true
}

// GetPreferences handles GET /api/v1/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := h.requireUser(rw, r)
	if !ok {
		return
	}

	saved, found, err := h.prefs.Get(userID)
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	if !found {
		saved = prefs.Preferences{ProviderIDs: []int{}, Countries: []string{}}
	}
	rw.Success(PreferencesView{Preferences: saved, Saved: found})
}

// PutPreferences handles PUT /api/v1/preferences. The body replaces any
// saved value.
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := h.requireUser(rw, r)
	if !ok {
		return
	}

	var body PreferencesBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPreferencesBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		rw.ValidationError("Request body must be a JSON preferences object", map[string]interface{}{
			"field": "body",
			"error": err.Error(),
		})
		return
	}
	if !validateRequest(rw, &body) {
		return
	}

	saved, err := h.prefs.Put(userID, prefs.Preferences{
		ProviderIDs: body.ProviderIDs,
		Countries:   body.Countries,
		IncludePaid: body.IncludePaid,
	})
	if err != nil {
		respondServiceError(rw, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Int("providers", len(saved.ProviderIDs)).
		Int("countries", len(saved.Countries)).
		Msg("Preferences saved")
	rw.Success(PreferencesView{Preferences: saved, Saved: true})
}
