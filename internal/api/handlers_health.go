// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status           string            `json:"status"` // "healthy" or "degraded"
	Version          string            `json:"version"`
	Uptime           float64           `json:"uptimeSeconds"`
	Upstreams        map[string]string `json:"upstreams"`
	SavedPreferences int               `json:"savedPreferences"`
}

// Health reports upstream breaker states. The service is degraded when the
// catalog upstream is unconfigured or any breaker is open; the endpoint
// still answers 200 so the feed keeps serving cached and guest content.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	upstreams := h.catalog.Status()

	status := "healthy"
	if upstreams["tmdb"] == "unconfigured" {
		status = "degraded"
	}
	for _, state := range upstreams {
		if state == "open" {
			status = "degraded"
		}
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:           status,
		Version:          h.version,
		Uptime:           time.Since(h.startTime).Seconds(),
		Upstreams:        upstreams,
		SavedPreferences: h.prefs.Len(),
	})
}

// HealthLive is the liveness probe: 200 whenever the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":         true,
		"uptimeSeconds": time.Since(h.startTime).Seconds(),
	})
}
