// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/streamshelf/internal/middleware"
)

// Router binds the handler to chi routes.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
	timeout time.Duration
}

// NewRouter creates a router. timeout bounds each API request; zero
// disables the bound.
func NewRouter(handler *Handler, mw *ChiMiddleware, timeout time.Duration) *Router {
	return &Router{handler: handler, mw: mw, timeout: timeout}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS()) // must be global to answer OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
	})
	r.With(router.mw.RateLimitHealth()).Handle("/metrics", promhttp.Handler())

	// ========================
	// Catalog Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		if router.timeout > 0 {
			r.Use(chimiddleware.Timeout(router.timeout))
		}

		r.Get("/feed", router.handler.Feed)
		r.Get("/shelf/{shelfID}", router.handler.Shelf)
		r.Get("/search", router.handler.Search)
		r.Get("/discover", router.handler.Discover)

		r.Get("/providers", router.handler.Providers)
		r.Get("/regions", router.handler.Regions)
		r.Get("/titles/{mediaKind}/{id}/providers", router.handler.TitleProviders)
		r.Get("/titles/{mediaKind}/{id}/links", router.handler.TitleLinks)

		r.Get("/preferences", router.handler.GetPreferences)
		r.Put("/preferences", router.handler.PutPreferences)
	})

	return r
}
