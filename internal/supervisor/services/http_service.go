// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/streamshelf/internal/logging"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

// HTTPServerService runs the API server under suture.
//
// On cancellation the server stops accepting connections and in-flight
// requests get drainTimeout to finish. A feed page can hold a request open
// for a whole scan budget of upstream calls, so requests still running after
// the drain window are cut off by closing their connections. That cancels
// their request contexts, which ends the scans without caching the partial
// result.
type HTTPServerService struct {
	server       HTTPServer
	drainTimeout time.Duration
}

// NewHTTPServerService wraps server. A non-positive drainTimeout means 10s.
func NewHTTPServerService(server HTTPServer, drainTimeout time.Duration) *HTTPServerService {
	if drainTimeout <= 0 {
		drainTimeout = 10 * time.Second
	}
	return &HTTPServerService{server: server, drainTimeout: drainTimeout}
}

// Serve implements suture.Service. It returns ctx.Err() after a clean drain
// and nil if the server was closed from elsewhere.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- s.server.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		return s.drain(ctx.Err(), listenErr)
	}
}

func (s *HTTPServerService) drain(cause error, listenErr <-chan error) error {
	started := time.Now()

	// The serve context is already done; the drain needs its own deadline.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	err := s.server.Shutdown(drainCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		logging.Warn().Dur("drain_timeout", s.drainTimeout).
			Msg("Requests still running after drain timeout, closing connections")
		err = s.server.Close()
	}
	<-listenErr

	if err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	logging.Info().Dur("elapsed", time.Since(started)).Msg("HTTP server stopped")
	return cause
}

// String implements fmt.Stringer for suture's logs.
func (s *HTTPServerService) String() string {
	return "http-server"
}
