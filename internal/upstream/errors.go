// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package upstream

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrNotConfigured is returned when an upstream has no credentials.
var ErrNotConfigured = errors.New("upstream not configured")

// ErrUpstreamStatus matches every StatusError via errors.Is.
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// StatusError reports a non-200 upstream response.
type StatusError struct {
	Upstream   string
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Upstream, e.Endpoint, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// clientFault reports whether the upstream rejected the request itself
// (unknown title, bad parameter). Those do not count against the breaker.
func (e *StatusError) clientFault() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// IsUnavailable reports whether err means the upstream could not serve the
// request at all: missing credentials, an open breaker, a transport failure
// or a server-side status.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.clientFault()
	}
	var ne net.Error
	return errors.As(err, &ne)
}
