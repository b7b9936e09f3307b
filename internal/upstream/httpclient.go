// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/streamshelf/internal/metrics"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// restClient is the shared transport of every upstream client: pacing,
// circuit breaking, status checking and metrics around a plain http.Client.
type restClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *Breaker
	headers    http.Header
}

func newRESTClient(name, baseURL string, timeout time.Duration, rps float64, burst int) *restClient {
	if burst < 1 {
		burst = 1
	}
	return &restClient{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		breaker:    NewBreaker(name),
		headers:    make(http.Header),
	}
}

// do issues a GET for path+query and hands a 200 response to handle.
// endpoint is a low-cardinality label for metrics and errors.
func (c *restClient) do(ctx context.Context, endpoint, path string, query url.Values, handle func(io.Reader) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: rate limiter: %w", c.name, endpoint, err)
	}

	start := time.Now()
	err := c.breaker.Execute(func() error {
		fullURL := c.baseURL + path
		if len(query) > 0 {
			fullURL += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		for k, v := range c.headers {
			req.Header[k] = v
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", c.name, endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return &StatusError{Upstream: c.name, Endpoint: endpoint, StatusCode: resp.StatusCode}
		}
		return handle(io.LimitReader(resp.Body, maxBodyBytes))
	})
	metrics.RecordUpstreamRequest(c.name, endpoint, time.Since(start), err)
	return err
}

// getJSON decodes a 200 JSON response into out.
func (c *restClient) getJSON(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	return c.do(ctx, endpoint, path, query, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", c.name, endpoint, err)
		}
		return nil
	})
}
