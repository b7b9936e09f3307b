// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordUpstreamRequest(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("tmdb", "discover", "error"))

	RecordUpstreamRequest("tmdb", "discover", 20*time.Millisecond, errors.New("boom"))
	RecordUpstreamRequest("tmdb", "discover", 20*time.Millisecond, nil)

	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("tmdb", "discover", "error"))
	if after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}
}

func TestRecordFeedRequestLabels(t *testing.T) {
	tests := []struct {
		guest, cached bool
		mode, hit     string
	}{
		{false, false, "personal", "miss"},
		{true, true, "guest", "hit"},
	}

	for _, tt := range tests {
		c := FeedRequestsTotal.WithLabelValues("feed", tt.mode, tt.hit)
		before := testutil.ToFloat64(c)
		RecordFeedRequest("feed", tt.guest, tt.cached)
		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("mode=%s hit=%s delta = %v, want 1", tt.mode, tt.hit, got)
		}
	}
}

func TestRecordAvailabilityLookup(t *testing.T) {
	tests := []struct {
		available bool
		err       error
		label     string
	}{
		{true, nil, "available"},
		{false, nil, "unavailable"},
		{true, errors.New("timeout"), "error"},
	}

	for _, tt := range tests {
		c := AvailabilityLookups.WithLabelValues(tt.label)
		before := testutil.ToFloat64(c)
		RecordAvailabilityLookup(tt.available, tt.err)
		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("%s delta = %v, want 1", tt.label, got)
		}
	}
}

func TestRecordCacheSweep(t *testing.T) {
	RecordCacheSweep("availability", 3, 7)
	if got := testutil.ToFloat64(CacheSize.WithLabelValues("availability")); got != 7 {
		t.Errorf("cache_entries = %v, want 7", got)
	}
}
