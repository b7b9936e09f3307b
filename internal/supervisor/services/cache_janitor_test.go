// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/streamshelf/internal/cache"
)

func TestCacheJanitor_Sweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	feeds := cache.New("feed_test_janitor", cache.WithClock(clock))
	shelves := cache.New("shelf_test_janitor", cache.WithClock(clock))

	feeds.Set("short", 1, time.Minute)
	feeds.Set("long", 2, time.Hour)
	shelves.Set("short", 3, time.Minute)

	j := NewCacheJanitorService(time.Second, feeds, shelves)
	if got := j.Sweep(); got != 0 {
		t.Fatalf("Sweep before expiry removed %d entries", got)
	}

	now = now.Add(2 * time.Minute)
	if got := j.Sweep(); got != 2 {
		t.Errorf("Sweep removed %d entries, want 2", got)
	}
	if _, ok := feeds.Get("long"); !ok {
		t.Error("unexpired entry was swept")
	}
}

type countingSweeper struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSweeper) Name() string { return "counting" }

func (c *countingSweeper) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 0
}

func (c *countingSweeper) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestCacheJanitor_Serve(t *testing.T) {
	sw := &countingSweeper{}
	j := NewCacheJanitorService(10*time.Millisecond, sw)

	ctx, cancel := context.WithTimeout(context.Background(), 75*time.Millisecond)
	defer cancel()

	err := j.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want deadline exceeded", err)
	}
	if sw.Calls() < 3 {
		t.Errorf("Cleanup called %d times, want at least 3", sw.Calls())
	}
}

func TestNewCacheJanitorService_DefaultInterval(t *testing.T) {
	j := NewCacheJanitorService(0)
	if j.interval != time.Minute || j.String() != "cache-janitor" {
		t.Errorf("interval = %v, name = %q", j.interval, j.String())
	}
}
