// Streamshelf - Provider-Filtered Streaming Catalog Feeds
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamshelf

package services

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenErr     error
	shutdownErr   error
	block         bool
	listenCount   atomic.Int32
	shutdownCount atomic.Int32
	closeCount    atomic.Int32
	started       chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenCount.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	if m.block {
		<-m.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	m.stop()
	return m.shutdownErr
}

func (m *mockHTTPServer) Close() error {
	m.closeCount.Add(1)
	m.stop()
	return nil
}

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ HTTPServer     = (*http.Server)(nil)
)

func TestNewHTTPServerService_DefaultDrainTimeout(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{30 * time.Second, 30 * time.Second},
		{0, 10 * time.Second},
		{-5 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		svc := NewHTTPServerService(newMockHTTPServer(), tt.in)
		if svc.drainTimeout != tt.want {
			t.Errorf("NewHTTPServerService(%v).drainTimeout = %v, want %v", tt.in, svc.drainTimeout, tt.want)
		}
	}
	if got := NewHTTPServerService(newMockHTTPServer(), 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

// serveUntilCancelled starts svc, cancels once the server is listening and
// returns Serve's result.
func serveUntilCancelled(t *testing.T, svc *HTTPServerService, server *mockHTTPServer) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case <-server.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
	cancel()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
		return nil
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("drains on context cancellation", func(t *testing.T) {
		server := newMockHTTPServer()
		server.block = true

		err := serveUntilCancelled(t, NewHTTPServerService(server, time.Second), server)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if server.shutdownCount.Load() != 1 || server.closeCount.Load() != 0 {
			t.Errorf("shutdown=%d close=%d, want 1 and 0", server.shutdownCount.Load(), server.closeCount.Load())
		}
	})

	t.Run("closes connections when the drain times out", func(t *testing.T) {
		server := newMockHTTPServer()
		server.block = true
		server.shutdownErr = context.DeadlineExceeded

		err := serveUntilCancelled(t, NewHTTPServerService(server, time.Second), server)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled after forced close, got %v", err)
		}
		if server.closeCount.Load() != 1 {
			t.Errorf("close=%d, want 1", server.closeCount.Load())
		}
	})

	t.Run("returns other shutdown errors", func(t *testing.T) {
		shutdownErr := errors.New("listener close failed")
		server := newMockHTTPServer()
		server.block = true
		server.shutdownErr = shutdownErr

		err := serveUntilCancelled(t, NewHTTPServerService(server, time.Second), server)
		if !errors.Is(err, shutdownErr) {
			t.Errorf("expected shutdown error, got %v", err)
		}
		if server.closeCount.Load() != 0 {
			t.Errorf("close=%d, want 0", server.closeCount.Load())
		}
	})

	t.Run("returns error on startup failure", func(t *testing.T) {
		bindErr := errors.New("bind: address already in use")
		server := newMockHTTPServer()
		server.listenErr = bindErr

		err := NewHTTPServerService(server, time.Second).Serve(context.Background())
		if !errors.Is(err, bindErr) {
			t.Errorf("expected %v, got %v", bindErr, err)
		}
	})

	t.Run("closed elsewhere is not an error", func(t *testing.T) {
		server := newMockHTTPServer()
		server.listenErr = http.ErrServerClosed

		if err := NewHTTPServerService(server, time.Second).Serve(context.Background()); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

// listenerServer serves on a pre-bound listener so the test knows the port.
type listenerServer struct {
	*http.Server
	ln net.Listener
}

func (s listenerServer) ListenAndServe() error {
	return s.Serve(s.ln)
}

func TestHTTPServerService_CancelsSlowRequestsAfterDrain(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	entered := make(chan struct{})
	aborted := make(chan struct{})
	srv := &http.Server{
		// Stands in for a feed build that outlives the drain window.
		Handler: http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			close(entered)
			<-r.Context().Done()
			close(aborted)
		}),
		ReadHeaderTimeout: time.Second,
	}
	svc := NewHTTPServerService(listenerServer{Server: srv, ln: ln}, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/feed")
		if err == nil {
			resp.Body.Close()
		}
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after the drain timeout")
	}

	select {
	case <-aborted:
	case <-time.After(2 * time.Second):
		t.Error("in-flight request context was not cancelled")
	}
}
