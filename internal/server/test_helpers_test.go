package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bingo-rooms/internal/bingo"
	"bingo-rooms/internal/logging"
	"bingo-rooms/internal/service"
	"bingo-rooms/internal/storage/memory"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// newTestApp wires a memory-backed service behind the router.
func newTestApp(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	log := logging.Discard()
	hub := NewHub(log)
	rooms := service.New(service.Options{
		Store:       memory.NewStore(),
		Broadcaster: hub,
		Source:      bingo.NewSeededSource(5),
		Log:         log,
	})
	opts.Log = log
	srv := New(rooms, hub, opts)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
