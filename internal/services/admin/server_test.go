package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "nested", "admin.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	handler, err := NewHandler(store, 0)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

// TestListenAndServeNilServer verifies nil server returns an error.
func TestListenAndServeNilServer(t *testing.T) {
	var s *Server
	if err := s.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	s.Close()
}

// TestNewServerRequiresHTTPAddr ensures a blank HTTP address fails fast.
func TestNewServerRequiresHTTPAddr(t *testing.T) {
	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("expected error for empty HTTP address")
	}
}

func TestNewServerRequiresStore(t *testing.T) {
	if _, err := NewServer(Config{HTTPAddr: "127.0.0.1:0"}); err == nil {
		t.Fatal("expected error for missing store")
	}
}

func TestHandlerRoutes(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name     string
		path     string
		status   int
		location string
		contains string
	}{
		{name: "root redirects", path: "/", status: http.StatusFound, location: "/admin/"},
		{name: "health", path: "/healthz", status: http.StatusOK, contains: "ok"},
		{name: "entities index", path: "/admin/", status: http.StatusOK, contains: "Welcome to UMSRA Researcher Portal"},
		{name: "events index", path: "/event-admin/", status: http.StatusOK, contains: "Welcome to UMSRA Researcher Events Portal"},
		{name: "unknown path", path: "/nowhere", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Fatalf("location = %q, want %q", rec.Header().Get("Location"), tt.location)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Fatalf("body missing %q", tt.contains)
			}
		})
	}
}

// TestListenAndServeStopsOnCancel verifies the server exits on context cancel
// and leaves no goroutines behind once closed.
func TestListenAndServeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := OpenServer("127.0.0.1:0", filepath.Join(t.TempDir(), "admin.db"), 0)
	if err != nil {
		t.Fatalf("open server: %v", err)
	}
	defer server.Close()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe(ctx)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop on cancel")
	}
}
