package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/umsra/internal/platform/timeouts"
	"github.com/louisbranch/umsra/internal/services/admin/module/entities"
	"github.com/louisbranch/umsra/internal/services/admin/module/events"
	"github.com/louisbranch/umsra/internal/services/admin/routepath"
	adminsqlite "github.com/louisbranch/umsra/internal/services/admin/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Store is the persistence surface both admin sites read and write.
type Store interface {
	entities.Store
	events.Store
}

// Config defines the inputs for the admin process.
type Config struct {
	HTTPAddr string
	Store    Store
	// PageSize caps list rows per page; zero keeps the site default.
	PageSize int
}

// Server hosts the entities and events admin sites on one listener.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	closer     func() error
}

// NewServer builds a configured admin server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config.Store, config.PageSize)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           otelhttp.NewHandler(handler, "admin"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// NewHandler mounts both admin sites, the root redirect and the health probe.
func NewHandler(store Store, pageSize int) (http.Handler, error) {
	if store == nil {
		return nil, errors.New("admin store is required")
	}
	entitiesSite, err := entities.NewSite(store, pageSize)
	if err != nil {
		return nil, fmt.Errorf("build entities site: %w", err)
	}
	eventsSite, err := events.NewSite(store, pageSize)
	if err != nil {
		return nil, fmt.Errorf("build events site: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(routepath.EntitiesSite, entitiesSite.Handler())
	mux.Handle(routepath.EventsSite, eventsSite.Handler())
	mux.HandleFunc(routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc(routepath.Root+"{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, routepath.EntitiesSite, http.StatusFound)
	})
	return mux, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("admin listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		<-serveErr
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the store when the server opened it.
func (s *Server) Close() {
	if s == nil || s.closer == nil {
		return
	}
	if err := s.closer(); err != nil {
		log.Printf("close admin store: %v", err)
	}
	s.closer = nil
}

// OpenServer opens the SQLite store at dbPath and builds a server that owns it.
func OpenServer(httpAddr, dbPath string, pageSize int) (*Server, error) {
	store, err := OpenStore(dbPath)
	if err != nil {
		return nil, err
	}
	server, err := NewServer(Config{HTTPAddr: httpAddr, Store: store, PageSize: pageSize})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	server.closer = store.Close
	return server, nil
}

// OpenStore creates the parent directory of path and opens the SQLite store.
func OpenStore(path string) (*adminsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := adminsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open admin sqlite store: %w", err)
	}
	return store, nil
}
