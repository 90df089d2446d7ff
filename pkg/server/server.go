// Package server exposes the layout engine over HTTP.
//
// The server hosts live chart instances keyed by id. Clients create a
// chart by posting its spec, then read computed layouts and resolve
// pointer positions against them. Charts created with a sync id share
// a hub, so a pointer posted to one chart updates its linked charts.
//
// Endpoints:
//
//	GET    /healthz                  liveness probe
//	POST   /v1/charts                create a chart from a spec
//	GET    /v1/charts                list chart ids
//	GET    /v1/charts/{id}           fetch the stored spec
//	DELETE /v1/charts/{id}           remove a chart
//	GET    /v1/charts/{id}/layout    computed layout (cached)
//	POST   /v1/charts/{id}/pointer   resolve a pointer position
//	POST   /v1/charts/{id}/brush     set the brush window
//	GET    /v1/charts/{id}/tooltip   current tooltip state
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/link"
	"github.com/matzehuels/chartcore/pkg/store"
)

// Options configures the server.
type Options struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string

	// Cache holds computed layout exports. Defaults to an in-process cache.
	Cache cache.Cache

	// Keyer generates cache keys. Defaults to the standard keyer.
	Keyer cache.Keyer

	// CacheTTL bounds how long a cached layout is served. Defaults to
	// one hour; brush and resize invalidate through the key, not the TTL.
	CacheTTL time.Duration

	// Store archives specs and layouts. Optional; nil disables archiving.
	Store store.Store

	// Hub carries sync messages between hosted charts.
	// Defaults to a hub private to this server.
	Hub *link.Hub

	// Logger defaults to a discarding logger.
	Logger *log.Logger

	validated bool
}

// SetDefaults applies option defaults in place.
func (o *Options) SetDefaults() {
	if o.validated {
		return
	}
	if o.Addr == "" {
		o.Addr = ":8080"
	}
	if o.Cache == nil {
		o.Cache = cache.Instrumented(cache.NewMemoryCache(), "layout")
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = time.Hour
	}
	if o.Hub == nil {
		o.Hub = link.NewHub()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
}

// Server hosts chart instances over HTTP.
type Server struct {
	opts   Options
	router chi.Router

	mu     sync.RWMutex
	charts map[string]*chart.Chart
}

// New creates a server and mounts its routes.
func New(opts Options) *Server {
	opts.SetDefaults()
	s := &Server{
		opts:   opts,
		charts: make(map[string]*chart.Chart),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/healthz", s.handleHealth)
	r.Route("/v1/charts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSpec)
			r.Delete("/", s.handleDelete)
			r.Get("/layout", s.handleLayout)
			r.Post("/pointer", s.handlePointer)
			r.Post("/brush", s.handleBrush)
			r.Get("/tooltip", s.handleTooltip)
		})
	})
	s.router = r
	return s
}

// Router returns the HTTP handler, for mounting or testing.
func (s *Server) Router() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.closeAll()
	return nil
}

// chartByID looks up a hosted chart.
func (s *Server) chartByID(id string) (*chart.Chart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.charts[id]
	return ch, ok
}

// addChart registers a chart under a fresh id.
func (s *Server) addChart(ch *chart.Chart) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.charts[id] = ch
	s.mu.Unlock()
	return id
}

// removeChart unhosts and closes a chart. Returns false if unknown.
func (s *Server) removeChart(id string) bool {
	s.mu.Lock()
	ch, ok := s.charts[id]
	delete(s.charts, id)
	s.mu.Unlock()
	if ok {
		ch.Close()
	}
	return ok
}

// chartIDs lists hosted chart ids in stable order.
func (s *Server) chartIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.charts))
	for id := range s.charts {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (s *Server) closeAll() {
	s.mu.Lock()
	for id, ch := range s.charts {
		ch.Close()
		delete(s.charts, id)
	}
	s.mu.Unlock()
}
