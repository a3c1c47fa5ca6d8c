// Package server implements the playbookforge HTTP API on chi.
//
// Routes:
//
//	GET    /healthz
//	POST   /api/parse
//	GET    /api/formats
//	GET    /api/playbooks
//	POST   /api/playbooks
//	GET    /api/playbooks/{id}
//	PUT    /api/playbooks/{id}
//	DELETE /api/playbooks/{id}
//	GET    /api/playbooks/{id}/export?format=svg
//
// Failures are returned as {"detail": "...", "error_type": "CODE"} with the
// status from errors.HTTPStatus.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/playbookforge/pkg/config"
	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/pipeline"
	"github.com/matzehuels/playbookforge/pkg/store"
)

// Deps holds the dependencies for the API server.
type Deps struct {
	Runner *pipeline.Runner
	Store  store.Store
	Limits config.LimitsConfig
	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	deps Deps
}

// New creates a server. Missing dependencies get in-process defaults: an
// uncached runner, a memory store and the default limits.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Runner == nil {
		deps.Runner = pipeline.NewRunner(nil, nil, deps.Logger)
	}
	if deps.Store == nil {
		deps.Store = store.NewMemoryStore()
	}
	def := config.Default().Limits
	if deps.Limits.MaxInputBytes <= 0 {
		deps.Limits.MaxInputBytes = def.MaxInputBytes
	}
	if deps.Limits.MaxNodes <= 0 {
		deps.Limits.MaxNodes = def.MaxNodes
	}
	if deps.Limits.MaxEdges <= 0 {
		deps.Limits.MaxEdges = def.MaxEdges
	}
	return &Server{deps: deps}
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.recoverPanics)
	r.Use(limitBody(s.bodyLimit()))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Get("/formats", s.handleFormats)

		r.Route("/playbooks", func(r chi.Router) {
			r.Get("/", s.handleListPlaybooks)
			r.Post("/", s.handleCreatePlaybook)
			r.Get("/{id}", s.handleGetPlaybook)
			r.Put("/{id}", s.handleUpdatePlaybook)
			r.Delete("/{id}", s.handleDeletePlaybook)
			r.Get("/{id}/export", s.handleExportPlaybook)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found", string(errors.ErrCodeNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed", "METHOD_NOT_ALLOWED")
	})
	return r
}

// bodyLimit leaves room for the JSON envelope around the content field.
func (s *Server) bodyLimit() int64 {
	return int64(s.deps.Limits.MaxInputBytes)*2 + 64<<10
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.deps.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
