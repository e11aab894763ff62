// Package server wires the people registration routes onto a chi router.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formbind/internal/pages"
	"github.com/goliatone/go-formbind/internal/people"
	"github.com/goliatone/go-formbind/internal/store"
)

// Config holds the collaborators of the server.
type Config struct {
	Repository store.Repository
	Binder     *people.Binder
	Pages      *pages.Engine
	Logger     *slog.Logger
	// ShutdownTimeout bounds graceful shutdown in Run. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server serves the registration forms.
type Server struct {
	repo     store.Repository
	binder   *people.Binder
	pages    *pages.Engine
	logger   *slog.Logger
	shutdown time.Duration
	router   chi.Router
}

// New validates cfg and registers every route.
func New(cfg Config) (*Server, error) {
	if cfg.Repository == nil {
		return nil, errors.New("server: repository is required")
	}
	if cfg.Pages == nil {
		return nil, errors.New("server: page engine is required")
	}
	if cfg.Binder == nil {
		cfg.Binder = people.NewBinder()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		repo:     cfg.Repository,
		binder:   cfg.Binder,
		pages:    cfg.Pages,
		logger:   cfg.Logger,
		shutdown: cfg.ShutdownTimeout,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/openapi.json", s.openAPI)
		r.Get("/schema/{name}", s.schema)
	})

	r.Group(func(r chi.Router) {
		r.Use(csrf)
		r.Get("/", s.list)
		r.Get("/people/new", s.newPerson)
		r.Post("/people", s.create)
		r.Route("/people/{id}", func(r chi.Router) {
			r.Get("/", s.edit)
			r.Post("/", s.update)
			r.Post("/addresses", s.appendAddress)
			r.Post("/addresses/{index}", s.putAddress)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", listener.Addr().String()))
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
