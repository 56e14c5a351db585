// Package server is the reference HTTP backend the terminal client talks to.
// It stores roadmaps and progress in SQLite and generates curricula through
// the curriculum service.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/skilltrail/internal/auth"
	"github.com/abhisek/skilltrail/internal/curriculum"
	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/store"
)

// Generator produces roadmap documents. *curriculum.Service satisfies it.
type Generator interface {
	Generate(ctx context.Context, req curriculum.Request) (*curriculum.Result, error)
}

// Options wires a Server.
type Options struct {
	Store       *store.Store
	Issuer      *auth.Issuer
	Generator   Generator
	TokenTTL    time.Duration
	CORSOrigins []string
	Logger      *logger.Logger

	// Now overrides the clock used for streak computation.
	Now func() time.Time
}

// Server serves the /api/v1 surface.
type Server struct {
	store    *store.Store
	issuer   *auth.Issuer
	gen      Generator
	ttl      time.Duration
	origins  []string
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

func New(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Server{
		store:    opts.Store,
		issuer:   opts.Issuer,
		gen:      opts.Generator,
		ttl:      ttl,
		origins:  opts.CORSOrigins,
		validate: validator.New(),
		log:      logger.OrNop(opts.Logger),
		now:      now,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Groq-Api-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.instrument)

		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/roadmap", func(r chi.Router) {
				r.Get("/", s.handleListRoadmaps)
				r.Get("/latest", s.handleLatestRoadmap)
				r.Post("/generate", s.handleGenerate)
				r.Delete("/cleanup", s.handleCleanup)
				r.Get("/{id}", s.handleGetRoadmap)
				r.Put("/{id}/bookmark", s.handleToggleBookmark)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Post("/progress", s.handleSaveProgress)
				r.Get("/stats", s.handleStats)
			})
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
