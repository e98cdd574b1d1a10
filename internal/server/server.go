// Package server exposes datasets and interactive visualizer sessions over
// HTTP.
//
// The dataset endpoint (GET /?filename=...) serves files from the data
// directory with permissive CORS so a browser front end on another origin
// can load them. Session endpoints keep a live controller per session and
// translate clicks, searches and panel toggles into controller calls,
// returning the redrawn canvas as SVG.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/importviz/pkg/config"
	"github.com/matzehuels/importviz/pkg/fetch"
	"github.com/matzehuels/importviz/pkg/observability"
	"github.com/matzehuels/importviz/pkg/session"
)

// cleanupInterval is how often expired sessions are dropped.
const cleanupInterval = time.Minute

// Server is the importviz HTTP server.
type Server struct {
	cfg      *config.Config
	files    *fetch.Loader
	loader   *fetch.Loader
	sessions *session.Store
	logger   *log.Logger
	router   chi.Router
}

// New builds a server. Datasets for the filename endpoint are read from
// cfg.Server.DataDir; sessions load their source through loader. The serve
// command confines that loader to the data directory unless HTTP is allowed.
func New(cfg *config.Config, loader *fetch.Loader, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:      cfg,
		files:    fetch.New(fetch.FileSource{Root: cfg.Server.DataDir}, fetch.WithLogger(logger)),
		loader:   loader,
		sessions: session.NewStore(cfg.Server.MaxSessions, cfg.Server.SessionTTL.Duration),
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors)

	r.Get("/", s.handleDataset)
	r.Get("/healthz", s.handleHealth)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/canvas.svg", s.handleCanvas)
			r.Post("/click", s.handleClick)
			r.Get("/search", s.handleSearch)
			r.Post("/search/{n}", s.handleSelect)
			r.Post("/plot", s.handlePlot)
			r.Post("/tools", s.handleTools)
			r.Post("/reset", s.handleReset)
		})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the session store.
func (s *Server) Sessions() *session.Store { return s.sessions }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanup(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "data_dir", s.cfg.Server.DataDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) cleanup(ctx context.Context) {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Cleanup(); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
				observability.Sessions().OnSessionsExpired(ctx, n)
			}
		}
	}
}
