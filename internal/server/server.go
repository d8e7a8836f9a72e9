// Package server exposes untangle games over a JSON HTTP API.
//
// Each game is a [game.Session] held in memory under a UUID. The engine is
// single-threaded, so every request on a game runs under that game's lock,
// and interaction preconditions (an active drag, a known vertex) are
// checked here before the engine is called.
//
// Routes:
//
//	POST   /api/games                     start a game {"start_level": n}
//	GET    /api/games/{id}                snapshot
//	DELETE /api/games/{id}                end a game
//	POST   /api/games/{id}/hover          {"vertex": id|null}
//	POST   /api/games/{id}/drag/start     {"vertex": id}
//	POST   /api/games/{id}/drag/move      {"x": x, "y": y}
//	POST   /api/games/{id}/drag/finish    snapshot, "solved" set if the drop solved the level
//	POST   /api/games/{id}/save           {"name": "..."} → save entry
//	GET    /api/saves                     save entries, newest first
//	POST   /api/saves/{saveID}/load       start a game from a save
//	DELETE /api/saves/{saveID}            delete a save
//	GET    /healthz
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/untangle/pkg/game"
	"github.com/matzehuels/untangle/pkg/store"
)

// Defaults for Options left at zero.
const (
	DefaultMaxSessions     = 256
	DefaultSessionTTL      = 2 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second

	// maxBodySize bounds request bodies; every request body is a small JSON object.
	maxBodySize = 64 << 10
)

// Server serves the game API.
type Server struct {
	logger   *log.Logger
	store    store.Store
	sessions *registry
	gameOpts []game.Option
	shutdown time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and lifecycle logs.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSessions bounds the number of live games. When full, the least
// recently used game is evicted.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sessions.max = n
		}
	}
}

// WithSessionTTL sets how long an idle game is kept.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.sessions.ttl = d
		}
	}
}

// WithShutdownTimeout bounds the graceful shutdown in Run.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdown = d
		}
	}
}

// WithGameOptions adds options passed to every session the server creates.
func WithGameOptions(opts ...game.Option) Option {
	return func(s *Server) {
		s.gameOpts = append(s.gameOpts, opts...)
	}
}

// New creates a server storing saves in st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		store:    st,
		sessions: newRegistry(DefaultMaxSessions, DefaultSessionTTL),
		shutdown: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.gameOpts = append([]game.Option{game.WithLogger(s.logger)}, s.gameOpts...)
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(middleware.RequestSize(maxBodySize))

		r.Post("/games", s.createGame)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", s.getGame)
			r.Delete("/", s.deleteGame)
			r.Post("/hover", s.hover)
			r.Post("/drag/start", s.dragStart)
			r.Post("/drag/move", s.dragMove)
			r.Post("/drag/finish", s.dragFinish)
			r.Post("/save", s.saveGame)
		})

		r.Get("/saves", s.listSaves)
		r.Post("/saves/{saveID}/load", s.loadSave)
		r.Delete("/saves/{saveID}", s.deleteSave)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Idle games are swept in the background while the server runs.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.sessions.sweepEvery(ctx, s.sessions.ttl/4, func(n int) {
			s.logger.Debug("expired games removed", "count", n)
		})
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Sessions returns the number of live games.
func (s *Server) Sessions() int { return s.sessions.len() }
