// Package server exposes a diagram over HTTP.
//
// The browser page at "/" embeds the live SVG; clicking a cell POSTs to
// /cells/{index}/click and the page reloads when the state changes.
//
//	GET  /                     HTML page
//	GET  /state                current state as JSON
//	GET  /events               server-sent events, one per published state
//	GET  /diagram.svg          cells as SVG    (?sites=1&resolution=N)
//	GET  /diagram.png          cells as PNG    (?sites=1&resolution=N&scale=F)
//	GET  /diagram.dot          neighbor graph as DOT
//	GET  /adjacency.svg        neighbor graph as SVG
//	POST /cells/{index}/click  click a cell by index
//	POST /click                click the cell at {"x": .., "y": ..}
//	POST /regenerate           new points (?points=N)
//	POST /reset                recolor every cell from the palette
//
// Errors are returned as JSON objects {"code": .., "message": ..}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cellblend/pkg/diagram"
	"github.com/matzehuels/cellblend/pkg/interact"
	"github.com/matzehuels/cellblend/pkg/pipeline"
)

const clickPath = "/cells/{index}/click"

// Config wires a Server to its collaborators.
type Config struct {
	Store      *diagram.Store
	Controller *interact.Controller
	Runner     *pipeline.Runner // nil renders without caching
	Logger     *log.Logger      // nil uses log.Default()
	Points     int              // default for /regenerate
}

// Server serves one diagram store.
type Server struct {
	store  *diagram.Store
	ctrl   *interact.Controller
	runner *pipeline.Runner
	logger *log.Logger
	points int
	router chi.Router
}

// New builds the server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{
		store:  cfg.Store,
		ctrl:   cfg.Controller,
		runner: cfg.Runner,
		logger: cfg.Logger,
		points: cfg.Points,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handle(s.page))
	r.Get("/state", s.handle(s.getState))
	r.Get("/events", s.events)
	r.Get("/diagram.svg", s.artifact(pipeline.FormatSVG))
	r.Get("/diagram.png", s.artifact(pipeline.FormatPNG))
	r.Get("/diagram.dot", s.artifact(pipeline.FormatDOT))
	r.Get("/adjacency.svg", s.artifact(pipeline.FormatAdjacency))
	r.Post(clickPath, s.handle(s.clickIndex))
	r.Post("/click", s.handle(s.clickPoint))
	r.Post("/regenerate", s.handle(s.regenerate))
	r.Post("/reset", s.handle(s.reset))

	r.NotFound(s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return notFound(r)
	}))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
