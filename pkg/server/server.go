// Package server exposes diagrams over HTTP for the host's plugin panel.
//
// Routes:
//
//	GET  /healthz             liveness
//	GET  /api/tree/{id}       hierarchy JSON
//	GET  /api/diagram/{id}    Mermaid text
//	GET  /api/svg/{id}        Graphviz SVG, Mermaid text on render failure
//	GET  /api/metrics/{id}    depth, node counts and lint findings
//	GET  /panel/{id}          panel HTML
//	POST /api/diagram         hierarchy JSON body to Mermaid text
//
// The id routes accept max_depth, substitutes and refresh query parameters.
// Errors are JSON objects {"error": message, "code": code}.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/parttree/pkg/pipeline"
	"github.com/matzehuels/parttree/pkg/tree"
)

// Config holds server configuration.
type Config struct {
	Addr        string
	CORSOrigins []string // empty allows any origin

	// Defaults for requests that omit the query parameters.
	MaxDepth    int
	Substitutes bool
	Direction   string

	Logger *log.Logger
}

// PageLinker resolves the host page embedded in panels.
// *inventree.Client implements it.
type PageLinker interface {
	PageURL(partID int) string
}

// Server serves diagrams from a pipeline runner.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	pages      PageLinker
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server. pages may be nil, in which case panels carry no iframe.
func New(cfg Config, runner *pipeline.Runner, pages PageLinker) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	cfg.MaxDepth = tree.ClampDepth(cfg.MaxDepth)
	s := &Server{
		cfg:    cfg,
		runner: runner,
		pages:  pages,
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{fallbackHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tree/{id}", s.handleTree)
		r.Get("/diagram/{id}", s.handleDiagram)
		r.Post("/diagram", s.handleDiagramBody)
		r.Get("/svg/{id}", s.handleSVG)
		r.Get("/metrics/{id}", s.handleMetrics)
	})
	r.Get("/panel/{id}", s.handlePanel)

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
