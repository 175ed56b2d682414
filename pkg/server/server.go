// Package server exposes the layout pipeline as an HTTP JSON API.
//
// # Endpoints
//
//	POST /v1/columns   snapshot → column assignment (?format=json|dot|svg, ?hardware_on_sides=true)
//	POST /v1/arrange   snapshot → box positions (?mode=follow|face)
//	POST /v1/resolve   resolve request → moves
//	GET  /healthz      build information
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// holding the machine-readable code of [errors.Code]; client errors answer
// 400, layout failures 422 and anything else 500.
//
// Requests are independent: the server keeps no state between them apart
// from the shared result cache of its [pipeline.Runner].
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

	"github.com/matzehuels/patchlayout/pkg/core/layout/arrange"
	"github.com/matzehuels/patchlayout/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 4 << 20

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the layout API.
type Server struct {
	runner          *pipeline.Runner
	metrics         arrange.Config
	hardwareOnSides bool
	maxBody         int64
	logger          *log.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger for request and lifecycle messages.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the canvas metrics used for arrangements and resolution.
func WithMetrics(c arrange.Config) Option { return func(s *Server) { s.metrics = c } }

// WithHardwareOnSides makes hardware_on_sides default to true on /v1/columns.
func WithHardwareOnSides(v bool) Option { return func(s *Server) { s.hardwareOnSides = v } }

// WithMaxBodyBytes caps request bodies; n <= 0 keeps the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a server running requests through runner. A nil runner gets
// an uncached one.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		metrics: arrange.DefaultConfig(),
		maxBody: DefaultMaxBodyBytes,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.runner = runner
	return s
}

// Handler returns the routed handler of the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(s.limitBody)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/columns", s.handleColumns)
		r.Post("/arrange", s.handleArrange)
		r.Post("/resolve", s.handleResolve)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("NOT_FOUND", "no route for "+r.URL.Path, r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("METHOD_NOT_ALLOWED", r.Method+" not allowed", r))
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
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

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
