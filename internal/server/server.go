package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Port        int           // Listen port (default: 5000)
	MetricsPath string        // Metrics endpoint path (default: /metrics)
	ReadTimeout time.Duration // Request read timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:        5000,
		MetricsPath: "/metrics",
		ReadTimeout: 10 * time.Second,
	}
}

// Server is the quoter's HTTP front end.
type Server struct {
	cfg     Config
	handler *Handler
	logger  *slog.Logger

	srv *http.Server
}

// New creates a Server. The metrics and relay handlers may be nil, in which
// case their routes are not mounted.
func New(cfg Config, handler *Handler, metricsHandler, relayHandler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultConfig().Port
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = DefaultConfig().MetricsPath
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultConfig().ReadTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/options/latest", handler.LatestQuotes)
	r.Get("/option/history", handler.QuoteHistory)
	r.Get("/health", handler.Health)

	if metricsHandler != nil {
		r.Method(http.MethodGet, cfg.MetricsPath, metricsHandler)
	}
	if relayHandler != nil {
		r.Handle("/ws", relayHandler)
	}

	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		srv: &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Port),
			Handler:     r,
			ReadTimeout: cfg.ReadTimeout,
		},
	}
}

// Start begins serving in the background. Listen errors after startup are
// logged, not returned.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	s.logger.Info("http server started", "addr", s.srv.Addr)
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if err == nil {
		s.logger.Info("http server stopped")
	}
	return err
}

// requestLogger records one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
