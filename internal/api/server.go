// Package api provides the REST API server of the catalog.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/toolhive-catalog/internal/api/operations"
	"github.com/stacklok/toolhive-catalog/internal/api/transfer"
	v0 "github.com/stacklok/toolhive-catalog/internal/api/v0"
	"github.com/stacklok/toolhive-catalog/internal/files"
)

// Services are the collaborators the handlers delegate to
type Services struct {
	Batches   operations.BatchService
	Progress  operations.ProgressSource
	Exchange  transfer.ExchangeService
	Uploads   transfer.UploadService
	Tokens    transfer.TokenVerifier
	Readiness v0.ReadinessChecker

	// Files stores uploaded archives until they are imported
	Files *files.Repository
}

// ServerOption configures the catalog API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares     []func(http.Handler) http.Handler
	metricsHandler  http.Handler
	transferOptions []transfer.Option
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithMetricsHandler serves h on /metrics
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsHandler = h
	}
}

// WithMaxUploadSize bounds uploaded archives
func WithMaxUploadSize(size int64) ServerOption {
	return func(cfg *serverConfig) {
		cfg.transferOptions = append(cfg.transferOptions, transfer.WithMaxUploadSize(size))
	}
}

// NewServer creates and configures the HTTP router with the given services and options
func NewServer(svcs Services, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Mount("/", v0.HealthRouter(svcs.Readiness))
	if cfg.metricsHandler != nil {
		r.Handle("/metrics", cfg.metricsHandler)
	}

	transfers := transfer.New(svcs.Exchange, svcs.Uploads, svcs.Tokens, svcs.Files, cfg.transferOptions...)
	r.Mount("/api", operations.Router(svcs.Batches, svcs.Progress))
	r.Mount("/api/exchange", transfers.ExchangeRouter())
	r.Mount("/api/item", transfers.ItemRouter())

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
