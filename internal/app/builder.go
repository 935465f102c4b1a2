package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/flock"

	"github.com/stacklok/toolhive-catalog/internal/api"
	v0 "github.com/stacklok/toolhive-catalog/internal/api/v0"
	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/config"
	"github.com/stacklok/toolhive-catalog/internal/exchange"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/httpclient"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store"
	storedb "github.com/stacklok/toolhive-catalog/internal/store/db"
	"github.com/stacklok/toolhive-catalog/internal/store/inmemory"
	pkgsync "github.com/stacklok/toolhive-catalog/internal/sync"
	"github.com/stacklok/toolhive-catalog/internal/telemetry"
)

const (
	defaultHTTPAddress       = ":8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second

	// lockFileName marks a project root as owned by a running server
	lockFileName = ".catalog.lock"
)

// ErrProjectRootLocked is returned when another server owns the project root
var ErrProjectRootLocked = errors.New("project root is used by another catalog server")

// CatalogAppOptions is a function that configures the catalog app builder
type CatalogAppOptions func(*catalogAppConfig) error

// catalogAppConfig collects the options of NewCatalogApp.
// Injected components are used instead of the ones derived from the configuration.
type catalogAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	catalog store.Catalog
	files   *files.Repository
	gateway pkgsync.Gateway

	// HTTP server options
	address           string
	middlewares       []func(http.Handler) http.Handler
	readHeaderTimeout time.Duration
	idleTimeout       time.Duration
	maxUploadSize     int64

	rebuildIndex bool
}

func baseConfig(opts ...CatalogAppOptions) (*catalogAppConfig, error) {
	cfg := &catalogAppConfig{
		address:           defaultHTTPAddress,
		readHeaderTimeout: defaultReadHeaderTimeout,
		idleTimeout:       defaultIdleTimeout,
		rebuildIndex:      true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return cfg, nil
}

// NewCatalogApp wires all components from the configuration
func NewCatalogApp(
	ctx context.Context,
	opts ...CatalogAppOptions,
) (*CatalogApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	var lock *flock.Flock
	if cfg.files == nil {
		lock, err = lockProjectRoot(cfg.config.ProjectRoot)
		if err != nil {
			return nil, err
		}
		cfg.files = files.NewOS(cfg.config.ProjectRoot)
	}

	components := &AppComponents{Files: cfg.files}

	// Ensure cleanup happens on error
	cleanupNeeded := true
	defer func() {
		if !cleanupNeeded {
			return
		}
		if components.Catalog != nil {
			components.Catalog.Close()
		}
		if lock != nil {
			_ = lock.Unlock()
		}
	}()

	if err := buildStorage(ctx, cfg, components); err != nil {
		return nil, fmt.Errorf("failed to build storage: %w", err)
	}

	components.Telemetry, err = telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.config.Telemetry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if err := buildJobComponents(cfg, components); err != nil {
		return nil, fmt.Errorf("failed to build job components: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, components)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	cleanupNeeded = false

	return &CatalogApp{
		config:       cfg.config,
		components:   components,
		httpServer:   httpServer,
		lock:         lock,
		rebuildIndex: cfg.rebuildIndex,
		ctx:          appCtx,
		cancelFunc:   cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, found := strings.Cut(addr, ":")
		if !found || port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithCatalog injects the persistence backend (for testing)
func WithCatalog(c store.Catalog) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.catalog = c
		return nil
	}
}

// WithFilesRepository injects the project root repository (for testing).
// The project root is not locked in that case.
func WithFilesRepository(repo *files.Repository) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.files = repo
		return nil
	}
}

// WithGateway injects the remote push gateway (for testing)
func WithGateway(g pkgsync.Gateway) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.gateway = g
		return nil
	}
}

// WithMaxUploadSize bounds uploaded archives
func WithMaxUploadSize(size int64) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		if size <= 0 {
			return fmt.Errorf("max upload size must be positive, got %d", size)
		}
		cfg.maxUploadSize = size
		return nil
	}
}

// WithIndexRebuild controls whether Start rebuilds the search index from the catalog
func WithIndexRebuild(enabled bool) CatalogAppOptions {
	return func(cfg *catalogAppConfig) error {
		cfg.rebuildIndex = enabled
		return nil
	}
}

// lockProjectRoot takes an exclusive, non-blocking lock on the project root
func lockProjectRoot(root string) (*flock.Flock, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create project root %s: %w", root, err)
	}

	lock := flock.New(filepath.Join(root, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock project root %s: %w", root, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrProjectRootLocked, root)
	}
	return lock, nil
}

// buildStorage selects the persistence backend
func buildStorage(ctx context.Context, b *catalogAppConfig, c *AppComponents) error {
	if b.catalog != nil {
		c.Catalog = b.catalog
		return nil
	}

	switch b.config.GetStorageType() {
	case config.StorageTypeDatabase:
		slog.Info("Using database storage",
			"host", b.config.Database.Host,
			"database", b.config.Database.Database)
		pool, err := storedb.Connect(ctx, b.config.Database)
		if err != nil {
			return err
		}
		catalog, err := storedb.New(storedb.WithConnectionPool(pool))
		if err != nil {
			pool.Close()
			return err
		}
		c.Catalog = catalog
		c.Pool = pool
	default:
		slog.Info("Using in-memory storage")
		c.Catalog = inmemory.New()
	}
	return nil
}

// buildJobComponents builds the runner and everything that runs on it
func buildJobComponents(b *catalogAppConfig, c *AppComponents) error {
	slog.Info("Initializing background operation components")

	provider := c.Telemetry.MeterProvider()
	jobMetrics, err := telemetry.NewJobMetrics(provider)
	if err != nil {
		return fmt.Errorf("failed to create job metrics: %w", err)
	}
	batchMetrics, err := telemetry.NewBatchMetrics(provider)
	if err != nil {
		return fmt.Errorf("failed to create batch metrics: %w", err)
	}

	c.Runner = jobs.NewRunner(jobs.WithMetrics(jobMetrics), jobs.WithTracer(c.Telemetry.Tracer()))
	index := search.NewMemoryIndex()
	c.Index = index

	exporter := exchange.NewExporter(c.Files, c.Catalog, c.Catalog, c.Catalog, index)
	importer := exchange.NewImporter(c.Files, c.Catalog, c.Catalog, c.Catalog, c.Catalog, index)
	c.Exchange = exchange.NewService(c.Runner, c.Files, c.Catalog, exporter, importer, b.config.GetExportableRoles())

	exchangeCfg := b.config.Exchange
	gateway := b.gateway
	if gateway == nil {
		client := httpclient.NewDefaultClient(exchangeCfg.GetPushTimeout())
		gateway = pkgsync.NewHTTPGateway(c.Files, exporter, client)
	}
	c.Uploads = pkgsync.NewUploadService(c.Runner, c.Catalog, index, gateway, exchangeCfg)

	// processors run in this order; the first one handling an item wins
	processors := []batch.Processor{
		batch.NewDeleteItemProcessor(c.Catalog, index, c.Files),
		batch.NewAddTagProcessor(c.Catalog),
		batch.NewRemoveTagProcessor(),
		batch.NewSearchIndexProcessor(c.Catalog, index),
		pkgsync.NewUploadProcessor(gateway, exchangeCfg),
	}
	engine := batch.NewEngine(c.Catalog, index, processors,
		batch.WithMetrics(batchMetrics),
		batch.WithDefaultMaxItems(b.config.GetBatchMaxItems()),
	)
	c.Batches = batch.NewService(c.Runner, engine)

	if interval := exchangeCfg.GetAutoUploadInterval(); interval > 0 {
		c.Scheduler = pkgsync.NewScheduler(c.Batches, interval)
		slog.Info("Automatic uploads enabled", "interval", interval)
	}

	slog.Info("Background operation components initialized successfully")
	return nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(b *catalogAppConfig, c *AppComponents) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			api.LoggingMiddleware,
		}
	}

	httpMetrics, err := telemetry.NewHTTPMetrics(c.Telemetry.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}
	middlewares := b.middlewares
	if httpMetrics != nil {
		middlewares = append([]func(http.Handler) http.Handler{httpMetrics.Middleware}, middlewares...)
	}

	serverOpts := []api.ServerOption{api.WithMiddlewares(middlewares...)}
	if handler := c.Telemetry.MetricsHandler(); handler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(handler))
	}
	if b.maxUploadSize > 0 {
		serverOpts = append(serverOpts, api.WithMaxUploadSize(b.maxUploadSize))
	}

	router := api.NewServer(api.Services{
		Batches:   c.Batches,
		Progress:  c.Runner,
		Exchange:  c.Exchange,
		Uploads:   c.Uploads,
		Tokens:    b.config.Exchange,
		Readiness: readiness(c),
		Files:     c.Files,
	}, serverOpts...)

	// no read or write timeout: archives may take minutes to transfer
	server := &http.Server{
		Addr:              b.address,
		Handler:           router,
		ReadHeaderTimeout: b.readHeaderTimeout,
		IdleTimeout:       b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}

// readiness reports the catalog ready once its database answers
func readiness(c *AppComponents) v0.ReadinessChecker {
	return v0.ReadinessFunc(func(ctx context.Context) error {
		if c.Pool == nil {
			return nil
		}
		if err := c.Pool.Ping(ctx); err != nil {
			return fmt.Errorf("database is not reachable: %w", err)
		}
		return nil
	})
}
