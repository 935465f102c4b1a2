// Package app provides application lifecycle management for the catalog server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/config"
	"github.com/stacklok/toolhive-catalog/internal/search"
)

// CatalogApp encapsulates all components needed to run the catalog server.
// It provides lifecycle management and graceful shutdown capabilities
type CatalogApp struct {
	config       *config.Config
	components   *AppComponents
	httpServer   *http.Server
	lock         *flock.Flock
	rebuildIndex bool

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start runs the background worker, the upload scheduler and the HTTP server.
// It blocks until the HTTP server stops or one of them fails.
func (app *CatalogApp) Start() error {
	g, ctx := errgroup.WithContext(app.ctx)

	g.Go(func() error {
		return app.components.Runner.Start(ctx)
	})

	if app.components.Scheduler != nil {
		g.Go(func() error {
			return app.components.Scheduler.Start(ctx)
		})
	}

	if app.rebuildIndex {
		app.submitIndexRebuild()
	}

	g.Go(func() error {
		slog.Info("Server listening", "address", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// submitIndexRebuild queues a full search index rebuild; the index is
// kept in memory and starts empty.
func (app *CatalogApp) submitIndexRebuild() {
	accepted, err := app.components.Batches.Submit(batch.Parameters{
		Task:       batch.TaskUpdateSearchIndex,
		SearchTerm: search.MatchAll,
	})
	switch {
	case err != nil:
		slog.Error("Failed to submit search index rebuild", "error", err)
	case !accepted:
		slog.Warn("Search index rebuild was not started, another operation is active")
	default:
		slog.Info("Submitted search index rebuild")
	}
}

// Stop gracefully stops the application with the given timeout.
// It stops the scheduler and the worker, shuts the HTTP server down and
// releases storage, telemetry and the project root lock.
func (app *CatalogApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if app.components.Scheduler != nil {
		if err := app.components.Scheduler.Stop(); err != nil {
			slog.Error("Failed to stop upload scheduler", "error", err)
		}
	}
	if err := app.components.Runner.Stop(); err != nil {
		slog.Error("Failed to stop background operation worker", "error", err)
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}
	if err := app.components.Telemetry.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	app.components.Catalog.Close()
	if app.lock != nil {
		if err := app.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release project root lock: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *CatalogApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *CatalogApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetComponents returns the wired components
func (app *CatalogApp) GetComponents() *AppComponents {
	return app.components
}
