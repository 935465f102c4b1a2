package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/exchange"
	"github.com/stacklok/toolhive-catalog/internal/files"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
	"github.com/stacklok/toolhive-catalog/internal/search"
	"github.com/stacklok/toolhive-catalog/internal/store"
	pkgsync "github.com/stacklok/toolhive-catalog/internal/sync"
	"github.com/stacklok/toolhive-catalog/internal/telemetry"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Catalog persists items, menus, pages and configuration
	Catalog store.Catalog

	// Pool is the database connection pool (optional)
	Pool *pgxpool.Pool

	// Files is the project root holding media, exports and uploads
	Files *files.Repository

	// Index is the item search index
	Index search.Index

	// Runner executes background operations one at a time
	Runner *jobs.Runner

	// Batches submits batch runs
	Batches *batch.Service

	// Exchange exports and imports archives
	Exchange *exchange.Service

	// Uploads pushes items to the remote instance
	Uploads *pkgsync.UploadService

	// Scheduler submits automatic uploads (optional)
	Scheduler *pkgsync.Scheduler

	// Telemetry owns the meter provider
	Telemetry *telemetry.Telemetry
}
