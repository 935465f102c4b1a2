// Package v0 provides the health, readiness and version endpoints of the catalog server.
package v0

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/toolhive-catalog/internal/api/common"
	"github.com/stacklok/toolhive-catalog/internal/versions"
)

// ReadinessChecker reports whether the server can serve requests
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadinessFunc adapts a function to ReadinessChecker
type ReadinessFunc func(ctx context.Context) error

// CheckReadiness implements ReadinessChecker
func (f ReadinessFunc) CheckReadiness(ctx context.Context) error {
	return f(ctx)
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(checker ReadinessChecker) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(checker))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
//
// @Summary		Health check
// @Description	Check if the catalog server is healthy
// @Tags			system
// @Produce		json
// @Success		200	{object}	map[string]string
// @Router			/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

// readinessHandler handles readiness check requests
//
// @Summary		Readiness check
// @Description	Check if the storage backend is reachable
// @Tags			system
// @Produce		json
// @Success		200	{object}	map[string]string
// @Failure		503	{object}	common.ErrorResponse
// @Router			/readiness [get]
func readinessHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.CheckReadiness(r.Context()); err != nil {
				common.WriteErrorResponse(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		common.WriteJSONResponse(w, map[string]string{"status": "ready"}, http.StatusOK)
	}
}

// versionHandler handles version information requests
//
// @Summary		Version information
// @Description	Get version information about the catalog server
// @Tags			system
// @Produce		json
// @Success		200	{object}	versions.Info
// @Router			/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetInfo(), http.StatusOK)
}
