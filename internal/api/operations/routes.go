// Package operations provides the REST handlers that start batch runs and report background progress.
package operations

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks -source=routes.go BatchService,ProgressSource

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/toolhive-catalog/internal/api/common"
	"github.com/stacklok/toolhive-catalog/internal/batch"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
)

// maxParametersSize bounds the batch request body.
const maxParametersSize = 64 * 1024

// BatchService submits batch runs
type BatchService interface {
	Submit(params batch.Parameters) (bool, error)
}

// ProgressSource exposes the monitor of the active or last failed operation
type ProgressSource interface {
	Progress() *jobs.ProgressMonitor
}

// Routes holds the operation handlers
type Routes struct {
	batches  BatchService
	progress ProgressSource
}

// Router creates the router for batch and progress endpoints
func Router(batches BatchService, progress ProgressSource) http.Handler {
	routes := &Routes{batches: batches, progress: progress}

	r := chi.NewRouter()
	r.Post("/batch", routes.submitBatch)
	r.Get("/operation/progress", routes.getProgress)
	return r
}

// submitBatch handles POST /api/batch
//
// @Summary		Start a batch run
// @Description	Runs a task over the items matching the search term on the background worker
// @Tags			operations
// @Accept			json
// @Produce		json
// @Param			parameters	body		batch.Parameters	true	"Batch parameters"
// @Success		202			{object}	common.AcceptedResponse
// @Failure		400			{object}	common.ErrorResponse
// @Failure		409			{object}	common.ErrorResponse	"Another operation is active"
// @Router			/api/batch [post]
func (rr *Routes) submitBatch(w http.ResponseWriter, r *http.Request) {
	var params batch.Parameters
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxParametersSize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&params); err != nil {
		common.WriteErrorResponse(w, "invalid batch parameters: "+err.Error(), http.StatusBadRequest)
		return
	}

	accepted, err := rr.batches.Submit(params)
	if err != nil {
		common.WriteError(w, "submit batch", err)
		return
	}
	common.WriteAccepted(w, accepted)
}

// getProgress handles GET /api/operation/progress
//
// @Summary		Background operation progress
// @Description	Returns the progress of the active operation, or of the last one if it failed
// @Tags			operations
// @Produce		json
// @Success		200	{object}	jobs.Status
// @Success		204	"No operation is active"
// @Router			/api/operation/progress [get]
func (rr *Routes) getProgress(w http.ResponseWriter, _ *http.Request) {
	monitor := rr.progress.Progress()
	if monitor == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	common.WriteJSONResponse(w, monitor.Snapshot(), http.StatusOK)
}
