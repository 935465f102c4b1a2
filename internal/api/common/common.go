// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// AcceptedResponse is returned when an operation was handed to the background worker
type AcceptedResponse struct {
	Accepted bool `json:"accepted"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// WriteAccepted answers 202 when the operation was accepted and 409 when
// another one is active.
func WriteAccepted(w http.ResponseWriter, accepted bool) {
	if !accepted {
		WriteErrorResponse(w, jobs.ErrJobActive.Error(), http.StatusConflict)
		return
	}
	WriteJSONResponse(w, AcceptedResponse{Accepted: true}, http.StatusAccepted)
}

// StatusFor maps an error to the HTTP status reported for it.
func StatusFor(err error) int {
	var fault *domain.Fault
	switch {
	case errors.Is(err, jobs.ErrJobActive):
		return http.StatusConflict
	case errors.Is(err, jobs.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.As(err, &fault):
		switch fault.Kind {
		case domain.KindNotFound:
			return http.StatusNotFound
		case domain.KindInvalidInput, domain.KindSchema:
			return http.StatusBadRequest
		case domain.KindRemote:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

// WriteError logs err and writes it with the status StatusFor assigns.
// Internal failures are reported without their details.
func WriteError(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "operation", op, "error", err)
		WriteErrorResponse(w, op+" failed", status)
		return
	}
	slog.Debug("Request rejected", "operation", op, "status", status, "error", err)
	WriteErrorResponse(w, err.Error(), status)
}
