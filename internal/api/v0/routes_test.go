package v0_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v0 "github.com/stacklok/toolhive-catalog/internal/api/v0"
	"github.com/stacklok/toolhive-catalog/internal/versions"
)

func TestHealthRouter(t *testing.T) {
	t.Parallel()

	ready := v0.ReadinessFunc(func(context.Context) error { return nil })
	notReady := v0.ReadinessFunc(func(context.Context) error { return errors.New("database unreachable") })

	tests := []struct {
		name       string
		checker    v0.ReadinessChecker
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "health endpoint",
			checker:    notReady,
			path:       "/health",
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
		{
			name:       "readiness endpoint - ready",
			checker:    ready,
			path:       "/readiness",
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
		{
			name:       "readiness endpoint - not ready",
			checker:    notReady,
			path:       "/readiness",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "database unreachable",
		},
		{
			name:       "readiness endpoint - no checker",
			path:       "/readiness",
			wantStatus: http.StatusOK,
			wantBody:   "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			v0.HealthRouter(tt.checker).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	v0.HealthRouter(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var info versions.Info
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, versions.GetInfo(), info)
}
