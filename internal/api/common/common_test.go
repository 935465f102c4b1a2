package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-catalog/internal/domain"
	"github.com/stacklok/toolhive-catalog/internal/jobs"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "job active", err: fmt.Errorf("import: %w", jobs.ErrJobActive), want: http.StatusConflict},
		{name: "runner stopped", err: jobs.ErrStopped, want: http.StatusServiceUnavailable},
		{name: "not found", err: domain.NotFound("menu", "m-1"), want: http.StatusNotFound},
		{name: "invalid input", err: domain.InvalidInput("batch", "task is required"), want: http.StatusBadRequest},
		{name: "schema", err: domain.SchemaFault("decode", errors.New("bad")), want: http.StatusBadRequest},
		{name: "remote", err: &domain.Fault{Kind: domain.KindRemote, Op: "push"}, want: http.StatusBadGateway},
		{name: "io", err: domain.IOFault("read", errors.New("disk")), want: http.StatusInternalServerError},
		{name: "plain", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteError(rr, "import archive", domain.IOFault("read /secret/path", errors.New("disk")))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "import archive failed", resp.Error, "internal details are not exposed")

	rr = httptest.NewRecorder()
	WriteError(rr, "export menu", domain.NotFound("menu", "m-1"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "m-1")
}

func TestWriteAccepted(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteAccepted(rr, true)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"accepted":true}`, rr.Body.String())

	rr = httptest.NewRecorder()
	WriteAccepted(rr, false)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestGetIDParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr string
	}{
		{name: "plain id", value: "menu-1", want: "menu-1"},
		{name: "encoded id", value: "item%2Dvase", want: "item-vase"},
		{name: "empty", value: "", wantErr: "cannot be empty"},
		{name: "whitespace", value: "a%20b", wantErr: "cannot contain whitespace"},
		{name: "slash", value: "a%2Fb", wantErr: "path separators"},
		{name: "backslash", value: `a%5Cb`, wantErr: "path separators"},
		{name: "dot dot", value: "..", wantErr: "not a valid id"},
		{name: "bad encoding", value: "%zz", wantErr: "invalid URL encoding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.value)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := GetIDParam(req, "id")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
