package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewHTTPMetrics_NilProvider(t *testing.T) {
	t.Parallel()

	metrics, err := NewHTTPMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, metrics)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, metrics.Middleware(next))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewHTTPMetrics(mp)
	require.NoError(t, err)

	okHandler := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	items := chi.NewRouter()
	items.Post("/{itemId}/upload", okHandler)
	operations := chi.NewRouter()
	operations.Get("/progress", okHandler)
	health := chi.NewRouter()
	health.Get("/health", okHandler)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Mount("/", health)
	r.Mount("/api", operations)
	r.Mount("/api/item", items)

	tests := []struct {
		method, target, body string
		wantRoute, wantGroup string
		wantStatus           string
	}{
		{http.MethodPost, "/api/item/chair-1/upload", "zip-bytes", "/api/item/{itemId}/upload", "/api/item", "200"},
		{http.MethodGet, "/api/progress", "", "/api/progress", "/api", "200"},
		{http.MethodGet, "/health", "", "/health", "/", "200"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, tt.target)
	}

	scope := collectScope(t, reader, HTTPMetricsMeterName)
	byName := map[string]metricdata.Metrics{}
	for _, m := range scope {
		byName[m.Name] = m
	}

	total, ok := byName["catalog_http_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, total.DataPoints, len(tests))
	groups := map[string]string{}
	for _, dp := range total.DataPoints {
		route, _ := dp.Attributes.Value(attribute.Key("route"))
		group, _ := dp.Attributes.Value(attribute.Key("route_group"))
		groups[route.AsString()] = group.AsString()
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantGroup, groups[tt.wantRoute], tt.wantRoute)
	}

	body, ok := byName["catalog_http_request_body_bytes"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, body.DataPoints, 1, "only requests with a body are measured")
	group, _ := body.DataPoints[0].Attributes.Value(attribute.Key("route_group"))
	assert.Equal(t, "/api/item", group.AsString())
	assert.Equal(t, int64(len("zip-bytes")), body.DataPoints[0].Sum)
}

func TestHTTPMetrics_UnmatchedRoute(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewHTTPMetrics(mp)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	for _, m := range collectScope(t, reader, HTTPMetricsMeterName) {
		if m.Name != "catalog_http_requests_total" {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 1)
		group, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("route_group"))
		assert.Equal(t, unknownRoute, group.AsString())
		return
	}
	t.Fatal("request counter was not recorded")
}
