package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// HTTPMetricsMeterName is the name used for the HTTP metrics meter
	HTTPMetricsMeterName = "github.com/stacklok/toolhive-catalog/http"

	unknownRoute = "unknown_route"
)

// HTTPMetrics holds the OpenTelemetry instruments for the catalog API.
// Requests are labelled by their chi pattern and by the router they were
// mounted under (/api, /api/exchange, /api/item), so upload traffic can be
// told apart from batch polling.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
	requestBytes    metric.Int64Histogram
}

// NewHTTPMetrics creates a new HTTPMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewHTTPMetrics(provider metric.MeterProvider) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(HTTPMetricsMeterName)

	requestDuration, err := meter.Float64Histogram(
		"catalog_http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	requestsTotal, err := meter.Int64Counter(
		"catalog_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"catalog_http_active_requests",
		metric.WithDescription("Number of currently in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestBytes, err := meter.Int64Histogram(
		"catalog_http_request_body_bytes",
		metric.WithDescription("Size of uploaded request bodies such as import archives"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1<<10, 64<<10, 1<<20, 16<<20, 128<<20, 512<<20),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		requestsTotal:   requestsTotal,
		activeRequests:  activeRequests,
		requestBytes:    requestBytes,
	}, nil
}

// Middleware returns an HTTP middleware that records metrics for each request.
// If HTTPMetrics is nil, it returns a pass-through middleware.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.activeRequests.Add(ctx, 1)

		next.ServeHTTP(ww, r)

		m.activeRequests.Add(ctx, -1)

		// chi pattern such as "/api/item/{itemId}/upload", not the concrete URL
		routePattern, routeGroup := routeLabels(r)

		attrs := []attribute.KeyValue{
			attribute.String("method", r.Method),
			attribute.String("route", routePattern),
			attribute.String("route_group", routeGroup),
			attribute.String("status_code", strconv.Itoa(ww.Status())),
		}

		duration := time.Since(start).Seconds()
		m.requestDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
		m.requestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
		if r.ContentLength > 0 {
			m.requestBytes.Record(ctx, r.ContentLength, metric.WithAttributes(
				attribute.String("route_group", routeGroup),
				attribute.String("status_code", strconv.Itoa(ww.Status())),
			))
		}
	})
}

// routeLabels returns the chi route pattern and the prefix of the router it
// was mounted under. Unmatched requests get a constant label to bound cardinality.
func routeLabels(r *http.Request) (pattern, group string) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return unknownRoute, unknownRoute
	}
	pattern = rctx.RoutePattern()

	group = pattern
	if len(rctx.RoutePatterns) > 0 {
		group = rctx.RoutePatterns[0]
	}
	if mount, ok := strings.CutSuffix(group, "/*"); ok {
		group = mount
	}
	if group == "" {
		group = "/"
	}
	return pattern, group
}
