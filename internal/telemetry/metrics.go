package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// JobMetricsMeterName is the name used for the background job meter
	JobMetricsMeterName = "github.com/stacklok/toolhive-catalog/jobs"

	// BatchMetricsMeterName is the name used for the batch processing meter
	BatchMetricsMeterName = "github.com/stacklok/toolhive-catalog/batch"
)

// JobMetrics holds the OpenTelemetry instruments for background jobs
type JobMetrics struct {
	jobDuration  metric.Float64Histogram
	jobsRejected metric.Int64Counter
}

// NewJobMetrics creates a new JobMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewJobMetrics(provider metric.MeterProvider) (*JobMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(JobMetricsMeterName)

	jobDuration, err := meter.Float64Histogram(
		"catalog_job_duration_seconds",
		metric.WithDescription("Duration of background jobs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 900),
	)
	if err != nil {
		return nil, err
	}

	jobsRejected, err := meter.Int64Counter(
		"catalog_jobs_rejected_total",
		metric.WithDescription("Number of job submissions dropped because another job was active"),
		metric.WithUnit("{job}"),
	)
	if err != nil {
		return nil, err
	}

	return &JobMetrics{
		jobDuration:  jobDuration,
		jobsRejected: jobsRejected,
	}, nil
}

// RecordJobDuration records the duration and outcome of a finished job
func (m *JobMetrics) RecordJobDuration(ctx context.Context, topic string, duration time.Duration, success bool) {
	if m == nil || m.jobDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("topic", topic),
		attribute.Bool("success", success),
	}
	m.jobDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordJobRejected records a submission dropped by the single-flight rule
func (m *JobMetrics) RecordJobRejected(ctx context.Context, topic string) {
	if m == nil || m.jobsRejected == nil {
		return
	}
	m.jobsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}

// BatchMetrics holds the OpenTelemetry instruments for batch runs
type BatchMetrics struct {
	itemsProcessed metric.Int64Counter
}

// NewBatchMetrics creates a new BatchMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewBatchMetrics(provider metric.MeterProvider) (*BatchMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(BatchMetricsMeterName)

	itemsProcessed, err := meter.Int64Counter(
		"catalog_batch_items_total",
		metric.WithDescription("Number of items visited by batch runs"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return &BatchMetrics{itemsProcessed: itemsProcessed}, nil
}

// RecordItem records one candidate visited by a batch run
func (m *BatchMetrics) RecordItem(ctx context.Context, task string, handled, failed bool) {
	if m == nil || m.itemsProcessed == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("task", task),
		attribute.Bool("handled", handled),
		attribute.Bool("failed", failed),
	}
	m.itemsProcessed.Add(ctx, 1, metric.WithAttributes(attrs...))
}
