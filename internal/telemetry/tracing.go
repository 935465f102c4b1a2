package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans produced by the catalog
const tracerName = "github.com/stacklok/toolhive-catalog"

// Attribute keys shared by catalog spans
const (
	AttrJobID       = attribute.Key("job.id")
	AttrJobTopic    = attribute.Key("job.topic")
	AttrJobLabel    = attribute.Key("job.label")
	AttrItemID      = attribute.Key("catalog.item.id")
	AttrResultCount = attribute.Key("result.count")
)

// StartSpan starts a span on tracer. A nil tracer yields the span already in ctx.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks it failed. The status description
// stays generic; remote urls and tokens only appear in the exception event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
