package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the exprflow tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("exprflow")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartBatchSpan starts a span for an entire batch evaluation.
	StartBatchSpan(ctx context.Context, runID string, size int) (context.Context, trace.Span)

	// StartKeySpan starts a span for one expression evaluation.
	// The key span should be a child of the batch span.
	StartKeySpan(ctx context.Context, key string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartBatchSpan starts a span for an entire batch evaluation.
func (m *otelSpanManager) StartBatchSpan(ctx context.Context, runID string, size int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "exprflow.batch",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("batch.size", size),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartKeySpan starts a span for one expression evaluation.
func (m *otelSpanManager) StartKeySpan(ctx context.Context, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "exprflow.key."+key,
		trace.WithAttributes(
			attribute.String("expression.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
