package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records exprflow metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordKeyEvaluation records one expression evaluation with its
	// duration and error status.
	RecordKeyEvaluation(ctx context.Context, key string, duration time.Duration, err error)

	// RecordBatch records a batch evaluation completion.
	RecordBatch(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	keyEvaluations metric.Int64Counter
	keyLatency     metric.Float64Histogram
	keyErrors      metric.Int64Counter
	batches        metric.Int64Counter
	batchLatency   metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("exprflow")

	keyEvaluations, err := meter.Int64Counter("exprflow.key.evaluations",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	keyLatency, err := meter.Float64Histogram("exprflow.key.latency_ms",
		metric.WithDescription("Expression evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	keyErrors, err := meter.Int64Counter("exprflow.key.errors",
		metric.WithDescription("Number of expression evaluation errors"),
	)
	if err != nil {
		return nil, err
	}

	batches, err := meter.Int64Counter("exprflow.batch.runs",
		metric.WithDescription("Number of batch evaluations"),
	)
	if err != nil {
		return nil, err
	}

	batchLatency, err := meter.Float64Histogram("exprflow.batch.latency_ms",
		metric.WithDescription("Batch evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		keyEvaluations: keyEvaluations,
		keyLatency:     keyLatency,
		keyErrors:      keyErrors,
		batches:        batches,
		batchLatency:   batchLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordKeyEvaluation records one expression evaluation.
func (m *otelMetrics) RecordKeyEvaluation(ctx context.Context, key string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("key", key),
	}

	m.keyEvaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.keyLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.keyErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordBatch records a batch evaluation.
func (m *otelMetrics) RecordBatch(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.batches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.batchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
