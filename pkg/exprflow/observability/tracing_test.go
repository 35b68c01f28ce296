package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider with an in-memory span
// recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("exprflow")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("exprflow")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartBatchSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with run attributes", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartBatchSpan(ctx, "run-123", 4)
		require.NotNil(t, span)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "exprflow.batch", s.Name)

		var runID string
		var size int64
		for _, attr := range s.Attributes {
			switch attr.Key {
			case "run.id":
				runID = attr.Value.AsString()
			case "batch.size":
				size = attr.Value.AsInt64()
			}
		}
		assert.Equal(t, "run-123", runID)
		assert.Equal(t, int64(4), size)
	})
}

func TestStartKeySpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with key suffix", func(t *testing.T) {
		ctx := context.Background()
		_, span := sm.StartKeySpan(ctx, "total")
		require.NotNil(t, span)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "exprflow.key.total", s.Name)

		var key string
		for _, attr := range s.Attributes {
			if attr.Key == "expression.key" {
				key = attr.Value.AsString()
			}
		}
		assert.Equal(t, "total", key)
	})

	t.Run("key spans are children of the batch span", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		ctx, batchSpan := sm.StartBatchSpan(ctx, "run-1", 1)
		_, keySpan := sm.StartKeySpan(ctx, "a")
		keySpan.End()
		batchSpan.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)

		var keySpanData *tracetest.SpanStub
		for i := range spans {
			if spans[i].Name == "exprflow.key.a" {
				keySpanData = &spans[i]
				break
			}
		}
		require.NotNil(t, keySpanData)
		assert.True(t, keySpanData.Parent.IsValid())
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("sets OK status for nil error", func(t *testing.T) {
		_, span := sm.StartBatchSpan(context.Background(), "run-1", 1)
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("records error with status", func(t *testing.T) {
		exporter.Reset()

		_, span := sm.StartKeySpan(context.Background(), "broken")
		sm.EndSpanWithError(span, errors.New("evaluation failed"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, codes.Error, s.Status.Code)
		assert.Equal(t, "evaluation failed", s.Status.Description)

		found := false
		for _, event := range s.Events {
			if event.Name == "exception" {
				found = true
			}
		}
		assert.True(t, found, "Expected exception event")
	})

	t.Run("nil span does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, nil)
		})
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, errors.New("test"))
		})
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("adds event to current span", func(t *testing.T) {
		ctx := context.Background()
		ctx, span := sm.StartBatchSpan(ctx, "run-1", 2)

		sm.AddSpanEvent(ctx, "result_persisted",
			attribute.String("run_id", "run-1"),
			attribute.Int64("entries", 2),
		)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		var found bool
		for _, event := range spans[0].Events {
			if event.Name == "result_persisted" {
				found = true
			}
		}
		assert.True(t, found, "Expected to find result_persisted event")
	})

	t.Run("no panic without a current span", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "orphan_event")
		})
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}

	ctx := context.Background()
	newCtx, span := sm.StartBatchSpan(ctx, "run", 1)
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	_, span = sm.StartKeySpan(ctx, "key")
	require.NotNil(t, span)

	assert.NotPanics(t, func() {
		sm.EndSpanWithError(span, errors.New("ignored"))
		sm.AddSpanEvent(ctx, "ignored")
	})
}
