package exprflow

import (
	"log/slog"

	"github.com/sysmuse/exprflow/pkg/exprflow/observability"
	"github.com/sysmuse/exprflow/pkg/exprflow/parse"
	"github.com/sysmuse/exprflow/pkg/exprflow/store"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// Option configures a Manager.
type Option func(*Manager)

// WithConversionMode sets which cross-kind value conversions are
// permitted. Default: ConversionLossless.
func WithConversionMode(mode value.ConversionMode) Option {
	return func(m *Manager) {
		m.conv.Conversion = mode
	}
}

// WithMismatchMode sets how type mismatches and per-key evaluation
// failures are handled. Default: MismatchException.
//
// Under MismatchException the first failing key aborts the batch.
// Under MismatchWarning the failure is logged, the key's result is
// absent, and the batch continues. MismatchAccept behaves like
// MismatchWarning without the log.
func WithMismatchMode(mode value.MismatchMode) Option {
	return func(m *Manager) {
		m.conv.Mismatch = mode
	}
}

// WithSyntaxMode sets the default syntax for Evaluate and
// EvaluateBool. Default: parse.ModeCall.
func WithSyntaxMode(mode parse.Mode) Option {
	return func(m *Manager) {
		m.defaultMode = mode
	}
}

// WithLogger sets the structured logger. A nil logger (the default)
// disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
		m.conv.Logger = logger
	}
}

// WithTracing sets the span manager for distributed tracing.
// Default: observability.NoopSpanManager.
//
// Example:
//
//	mgr := exprflow.New(cat, exprflow.WithTracing(observability.NewSpanManager()))
func WithTracing(spans observability.SpanManager) Option {
	return func(m *Manager) {
		if spans != nil {
			m.spans = spans
		}
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(metrics observability.MetricsRecorder) Option {
	return func(m *Manager) {
		if metrics != nil {
			m.metrics = metrics
		}
	}
}

// WithStore sets a context store that receives the final context of
// every successful batch, keyed by run ID. Store failures are logged
// and do not fail the batch. Default: no store.
func WithStore(s store.ContextStore) Option {
	return func(m *Manager) {
		m.store = s
	}
}
