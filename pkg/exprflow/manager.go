package exprflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sysmuse/exprflow/pkg/exprflow/catalog"
	"github.com/sysmuse/exprflow/pkg/exprflow/observability"
	"github.com/sysmuse/exprflow/pkg/exprflow/parse"
	"github.com/sysmuse/exprflow/pkg/exprflow/store"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// Manager evaluates named expressions against a shared context. Single
// expressions go through Evaluate and EvaluateBool; batches of keyed
// expressions go through EvaluateBatch, which orders keys by their
// references so each expression sees the results of the keys it uses.
//
// A Manager is safe to reuse across batches. The contexts it produces
// are not shared between batches.
type Manager struct {
	cat         *catalog.Catalog
	conv        value.Converter
	defaultMode parse.Mode
	logger      *slog.Logger
	spans       observability.SpanManager
	metrics     observability.MetricsRecorder
	store       store.ContextStore
	expected    map[string]value.Kind
}

// New creates a Manager over the given catalog.
//
// Defaults: lossless conversion, mismatches reported as errors,
// call-style syntax, no logging, noop tracing and metrics, no
// persistence. Use options to change any of these.
//
// Panics if cat is nil.
func New(cat *catalog.Catalog, opts ...Option) *Manager {
	if cat == nil {
		panic("exprflow: nil catalog")
	}
	m := &Manager{
		cat: cat,
		conv: value.Converter{
			Conversion: value.ConversionLossless,
			Mismatch:   value.MismatchException,
		},
		defaultMode: parse.ModeCall,
		spans:       observability.NoopSpanManager{},
		metrics:     observability.NoopMetrics{},
		expected:    make(map[string]value.Kind),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Catalog returns the operation catalog the Manager compiles against.
func (m *Manager) Catalog() *catalog.Catalog { return m.cat }

// Converter returns the converter the Manager applies to results.
func (m *Manager) Converter() value.Converter { return m.conv }

// SetExpectedKind declares the kind a batch key's result must have.
// After the key's expression evaluates, the result is converted to the
// declared kind under the Manager's conversion and mismatch modes.
func (m *Manager) SetExpectedKind(key string, k value.Kind) {
	m.expected[key] = k
}

// Evaluate compiles and evaluates a single expression against ctx
// using the Manager's default syntax mode. A nil ctx evaluates against
// an empty context.
func (m *Manager) Evaluate(expr string, ctx *value.Context) (value.Value, error) {
	if ctx == nil {
		ctx = value.NewContext()
	}
	compiled, err := parse.Compile(expr, m.defaultMode, m.cat)
	if err != nil {
		return value.Absent(), err
	}
	return compiled.Eval(ctx)
}

// EvaluateBool evaluates a single expression and requires a boolean
// result.
func (m *Manager) EvaluateBool(expr string, ctx *value.Context) (bool, error) {
	if ctx == nil {
		ctx = value.NewContext()
	}
	compiled, err := parse.Compile(expr, m.defaultMode, m.cat)
	if err != nil {
		return false, err
	}
	return compiled.EvalBool(ctx)
}

// EvaluateBatch evaluates a set of keyed expressions in dependency
// order under a freshly generated run ID. See EvaluateBatchWithRunID.
func (m *Manager) EvaluateBatch(exprs map[string]string, initial *value.Context, mode parse.Mode) (*value.Context, error) {
	return m.EvaluateBatchWithRunID(uuid.NewString(), exprs, initial, mode)
}

// EvaluateBatchWithRunID evaluates a set of keyed expressions in
// dependency order. The returned context holds the initial bindings
// followed by one binding per key, in evaluation order. The initial
// context is cloned, never mutated.
//
// When a key's expression fails, or its result does not convert to the
// kind declared via SetExpectedKind, the Manager's mismatch mode
// decides the outcome: MismatchException aborts the batch with a
// *KeyError, MismatchWarning logs and binds the key to an absent
// value, MismatchAccept binds absent silently.
//
// Returns a *CycleError when the expressions reference each other
// cyclically; no key is evaluated in that case.
func (m *Manager) EvaluateBatchWithRunID(runID string, exprs map[string]string, initial *value.Context, mode parse.Mode) (*value.Context, error) {
	ctx := context.Background()
	ctx, batchSpan := m.spans.StartBatchSpan(ctx, runID, len(exprs))
	observability.LogBatchStart(m.logger, runID, len(exprs))
	batchTimer := observability.TimedOperation()

	order, err := m.ResolveOrder(exprs)
	if err != nil {
		durationMs := batchTimer()
		observability.LogBatchError(m.logger, runID, err, durationMs, "")
		m.spans.EndSpanWithError(batchSpan, err)
		m.metrics.RecordBatch(ctx, false, durationFromMs(durationMs))
		return nil, err
	}

	result := initial.Clone()
	if result == nil {
		result = value.NewContext()
	}

	for _, key := range order {
		if err := m.evaluateKey(ctx, runID, key, exprs[key], mode, result); err != nil {
			durationMs := batchTimer()
			observability.LogBatchError(m.logger, runID, err, durationMs, key)
			m.spans.EndSpanWithError(batchSpan, err)
			m.metrics.RecordBatch(ctx, false, durationFromMs(durationMs))
			return nil, err
		}
	}

	durationMs := batchTimer()
	observability.LogBatchComplete(m.logger, runID, durationMs, len(order))
	m.spans.EndSpanWithError(batchSpan, nil)
	m.metrics.RecordBatch(ctx, true, durationFromMs(durationMs))

	if m.store != nil {
		if err := m.store.Save(runID, result); err != nil {
			if m.logger != nil {
				m.logger.Warn("result persistence failed",
					slog.String("run_id", runID),
					slog.String("error", err.Error()))
			}
		}
	}
	return result, nil
}

// evaluateKey evaluates one batch key and binds its result into the
// working context. Failures follow the mismatch mode: only
// MismatchException surfaces an error.
func (m *Manager) evaluateKey(ctx context.Context, runID, key, expr string, mode parse.Mode, result *value.Context) error {
	keyCtx, span := m.spans.StartKeySpan(ctx, key)
	logger := observability.EnrichLogger(m.logger, runID, key)
	observability.LogKeyStart(logger, key, expr)
	timer := observability.TimedOperation()

	v, err := func() (value.Value, error) {
		compiled, err := parse.Compile(expr, mode, m.cat)
		if err != nil {
			return value.Absent(), err
		}
		v, err := compiled.Eval(result)
		if err != nil {
			return value.Absent(), err
		}
		if expected, ok := m.expected[key]; ok {
			return m.conv.Convert(v, expected)
		}
		return v, nil
	}()

	durationMs := timer()
	if err != nil {
		observability.LogKeyError(logger, key, err)
		m.metrics.RecordKeyEvaluation(keyCtx, key, durationFromMs(durationMs), err)
		if m.conv.Mismatch == value.MismatchException {
			keyErr := &KeyError{Key: key, Expr: expr, Err: err}
			m.spans.EndSpanWithError(span, keyErr)
			return keyErr
		}
		if m.conv.Mismatch == value.MismatchWarning && m.logger != nil {
			m.logger.Warn("key evaluation failed, binding absent",
				slog.String("run_id", runID),
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		result.Set(key, value.Absent())
		m.spans.EndSpanWithError(span, err)
		return nil
	}

	result.Set(key, v)
	observability.LogKeyComplete(logger, key, v.String(), durationMs)
	m.metrics.RecordKeyEvaluation(keyCtx, key, durationFromMs(durationMs), nil)
	m.spans.EndSpanWithError(span, nil)
	return nil
}

func durationFromMs(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
