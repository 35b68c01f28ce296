// Package observability provides structured logging, OpenTelemetry
// tracing, and OpenTelemetry metrics for exprflow batch evaluation.
//
// All features are opt-in and have no-op implementations when
// disabled; none of them is part of the functional contract.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds batch context to a logger.
// Returns a new logger with run_id and key fields.
func EnrichLogger(logger *slog.Logger, runID, key string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("key", key),
	)
}

// LogBatchStart logs the start of a batch evaluation.
func LogBatchStart(logger *slog.Logger, runID string, size int) {
	if logger == nil {
		return
	}
	logger.Info("batch evaluation starting",
		slog.String("run_id", runID),
		slog.Int("expressions", size),
	)
}

// LogBatchComplete logs successful batch completion.
func LogBatchComplete(logger *slog.Logger, runID string, durationMs float64, keys int) {
	if logger == nil {
		return
	}
	logger.Info("batch evaluation completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("keys_evaluated", keys),
	)
}

// LogBatchError logs batch failure.
func LogBatchError(logger *slog.Logger, runID string, err error, durationMs float64, lastKey string) {
	if logger == nil {
		return
	}
	logger.Error("batch evaluation failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("last_key", lastKey),
	)
}

// LogKeyStart logs the start of one expression evaluation.
func LogKeyStart(logger *slog.Logger, key, expr string) {
	if logger == nil {
		return
	}
	logger.Debug("expression starting",
		slog.String("key", key),
		slog.String("expression", expr),
	)
}

// LogKeyComplete logs one successful expression evaluation.
func LogKeyComplete(logger *slog.Logger, key string, result string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("expression completed",
		slog.String("key", key),
		slog.String("result", result),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogKeyError logs a failed expression evaluation that the mismatch
// mode degraded to an absent result.
func LogKeyError(logger *slog.Logger, key string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("expression failed",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
