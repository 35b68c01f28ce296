package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), &buf
}

// TestLogHelpers_NilLoggerSafe tests that every helper tolerates a nil
// logger.
func TestLogHelpers_NilLoggerSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		LogBatchStart(nil, "run", 1)
		LogBatchComplete(nil, "run", 1.5, 1)
		LogBatchError(nil, "run", errors.New("x"), 1.5, "key")
		LogKeyStart(nil, "key", "expr")
		LogKeyComplete(nil, "key", "1", 1.5)
		LogKeyError(nil, "key", errors.New("x"))
		assert.Nil(t, EnrichLogger(nil, "run", "key"))
	})
}

// TestLogHelpers_Fields tests the structured fields of the batch and
// key helpers.
func TestLogHelpers_Fields(t *testing.T) {
	logger, buf := captureLogger()

	LogBatchStart(logger, "run-9", 3)
	assert.Contains(t, buf.String(), "batch evaluation starting")
	assert.Contains(t, buf.String(), "run_id=run-9")
	assert.Contains(t, buf.String(), "expressions=3")

	buf.Reset()
	LogBatchError(logger, "run-9", errors.New("boom"), 2.5, "total")
	assert.Contains(t, buf.String(), "batch evaluation failed")
	assert.Contains(t, buf.String(), "last_key=total")

	buf.Reset()
	LogKeyComplete(logger, "total", "30", 0.5)
	assert.Contains(t, buf.String(), "expression completed")
	assert.Contains(t, buf.String(), "result=30")
}

// TestEnrichLogger tests that enriched loggers carry the run fields.
func TestEnrichLogger(t *testing.T) {
	logger, buf := captureLogger()

	enriched := EnrichLogger(logger, "run-1", "total")
	enriched.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "key=total")
}

// TestTimedOperation tests that the timer reports a non-negative
// elapsed duration.
func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, 0.0)
}
