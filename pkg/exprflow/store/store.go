// Package store persists evaluated result contexts for downstream
// persistence/export collaborators. A stored context keeps its entry
// order, so a reload reproduces the context exactly.
package store

import (
	"errors"
	"time"

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// ContextStore persists final batch contexts keyed by run ID.
// Implementations must be safe for concurrent use.
type ContextStore interface {
	// Save stores the result context of a run.
	// Overwrites if the run already has a stored context.
	Save(runID string, result *value.Context) error

	// Load retrieves a stored context with its entry order intact.
	// Returns ErrNotFound if the run has no stored context.
	Load(runID string) (*value.Context, error)

	// Runs returns metadata for all stored runs, newest first.
	Runs() ([]Info, error)

	// Delete removes a stored context.
	// Returns nil if the run has no stored context.
	Delete(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides run metadata without loading the full context.
type Info struct {
	RunID     string
	Timestamp time.Time
	Entries   int
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no context is stored for the run.
	ErrNotFound = errors.New("result context not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("context store closed")
)

// encodeKind maps a value kind to its stored tag.
func encodeKind(k value.Kind) string { return k.String() }

// decodeValue reconstructs a Value from its stored kind tag and
// rendered text.
func decodeValue(kind, text string) (value.Value, error) {
	switch kind {
	case "absent":
		return value.Absent(), nil
	case "boolean":
		v, err := value.Convert(value.String(text), value.KindBool, value.ConversionAny, value.MismatchException)
		if err != nil {
			return value.Absent(), err
		}
		return v, nil
	case "integer":
		v, err := value.Convert(value.String(text), value.KindInt, value.ConversionAny, value.MismatchException)
		if err != nil {
			return value.Absent(), err
		}
		return v, nil
	case "float":
		v, err := value.Convert(value.String(text), value.KindFloat, value.ConversionAny, value.MismatchException)
		if err != nil {
			return value.Absent(), err
		}
		return v, nil
	case "string":
		return value.String(text), nil
	default:
		return value.Absent(), errors.New("unknown stored kind: " + kind)
	}
}
