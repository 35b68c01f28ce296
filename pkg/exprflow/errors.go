package exprflow

import (
	"errors"
	"fmt"
)

// ErrCycle indicates a dependency cycle among batch keys.
var ErrCycle = errors.New("cyclic dependency")

// CycleError reports a dependency cycle. It is always fatal to the
// whole batch; no partial output is produced.
type CycleError struct {
	// Key is the batch key at which the cycle was detected.
	Key string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency detected at: %s", e.Key)
}

// Unwrap returns ErrCycle for errors.Is support.
func (e *CycleError) Unwrap() error { return ErrCycle }

// KeyError wraps a failure while evaluating one batch key.
// It is returned only under MismatchException; the lenient modes
// degrade the key's result to absent and continue.
type KeyError struct {
	// Key is the batch key that failed.
	Key string
	// Expr is the expression text.
	Expr string
	// Err is the underlying parse or evaluation error.
	Err error
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("evaluate %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *KeyError) Unwrap() error { return e.Err }
