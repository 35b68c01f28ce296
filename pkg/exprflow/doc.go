/*
Package exprflow provides an embeddable expression evaluation engine:
typed values, a catalog of named operations, two expression syntaxes,
composite user-defined operations, and batch evaluation with
dependency resolution.

# Overview

exprflow evaluates named expressions against a shared, ordered context.
Expressions are written either call-style (add(a, mul(b, 2))) or
infix-style (a + b * 2 > c), compiled against an operation catalog, and
evaluated in dependency order so each expression sees the results of
the keys it references.

The library carries:
  - A tagged value model (boolean, integer, float, string, absent)
  - Configurable type conversion with three strictness levels
  - Case-insensitive operation names and aliases
  - Composite operations defined declaratively (JSON or YAML)
  - OpenTelemetry integration for observability
  - Optional persistence of result contexts (memory or SQLite)

# Basic Usage

Build a catalog, create a manager, and evaluate a batch:

	cat := catalog.New()
	catalog.InstallBuiltins(cat)
	mgr := exprflow.New(cat)

	result, err := mgr.EvaluateBatch(map[string]string{
	    "subtotal": "price * qty",
	    "total":    "subtotal * 1.08",
	}, initial, parse.ModeInfix)

Keys may reference each other in any declaration order; a cycle fails
the whole batch with a *CycleError.

# Failure Policy

The mismatch mode decides what a failing key does to the batch:
MismatchException (the default) aborts with a *KeyError,
MismatchWarning logs and binds the key to an absent value,
MismatchAccept binds absent silently. The same mode governs value
conversions throughout.

# Observability

Logging, tracing, and metrics are opt-in via options:

	mgr := exprflow.New(cat,
	    exprflow.WithLogger(logger),
	    exprflow.WithTracing(observability.NewSpanManager()),
	    exprflow.WithMetrics(observability.NewMetricsRecorder()),
	)

All observability features default to no-ops.
*/
package exprflow
