// Package custom provides composite operations: named operations built
// from an ordered sequence of sub-expression steps over private state.
// A composite operation satisfies the same catalog contract as the
// builtin primitives and may itself be registered and called from
// expressions.
package custom

import (
	"errors"
	"fmt"

	"github.com/sysmuse/exprflow/pkg/exprflow/catalog"
	"github.com/sysmuse/exprflow/pkg/exprflow/parse"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// Param declares one external parameter of a composite operation.
type Param struct {
	// Name is the parameter name, visible to the steps.
	Name string
	// Kind is the declared type; incoming arguments are converted to it.
	Kind value.Kind
}

// StateVar declares one internal state variable with its default.
type StateVar struct {
	// Name is the variable name, visible to the steps.
	Name string
	// Default seeds the working context at the start of each invocation.
	Default value.Value
	// Kind is the declared type. The zero kind leaves the default as-is.
	Kind value.Kind
}

// Step is one evaluation step: a sub-expression whose result is bound
// to an output variable in the working context, visible to later steps.
type Step struct {
	// Output is the working-context variable the result binds to.
	Output string
	// Expr is the sub-expression text.
	Expr string
	// Mode selects the syntax the sub-expression is parsed with.
	Mode parse.Mode
}

// Definition is the declarative description a composite operation is
// built from. A Definition is built once and reused across
// invocations; each invocation gets a fresh working context.
type Definition struct {
	// Name identifies the operation in errors and registration.
	Name string
	// ResultKind is the kind of the final result.
	ResultKind value.Kind
	// Params are the external parameters in declaration order.
	Params []Param
	// State are the internal state variables in declaration order.
	State []StateVar
	// Steps are executed in declaration order.
	Steps []Step
}

// Sentinel errors for composite-operation invocation.
var (
	// ErrMissingArgument indicates a declared external parameter had
	// no matching entry in the invocation arguments.
	ErrMissingArgument = errors.New("missing external argument")

	// ErrNoResult indicates the operation has zero steps or the final
	// step's output binding is absent.
	ErrNoResult = errors.New("no result available")
)

// MissingArgumentError reports a missing external argument.
// It is always fatal to the invocation.
type MissingArgumentError struct {
	// Op is the composite operation name.
	Op string
	// Arg is the missing parameter name.
	Arg string
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("operation %s: missing external argument: %s", e.Op, e.Arg)
}

// Unwrap returns ErrMissingArgument for errors.Is support.
func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

// MissingResultError reports an invocation that produced no final
// result. It is always fatal to the invocation.
type MissingResultError struct {
	// Op is the composite operation name.
	Op string
}

// Error implements the error interface.
func (e *MissingResultError) Error() string {
	return fmt.Sprintf("operation %s: no result available", e.Op)
}

// Unwrap returns ErrNoResult for errors.Is support.
func (e *MissingResultError) Unwrap() error { return ErrNoResult }

// Operation is a composite operation bound to a catalog. It implements
// catalog.Operation and is safe for concurrent invocation: every
// invocation works on its own context.
type Operation struct {
	def  Definition
	cat  *catalog.Catalog
	conv value.Converter
}

// Option configures an Operation.
type Option func(*Operation)

// WithConverter sets the converter applied to external arguments and
// internal state. The default is the strict zero Converter
// (ConversionNone, MismatchException).
func WithConverter(conv value.Converter) Option {
	return func(o *Operation) {
		o.conv = conv
	}
}

// New builds a composite operation from its definition.
//
// Panics if cat is nil. Returns an error for an empty name, an
// unsupported result kind, or a step without an output variable.
func New(def Definition, cat *catalog.Catalog, opts ...Option) (*Operation, error) {
	if cat == nil {
		panic("custom: catalog cannot be nil")
	}
	if def.Name == "" {
		return nil, errors.New("custom: operation name cannot be empty")
	}
	switch def.ResultKind {
	case value.KindBool, value.KindInt, value.KindFloat, value.KindString:
	default:
		return nil, fmt.Errorf("custom: unsupported result kind: %s", def.ResultKind)
	}
	for i, step := range def.Steps {
		if step.Output == "" {
			return nil, fmt.Errorf("custom: step %d of %s has no output variable", i, def.Name)
		}
	}

	op := &Operation{def: def, cat: cat}
	for _, opt := range opts {
		opt(op)
	}
	return op, nil
}

// Name returns the operation name.
func (o *Operation) Name() string { return o.def.Name }

// ResultKind implements catalog.Operation.
func (o *Operation) ResultKind() value.Kind { return o.def.ResultKind }

// Params implements catalog.Operation, returning the declared external
// parameter names in order.
func (o *Operation) Params() []string {
	names := make([]string, len(o.def.Params))
	for i, p := range o.def.Params {
		names[i] = p.Name
	}
	return names
}

// Execute runs the operation and returns the final working context,
// including intermediate step outputs.
//
// The invocation sequence: seed a fresh working context from the
// internal-state defaults, require and convert every declared external
// argument, convert internal state whose kind mismatches its declared
// type, then run the steps in order, binding each result to its output
// variable. A missing argument fails before any step runs and leaves
// no caller-visible mutation.
func (o *Operation) Execute(args map[string]value.Value) (*value.Context, error) {
	working := value.NewContext()
	for _, sv := range o.def.State {
		working.Set(sv.Name, sv.Default)
	}

	for _, p := range o.def.Params {
		v, ok := args[p.Name]
		if !ok || v.IsAbsent() {
			return nil, &MissingArgumentError{Op: o.def.Name, Arg: p.Name}
		}
		converted, err := o.conv.Convert(v, p.Kind)
		if err != nil {
			return nil, fmt.Errorf("operation %s: argument %s: %w", o.def.Name, p.Name, err)
		}
		working.Set(p.Name, converted)
	}

	for _, sv := range o.def.State {
		if sv.Kind == value.KindAbsent {
			continue
		}
		if cur := working.Lookup(sv.Name); cur.Kind() != sv.Kind {
			converted, err := o.conv.Convert(cur, sv.Kind)
			if err != nil {
				return nil, fmt.Errorf("operation %s: state %s: %w", o.def.Name, sv.Name, err)
			}
			working.Set(sv.Name, converted)
		}
	}

	for i, step := range o.def.Steps {
		compiled, err := parse.Compile(step.Expr, step.Mode, o.cat)
		if err != nil {
			return nil, fmt.Errorf("operation %s: step %d (%s): %w", o.def.Name, i, step.Output, err)
		}
		result, err := compiled.Eval(working)
		if err != nil {
			return nil, fmt.Errorf("operation %s: step %d (%s): %w", o.def.Name, i, step.Output, err)
		}
		working.Set(step.Output, result)
	}

	return working, nil
}

// Invoke implements catalog.Operation: it executes the steps and
// returns the value bound to the last step's output variable.
func (o *Operation) Invoke(args map[string]value.Value, _ *value.Context) (value.Value, error) {
	working, err := o.Execute(args)
	if err != nil {
		return value.Absent(), err
	}
	if len(o.def.Steps) == 0 {
		return value.Absent(), &MissingResultError{Op: o.def.Name}
	}
	final := o.def.Steps[len(o.def.Steps)-1].Output
	v, ok := working.Get(final)
	if !ok {
		return value.Absent(), &MissingResultError{Op: o.def.Name}
	}
	return v, nil
}
