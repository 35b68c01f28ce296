package catalog

import (
	"math"

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// InstallNumeric registers the builtin numeric operations. Arithmetic
// follows floating-point semantics: division by zero yields an
// infinity rather than an error.
func InstallNumeric(c *Catalog) {
	c.RegisterNumeric("add", numOp2(func(a, b float64) float64 { return a + b }), "+", "plus")
	c.RegisterNumeric("sub", numOp2(func(a, b float64) float64 { return a - b }), "-", "minus")
	c.RegisterNumeric("mul", numOp2(func(a, b float64) float64 { return a * b }), "*", "times")
	c.RegisterNumeric("div", numOp2(func(a, b float64) float64 { return a / b }), "/", "divide")
	c.RegisterNumeric("mod", numOp2(math.Mod), "%", "modulo")

	c.RegisterNumeric("neg", numOp1(func(v float64) float64 { return -v }), "negate")
	c.RegisterNumeric("abs", numOp1(math.Abs))

	c.RegisterNumeric("min", numOp2(math.Min))
	c.RegisterNumeric("max", numOp2(math.Max))
}

// numOp1 builds a one-argument numeric operation over value.
func numOp1(fn func(v float64) float64) Operation {
	return NewOperation(value.KindFloat, []string{"value"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			v, err := numArg(args, "value")
			if err != nil {
				return value.Absent(), err
			}
			return value.Float(fn(v)), nil
		})
}

// numOp2 builds a two-argument numeric operation over a and b.
func numOp2(fn func(a, b float64) float64) Operation {
	return NewOperation(value.KindFloat, []string{"a", "b"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			a, err := numArg(args, "a")
			if err != nil {
				return value.Absent(), err
			}
			b, err := numArg(args, "b")
			if err != nil {
				return value.Absent(), err
			}
			return value.Float(fn(a, b)), nil
		})
}
