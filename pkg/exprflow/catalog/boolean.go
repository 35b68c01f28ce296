package catalog

import (
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// InstallBoolean registers the builtin boolean operations: logical
// connectives, comparisons, and equality.
func InstallBoolean(c *Catalog) {
	c.RegisterBoolean("and", boolOp2(func(a, b bool) bool { return a && b }), "&&")
	c.RegisterBoolean("or", boolOp2(func(a, b bool) bool { return a || b }), "||")

	c.RegisterBoolean("not", NewOperation(value.KindBool, []string{"value"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			v, err := boolArg(args, "value")
			if err != nil {
				return value.Absent(), err
			}
			return value.Bool(!v), nil
		}), "!")

	c.RegisterBoolean("greaterThan", compareOp(func(a, b float64) bool { return a > b }), ">")
	c.RegisterBoolean("lessThan", compareOp(func(a, b float64) bool { return a < b }), "<")
	c.RegisterBoolean("greaterThanOrEqual", compareOp(func(a, b float64) bool { return a >= b }), ">=")
	c.RegisterBoolean("lessThanOrEqual", compareOp(func(a, b float64) bool { return a <= b }), "<=")

	c.RegisterBoolean("equals", NewOperation(value.KindBool, []string{"a", "b"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			return value.Bool(args["a"].Equal(args["b"])), nil
		}), "==", "eq")

	c.RegisterBoolean("notEquals", NewOperation(value.KindBool, []string{"a", "b"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			return value.Bool(!args["a"].Equal(args["b"])), nil
		}), "!=", "neq")
}

// boolOp2 builds a two-argument logical operation over a and b.
func boolOp2(fn func(a, b bool) bool) Operation {
	return NewOperation(value.KindBool, []string{"a", "b"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			a, err := boolArg(args, "a")
			if err != nil {
				return value.Absent(), err
			}
			b, err := boolArg(args, "b")
			if err != nil {
				return value.Absent(), err
			}
			return value.Bool(fn(a, b)), nil
		})
}

// compareOp builds a two-argument numeric comparison over a and b.
func compareOp(fn func(a, b float64) bool) Operation {
	return NewOperation(value.KindBool, []string{"a", "b"},
		func(args map[string]value.Value, _ *value.Context) (value.Value, error) {
			a, err := numArg(args, "a")
			if err != nil {
				return value.Absent(), err
			}
			b, err := numArg(args, "b")
			if err != nil {
				return value.Absent(), err
			}
			return value.Bool(fn(a, b)), nil
		})
}
