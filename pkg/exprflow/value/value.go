// Package value provides the runtime value model for exprflow:
// a tagged union over booleans, integers, floats, and strings, an
// insertion-ordered variable context, and type conversion between
// kinds under configurable strictness.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies the runtime type carried by a Value.
type Kind int

const (
	// KindAbsent is the zero Kind: no value (missing variable,
	// suppressed result under a lenient mismatch mode).
	KindAbsent Kind = iota

	// KindBool is a boolean value.
	KindBool

	// KindInt is a 64-bit integer value.
	KindInt

	// KindFloat is a 64-bit floating-point value.
	KindFloat

	// KindString is a string value.
	KindString
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Numeric reports whether the kind is KindInt or KindFloat.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Value is a tagged union over the four runtime kinds.
// The zero Value is absent. Values are immutable and safe to copy.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Bool creates a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int creates an integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float creates a floating-point Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String creates a string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Absent returns the absent Value.
func Absent() Value { return Value{} }

// Of converts a native Go value into a Value.
// Supported inputs: bool, int, int32, int64, float32, float64, string,
// Value (returned as-is), and nil (absent). Anything else panics;
// callers own the input shape.
func Of(v any) Value {
	switch val := v.(type) {
	case nil:
		return Absent()
	case Value:
		return val
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case string:
		return String(val)
	default:
		panic(fmt.Sprintf("value: unsupported native type %T", v))
	}
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsBool returns the boolean payload. The second result is false
// unless the value is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload. The second result is false
// unless the value is an integer.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float payload. The second result is false
// unless the value is a float.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the string payload. The second result is false
// unless the value is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Number coerces the value to a float64 for arithmetic and comparison.
// Integers widen, floats pass through, and strings are parsed.
// All other kinds fail.
func (v Value) Number() (float64, error) {
	switch v.kind {
	case KindInt:
		return float64(v.i), nil
	case KindFloat:
		return v.f, nil
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, fmt.Errorf("expected number but got %q", v.s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number but got %s", v.kind)
	}
}

// Truth coerces the value to a boolean. Booleans pass through and
// strings are parsed ("true"/"false", case-insensitive, plus 0/1).
// All other kinds fail.
func (v Value) Truth() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindString:
		b, err := strconv.ParseBool(v.s)
		if err != nil {
			return false, fmt.Errorf("expected boolean but got %q", v.s)
		}
		return b, nil
	default:
		return false, fmt.Errorf("expected boolean but got %s", v.kind)
	}
}

// Render renders any value as a string. Absent renders as "".
func (v Value) Render() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// String implements fmt.Stringer for logging and debugging.
func (v Value) String() string {
	if v.kind == KindAbsent {
		return "<absent>"
	}
	return v.Render()
}

// Interface returns the native Go representation of the value:
// bool, int64, float64, string, or nil for absent.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Equal reports whether two values are equal. Integers and floats
// compare numerically across kinds; all other comparisons require
// matching kinds. Two absent values are equal.
func (v Value) Equal(o Value) bool {
	if v.kind.Numeric() && o.kind.Numeric() {
		a, _ := v.Number()
		b, _ := o.Number()
		return a == b
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	default:
		return false
	}
}
