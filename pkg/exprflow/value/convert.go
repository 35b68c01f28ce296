package value

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// ConversionMode controls which cross-kind conversions are permitted.
type ConversionMode int

const (
	// ConversionNone rejects every cross-kind conversion.
	ConversionNone ConversionMode = iota

	// ConversionLossless permits only conversions whose result
	// round-trips back to the input (within 1e-10 for numeric
	// narrowing).
	ConversionLossless

	// ConversionAny permits every supported coercion.
	ConversionAny
)

// String returns a human-readable mode name.
func (m ConversionMode) String() string {
	switch m {
	case ConversionNone:
		return "none"
	case ConversionLossless:
		return "lossless"
	case ConversionAny:
		return "any"
	default:
		return fmt.Sprintf("ConversionMode(%d)", int(m))
	}
}

// MismatchMode controls the severity of a failed conversion.
type MismatchMode int

const (
	// MismatchException aborts on a failed conversion.
	MismatchException MismatchMode = iota

	// MismatchWarning logs a warning and substitutes Absent.
	MismatchWarning

	// MismatchAccept silently substitutes Absent.
	MismatchAccept
)

// String returns a human-readable mode name.
func (m MismatchMode) String() string {
	switch m {
	case MismatchException:
		return "exception"
	case MismatchWarning:
		return "warning"
	case MismatchAccept:
		return "accept"
	default:
		return fmt.Sprintf("MismatchMode(%d)", int(m))
	}
}

// ErrNotConvertible is the sentinel wrapped by every ConversionError.
var ErrNotConvertible = errors.New("value not convertible")

// ConversionError reports a rejected or failed conversion.
// It is only returned under MismatchException; the lenient modes
// substitute Absent instead.
type ConversionError struct {
	// From is the kind of the input value.
	From Kind
	// To is the requested target kind.
	To Kind
	// Detail describes why the conversion failed.
	Detail string
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s: %s", e.From, e.To, e.Detail)
}

// Unwrap returns ErrNotConvertible for errors.Is support.
func (e *ConversionError) Unwrap() error { return ErrNotConvertible }

// lossTolerance is the round-trip tolerance for numeric narrowing
// under ConversionLossless.
const lossTolerance = 1e-10

// Converter converts values between kinds under a conversion mode and
// a mismatch mode. The zero Converter is the strictest configuration
// (ConversionNone, MismatchException). Converter is immutable and safe
// for concurrent use.
type Converter struct {
	// Conversion selects which coercions are permitted.
	Conversion ConversionMode
	// Mismatch selects what happens when a coercion is rejected or fails.
	Mismatch MismatchMode
	// Logger receives warnings under MismatchWarning.
	// Nil disables the warning log.
	Logger *slog.Logger
}

// Convert converts v to the target kind.
//
// Same-kind input, absent input, and an absent target kind all pass
// through unchanged. Everything else is a cross-kind conversion subject
// to the Conversion mode; a rejected or failed conversion is handled
// per the Mismatch mode: MismatchException returns a *ConversionError,
// MismatchWarning logs and returns Absent, MismatchAccept returns
// Absent silently.
func (c Converter) Convert(v Value, target Kind) (Value, error) {
	if v.kind == target || v.IsAbsent() || target == KindAbsent {
		return v, nil
	}

	if c.Conversion == ConversionNone {
		return c.fail(v, target, "cross-kind conversion disabled")
	}

	switch target {
	case KindInt, KindFloat:
		return c.toNumber(v, target)
	case KindBool:
		return c.toBool(v, target)
	case KindString:
		return String(v.Render()), nil
	default:
		return c.fail(v, target, "unsupported target kind")
	}
}

// toNumber handles string->number parsing and number->number narrowing.
func (c Converter) toNumber(v Value, target Kind) (Value, error) {
	var f float64
	switch v.kind {
	case KindString:
		parsed, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return c.fail(v, target, fmt.Sprintf("cannot parse %q as number", v.s))
		}
		f = parsed
	case KindInt:
		f = float64(v.i)
		if target == KindFloat && c.Conversion == ConversionLossless && int64(f) != v.i {
			return c.fail(v, target, fmt.Sprintf("widening %d loses precision", v.i))
		}
	case KindFloat:
		f = v.f
	default:
		return c.fail(v, target, "no numeric interpretation")
	}

	if target == KindFloat {
		return Float(f), nil
	}

	i := int64(f)
	if c.Conversion == ConversionLossless && math.Abs(f-float64(i)) > lossTolerance {
		return c.fail(v, target, fmt.Sprintf("narrowing %v is lossy", f))
	}
	return Int(i), nil
}

// toBool handles the textual boolean parse.
func (c Converter) toBool(v Value, target Kind) (Value, error) {
	if v.kind != KindString {
		return c.fail(v, target, "no boolean interpretation")
	}
	b, err := strconv.ParseBool(v.s)
	if err != nil {
		return c.fail(v, target, fmt.Sprintf("cannot parse %q as boolean", v.s))
	}
	return Bool(b), nil
}

// fail applies the mismatch policy to a rejected conversion.
func (c Converter) fail(v Value, target Kind, detail string) (Value, error) {
	switch c.Mismatch {
	case MismatchException:
		return Absent(), &ConversionError{From: v.kind, To: target, Detail: detail}
	case MismatchWarning:
		if c.Logger != nil {
			c.Logger.Warn("value conversion failed",
				slog.String("from", v.kind.String()),
				slog.String("to", target.String()),
				slog.String("detail", detail),
			)
		}
		return Absent(), nil
	default:
		return Absent(), nil
	}
}

// Convert converts v to the target kind using a one-off Converter.
func Convert(v Value, target Kind, conv ConversionMode, mismatch MismatchMode) (Value, error) {
	return Converter{Conversion: conv, Mismatch: mismatch}.Convert(v, target)
}
