// Package parse compiles expression text into evaluable expression
// trees bound to an operation catalog. Two syntaxes are supported:
// call-style, where operations are written as function calls like
// add(a, b), and infix-style, where operations are written with
// operators like a + b > c.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sysmuse/exprflow/pkg/exprflow/catalog"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// Mode selects the expression syntax.
type Mode int

const (
	// ModeCall is the call-style syntax: add(a, mul(b, 2)).
	ModeCall Mode = iota

	// ModeInfix is the infix syntax: a + b * 2 > c && ok.
	ModeInfix
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCall:
		return "call"
	case ModeInfix:
		return "infix"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name. "call" and "functional" select
// ModeCall; "infix" and "operational" select ModeInfix.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "call", "functional":
		return ModeCall, nil
	case "infix", "operational":
		return ModeInfix, nil
	default:
		return ModeCall, fmt.Errorf("unknown syntax mode: %q", s)
	}
}

// Sentinel errors wrapped by ParseError.
var (
	// ErrUnknownIdentifier indicates a call to an unregistered operation.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrUnknownOperator indicates an operator with no catalog entry.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnterminatedString indicates a string literal with no closing quote.
	ErrUnterminatedString = errors.New("unterminated string literal")

	// ErrUnexpectedEnd indicates the input ended mid-expression.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrArgCount indicates a call whose argument count does not match
	// the operation's declared parameter count.
	ErrArgCount = errors.New("argument count mismatch")

	// ErrNonBooleanResult indicates a boolean entry point whose root
	// expression did not produce a boolean.
	ErrNonBooleanResult = errors.New("non-boolean result")
)

// ParseError reports a malformed expression with the character
// position at which parsing failed. Parse errors are always fatal to
// the expression that produced them.
type ParseError struct {
	// Pos is the zero-based character position of the failure.
	// For infix expressions the position is relative to the text
	// after whitespace stripping.
	Pos int
	// Msg describes the failure.
	Msg string
	// Err is the matching sentinel, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// Unwrap returns the sentinel for errors.Is support.
func (e *ParseError) Unwrap() error { return e.Err }

// Compiled is an expression compiled against a catalog. It is
// immutable and may be evaluated concurrently against independent
// contexts.
type Compiled struct {
	// Text is the original expression text.
	Text string
	// Mode is the syntax the expression was compiled with.
	Mode Mode
	// Root is the root of the expression tree.
	Root Node
}

// Compile compiles expression text under the given syntax mode,
// resolving operations in the catalog.
//
// Panics if cat is nil.
func Compile(text string, mode Mode, cat *catalog.Catalog) (*Compiled, error) {
	if cat == nil {
		panic("parse: catalog cannot be nil")
	}

	var (
		root Node
		err  error
	)
	switch mode {
	case ModeCall:
		root, err = compileCall(text, cat)
	case ModeInfix:
		root, err = compileInfix(text, cat)
	default:
		return nil, fmt.Errorf("unsupported syntax mode: %v", mode)
	}
	if err != nil {
		return nil, err
	}
	return &Compiled{Text: text, Mode: mode, Root: root}, nil
}

// Eval evaluates the expression against a context.
func (c *Compiled) Eval(ctx *value.Context) (value.Value, error) {
	return c.Root.Eval(ctx)
}

// EvalBool evaluates the expression and requires a boolean result.
func (c *Compiled) EvalBool(ctx *value.Context) (bool, error) {
	v, err := c.Root.Eval(ctx)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, fmt.Errorf("%w: got %s", ErrNonBooleanResult, v.Kind())
	}
	return b, nil
}

// identChar reports whether b may appear inside an identifier.
func identChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// digit reports whether b is an ASCII digit.
func digit(b byte) bool { return b >= '0' && b <= '9' }

// parseNumber converts literal text into an integer Value when it has
// no decimal point, otherwise a float Value.
func parseNumber(text string, pos int) (value.Value, error) {
	if strings.ContainsRune(text, '.') {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Absent(), &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid number literal %q", text)}
		}
		return value.Float(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return value.Absent(), &ParseError{Pos: pos, Msg: fmt.Sprintf("invalid number literal %q", text)}
	}
	return value.Int(i), nil
}
