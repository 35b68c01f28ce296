package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

func constOp(result value.Kind, v value.Value) Operation {
	return NewOperation(result, nil,
		func(_ map[string]value.Value, _ *value.Context) (value.Value, error) {
			return v, nil
		})
}

// TestCatalog_RegisterAndResolve tests basic registration and lookup.
func TestCatalog_RegisterAndResolve(t *testing.T) {
	c := New()
	c.RegisterNumeric("answer", constOp(value.KindFloat, value.Float(42)))

	op, ok := c.Resolve("answer")
	require.True(t, ok)
	assert.Equal(t, value.KindFloat, op.ResultKind())

	_, ok = c.Resolve("unknown")
	assert.False(t, ok)
	assert.True(t, c.Contains("answer"))
	assert.False(t, c.Contains("unknown"))
}

// TestCatalog_CaseInsensitive tests that names and aliases resolve
// regardless of case.
func TestCatalog_CaseInsensitive(t *testing.T) {
	c := New()
	c.RegisterBoolean("GreaterThan", constOp(value.KindBool, value.Bool(true)), "GT")

	for _, token := range []string{"greaterthan", "GREATERTHAN", "GreaterThan", "gt", "GT"} {
		_, ok := c.Resolve(token)
		assert.True(t, ok, "token %q should resolve", token)
	}
}

// TestCatalog_AliasIdempotent tests that canonical names resolve
// through the alias table unchanged.
func TestCatalog_AliasIdempotent(t *testing.T) {
	c := New()
	c.RegisterNumeric("add", constOp(value.KindFloat, value.Float(0)), "+", "plus")

	direct, ok := c.Resolve("add")
	require.True(t, ok)
	viaSymbol, ok := c.Resolve("+")
	require.True(t, ok)
	viaWord, ok := c.Resolve("plus")
	require.True(t, ok)
	assert.Same(t, direct, viaSymbol)
	assert.Same(t, direct, viaWord)
}

// TestCatalog_NamespaceGetters tests the typed lookup methods.
func TestCatalog_NamespaceGetters(t *testing.T) {
	c := New()
	c.RegisterBoolean("flag", constOp(value.KindBool, value.Bool(true)))
	c.RegisterNumeric("num", constOp(value.KindFloat, value.Float(1)))
	c.RegisterString("str", constOp(value.KindString, value.String("s")))

	_, ok := c.Boolean("flag")
	assert.True(t, ok)
	_, ok = c.Boolean("num")
	assert.False(t, ok)

	_, ok = c.Numeric("num")
	assert.True(t, ok)
	_, ok = c.String("str")
	assert.True(t, ok)
}

// TestCatalog_LastWriteWins tests that re-registering a name in a
// different namespace removes the old entry.
func TestCatalog_LastWriteWins(t *testing.T) {
	c := New()
	c.RegisterNumeric("thing", constOp(value.KindFloat, value.Float(1)))
	c.RegisterString("thing", constOp(value.KindString, value.String("x")))

	_, ok := c.Numeric("thing")
	assert.False(t, ok)
	op, ok := c.String("thing")
	require.True(t, ok)
	assert.Equal(t, value.KindString, op.ResultKind())
}

// TestCatalog_RegisterCustom tests namespace dispatch by result kind.
func TestCatalog_RegisterCustom(t *testing.T) {
	c := New()
	c.RegisterCustom("b", constOp(value.KindBool, value.Bool(true)))
	c.RegisterCustom("i", constOp(value.KindInt, value.Int(1)))
	c.RegisterCustom("f", constOp(value.KindFloat, value.Float(1)))
	c.RegisterCustom("s", constOp(value.KindString, value.String("x")))

	_, ok := c.Boolean("b")
	assert.True(t, ok)
	_, ok = c.Numeric("i")
	assert.True(t, ok)
	_, ok = c.Numeric("f")
	assert.True(t, ok)
	_, ok = c.String("s")
	assert.True(t, ok)

	assert.Panics(t, func() {
		c.RegisterCustom("bad", constOp(value.KindAbsent, value.Absent()))
	})
}

// TestCatalog_RegisterPanics tests the programmer-error panics.
func TestCatalog_RegisterPanics(t *testing.T) {
	c := New()
	assert.Panics(t, func() { c.RegisterNumeric("", constOp(value.KindFloat, value.Float(0))) })
	assert.Panics(t, func() { c.RegisterNumeric("x", nil) })
	assert.Panics(t, func() { NewOperation(value.KindFloat, nil, nil) })
}

// TestCatalog_Names tests the sorted canonical name listing.
func TestCatalog_Names(t *testing.T) {
	c := New()
	c.RegisterNumeric("zeta", constOp(value.KindFloat, value.Float(0)))
	c.RegisterBoolean("alpha", constOp(value.KindBool, value.Bool(true)))
	c.RegisterString("mid", constOp(value.KindString, value.String("")))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, c.Names())
}
