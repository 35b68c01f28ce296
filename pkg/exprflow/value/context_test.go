package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContext_InsertionOrder tests that Keys preserves Set order.
func TestContext_InsertionOrder(t *testing.T) {
	ctx := NewContext()
	ctx.Set("c", Int(3))
	ctx.Set("a", Int(1))
	ctx.Set("b", Int(2))

	assert.Equal(t, []string{"c", "a", "b"}, ctx.Keys())
}

// TestContext_SetExisting tests that rebinding keeps the original slot.
func TestContext_SetExisting(t *testing.T) {
	ctx := NewContext()
	ctx.Set("a", Int(1))
	ctx.Set("b", Int(2))
	ctx.Set("a", Int(10))

	assert.Equal(t, []string{"a", "b"}, ctx.Keys())
	assert.Equal(t, Int(10), ctx.Lookup("a"))
}

// TestContext_Lookup tests the absent default for unbound names.
func TestContext_Lookup(t *testing.T) {
	ctx := NewContext()
	ctx.Set("x", String("y"))

	assert.Equal(t, String("y"), ctx.Lookup("x"))
	assert.True(t, ctx.Lookup("missing").IsAbsent())

	_, ok := ctx.Get("missing")
	assert.False(t, ok)
	assert.True(t, ctx.Has("x"))
	assert.False(t, ctx.Has("missing"))
}

// TestContext_Delete tests binding removal and order maintenance.
func TestContext_Delete(t *testing.T) {
	ctx := NewContext()
	ctx.Set("a", Int(1))
	ctx.Set("b", Int(2))
	ctx.Set("c", Int(3))

	ctx.Delete("b")
	assert.Equal(t, []string{"a", "c"}, ctx.Keys())
	assert.Equal(t, 2, ctx.Len())

	ctx.Delete("missing")
	assert.Equal(t, 2, ctx.Len())
}

// TestContext_Clone tests independence of the copy.
func TestContext_Clone(t *testing.T) {
	ctx := NewContext()
	ctx.Set("a", Int(1))
	ctx.Set("b", Int(2))

	clone := ctx.Clone()
	clone.Set("a", Int(100))
	clone.Set("c", Int(3))

	assert.Equal(t, Int(1), ctx.Lookup("a"))
	assert.False(t, ctx.Has("c"))
	assert.Equal(t, []string{"a", "b", "c"}, clone.Keys())
}

// TestContext_CloneNil tests that cloning nil yields a usable Context.
func TestContext_CloneNil(t *testing.T) {
	var ctx *Context
	clone := ctx.Clone()
	require.NotNil(t, clone)
	clone.Set("a", Int(1))
	assert.Equal(t, 1, clone.Len())
}

// TestContextFrom tests construction from native values in key order.
func TestContextFrom(t *testing.T) {
	ctx := ContextFrom([]string{"n", "s", "f"}, map[string]any{
		"n": 5,
		"s": "hello",
		"f": 1.5,
	})

	assert.Equal(t, []string{"n", "s", "f"}, ctx.Keys())
	assert.Equal(t, Int(5), ctx.Lookup("n"))
	assert.Equal(t, String("hello"), ctx.Lookup("s"))
	assert.Equal(t, Float(1.5), ctx.Lookup("f"))
}

// TestContext_Range tests early-stop iteration.
func TestContext_Range(t *testing.T) {
	ctx := NewContext()
	ctx.Set("a", Int(1))
	ctx.Set("b", Int(2))
	ctx.Set("c", Int(3))

	var seen []string
	ctx.Range(func(name string, _ Value) bool {
		seen = append(seen, name)
		return name != "b"
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}
