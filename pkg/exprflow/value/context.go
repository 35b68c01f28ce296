package value

// Context is an insertion-ordered mapping of variable names to values.
// It is the mutable state threaded through one batch evaluation or one
// composite-operation invocation.
//
// Context is NOT safe for concurrent use. Each batch or invocation owns
// its own Context; independent evaluations may run concurrently as long
// as they do not share one.
type Context struct {
	keys []string
	vals map[string]Value
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{vals: make(map[string]Value)}
}

// ContextFrom creates a Context from native Go values, preserving the
// given key order. See Of for the supported native types.
func ContextFrom(keys []string, vals map[string]any) *Context {
	ctx := NewContext()
	for _, k := range keys {
		ctx.Set(k, Of(vals[k]))
	}
	return ctx
}

// Set binds name to v, appending the name to the iteration order if it
// is not already present.
func (c *Context) Set(name string, v Value) {
	if _, exists := c.vals[name]; !exists {
		c.keys = append(c.keys, name)
	}
	c.vals[name] = v
}

// Get returns the value bound to name and whether the binding exists.
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.vals[name]
	return v, ok
}

// Lookup returns the value bound to name, or Absent if unbound.
func (c *Context) Lookup(name string) Value {
	return c.vals[name]
}

// Has reports whether name is bound.
func (c *Context) Has(name string) bool {
	_, ok := c.vals[name]
	return ok
}

// Delete removes a binding. Deleting an unbound name is a no-op.
func (c *Context) Delete(name string) {
	if _, ok := c.vals[name]; !ok {
		return
	}
	delete(c.vals, name)
	for i, k := range c.keys {
		if k == name {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the bound names in insertion order.
func (c *Context) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of bindings.
func (c *Context) Len() int { return len(c.vals) }

// Clone returns an independent copy preserving insertion order.
// Clone of nil returns an empty Context.
func (c *Context) Clone() *Context {
	out := NewContext()
	if c == nil {
		return out
	}
	for _, k := range c.keys {
		out.Set(k, c.vals[k])
	}
	return out
}

// Range iterates over bindings in insertion order. Iteration stops
// when fn returns false.
func (c *Context) Range(fn func(name string, v Value) bool) {
	for _, k := range c.keys {
		if !fn(k, c.vals[k]) {
			return
		}
	}
}
