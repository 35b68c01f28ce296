// Package catalog provides the operation catalog: three typed
// namespaces (boolean, numeric, string) of named operations with
// case-insensitive alias resolution, plus the builtin operation packs.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// Operation is a named, typed operation invocable by the parsers.
//
// Invoke receives arguments bound by declared parameter name and the
// ambient evaluation context (read-only by convention; only composite
// operations write to their own private context).
type Operation interface {
	// ResultKind is the kind of value the operation produces.
	ResultKind() value.Kind

	// Params returns the declared parameter names in binding order.
	Params() []string

	// Invoke applies the operation.
	Invoke(args map[string]value.Value, ctx *value.Context) (value.Value, error)
}

// InvokeFunc is the signature of a closure-backed operation body.
type InvokeFunc func(args map[string]value.Value, ctx *value.Context) (value.Value, error)

// OptionalParams is implemented by operations whose trailing
// parameters may be omitted at the call site. Omitted parameters are
// simply absent from the args map passed to Invoke.
type OptionalParams interface {
	// RequiredParams reports the minimum argument count.
	RequiredParams() int
}

// funcOperation adapts a closure to the Operation interface.
type funcOperation struct {
	result   value.Kind
	params   []string
	required int
	fn       InvokeFunc
}

// NewOperation creates an Operation from a result kind, ordered
// parameter names, and a closure body. Every parameter is required.
//
// Panics if fn is nil.
func NewOperation(result value.Kind, params []string, fn InvokeFunc) Operation {
	return NewOperationOptional(result, params, len(params), fn)
}

// NewOperationOptional creates an Operation whose trailing parameters
// past the first required may be omitted at the call site.
//
// Panics if fn is nil or required is out of range.
func NewOperationOptional(result value.Kind, params []string, required int, fn InvokeFunc) Operation {
	if fn == nil {
		panic("catalog: operation function cannot be nil")
	}
	if required < 0 || required > len(params) {
		panic(fmt.Sprintf("catalog: required count %d out of range for %d params", required, len(params)))
	}
	return &funcOperation{result: result, params: params, required: required, fn: fn}
}

func (o *funcOperation) ResultKind() value.Kind { return o.result }

func (o *funcOperation) Params() []string { return o.params }

func (o *funcOperation) RequiredParams() int { return o.required }

func (o *funcOperation) Invoke(args map[string]value.Value, ctx *value.Context) (value.Value, error) {
	return o.fn(args, ctx)
}

// Catalog holds the registered operations. Names and aliases are
// case-insensitive. A name lives in exactly one namespace: registering
// it again, in any namespace, overwrites the previous entry (last
// write wins).
//
// Catalog is safe for concurrent reads. Populate it once at startup
// and treat it as read-only while evaluations are in flight.
type Catalog struct {
	mu      sync.RWMutex
	boolean map[string]Operation
	numeric map[string]Operation
	strings map[string]Operation
	aliases map[string]string
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		boolean: make(map[string]Operation),
		numeric: make(map[string]Operation),
		strings: make(map[string]Operation),
		aliases: make(map[string]string),
	}
}

// RegisterBoolean registers a boolean-valued operation under name and
// the given aliases. Panics if name is empty or op is nil.
func (c *Catalog) RegisterBoolean(name string, op Operation, aliases ...string) {
	c.register(c.boolean, name, op, aliases)
}

// RegisterNumeric registers a numeric-valued operation under name and
// the given aliases. Panics if name is empty or op is nil.
func (c *Catalog) RegisterNumeric(name string, op Operation, aliases ...string) {
	c.register(c.numeric, name, op, aliases)
}

// RegisterString registers a string-valued operation under name and
// the given aliases. Panics if name is empty or op is nil.
func (c *Catalog) RegisterString(name string, op Operation, aliases ...string) {
	c.register(c.strings, name, op, aliases)
}

// RegisterCustom registers an operation in the namespace matching its
// result kind. Panics if the result kind has no namespace.
func (c *Catalog) RegisterCustom(name string, op Operation, aliases ...string) {
	switch op.ResultKind() {
	case value.KindBool:
		c.RegisterBoolean(name, op, aliases...)
	case value.KindInt, value.KindFloat:
		c.RegisterNumeric(name, op, aliases...)
	case value.KindString:
		c.RegisterString(name, op, aliases...)
	default:
		panic(fmt.Sprintf("catalog: unsupported result kind for custom operation: %s", op.ResultKind()))
	}
}

func (c *Catalog) register(ns map[string]Operation, name string, op Operation, aliases []string) {
	if name == "" {
		panic("catalog: operation name cannot be empty")
	}
	if op == nil {
		panic("catalog: operation cannot be nil")
	}

	key := strings.ToLower(name)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A name lives in exactly one namespace.
	delete(c.boolean, key)
	delete(c.numeric, key)
	delete(c.strings, key)

	ns[key] = op
	for _, alias := range aliases {
		c.aliases[strings.ToLower(alias)] = key
	}
}

// canonical maps a token to its canonical name. Resolution is
// idempotent: canonical names map to themselves.
func (c *Catalog) canonical(token string) string {
	key := strings.ToLower(token)
	if target, ok := c.aliases[key]; ok {
		return target
	}
	return key
}

// Resolve returns the operation for a token (canonical name or alias),
// searching the boolean, string, and numeric namespaces in that order.
func (c *Catalog) Resolve(token string) (Operation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := c.canonical(token)
	if op, ok := c.boolean[key]; ok {
		return op, true
	}
	if op, ok := c.strings[key]; ok {
		return op, true
	}
	if op, ok := c.numeric[key]; ok {
		return op, true
	}
	return nil, false
}

// Boolean returns the boolean operation for a token, if registered.
func (c *Catalog) Boolean(token string) (Operation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	op, ok := c.boolean[c.canonical(token)]
	return op, ok
}

// Numeric returns the numeric operation for a token, if registered.
func (c *Catalog) Numeric(token string) (Operation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	op, ok := c.numeric[c.canonical(token)]
	return op, ok
}

// String returns the string operation for a token, if registered.
func (c *Catalog) String(token string) (Operation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	op, ok := c.strings[c.canonical(token)]
	return op, ok
}

// Contains reports whether a token resolves to any operation.
func (c *Catalog) Contains(token string) bool {
	_, ok := c.Resolve(token)
	return ok
}

// Names returns all canonical operation names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.boolean)+len(c.numeric)+len(c.strings))
	for name := range c.boolean {
		names = append(names, name)
	}
	for name := range c.numeric {
		names = append(names, name)
	}
	for name := range c.strings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
