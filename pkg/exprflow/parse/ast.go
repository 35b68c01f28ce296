package parse

import (
	"fmt"

	"github.com/sysmuse/exprflow/pkg/exprflow/catalog"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// Node is one node of a compiled expression tree. The tree is built
// once at compile time and may be evaluated any number of times
// against different contexts.
type Node interface {
	// Eval evaluates the node against a context.
	Eval(ctx *value.Context) (value.Value, error)
}

// Literal is a constant boolean, numeric, or string value.
type Literal struct {
	Value value.Value
}

// Eval returns the literal value.
func (n *Literal) Eval(_ *value.Context) (value.Value, error) {
	return n.Value, nil
}

// VariableRef is a context lookup by name. An unbound name evaluates
// to Absent.
type VariableRef struct {
	Name string
}

// Eval looks the name up in the context.
func (n *VariableRef) Eval(ctx *value.Context) (value.Value, error) {
	return ctx.Lookup(n.Name), nil
}

// Call applies a catalog operation to ordered argument expressions.
// Arguments evaluate left to right and bind positionally to the
// operation's declared parameter names.
type Call struct {
	// Name is the token the operation was resolved from, as written.
	Name string
	// Op is the resolved catalog operation.
	Op catalog.Operation
	// Args are the ordered argument expressions.
	Args []Node
}

// Eval evaluates the arguments and invokes the operation.
func (n *Call) Eval(ctx *value.Context) (value.Value, error) {
	params := n.Op.Params()
	args := make(map[string]value.Value, len(n.Args))
	for i, arg := range n.Args {
		v, err := arg.Eval(ctx)
		if err != nil {
			return value.Absent(), err
		}
		args[params[i]] = v
	}
	out, err := n.Op.Invoke(args, ctx)
	if err != nil {
		return value.Absent(), fmt.Errorf("operation %s: %w", n.Name, err)
	}
	return out, nil
}
