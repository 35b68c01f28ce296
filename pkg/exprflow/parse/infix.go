package parse

import (
	"fmt"
	"strings"

	"github.com/sysmuse/exprflow/pkg/exprflow/catalog"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// infixParser is a recursive-descent parser for the infix grammar.
// Precedence, low to high: logical OR, logical AND, comparison,
// additive, multiplicative, primary.
//
// All whitespace is stripped before scanning, so reported positions
// are relative to the stripped text.
type infixParser struct {
	src string
	pos int
	cat *catalog.Catalog
}

// stripWhitespace removes every whitespace character from s.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// compileInfix parses infix expression text into a tree.
func compileInfix(text string, cat *catalog.Catalog) (Node, error) {
	p := &infixParser{src: stripWhitespace(text), cat: cat}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unexpected input %q after expression", p.src[p.pos:])}
	}
	return node, nil
}

func (p *infixParser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.matchAt("||") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left, err = p.binary("||", left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *infixParser) parseAnd() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.matchAt("&&") {
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left, err = p.binary("&&", left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

var comparisonOps = []string{"==", "!=", ">=", "<=", ">", "<"}

func (p *infixParser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny(comparisonOps)
		if !ok {
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left, err = p.binary(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *infixParser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny([]string{"+", "-"})
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left, err = p.binary(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *infixParser) parseMultiplicative() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny([]string{"*", "/", "%"})
		if !ok {
			return left, nil
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left, err = p.binary(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *infixParser) parsePrimary() (Node, error) {
	if p.pos >= len(p.src) {
		return nil, &ParseError{Pos: p.pos, Msg: "expected expression", Err: ErrUnexpectedEnd}
	}

	if p.matchAt("(") {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.matchAt(")") {
			return nil, &ParseError{Pos: p.pos, Msg: "expected ')'", Err: ErrUnexpectedEnd}
		}
		return inner, nil
	}

	if p.matchKeyword("true") {
		return &Literal{Value: value.Bool(true)}, nil
	}
	if p.matchKeyword("false") {
		return &Literal{Value: value.Bool(false)}, nil
	}

	if p.peekAt(`"`) {
		return p.parseStringLiteral()
	}

	if digit(p.current()) || (p.peekAt("-") && p.pos+1 < len(p.src) && digit(p.src[p.pos+1])) {
		return p.parseNumberLiteral()
	}

	return p.parseVariable()
}

func (p *infixParser) parseVariable() (Node, error) {
	start := p.pos
	for p.pos < len(p.src) && identChar(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unexpected character %q", p.src[p.pos])}
	}
	return &VariableRef{Name: p.src[start:p.pos]}, nil
}

func (p *infixParser) parseStringLiteral() (Node, error) {
	open := p.pos
	p.matchAt(`"`)
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '"' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, &ParseError{Pos: open, Msg: "unterminated string literal", Err: ErrUnterminatedString}
	}
	s := p.src[start:p.pos]
	p.matchAt(`"`)
	return &Literal{Value: value.String(s)}, nil
}

func (p *infixParser) parseNumberLiteral() (Node, error) {
	start := p.pos
	if p.peekAt("-") {
		p.pos++
	}
	for p.pos < len(p.src) && (digit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	v, err := parseNumber(p.src[start:p.pos], start)
	if err != nil {
		return nil, err
	}
	return &Literal{Value: v}, nil
}

// binary builds a Call for a binary operator token. The operator must
// resolve to a catalog entry with exactly two declared parameters; the
// operand results bind to those parameter names in order.
func (p *infixParser) binary(symbol string, left, right Node) (Node, error) {
	op, ok := p.cat.Resolve(symbol)
	if !ok {
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unknown operator: %s", symbol), Err: ErrUnknownOperator}
	}
	if len(op.Params()) != 2 {
		return nil, &ParseError{
			Pos: p.pos,
			Msg: fmt.Sprintf("operator %s requires a two-parameter operation, got %d", symbol, len(op.Params())),
			Err: ErrArgCount,
		}
	}
	return &Call{Name: symbol, Op: op, Args: []Node{left, right}}, nil
}

// matchKeyword matches a literal keyword only when it is not followed
// by an identifier character, so trueFlag parses as a variable.
func (p *infixParser) matchKeyword(kw string) bool {
	if !p.peekAt(kw) {
		return false
	}
	end := p.pos + len(kw)
	if end < len(p.src) && identChar(p.src[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *infixParser) matchAny(ops []string) (string, bool) {
	for _, op := range ops {
		if p.matchAt(op) {
			return op, true
		}
	}
	return "", false
}

func (p *infixParser) peekAt(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *infixParser) matchAt(s string) bool {
	if p.peekAt(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *infixParser) current() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}
