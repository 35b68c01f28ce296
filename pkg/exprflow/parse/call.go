package parse

import (
	"fmt"
	"strings"

	"github.com/sysmuse/exprflow/pkg/exprflow/catalog"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// callParser is a recursive-descent parser for the call-style grammar:
//
//	Primary := '(' Primary ')'
//	         | Identifier '(' (Primary (',' Primary)*)? ')'
//	         | Identifier
//	         | StringLiteral | NumberLiteral
//
// An identifier followed by '(' is resolved in the catalog; a bare
// identifier is a context lookup.
type callParser struct {
	src string
	pos int
	cat *catalog.Catalog
}

// compileCall parses call-style expression text into a tree.
func compileCall(text string, cat *catalog.Catalog) (Node, error) {
	p := &callParser{src: strings.TrimSpace(text), cat: cat}
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos < len(p.src) {
		return nil, &ParseError{Pos: p.pos, Msg: fmt.Sprintf("unexpected input %q after expression", p.src[p.pos:])}
	}
	return node, nil
}

func (p *callParser) parsePrimary() (Node, error) {
	p.skipWhitespace()

	if p.pos >= len(p.src) {
		return nil, &ParseError{Pos: p.pos, Msg: "expected expression", Err: ErrUnexpectedEnd}
	}

	if p.peek(`"`) {
		return p.parseStringLiteral()
	}

	if digit(p.current()) || (p.peek("-") && p.pos+1 < len(p.src) && digit(p.src[p.pos+1])) {
		return p.parseNumberLiteral()
	}

	if p.match("(") {
		inner, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.match(")") {
			return nil, &ParseError{Pos: p.pos, Msg: "expected ')'", Err: ErrUnexpectedEnd}
		}
		return inner, nil
	}

	start := p.pos
	ident, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()

	if !p.match("(") {
		// Bare identifier: context lookup.
		return &VariableRef{Name: ident}, nil
	}

	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	op, ok := p.cat.Resolve(ident)
	if !ok {
		return nil, &ParseError{Pos: start, Msg: fmt.Sprintf("unknown function: %s", ident), Err: ErrUnknownIdentifier}
	}
	min, max := len(op.Params()), len(op.Params())
	if opt, ok := op.(catalog.OptionalParams); ok {
		min = opt.RequiredParams()
	}
	if len(args) < min || len(args) > max {
		msg := fmt.Sprintf("%s expects %d args, got %d", ident, max, len(args))
		if min != max {
			msg = fmt.Sprintf("%s expects %d to %d args, got %d", ident, min, max, len(args))
		}
		return nil, &ParseError{Pos: start, Msg: msg, Err: ErrArgCount}
	}
	return &Call{Name: ident, Op: op, Args: args}, nil
}

// parseArgs parses the argument list after an already-consumed '('.
func (p *callParser) parseArgs() ([]Node, error) {
	var args []Node
	for {
		p.skipWhitespace()
		if p.match(")") {
			return args, nil
		}
		if p.pos >= len(p.src) {
			return nil, &ParseError{Pos: p.pos, Msg: "expected ')'", Err: ErrUnexpectedEnd}
		}
		if len(args) > 0 && !p.match(",") {
			return nil, &ParseError{Pos: p.pos, Msg: "expected ',' between arguments"}
		}
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func (p *callParser) parseStringLiteral() (Node, error) {
	open := p.pos
	p.match(`"`)
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '"' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, &ParseError{Pos: open, Msg: "unterminated string literal", Err: ErrUnterminatedString}
	}
	s := p.src[start:p.pos]
	p.match(`"`)
	return &Literal{Value: value.String(s)}, nil
}

func (p *callParser) parseNumberLiteral() (Node, error) {
	start := p.pos
	if p.peek("-") {
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

func (p *callParser) parseIdentifier() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && identChar(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return "", &ParseError{Pos: p.pos, Msg: fmt.Sprintf("expected identifier at %q", p.src[p.pos:])}
	}
	return p.src[start:p.pos], nil
}

func (p *callParser) skipWhitespace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *callParser) peek(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *callParser) match(s string) bool {
	if p.peek(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *callParser) current() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}
