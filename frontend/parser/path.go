package parser

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

// parsePathPart accepts an identifier, or a number when it is the leading
// segment of a qualified path.
func (p *parser) parsePathPart(leading bool) ast.PathPart {
	switch t := p.Token.(type) {
	case lexer.TokIdent:
		p.advance()
		return ast.NewPathPart(t.Raw, t.Span())
	case lexer.TokNumber:
		if leading && p.peek().Is("::") {
			p.advance()
			return ast.NewPathPart(t.Raw, t.Span())
		}
	}
	common.PanicDiag("expected name, got: "+p.Token.String(), p.span())
	panic("unreachable")
}

// parseNamePath parses `a::b::c` without type arguments.
func (p *parser) parseNamePath() ast.Path {
	parts := []ast.PathPart{p.parsePathPart(true)}
	for p.Token.Is("::") && lexer.IsIdent(p.peek()) {
		p.advance()
		parts = append(parts, p.parsePathPart(false))
	}
	return ast.NewPath(parts, nil)
}

// parseTypePath parses a path in type position, where `<` always opens type
// arguments.
func (p *parser) parseTypePath() ast.Path {
	path := p.parseNamePath()
	if p.Token.Is("<") {
		p.advance()
		path.TypeArgs = p.parseTypeArgs()
	}
	return path
}

// parseExprPath parses a path in expression position. A `<` after the name
// is only taken as type arguments when the whole list parses and is followed
// by something a generic name can be followed by.
func (p *parser) parseExprPath() ast.Path {
	path := p.parseNamePath()
	if !p.Token.Is("<") {
		return path
	}
	var args []ast.Type
	ok := p.speculate(func() {
		p.advance()
		args = p.parseTypeArgs()
		switch p.Token.AsString() {
		case "(", "{", "[", "::":
		default:
			common.PanicDiag("not type arguments", p.span())
		}
	})
	if ok {
		path.TypeArgs = args
	}
	return path
}

// parseTypeArgs parses the rest of `<T1, T2>` after the opening `<`.
func (p *parser) parseTypeArgs() []ast.Type {
	var args []ast.Type
	p.parseCommaSeparatedDelimited(">", func(p *parser) {
		args = append(args, p.parseType())
	})
	return args
}
