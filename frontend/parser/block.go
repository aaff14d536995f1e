package parser

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

func (p *parser) parseBlock(flags Flags) *ast.Block {
	spanStart := p.span()
	p.expect("{")

	var stmts []ast.Stmt
	var final *ast.Expr
	for !p.Token.Is("}") {
		if lexer.IsEOF(p.Token) {
			common.PanicDiag("unexpected end of file, expected `}`", p.span())
		}
		if p.Token.Is(";") {
			p.advance()
			continue
		}
		if p.Token.Is("let") {
			stmts = append(stmts, p.parseLet(flags))
			continue
		}

		e := p.parseExpr(flags)
		switch {
		case p.tryConsume(";"):
			stmts = append(stmts, ast.NewStmtExpr(e, true, SpanFrom(e.Span(), p.prevSpan())))
		case p.Token.Is("}"):
			final = &e
		case isBlockLike(e):
			stmts = append(stmts, ast.NewStmtExpr(e, false, e.Span()))
		default:
			common.PanicDiag("expected `;` or `}`, got: "+p.Token.String(), p.span())
		}
	}
	p.expect("}")
	return ast.NewBlock(stmts, final, SpanFrom(spanStart, p.prevSpan()))
}

// isBlockLike reports whether e ends in a block and may stand as a statement
// without a trailing `;`.
func isBlockLike(e ast.Expr) bool {
	switch e.Kind() {
	case ast.ExprKindBlock, ast.ExprKindIf, ast.ExprKindWhile, ast.ExprKindLoop, ast.ExprKindSpecBlock:
		return true
	}
	return false
}

func (p *parser) parseLet(flags Flags) *ast.Let {
	spanStart := p.span()
	p.advance() // skip `let`

	bind := p.parseBind()
	var ty ast.Type
	if p.tryConsume(":") {
		ty = p.parseType()
	}
	var value *ast.Expr
	if p.tryConsume("=") {
		v := p.parseExpr(flags)
		value = &v
	}
	p.expect(";")
	return ast.NewLet(bind, ty, value, SpanFrom(spanStart, p.prevSpan()))
}

// parseBind parses `x`, `mut x`, `(a, b)` or `S { f: x, g, .. }`.
func (p *parser) parseBind() ast.Bind {
	spanStart := p.span()
	if p.Token.Is("(") {
		p.advance()
		var elems []ast.Bind
		p.parseCommaSeparatedDelimited(")", func(p *parser) {
			elems = append(elems, p.parseBind())
		})
		return ast.NewBindTuple(elems, SpanFrom(spanStart, p.prevSpan()))
	}

	if p.isIdent("mut") && lexer.IsIdent(p.peek()) {
		p.advance()
	}

	next := p.peek()
	if _, isNum := p.Token.(lexer.TokNumber); isNum || next.Is("{") || next.Is("::") || next.Is("<") {
		path := p.parseTypePath()
		p.expect("{")
		var fields []ast.BindField
		rest := false
		p.parseCommaSeparatedDelimited("}", func(p *parser) {
			if p.tryConsume("..") {
				rest = true
				return
			}
			name := p.expectIdentMsg("expected field name")
			if p.tryConsume(":") {
				fields = append(fields, ast.BindField{Name: name, Bind: p.parseBind()})
				return
			}
			fields = append(fields, ast.BindField{Name: name, Bind: ast.NewBindVar(name), Shorthand: true})
		})
		return ast.NewBindUnpack(path, fields, rest, SpanFrom(spanStart, p.prevSpan()))
	}

	name := p.expectIdentMsg("expected binding")
	return ast.NewBindVar(name)
}
