package parser

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

const castPrecedence = 12

// binaryOp reports the operator at the cursor, its precedence and how many
// tokens it spans. Shifts are two adjacent `<`/`>` tokens.
func (p *parser) binaryOp() (op string, prec int, width int) {
	tok := p.Token
	t, ok := tok.(lexer.TokPunct)
	if !ok {
		return "", -1, 0
	}
	switch t.Punct {
	case lexer.PunctIff:
		return "<==>", 0, 1
	case lexer.PunctImplies:
		return "==>", 1, 1
	case lexer.PunctOrOr:
		return "||", 2, 1
	case lexer.PunctAndAnd:
		return "&&", 3, 1
	case lexer.PunctEqualEqual, lexer.PunctNotEqual, lexer.PunctLessThanEqual, lexer.PunctGreaterThanEqual:
		return t.AsString(), 4, 1
	case lexer.PunctLessThan, lexer.PunctGreaterThan:
		next := p.peek()
		if next.Is(t.AsString()) && tok.Span().Adjacent(next.Span()) {
			return t.AsString() + t.AsString(), 9, 2
		}
		return t.AsString(), 4, 1
	case lexer.PunctDotDot:
		return "..", 5, 1
	case lexer.PunctPipe:
		return "|", 6, 1
	case lexer.PunctCaret:
		return "^", 7, 1
	case lexer.PunctAmpersand:
		return "&", 8, 1
	case lexer.PunctPlus, lexer.PunctMinus:
		return t.AsString(), 10, 1
	case lexer.PunctAsterisk, lexer.PunctSlash, lexer.PunctPercent:
		return t.AsString(), 11, 1
	}
	return "", -1, 0
}

// parseExpr parses an expression including assignment, which binds loosest.
func (p *parser) parseExpr(flags Flags) ast.Expr {
	lhs := p.parseBinary(0, flags)
	if p.Token.Is("=") {
		p.advance()
		rhs := p.parseExpr(flags)
		span := SpanFrom(lhs.Span(), rhs.Span())
		return ast.NewExpr(ast.NewExprAssign(lhs, rhs, span))
	}
	return lhs
}

func (p *parser) parseBinary(minPrec int, flags Flags) ast.Expr {
	left := p.parseUnary(flags)
	for {
		if p.Token.Is("as") {
			if castPrecedence < minPrec {
				return left
			}
			p.advance()
			ty := p.parseType()
			left = ast.NewExpr(ast.NewExprCast(left, ty, SpanFrom(left.Span(), ty.Span())))
			continue
		}

		op, prec, width := p.binaryOp()
		if prec < 0 || prec < minPrec {
			return left
		}
		for range width {
			p.advance()
		}
		// implications associate to the right
		next := prec + 1
		if op == "==>" {
			next = prec
		}
		right := p.parseBinary(next, flags)
		left = ast.NewExpr(ast.NewExprBinary(op, left, right, SpanFrom(left.Span(), right.Span())))
	}
}

func (p *parser) parseUnary(flags Flags) ast.Expr {
	spanStart := p.span()
	switch {
	case p.Token.Is("!"), p.Token.Is("-"):
		op := p.Token.AsString()
		p.advance()
		inner := p.parseUnary(flags)
		return ast.NewExpr(ast.NewExprUnary(op, inner, SpanFrom(spanStart, inner.Span())))
	case p.Token.Is("&"), p.Token.Is("&mut"):
		mut := p.Token.Is("&mut")
		p.advance()
		inner := p.parseUnary(flags)
		return ast.NewExpr(ast.NewExprBorrow(mut, inner, SpanFrom(spanStart, inner.Span())))
	case p.Token.Is("*"):
		p.advance()
		inner := p.parseUnary(flags)
		return ast.NewExpr(ast.NewExprDeref(inner, SpanFrom(spanStart, inner.Span())))
	case p.Token.Is("move"), p.Token.Is("copy"):
		isCopy := p.Token.Is("copy")
		p.advance()
		inner := p.parseUnary(flags)
		return ast.NewExpr(ast.NewExprMoveCopy(isCopy, inner, SpanFrom(spanStart, inner.Span())))
	}
	return p.parsePostfix(p.parsePrimary(flags), flags)
}

func (p *parser) parsePostfix(e ast.Expr, flags Flags) ast.Expr {
	for {
		switch {
		case p.Token.Is("."):
			p.advance()
			field := p.expectIdentMsg("expected field or method name")
			if p.Token.Is("(") || p.Token.Is("<") && p.isReceiverTypeArgs() {
				// receiver call, the receiver becomes the first argument
				path := ast.NewPath([]ast.PathPart{ast.NewPathPart(field.Raw, field.Span())}, nil)
				if p.tryConsume("<") {
					path.TypeArgs = p.parseTypeArgs()
				}
				args := p.parseArgs(flags)
				args = append([]ast.Expr{e}, args...)
				e = ast.NewExpr(ast.NewExprCall(path, false, args, SpanFrom(e.Span(), p.prevSpan())))
				continue
			}
			e = ast.NewExpr(ast.NewExprDot(e, field, SpanFrom(e.Span(), field.Span())))
		case p.Token.Is("["):
			p.advance()
			index := p.parseExpr(flags.Clear(FlagNoPack))
			p.expect("]")
			e = ast.NewExpr(ast.NewExprIndex(e, index, SpanFrom(e.Span(), p.prevSpan())))
		default:
			return e
		}
	}
}

func (p *parser) isReceiverTypeArgs() bool {
	start := p.Pos
	ok := p.speculate(func() {
		p.advance()
		p.parseTypeArgs()
		if !p.Token.Is("(") {
			common.PanicDiag("not a call", p.span())
		}
	})
	p.seek(start)
	return ok
}

// parseArgs parses `(a, b, c)`.
func (p *parser) parseArgs(flags Flags) []ast.Expr {
	p.expect("(")
	var args []ast.Expr
	p.parseCommaSeparatedDelimited(")", func(p *parser) {
		args = append(args, p.parseExpr(flags.Clear(FlagNoPack)))
	})
	return args
}

func (p *parser) parsePrimary(flags Flags) ast.Expr {
	spanStart := p.span()
	tok := p.Token

	switch t := tok.(type) {
	case lexer.TokNumber:
		if !p.peek().Is("::") {
			p.advance()
			return ast.NewExpr(ast.NewExprValue(ast.ValueNumber, t.Raw, t.Span()))
		}
		return p.parseNameExpr(flags)
	case lexer.TokByteString:
		p.advance()
		return ast.NewExpr(ast.NewExprValue(ast.ValueByteString, t.Raw, t.Span()))
	case lexer.TokIdent:
		return p.parseIdentExpr(flags)
	}

	switch {
	case p.Token.Is("true"), p.Token.Is("false"):
		p.advance()
		return ast.NewExpr(ast.NewExprValue(ast.ValueBool, tok.AsString(), tok.Span()))
	case p.Token.Is("@"):
		p.advance()
		addr := p.Token
		if _, ok := addr.(lexer.TokNumber); !ok && !lexer.IsIdent(addr) {
			common.PanicDiag("expected address after `@`", addr.Span())
		}
		p.advance()
		raw := addr.String()
		if n, ok := addr.(lexer.TokNumber); ok {
			raw = n.Raw
		}
		return ast.NewExpr(ast.NewExprValue(ast.ValueAddress, raw, SpanFrom(spanStart, addr.Span())))
	case p.Token.Is("("):
		return p.parseParenExpr(flags)
	case p.Token.Is("{"):
		return ast.NewExpr(p.parseBlock(flags.Clear(FlagNoPack)))
	case p.Token.Is("if"):
		p.advance()
		p.expect("(")
		cond := p.parseExpr(flags.Clear(FlagNoPack))
		p.expect(")")
		then := p.parseExpr(flags)
		var els *ast.Expr
		if p.tryConsume("else") {
			e := p.parseExpr(flags)
			els = &e
		}
		return ast.NewExpr(ast.NewExprIf(cond, then, els, SpanFrom(spanStart, p.prevSpan())))
	case p.Token.Is("while"):
		p.advance()
		p.expect("(")
		cond := p.parseExpr(flags.Clear(FlagNoPack))
		p.expect(")")
		body := p.parseExpr(flags)
		return ast.NewExpr(ast.NewExprWhile(cond, body, SpanFrom(spanStart, p.prevSpan())))
	case p.Token.Is("loop"):
		p.advance()
		body := p.parseExpr(flags)
		return ast.NewExpr(ast.NewExprLoop(body, SpanFrom(spanStart, p.prevSpan())))
	case p.Token.Is("return"):
		p.advance()
		var value *ast.Expr
		if p.startsExpr() {
			e := p.parseExpr(flags)
			value = &e
		}
		return ast.NewExpr(ast.NewExprReturn(value, SpanFrom(spanStart, p.prevSpan())))
	case p.Token.Is("abort"):
		p.advance()
		code := p.parseExpr(flags)
		return ast.NewExpr(ast.NewExprAbort(code, SpanFrom(spanStart, code.Span())))
	case p.Token.Is("break"), p.Token.Is("continue"):
		p.advance()
		return ast.NewExpr(ast.NewExprLoopCont(tok.Is("continue"), tok.Span()))
	case p.Token.Is("spec") && p.peek().Is("{"):
		p.advance()
		members := p.parseSpecMembers()
		return ast.NewExpr(ast.NewExprSpecBlock(members, SpanFrom(spanStart, p.prevSpan())))
	}

	common.PanicDiag("expected expression, got: "+tok.String(), tok.Span())
	panic("unreachable")
}

// startsExpr reports whether the current token can begin an expression, used
// after `return`.
func (p *parser) startsExpr() bool {
	if lexer.IsEOF(p.Token) {
		return false
	}
	switch p.Token.AsString() {
	case ";", "}", ")", ",", "]", "else":
		return false
	}
	return true
}

func (p *parser) parseParenExpr(flags Flags) ast.Expr {
	spanStart := p.span()
	p.advance() // skip `(`
	var elems []ast.Expr
	trailing := false
	for !p.Token.Is(")") {
		elems = append(elems, p.parseExpr(flags.Clear(FlagNoPack)))
		trailing = p.tryConsume(",")
		if !trailing {
			break
		}
	}
	p.expect(")")
	if len(elems) == 1 && !trailing {
		return elems[0]
	}
	return ast.NewExpr(ast.NewExprTuple(elems, SpanFrom(spanStart, p.prevSpan())))
}

func (p *parser) parseIdentExpr(flags Flags) ast.Expr {
	spanStart := p.span()

	// quantifiers: `forall x: T, y in r where p: body`
	if flags.Has(FlagSpec) && (p.isIdent("forall") || p.isIdent("exists")) && lexer.IsIdent(p.peek()) &&
		(p.peekN(2).Is(":") || lexer.IsIdentStr(p.peekN(2), "in")) {
		return p.parseQuant(flags)
	}

	// vector literals: `vector[a, b]`, `vector<T>[]`
	if p.isIdent("vector") && (p.peek().Is("[") || p.peek().Is("<")) {
		start := p.Pos
		p.advance()
		var typeArgs []ast.Type
		if p.tryConsume("<") {
			typeArgs = p.parseTypeArgs()
		}
		if p.Token.Is("[") {
			p.advance()
			var elems []ast.Expr
			p.parseCommaSeparatedDelimited("]", func(p *parser) {
				elems = append(elems, p.parseExpr(flags.Clear(FlagNoPack)))
			})
			return ast.NewExpr(ast.NewExprVector(typeArgs, elems, SpanFrom(spanStart, p.prevSpan())))
		}
		p.seek(start)
	}

	return p.parseNameExpr(flags)
}

// parseNameExpr parses a name, a call, a macro call or a pack.
func (p *parser) parseNameExpr(flags Flags) ast.Expr {
	spanStart := p.span()
	path := p.parseExprPath()

	switch {
	case p.Token.Is("!") && p.peek().Is("("):
		p.advance()
		args := p.parseArgs(flags)
		return ast.NewExpr(ast.NewExprCall(path, true, args, SpanFrom(spanStart, p.prevSpan())))
	case p.Token.Is("("):
		args := p.parseArgs(flags)
		return ast.NewExpr(ast.NewExprCall(path, false, args, SpanFrom(spanStart, p.prevSpan())))
	case p.Token.Is("{") && !flags.Has(FlagNoPack) && p.looksLikePack():
		return p.parsePack(path, flags)
	}
	return ast.NewExpr(ast.NewExprName(path))
}

// looksLikePack tells `S { f: x }` and `S {}` apart from a name followed by a
// block.
func (p *parser) looksLikePack() bool {
	next := p.peek()
	if next.Is("}") {
		return true
	}
	if !lexer.IsIdent(next) {
		return false
	}
	after := p.peekN(2)
	return after.Is(":") || after.Is(",") || after.Is("}")
}

func (p *parser) parsePack(path ast.Path, flags Flags) ast.Expr {
	p.expect("{")
	var fields []ast.PackField
	p.parseCommaSeparatedDelimited("}", func(p *parser) {
		name := p.expectIdentMsg("expected field name")
		field := ast.PackField{Name: name}
		if p.tryConsume(":") {
			value := p.parseExpr(flags.Clear(FlagNoPack))
			field.Value = &value
		}
		fields = append(fields, field)
	})
	return ast.NewExpr(ast.NewExprPack(path, fields, SpanFrom(path.Span(), p.prevSpan())))
}

func (p *parser) parseQuant(flags Flags) ast.Expr {
	spanStart := p.span()
	exists := p.isIdent("exists")
	p.advance()

	var binds []ast.QuantBind
	for {
		bind := ast.QuantBind{Name: p.expectIdentMsg("expected quantified variable")}
		if p.tryConsume(":") {
			bind.Type = p.parseType()
		} else {
			p.tryConsumeIdent("in")
			r := p.parseBinary(0, flags)
			bind.Range = &r
		}
		binds = append(binds, bind)
		if !p.tryConsume(",") {
			break
		}
	}

	var where *ast.Expr
	if p.tryConsumeIdent("where") {
		w := p.parseBinary(0, flags)
		where = &w
	}
	p.expect(":")
	body := p.parseExpr(flags)
	return ast.NewExpr(ast.NewExprQuant(exists, binds, where, body, SpanFrom(spanStart, body.Span())))
}
