package parser

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

// parseDefinition parses `module a::m { }`, `address a { module m { } }`
// (returned as its first module, the rest are queued) or `spec a::m { }`.
func (p *parser) parseDefinition() ast.Definition {
	p.skipAttributes()
	switch {
	case p.Token.Is("module"):
		return p.parseModule(nil)
	case p.Token.Is("spec"):
		return p.parseModuleSpec()
	case p.isIdent("address"):
		return p.parseAddressBlock()
	default:
		common.PanicDiag("expected `module`, `spec` or `address`, got: "+p.Token.String(), p.span())
	}
	panic("unreachable")
}

// parseAddressBlock parses `address a { module m { } ... }`. The first module
// is returned, the others are queued on p.pending.
func (p *parser) parseAddressBlock() ast.Definition {
	p.advance() // skip `address`
	addr := p.parseAddressPart()
	p.expect("{")
	var first ast.Definition
	for !p.Token.Is("}") && !lexer.IsEOF(p.Token) {
		p.skipAttributes()
		m := p.parseModule(&addr)
		if first == nil {
			first = m
		} else {
			p.pending = append(p.pending, m)
		}
	}
	p.expect("}")
	if first == nil {
		common.PanicDiag("empty address block", addr.Span())
	}
	return first
}

func (p *parser) parseAddressPart() ast.PathPart {
	tok := p.Token
	switch t := tok.(type) {
	case lexer.TokNumber:
		p.advance()
		return ast.NewPathPart(t.Raw, t.Span())
	case lexer.TokIdent:
		p.advance()
		return ast.NewPathPart(t.Raw, t.Span())
	}
	common.PanicDiag("expected address, got: "+tok.String(), tok.Span())
	panic("unreachable")
}

func (p *parser) parseModule(addr *ast.PathPart) *ast.Module {
	spanStart := p.span()
	p.expect("module")

	var address ast.PathPart
	var name lexer.TokIdent
	if addr != nil && !p.peek().Is("::") {
		address = *addr
		name = p.expectIdentMsg("expected module name")
	} else {
		address = p.parseAddressPart()
		p.expect("::")
		name = p.expectIdentMsg("expected module name")
	}

	items := p.parseItems(false)
	span := SpanFrom(spanStart, p.prevSpan())
	return ast.NewModule(address, name, items, span)
}

func (p *parser) parseModuleSpec() *ast.ModuleSpec {
	spanStart := p.span()
	p.expect("spec")
	address := p.parseAddressPart()
	p.expect("::")
	name := p.expectIdentMsg("expected module name")
	items := p.parseItems(true)
	span := SpanFrom(spanStart, p.prevSpan())
	return ast.NewModuleSpec(address, name, items, span)
}

// parseItems parses `{ item* }`.
func (p *parser) parseItems(specOnly bool) []ast.Item {
	p.expect("{")
	var items []ast.Item
	for !p.Token.Is("}") {
		if lexer.IsEOF(p.Token) {
			common.PanicDiag("unexpected end of file, expected `}`", p.span())
		}
		item := p.recoverItem(func() ast.Item {
			if specOnly && !p.Token.Is("use") {
				return p.parseSpecItem()
			}
			return p.parseItem()
		})
		if item != nil {
			items = append(items, item)
		}
	}
	p.expect("}")
	return items
}

func (p *parser) skipAttributes() {
	for p.Token.Is("#") && p.peek().Is("[") {
		p.advance() // skip `#`
		p.skipBalanced("[", "]")
	}
}

// skipBalanced skips from an opening delimiter to its matching close.
func (p *parser) skipBalanced(open, close string) {
	spanStart := p.span()
	p.expect(open)
	depth := 1
	for depth > 0 {
		if lexer.IsEOF(p.Token) {
			common.PanicDiag("unbalanced "+open, spanStart)
		}
		if p.Token.Is(open) {
			depth++
		} else if p.Token.Is(close) {
			depth--
		}
		p.advance()
	}
}

func (p *parser) parseItem() ast.Item {
	p.skipAttributes()
	spanStart := p.span()

	switch {
	case p.Token.Is("use"):
		return p.parseUse()
	case p.Token.Is("friend"):
		return p.parseFriend()
	case p.Token.Is("const"):
		return p.parseConst()
	case p.Token.Is("spec"):
		return p.parseSpecItem()
	}

	visibility := ast.VisibilityPrivate
	entry, native, inline := false, false, false
	for {
		switch {
		case p.Token.Is("public"):
			p.advance()
			visibility = ast.VisibilityPublic
			if p.Token.Is("(") {
				p.advance()
				switch {
				case p.Token.Is("friend"):
					visibility = ast.VisibilityFriend
				case p.isIdent("package"):
					visibility = ast.VisibilityPackage
				case p.Token.Is("script"):
				default:
					common.PanicDiag("expected `friend`, `package` or `script`", p.span())
				}
				p.advance()
				p.expect(")")
			}
			continue
		case p.isIdent("package") && p.peek().Is("fun"):
			p.advance()
			visibility = ast.VisibilityPackage
			continue
		case p.isIdent("entry"):
			p.advance()
			entry = true
			continue
		case p.isIdent("inline"):
			p.advance()
			inline = true
			continue
		case p.Token.Is("native"):
			p.advance()
			native = true
			continue
		}
		break
	}

	switch {
	case p.Token.Is("fun"):
		fun := p.parseFunction(native)
		fun.Visibility = visibility
		fun.Entry = entry
		fun.Inline = inline
		fun.SetSpan(SpanFrom(spanStart, fun.Span()))
		return fun
	case p.Token.Is("struct"):
		return p.parseStruct(spanStart, native)
	default:
		common.PanicDiag("expected item, got: "+p.Token.String(), p.span())
	}
	panic("unreachable")
}

func (p *parser) parseUse() ast.Item {
	spanStart := p.span()
	p.advance() // skip `use`

	address := p.parseAddressPart()
	p.expect("::")
	module := p.expectIdentMsg("expected module name")

	var alias *ast.Ident
	var members []ast.UseMember
	switch {
	case p.tryConsume("as"):
		a := p.expectIdent()
		alias = &a
	case p.tryConsume("::"):
		if p.tryConsume("{") {
			p.parseCommaSeparatedDelimited("}", func(p *parser) {
				members = append(members, p.parseUseMember())
			})
		} else {
			members = append(members, p.parseUseMember())
		}
	}
	p.expect(";")
	span := SpanFrom(spanStart, p.prevSpan())
	return ast.NewUse(address, module, alias, members, span)
}

func (p *parser) parseUseMember() ast.UseMember {
	name := p.expectIdentMsg("expected use member")
	member := ast.UseMember{Name: name}
	if p.tryConsume("as") {
		a := p.expectIdent()
		member.Alias = &a
	}
	return member
}

func (p *parser) parseFriend() ast.Item {
	spanStart := p.span()
	p.advance() // skip `friend`
	path := p.parseNamePath()
	p.expect(";")
	return ast.NewFriend(path, SpanFrom(spanStart, p.prevSpan()))
}

func (p *parser) parseConst() ast.Item {
	spanStart := p.span()
	p.advance() // skip `const`
	name := p.expectIdentMsg("expected constant name")
	p.expect(":")
	ty := p.parseType()
	p.expect("=")
	value := p.parseExpr(0)
	p.expect(";")
	return ast.NewConst(name, ty, value, SpanFrom(spanStart, p.prevSpan()))
}

func (p *parser) parseStruct(spanStart common.Span, native bool) ast.Item {
	p.advance() // skip `struct`
	name := p.expectIdentMsg("expected struct name")
	typeParams := p.parseTypeParams()

	var abilities []ast.Ident
	if p.tryConsumeIdent("has") {
		abilities = p.parseAbilities()
	}

	var fields []ast.StructField
	if native {
		p.expect(";")
	} else {
		p.expect("{")
		p.parseCommaSeparatedDelimited("}", func(p *parser) {
			fname := p.expectIdentMsg("expected field name")
			p.expect(":")
			fields = append(fields, ast.StructField{Name: fname, Type: p.parseType()})
		})
		// Move 2 postfix abilities: `struct S { } has key;`
		if p.tryConsumeIdent("has") {
			abilities = append(abilities, p.parseAbilities()...)
			p.expect(";")
		}
	}

	span := SpanFrom(spanStart, p.prevSpan())
	return ast.NewStruct(name, native, typeParams, abilities, fields, span)
}

// parseAbilities parses `copy, drop, store` after `has`; `copy` is a keyword.
func (p *parser) parseAbilities() []ast.Ident {
	var out []ast.Ident
	for {
		tok := p.Token
		switch t := tok.(type) {
		case lexer.TokIdent:
			out = append(out, t)
		case lexer.TokKeyword:
			out = append(out, lexer.NewTokIdent(t.String(), t.Span()))
		default:
			common.PanicDiag("expected ability", tok.Span())
		}
		p.advance()
		if !p.tryConsume(",") && !p.tryConsume("+") {
			return out
		}
	}
}

// parseTypeParams parses an optional `<T: copy + drop, phantom U>`.
func (p *parser) parseTypeParams() []ast.TypeParam {
	if !p.Token.Is("<") {
		return nil
	}
	p.advance()
	var out []ast.TypeParam
	p.parseCommaSeparatedDelimited(">", func(p *parser) {
		tp := ast.TypeParam{Phantom: p.tryConsumeIdent("phantom")}
		tp.Name = p.expectIdentMsg("expected type parameter")
		if p.tryConsume(":") {
			tp.Abilities = p.parseAbilities()
		}
		out = append(out, tp)
	})
	return out
}

func (p *parser) parseParams() []ast.Param {
	p.expect("(")
	var params []ast.Param
	p.parseCommaSeparatedDelimited(")", func(p *parser) {
		p.tryConsumeIdent("mut")
		name := p.expectIdentMsg("expected parameter name")
		p.expect(":")
		params = append(params, ast.Param{Name: name, Type: p.parseType()})
	})
	return params
}

func (p *parser) parseFunction(native bool) *ast.Function {
	spanStart := p.span()
	p.advance() // skip `fun`

	fun := &ast.Function{Native: native}
	fun.Name = p.expectIdentMsg("expected function name")
	fun.TypeParams = p.parseTypeParams()
	fun.Params = p.parseParams()
	if p.tryConsume(":") {
		fun.Result = p.parseType()
	}
	fun.Access = p.parseAccessClauses()

	if native || p.Token.Is(";") {
		fun.Native = true
		p.expect(";")
	} else {
		body := p.parseBlock(0)
		fun.Body = body
	}
	fun.SetSpan(SpanFrom(spanStart, p.prevSpan()))
	return fun
}

func (p *parser) parseAccessClauses() []ast.AccessClause {
	var out []ast.AccessClause
	for {
		var kind ast.AccessKind
		switch {
		case p.Token.Is("acquires"):
			kind = ast.AccessAcquires
		case p.isIdent("reads"):
			kind = ast.AccessReads
		case p.isIdent("writes"):
			kind = ast.AccessWrites
		default:
			return out
		}
		p.advance()
		for {
			out = append(out, ast.AccessClause{Kind: kind, Resource: p.parseTypePath()})
			if !p.tryConsume(",") {
				break
			}
		}
	}
}
