package parser

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

// conditionKeywords are the spec members that carry a condition expression.
var conditionKeywords = map[string]bool{
	"requires":    true,
	"ensures":     true,
	"aborts_if":   true,
	"aborts_with": true,
	"modifies":    true,
	"invariant":   true,
	"assert":      true,
	"assume":      true,
	"decreases":   true,
	"emits":       true,
	"axiom":       true,
	"succeeds_if": true,
}

// parseSpecItem parses a module-level `spec`: `spec module {}`,
// `spec schema S {}`, `spec fun f() {}` or `spec target {}`.
func (p *parser) parseSpecItem() ast.Item {
	p.skipAttributes()
	spanStart := p.span()
	p.expect("spec")

	switch {
	case p.Token.Is("module"):
		p.advance()
		members := p.parseSpecMembers()
		return ast.NewSpecBlock(ast.SpecTargetModule, nil, members, SpanFrom(spanStart, p.prevSpan()))
	case p.isIdent("schema"):
		p.advance()
		name := p.expectIdentMsg("expected schema name")
		p.parseTypeParams()
		members := p.parseSpecMembers()
		return ast.NewSpecBlock(ast.SpecTargetSchema, &name, members, SpanFrom(spanStart, p.prevSpan()))
	case p.Token.Is("fun"), p.Token.Is("native"):
		fun := p.parseSpecFun()
		fun.SetSpan(SpanFrom(spanStart, fun.Span()))
		return fun
	}

	p.tryConsume("fun")
	p.tryConsume("struct")
	name := p.expectIdentMsg("expected spec target")
	// signatures repeated on the target are ignored
	p.parseTypeParams()
	if p.Token.Is("(") {
		p.skipBalanced("(", ")")
		if p.tryConsume(":") {
			p.parseType()
		}
	}
	members := p.parseSpecMembers()
	return ast.NewSpecBlock(ast.SpecTargetMember, &name, members, SpanFrom(spanStart, p.prevSpan()))
}

func (p *parser) parseSpecFun() *ast.SpecFun {
	spanStart := p.span()
	fun := &ast.SpecFun{Native: p.tryConsume("native")}
	p.expect("fun")
	fun.Name = p.expectIdentMsg("expected function name")
	fun.TypeParams = p.parseTypeParams()
	fun.Params = p.parseParams()
	if p.tryConsume(":") {
		fun.Result = p.parseType()
	}
	if p.Token.Is("{") {
		fun.Body = p.parseBlock(FlagSpec)
	} else {
		fun.Native = true
		p.expect(";")
	}
	fun.SetSpan(SpanFrom(spanStart, p.prevSpan()))
	return fun
}

// parseSpecMembers parses `{ member* }`. A broken member is reported and
// skipped up to its `;`.
func (p *parser) parseSpecMembers() []ast.SpecMember {
	p.expect("{")
	var members []ast.SpecMember
	for !p.Token.Is("}") {
		if lexer.IsEOF(p.Token) {
			common.PanicDiag("unexpected end of file, expected `}`", p.span())
		}
		if m := p.recoverSpecMember(); m != nil {
			members = append(members, m)
		}
	}
	p.expect("}")
	return members
}

func (p *parser) recoverSpecMember() (member ast.SpecMember) {
	start := p.Pos
	defer func() {
		if r := recover(); r != nil {
			p.diags = append(p.diags, errorToDiagnostic(r))
			member = nil
			p.seek(start)
			p.skipSpecMember()
		}
	}()
	return p.parseSpecMember()
}

func (p *parser) skipSpecMember() {
	depth := 0
	for !lexer.IsEOF(p.Token) {
		switch {
		case p.Token.Is("{"), p.Token.Is("("), p.Token.Is("["):
			depth++
		case p.Token.Is("}"), p.Token.Is(")"), p.Token.Is("]"):
			if depth == 0 {
				return
			}
			depth--
		case depth == 0 && p.Token.Is(";"):
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *parser) parseSpecMember() ast.SpecMember {
	p.skipAttributes()
	spanStart := p.span()
	tok := p.Token

	if p.Token.Is("fun") || p.Token.Is("native") {
		return p.parseSpecFun()
	}

	if p.Token.Is("let") {
		p.advance()
		post := p.tryConsumeIdent("post")
		name := p.expectIdentMsg("expected name")
		p.expect("=")
		value := p.parseExpr(FlagSpec)
		p.expect(";")
		return ast.NewSpecLet(post, name, value, SpanFrom(spanStart, p.prevSpan()))
	}

	var keyword string
	switch t := tok.(type) {
	case lexer.TokIdent:
		keyword = t.Raw
	case lexer.TokKeyword:
		keyword = t.AsString()
	default:
		common.PanicDiag("expected spec member, got: "+tok.String(), tok.Span())
	}

	if !conditionKeywords[keyword] {
		p.advance()
		p.skipSpecMember()
		return ast.NewSpecOther(keyword, SpanFrom(spanStart, p.prevSpan()))
	}
	p.advance()

	if keyword == "invariant" {
		for _, k := range []string{"update", "pack", "unpack", "module"} {
			if p.isIdent(k) || p.Token.Is(k) {
				p.advance()
				break
			}
		}
		p.parseTypeParams()
	}
	if p.Token.Is("[") {
		p.skipBalanced("[", "]")
	}

	exp := p.parseExpr(FlagSpec)
	var additional []ast.Expr
	switch keyword {
	case "aborts_if":
		if p.tryConsumeIdent("with") {
			additional = append(additional, p.parseExpr(FlagSpec))
		}
	case "emits":
		if p.tryConsumeIdent("to") {
			additional = append(additional, p.parseExpr(FlagSpec))
		}
		if p.tryConsume("if") {
			additional = append(additional, p.parseExpr(FlagSpec))
		}
	case "aborts_with", "modifies":
		for p.tryConsume(",") {
			additional = append(additional, p.parseExpr(FlagSpec))
		}
	}
	p.expect(";")
	return ast.NewSpecCondition(keyword, exp, additional, SpanFrom(spanStart, p.prevSpan()))
}
