package parser

import (
	"github.com/movebit/move-analyzer/frontend/ast"
)

func (p *parser) parseType() ast.Type {
	spanStart := p.span()
	switch {
	case p.Token.Is("&"), p.Token.Is("&mut"):
		mut := p.Token.Is("&mut")
		p.advance()
		inner := p.parseType()
		return ast.NewTypeRef(mut, inner, SpanFrom(spanStart, inner.Span()))
	case p.Token.Is("("):
		p.advance()
		var elems []ast.Type
		trailing := false
		for !p.Token.Is(")") {
			elems = append(elems, p.parseType())
			trailing = p.tryConsume(",")
			if !trailing {
				break
			}
		}
		p.expect(")")
		if len(elems) == 1 && !trailing {
			return elems[0]
		}
		return ast.NewTypeTuple(elems, SpanFrom(spanStart, p.prevSpan()))
	case p.Token.Is("|"), p.Token.Is("||"):
		var params []ast.Type
		if !p.tryConsume("||") {
			p.advance()
			p.parseCommaSeparatedDelimited("|", func(p *parser) {
				params = append(params, p.parseType())
			})
		}
		var result ast.Type
		if !p.Token.Is(",") && !p.Token.Is(")") && !p.Token.Is(">") && !p.Token.Is(";") && !p.Token.Is("{") {
			result = p.parseType()
		}
		end := p.prevSpan()
		return ast.NewTypeFun(params, result, SpanFrom(spanStart, end))
	}
	path := p.parseTypePath()
	return ast.NewTypeApply(path)
}
