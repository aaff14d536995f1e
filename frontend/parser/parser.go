// Package parser builds the syntax tree of a Move source file.
//
// Errors are raised as *common.Diagnostic panics deep inside the descent and
// recovered per item, so one broken function does not hide the rest of the
// file from the analyzer.
package parser

import (
	"fmt"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

type diagnostic = common.Diagnostic

type Span = common.Span

var SpanFrom = common.SpanFrom

func errorToDiagnostic(err any) *diagnostic {
	switch err := err.(type) {
	case *diagnostic:
		return err
	default:
		panic(fmt.Errorf("unexpected error: %v", err))
	}
}

type parser struct {
	TokenStream []lexer.Token
	Token       lexer.Token
	Pos         uint32
	diags       []*diagnostic
	// modules after the first of an `address` block
	pending []ast.Definition
}

// Parse lexes and parses one file. It always returns a tree; the
// diagnostics list what had to be skipped.
func Parse(path, code string) (*ast.Ast, []*diagnostic) {
	tree := &ast.Ast{Path: path, Code: code}

	tokens, lexErr := lexer.Lex(code)
	var diags []*diagnostic
	if lexErr != nil {
		span := common.SpanNew(lexErr.Offset, lexErr.Offset+1)
		diags = append(diags, common.ErrorDiag(lexErr.Message, span))
		// parse what we have; the fake EOF stops the descent at the error
		tokens = append(tokens, lexer.NewTokEOF(common.SpanAt(lexErr.Offset)))
	}

	p := &parser{
		TokenStream: tokens,
		Token:       tokens[0],
	}
	for !lexer.IsEOF(p.Token) {
		start := p.Pos
		def, ok := p.recoverDefinition()
		if ok {
			tree.Definitions = append(tree.Definitions, def)
		}
		tree.Definitions = append(tree.Definitions, p.pending...)
		p.pending = nil
		if ok {
			continue
		}
		if p.Pos == start {
			p.advance()
		}
		for !lexer.IsEOF(p.Token) && !p.startsDefinition() {
			p.advance()
		}
	}

	diags = append(diags, p.diags...)
	for _, d := range diags {
		d.Path = path
	}
	return tree, diags
}

func (p *parser) recoverDefinition() (def ast.Definition, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.diags = append(p.diags, errorToDiagnostic(r))
			ok = false
		}
	}()
	return p.parseDefinition(), true
}

// recoverItem parses one item. On failure it records the diagnostic, rewinds
// to the item start and skips to the next token that can begin an item at the
// same nesting level.
func (p *parser) recoverItem(parse func() ast.Item) (item ast.Item) {
	start := p.Pos
	defer func() {
		if r := recover(); r != nil {
			p.diags = append(p.diags, errorToDiagnostic(r))
			item = nil
			p.seek(start)
			p.skipItem()
		}
	}()
	return parse()
}

func (p *parser) skipItem() {
	depth := 0
	first := true
	for !lexer.IsEOF(p.Token) {
		switch {
		case p.Token.Is("{"):
			depth++
		case p.Token.Is("}"):
			if depth == 0 {
				return // closes the enclosing module
			}
			depth--
			if depth == 0 {
				p.advance()
				if p.Token.Is(";") {
					p.advance()
				}
				return
			}
		case depth == 0 && !first && p.startsItem():
			return
		case depth == 0 && p.Token.Is(";"):
			p.advance()
			return
		}
		first = false
		p.advance()
	}
}

func (p *parser) startsDefinition() bool {
	return p.Token.Is("module") || p.Token.Is("spec") || p.isIdent("address")
}

func (p *parser) startsItem() bool {
	switch p.Token.AsString() {
	case "fun", "struct", "public", "native", "const", "use", "friend", "spec", "#":
		return true
	}
	return p.isIdent("entry") || p.isIdent("inline")
}

// advance moves the parser forward by one token.
func (p *parser) advance() {
	p.Pos = min(p.Pos+1, uint32(len(p.TokenStream)-1))
	p.Token = p.TokenStream[p.Pos]
}

func (p *parser) seek(pos uint32) {
	p.Pos = pos
	p.Token = p.TokenStream[pos]
}

func (p *parser) peek() lexer.Token {
	return p.peekOffset(+1)
}

func (p *parser) peekN(n int) lexer.Token {
	return p.peekOffset(n)
}

func (p *parser) isIdent(s string) bool {
	return lexer.IsIdentStr(p.Token, s)
}

func (p *parser) tryConsume(punct string) bool {
	if p.Token.Is(punct) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) tryConsumeIdent(s string) bool {
	if p.isIdent(s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(s string) {
	if !p.tryConsume(s) {
		common.PanicDiag(fmt.Sprintf("expected: %s, got: %s", s, p.Token.String()), p.span())
	}
}

func (p *parser) expectIdentMsgX(msg string, flags Flags) lexer.TokIdent {
	tok := p.Token
	if i, ok := tok.(lexer.TokIdent); ok {
		p.advance()
		return i
	}
	common.PanicDiag(fmt.Sprintf("%s, got: %s", msg, tok.String()), tok.Span())
	panic("unreachable") // love go
}

func (p *parser) expectIdentMsg(msg string) lexer.TokIdent {
	return p.expectIdentMsgX(msg, 0)
}

func (p *parser) expectIdent() lexer.TokIdent {
	return p.expectIdentMsg("expected identifier")
}

// peekOffset returns the token at p.Pos + n, clamped to [0, len-1].
// Negative n looks backwards, positive n looks ahead.
func (p *parser) peekOffset(n int) lexer.Token {
	// compute target index as an int
	idx := int(p.Pos) + n

	// clamp to [0, lastIndex]
	if idx < 0 {
		idx = 0
	} else if idx >= len(p.TokenStream) {
		idx = len(p.TokenStream) - 1
	}

	return p.TokenStream[idx]
}

func (p *parser) spanN(n int) common.Span {
	return p.peekOffset(n).Span()
}

func (p *parser) span() common.Span {
	return p.spanN(0)
}

func (p *parser) prevSpan() common.Span {
	return p.spanN(-1)
}

// speculate runs parse and reports whether it succeeded. On failure the
// position is restored and the diagnostic dropped.
func (p *parser) speculate(parse func()) (ok bool) {
	start := p.Pos
	defer func() {
		if r := recover(); r != nil {
			_ = errorToDiagnostic(r)
			p.seek(start)
			ok = false
		}
	}()
	parse()
	return true
}

func (p *parser) parseCommaSeparatedDelimited(
	closing string,
	parse func(*parser),
) {
	for !p.Token.Is(closing) {
		parse(p)
		if !p.tryConsume(",") {
			break
		}
	}
	p.expect(closing)
}
