package references

import (
	"slices"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

// The model only spans whole declarations and expressions. The helpers in
// this file recover finer spans (a parameter's type, a return type, a field
// label) by re-lexing the source of a coarse span. Spans they return are
// relative to the text they were given.
//
// A fragment that stops lexing midway is treated as if it ended there: the
// helpers work with the tokens produced so far and report whatever they
// could recover.

// depthTracker follows bracket nesting across a token stream. Angle brackets
// are only counted when types is set: in expressions `<` and `>` are
// comparisons and never balance.
type depthTracker struct {
	depth int
	types bool
}

// step updates the depth for tok and reports the depth before it.
func (d *depthTracker) step(tok lexer.Token) int {
	before := d.depth
	switch {
	case isOpen(tok, d.types):
		d.depth++
	case isClose(tok, d.types):
		if d.depth > 0 {
			d.depth--
		}
	}
	return before
}

func isOpen(tok lexer.Token, angles bool) bool {
	return lexer.IsPunct(tok, lexer.PunctOpenParen) ||
		lexer.IsPunct(tok, lexer.PunctOpenBrace) ||
		lexer.IsPunct(tok, lexer.PunctOpenBracket) ||
		angles && lexer.IsPunct(tok, lexer.PunctLessThan)
}

func isClose(tok lexer.Token, angles bool) bool {
	return lexer.IsPunct(tok, lexer.PunctCloseParen) ||
		lexer.IsPunct(tok, lexer.PunctCloseBrace) ||
		lexer.IsPunct(tok, lexer.PunctCloseBracket) ||
		angles && lexer.IsPunct(tok, lexer.PunctGreaterThan)
}

func identRaw(tok lexer.Token) (string, bool) {
	id, ok := tok.(lexer.TokIdent)
	if !ok {
		return "", false
	}
	return id.Raw, true
}

// paramTypeEnd finds where a parameter's type annotation ends. text starts
// right after the parameter name and runs to the end of the function. The
// scan stops at the next parameter (a second colon, or a comma outside any
// brackets), at the close of the parameter list, or at a brace following a
// close paren. ok is false when none of those was reached.
func paramTypeEnd(text string) (end uint32, ok bool) {
	var (
		colons    int
		sawRParen bool
		dt        = depthTracker{types: true}
	)
	for tok := range lexer.Relex(text) {
		depth := dt.step(tok)
		switch {
		case lexer.IsPunct(tok, lexer.PunctColon):
			colons++
			if colons > 1 {
				return lexer.Start(tok), true
			}
		case depth == 0 && lexer.IsPunct(tok, lexer.PunctComma):
			return lexer.Start(tok), true
		case depth == 0 && lexer.IsPunct(tok, lexer.PunctCloseParen):
			return lexer.Start(tok), true
		case lexer.IsPunct(tok, lexer.PunctCloseParen):
			sawRParen = true
		case lexer.IsPunct(tok, lexer.PunctOpenBrace):
			if sawRParen {
				return lexer.Start(tok), true
			}
		}
		end = tok.Span().End
	}
	return end, false
}

// signature holds the pieces of a function header the model does not span.
type signature struct {
	name      common.Span
	hasName   bool
	ret       common.Span
	hasReturn bool
}

// scanSignature re-lexes a whole function declaration. The return type runs
// from the colon after the parameter list up to the access clauses or the
// body, whichever comes first.
func scanSignature(text string) signature {
	var (
		sig         signature
		sawFun      bool
		paramsOpen  bool
		paramsDone  bool
		parenDepth  int
		returnStart uint32
		inReturn    bool
		dt          = depthTracker{types: true}
	)
	for tok := range lexer.Relex(text) {
		depth := dt.step(tok)
		switch {
		case !sawFun:
			sawFun = lexer.IsKeyword(tok, lexer.KwFun)
		case !sig.hasName:
			if _, ok := identRaw(tok); ok {
				sig.name, sig.hasName = tok.Span(), true
			}
		case !paramsDone:
			if lexer.IsPunct(tok, lexer.PunctOpenParen) {
				paramsOpen = true
				parenDepth++
			} else if paramsOpen && lexer.IsPunct(tok, lexer.PunctCloseParen) {
				parenDepth--
				paramsDone = parenDepth == 0
			}
		case !inReturn && !sig.hasReturn:
			if !lexer.IsPunct(tok, lexer.PunctColon) {
				return sig
			}
			returnStart, inReturn = lexer.Start(tok), true
		case inReturn && depth == 0 && endsReturnType(tok):
			sig.ret = common.SpanNew(returnStart, lexer.Start(tok))
			sig.hasReturn = true
			return sig
		}
	}
	return sig
}

func endsReturnType(tok lexer.Token) bool {
	if lexer.IsKeyword(tok, lexer.KwAcquires) ||
		lexer.IsPunct(tok, lexer.PunctOpenBrace) ||
		lexer.IsPunct(tok, lexer.PunctSemicolon) {
		return true
	}
	raw, ok := identRaw(tok)
	return ok && (raw == "reads" || raw == "writes")
}

// declName is the name after the `fun` keyword of a function or
// specification function declaration.
func declName(text string) (common.Span, bool) {
	sawFun := false
	for tok := range lexer.Relex(text) {
		if sawFun {
			if _, ok := identRaw(tok); ok {
				return tok.Span(), true
			}
			return common.Span{}, false
		}
		sawFun = lexer.IsKeyword(tok, lexer.KwFun)
	}
	return common.Span{}, false
}

// fieldTypeEnd finds where a field's type ends. text starts right after the
// field name and runs to the end of the struct; the type ends at the next
// comma or at the closing brace, outside any nested brackets.
func fieldTypeEnd(text string) (end uint32, ok bool) {
	dt := depthTracker{types: true}
	for tok := range lexer.Relex(text) {
		depth := dt.step(tok)
		if depth == 0 && (lexer.IsPunct(tok, lexer.PunctComma) || lexer.IsPunct(tok, lexer.PunctCloseBrace)) {
			return lexer.Start(tok), true
		}
		end = tok.Span().End
	}
	return end, false
}

// label is a field name written inside a struct literal or pattern, either
// as `name: value` or in shorthand form.
type label struct {
	name string
	span common.Span
}

// structBody scans `Path<..> { f: e, g, .. }`. brace is the offset of the
// opening brace; labels are the field labels directly inside it, in source
// order. Labels of nested literals are not included. The values are
// expressions, so angle brackets are not treated as nesting.
func structBody(text string) (brace uint32, labels []label, ok bool) {
	toks := slices.Collect(lexer.Relex(text))
	open := slices.IndexFunc(toks, func(t lexer.Token) bool {
		return lexer.IsPunct(t, lexer.PunctOpenBrace)
	})
	if open < 0 {
		return 0, nil, false
	}
	brace = lexer.Start(toks[open])

	var dt depthTracker
	for i := open + 1; i < len(toks); i++ {
		tok := toks[i]
		if dt.step(tok) != 0 {
			continue
		}
		if lexer.IsPunct(tok, lexer.PunctCloseBrace) {
			break
		}
		raw, isIdent := identRaw(tok)
		if !isIdent || i+1 >= len(toks) {
			continue
		}
		next, prev := toks[i+1], toks[i-1]
		switch {
		case lexer.IsPunct(next, lexer.PunctColon):
		case (lexer.IsPunct(prev, lexer.PunctOpenBrace) || lexer.IsPunct(prev, lexer.PunctComma)) &&
			(lexer.IsPunct(next, lexer.PunctComma) || lexer.IsPunct(next, lexer.PunctCloseBrace)):
		default:
			continue
		}
		labels = append(labels, label{name: raw, span: tok.Span()})
	}
	return brace, labels, true
}

// identSpans lists every identifier token spelled name, in order.
func identSpans(text, name string) []common.Span {
	var out []common.Span
	for tok := range lexer.Relex(text) {
		if raw, ok := identRaw(tok); ok && raw == name {
			out = append(out, tok.Span())
		}
	}
	return out
}

// identAt is the identifier touching off, if any.
func identAt(text string, off uint32) (string, common.Span, bool) {
	for tok := range lexer.Relex(text) {
		if tok.Span().Start > off {
			break
		}
		if raw, ok := identRaw(tok); ok && tok.Span().Covers(off) {
			return raw, tok.Span(), true
		}
	}
	return "", common.Span{}, false
}

// lastIdent is the final identifier of text, the field name of a select.
func lastIdent(text string) (common.Span, bool) {
	var (
		span  common.Span
		found bool
	)
	for tok := range lexer.Relex(text) {
		if _, ok := identRaw(tok); ok {
			span, found = tok.Span(), true
		}
	}
	return span, found
}
