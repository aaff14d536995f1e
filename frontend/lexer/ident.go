package lexer

import (
	"fmt"

	"github.com/movebit/move-analyzer/common"
)

type TokIdent struct {
	Raw  string
	span common.Span
}

func (t TokIdent) isToken() {}

func (t TokIdent) Span() common.Span {
	return t.span
}

func (t TokIdent) String() string {
	return t.Raw
}

func (t TokIdent) Is(_ string) bool {
	return false
}

func (t TokIdent) AsString() string {
	return ""
}

func NewTokIdent(s string, span common.Span) TokIdent {
	return TokIdent{Raw: s, span: span}
}

func IsIdentStr(t Token, s string) bool {
	if ident, ok := t.(TokIdent); ok {
		return ident.Raw == s
	}
	return false
}

/* Lexing */

func (lx *lexer) identifier() (Token, *Error) {
	if !isIdentStart(*lx.curChr) {
		return nil, lx.error(fmt.Sprintf("unexpected character: %c", *lx.curChr))
	}

	lx.advance()
	for c := lx.curChr; c != nil && isIdentContinue(*c); c = lx.curChr {
		lx.advance()
	}

	span := lx.currentSpan()
	return NewTokIdent(lx.code[span.Start:span.End], span), nil
}

// Move identifiers are ASCII only.
func isIdentStart(r rune) bool {
	return ('A' <= r && r <= 'Z') || ('a' <= r && r <= 'z') || r == '_'
}

func isIdentContinue(r rune) bool {
	// Digits are allowed after the first rune.
	if '0' <= r && r <= '9' {
		return true
	}
	// Otherwise the same rules as the first rune.
	return isIdentStart(r)
}

func IsValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
		} else {
			if !isIdentContinue(r) {
				return false
			}
		}
	}
	return true
}
