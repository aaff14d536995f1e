package lexer

import (
	"github.com/movebit/move-analyzer/common"
)

// TokNumber is a decimal or hex literal, including any `u8`..`u256` suffix
// and `_` separators.
type TokNumber struct {
	Raw  string
	span common.Span
}

func (t TokNumber) isToken() {}

func (t TokNumber) Span() common.Span {
	return t.span
}

func (t TokNumber) String() string {
	return t.Raw
}

func (t TokNumber) Is(_ string) bool {
	return false
}

func (t TokNumber) AsString() string {
	return ""
}

/* Lexing */

func (lx *lexer) number() (Token, *Error) {
	if !isDigit(lx.curChr) {
		return nil, nil
	}

	if isChr(lx.curChr, '0') && (isChr(lx.peek(), 'x') || isChr(lx.peek(), 'X')) {
		lx.advance() // 0
		lx.advance() // x
		if !isHexDigit(lx.curChr) {
			return nil, lx.error("malformed hexadecimal number")
		}
		for isHexDigit(lx.curChr) || isChr(lx.curChr, '_') {
			lx.advance()
		}
	} else {
		for isDigit(lx.curChr) || isChr(lx.curChr, '_') {
			lx.advance()
		}
	}

	// type suffix, e.g. 1u64
	for c := lx.curChr; c != nil && isIdentContinue(*c); c = lx.curChr {
		lx.advance()
	}

	span := lx.currentSpan()
	return TokNumber{Raw: lx.code[span.Start:span.End], span: span}, nil
}

func isDigit(c *rune) bool {
	return c != nil && '0' <= *c && *c <= '9'
}

func isHexDigit(c *rune) bool {
	if c == nil {
		return false
	}
	r := *c
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
