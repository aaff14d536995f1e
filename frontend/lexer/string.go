package lexer

import (
	"github.com/movebit/move-analyzer/common"
)

// TokByteString is a `b"..."` or `x"..."` literal. Raw keeps the source text
// including prefix and quotes; escapes are not decoded.
type TokByteString struct {
	Raw  string
	Hex  bool
	span common.Span
}

func (t TokByteString) isToken() {}

func (t TokByteString) Span() common.Span {
	return t.span
}

func (t TokByteString) String() string {
	return t.Raw
}

func (t TokByteString) Is(_ string) bool {
	return false
}

func (t TokByteString) AsString() string {
	return ""
}

/* Lexing */

func (lx *lexer) byteString() (Token, *Error) {
	if !(isChr(lx.curChr, 'b') || isChr(lx.curChr, 'x')) || !isChr(lx.peek(), '"') {
		return nil, nil
	}
	hex := *lx.curChr == 'x'
	lx.advance() // prefix
	lx.advance() // opening quote

	for {
		if lx.curChr == nil {
			return nil, lx.error("unterminated byte string literal")
		}
		switch *lx.curChr {
		case '"':
			lx.advance()
			span := lx.currentSpan()
			return TokByteString{Raw: lx.code[span.Start:span.End], Hex: hex, span: span}, nil
		case '\\':
			if hex {
				return nil, lx.error("escape sequence in hex string")
			}
			lx.advance()
			if lx.curChr == nil {
				return nil, lx.error("unterminated byte string literal")
			}
			lx.advance()
		default:
			if hex && !isHexDigit(lx.curChr) {
				return nil, lx.error("invalid character in hex string")
			}
			lx.advance()
		}
	}
}
