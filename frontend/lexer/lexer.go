package lexer

import (
	"fmt"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/lexer/peekable"
)

// Error is a lexical error at a byte offset of the scanned text.
type Error struct {
	Offset  uint32
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Offset, e.Message)
}

// lexer is a hand-rolled, rune-based scanner.
type lexer struct {
	code        string
	chars       *peekable.Chars
	curChr      *rune
	offset      uint32 // byte offset of curChr
	savedOffset uint32 // byte offset where the current token starts
}

// Lex tokenizes code. On a lexical error it returns the tokens scanned so far
// together with the error; the trailing TokEOF is only present on success.
func Lex(code string) ([]Token, *Error) {
	var tokens []Token
	lx := newLexer(code)
	for {
		tok, err := lx.nextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if _, ok := tok.(TokEOF); ok {
			break
		}
	}
	return tokens, nil
}

// newLexer returns a fresh lexer initialised with code.
func newLexer(code string) *lexer {
	chars := peekable.NewPeekableChars(code)
	lx := &lexer{
		code:  code,
		chars: chars,
	}
	lx.offset = uint32(chars.Pos())
	lx.curChr = chars.Next()
	return lx
}

func (lx *lexer) currentSpan() common.Span {
	return common.SpanNew(lx.savedOffset, lx.offset)
}

func (lx *lexer) advance() {
	lx.offset = uint32(lx.chars.Pos())
	lx.curChr = lx.chars.Next()
}

func (lx *lexer) peek() *rune {
	return lx.chars.Peek()
}

func (lx *lexer) error(msg string) *Error {
	return &Error{Offset: lx.savedOffset, Message: msg}
}

// skipWs skips whitespaces to the next non-whitespace character.
func (lx *lexer) skipWs() {
	for isWsChr(lx.curChr) {
		lx.advance() // skip
	}
	lx.savedOffset = lx.offset
}

func (lx *lexer) nextToken() (Token, *Error) {
	lx.skipWs() // skip whitespaces

	c := lx.curChr

	// EOF
	if c == nil {
		return TokEOF{span: common.SpanAt(lx.offset)}, nil
	}

	// Comment
	if *c == '/' {
		if pC := lx.peek(); pC != nil {
			switch *pC {
			case '/':
				lx.comment()
				return lx.nextToken()
			case '*':
				if err := lx.multilineComment(); err != nil {
					return nil, err
				}
				return lx.nextToken()
			}
		}
	}

	// Byte string, before identifiers since `b` and `x` are valid identifiers
	if token, err := lx.byteString(); err != nil {
		return nil, err
	} else if token != nil {
		return token, nil
	}

	// Number
	if token, err := lx.number(); err != nil {
		return nil, err
	} else if token != nil {
		return token, nil
	}

	// Punctuation
	if token := lx.punct(); token != nil {
		return token, nil
	}

	// Identifier
	identTok, err := lx.identifier()
	if err != nil {
		return nil, err
	}

	// Keyword
	if keyword, ok := lookupKeyword(identTok.(TokIdent).Raw); ok {
		return newTokKeyword(keyword, identTok.Span()), nil
	}

	return identTok, nil
}

func isChr(c *rune, e rune) bool {
	return c != nil && *c == e
}

func isWsChr(c *rune) bool {
	if c == nil {
		return false
	}
	switch *c {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
