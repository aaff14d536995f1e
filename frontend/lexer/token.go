package lexer

import (
	"github.com/movebit/move-analyzer/common"
)

// Token is one lexeme of Move source. Spans are byte offsets relative to
// the start of the text handed to the lexer.
type Token interface {
	isToken()
	Span() common.Span
	String() string
	Is(string) bool
	// AsString used for keywords and punctuations, to make it easier to switch on tokens for them
	AsString() string
}

// Start is the byte offset where t begins.
func Start(t Token) uint32 {
	return t.Span().Start
}

func IsPunct(t Token, p Punct) bool {
	if tp, ok := t.(TokPunct); ok {
		return tp.Punct == p
	}
	return false
}

func IsKeyword(t Token, k Keyword) bool {
	if tk, ok := t.(TokKeyword); ok {
		return tk.Keyword == k
	}
	return false
}
