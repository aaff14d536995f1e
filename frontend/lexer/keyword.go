package lexer

import "github.com/movebit/move-analyzer/common"

// Keyword represents a reserved keyword.
// Spec-language words such as `ensures` or `aborts_if` are contextual and lex as identifiers.
type Keyword int

const (
	_ Keyword = iota
	KwAbort
	KwAcquires
	KwAs
	KwBreak
	KwConst
	KwContinue
	KwCopy
	KwElse
	KwFalse
	KwFriend
	KwFun
	KwIf
	KwInvariant
	KwLet
	KwLoop
	KwModule
	KwMove
	KwNative
	KwPublic
	KwReturn
	KwScript
	KwSpec
	KwStruct
	KwTrue
	KwUse
	KwWhile
)

// table is populated at compile-time; no code runs in init().
var keywordTable = map[string]Keyword{
	"abort":     KwAbort,
	"acquires":  KwAcquires,
	"as":        KwAs,
	"break":     KwBreak,
	"const":     KwConst,
	"continue":  KwContinue,
	"copy":      KwCopy,
	"else":      KwElse,
	"false":     KwFalse,
	"friend":    KwFriend,
	"fun":       KwFun,
	"if":        KwIf,
	"invariant": KwInvariant,
	"let":       KwLet,
	"loop":      KwLoop,
	"module":    KwModule,
	"move":      KwMove,
	"native":    KwNative,
	"public":    KwPublic,
	"return":    KwReturn,
	"script":    KwScript,
	"spec":      KwSpec,
	"struct":    KwStruct,
	"true":      KwTrue,
	"use":       KwUse,
	"while":     KwWhile,
}

var keywordNames = func() []string {
	// find the largest enum value so the slice is the right length
	var max Keyword
	for _, kw := range keywordTable {
		if kw > max {
			max = kw
		}
	}
	names := make([]string, max+1)
	for lit, kw := range keywordTable {
		names[kw] = lit
	}
	return names
}()

func lookupKeyword(lit string) (Keyword, bool) {
	kw, ok := keywordTable[lit]
	return kw, ok
}

type TokKeyword struct {
	Keyword Keyword
	span    common.Span
}

func (t TokKeyword) isToken() {}

func (t TokKeyword) Span() common.Span {
	return t.span
}

func (t TokKeyword) String() string {
	return keywordNames[t.Keyword]
}

func (t TokKeyword) Is(other string) bool {
	return keywordTable[other] == t.Keyword
}

func (t TokKeyword) AsString() string {
	return t.String()
}

func newTokKeyword(k Keyword, span common.Span) TokKeyword {
	return TokKeyword{Keyword: k, span: span}
}
