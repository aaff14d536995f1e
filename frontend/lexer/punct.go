package lexer

import "github.com/movebit/move-analyzer/common"

// Punct represents a punctuation token.
type Punct int

const (
	_ Punct = iota

	// PunctPlus is `+`
	PunctPlus
	// PunctMinus is `-`
	PunctMinus
	// PunctAsterisk is `*`
	PunctAsterisk
	// PunctSlash is `/`
	PunctSlash
	// PunctPercent is `%`
	PunctPercent
	// PunctEqual is `=`
	PunctEqual
	// PunctEqualEqual is `==`
	PunctEqualEqual
	// PunctNotEqual is `!=`
	PunctNotEqual
	// PunctLessThan is `<`
	PunctLessThan
	// PunctLessThanEqual is `<=`
	PunctLessThanEqual
	// PunctGreaterThan is `>`
	PunctGreaterThan
	// PunctGreaterThanEqual is `>=`
	PunctGreaterThanEqual
	// PunctImplies is `==>`
	PunctImplies
	// PunctIff is `<==>`
	PunctIff
	// PunctFatArrow is `=>`
	PunctFatArrow
	// PunctCaret is `^`
	PunctCaret
	// PunctDotDot is `..`
	PunctDotDot
	// PunctHash is `#`
	PunctHash
	// PunctBang is `!`
	PunctBang
	// PunctAndAnd is `&&`
	PunctAndAnd
	// PunctOrOr is `||`
	PunctOrOr
	// PunctSemicolon is `;`
	PunctSemicolon
	// PunctColon is `:`
	PunctColon
	// PunctDoubleColon is `::`
	PunctDoubleColon
	// PunctComma is `,`
	PunctComma
	// PunctOpenParen is `(`
	PunctOpenParen
	// PunctCloseParen is `)`
	PunctCloseParen
	// PunctOpenBrace is `{`
	PunctOpenBrace
	// PunctCloseBrace is `}`
	PunctCloseBrace
	// PunctOpenBracket is `[`
	PunctOpenBracket
	// PunctCloseBracket is `]`
	PunctCloseBracket
	// PunctDot is `.`
	PunctDot
	// PunctPipe is `|`
	PunctPipe
	// PunctAmpersand is `&`
	PunctAmpersand
	// PunctAmpMut is `&mut`
	PunctAmpMut
	// PunctAt is `@`
	PunctAt
)

var puncts = map[string]Punct{
	"+":    PunctPlus,
	"-":    PunctMinus,
	"*":    PunctAsterisk,
	"/":    PunctSlash,
	"%":    PunctPercent,
	"==":   PunctEqualEqual,
	"!=":   PunctNotEqual,
	"<":    PunctLessThan,
	"<=":   PunctLessThanEqual,
	">":    PunctGreaterThan,
	">=":   PunctGreaterThanEqual,
	"==>":  PunctImplies,
	"<==>": PunctIff,
	"=>":   PunctFatArrow,
	"=":    PunctEqual,
	"^":    PunctCaret,
	"..":   PunctDotDot,
	"#":    PunctHash,
	"!":    PunctBang,
	"&&":   PunctAndAnd,
	"||":   PunctOrOr,
	";":    PunctSemicolon,
	":":    PunctColon,
	"::":   PunctDoubleColon,
	",":    PunctComma,
	"(":    PunctOpenParen,
	")":    PunctCloseParen,
	"{":    PunctOpenBrace,
	"}":    PunctCloseBrace,
	"[":    PunctOpenBracket,
	"]":    PunctCloseBracket,
	".":    PunctDot,
	"|":    PunctPipe,
	"&":    PunctAmpersand,
	"&mut": PunctAmpMut,
	"@":    PunctAt,
}

// longestPunct is the byte length of the longest entry in puncts.
const longestPunct = 4

var punctNames = func() []string {
	// find the largest enum value so the slice is the right length
	var max Punct
	for _, p := range puncts {
		if p > max {
			max = p
		}
	}
	names := make([]string, max+1)
	for lit, p := range puncts {
		names[p] = lit
	}
	return names
}()

type TokPunct struct {
	Punct Punct
	span  common.Span
}

func (t TokPunct) isToken() {}

func (t TokPunct) Span() common.Span {
	return t.span
}

func (t TokPunct) String() string {
	return punctNames[t.Punct]
}

func (t TokPunct) Is(other string) bool {
	return puncts[other] == t.Punct
}

func (t TokPunct) AsString() string {
	return t.String()
}

func newTokPunct(p Punct, span common.Span) TokPunct {
	return TokPunct{Punct: p, span: span}
}

/* Lexing */

// punct scans the longest punctuation starting at the current character.
// `&mut` only counts as one token when `mut` is not the prefix of a longer identifier.
// Shifts are not tokens: `>>` would close two type argument lists, so the
// parser joins adjacent `<` or `>` itself.
func (lx *lexer) punct() Token {
	rest := lx.code[lx.offset:]
	for n := min(longestPunct, len(rest)); n > 0; n-- {
		p, ok := puncts[rest[:n]]
		if !ok {
			continue
		}
		if p == PunctAmpMut && n < len(rest) && isIdentContinue(rune(rest[n])) {
			continue
		}
		for range n {
			lx.advance()
		}
		return newTokPunct(p, lx.currentSpan())
	}
	return nil
}
