package lexer

import "iter"

// Relex lazily yields the tokens of a source fragment, without the trailing
// TokEOF. Iteration ends at the end of the fragment or at the first lexical
// error; tokens before the error are still produced. Every range over the
// result starts a fresh scan.
func Relex(code string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		lx := newLexer(code)
		for {
			tok, err := lx.nextToken()
			if err != nil || IsEOF(tok) {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}
