package lexer

/* Lexing */

// Comments are skipped rather than returned as tokens; nothing downstream
// needs them and relexing stays cheaper without them.

func (lx *lexer) comment() {
	lx.advance() // skip '/'
	lx.advance() // skip '/'
	for c := lx.curChr; c != nil && *c != '\n'; c = lx.curChr {
		lx.advance()
	}
}

func (lx *lexer) multilineComment() *Error {
	lx.advance() // skip '/'
	lx.advance() // skip '*'
	for {
		if lx.curChr == nil {
			return lx.error("unterminated block comment")
		}
		if *lx.curChr == '*' && isChr(lx.peek(), '/') {
			lx.advance()
			lx.advance()
			return nil
		}
		lx.advance()
	}
}
