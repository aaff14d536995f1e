// Package format re-indents Move source by delimiter depth.
//
// Lines are re-indented from the tokens they start with, trailing whitespace
// is dropped and runs of blank lines collapse to one. Lines starting inside a
// byte string or a block comment are left where they are.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

type Result struct {
	Text string
	// Overlong lists the 0-based lines of Text wider than MaxWidth.
	Overlong []uint32
}

type lineKind uint8

const (
	lineCode lineKind = iota
	lineComment
	lineInString
	lineInComment
)

type lineInfo struct {
	kind  lineKind
	depth int
	cont  bool
}

// Format formats text. It fails when text does not lex or its delimiters
// do not balance.
func Format(text string, cfg frontend.FmtConfig) (Result, error) {
	tokens, lexErr := lexer.Lex(text)
	if lexErr != nil {
		return Result{}, fmt.Errorf("format: %w", lexErr)
	}
	if n := len(tokens); n > 0 && lexer.IsEOF(tokens[n-1]) {
		tokens = tokens[:n-1]
	}

	lines := strings.Split(text, "\n")
	infos, err := classify(text, lines, tokens)
	if err != nil {
		return Result{}, err
	}

	indent := strings.Repeat(" ", int(cfg.IndentSize))
	out := make([]string, 0, len(lines))
	blank := true
	for i, line := range lines {
		info := infos[i]
		switch info.kind {
		case lineInString:
			out = append(out, line)
			blank = false
			continue
		case lineInComment:
			out = append(out, strings.TrimRight(line, " \t\r"))
			blank = false
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		depth := info.depth
		if info.cont {
			depth++
		}
		out = append(out, strings.Repeat(indent, depth)+trimmed)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	var res Result
	for i, line := range out {
		if utf8.RuneCountInString(line) > int(cfg.MaxWidth) {
			res.Overlong = append(res.Overlong, uint32(i))
		}
	}
	if len(out) > 0 {
		res.Text = strings.Join(out, "\n") + "\n"
	}
	return res, nil
}

// classify walks the tokens alongside the lines and records, per line, what
// it starts with and the delimiter depth there.
func classify(text string, lines []string, tokens []lexer.Token) ([]lineInfo, error) {
	comments := blockComments(text, tokens)
	infos := make([]lineInfo, len(lines))

	var (
		stack common.Stack[lexer.Punct]
		prev  lexer.Token
		ti    int
		start uint32
	)
	for i, line := range lines {
		end := start + uint32(len(line))

		for ti < len(tokens) && tokens[ti].Span().End <= start {
			if err := track(&stack, tokens[ti]); err != nil {
				return nil, err
			}
			prev = tokens[ti]
			ti++
		}

		switch {
		case ti < len(tokens) && tokens[ti].Span().Start < start:
			infos[i] = lineInfo{kind: lineInString}
		case inAny(comments, start):
			infos[i] = lineInfo{kind: lineInComment}
		case ti < len(tokens) && tokens[ti].Span().Start < end:
			tok := tokens[ti]
			depth := stack.Len()
			if closes(tok) && depth > 0 {
				depth--
			}
			infos[i] = lineInfo{kind: lineCode, depth: depth, cont: continues(prev, tok)}
		default:
			infos[i] = lineInfo{kind: lineComment, depth: stack.Len()}
		}
		start = end + 1
	}

	for ; ti < len(tokens); ti++ {
		if err := track(&stack, tokens[ti]); err != nil {
			return nil, err
		}
	}
	if !stack.Empty() {
		return nil, fmt.Errorf("format: %d unclosed delimiters", stack.Len())
	}
	return infos, nil
}

var pairs = map[lexer.Punct]lexer.Punct{
	lexer.PunctCloseParen:   lexer.PunctOpenParen,
	lexer.PunctCloseBrace:   lexer.PunctOpenBrace,
	lexer.PunctCloseBracket: lexer.PunctOpenBracket,
}

func track(stack *common.Stack[lexer.Punct], tok lexer.Token) error {
	p, ok := tok.(lexer.TokPunct)
	if !ok {
		return nil
	}
	switch p.Punct {
	case lexer.PunctOpenParen, lexer.PunctOpenBrace, lexer.PunctOpenBracket:
		stack.Push(p.Punct)
	case lexer.PunctCloseParen, lexer.PunctCloseBrace, lexer.PunctCloseBracket:
		open, ok := stack.Pop()
		if !ok || open != pairs[p.Punct] {
			return fmt.Errorf("format: unbalanced %s at offset %d", p.AsString(), p.Span().Start)
		}
	}
	return nil
}

func closes(tok lexer.Token) bool {
	p, ok := tok.(lexer.TokPunct)
	if !ok {
		return false
	}
	_, ok = pairs[p.Punct]
	return ok
}

// Operators that leave an expression open at the end of a line.
var trailingOps = map[lexer.Punct]bool{
	lexer.PunctEqual:            true,
	lexer.PunctPlus:             true,
	lexer.PunctMinus:            true,
	lexer.PunctAsterisk:         true,
	lexer.PunctSlash:            true,
	lexer.PunctPercent:          true,
	lexer.PunctEqualEqual:       true,
	lexer.PunctNotEqual:         true,
	lexer.PunctLessThanEqual:    true,
	lexer.PunctGreaterThanEqual: true,
	lexer.PunctAndAnd:           true,
	lexer.PunctOrOr:             true,
	lexer.PunctImplies:          true,
	lexer.PunctIff:              true,
	lexer.PunctPipe:             true,
	lexer.PunctCaret:            true,
	lexer.PunctDot:              true,
}

// Operators that continue the previous line when they lead.
var leadingOps = map[lexer.Punct]bool{
	lexer.PunctAndAnd:     true,
	lexer.PunctOrOr:       true,
	lexer.PunctImplies:    true,
	lexer.PunctIff:        true,
	lexer.PunctEqualEqual: true,
	lexer.PunctNotEqual:   true,
	lexer.PunctDot:        true,
}

// continues reports whether tok carries on the expression prev left open.
func continues(prev, tok lexer.Token) bool {
	if p, ok := prev.(lexer.TokPunct); ok && trailingOps[p.Punct] {
		return true
	}
	if p, ok := tok.(lexer.TokPunct); ok && leadingOps[p.Punct] {
		return prev != nil
	}
	return false
}

// blockComments finds the block comments in the gaps between tokens.
func blockComments(text string, tokens []lexer.Token) []common.Span {
	var out []common.Span
	scan := func(from, to uint32) {
		gap := text[from:to]
		for i := 0; i+1 < len(gap); {
			switch gap[i : i+2] {
			case "//":
				nl := strings.IndexByte(gap[i:], '\n')
				if nl < 0 {
					return
				}
				i += nl + 1
			case "/*":
				e := strings.Index(gap[i+2:], "*/")
				if e < 0 {
					return
				}
				out = append(out, common.SpanNew(from+uint32(i), from+uint32(i+2+e+2)))
				i += 2 + e + 2
			default:
				i++
			}
		}
	}
	var last uint32
	for _, tok := range tokens {
		scan(last, tok.Span().Start)
		last = tok.Span().End
	}
	scan(last, uint32(len(text)))
	return out
}

func inAny(spans []common.Span, off uint32) bool {
	for _, s := range spans {
		if s.Start < off && off < s.End {
			return true
		}
	}
	return false
}

// LineCount counts lines the way an editor does: a trailing newline does
// not open another line.
func LineCount(s string) uint32 {
	if s == "" {
		return 0
	}
	n := uint32(strings.Count(s, "\n"))
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
