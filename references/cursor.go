package references

import (
	"unicode/utf8"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

// mouseSpan resolves a 0-based line and column inside decl by probing
// forward from the start of the declaration: first to the cursor's line,
// then along it to the cursor's column or the end of the line. The span runs
// from the first probe on the line to the cursor; searches only look at its
// end. It fails when decl ends before the cursor's line.
func mouseSpan(env *model.GlobalEnv, decl model.Loc, line, col uint32) (common.Span, bool) {
	f := env.File(decl.File)
	if f == nil {
		return common.Span{}, false
	}
	content := f.Content
	step := func(off uint32) uint32 {
		_, w := utf8.DecodeRuneInString(content[off:])
		return off + uint32(max(w, 1))
	}

	first := decl.Start()
	for {
		if first >= decl.End() || first >= f.Len() {
			return common.Span{}, false
		}
		pos, ok := f.Location(first)
		if !ok || pos.Line > line {
			return common.Span{}, false
		}
		if pos.Line == line {
			break
		}
		first = step(first)
	}

	last := first
	for last < f.Len() {
		pos, _ := f.Location(last)
		if pos.Line != line || pos.Column >= col {
			break
		}
		last = step(last)
	}
	return common.SpanNew(first, last), true
}

// lineSpan is the first and last line loc touches.
func lineSpan(env *model.GlobalEnv, loc model.Loc) (start, end uint32, ok bool) {
	s, ok := env.Location(loc)
	if !ok {
		return 0, 0, false
	}
	e, ok := env.EndLocation(loc)
	if !ok {
		return 0, 0, false
	}
	return s.Line, e.Line, true
}
