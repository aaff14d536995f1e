package common

import "fmt"

// Span is a half-open byte range [Start, End) inside one source file.
type Span struct {
	Start, End uint32
}

// SpanNew builds a span, clamping End so that Start <= End always holds.
func SpanNew(start, end uint32) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, End: end}
}

// SpanAt is the zero-width span at off.
func SpanAt(off uint32) Span {
	return Span{Start: off, End: off}
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Covers reports start <= off <= end.
func (s Span) Covers(off uint32) bool {
	return s.Start <= off && off <= s.End
}

// StrictlyCovers reports start < off < end.
func (s Span) StrictlyCovers(off uint32) bool {
	return s.Start < off && off < s.End
}

// ContainsSpan reports whether o lies entirely within s.
func (s Span) ContainsSpan(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Shift moves a span that is relative to some fragment into the fragment's
// coordinates, base being the fragment's start offset.
func (s Span) Shift(base uint32) Span {
	return Span{Start: s.Start + base, End: s.End + base}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// SpanFrom covers both spans and everything between them.
func SpanFrom(a, b Span) Span {
	return Span{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

// Adjacent reports whether b starts exactly where a ends.
func (s Span) Adjacent(b Span) bool {
	return s.End == b.Start
}
