package ast

import (
	"strings"

	"github.com/movebit/move-analyzer/common"
)

// PathPart is one `::`-separated segment. The leading segment may be a
// numeric address such as `0x1`.
type PathPart struct {
	Name string
	span common.Span
}

func NewPathPart(name string, span common.Span) PathPart {
	return PathPart{Name: name, span: span}
}

func (p PathPart) Span() common.Span {
	return p.span
}

func (p PathPart) IsNumeric() bool {
	return len(p.Name) > 0 && p.Name[0] >= '0' && p.Name[0] <= '9'
}

// Path is `a::b::C` with optional type arguments on the last segment.
type Path struct {
	Parts    []PathPart
	TypeArgs []Type
}

func NewPath(parts []PathPart, typeArgs []Type) Path {
	return Path{Parts: parts, TypeArgs: typeArgs}
}

func (p *Path) Span() common.Span {
	span := common.SpanFrom(p.Parts[0].Span(), p.Parts[len(p.Parts)-1].Span())
	if n := len(p.TypeArgs); n > 0 {
		span = common.SpanFrom(span, p.TypeArgs[n-1].Span())
	}
	return span
}

// NameSpan covers the segments without type arguments.
func (p *Path) NameSpan() common.Span {
	return common.SpanFrom(p.Parts[0].Span(), p.Parts[len(p.Parts)-1].Span())
}

func (p *Path) Last() PathPart {
	return p.Parts[len(p.Parts)-1]
}

func (p *Path) IsSimple() bool {
	return len(p.Parts) == 1
}

func (p *Path) String() string {
	names := make([]string, len(p.Parts))
	for i, part := range p.Parts {
		names[i] = part.Name
	}
	return strings.Join(names, "::")
}
