package ast

import (
	"github.com/movebit/move-analyzer/common"
)

// Bind is the left side of a `let`.
type Bind interface {
	isBind()
	Span() common.Span
}

/* Var */

// BindVar binds a name; `_` is a wildcard.
type BindVar struct {
	Name Ident
}

func NewBindVar(name Ident) *BindVar {
	return &BindVar{Name: name}
}

func (b *BindVar) isBind() {}

func (b *BindVar) Span() common.Span {
	return b.Name.Span()
}

func (b *BindVar) IsWildcard() bool {
	return b.Name.Raw == "_"
}

/* Unpack */

// BindField is `field: bind`; Shorthand marks `S { field }`.
type BindField struct {
	Name      Ident
	Bind      Bind
	Shorthand bool
}

type BindUnpack struct {
	Path   Path
	Fields []BindField
	Rest   bool // trailing `..`
	span   common.Span
}

func NewBindUnpack(path Path, fields []BindField, rest bool, span common.Span) *BindUnpack {
	return &BindUnpack{Path: path, Fields: fields, Rest: rest, span: span}
}

func (b *BindUnpack) isBind() {}

func (b *BindUnpack) Span() common.Span {
	return b.span
}

/* Tuple */

type BindTuple struct {
	Elems []Bind
	span  common.Span
}

func NewBindTuple(elems []Bind, span common.Span) *BindTuple {
	return &BindTuple{Elems: elems, span: span}
}

func (b *BindTuple) isBind() {}

func (b *BindTuple) Span() common.Span {
	return b.span
}
