package ast

import (
	"github.com/movebit/move-analyzer/common"
)

type Type interface {
	isType()
	Span() common.Span
}

/* Apply */

// TypeApply is a named type: `u64`, `vector<T>`, `coin::Coin<T>`.
type TypeApply struct {
	Path Path
}

func NewTypeApply(path Path) *TypeApply {
	return &TypeApply{Path: path}
}

func (t *TypeApply) isType() {}

func (t *TypeApply) Span() common.Span {
	return t.Path.Span()
}

/* Ref */

type TypeRef struct {
	Mut   bool
	Inner Type
	span  common.Span
}

func NewTypeRef(mut bool, inner Type, span common.Span) *TypeRef {
	return &TypeRef{Mut: mut, Inner: inner, span: span}
}

func (t *TypeRef) isType() {}

func (t *TypeRef) Span() common.Span {
	return t.span
}

/* Tuple */

// TypeTuple with no elements is the unit type `()`.
type TypeTuple struct {
	Elems []Type
	span  common.Span
}

func NewTypeTuple(elems []Type, span common.Span) *TypeTuple {
	return &TypeTuple{Elems: elems, span: span}
}

func (t *TypeTuple) isType() {}

func (t *TypeTuple) Span() common.Span {
	return t.span
}

/* Fun */

// TypeFun is `|A, B| R`, used by inline function parameters.
type TypeFun struct {
	Params []Type
	Result Type
	span   common.Span
}

func NewTypeFun(params []Type, result Type, span common.Span) *TypeFun {
	return &TypeFun{Params: params, Result: result, span: span}
}

func (t *TypeFun) isType() {}

func (t *TypeFun) Span() common.Span {
	return t.span
}
