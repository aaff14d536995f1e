package ast

import (
	"github.com/movebit/move-analyzer/common"
)

type SpecMember interface {
	isSpecMember()
	Span() common.Span
}

/* Condition */

// SpecCondition is `requires e;`, `aborts_if e with code;`, `emits e to g;` and
// the like. Kind is the keyword as written.
type SpecCondition struct {
	Kind       string
	Exp        Expr
	Additional []Expr
	span       common.Span
}

func NewSpecCondition(kind string, exp Expr, additional []Expr, span common.Span) *SpecCondition {
	return &SpecCondition{Kind: kind, Exp: exp, Additional: additional, span: span}
}

func (c *SpecCondition) isSpecMember() {}

func (c *SpecCondition) Span() common.Span {
	return c.span
}

/* Let */

type SpecLet struct {
	Post  bool
	Name  Ident
	Value Expr
	span  common.Span
}

func NewSpecLet(post bool, name Ident, value Expr, span common.Span) *SpecLet {
	return &SpecLet{Post: post, Name: name, Value: value, span: span}
}

func (l *SpecLet) isSpecMember() {}

func (l *SpecLet) Span() common.Span {
	return l.span
}

/* Skipped */

// SpecOther is a member that carries no expressions we index: pragmas,
// includes, applies and the like.
type SpecOther struct {
	Keyword string
	span    common.Span
}

func NewSpecOther(keyword string, span common.Span) *SpecOther {
	return &SpecOther{Keyword: keyword, span: span}
}

func (o *SpecOther) isSpecMember() {}

func (o *SpecOther) Span() common.Span {
	return o.span
}
