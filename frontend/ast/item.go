package ast

import (
	"github.com/movebit/move-analyzer/common"
)

type Item interface {
	isItem()
	Span() common.Span
}

/* Use */

type UseMember struct {
	Name  Ident
	Alias *Ident
}

// Use is `use addr::m;`, `use addr::m as n;`, `use addr::m::x;` or
// `use addr::m::{Self, x as y};`.
type Use struct {
	Address PathPart
	Module  Ident
	Alias   *Ident
	Members []UseMember
	span    common.Span
}

func NewUse(address PathPart, module Ident, alias *Ident, members []UseMember, span common.Span) *Use {
	return &Use{Address: address, Module: module, Alias: alias, Members: members, span: span}
}

func (u *Use) isItem() {}

func (u *Use) Span() common.Span {
	return u.span
}

/* Friend */

type Friend struct {
	Path Path
	span common.Span
}

func NewFriend(path Path, span common.Span) *Friend {
	return &Friend{Path: path, span: span}
}

func (f *Friend) isItem() {}

func (f *Friend) Span() common.Span {
	return f.span
}

/* Const */

type Const struct {
	Name  Ident
	Type  Type
	Value Expr
	span  common.Span
}

func NewConst(name Ident, ty Type, value Expr, span common.Span) *Const {
	return &Const{Name: name, Type: ty, Value: value, span: span}
}

func (c *Const) isItem() {}

func (c *Const) Span() common.Span {
	return c.span
}

/* Struct */

type TypeParam struct {
	Name      Ident
	Phantom   bool
	Abilities []Ident
}

type StructField struct {
	Name Ident
	Type Type
}

type Struct struct {
	Name       Ident
	Native     bool
	TypeParams []TypeParam
	Abilities  []Ident
	Fields     []StructField
	span       common.Span
}

func NewStruct(name Ident, native bool, typeParams []TypeParam, abilities []Ident, fields []StructField, span common.Span) *Struct {
	return &Struct{
		Name:       name,
		Native:     native,
		TypeParams: typeParams,
		Abilities:  abilities,
		Fields:     fields,
		span:       span,
	}
}

func (s *Struct) isItem() {}

func (s *Struct) Span() common.Span {
	return s.span
}

/* Function */

type Visibility uint8

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
	VisibilityFriend
	VisibilityPackage
)

type Param struct {
	Name Ident
	Type Type
}

type AccessKind uint8

const (
	_ AccessKind = iota
	AccessAcquires
	AccessReads
	AccessWrites
)

// AccessClause is one resource named in an `acquires`, `reads` or `writes` list.
type AccessClause struct {
	Kind     AccessKind
	Resource Path
}

type Function struct {
	Name       Ident
	Visibility Visibility
	Entry      bool
	Native     bool
	Inline     bool
	TypeParams []TypeParam
	Params     []Param
	Result     Type // nil when omitted
	Access     []AccessClause
	Body       *Block // nil for native functions
	span       common.Span
}

func (f *Function) isItem() {}

func (f *Function) Span() common.Span {
	return f.span
}

func (f *Function) SetSpan(span common.Span) {
	f.span = span
}

/* SpecBlock */

type SpecTargetKind uint8

const (
	_ SpecTargetKind = iota
	// SpecTargetModule is `spec module { }`
	SpecTargetModule
	// SpecTargetMember is `spec name { }`, a function or a struct
	SpecTargetMember
	// SpecTargetSchema is `spec schema Name { }`
	SpecTargetSchema
)

type SpecBlock struct {
	Target     SpecTargetKind
	TargetName *Ident
	Members    []SpecMember
	span       common.Span
}

func NewSpecBlock(target SpecTargetKind, name *Ident, members []SpecMember, span common.Span) *SpecBlock {
	return &SpecBlock{Target: target, TargetName: name, Members: members, span: span}
}

func (s *SpecBlock) isItem() {}

func (s *SpecBlock) Span() common.Span {
	return s.span
}

/* SpecFun */

// SpecFun is a specification function, `spec fun f(): T { }` at module level
// or `fun f(): T { }` inside `spec module`. Body is nil when uninterpreted.
type SpecFun struct {
	Name       Ident
	Native     bool
	TypeParams []TypeParam
	Params     []Param
	Result     Type
	Body       *Block
	span       common.Span
}

func (f *SpecFun) isItem()       {}
func (f *SpecFun) isSpecMember() {}

func (f *SpecFun) Span() common.Span {
	return f.span
}

func (f *SpecFun) SetSpan(span common.Span) {
	f.span = span
}
