// Package ast is the syntax tree of one Move source file.
package ast

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/lexer"
)

type Ident = lexer.TokIdent

type Ast struct {
	Path        string
	Code        string
	Definitions []Definition
}

// Definition is a top-level declaration: a module, or a `spec addr::m { }`
// block that adds specifications to a module declared elsewhere.
type Definition interface {
	isDefinition()
	Span() common.Span
}

/* Module */

type Module struct {
	Address PathPart
	Name    Ident
	Items   []Item
	span    common.Span
}

func NewModule(address PathPart, name Ident, items []Item, span common.Span) *Module {
	return &Module{Address: address, Name: name, Items: items, span: span}
}

func (m *Module) isDefinition() {}

func (m *Module) Span() common.Span {
	return m.span
}

/* ModuleSpec */

type ModuleSpec struct {
	Address PathPart
	Name    Ident
	Items   []Item
	span    common.Span
}

func NewModuleSpec(address PathPart, name Ident, items []Item, span common.Span) *ModuleSpec {
	return &ModuleSpec{Address: address, Name: name, Items: items, span: span}
}

func (m *ModuleSpec) isDefinition() {}

func (m *ModuleSpec) Span() common.Span {
	return m.span
}
