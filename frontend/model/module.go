package model

import (
	"fmt"
	"strings"
)

// ModuleName is `address::name`. Numeric addresses are kept in canonical
// form (see CanonicalAddress).
type ModuleName struct {
	Address string `msgpack:"a"`
	Name    string `msgpack:"n"`
}

func (n ModuleName) String() string {
	if n.Address == "" {
		return n.Name
	}
	return n.Address + "::" + n.Name
}

// CanonicalAddress lowercases a hex address and strips leading zeros so that
// `0x0001` and `0x1` compare equal. Named addresses are returned unchanged.
func CanonicalAddress(addr string) string {
	lower := strings.ToLower(addr)
	if !strings.HasPrefix(lower, "0x") {
		return addr
	}
	digits := strings.TrimLeft(strings.ReplaceAll(lower[2:], "_", ""), "0")
	if digits == "" {
		digits = "0"
	}
	return "0x" + digits
}

type Module struct {
	ID         ModuleID
	Name       ModuleName
	Loc        Loc
	Functions  []*Function
	Structs    []*Struct
	SpecFuns   []*SpecFun
	SpecBlocks []SpecBlockInfo
	Spec       Spec
}

func (m *Module) Function(id FunID) *Function {
	if int(id) >= len(m.Functions) {
		return nil
	}
	return m.Functions[id]
}

func (m *Module) Struct(id StructID) *Struct {
	if int(id) >= len(m.Structs) {
		return nil
	}
	return m.Structs[id]
}

func (m *Module) SpecFun(id SpecFunID) *SpecFun {
	if int(id) >= len(m.SpecFuns) {
		return nil
	}
	return m.SpecFuns[id]
}

func (m *Module) FunctionByName(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (m *Module) StructByName(name string) (*Struct, bool) {
	for _, s := range m.Structs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

func (m *Module) SpecFunByName(name string) (*SpecFun, bool) {
	for _, f := range m.SpecFuns {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

type Visibility uint8

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
	VisibilityFriend
	VisibilityPackage
)

// Param is a function parameter. Loc covers the parameter name only.
type Param struct {
	Name string `msgpack:"n"`
	Type Type   `msgpack:"t"`
	Loc  Loc    `msgpack:"l"`
}

type AccessKind uint8

const (
	_ AccessKind = iota
	AccessAcquires
	AccessReads
	AccessWrites
)

func (k AccessKind) String() string {
	switch k {
	case AccessAcquires:
		return "acquires"
	case AccessReads:
		return "reads"
	case AccessWrites:
		return "writes"
	default:
		return fmt.Sprintf("AccessKind(%d)", uint8(k))
	}
}

// ResourceSpecifier names the struct an access clause is about. Loc covers
// the struct name as written.
type ResourceSpecifier struct {
	Loc    Loc               `msgpack:"l"`
	Struct QualifiedStructID `msgpack:"s"`
}

// AccessSpecifier is one resource of an `acquires`, `reads` or `writes` clause.
type AccessSpecifier struct {
	Loc      Loc               `msgpack:"l"`
	Kind     AccessKind        `msgpack:"k"`
	Resource ResourceSpecifier `msgpack:"r"`
}

type Function struct {
	ID         FunID
	Module     ModuleID
	Name       string
	Loc        Loc
	Visibility Visibility
	Entry      bool
	Native     bool
	TypeParams []string
	Params     []Param
	Result     Type

	AccessSpecifiers []AccessSpecifier
	Acquires         []QualifiedStructID

	// Def is nil for native functions.
	Def  *Expr
	Spec Spec

	Callers []QualifiedFunID
	Callees []QualifiedFunID
}

func (f *Function) QualifiedID() QualifiedFunID {
	return QualifiedFunID{Module: f.Module, Fun: f.ID}
}

// Field is a struct field. Loc covers the field name.
type Field struct {
	ID   FieldID `msgpack:"i"`
	Name string  `msgpack:"n"`
	Type Type    `msgpack:"t"`
	Loc  Loc     `msgpack:"l"`
}

type Struct struct {
	ID         StructID
	Module     ModuleID
	Name       string
	Loc        Loc
	Native     bool
	Abilities  []string
	TypeParams []string
	Fields     []Field
	Spec       Spec
}

func (s *Struct) QualifiedID() QualifiedStructID {
	return QualifiedStructID{Module: s.Module, Struct: s.ID}
}

func (s *Struct) Field(id FieldID) *Field {
	if int(id) >= len(s.Fields) {
		return nil
	}
	return &s.Fields[id]
}

func (s *Struct) FieldByName(name string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

type SpecFun struct {
	ID      SpecFunID
	Module  ModuleID
	Name    string
	Loc     Loc
	Params  []Param
	Result  Type
	Body    *Expr
	Callees []QualifiedSpecFunID
}

func (f *SpecFun) QualifiedID() QualifiedSpecFunID {
	return QualifiedSpecFunID{Module: f.Module, Fun: f.ID}
}
