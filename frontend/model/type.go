package model

import (
	"strings"
)

type TypeKind uint8

const (
	_ TypeKind = iota
	TypeKindPrimitive
	TypeKindStruct
	TypeKindVector
	TypeKindReference
	TypeKindTypeParameter
	TypeKindTuple
	TypeKindError
)

type QualifiedStructID struct {
	Module ModuleID `msgpack:"m"`
	Struct StructID `msgpack:"s"`
}

// Type is the resolved type of a declaration or expression.
//
// Which fields are meaningful depends on Kind:
//   - Primitive: Name (`u64`, `bool`, `address`, ...)
//   - Struct: Struct, Args
//   - Vector: Elem
//   - Reference: Elem, Mut
//   - TypeParameter: Name, Index
//   - Tuple: Args
type Type struct {
	Kind   TypeKind          `msgpack:"k"`
	Name   string            `msgpack:"n,omitempty"`
	Struct QualifiedStructID `msgpack:"s,omitempty"`
	Args   []Type            `msgpack:"a,omitempty"`
	Elem   *Type             `msgpack:"e,omitempty"`
	Mut    bool              `msgpack:"mu,omitempty"`
	Index  int               `msgpack:"i,omitempty"`
}

func PrimitiveType(name string) Type {
	return Type{Kind: TypeKindPrimitive, Name: name}
}

func StructType(id QualifiedStructID, args ...Type) Type {
	return Type{Kind: TypeKindStruct, Struct: id, Args: args}
}

func VectorType(elem Type) Type {
	return Type{Kind: TypeKindVector, Elem: &elem}
}

func ReferenceType(mut bool, elem Type) Type {
	return Type{Kind: TypeKindReference, Mut: mut, Elem: &elem}
}

func TypeParameter(name string, index int) Type {
	return Type{Kind: TypeKindTypeParameter, Name: name, Index: index}
}

func TupleType(elems ...Type) Type {
	return Type{Kind: TypeKindTuple, Args: elems}
}

func ErrorType() Type {
	return Type{Kind: TypeKindError}
}

func UnitType() Type {
	return TupleType()
}

func (t Type) IsStruct() bool { return t.Kind == TypeKindStruct }
func (t Type) IsError() bool  { return t.Kind == TypeKindError || t.Kind == 0 }

// SkipReference strips any number of reference layers.
func (t Type) SkipReference() Type {
	for t.Kind == TypeKindReference && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// Display renders t with struct names resolved through env.
func (t Type) Display(env *GlobalEnv) string {
	var sb strings.Builder
	t.write(env, &sb)
	return sb.String()
}

func (t Type) write(env *GlobalEnv, sb *strings.Builder) {
	writeList := func(ts []Type) {
		for i, a := range ts {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.write(env, sb)
		}
	}
	switch t.Kind {
	case TypeKindPrimitive, TypeKindTypeParameter:
		sb.WriteString(t.Name)
	case TypeKindStruct:
		if env != nil {
			if s := env.Struct(t.Struct); s != nil {
				sb.WriteString(env.Module(t.Struct.Module).Name.String())
				sb.WriteString("::")
				sb.WriteString(s.Name)
			}
		}
		if len(t.Args) > 0 {
			sb.WriteByte('<')
			writeList(t.Args)
			sb.WriteByte('>')
		}
	case TypeKindVector:
		sb.WriteString("vector<")
		t.Elem.write(env, sb)
		sb.WriteByte('>')
	case TypeKindReference:
		if t.Mut {
			sb.WriteString("&mut ")
		} else {
			sb.WriteByte('&')
		}
		t.Elem.write(env, sb)
	case TypeKindTuple:
		sb.WriteByte('(')
		writeList(t.Args)
		sb.WriteByte(')')
	default:
		sb.WriteString("*error*")
	}
}
