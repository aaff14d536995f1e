package model

type OperationKind uint8

const (
	_ OperationKind = iota
	// OpMoveFunction calls a Move function.
	OpMoveFunction
	// OpSpecFunction calls a specification function.
	OpSpecFunction
	// OpSelect reads a field: `e.f`.
	OpSelect
	// OpPack constructs a struct: `S { f: e }`.
	OpPack
	OpTuple
	OpBorrow
	OpDeref
	OpVector
	OpCast
	OpIndex
	// OpBuiltin covers operators and native builtins, Name says which.
	OpBuiltin
)

func (k OperationKind) String() string {
	switch k {
	case OpMoveFunction:
		return "move_function"
	case OpSpecFunction:
		return "spec_function"
	case OpSelect:
		return "select"
	case OpPack:
		return "pack"
	case OpTuple:
		return "tuple"
	case OpBorrow:
		return "borrow"
	case OpDeref:
		return "deref"
	case OpVector:
		return "vector"
	case OpCast:
		return "cast"
	case OpIndex:
		return "index"
	case OpBuiltin:
		return "builtin"
	default:
		panic("unreachable")
	}
}

type QualifiedFunID struct {
	Module ModuleID `msgpack:"m"`
	Fun    FunID    `msgpack:"f"`
}

type QualifiedSpecFunID struct {
	Module ModuleID  `msgpack:"m"`
	Fun    SpecFunID `msgpack:"f"`
}

// Operation is the operator of a Call expression.
type Operation struct {
	Kind    OperationKind      `msgpack:"k"`
	Fun     QualifiedFunID     `msgpack:"f,omitempty"`
	SpecFun QualifiedSpecFunID `msgpack:"sf,omitempty"`
	Struct  QualifiedStructID  `msgpack:"s,omitempty"`
	Field   FieldID            `msgpack:"fd,omitempty"`
	Name    string             `msgpack:"n,omitempty"`
	Mut     bool               `msgpack:"mu,omitempty"`
	Type    *Type              `msgpack:"t,omitempty"`
}

func MoveFunctionOp(id QualifiedFunID) Operation {
	return Operation{Kind: OpMoveFunction, Fun: id}
}

func SpecFunctionOp(id QualifiedSpecFunID) Operation {
	return Operation{Kind: OpSpecFunction, SpecFun: id}
}

func SelectOp(id QualifiedStructID, field FieldID) Operation {
	return Operation{Kind: OpSelect, Struct: id, Field: field}
}

func PackOp(id QualifiedStructID) Operation {
	return Operation{Kind: OpPack, Struct: id}
}

func BorrowOp(mut bool) Operation {
	return Operation{Kind: OpBorrow, Mut: mut}
}

func CastOp(ty Type) Operation {
	return Operation{Kind: OpCast, Type: &ty}
}

func BuiltinOp(name string) Operation {
	return Operation{Kind: OpBuiltin, Name: name}
}

func SimpleOp(kind OperationKind) Operation {
	return Operation{Kind: kind}
}
