package sema

import (
	"slices"

	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/model"
)

var primitiveTypes = map[string]bool{
	"u8":      true,
	"u16":     true,
	"u32":     true,
	"u64":     true,
	"u128":    true,
	"u256":    true,
	"bool":    true,
	"address": true,
	"signer":  true,
	// specification only
	"num":   true,
	"range": true,
	"bv":    true,
}

func (a *Analysis) resolveType(sc *moduleScope, typeParams []string, t ast.Type) model.Type {
	switch t := t.(type) {
	case *ast.TypeRef:
		return model.ReferenceType(t.Mut, a.resolveType(sc, typeParams, t.Inner))
	case *ast.TypeTuple:
		elems := make([]model.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = a.resolveType(sc, typeParams, e)
		}
		return model.TupleType(elems...)
	case *ast.TypeApply:
		return a.resolveTypeApply(sc, typeParams, &t.Path)
	}
	// function types of inline parameters carry nothing we index
	return model.ErrorType()
}

func (a *Analysis) resolveTypeArgs(sc *moduleScope, typeParams []string, args []ast.Type) []model.Type {
	if len(args) == 0 {
		return nil
	}
	out := make([]model.Type, len(args))
	for i, arg := range args {
		out[i] = a.resolveType(sc, typeParams, arg)
	}
	return out
}

func (a *Analysis) resolveTypeApply(sc *moduleScope, typeParams []string, path *ast.Path) model.Type {
	args := a.resolveTypeArgs(sc, typeParams, path.TypeArgs)
	if path.IsSimple() {
		name := path.Last().Name
		if idx := slices.Index(typeParams, name); idx >= 0 {
			return model.TypeParameter(name, idx)
		}
		if name == "vector" {
			if len(args) != 1 {
				a.Errorf(sc.file, path.Span(), "vector expects one type argument, got %d", len(args))
				return model.ErrorType()
			}
			return model.VectorType(args[0])
		}
		if primitiveTypes[name] {
			return model.PrimitiveType(name)
		}
	}

	st, ok := sc.resolveStruct(a, path)
	if !ok {
		a.Warningf(sc.file, path.NameSpan(), "unresolved type %s", path.String())
		return model.ErrorType()
	}
	return model.StructType(st.QualifiedID(), args...)
}

func (a *Analysis) structOf(id model.QualifiedStructID) *model.Struct {
	m := a.b.Module(id.Module)
	if m == nil {
		return nil
	}
	return m.Struct(id.Struct)
}
