package sema

import (
	"github.com/movebit/move-analyzer/frontend/model"
)

// unify binds the type parameters occurring in pattern from the matching
// parts of actual. Parameters bound already keep their first binding.
func unify(pattern, actual model.Type, subst []model.Type) {
	if actual.IsError() {
		return
	}
	switch pattern.Kind {
	case model.TypeKindTypeParameter:
		if pattern.Index < len(subst) && subst[pattern.Index].IsError() {
			subst[pattern.Index] = actual
		}
	case model.TypeKindReference:
		if actual.Kind == model.TypeKindReference {
			unify(*pattern.Elem, *actual.Elem, subst)
			return
		}
		unify(*pattern.Elem, actual, subst)
	case model.TypeKindVector:
		if actual.Kind == model.TypeKindVector {
			unify(*pattern.Elem, *actual.Elem, subst)
		}
	case model.TypeKindStruct:
		if actual.Kind == model.TypeKindStruct && actual.Struct == pattern.Struct && len(actual.Args) == len(pattern.Args) {
			for i := range pattern.Args {
				unify(pattern.Args[i], actual.Args[i], subst)
			}
		}
	case model.TypeKindTuple:
		if actual.Kind == model.TypeKindTuple && len(actual.Args) == len(pattern.Args) {
			for i := range pattern.Args {
				unify(pattern.Args[i], actual.Args[i], subst)
			}
		}
	}
}

// substitute replaces bound type parameters in t.
func substitute(t model.Type, subst []model.Type) model.Type {
	switch t.Kind {
	case model.TypeKindTypeParameter:
		if t.Index < len(subst) && !subst[t.Index].IsError() {
			return subst[t.Index]
		}
	case model.TypeKindReference:
		return model.ReferenceType(t.Mut, substitute(*t.Elem, subst))
	case model.TypeKindVector:
		return model.VectorType(substitute(*t.Elem, subst))
	case model.TypeKindStruct, model.TypeKindTuple:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]model.Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = substitute(arg, subst)
		}
		out := t
		out.Args = args
		return out
	}
	return t
}

// instantiate computes the type of a call to a generic callee: explicit type
// arguments win, otherwise parameters are inferred from argument types.
func instantiate(typeParams int, params []model.Type, result model.Type, typeArgs, argTypes []model.Type) model.Type {
	if typeParams == 0 {
		return result
	}
	subst := make([]model.Type, typeParams)
	if len(typeArgs) == typeParams {
		copy(subst, typeArgs)
	} else {
		for i := range min(len(params), len(argTypes)) {
			unify(params[i], argTypes[i], subst)
		}
	}
	return substitute(result, subst)
}

// elemType is the element type of a vector, seen through references.
func elemType(t model.Type) model.Type {
	t = t.SkipReference()
	if t.Kind == model.TypeKindVector {
		return *t.Elem
	}
	if t.Kind == model.TypeKindPrimitive && t.Name == "range" {
		return model.PrimitiveType("num")
	}
	return model.ErrorType()
}
