package sema

import (
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/model"
)

// lowerSpecBlock records a `spec ... { }` block on its module and appends its
// conditions to the spec of the function, struct or module it annotates.
func (a *Analysis) lowerSpecBlock(mi *moduleInfo, sb *specBlockDecl) {
	decl := sb.decl
	loc := sb.scope.file.loc(decl.Span())
	info := model.SpecBlockInfo{Loc: loc}
	cx := newBodyContext(a, sb.scope, nil, nil, true)

	var target *model.Spec
	switch decl.Target {
	case ast.SpecTargetModule:
		info.Target = model.SpecBlockTarget{Kind: model.SpecTargetModule}
		target = &mi.m.Spec

	case ast.SpecTargetSchema:
		info.Target = model.SpecBlockTarget{Kind: model.SpecTargetSchema, Name: decl.TargetName.Raw}
		a.b.AddSpecBlock(mi.m, info)
		return

	case ast.SpecTargetMember:
		name := decl.TargetName.Raw
		if fun, ok := mi.m.FunctionByName(name); ok {
			info.Target = model.SpecBlockTarget{Kind: model.SpecTargetFunction, Fun: fun.ID, Name: name}
			cx.typeParams = fun.TypeParams
			cx.params = fun.Params
			result := fun.Result
			cx.result = &result
			target = &fun.Spec
		} else if st, ok := mi.m.StructByName(name); ok {
			info.Target = model.SpecBlockTarget{Kind: model.SpecTargetStruct, Struct: st.ID, Name: name}
			cx.typeParams = st.TypeParams
			cx.self = st
			target = &st.Spec
		} else {
			a.Warningf(sb.scope.file, decl.TargetName.Span(), "spec block for unknown member %s", name)
			return
		}
	default:
		return
	}

	a.b.AddSpecBlock(mi.m, info)
	if target.Loc == (model.Loc{}) {
		target.Loc = loc
	}
	target.Conditions = append(target.Conditions, cx.lowerSpecMembers(decl.Members)...)
}

// lowerSpecMembers lowers the conditions of a spec block in order. Spec `let`s
// are declared for the members after them; kinds the model does not track,
// such as `axiom`, are dropped.
func (cx *bodyContext) lowerSpecMembers(members []ast.SpecMember) []model.Condition {
	var out []model.Condition
	for _, member := range members {
		switch m := member.(type) {
		case *ast.SpecCondition:
			kind, ok := model.LookupConditionKind(m.Kind)
			if !ok {
				continue
			}
			cond := model.Condition{Kind: kind, Loc: cx.sc.file.loc(m.Span())}
			cond.Exp, _ = cx.lowerExpr(m.Exp)
			for _, add := range m.Additional {
				e, _ := cx.lowerExpr(add)
				cond.AdditionalExps = append(cond.AdditionalExps, e)
			}
			out = append(out, cond)

		case *ast.SpecLet:
			_, ty := cx.lowerExpr(m.Value)
			cx.locals.Add(m.Name.Raw, ty)
		}
	}
	return out
}
