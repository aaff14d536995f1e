package sema

import (
	"maps"
	"slices"

	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/model"
)

func (a *Analysis) registerModules() {
	for _, file := range a.files {
		for _, def := range file.tree.Definitions {
			decl, ok := def.(*ast.Module)
			if !ok {
				continue
			}
			name := a.moduleName(decl.Address, decl.Name.Raw)
			if _, dup := a.byName[name]; dup {
				a.Errorf(file, decl.Name.Span(), "duplicate module %s", name)
				continue
			}
			m := a.b.AddModule(name, file.loc(decl.Span()))
			mi := &moduleInfo{m: m, decl: decl, consts: make(map[string]*constDecl)}
			mi.scope = newModuleScope(file, mi)
			a.modules = append(a.modules, mi)
			a.byName[m.Name] = mi
		}
	}
}

func (a *Analysis) registerMembers() {
	for _, file := range a.files {
		for _, def := range file.tree.Definitions {
			switch decl := def.(type) {
			case *ast.Module:
				mi, ok := a.findModule(a.moduleName(decl.Address, decl.Name.Raw))
				if !ok || mi.decl != decl {
					continue // duplicate, already reported
				}
				mi.scope.importUses(a, decl.Items)
				a.registerItems(mi, mi.scope, decl.Items)
			case *ast.ModuleSpec:
				mi, ok := a.findModule(a.moduleName(decl.Address, decl.Name.Raw))
				if !ok {
					a.Errorf(file, decl.Name.Span(), "spec for unknown module %s::%s", decl.Address.Name, decl.Name.Raw)
					continue
				}
				sc := newModuleScope(file, mi)
				sc.importUses(a, decl.Items)
				a.registerItems(mi, sc, decl.Items)
			}
		}
	}
}

func typeParamNames(tps []ast.TypeParam) []string {
	if len(tps) == 0 {
		return nil
	}
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name.Raw
	}
	return names
}

func (a *Analysis) params(file *sourceFile, params []ast.Param) []model.Param {
	out := make([]model.Param, len(params))
	for i, p := range params {
		out[i] = model.Param{Name: p.Name.Raw, Loc: file.loc(p.Name.Span())}
	}
	return out
}

func (a *Analysis) registerItems(mi *moduleInfo, sc *moduleScope, items []ast.Item) {
	file := sc.file
	for _, item := range items {
		switch it := item.(type) {
		case *ast.Const:
			if _, dup := mi.consts[it.Name.Raw]; dup {
				a.Errorf(file, it.Name.Span(), "duplicate constant %s", it.Name.Raw)
				continue
			}
			mi.consts[it.Name.Raw] = &constDecl{decl: it, scope: sc}

		case *ast.Struct:
			if _, dup := mi.m.StructByName(it.Name.Raw); dup {
				a.Errorf(file, it.Name.Span(), "duplicate struct %s", it.Name.Raw)
				continue
			}
			fields := make([]model.Field, len(it.Fields))
			for i, f := range it.Fields {
				fields[i] = model.Field{Name: f.Name.Raw, Loc: file.loc(f.Name.Span())}
			}
			abilities := make([]string, len(it.Abilities))
			for i, ab := range it.Abilities {
				abilities[i] = ab.Raw
			}
			st := a.b.AddStruct(mi.m, &model.Struct{
				Name:       it.Name.Raw,
				Loc:        file.loc(it.Span()),
				Native:     it.Native,
				Abilities:  abilities,
				TypeParams: typeParamNames(it.TypeParams),
				Fields:     fields,
			})
			mi.structs = append(mi.structs, &structDecl{st: st, decl: it, scope: sc})

		case *ast.Function:
			if _, dup := mi.m.FunctionByName(it.Name.Raw); dup {
				a.Errorf(file, it.Name.Span(), "duplicate function %s", it.Name.Raw)
				continue
			}
			fun := a.b.AddFunction(mi.m, &model.Function{
				Name:       it.Name.Raw,
				Loc:        file.loc(it.Span()),
				Visibility: model.Visibility(it.Visibility),
				Entry:      it.Entry,
				Native:     it.Native,
				TypeParams: typeParamNames(it.TypeParams),
				Params:     a.params(file, it.Params),
			})
			mi.funs = append(mi.funs, &funDecl{fun: fun, decl: it, scope: sc})

		case *ast.SpecFun:
			a.registerSpecFun(mi, sc, it)

		case *ast.SpecBlock:
			if it.Target == ast.SpecTargetModule {
				for _, member := range it.Members {
					if sf, ok := member.(*ast.SpecFun); ok {
						a.registerSpecFun(mi, sc, sf)
					}
				}
			}
			mi.specBlocks = append(mi.specBlocks, &specBlockDecl{decl: it, scope: sc})
		}
	}
}

func (a *Analysis) registerSpecFun(mi *moduleInfo, sc *moduleScope, decl *ast.SpecFun) {
	if _, dup := mi.m.SpecFunByName(decl.Name.Raw); dup {
		a.Errorf(sc.file, decl.Name.Span(), "duplicate spec function %s", decl.Name.Raw)
		return
	}
	fun := a.b.AddSpecFun(mi.m, &model.SpecFun{
		Name:   decl.Name.Raw,
		Loc:    sc.file.loc(decl.Span()),
		Params: a.params(sc.file, decl.Params),
	})
	mi.specFuns = append(mi.specFuns, &specFunDecl{fun: fun, decl: decl, scope: sc})
}

func (a *Analysis) resolveSignatures() {
	for _, mi := range a.modules {
		for _, name := range slices.Sorted(maps.Keys(mi.consts)) {
			c := mi.consts[name]
			c.ty = a.resolveType(c.scope, nil, c.decl.Type)
		}

		for _, sd := range mi.structs {
			for i, f := range sd.decl.Fields {
				sd.st.Fields[i].Type = a.resolveType(sd.scope, sd.st.TypeParams, f.Type)
			}
		}

		for _, fd := range mi.funs {
			a.resolveFunctionSignature(fd)
		}

		for _, sd := range mi.specFuns {
			tps := typeParamNames(sd.decl.TypeParams)
			for i, p := range sd.decl.Params {
				sd.fun.Params[i].Type = a.resolveType(sd.scope, tps, p.Type)
			}
			sd.fun.Result = model.UnitType()
			if sd.decl.Result != nil {
				sd.fun.Result = a.resolveType(sd.scope, tps, sd.decl.Result)
			}
		}
	}
}

func (a *Analysis) resolveFunctionSignature(fd *funDecl) {
	fun, decl, sc := fd.fun, fd.decl, fd.scope
	for i, p := range decl.Params {
		fun.Params[i].Type = a.resolveType(sc, fun.TypeParams, p.Type)
	}
	fun.Result = model.UnitType()
	if decl.Result != nil {
		fun.Result = a.resolveType(sc, fun.TypeParams, decl.Result)
	}

	for _, clause := range decl.Access {
		st, ok := sc.resolveStruct(a, &clause.Resource)
		if !ok {
			a.Warningf(sc.file, clause.Resource.Span(), "unresolved resource %s", clause.Resource.String())
			continue
		}
		fun.AccessSpecifiers = append(fun.AccessSpecifiers, model.AccessSpecifier{
			Loc:  sc.file.loc(clause.Resource.Span()),
			Kind: model.AccessKind(clause.Kind),
			Resource: model.ResourceSpecifier{
				Loc:    sc.file.loc(clause.Resource.NameSpan()),
				Struct: st.QualifiedID(),
			},
		})
		if clause.Kind == ast.AccessAcquires && !slices.Contains(fun.Acquires, st.QualifiedID()) {
			fun.Acquires = append(fun.Acquires, st.QualifiedID())
		}
	}
}

func (a *Analysis) lowerBodies() {
	for _, mi := range a.modules {
		for _, fd := range mi.funs {
			if fd.decl.Body == nil {
				continue
			}
			cx := newBodyContext(a, fd.scope, fd.fun.TypeParams, fd.fun.Params, false)
			fd.fun.Def, _ = cx.lowerBlock(fd.decl.Body)
		}
		for _, sd := range mi.specFuns {
			if sd.decl.Body == nil {
				continue
			}
			cx := newBodyContext(a, sd.scope, typeParamNames(sd.decl.TypeParams), sd.fun.Params, true)
			sd.fun.Body, _ = cx.lowerBlock(sd.decl.Body)
		}
		for _, sb := range mi.specBlocks {
			a.lowerSpecBlock(mi, sb)
		}
	}
}
