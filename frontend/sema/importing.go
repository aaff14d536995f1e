package sema

import (
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/model"
)

// moduleScope is the name environment of one module definition, or of one
// `spec addr::m { }` section of a spec file: the module itself plus what the
// section's `use` clauses bring in.
type moduleScope struct {
	file    *sourceFile
	module  *moduleInfo
	aliases map[string]*moduleInfo
	members map[string]memberRef
}

type memberRef struct {
	module *moduleInfo
	name   string
}

func newModuleScope(file *sourceFile, mi *moduleInfo) *moduleScope {
	return &moduleScope{
		file:    file,
		module:  mi,
		aliases: make(map[string]*moduleInfo),
		members: make(map[string]memberRef),
	}
}

func (sc *moduleScope) importUses(a *Analysis, items []ast.Item) {
	for _, item := range items {
		use, ok := item.(*ast.Use)
		if !ok {
			continue
		}
		target, ok := a.findModule(a.moduleName(use.Address, use.Module.Raw))
		if !ok {
			a.Warningf(sc.file, use.Span(), "unresolved module %s::%s", use.Address.Name, use.Module.Raw)
			continue
		}

		if len(use.Members) == 0 {
			alias := use.Module.Raw
			if use.Alias != nil {
				alias = use.Alias.Raw
			}
			sc.aliases[alias] = target
			continue
		}

		for _, member := range use.Members {
			if member.Name.Raw == "Self" {
				alias := use.Module.Raw
				if member.Alias != nil {
					alias = member.Alias.Raw
				}
				sc.aliases[alias] = target
				continue
			}
			alias := member.Name.Raw
			if member.Alias != nil {
				alias = member.Alias.Raw
			}
			sc.members[alias] = memberRef{module: target, name: member.Name.Raw}
		}
	}
}

// lookupModule resolves the module part of a qualified name, `m` or `addr::m`.
func (sc *moduleScope) lookupModule(a *Analysis, parts []ast.PathPart) (*moduleInfo, bool) {
	switch len(parts) {
	case 1:
		if parts[0].Name == "Self" {
			return sc.module, true
		}
		mi, ok := sc.aliases[parts[0].Name]
		return mi, ok
	case 2:
		return a.findModule(model.ModuleName{
			Address: a.resolveAddress(parts[0].Name),
			Name:    parts[1].Name,
		})
	}
	return nil, false
}

// lookupMember finds the module declaring the member a path names. Simple
// names are looked up in the current module first, then among imported
// members; has reports whether a module declares a member of the wanted kind.
func (sc *moduleScope) lookupMember(a *Analysis, path *ast.Path, has func(*model.Module, string) bool) (*moduleInfo, string, bool) {
	n := len(path.Parts)
	name := path.Last().Name
	if n == 1 {
		if has(sc.module.m, name) {
			return sc.module, name, true
		}
		if ref, ok := sc.members[name]; ok && has(ref.module.m, ref.name) {
			return ref.module, ref.name, true
		}
		return nil, name, false
	}
	mi, ok := sc.lookupModule(a, path.Parts[:n-1])
	if !ok || !has(mi.m, name) {
		return nil, name, false
	}
	return mi, name, true
}

func hasStruct(m *model.Module, name string) bool {
	_, ok := m.StructByName(name)
	return ok
}

func hasFunction(m *model.Module, name string) bool {
	_, ok := m.FunctionByName(name)
	return ok
}

func hasSpecFun(m *model.Module, name string) bool {
	_, ok := m.SpecFunByName(name)
	return ok
}

func (sc *moduleScope) resolveStruct(a *Analysis, path *ast.Path) (*model.Struct, bool) {
	mi, name, ok := sc.lookupMember(a, path, hasStruct)
	if !ok {
		return nil, false
	}
	return mi.m.StructByName(name)
}

func (sc *moduleScope) resolveFunction(a *Analysis, path *ast.Path) (*model.Function, bool) {
	mi, name, ok := sc.lookupMember(a, path, hasFunction)
	if !ok {
		return nil, false
	}
	return mi.m.FunctionByName(name)
}

func (sc *moduleScope) resolveSpecFun(a *Analysis, path *ast.Path) (*model.SpecFun, bool) {
	mi, name, ok := sc.lookupMember(a, path, hasSpecFun)
	if !ok {
		return nil, false
	}
	return mi.m.SpecFunByName(name)
}

// resolveConst finds a constant of the current module, or of a module named
// by a qualified path.
func (sc *moduleScope) resolveConst(a *Analysis, path *ast.Path) (*constDecl, bool) {
	n := len(path.Parts)
	mi := sc.module
	if n > 1 {
		var ok bool
		if mi, ok = sc.lookupModule(a, path.Parts[:n-1]); !ok {
			return nil, false
		}
	}
	c, ok := mi.consts[path.Last().Name]
	return c, ok
}
