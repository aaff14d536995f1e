package model

import (
	"fmt"
	"slices"

	"github.com/movebit/move-analyzer/common"
)

// Builder assembles a GlobalEnv. Declarations are registered in order; Build
// derives the call graphs and checks that every location lies inside its file.
type Builder struct {
	env   *GlobalEnv
	built bool
}

func NewBuilder() *Builder {
	return &Builder{env: &GlobalEnv{filesByPath: make(map[string]FileID)}}
}

// AddFile registers a source file. Adding the same path twice returns the
// existing id and keeps the first content.
func (b *Builder) AddFile(path, content string) FileID {
	path = common.FilePathClean(path)
	if id, ok := b.env.filesByPath[path]; ok {
		return id
	}
	id := FileID(len(b.env.files))
	b.env.files = append(b.env.files, newFile(id, path, content))
	b.env.filesByPath[path] = id
	return id
}

func (b *Builder) File(id FileID) *File {
	return b.env.File(id)
}

// NewNode allocates a node id located at loc.
func (b *Builder) NewNode(loc Loc) NodeID {
	id := NodeID(len(b.env.nodeLocs))
	b.env.nodeLocs = append(b.env.nodeLocs, loc)
	return id
}

func (b *Builder) AddModule(name ModuleName, loc Loc) *Module {
	name.Address = CanonicalAddress(name.Address)
	m := &Module{ID: ModuleID(len(b.env.modules)), Name: name, Loc: loc}
	b.env.modules = append(b.env.modules, m)
	return m
}

func (b *Builder) Module(id ModuleID) *Module {
	return b.env.Module(id)
}

func (b *Builder) FindModule(name ModuleName) (*Module, bool) {
	return b.env.FindModule(name)
}

func (b *Builder) AddFunction(m *Module, f *Function) *Function {
	f.ID = FunID(len(m.Functions))
	f.Module = m.ID
	m.Functions = append(m.Functions, f)
	return f
}

func (b *Builder) AddStruct(m *Module, s *Struct) *Struct {
	s.ID = StructID(len(m.Structs))
	s.Module = m.ID
	for i := range s.Fields {
		s.Fields[i].ID = FieldID(i)
	}
	m.Structs = append(m.Structs, s)
	return s
}

func (b *Builder) AddSpecFun(m *Module, f *SpecFun) *SpecFun {
	f.ID = SpecFunID(len(m.SpecFuns))
	f.Module = m.ID
	m.SpecFuns = append(m.SpecFuns, f)
	return f
}

func (b *Builder) AddSpecBlock(m *Module, info SpecBlockInfo) {
	m.SpecBlocks = append(m.SpecBlocks, info)
}

// Build finishes the environment. The Builder must not be used afterwards.
func (b *Builder) Build() (*GlobalEnv, error) {
	if b.built {
		return nil, fmt.Errorf("builder already used")
	}
	b.built = true
	env := b.env
	if err := env.validate(); err != nil {
		return nil, err
	}
	env.computeCallGraphs()
	return env, nil
}

func (env *GlobalEnv) validate() error {
	check := func(what string, loc Loc) error {
		if _, err := env.Source(loc); err != nil {
			return fmt.Errorf("%s: %w", what, err)
		}
		return nil
	}
	for id, loc := range env.nodeLocs {
		if err := check(fmt.Sprintf("node %d", id), loc); err != nil {
			return err
		}
	}
	for _, m := range env.modules {
		if err := check("module "+m.Name.String(), m.Loc); err != nil {
			return err
		}
		for _, f := range m.Functions {
			if err := check("function "+f.Name, f.Loc); err != nil {
				return err
			}
			for _, p := range f.Params {
				if err := check("parameter "+p.Name, p.Loc); err != nil {
					return err
				}
			}
		}
		for _, s := range m.Structs {
			if err := check("struct "+s.Name, s.Loc); err != nil {
				return err
			}
		}
		for _, f := range m.SpecFuns {
			if err := check("spec fun "+f.Name, f.Loc); err != nil {
				return err
			}
		}
		for _, sb := range m.SpecBlocks {
			if err := check("spec block", sb.Loc); err != nil {
				return err
			}
		}
	}
	return nil
}

// computeCallGraphs fills Callers/Callees of functions and Callees of spec
// functions from their bodies. Lists are deduplicated and sorted.
func (env *GlobalEnv) computeCallGraphs() {
	less := func(a, b QualifiedFunID) int {
		if a.Module != b.Module {
			return int(a.Module) - int(b.Module)
		}
		return int(a.Fun) - int(b.Fun)
	}

	for _, m := range env.modules {
		for _, f := range m.Functions {
			f.Callees, f.Callers = nil, nil
		}
	}
	for _, m := range env.modules {
		for _, f := range m.Functions {
			f.Def.VisitPreOrder(func(e *Expr) bool {
				if e.Kind() == ExprKindCall && e.Call().Op.Kind == OpMoveFunction {
					callee := e.Call().Op.Fun
					if !slices.Contains(f.Callees, callee) && env.Function(callee) != nil {
						f.Callees = append(f.Callees, callee)
					}
				}
				return true
			})
			slices.SortFunc(f.Callees, less)
		}
	}
	for _, m := range env.modules {
		for _, f := range m.Functions {
			for _, callee := range f.Callees {
				target := env.Function(callee)
				target.Callers = append(target.Callers, f.QualifiedID())
			}
		}
	}
	for _, m := range env.modules {
		for _, f := range m.Functions {
			slices.SortFunc(f.Callers, less)
		}
		for _, sf := range m.SpecFuns {
			sf.Callees = nil
			sf.Body.VisitPreOrder(func(e *Expr) bool {
				if e.Kind() == ExprKindCall && e.Call().Op.Kind == OpSpecFunction {
					callee := e.Call().Op.SpecFun
					if !slices.Contains(sf.Callees, callee) && env.SpecFun(callee) != nil {
						sf.Callees = append(sf.Callees, callee)
					}
				}
				return true
			})
		}
	}
}
