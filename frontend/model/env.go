// Package model is the frozen program model the reference engine queries:
// every compiled module of a workspace with its functions, structs,
// specification blocks, expression trees and call graphs, plus the source
// text all of their locations point into.
//
// A GlobalEnv is built once, by a Builder or by Decode, and never mutated
// afterwards, so any number of readers may share it.
package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/movebit/move-analyzer/common"
)

var (
	ErrOutOfRange  = errors.New("span out of range")
	ErrUnknownFile = errors.New("unknown file")
)

type GlobalEnv struct {
	files       []*File
	filesByPath map[string]FileID
	modules     []*Module
	nodeLocs    []Loc
}

func (env *GlobalEnv) Files() []*File {
	return env.files
}

func (env *GlobalEnv) File(id FileID) *File {
	if int(id) >= len(env.files) {
		return nil
	}
	return env.files[id]
}

func (env *GlobalEnv) FileByPath(path string) (*File, bool) {
	id, ok := env.filesByPath[common.FilePathClean(path)]
	if !ok {
		return nil, false
	}
	return env.files[id], true
}

// Source returns the text loc covers.
func (env *GlobalEnv) Source(loc Loc) (string, error) {
	f := env.File(loc.File)
	if f == nil {
		return "", fmt.Errorf("%w: %d", ErrUnknownFile, loc.File)
	}
	if loc.Span.Start > loc.Span.End || loc.Span.End > f.Len() {
		return "", fmt.Errorf("%w: %s in %s (len %d)", ErrOutOfRange, loc.Span, f.Path, f.Len())
	}
	return f.Content[loc.Span.Start:loc.Span.End], nil
}

// Location is the line and column where loc starts.
func (env *GlobalEnv) Location(loc Loc) (Location, bool) {
	f := env.File(loc.File)
	if f == nil {
		return Location{}, false
	}
	return f.Location(loc.Span.Start)
}

// EndLocation is the line and column where loc ends.
func (env *GlobalEnv) EndLocation(loc Loc) (Location, bool) {
	return env.Location(loc.WithSpan(common.SpanAt(loc.Span.End)))
}

// FileAndLocation is Location plus the path of the file.
func (env *GlobalEnv) FileAndLocation(loc Loc) (string, Location, bool) {
	f := env.File(loc.File)
	if f == nil {
		return "", Location{}, false
	}
	pos, ok := f.Location(loc.Span.Start)
	return f.Path, pos, ok
}

func (env *GlobalEnv) NodeLoc(id NodeID) Loc {
	if int(id) >= len(env.nodeLocs) {
		return Loc{}
	}
	return env.nodeLocs[id]
}

func (env *GlobalEnv) NodeCount() int {
	return len(env.nodeLocs)
}

func (env *GlobalEnv) Modules() []*Module {
	return env.modules
}

func (env *GlobalEnv) Module(id ModuleID) *Module {
	if int(id) >= len(env.modules) {
		return nil
	}
	return env.modules[id]
}

func (env *GlobalEnv) FindModule(name ModuleName) (*Module, bool) {
	name.Address = CanonicalAddress(name.Address)
	for _, m := range env.modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

func (env *GlobalEnv) Function(id QualifiedFunID) *Function {
	m := env.Module(id.Module)
	if m == nil {
		return nil
	}
	return m.Function(id.Fun)
}

func (env *GlobalEnv) Struct(id QualifiedStructID) *Struct {
	m := env.Module(id.Module)
	if m == nil {
		return nil
	}
	return m.Struct(id.Struct)
}

func (env *GlobalEnv) SpecFun(id QualifiedSpecFunID) *SpecFun {
	m := env.Module(id.Module)
	if m == nil {
		return nil
	}
	return m.SpecFun(id.Fun)
}

// ModulesByPath returns the modules declared in path. For a specification
// file (one whose name contains ".spec") it also returns every module owning a
// spec block located in that file.
func (env *GlobalEnv) ModulesByPath(path string) []*Module {
	f, ok := env.FileByPath(path)
	if !ok {
		return nil
	}
	spec := common.IsSpecFile(f.Path)

	var out []*Module
	for _, m := range env.modules {
		if m.Loc.File == f.ID {
			out = append(out, m)
			continue
		}
		if spec && slices.ContainsFunc(m.SpecBlocks, func(b SpecBlockInfo) bool { return b.Loc.File == f.ID }) {
			out = append(out, m)
		}
	}
	return out
}
