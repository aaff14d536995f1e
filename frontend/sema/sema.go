// Package sema elaborates parsed Move sources into a model.GlobalEnv.
//
// Elaboration runs in passes over all files at once: modules are registered
// first so that `use` clauses can refer to modules declared later, then
// members, then signatures, and finally function bodies and specification
// blocks are lowered into model expressions.
package sema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

type Span = common.Span
type Diagnostic = common.Diagnostic

// Source is one file handed to Compile.
type Source struct {
	Path string
	Code string
}

// Compile elaborates sources into an environment. Syntax and resolution
// problems come back as diagnostics; the error is set only when the resulting
// environment is inconsistent.
func Compile(sources []Source, addresses map[string]string) (*model.GlobalEnv, []*Diagnostic, error) {
	sources = slices.Clone(sources)
	slices.SortFunc(sources, func(x, y Source) int { return strings.Compare(x.Path, y.Path) })

	a := newAnalysis(addresses)
	for _, src := range sources {
		a.addSource(src)
	}
	a.registerModules()
	a.registerMembers()
	a.resolveSignatures()
	a.lowerBodies()

	env, err := a.b.Build()
	if err != nil {
		return nil, a.Diags, fmt.Errorf("building model: %w", err)
	}
	return env, a.Diags, nil
}
