// Package references answers find-references requests: given a cursor in a
// Move source file it returns every location that names the same function,
// struct, field, local or parameter as the one under the cursor.
//
// A Handler is run against the model of the project owning the file, once
// per request. Resolution reads the model only, so handlers for different
// requests may run against the same model at the same time.
package references

import (
	"fmt"
	"log"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

// tracer logs resolution steps when set.
type tracer bool

func (t tracer) logf(format string, args ...any) {
	if t {
		log.Printf(format, args...)
	}
}

// Handler resolves one cursor, 0-based line and column. It implements
// project.Visitor.
type Handler struct {
	Path string
	Line uint32
	Col  uint32
	// Verbose traces every resolution step.
	Verbose bool

	sets []candidateSet
}

func NewHandler(path string, line, col uint32) *Handler {
	return &Handler{Path: path, Line: line, Col: col}
}

// HandleProjectEnv searches every module the file holds. Specification
// files are searched through their spec blocks only.
func (h *Handler) HandleProjectEnv(env *model.GlobalEnv, path string) {
	trace := tracer(h.Verbose)
	f, ok := env.FileByPath(path)
	if !ok {
		trace.logf("references: %s is not part of the model", path)
		return
	}
	mods := env.ModulesByPath(path)
	if len(mods) == 0 {
		trace.logf("references: no module in %s", path)
		return
	}
	spec := common.IsSpecFile(path)
	for _, m := range mods {
		l := &locator{tracer: trace, env: env, mod: m, file: f.ID, line: h.Line, col: h.Col}
		if spec {
			h.sets = append(h.sets, l.specBlocks(false)...)
			continue
		}
		h.sets = append(h.sets, l.function()...)
		h.sets = append(h.sets, l.structure()...)
		h.sets = append(h.sets, l.specBlocks(true)...)
	}
}

// Result returns the references of the innermost construct found and
// resets the handler.
func (h *Handler) Result() []common.FileRange {
	out := innermost(h.sets)
	h.sets = nil
	return out
}

func (h *Handler) String() string {
	return fmt.Sprintf("reference, file:%q line:%d col:%d", h.Path, h.Line, h.Col)
}

// Find resolves a cursor directly against env.
func Find(env *model.GlobalEnv, path string, line, col uint32) []common.FileRange {
	h := NewHandler(path, line, col)
	h.HandleProjectEnv(env, path)
	return h.Result()
}
