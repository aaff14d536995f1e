package lsp

import (
	"log"

	"github.com/gluax-lang/lsp"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
	"github.com/movebit/move-analyzer/frontend/project"
	"github.com/movebit/move-analyzer/references"
)

type message struct {
	Msg string `json:"msg"`
}

var noProject = message{Msg: "No available project"}

// References answers with every location naming the entity under the
// cursor. The declaration is always part of the answer.
func (h *Handler) References(p *lsp.ReferenceParams) (any, error) {
	path, err := common.URIToFilePath(string(p.TextDocument.URI))
	if err != nil {
		return nil, invalidParams(err)
	}

	h.mu.Lock()
	projects := h.projects
	h.mu.Unlock()
	if projects == nil {
		return noProject, nil
	}
	proj, ok := projects.GetProject(path)
	if !ok {
		log.Printf("references: no project for %s", path)
		return noProject, nil
	}

	locations := []lsp.Location{}
	rh := references.NewHandler(path, p.Position.Line, 0)
	visit := project.VisitorFunc(func(env *model.GlobalEnv, file string) {
		f, ok := env.FileByPath(file)
		if !ok {
			return
		}
		rh.Col = BuildRuneIndex(f.Content).Column(p.Position)
		rh.HandleProjectEnv(env, file)
		indexes := make(map[string]RuneIndex)
		for _, r := range rh.Result() {
			locations = append(locations, toLocation(env, indexes, r))
		}
	})
	if !proj.RunVisitorForFile(visit, path) {
		log.Printf("references: %s is not compiled by %s", path, proj.Root)
	}
	log.Printf("%s: %d locations", rh, len(locations))
	return locations, nil
}

// toLocation converts the rune columns of r to UTF-16.
func toLocation(env *model.GlobalEnv, indexes map[string]RuneIndex, r common.FileRange) lsp.Location {
	ri, ok := indexes[r.Path]
	if !ok {
		if f, found := env.FileByPath(r.Path); found {
			ri = BuildRuneIndex(f.Content)
		}
		indexes[r.Path] = ri
	}
	r.ColStart = ri.Character(r.LineStart, r.ColStart)
	r.ColEnd = ri.Character(r.LineEnd, r.ColEnd)
	return r.ToLocation()
}
