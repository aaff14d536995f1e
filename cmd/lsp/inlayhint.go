package lsp

import (
	"strings"

	"github.com/gluax-lang/lsp"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
	"github.com/movebit/move-analyzer/frontend/project"
)

// InlayHint labels the arguments of function calls with the names of the
// parameters they bind.
func (h *Handler) InlayHint(p *lsp.InlayHintParams) (any, error) {
	hints := []lsp.InlayHint{}
	h.mu.Lock()
	enabled := h.cfg.InlayHints.Enable
	projects := h.projects
	h.mu.Unlock()
	if !enabled || projects == nil {
		return hints, nil
	}
	path, err := common.URIToFilePath(string(p.TextDocument.URI))
	if err != nil {
		return nil, invalidParams(err)
	}
	proj, ok := projects.GetProject(path)
	if !ok {
		return hints, nil
	}
	proj.RunVisitorForFile(project.VisitorFunc(func(env *model.GlobalEnv, file string) {
		hints = paramHints(env, file)
	}), path)
	return hints, nil
}

func paramHints(env *model.GlobalEnv, path string) []lsp.InlayHint {
	hints := []lsp.InlayHint{}
	f, ok := env.FileByPath(path)
	if !ok {
		return hints
	}
	ri := BuildRuneIndex(f.Content)
	for _, m := range env.ModulesByPath(path) {
		for _, fun := range m.Functions {
			if fun.Def == nil || fun.Loc.File != f.ID {
				continue
			}
			fun.Def.VisitPreOrder(func(e *model.Expr) bool {
				if e.Kind() != model.ExprKindCall {
					return true
				}
				call := e.Call()
				if call.Op.Kind != model.OpMoveFunction {
					return true
				}
				callee := env.Function(call.Op.Fun)
				if callee == nil {
					return true
				}
				for i, arg := range call.Args {
					if i >= len(callee.Params) {
						break
					}
					loc := env.NodeLoc(arg.Node)
					if loc.File != f.ID || !isArgument(f.Content, loc.Span) {
						continue
					}
					name := callee.Params[i].Name
					if f.Content[loc.Start():loc.End()] == name {
						continue
					}
					pos, ok := f.Location(loc.Start())
					if !ok {
						continue
					}
					hints = append(hints, lsp.InlayHint{
						Position: lsp.Position{Line: pos.Line, Character: ri.Character(pos.Line, pos.Column)},
						Label:    []lsp.InlayHintLabelPart{{Value: name + ": "}},
					})
				}
				return true
			})
		}
	}
	return hints
}

// isArgument tells a parenthesized argument from the receiver of a method
// style call.
func isArgument(content string, span common.Span) bool {
	before := strings.TrimRight(content[:span.Start], " \t\r\n")
	after := strings.TrimLeft(content[span.End:], " \t\r\n")
	if before == "" || after == "" {
		return false
	}
	b, a := before[len(before)-1], after[0]
	return (b == '(' || b == ',') && (a == ')' || a == ',')
}
