package lsp

import (
	"github.com/gluax-lang/lsp"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
	"github.com/movebit/move-analyzer/frontend/project"
)

type publishDiagnosticsParams struct {
	URI         string           `json:"uri"`
	Diagnostics []lsp.Diagnostic `json:"diagnostics"`
}

// publishDiagnostics sends the problems of every file p compiled, clearing
// those of files that compile cleanly now.
func (h *Handler) publishDiagnostics(p *project.Project) {
	env := p.Env()
	if env == nil {
		return
	}
	for path, diags := range p.Diagnostics() {
		params := publishDiagnosticsParams{
			URI:         common.FilePathToURI(path),
			Diagnostics: []lsp.Diagnostic{},
		}
		f, ok := env.FileByPath(path)
		for _, d := range diags {
			if !ok {
				break
			}
			params.Diagnostics = append(params.Diagnostics, toDiagnostic(f, d))
		}
		h.notify("textDocument/publishDiagnostics", params)
	}
}

func toDiagnostic(f *model.File, d *common.Diagnostic) lsp.Diagnostic {
	ri := BuildRuneIndex(f.Content)
	start, _ := f.Location(d.Span.Start)
	end, _ := f.Location(d.Span.End)
	r := common.FileRange{
		Path:      f.Path,
		LineStart: start.Line,
		ColStart:  ri.Character(start.Line, start.Column),
		LineEnd:   end.Line,
		ColEnd:    ri.Character(end.Line, end.Column),
	}
	var severity lsp.DiagnosticSeverity = lsp.DiagnosticSeverityError
	if d.Severity == common.SeverityWarning {
		severity = lsp.DiagnosticSeverityWarning
	}
	return lsp.Diagnostic{
		Severity: &severity,
		Message:  d.Message,
		Range:    r.ToRange(),
	}
}
