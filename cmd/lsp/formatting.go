package lsp

import (
	"fmt"
	"log"
	"os"

	"github.com/gluax-lang/lsp"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/format"
)

type formattingParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type textEdit struct {
	Range   lsp.Range `json:"range"`
	NewText string    `json:"newText"`
}

var fmtDisabled = message{Msg: "movefmt disenabled."}

// Formatting replaces the whole document with its formatted text. The edit
// runs to the larger of the old and the new line counts.
func (h *Handler) Formatting(p *formattingParams) (any, error) {
	h.mu.Lock()
	cfg := h.cfg.Fmt
	h.mu.Unlock()
	if !cfg.Enable {
		log.Println("movefmt disenabled.")
		return fmtDisabled, nil
	}

	path, err := common.URIToFilePath(p.TextDocument.URI)
	if err != nil {
		return nil, invalidParams(err)
	}
	text, ok := h.text(path)
	if !ok {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		text = string(content)
	}

	res, err := format.Format(text, cfg)
	if err != nil {
		return nil, err
	}
	if len(res.Overlong) > 0 {
		log.Printf("movefmt: %s has %d lines over %d columns", path, len(res.Overlong), cfg.MaxWidth)
	}
	end := max(format.LineCount(text), format.LineCount(res.Text))
	return []textEdit{{
		Range: lsp.Range{
			Start: lsp.Position{Line: 0, Character: 0},
			End:   lsp.Position{Line: end, Character: 0},
		},
		NewText: res.Text,
	}}, nil
}
