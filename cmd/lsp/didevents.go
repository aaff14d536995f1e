package lsp

import (
	"context"

	"github.com/gluax-lang/lsp"

	"github.com/movebit/move-analyzer/common"
)

func (h *Handler) DidOpen(ctx context.Context, p *lsp.DidOpenTextDocumentParams) error {
	path, err := common.URIToFilePath(string(p.TextDocument.URI))
	if err != nil {
		return nil
	}
	h.setText(path, p.TextDocument.Text)
	h.recompile(ctx, path)
	return nil
}

func (h *Handler) DidChange(ctx context.Context, p *lsp.DidChangeTextDocumentParams) error {
	path, err := common.URIToFilePath(string(p.TextDocument.URI))
	if err != nil || len(p.ContentChanges) == 0 {
		return nil
	}
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	h.setText(path, text)
	h.recompile(ctx, path)
	return nil
}

func (h *Handler) DidSave(ctx context.Context, p *lsp.DidSaveTextDocumentParams) error {
	path, err := common.URIToFilePath(string(p.TextDocument.URI))
	if err != nil {
		return nil
	}
	if p.Text != nil {
		h.setText(path, *p.Text)
	}
	h.recompile(ctx, path)
	return nil
}

func (h *Handler) DidClose(ctx context.Context, p *lsp.DidCloseTextDocumentParams) error {
	path, err := common.URIToFilePath(string(p.TextDocument.URI))
	if err != nil {
		return nil
	}
	h.mu.Lock()
	delete(h.fileCache, path)
	projects := h.projects
	h.mu.Unlock()
	if projects != nil {
		projects.DropOverlay(path)
	}
	h.recompile(ctx, path)
	return nil
}

// setText records the editor's content of path; compilations read it instead
// of the file on disk.
func (h *Handler) setText(path, text string) {
	h.mu.Lock()
	h.fileCache[path] = text
	projects := h.projects
	h.mu.Unlock()
	if projects != nil {
		projects.SetOverlay(path, text)
	}
}

func (h *Handler) text(path string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	text, ok := h.fileCache[path]
	return text, ok
}

func (h *Handler) recompile(ctx context.Context, path string) {
	h.mu.Lock()
	projects := h.projects
	h.mu.Unlock()
	if projects == nil {
		return
	}
	for _, p := range projects.Reload(ctx, path) {
		h.publishDiagnostics(p)
	}
}
