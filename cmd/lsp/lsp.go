// Package lsp serves the analyzer over the Language Server Protocol on a
// JSON-RPC 2.0 stream.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/gluax-lang/lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend"
	"github.com/movebit/move-analyzer/frontend/project"
)

func RunLSP() error {
	return Serve(context.Background(), stdio{})
}

// Serve answers requests read from rwc until the client disconnects.
func Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	h := NewHandler()
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(h.handle))
	<-conn.DisconnectNotify()
	h.close()
	return nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }

type Handler struct {
	mu        sync.Mutex
	conn      *jsonrpc2.Conn
	workspace string
	cfg       frontend.Config
	projects  *project.ProjectSet
	watcher   *project.Watcher
	fileCache map[string]string
	shutdown  bool
}

func NewHandler() *Handler {
	return &Handler{
		cfg:       frontend.DefaultConfig(),
		fileCache: make(map[string]string),
	}
}

// Methods the analyzer adds on top of the protocol.
const (
	methodReload          = "move/reload"
	methodFmtConfig       = "move/lsp/movefmt/config"
	methodInlayHintConfig = "move/lsp/client/inlay_hints/config"
)

func (h *Handler) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	h.mu.Lock()
	down := h.shutdown
	h.mu.Unlock()
	if down && req.Method != "exit" {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "server is shutting down"}
	}

	switch req.Method {
	case "initialize":
		var params initializeParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return h.Initialize(conn, &params)

	case "initialized":
		h.Initialized(ctx)
		return nil, nil

	case "shutdown":
		h.mu.Lock()
		h.shutdown = true
		h.mu.Unlock()
		log.Println("Received shutdown request, waiting for exit notification")
		return nil, nil

	case "exit":
		log.Println("Received exit notification, exiting")
		return nil, conn.Close()

	case "textDocument/references":
		var params lsp.ReferenceParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return h.References(&params)

	case "textDocument/formatting":
		var params formattingParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return h.Formatting(&params)

	case "textDocument/inlayHint":
		var params lsp.InlayHintParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return h.InlayHint(&params)

	case "textDocument/didOpen":
		var params lsp.DidOpenTextDocumentParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return nil, h.DidOpen(ctx, &params)

	case "textDocument/didChange":
		var params lsp.DidChangeTextDocumentParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return nil, h.DidChange(ctx, &params)

	case "textDocument/didSave":
		var params lsp.DidSaveTextDocumentParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return nil, h.DidSave(ctx, &params)

	case "textDocument/didClose":
		var params lsp.DidCloseTextDocumentParams
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return nil, h.DidClose(ctx, &params)

	case methodReload:
		return h.Reload(ctx), nil

	case methodFmtConfig:
		var params frontend.FmtConfig
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return h.SetFmtConfig(params)

	case methodInlayHintConfig:
		var params frontend.InlayHintsConfig
		if err := decode(req, &params); err != nil {
			return nil, err
		}
		return h.SetInlayHintsConfig(params), nil
	}

	if req.Notif {
		return nil, nil
	}
	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "Method not implemented: " + req.Method}
}

func decode(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

func invalidParams(err error) error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
}

type workspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type initializeParams struct {
	RootURI               string            `json:"rootUri,omitempty"`
	WorkspaceFolders      []workspaceFolder `json:"workspaceFolders,omitempty"`
	InitializationOptions json.RawMessage   `json:"initializationOptions,omitempty"`
}

func (p *initializeParams) root() (string, error) {
	if len(p.WorkspaceFolders) > 0 {
		return common.URIToFilePath(p.WorkspaceFolders[0].URI)
	}
	if p.RootURI != "" {
		return common.URIToFilePath(p.RootURI)
	}
	return "", fmt.Errorf("no workspace folder detected")
}

func (h *Handler) Initialize(conn *jsonrpc2.Conn, p *initializeParams) (any, error) {
	root, err := p.root()
	if err != nil {
		return nil, invalidParams(err)
	}
	log.Printf("root: %s", root)

	cfg, err := frontend.LoadConfig(root)
	if err != nil {
		log.Printf("Error loading config: %v", err)
	}
	if next, err := cfg.Override(p.InitializationOptions); err != nil {
		log.Printf("Error applying initialization options: %v", err)
	} else {
		cfg = next
	}

	projects, err := project.NewProjectSet(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening file index: %w", err)
	}

	h.mu.Lock()
	h.conn = conn
	h.workspace = common.FilePathClean(root)
	h.cfg = cfg
	h.projects = projects
	h.mu.Unlock()

	return map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync": map[string]any{
				"openClose": true,
				"change":    1, // full
				"save":      map[string]any{"includeText": true},
			},
			"referencesProvider":         true,
			"documentFormattingProvider": true,
			"inlayHintProvider":          true,
		},
		"serverInfo": map[string]any{"name": "move-analyzer"},
	}, nil
}

// Initialized compiles the workspace and starts watching it. Requests are
// handled in order, so nothing is answered before the models exist.
func (h *Handler) Initialized(ctx context.Context) {
	h.mu.Lock()
	projects := h.projects
	h.mu.Unlock()
	if projects == nil {
		return
	}
	if err := projects.Load(ctx); err != nil {
		log.Printf("Error loading projects: %v", err)
		return
	}
	for _, p := range projects.Projects() {
		h.publishDiagnostics(p)
	}
	w, err := projects.Watch(h.publishDiagnostics)
	if err != nil {
		log.Printf("Error watching workspace: %v", err)
		return
	}
	h.mu.Lock()
	h.watcher = w
	h.mu.Unlock()
}

// Reload discovers and compiles the workspace again and returns the roots
// of the projects found.
func (h *Handler) Reload(ctx context.Context) []string {
	h.mu.Lock()
	projects := h.projects
	h.mu.Unlock()
	roots := []string{}
	if projects == nil {
		return roots
	}
	if err := projects.Load(ctx); err != nil {
		log.Printf("Error reloading projects: %v", err)
		return roots
	}
	for _, p := range projects.Projects() {
		roots = append(roots, p.Root)
		h.publishDiagnostics(p)
	}
	return roots
}

func (h *Handler) SetFmtConfig(f frontend.FmtConfig) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cfg, err := h.cfg.WithFmt(f)
	if err != nil {
		return nil, invalidParams(err)
	}
	h.cfg = cfg
	log.Printf("movefmt config: %+v", cfg.Fmt)
	return nil, nil
}

func (h *Handler) SetInlayHintsConfig(c frontend.InlayHintsConfig) any {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg.InlayHints = c
	log.Printf("inlay hints config: %+v", c)
	return nil
}

func (h *Handler) notify(method string, params any) {
	h.mu.Lock()
	conn := h.conn
	h.mu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.Notify(context.Background(), method, params); err != nil {
		log.Printf("Error sending %s: %v", method, err)
	}
}

func (h *Handler) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
	if h.projects != nil {
		_ = h.projects.Close()
	}
}
