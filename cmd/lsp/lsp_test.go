package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gluax-lang/lsp"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movebit/move-analyzer/common"
)

const pointSrc = `module 0x1::point {
    struct Point has copy, drop { x: u64, y: u64 }

    fun new(x: u64, y: u64): Point {
        Point { x, y }
    }

    fun origin(): Point {
        /* 😀 */ new(0, 0)
    }
}
`

type client struct {
	conn  *jsonrpc2.Conn
	mu    sync.Mutex
	notes []*jsonrpc2.Request
}

func (c *client) handle(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, req)
	return nil, nil
}

func (c *client) call(t *testing.T, method string, params, result any) error {
	t.Helper()
	return c.conn.Call(context.Background(), method, params, result)
}

func (c *client) diagnostics(uri string) []publishDiagnosticsParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []publishDiagnosticsParams
	for _, n := range c.notes {
		if n.Method != "textDocument/publishDiagnostics" || n.Params == nil {
			continue
		}
		var p publishDiagnosticsParams
		if err := json.Unmarshal(*n.Params, &p); err == nil && p.URI == uri {
			out = append(out, p)
		}
	}
	return out
}

func workspace(t *testing.T) (root, uri string) {
	t.Helper()
	root = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sources"), 0755))
	manifest := "[package]\nname = \"point\"\nversion = \"0.0.1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "Move.toml"), []byte(manifest), 0644))
	path := filepath.Join(root, "sources", "point.move")
	require.NoError(t, os.WriteFile(path, []byte(pointSrc), 0644))
	return root, common.FilePathToURI(common.FilePathClean(path))
}

func start(t *testing.T, root string, options any) *client {
	t.Helper()
	server, peer := net.Pipe()
	done := make(chan error, 1)
	go func() { done <- Serve(context.Background(), server) }()

	c := &client{}
	stream := jsonrpc2.NewBufferedStream(peer, jsonrpc2.VSCodeObjectCodec{})
	c.conn = jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(c.handle))
	t.Cleanup(func() {
		_ = c.conn.Close()
		<-done
	})

	params := map[string]any{
		"workspaceFolders": []map[string]string{{"uri": common.FilePathToURI(root), "name": "ws"}},
	}
	if options != nil {
		params["initializationOptions"] = options
	}
	var result struct {
		Capabilities map[string]any `json:"capabilities"`
	}
	require.NoError(t, c.call(t, "initialize", params, &result))
	assert.Equal(t, true, result.Capabilities["referencesProvider"])
	assert.Equal(t, true, result.Capabilities["documentFormattingProvider"])
	require.NoError(t, c.conn.Notify(context.Background(), "initialized", map[string]any{}))
	return c
}

func referenceParams(uri string, line, char uint32) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": char},
		"context":      map[string]any{"includeDeclaration": true},
	}
}

func TestReferencesConvertsUTF16(t *testing.T) {
	root, uri := workspace(t)
	c := start(t, root, nil)

	// The emoji before the call is one rune but two UTF-16 units: `new`
	// is at rune column 16 and character 17.
	var got []lsp.Location
	require.NoError(t, c.call(t, "textDocument/references", referenceParams(uri, 8, 18), &got))
	require.Len(t, got, 1)
	assert.Equal(t, uri, string(got[0].URI))
	assert.Equal(t, lsp.Position{Line: 8, Character: 17}, got[0].Range.Start)
	assert.Equal(t, lsp.Position{Line: 8, Character: 20}, got[0].Range.End)
}

func TestReferencesWithoutProject(t *testing.T) {
	root, _ := workspace(t)
	c := start(t, root, nil)

	var got message
	other := common.FilePathToURI(filepath.Join(t.TempDir(), "loose.move"))
	require.NoError(t, c.call(t, "textDocument/references", referenceParams(other, 0, 0), &got))
	assert.Equal(t, "No available project", got.Msg)
}

func TestReferencesRejectsMalformedURI(t *testing.T) {
	root, _ := workspace(t)
	c := start(t, root, nil)

	var got any
	err := c.call(t, "textDocument/references", referenceParams("http://example.com/a.move", 0, 0), &got)
	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(jsonrpc2.CodeInvalidParams), rpcErr.Code)
}

func TestReferencesEmptyIsList(t *testing.T) {
	root, uri := workspace(t)
	c := start(t, root, nil)

	var raw json.RawMessage
	require.NoError(t, c.call(t, "textDocument/references", referenceParams(uri, 2, 0), &raw))
	assert.JSONEq(t, "[]", string(raw))
}

func formattingParams(uri string) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"options":      map[string]any{"tabSize": 4, "insertSpaces": true},
	}
}

func TestFormattingDisabledByDefault(t *testing.T) {
	root, uri := workspace(t)
	c := start(t, root, nil)

	var got message
	require.NoError(t, c.call(t, "textDocument/formatting", formattingParams(uri), &got))
	assert.Equal(t, "movefmt disenabled.", got.Msg)
}

func TestFormattingOpenDocument(t *testing.T) {
	root, uri := workspace(t)
	c := start(t, root, map[string]any{"movefmt": map[string]any{"enable": true}})

	messy := strings.ReplaceAll(pointSrc, "    ", "  ") + "\n\n\n"
	open := map[string]any{"textDocument": map[string]any{
		"uri": uri, "languageId": "move", "version": 1, "text": messy,
	}}
	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didOpen", open))

	var got []textEdit
	require.NoError(t, c.call(t, "textDocument/formatting", formattingParams(uri), &got))
	require.Len(t, got, 1)
	assert.Equal(t, pointSrc, got[0].NewText)
	assert.Equal(t, lsp.Position{}, got[0].Range.Start)
	assert.Equal(t, lsp.Position{Line: 14}, got[0].Range.End)
}

func TestFmtConfigRequest(t *testing.T) {
	root, uri := workspace(t)
	c := start(t, root, nil)

	bad := map[string]any{"enable": true, "max_width": 90, "indent_size": 0}
	err := c.call(t, methodFmtConfig, bad, nil)
	assert.Error(t, err)

	good := map[string]any{"enable": true, "max_width": 90, "indent_size": 2}
	require.NoError(t, c.call(t, methodFmtConfig, good, nil))

	var got []textEdit
	require.NoError(t, c.call(t, "textDocument/formatting", formattingParams(uri), &got))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].NewText, "\n  struct Point")
}

type hint struct {
	Position lsp.Position `json:"position"`
	Label    []struct {
		Value string `json:"value"`
	} `json:"label"`
}

func TestInlayHints(t *testing.T) {
	root, uri := workspace(t)
	c := start(t, root, nil)

	params := map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"range": map[string]any{
			"start": map[string]any{"line": 0, "character": 0},
			"end":   map[string]any{"line": 11, "character": 0},
		},
	}
	var got []hint
	require.NoError(t, c.call(t, "textDocument/inlayHint", params, &got))
	require.Len(t, got, 2)
	assert.Equal(t, lsp.Position{Line: 8, Character: 21}, got[0].Position)
	assert.Equal(t, "x: ", got[0].Label[0].Value)
	assert.Equal(t, lsp.Position{Line: 8, Character: 24}, got[1].Position)
	assert.Equal(t, "y: ", got[1].Label[0].Value)

	require.NoError(t, c.call(t, methodInlayHintConfig, map[string]any{"enable": false}, nil))
	got = nil
	require.NoError(t, c.call(t, "textDocument/inlayHint", params, &got))
	assert.Empty(t, got)
}

func TestDidChangePublishesDiagnostics(t *testing.T) {
	root, uri := workspace(t)
	c := start(t, root, nil)

	broken := strings.Replace(pointSrc, "fun origin", "fun new", 1)
	change := map[string]any{
		"textDocument":   map[string]any{"uri": uri, "version": 2},
		"contentChanges": []map[string]any{{"text": broken}},
	}
	require.NoError(t, c.conn.Notify(context.Background(), "textDocument/didChange", change))
	// Requests are answered in order, so the notification has arrived once
	// this returns.
	var roots []string
	require.NoError(t, c.call(t, "move/reload", map[string]any{}, &roots))

	published := c.diagnostics(uri)
	require.NotEmpty(t, published)
	var messages []string
	for _, p := range published {
		for _, d := range p.Diagnostics {
			messages = append(messages, d.Message)
		}
	}
	assert.Contains(t, messages, "duplicate function new")
}

func TestUnknownMethod(t *testing.T) {
	root, _ := workspace(t)
	c := start(t, root, nil)

	err := c.call(t, "textDocument/hover", map[string]any{}, nil)
	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
}
