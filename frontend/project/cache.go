package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

const (
	CacheDir  = ".move-model"
	CacheFile = "model.msgpack"
)

// cacheEntry is the on-disk snapshot of one compilation. It is only reused
// when Hash matches the current sources.
type cacheEntry struct {
	Hash  string               `msgpack:"hash"`
	Diags []*common.Diagnostic `msgpack:"diags"`
	Model []byte               `msgpack:"model"`
}

func cachePath(root string) string {
	return filepath.Join(root, CacheDir, CacheFile)
}

func readCache(root, hash string) (*model.GlobalEnv, []*common.Diagnostic, bool) {
	data, err := os.ReadFile(cachePath(root))
	if err != nil {
		return nil, nil, false
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil || entry.Hash != hash {
		return nil, nil, false
	}
	env, err := model.Decode(bytes.NewReader(entry.Model))
	if err != nil {
		return nil, nil, false
	}
	return env, entry.Diags, true
}

func writeCache(root, hash string, env *model.GlobalEnv, diags []*common.Diagnostic) error {
	var buf bytes.Buffer
	if err := model.Encode(&buf, env); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	data, err := msgpack.Marshal(cacheEntry{Hash: hash, Diags: diags, Model: buf.Bytes()})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	path := cachePath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}
