package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestSrc = `[package]
name = "coin"
version = "0.1.0"

[addresses]
std = "0x1"
coin = "_"

[dev-addresses]
coin = "0xc0"

[dependencies]
MoveStdlib = { local = "../move-stdlib" }
Framework = { git = "https://github.com/org/framework.git", rev = "main", subdir = "aptos-framework" }
`

func TestHandleMoveToml(t *testing.T) {
	mt, err := HandleMoveToml(manifestSrc)
	require.NoError(t, err)
	assert.Equal(t, "coin", mt.Package.Name)
	assert.Equal(t, map[string]string{"std": "0x1"}, mt.NamedAddresses(false))
	assert.Equal(t, map[string]string{"std": "0x1", "coin": "0xc0"}, mt.NamedAddresses(true))
}

func TestHandleMoveTomlValidation(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing package name", "[package]\nversion = \"1\"\n"},
		{"dependency without source", "[package]\nname = \"a\"\n[dependencies]\nX = { subdir = \"x\" }\n"},
		{"git without rev", "[package]\nname = \"a\"\n[dependencies]\nX = { git = \"https://x\" }\n"},
		{"broken toml", "[package\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HandleMoveToml(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestDependencyRoots(t *testing.T) {
	mt, err := HandleMoveToml(manifestSrc)
	require.NoError(t, err)
	roots := mt.DependencyRoots("/ws/coin", "/home/u/.move")
	assert.Equal(t, []string{
		"/home/u/.move/https_github_com_org_framework_main/aptos-framework",
		"/ws/move-stdlib",
	}, roots)
}

func TestLoadMoveToml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifestSrc), 0o644))
	mt, err := LoadMoveToml(dir)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", mt.Package.Version)

	_, err = LoadMoveToml(t.TempDir())
	assert.Error(t, err)
}
