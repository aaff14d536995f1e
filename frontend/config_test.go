package frontend

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, cfg.Fmt.Enable)
	assert.Equal(t, uint8(90), cfg.Fmt.MaxWidth)
	assert.Equal(t, uint8(4), cfg.Fmt.IndentSize)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	src := "[fmt]\nenable = true\nindent_size = 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(src), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Fmt.Enable)
	assert.Equal(t, uint8(2), cfg.Fmt.IndentSize)
	assert.Equal(t, uint8(90), cfg.Fmt.MaxWidth)
}

func TestHandleConfigTomlRejectsIndent(t *testing.T) {
	_, err := HandleConfigToml("[fmt]\nindent_size = 40\n")
	assert.Error(t, err)
}

func TestConfigOverride(t *testing.T) {
	cfg := DefaultConfig()

	next, err := cfg.Override(json.RawMessage(`{"movefmt": {"enable": true, "max_width": 120}}`))
	require.NoError(t, err)
	assert.True(t, next.Fmt.Enable)
	assert.Equal(t, uint8(120), next.Fmt.MaxWidth)
	assert.Equal(t, uint8(4), next.Fmt.IndentSize)

	same, err := cfg.Override(nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, same)

	kept, err := cfg.Override(json.RawMessage(`{"movefmt": {"indent_size": 0}}`))
	assert.Error(t, err)
	assert.Equal(t, cfg, kept)
}

func TestConfigWithFmt(t *testing.T) {
	cfg, err := DefaultConfig().WithFmt(FmtConfig{Enable: true, MaxWidth: 80, IndentSize: 2})
	require.NoError(t, err)
	assert.Equal(t, uint8(80), cfg.Fmt.MaxWidth)

	_, err = DefaultConfig().WithFmt(FmtConfig{})
	assert.Error(t, err)
}
