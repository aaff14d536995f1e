package frontend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const ConfigName = "move-analyzer.toml"

// FmtConfig drives the formatter. It is also the payload of the
// `move/lsp/movefmt/config` request.
type FmtConfig struct {
	Enable     bool  `toml:"enable" json:"enable"`
	MaxWidth   uint8 `toml:"max_width" json:"max_width" validate:"min=1"`
	IndentSize uint8 `toml:"indent_size" json:"indent_size" validate:"min=1,max=16"`
}

// InlayHintsConfig is the payload of `move/lsp/client/inlay_hints/config`.
type InlayHintsConfig struct {
	Enable bool `toml:"enable" json:"enable"`
}

type IndexConfig struct {
	// Path of the sqlite file index, relative to the workspace root.
	Path string `toml:"path" json:"path" validate:"required"`
}

// Config is the analyzer configuration of one workspace.
type Config struct {
	Fmt        FmtConfig        `toml:"fmt" json:"movefmt"`
	Index      IndexConfig      `toml:"index" json:"index"`
	InlayHints InlayHintsConfig `toml:"inlay_hints" json:"inlay_hints"`
	// Dev includes dev-addresses when compiling.
	Dev bool `toml:"dev" json:"dev"`
}

func DefaultFmtConfig() FmtConfig {
	return FmtConfig{Enable: false, MaxWidth: 90, IndentSize: 4}
}

func DefaultConfig() Config {
	return Config{
		Fmt:        DefaultFmtConfig(),
		Index:      IndexConfig{Path: filepath.Join(".move-analyzer", "index.db")},
		InlayHints: InlayHintsConfig{Enable: true},
	}
}

func HandleConfigToml(tomlContent string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(tomlContent, &cfg); err != nil {
		return cfg, err
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfig reads move-analyzer.toml from the workspace root. A missing file
// yields the defaults.
func LoadConfig(root string) (Config, error) {
	path := filepath.Join(root, ConfigName)
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), err
	}
	cfg, err := HandleConfigToml(string(content))
	if err != nil {
		return DefaultConfig(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Override applies JSON settings sent by the client, such as LSP
// initializationOptions, on top of c. Fields absent from raw keep their
// value. The result is validated; on error c is returned unchanged.
func (c Config) Override(raw json.RawMessage) (Config, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return c, nil
	}
	next := c
	if err := json.Unmarshal(raw, &next); err != nil {
		return c, err
	}
	if err := validate.Struct(next); err != nil {
		return c, err
	}
	return next, nil
}

// WithFmt replaces the formatter settings after validating them.
func (c Config) WithFmt(f FmtConfig) (Config, error) {
	if err := validate.Struct(f); err != nil {
		return c, err
	}
	c.Fmt = f
	return c, nil
}
