package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/movebit/move-analyzer/format"
	"github.com/movebit/move-analyzer/frontend"
)

type FmtCmd struct {
	Files []string `arg:"" help:"Move source files." type:"existingfile"`

	Write      bool   `help:"Write the result back instead of printing it." short:"w"`
	IndentSize *uint8 `help:"Spaces per indentation level."`
	MaxWidth   *uint8 `help:"Width over which lines are reported."`
}

func (c *FmtCmd) Run() error {
	s := newStyles()
	for _, path := range c.Files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		cfg, err := c.config(filepath.Dir(abs))
		if err != nil {
			return err
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return err
		}
		res, err := format.Format(string(content), cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, line := range res.Overlong {
			fmt.Fprintf(os.Stderr, "%s:%d: %s\n", path, line+1, s.warning.Sprintf("line longer than %d", cfg.MaxWidth))
		}
		if !c.Write {
			fmt.Print(res.Text)
			continue
		}
		if res.Text == string(content) {
			continue
		}
		if err := os.WriteFile(abs, []byte(res.Text), 0644); err != nil {
			return err
		}
	}
	return nil
}

// config reads the formatter settings of the nearest move-analyzer.toml
// above dir, then applies the flags.
func (c *FmtCmd) config(dir string) (frontend.FmtConfig, error) {
	cfg := frontend.DefaultConfig()
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, frontend.ConfigName)); err == nil {
			loaded, err := frontend.LoadConfig(d)
			if err != nil {
				return cfg.Fmt, err
			}
			cfg = loaded
			break
		}
		if filepath.Dir(d) == d {
			break
		}
	}
	f := cfg.Fmt
	if c.IndentSize != nil {
		f.IndentSize = *c.IndentSize
	}
	if c.MaxWidth != nil {
		f.MaxWidth = *c.MaxWidth
	}
	next, err := cfg.WithFmt(f)
	if err != nil {
		return cfg.Fmt, err
	}
	return next.Fmt, nil
}
