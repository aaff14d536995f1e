package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/movebit/move-analyzer/frontend"
)

type NewCmd struct {
	Name string `arg:"" required:"" help:"Name of the new package."`
}

func (n *NewCmd) Run() error {
	projectDir := n.Name
	if err := os.MkdirAll(filepath.Join(projectDir, "sources"), 0755); err != nil {
		return err
	}

	// .gitignore
	gitignoreContent := "build/\n.move-analyzer/\n"
	if err := os.WriteFile(filepath.Join(projectDir, ".gitignore"), []byte(gitignoreContent), 0644); err != nil {
		return err
	}

	// Move.toml
	tomlContent := fmt.Sprintf("[package]\nname = %q\nversion = \"0.0.1\"\n\n[addresses]\n%s = \"_\"\n\n[dev-addresses]\n%s = \"0x42\"\n", n.Name, n.Name, n.Name)
	if _, err := frontend.HandleMoveToml(tomlContent); err != nil {
		return fmt.Errorf("invalid package name %q: %w", n.Name, err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, frontend.ManifestName), []byte(tomlContent), 0644); err != nil {
		return err
	}

	// sources/<name>.move
	moduleContent := fmt.Sprintf("module %s::%s {\n}\n", n.Name, n.Name)
	if err := os.WriteFile(filepath.Join(projectDir, "sources", n.Name+".move"), []byte(moduleContent), 0644); err != nil {
		return err
	}

	return nil
}
