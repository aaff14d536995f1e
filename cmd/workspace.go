package main

import (
	"context"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/movebit/move-analyzer/frontend"
	"github.com/movebit/move-analyzer/frontend/project"
)

// WorkspaceFlags are shared by the commands that compile a workspace.
type WorkspaceFlags struct {
	Workspace string `help:"Workspace directory." short:"w" default:"." type:"path"`
	Color     string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
}

func (w WorkspaceFlags) load(ctx context.Context) (*project.ProjectSet, error) {
	switch w.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	root, err := filepath.Abs(w.Workspace)
	if err != nil {
		return nil, err
	}
	cfg, err := frontend.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	projects, err := project.NewProjectSet(root, cfg)
	if err != nil {
		return nil, err
	}
	if err := projects.Load(ctx); err != nil {
		_ = projects.Close()
		return nil, err
	}
	return projects, nil
}

// styles holds the color formatters of human readable output.
type styles struct {
	path    *color.Color
	pos     *color.Color
	match   *color.Color
	err     *color.Color
	warning *color.Color
}

func newStyles() *styles {
	return &styles{
		path:    color.New(color.Bold, color.FgHiBlue),
		pos:     color.New(color.FgHiGreen),
		match:   color.New(color.FgYellow),
		err:     color.New(color.Bold, color.FgRed),
		warning: color.New(color.Bold, color.FgYellow),
	}
}
