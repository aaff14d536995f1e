package main

import (
	"context"
	"fmt"
)

// BuildCmd compiles the workspace, which writes the model snapshot of every
// package and records its files in the index.
type BuildCmd struct {
	WorkspaceFlags
}

func (b *BuildCmd) Run() error {
	projects, err := b.load(context.Background())
	if err != nil {
		return err
	}
	defer projects.Close()

	s := newStyles()
	for _, p := range projects.Projects() {
		env := p.Env()
		fmt.Printf("%s %s: %d modules, %d files\n",
			s.path.Sprint(p.Name()), p.Root, len(env.Modules()), len(p.Files()))
	}
	return nil
}
