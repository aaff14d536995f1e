package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/movebit/move-analyzer/common"
)

type CheckCmd struct {
	WorkspaceFlags
}

func (c *CheckCmd) Run() error {
	projects, err := c.load(context.Background())
	if err != nil {
		return err
	}
	defer projects.Close()

	s := newStyles()
	errors := 0
	for _, p := range projects.Projects() {
		env := p.Env()
		byFile := p.Diagnostics()
		paths := make([]string, 0, len(byFile))
		for path := range byFile {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			f, ok := env.FileByPath(path)
			for _, d := range byFile[path] {
				pos := d.Span.String()
				if ok {
					if loc, found := f.Location(d.Span.Start); found {
						pos = fmt.Sprintf("%d:%d", loc.Line+1, loc.Column+1)
					}
				}
				label := s.warning.Sprint("warning")
				if d.Severity == common.SeverityError {
					label = s.err.Sprint("error")
					errors++
				}
				fmt.Printf("%s:%s: %s: %s\n", s.path.Sprint(path), s.pos.Sprint(pos), label, d.Message)
			}
		}
	}
	if errors > 0 {
		fmt.Fprintf(os.Stderr, "%d errors\n", errors)
		return fmt.Errorf("check failed")
	}
	return nil
}
