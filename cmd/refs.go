package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/project"
	"github.com/movebit/move-analyzer/references"
)

type RefsCmd struct {
	WorkspaceFlags

	File string `arg:"" help:"Move source file." type:"path"`
	Line uint32 `arg:"" help:"0-based line."`
	Col  uint32 `arg:"" help:"0-based column, in characters."`

	JSON    bool `help:"Print the ranges as JSON." name:"json"`
	Verbose bool `help:"Trace resolution steps." short:"v"`
}

func (r *RefsCmd) Run() error {
	projects, err := r.load(context.Background())
	if err != nil {
		return err
	}
	defer projects.Close()

	path, err := filepath.Abs(r.File)
	if err != nil {
		return err
	}
	path = common.FilePathClean(path)
	proj, ok := projects.GetProject(path)
	if !ok {
		return fmt.Errorf("%s: %w", path, project.ErrNoProject)
	}

	h := references.NewHandler(path, r.Line, r.Col)
	h.Verbose = r.Verbose
	if !proj.RunVisitorForFile(h, path) {
		return fmt.Errorf("%s is not compiled by %s", path, proj.Root)
	}
	ranges := h.Result()

	if r.JSON {
		out, err := json.Marshal(ranges)
		if err != nil {
			return err
		}
		out = pretty.Pretty(out)
		if r.Color == "always" {
			out = pretty.Color(out, nil)
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	s := newStyles()
	sources := make(map[string][]string)
	for _, rg := range ranges {
		lines, ok := sources[rg.Path]
		if !ok {
			content, err := os.ReadFile(rg.Path)
			if err == nil {
				lines = strings.Split(string(content), "\n")
			}
			sources[rg.Path] = lines
		}
		fmt.Printf("%s:%s  %s\n",
			s.path.Sprint(rg.Path),
			s.pos.Sprintf("%d:%d-%d:%d", rg.LineStart, rg.ColStart, rg.LineEnd, rg.ColEnd),
			snippet(s, lines, rg))
	}
	if len(ranges) == 0 {
		fmt.Println("no references")
	}
	return nil
}

// snippet renders the line of rg with the range highlighted.
func snippet(s *styles, lines []string, rg common.FileRange) string {
	if int(rg.LineStart) >= len(lines) {
		return ""
	}
	line := []rune(strings.TrimRight(lines[rg.LineStart], "\r"))
	start := min(int(rg.ColStart), len(line))
	end := len(line)
	if rg.LineEnd == rg.LineStart {
		end = max(start, min(int(rg.ColEnd), len(line)))
	}
	return strings.TrimSpace(string(line[:start]) + s.match.Sprint(string(line[start:end])) + string(line[end:]))
}
