package project

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/movebit/move-analyzer/frontend"
)

var skipDirs = map[string]bool{
	"build":          true,
	"node_modules":   true,
	".git":           true,
	".move-model":    true,
	".move-analyzer": true,
}

// Discover returns the root of every package under workspace, that is every
// directory holding a Move.toml, honouring the workspace's .gitignore.
func Discover(ctx context.Context, workspace string) ([]string, error) {
	var ignore *gitignore.GitIgnore
	gitignorePath := filepath.Join(workspace, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignore, _ = gitignore.CompileIgnoreFile(gitignorePath)
	}

	var roots []string
	err := filepath.Walk(workspace, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip what we can't read
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if path != workspace && (skipDirs[info.Name()] || strings.HasPrefix(info.Name(), ".")) {
				return filepath.SkipDir
			}
			if ignore != nil && path != workspace {
				rel, err := filepath.Rel(workspace, path)
				if err == nil && ignore.MatchesPath(rel+"/") {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if info.Name() == frontend.ManifestName {
			roots = append(roots, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(roots)
	return roots, nil
}

// sourceDirs are the package directories holding Move sources. Dependencies
// only contribute their `sources`.
var sourceDirs = []string{"sources", "scripts", "tests", "examples"}

// collectSources lists the .move files of one package.
func collectSources(root string, dependency bool) ([]string, error) {
	dirs := sourceDirs
	if dependency {
		dirs = sourceDirs[:1]
	}

	var files []string
	for _, dir := range dirs {
		base := filepath.Join(root, dir)
		if _, err := os.Stat(base); err != nil {
			continue
		}
		err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				if skipDirs[info.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".move" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
