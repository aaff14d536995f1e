package project

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend"
	"github.com/movebit/move-analyzer/frontend/sema"
)

// sourceSet is everything a compilation of one package reads.
type sourceSet struct {
	manifest  frontend.MoveToml
	sources   []sema.Source
	addresses map[string]string
	// hash covers paths, contents and addresses
	hash string
	// overlaid is set when an unsaved buffer replaced a file on disk
	overlaid bool
}

// gatherSources reads the package at root and, transitively, its
// dependencies. Named addresses of the root package win over those of its
// dependencies.
func gatherSources(ctx context.Context, root string, opts Options) (*sourceSet, error) {
	mt, err := frontend.LoadMoveToml(root)
	if err != nil {
		return nil, err
	}
	set := &sourceSet{manifest: mt, addresses: make(map[string]string)}

	paths, err := collectSources(root, false)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{filepath.Clean(root): true}
	queue := mt.DependencyRoots(root, opts.moveHome())
	var depAddresses []map[string]string
	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]
		if visited[dep] {
			continue
		}
		visited[dep] = true

		depManifest, err := frontend.LoadMoveToml(dep)
		if err != nil {
			log.Printf("Skipping dependency %s: %v", dep, err)
			continue
		}
		depPaths, err := collectSources(dep, true)
		if err != nil {
			return nil, err
		}
		paths = append(paths, depPaths...)
		depAddresses = append(depAddresses, depManifest.NamedAddresses(false))
		queue = append(queue, depManifest.DependencyRoots(dep, opts.moveHome())...)
	}
	for _, addrs := range depAddresses {
		for name, addr := range addrs {
			set.addresses[name] = addr
		}
	}
	for name, addr := range mt.NamedAddresses(opts.Dev) {
		set.addresses[name] = addr
	}

	sort.Strings(paths)
	set.sources = make([]sema.Source, len(paths))
	overlaid := make([]bool, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path = common.FilePathClean(path)
			if opts.Overlay != nil {
				if content, ok := opts.Overlay(path); ok {
					set.sources[i] = sema.Source{Path: path, Code: content}
					overlaid[i] = true
					return nil
				}
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			set.sources[i] = sema.Source{Path: path, Code: string(content)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, o := range overlaid {
		set.overlaid = set.overlaid || o
	}

	set.hash = set.computeHash()
	return set, nil
}

func (s *sourceSet) computeHash() string {
	var buf bytes.Buffer
	for _, src := range s.sources {
		buf.WriteString(src.Path)
		buf.WriteByte(0)
		buf.WriteString(src.Code)
		buf.WriteByte(0)
	}
	names := make([]string, 0, len(s.addresses))
	for name := range s.addresses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		buf.WriteString(name + "=" + s.addresses[name])
		buf.WriteByte(0)
	}
	return common.SHA256Hex(buf.Bytes())
}

func (s *sourceSet) paths() []string {
	out := make([]string, len(s.sources))
	for i, src := range s.sources {
		out[i] = src.Path
	}
	return out
}
