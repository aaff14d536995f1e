package project

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend"
)

// ProjectSet holds every project of a workspace.
type ProjectSet struct {
	Workspace string
	cfg       frontend.Config
	index     *Index

	mu       sync.RWMutex
	projects map[string]*Project

	overlayMu sync.RWMutex
	overlays  map[string]string
}

// NewProjectSet opens the file index configured for workspace. Nothing is
// loaded until Load.
func NewProjectSet(workspace string, cfg frontend.Config) (*ProjectSet, error) {
	workspace = common.FilePathClean(workspace)
	dbPath := cfg.Index.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(workspace, dbPath)
	}
	index, err := OpenIndex(dbPath)
	if err != nil {
		return nil, err
	}
	return &ProjectSet{
		Workspace: workspace,
		cfg:       cfg,
		index:     index,
		projects:  make(map[string]*Project),
		overlays:  make(map[string]string),
	}, nil
}

func (s *ProjectSet) options() Options {
	return Options{Dev: s.cfg.Dev, Overlay: s.overlay}
}

// Load discovers the workspace's packages and compiles them in parallel. A
// package that fails to load is logged and left out.
func (s *ProjectSet) Load(ctx context.Context) error {
	roots, err := Discover(ctx, s.Workspace)
	if err != nil {
		return fmt.Errorf("failed to discover projects: %w", err)
	}
	log.Printf("Found %d projects in %s", len(roots), s.Workspace)

	loaded := make([]*Project, len(roots))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, root := range roots {
		g.Go(func() error {
			p, err := Load(ctx, root, s.options())
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("Error loading project: %v", err)
				return nil
			}
			loaded[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	projects := make(map[string]*Project, len(loaded))
	var kept []string
	for _, p := range loaded {
		if p == nil {
			continue
		}
		projects[p.Root] = p
		kept = append(kept, p.Root)
		if err := s.index.Record(p.Root, p.Hash(), p.Files()); err != nil {
			log.Printf("Error indexing project %s: %v", p.Root, err)
		}
	}
	if err := s.index.Forget(kept); err != nil {
		log.Printf("Error pruning index: %v", err)
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// Projects returns the loaded projects ordered by root.
func (s *ProjectSet) Projects() []*Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Root < out[j].Root })
	return out
}

// GetProject finds the project compiling path: the file index first, so
// dependency sources outside every root resolve, then the project with the
// longest root containing path.
func (s *ProjectSet) GetProject(path string) (*Project, bool) {
	path = common.FilePathClean(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	roots, err := s.index.Lookup(path)
	if err != nil {
		log.Printf("Error querying index: %v", err)
	}
	for _, root := range roots {
		if p, ok := s.projects[root]; ok {
			return p, true
		}
	}

	var best *Project
	for root, p := range s.projects {
		if isUnder(path, root) && (best == nil || len(root) > len(best.Root)) {
			best = p
		}
	}
	return best, best != nil
}

// Reload recompiles every project that owns path and returns those whose
// model changed.
func (s *ProjectSet) Reload(ctx context.Context, path string) []*Project {
	var changed []*Project
	for _, p := range s.Projects() {
		if !p.Owns(path) {
			continue
		}
		ok, err := p.Reload(ctx)
		if err != nil {
			log.Printf("Error reloading project: %v", err)
			continue
		}
		if ok {
			changed = append(changed, p)
			if err := s.index.Record(p.Root, p.Hash(), p.Files()); err != nil {
				log.Printf("Error indexing project %s: %v", p.Root, err)
			}
		}
	}
	return changed
}

// SetOverlay makes later compilations read content instead of the file on
// disk.
func (s *ProjectSet) SetOverlay(path, content string) {
	s.overlayMu.Lock()
	defer s.overlayMu.Unlock()
	s.overlays[common.FilePathClean(path)] = content
}

func (s *ProjectSet) DropOverlay(path string) {
	s.overlayMu.Lock()
	defer s.overlayMu.Unlock()
	delete(s.overlays, common.FilePathClean(path))
}

func (s *ProjectSet) overlay(path string) (string, bool) {
	s.overlayMu.RLock()
	defer s.overlayMu.RUnlock()
	content, ok := s.overlays[path]
	return content, ok
}

func (s *ProjectSet) Close() error {
	return s.index.Close()
}
