// Package project maps workspace files to compiled Move packages and keeps
// their program models current.
package project

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend"
	"github.com/movebit/move-analyzer/frontend/model"
	"github.com/movebit/move-analyzer/frontend/sema"
)

var ErrNoProject = errors.New("no project owns the file")

// Visitor is run against the model of the project owning a file.
type Visitor interface {
	HandleProjectEnv(env *model.GlobalEnv, path string)
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(env *model.GlobalEnv, path string)

func (f VisitorFunc) HandleProjectEnv(env *model.GlobalEnv, path string) { f(env, path) }

type Options struct {
	// Dev compiles with dev-addresses.
	Dev bool
	// MoveHome is where git dependencies are checked out; defaults to
	// frontend.MoveHome().
	MoveHome string
	// Overlay returns unsaved editor content for a path.
	Overlay func(path string) (string, bool)
	// NoCache disables the on-disk model snapshot.
	NoCache bool
}

func (o Options) moveHome() string {
	if o.MoveHome != "" {
		return o.MoveHome
	}
	return frontend.MoveHome()
}

// Project is one Move package and its current program model.
//
// The model is replaced as a whole on Reload. Readers go through
// RunVisitorForFile, which holds the read lock for the duration of the visit,
// so no request ever sees a model swapped under it.
type Project struct {
	Root string
	opts Options

	mu       sync.RWMutex
	manifest frontend.MoveToml
	env      *model.GlobalEnv
	diags    []*common.Diagnostic
	hash     string
	files    []string
}

// Load compiles the package at root.
func Load(ctx context.Context, root string, opts Options) (*Project, error) {
	p := &Project{Root: common.FilePathClean(root), opts: opts}
	if _, err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload recompiles the package if its sources changed and reports whether
// the model was replaced.
func (p *Project) Reload(ctx context.Context) (bool, error) {
	set, err := gatherSources(ctx, p.Root, p.opts)
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", p.Root, err)
	}

	p.mu.RLock()
	unchanged := p.env != nil && p.hash == set.hash
	p.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	var (
		env    *model.GlobalEnv
		diags  []*common.Diagnostic
		cached bool
	)
	if !p.opts.NoCache {
		env, diags, cached = readCache(p.Root, set.hash)
	}
	if !cached {
		start := time.Now()
		env, diags, err = sema.Compile(set.sources, set.addresses)
		if err != nil {
			return false, fmt.Errorf("compiling %s: %w", p.Root, err)
		}
		log.Printf("Compiled %s (%d files) in %s", p.Root, len(set.sources), time.Since(start))
		if !p.opts.NoCache && !set.overlaid {
			if err := writeCache(p.Root, set.hash, env, diags); err != nil {
				log.Printf("Error writing model snapshot: %v", err)
			}
		}
	}

	p.mu.Lock()
	p.manifest = set.manifest
	p.env = env
	p.diags = diags
	p.hash = set.hash
	p.files = set.paths()
	p.mu.Unlock()
	return true, nil
}

func (p *Project) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.manifest.Package.Name
}

func (p *Project) Hash() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hash
}

// Files lists the sources of the last compilation, dependencies included.
func (p *Project) Files() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.files)
}

// Env returns the current model. Callers that keep using it across a Reload
// see the old model; use RunVisitorForFile for request work.
func (p *Project) Env() *model.GlobalEnv {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.env
}

// Diagnostics groups the problems of the last compilation by file. Every
// compiled file has an entry, empty when clean.
func (p *Project) Diagnostics() map[string][]*common.Diagnostic {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string][]*common.Diagnostic, len(p.files))
	for _, f := range p.files {
		out[f] = nil
	}
	for _, d := range p.diags {
		out[d.Path] = append(out[d.Path], d)
	}
	return out
}

// Owns reports whether path was compiled by the project or lies under its
// root.
func (p *Project) Owns(path string) bool {
	path = common.FilePathClean(path)
	if isUnder(path, p.Root) {
		return true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Contains(p.files, path)
}

// RunVisitorForFile runs v against the project's model under the read lock.
// It returns false when the model does not contain path.
func (p *Project) RunVisitorForFile(v Visitor, path string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.env == nil {
		return false
	}
	if _, ok := p.env.FileByPath(path); !ok {
		return false
	}
	v.HandleProjectEnv(p.env, common.FilePathClean(path))
	return true
}

func isUnder(path, root string) bool {
	return path == root || strings.HasPrefix(path, strings.TrimSuffix(root, "/")+"/")
}
