package project

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/movebit/move-analyzer/frontend"
)

const debounce = 200 * time.Millisecond

// Watcher recompiles projects when their sources or manifests change on
// disk.
type Watcher struct {
	set      *ProjectSet
	watcher  *fsnotify.Watcher
	onReload func(*Project)
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Watch starts watching the roots of every loaded project. onReload is
// called from the watcher goroutine for each project whose model changed.
func (s *ProjectSet) Watch(onReload func(*Project)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{set: s, watcher: fw, onReload: onReload, ctx: ctx, cancel: cancel}

	for _, p := range s.Projects() {
		w.addTree(p.Root)
		for _, dep := range dependencyDirs(p) {
			w.addTree(dep)
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// dependencyDirs are the directories of the project's sources outside its
// root.
func dependencyDirs(p *Project) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range p.Files() {
		dir := filepath.Dir(f)
		if isUnder(dir, p.Root) || seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}

func (w *Watcher) addTree(dir string) {
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if path != dir && (skipDirs[info.Name()] || info.Name()[0] == '.') {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("Error watching directory %s: %v", path, err)
		}
		return nil
	})
}

func relevant(path string) bool {
	return filepath.Ext(path) == ".move" || filepath.Base(path) == frontend.ManifestName
}

func (w *Watcher) run() {
	defer w.wg.Done()

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	flush := func() {
		for path := range pending {
			for _, p := range w.set.Reload(w.ctx, path) {
				log.Printf("Reloaded %s after change to %s", p.Root, path)
				if w.onReload != nil {
					w.onReload(p)
				}
			}
		}
		pending = make(map[string]bool)
	}

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					w.addTree(event.Name)
				}
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[event.Name] = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-timer.C:
			flush()
		}
	}
}

func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
