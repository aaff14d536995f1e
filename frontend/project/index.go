package project

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/movebit/move-analyzer/common"
)

// Index maps source files to the project that compiles them. It survives
// restarts, so files of dependencies outside a project root still resolve
// to the right project before any model is loaded.
type Index struct {
	db *sql.DB
	mu sync.RWMutex
}

func OpenIndex(dbPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			root TEXT PRIMARY KEY,
			hash TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS files (
			path TEXT NOT NULL,
			root TEXT NOT NULL,
			PRIMARY KEY (path, root),
			FOREIGN KEY (root) REFERENCES projects(root) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return &Index{db: db}, nil
}

// Record replaces what the index knows about the project at root.
func (idx *Index) Record(root, hash string, files []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	root = common.FilePathClean(root)
	if err := forget(tx, root); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO projects (root, hash) VALUES (?, ?)", root, hash); err != nil {
		return fmt.Errorf("failed to save project %s: %w", root, err)
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO files (path, root) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare file statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, f := range files {
		if _, err := stmt.Exec(common.FilePathClean(f), root); err != nil {
			return fmt.Errorf("failed to save file %s: %w", f, err)
		}
	}
	return tx.Commit()
}

// Lookup returns the roots of the projects compiling path. A file shared by
// several projects (a common dependency) lists each, shortest root first.
func (idx *Index) Lookup(path string) ([]string, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.Query("SELECT root FROM files WHERE path = ? ORDER BY length(root), root", common.FilePathClean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var roots []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, rows.Err()
}

// Hash returns the source hash recorded for root.
func (idx *Index) Hash(root string) (string, bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var hash string
	err := idx.db.QueryRow("SELECT hash FROM projects WHERE root = ?", common.FilePathClean(root)).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query index: %w", err)
	}
	return hash, true, nil
}

// Forget drops every project not in keep.
func (idx *Index) Forget(keep []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	rows, err := idx.db.Query("SELECT root FROM projects")
	if err != nil {
		return fmt.Errorf("failed to query index: %w", err)
	}
	var stale []string
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			_ = rows.Close()
			return err
		}
		found := false
		for _, k := range keep {
			if common.FilePathClean(k) == root {
				found = true
				break
			}
		}
		if !found {
			stale = append(stale, root)
		}
	}
	_ = rows.Close()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, root := range stale {
		if err := forget(tx, root); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func forget(tx *sql.Tx, root string) error {
	if _, err := tx.Exec("DELETE FROM files WHERE root = ?", root); err != nil {
		return fmt.Errorf("failed to clear files of %s: %w", root, err)
	}
	if _, err := tx.Exec("DELETE FROM projects WHERE root = ?", root); err != nil {
		return fmt.Errorf("failed to clear project %s: %w", root, err)
	}
	return nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}
