package common

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// FilePathClean is a combination of filepath.Clean and filepath.ToSlash
//
// Example:
//
//	C:\H\ -> C:/H
func FilePathClean(p string) string {
	cleaned := filepath.Clean(p)
	return filepath.ToSlash(cleaned)
}

// FilePathAbs joins a relative path onto cwd before cleaning it.
func FilePathAbs(cwd, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	return FilePathClean(p)
}

func FilePathToURI(path string) string {
	path = filepath.ToSlash(path)
	if runtime.GOOS == "windows" {
		// Windows file URIs need three slashes: file:///C:/path
		return "file:///" + (&url.URL{Path: path}).EscapedPath()
	}
	return "file://" + (&url.URL{Path: path}).EscapedPath()
}

// URIToFilePath converts a file:// URI into an **absolute** filesystem path.
func URIToFilePath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported scheme %q (must be file)", u.Scheme)
	}

	p := u.Path
	// On Windows, strip the leading slash before the drive letter
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(p, "/") && len(p) >= 3 && p[2] == ':' {
			p = p[1:]
		}
	}
	if p == "" {
		return "", fmt.Errorf("empty path in URI %q", uri)
	}
	return filepath.FromSlash(p), nil
}

// IsSpecFile reports whether path names a specification source, e.g.
// `sources/coin.spec.move`.
func IsSpecFile(path string) bool {
	return strings.Contains(filepath.Base(path), ".spec")
}
