package frontend

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const ManifestName = "Move.toml"

// MoveToml is the package manifest. Only the parts the analyzer needs to find
// sources and named addresses are decoded.
type MoveToml struct {
	Package         PackageInfo           `toml:"package"`
	Addresses       map[string]string     `toml:"addresses" validate:"dive,required"`
	DevAddresses    map[string]string     `toml:"dev-addresses"`
	Dependencies    map[string]Dependency `toml:"dependencies" validate:"dive"`
	DevDependencies map[string]Dependency `toml:"dev-dependencies" validate:"dive"`
}

type PackageInfo struct {
	Name    string   `toml:"name" validate:"required"`
	Version string   `toml:"version"`
	Edition string   `toml:"edition"`
	Authors []string `toml:"authors"`
}

// Dependency is one `Name = { local = "..." }` or `Name = { git = "...", rev =
// "..." }` entry.
type Dependency struct {
	Local     string            `toml:"local" validate:"required_without=Git"`
	Git       string            `toml:"git" validate:"required_without=Local"`
	Rev       string            `toml:"rev" validate:"required_with=Git"`
	Subdir    string            `toml:"subdir"`
	AddrSubst map[string]string `toml:"addr_subst"`
}

// unassignedAddress marks a named address left for dependents to fill in.
const unassignedAddress = "_"

var validate = validator.New()

func HandleMoveToml(tomlContent string) (MoveToml, error) {
	var mt MoveToml
	_, err := toml.Decode(tomlContent, &mt)
	if err != nil {
		return mt, err
	}
	if err := validate.Struct(mt); err != nil {
		return mt, err
	}
	return mt, nil
}

// LoadMoveToml reads the manifest of the package rooted at root.
func LoadMoveToml(root string) (MoveToml, error) {
	content, err := os.ReadFile(filepath.Join(root, ManifestName))
	if err != nil {
		return MoveToml{}, err
	}
	mt, err := HandleMoveToml(string(content))
	if err != nil {
		return mt, fmt.Errorf("%s: %w", filepath.Join(root, ManifestName), err)
	}
	return mt, nil
}

// NamedAddresses returns the assigned addresses of the manifest, dev
// addresses included when dev is set.
func (mt MoveToml) NamedAddresses(dev bool) map[string]string {
	out := make(map[string]string, len(mt.Addresses))
	for name, addr := range mt.Addresses {
		if addr != unassignedAddress {
			out[name] = addr
		}
	}
	if dev {
		for name, addr := range mt.DevAddresses {
			out[name] = addr
		}
	}
	return out
}

// DependencyRoots resolves the package roots of the manifest's dependencies,
// sorted by name. Git dependencies live where the Move CLI checks them out,
// under moveHome.
func (mt MoveToml) DependencyRoots(root, moveHome string) []string {
	names := make([]string, 0, len(mt.Dependencies))
	for name := range mt.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	roots := make([]string, 0, len(names))
	for _, name := range names {
		dep := mt.Dependencies[name]
		var dir string
		if dep.Local != "" {
			dir = dep.Local
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(root, dir)
			}
		} else {
			dir = filepath.Join(moveHome, gitCheckoutName(dep.Git, dep.Rev))
		}
		if dep.Subdir != "" {
			dir = filepath.Join(dir, dep.Subdir)
		}
		roots = append(roots, filepath.Clean(dir))
	}
	return roots
}

func gitCheckoutName(url, rev string) string {
	r := strings.NewReplacer("://", "_", "/", "_", ":", "_", ".", "_", "@", "_")
	return r.Replace(strings.TrimSuffix(url, ".git")) + "_" + strings.ReplaceAll(rev, "/", "__")
}

// MoveHome is `$MOVE_HOME`, defaulting to `~/.move`.
func MoveHome() string {
	if home := os.Getenv("MOVE_HOME"); home != "" {
		return home
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".move"
	}
	return filepath.Join(dir, ".move")
}
