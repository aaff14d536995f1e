package sema

import (
	"github.com/movebit/move-analyzer/frontend/model"
)

// Local is a `let`-bound variable, a quantified variable or a spec `let`.
type Local struct {
	Name string
	Type model.Type
}

// Scope holds the locals of one block. Inner scopes shadow outer ones.
type Scope struct {
	Parent  *Scope
	Symbols map[string]*Local
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		Parent:  parent,
		Symbols: make(map[string]*Local),
	}
}

func (s *Scope) Child() *Scope {
	return NewScope(s)
}

func (s *Scope) walkScopes(fn func(*Scope) bool) bool {
	current := s
	for current != nil {
		if fn(current) {
			return true
		}
		current = current.Parent
	}
	return false
}

// Add binds name in s, replacing a previous binding of the same scope.
func (s *Scope) Add(name string, ty model.Type) {
	s.Symbols[name] = &Local{Name: name, Type: ty}
}

func (s *Scope) Lookup(name string) (*Local, bool) {
	var found *Local
	s.walkScopes(func(scope *Scope) bool {
		found = scope.Symbols[name]
		return found != nil
	})
	return found, found != nil
}
