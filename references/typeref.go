package references

import (
	"github.com/cloudflare/ahocorasick"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

// typeSet resolves a type annotation under the mouse. capture is the
// annotation's span; ty its resolved type.
func (s *search) typeSet(capture model.Loc, ty model.Type) []candidateSet {
	st := s.structAt(capture, ty)
	if st == nil {
		return nil
	}
	s.logf("references: type %s at %s", st.Name, capture)
	return []candidateSet{{capture: capture.Span, ranges: s.typeRefs(st)}}
}

// structAt picks the struct of ty the mouse points at. When the mouse is on
// a struct name inside the annotation that struct wins, so `(Coin, Pair)` or
// `Coin<Pair>` resolve to whichever name is under the cursor. Otherwise the
// struct under any vector and reference wrappers is used.
func (s *search) structAt(capture model.Loc, ty model.Type) *model.Struct {
	if text, ok := s.source(capture); ok && s.mouse >= capture.Start() {
		if name, _, ok := identAt(text, s.mouse-capture.Start()); ok {
			for _, id := range structsOf(ty) {
				if st := s.env.Struct(id); st != nil && st.Name == name {
					return st
				}
			}
		}
	}
	for {
		switch ty.Kind {
		case model.TypeKindStruct:
			return s.env.Struct(ty.Struct)
		case model.TypeKindVector, model.TypeKindReference:
			if ty.Elem == nil {
				return nil
			}
			ty = *ty.Elem
		default:
			return nil
		}
	}
}

// structsOf lists every struct mentioned by ty, outermost first.
func structsOf(ty model.Type) []model.QualifiedStructID {
	var out []model.QualifiedStructID
	var walk func(t model.Type)
	walk = func(t model.Type) {
		if t.Kind == model.TypeKindStruct {
			out = append(out, t.Struct)
		}
		if t.Elem != nil {
			walk(*t.Elem)
		}
		for _, a := range t.Args {
			walk(a)
		}
	}
	walk(ty)
	return out
}

// typeRefs finds every mention of st by name. Only modules whose source
// names both st's module and st itself are scanned; in those, every function
// and struct declaration is searched for the struct name token.
func (s *search) typeRefs(st *model.Struct) []common.FileRange {
	rs := newRangeSet(s.env, s.tracer)
	def := s.env.Module(st.Module)
	if def == nil {
		return rs.list()
	}
	words := []string{def.Name.Name}
	if st.Name != def.Name.Name {
		words = append(words, st.Name)
	}
	matcher := ahocorasick.NewStringMatcher(words)

	scan := func(loc model.Loc) {
		text, ok := s.source(loc)
		if !ok {
			return
		}
		for _, span := range identSpans(text, st.Name) {
			rs.add(sub(loc, span))
		}
	}
	for _, m := range s.env.Modules() {
		text, ok := s.source(m.Loc)
		if !ok {
			continue
		}
		hits := matcher.Match([]byte(text))
		if len(hits) != len(words) {
			continue
		}
		for _, decl := range m.Structs {
			scan(decl.Loc)
		}
		for _, f := range m.Functions {
			scan(f.Loc)
		}
	}
	return rs.list()
}
