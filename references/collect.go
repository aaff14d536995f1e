package references

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

// search is the state shared by everything that runs for one declaration:
// the environment, the file the cursor is in and the cursor's offset.
type search struct {
	tracer
	env   *model.GlobalEnv
	file  model.FileID
	mouse uint32
}

// inside reports start <= mouse <= end.
func (s *search) inside(span common.Span) bool {
	return span.Covers(s.mouse)
}

// strictlyInside reports start < mouse < end.
func (s *search) strictlyInside(span common.Span) bool {
	return span.StrictlyCovers(s.mouse)
}

// source is the text of loc, or false when loc falls outside its file.
func (s *search) source(loc model.Loc) (string, bool) {
	text, err := s.env.Source(loc)
	if err != nil {
		s.logf("references: %v", err)
		return "", false
	}
	return text, true
}

// sub is the location of span, relative to loc, inside loc's file.
func sub(loc model.Loc, span common.Span) model.Loc {
	return loc.WithSpan(span.Shift(loc.Start()))
}

// moduleExprs lists the root of every expression tree of m: function bodies,
// specification conditions and specification function bodies.
func moduleExprs(m *model.Module) []*model.Expr {
	var out []*model.Expr
	conds := func(spec *model.Spec) {
		for i := range spec.Conditions {
			out = append(out, spec.Conditions[i].AllExps()...)
		}
	}
	for _, f := range m.Functions {
		if f.Def != nil {
			out = append(out, f.Def)
		}
		conds(&f.Spec)
	}
	for _, st := range m.Structs {
		conds(&st.Spec)
	}
	for _, sf := range m.SpecFuns {
		if sf.Body != nil {
			out = append(out, sf.Body)
		}
	}
	conds(&m.Spec)
	return out
}

// callerRefs locates fun's name in each of its callers, one range per
// caller.
func (s *search) callerRefs(fun *model.Function) []common.FileRange {
	rs := newRangeSet(s.env, s.tracer)
	for _, id := range fun.Callers {
		caller := s.env.Function(id)
		if caller == nil {
			continue
		}
		text, ok := s.source(caller.Loc)
		if !ok {
			continue
		}
		// Skip past the caller's own name so recursion finds the call.
		var from uint32
		name, hasName := declName(text)
		if hasName {
			from = name.End
		}
		occ := identSpans(text[from:], fun.Name)
		switch {
		case len(occ) > 0:
			rs.add(sub(caller.Loc, occ[0].Shift(from)))
		case hasName:
			rs.add(sub(caller.Loc, name))
		default:
			rs.add(caller.Loc.WithSpan(common.SpanAt(caller.Loc.Start())))
		}
	}
	s.logf("references: %d callers of %s", len(rs.ranges), fun.Name)
	return rs.list()
}

// specCalleeRefs points at the name of every specification function fun
// calls.
func (s *search) specCalleeRefs(fun *model.SpecFun) []common.FileRange {
	rs := newRangeSet(s.env, s.tracer)
	for _, id := range fun.Callees {
		callee := s.env.SpecFun(id)
		if callee == nil {
			continue
		}
		loc := callee.Loc.WithSpan(common.SpanAt(callee.Loc.Start()))
		if text, ok := s.source(callee.Loc); ok {
			if name, ok := declName(text); ok {
				loc = sub(callee.Loc, name)
			}
		}
		rs.add(loc)
	}
	return rs.list()
}

// fieldRefs collects every select, struct literal label and destructuring
// label naming field of st across st's module, then the field declaration.
func (s *search) fieldRefs(st *model.Struct, field *model.Field) []common.FileRange {
	rs := newRangeSet(s.env, s.tracer)
	m := s.env.Module(st.Module)
	if m == nil {
		return rs.list()
	}
	id := st.QualifiedID()

	labelled := func(loc model.Loc) {
		text, ok := s.source(loc)
		if !ok {
			return
		}
		_, labels, ok := structBody(text)
		if !ok {
			return
		}
		for _, l := range labels {
			if l.name == field.Name {
				rs.add(sub(loc, l.span))
			}
		}
	}
	patterns := func(pat *model.Pattern) {
		pat.VisitPreOrder(func(p *model.Pattern) {
			if p.Kind == model.PatternKindStruct && p.Struct == id {
				labelled(s.env.NodeLoc(p.Node))
			}
		})
	}

	for _, root := range moduleExprs(m) {
		root.VisitPreOrder(func(e *model.Expr) bool {
			switch e.Kind() {
			case model.ExprKindCall:
				op := e.Call().Op
				switch {
				case op.Kind == model.OpSelect && op.Struct == id && op.Field == field.ID:
					loc := s.env.NodeLoc(e.Node)
					if text, ok := s.source(loc); ok {
						if name, ok := lastIdent(text); ok {
							loc = sub(loc, name)
						}
					}
					rs.add(loc)
				case op.Kind == model.OpPack && op.Struct == id:
					labelled(s.env.NodeLoc(e.Node))
				}
			case model.ExprKindBlock:
				patterns(e.Block().Pattern)
			case model.ExprKindAssign:
				patterns(e.Assign().Pattern)
			}
			return true
		})
	}
	rs.add(field.Loc)
	s.logf("references: %d uses of %s.%s", len(rs.ranges), st.Name, field.Name)
	return rs.list()
}

// bindingRefs is the declaration of b and every use of it.
func (s *search) bindingRefs(bs *bindings, b binding) []common.FileRange {
	rs := newRangeSet(s.env, s.tracer)
	for _, loc := range bs.locs(s.env, b) {
		rs.add(loc)
	}
	return rs.list()
}
