package references

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

// walker visits one expression tree and returns a candidate set for every
// construct the mouse is in. Visiting never stops early: nested constructs
// all contribute and innermost picks between them.
type walker struct {
	*search
	binds *bindings
}

func (s *search) walker(root *model.Expr, params []model.Param) *walker {
	return &walker{search: s, binds: resolveBindings(root, params)}
}

func (w *walker) walk(root *model.Expr) []candidateSet {
	var out []candidateSet
	root.VisitPreOrder(func(e *model.Expr) bool {
		loc := w.env.NodeLoc(e.Node)
		if loc.File != w.file {
			return true
		}
		switch e.Kind() {
		case model.ExprKindCall:
			out = append(out, w.call(e, loc)...)
		case model.ExprKindBlock:
			out = append(out, w.pattern(e.Block().Pattern)...)
		case model.ExprKindAssign:
			out = append(out, w.pattern(e.Assign().Pattern)...)
		case model.ExprKindLocalVar, model.ExprKindTemporary:
			out = append(out, w.variable(e.Node, loc)...)
		case model.ExprKindQuant:
			for _, r := range e.Quant().Ranges {
				out = append(out, w.pattern(r.Pattern)...)
			}
		case model.ExprKindInvalid, model.ExprKindValue, model.ExprKindIfElse,
			model.ExprKindSequence, model.ExprKindLoop, model.ExprKindLoopCont,
			model.ExprKindReturn, model.ExprKindMutate:
		}
		return true
	})
	return out
}

func (w *walker) call(e *model.Expr, loc model.Loc) []candidateSet {
	op := e.Call().Op
	switch op.Kind {
	case model.OpMoveFunction:
		if !w.strictlyInside(loc.Span) {
			return nil
		}
		fun := w.env.Function(op.Fun)
		if fun == nil {
			return nil
		}
		w.logf("references: call of %s", fun.Name)
		return []candidateSet{{capture: loc.Span, ranges: w.callerRefs(fun)}}

	case model.OpSpecFunction:
		if !w.strictlyInside(loc.Span) {
			return nil
		}
		fun := w.env.SpecFun(op.SpecFun)
		if fun == nil {
			return nil
		}
		w.logf("references: spec call of %s", fun.Name)
		return []candidateSet{{capture: loc.Span, ranges: w.specCalleeRefs(fun)}}

	case model.OpSelect:
		if !w.inside(loc.Span) {
			return nil
		}
		st := w.env.Struct(op.Struct)
		if st == nil {
			return nil
		}
		field := st.Field(op.Field)
		if field == nil {
			return nil
		}
		return []candidateSet{{capture: loc.Span, ranges: w.fieldRefs(st, field)}}

	case model.OpPack:
		if !w.inside(loc.Span) {
			return nil
		}
		return w.structLiteral(loc, op.Struct, nil)
	}
	return nil
}

// structLiteral handles a pack or an unpack pattern of struct id at loc. Up
// to the opening brace the mouse is on the type; inside the braces it is on
// one of the field labels. fields are the sub-patterns of an unpack, used
// when no label is under the mouse.
func (w *walker) structLiteral(loc model.Loc, id model.QualifiedStructID, fields []model.FieldPattern) []candidateSet {
	st := w.env.Struct(id)
	if st == nil {
		return nil
	}
	text, ok := w.source(loc)
	if !ok {
		return nil
	}
	brace, labels, ok := structBody(text)
	if ok && loc.Start()+brace > w.mouse {
		capture := loc.WithSpan(common.SpanNew(loc.Start(), loc.Start()+brace))
		return w.typeSet(capture, model.StructType(id))
	}

	var field *model.Field
	for i, l := range labels {
		if !w.inside(l.span.Shift(loc.Start())) {
			continue
		}
		if f, ok := st.FieldByName(l.name); ok {
			field = f
		} else if i < len(st.Fields) {
			field = &st.Fields[i]
		}
		break
	}
	if field == nil {
		field = w.nearestField(st, fields)
	}
	if field == nil {
		return nil
	}
	w.logf("references: field %s.%s", st.Name, field.Name)
	return []candidateSet{{capture: loc.Span, ranges: w.fieldRefs(st, field)}}
}

// nearestField picks the field whose variable binding starts closest after
// the mouse.
func (w *walker) nearestField(st *model.Struct, fields []model.FieldPattern) *model.Field {
	var (
		best *model.Field
		dist uint32
	)
	for _, fp := range fields {
		if fp.Pat == nil || fp.Pat.Kind != model.PatternKindVar {
			continue
		}
		start := w.env.NodeLoc(fp.Pat.Node).Start()
		if start <= w.mouse {
			continue
		}
		if d := start - w.mouse; best == nil || d < dist {
			best, dist = st.Field(fp.Field), d
		}
	}
	return best
}

func (w *walker) pattern(pat *model.Pattern) []candidateSet {
	if pat == nil {
		return nil
	}
	loc := w.env.NodeLoc(pat.Node)
	if loc.File != w.file || !w.inside(loc.Span) {
		return nil
	}
	switch pat.Kind {
	case model.PatternKindVar:
		return w.variable(pat.Node, loc)
	case model.PatternKindStruct:
		out := w.structLiteral(loc, pat.Struct, pat.Fields)
		for _, fp := range pat.Fields {
			out = append(out, w.pattern(fp.Pat)...)
		}
		return out
	case model.PatternKindTuple:
		var out []candidateSet
		for _, elem := range pat.Elems {
			out = append(out, w.pattern(elem)...)
		}
		return out
	case model.PatternKindWildcard, model.PatternKindError:
	}
	return nil
}

// variable handles a use or a binding of a local or parameter.
func (w *walker) variable(node model.NodeID, loc model.Loc) []candidateSet {
	if !w.inside(loc.Span) {
		return nil
	}
	b, ok := w.binds.lookup(node)
	if !ok {
		return nil
	}
	return []candidateSet{{capture: loc.Span, ranges: w.bindingRefs(w.binds, b)}}
}
