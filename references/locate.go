package references

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

// locator finds the declaration of one module the cursor is in and narrows
// it down to the construct under the cursor.
type locator struct {
	tracer
	env  *model.GlobalEnv
	mod  *model.Module
	file model.FileID
	line uint32
	col  uint32
}

func (l *locator) search(decl model.Loc) (*search, bool) {
	mouse, ok := mouseSpan(l.env, decl, l.line, l.col)
	if !ok {
		l.logf("references: cursor %d:%d not inside %s", l.line, l.col, decl)
		return nil, false
	}
	return &search{tracer: l.tracer, env: l.env, file: l.file, mouse: mouse.End}, true
}

// function handles a cursor inside a function, which matches when
// start line <= cursor line < end line.
func (l *locator) function() []candidateSet {
	var fun *model.Function
	for _, f := range l.mod.Functions {
		if f.Loc.File != l.file {
			continue
		}
		start, end, ok := lineSpan(l.env, f.Loc)
		if ok && start <= l.line && l.line < end {
			fun = f
			break
		}
	}
	if fun == nil {
		l.logf("references: not in a function of %s", l.mod.Name)
		return nil
	}
	s, ok := l.search(fun.Loc)
	if !ok {
		return nil
	}

	w := s.walker(fun.Def, fun.Params)
	var out []candidateSet
	out = append(out, w.parameter(fun)...)
	out = append(out, s.signature(fun)...)
	if fun.Def != nil {
		out = append(out, w.walk(fun.Def)...)
	}
	return out
}

// parameter handles the parameter whose name ends closest before the mouse:
// its name yields the parameter's uses, its annotation the type.
func (w *walker) parameter(fun *model.Function) []candidateSet {
	idx := -1
	var best int64
	for i, p := range fun.Params {
		if p.Loc.Start() > w.mouse {
			break
		}
		if d := int64(w.mouse) - int64(p.Loc.End()); idx < 0 || d < best {
			idx, best = i, d
		}
	}
	if idx < 0 {
		return nil
	}
	p := fun.Params[idx]

	if w.inside(p.Loc.Span) {
		return []candidateSet{{capture: p.Loc.Span, ranges: w.bindingRefs(w.binds, paramBinding(idx))}}
	}

	rest := fun.Loc.WithSpan(common.SpanNew(p.Loc.End(), fun.Loc.End()))
	text, ok := w.source(rest)
	if !ok {
		return nil
	}
	end, _ := paramTypeEnd(text)
	capture := rest.WithSpan(common.SpanNew(p.Loc.End(), p.Loc.End()+end))
	if capture.End() < w.mouse {
		return nil
	}
	return w.typeSet(capture, p.Type)
}

// signature handles the function name, the return type and the access
// clauses.
func (s *search) signature(fun *model.Function) []candidateSet {
	text, ok := s.source(fun.Loc)
	if !ok {
		return nil
	}
	sig := scanSignature(text)

	var out []candidateSet
	if sig.hasName {
		name := sub(fun.Loc, sig.name)
		if s.inside(name.Span) {
			out = append(out, candidateSet{capture: name.Span, ranges: s.callerRefs(fun)})
		}
	}
	if sig.hasReturn {
		ret := sub(fun.Loc, sig.ret)
		if s.inside(ret.Span) {
			out = append(out, s.typeSet(ret, fun.Result)...)
		}
	}
	for _, spec := range fun.AccessSpecifiers {
		if spec.Loc.File != s.file || !s.inside(spec.Loc.Span) {
			continue
		}
		out = append(out, s.typeSet(spec.Resource.Loc, model.StructType(spec.Resource.Struct))...)
	}
	return out
}

// structure handles a cursor inside a struct, which matches only when
// start line < cursor line < end line. A struct written on one line never
// matches.
func (l *locator) structure() []candidateSet {
	var st *model.Struct
	for _, s := range l.mod.Structs {
		if s.Loc.File != l.file {
			continue
		}
		start, end, ok := lineSpan(l.env, s.Loc)
		if ok && start < l.line && l.line < end {
			st = s
			break
		}
	}
	if st == nil {
		l.logf("references: not in a struct of %s", l.mod.Name)
		return nil
	}
	s, ok := l.search(st.Loc)
	if !ok {
		return nil
	}

	var out []candidateSet
	for i := range st.Fields {
		field := &st.Fields[i]
		if s.inside(field.Loc.Span) {
			out = append(out, candidateSet{capture: field.Loc.Span, ranges: s.fieldRefs(st, field)})
			continue
		}
		rest := st.Loc.WithSpan(common.SpanNew(field.Loc.End(), st.Loc.End()))
		text, ok := s.source(rest)
		if !ok {
			continue
		}
		end, _ := fieldTypeEnd(text)
		capture := rest.WithSpan(common.SpanNew(field.Loc.End(), field.Loc.End()+end))
		if capture.End() < s.mouse || capture.Start() > s.mouse {
			continue
		}
		out = append(out, s.typeSet(capture, field.Type)...)
	}
	return out
}

// specBlocks handles a cursor inside a spec block of the file, which
// matches when start line <= cursor line <= end line. Function targets are
// tried before struct targets; module blocks only when withModule is set.
func (l *locator) specBlocks(withModule bool) []candidateSet {
	kinds := []model.SpecBlockTargetKind{model.SpecTargetFunction, model.SpecTargetStruct}
	if withModule {
		kinds = append(kinds, model.SpecTargetModule)
	}
	var out []candidateSet
	for _, kind := range kinds {
		sb, ok := l.specBlock(kind)
		if !ok {
			l.logf("references: not in a %d spec block of %s", kind, l.mod.Name)
			continue
		}
		s, ok := l.search(sb.Loc)
		if !ok {
			continue
		}
		switch kind {
		case model.SpecTargetFunction:
			if fun := l.mod.Function(sb.Target.Fun); fun != nil {
				out = append(out, s.conditions(&fun.Spec, fun.Params)...)
			}
		case model.SpecTargetStruct:
			if st := l.mod.Struct(sb.Target.Struct); st != nil {
				out = append(out, s.conditions(&st.Spec, nil)...)
			}
		case model.SpecTargetModule:
			out = append(out, s.conditions(&l.mod.Spec, nil)...)
			for _, sf := range l.mod.SpecFuns {
				if sf.Body != nil && sf.Loc.File == l.file && sb.Loc.Span.ContainsSpan(sf.Loc.Span) {
					out = append(out, s.walker(sf.Body, sf.Params).walk(sf.Body)...)
				}
			}
		}
	}
	return out
}

func (l *locator) specBlock(kind model.SpecBlockTargetKind) (model.SpecBlockInfo, bool) {
	for _, sb := range l.mod.SpecBlocks {
		if sb.Target.Kind != kind || sb.Loc.File != l.file {
			continue
		}
		start, end, ok := lineSpan(l.env, sb.Loc)
		if ok && start <= l.line && l.line <= end {
			return sb, true
		}
	}
	return model.SpecBlockInfo{}, false
}

// conditions walks every expression of the conditions of spec written in
// the cursor's file.
func (s *search) conditions(spec *model.Spec, params []model.Param) []candidateSet {
	var out []candidateSet
	for i := range spec.Conditions {
		cond := &spec.Conditions[i]
		if cond.Loc.File != s.file {
			continue
		}
		for _, e := range cond.AllExps() {
			out = append(out, s.walker(e, params).walk(e)...)
		}
	}
	return out
}
