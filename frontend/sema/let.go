package sema

import (
	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/model"
)

func (cx *bodyContext) lowerBlock(b *ast.Block) (*model.Expr, model.Type) {
	outer := cx.locals
	cx.locals = outer.Child()
	defer func() { cx.locals = outer }()
	return cx.lowerStmts(b.Stmts, b.Final, b.Span())
}

// lowerStmts turns a statement list into a sequence. Every `let` opens an
// ExprBlock whose body is the rest of the list, so the block covers the
// source from the `let` to the end of the enclosing block.
func (cx *bodyContext) lowerStmts(stmts []ast.Stmt, final *ast.Expr, span Span) (*model.Expr, model.Type) {
	node := cx.node(span)
	var exprs []*model.Expr
	for i, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Let:
			blockNode := cx.node(common.SpanNew(s.Span().Start, span.End))
			var binding *model.Expr
			ty := model.ErrorType()
			if s.Value != nil {
				binding, ty = cx.lowerExpr(*s.Value)
			}
			if s.Type != nil {
				ty = cx.resolveType(s.Type)
			}
			pat := cx.lowerBind(s.Bind, ty)
			body, bodyTy := cx.lowerStmts(stmts[i+1:], final, common.SpanNew(s.Span().End, span.End))
			let := model.NewExpr(blockNode, &model.ExprBlock{Pattern: pat, Binding: binding, Body: body})
			return model.NewExpr(node, &model.ExprSequence{Exprs: append(exprs, let)}), bodyTy

		case *ast.StmtExpr:
			e, _ := cx.lowerExpr(s.Expr)
			exprs = append(exprs, e)
		}
	}

	ty := model.UnitType()
	if final != nil {
		var e *model.Expr
		e, ty = cx.lowerExpr(*final)
		exprs = append(exprs, e)
	}
	return model.NewExpr(node, &model.ExprSequence{Exprs: exprs}), ty
}

// lowerBind builds the pattern of a `let` and declares its variables.
func (cx *bodyContext) lowerBind(bind ast.Bind, ty model.Type) *model.Pattern {
	node := cx.node(bind.Span())
	switch b := bind.(type) {
	case *ast.BindVar:
		if b.IsWildcard() {
			return &model.Pattern{Kind: model.PatternKindWildcard, Node: node}
		}
		cx.locals.Add(b.Name.Raw, ty)
		return &model.Pattern{Kind: model.PatternKindVar, Node: node, Name: b.Name.Raw}

	case *ast.BindTuple:
		pat := &model.Pattern{Kind: model.PatternKindTuple, Node: node}
		for i, elem := range b.Elems {
			ety := model.ErrorType()
			if ty.Kind == model.TypeKindTuple && len(ty.Args) == len(b.Elems) {
				ety = ty.Args[i]
			}
			pat.Elems = append(pat.Elems, cx.lowerBind(elem, ety))
		}
		return pat

	case *ast.BindUnpack:
		st, ok := cx.sc.resolveStruct(cx.a, &b.Path)
		if !ok {
			cx.a.Warningf(cx.sc.file, b.Path.NameSpan(), "unresolved struct %s", b.Path.String())
			for _, f := range b.Fields {
				cx.lowerBind(f.Bind, model.ErrorType())
			}
			return &model.Pattern{Kind: model.PatternKindError, Node: node}
		}

		args := cx.a.resolveTypeArgs(cx.sc, cx.typeParams, b.Path.TypeArgs)
		if base := ty.SkipReference(); args == nil && base.IsStruct() && base.Struct == st.QualifiedID() {
			args = base.Args
		}
		pat := &model.Pattern{Kind: model.PatternKindStruct, Node: node, Struct: st.QualifiedID()}
		for _, f := range b.Fields {
			field, ok := st.FieldByName(f.Name.Raw)
			if !ok {
				cx.a.Errorf(cx.sc.file, f.Name.Span(), "struct %s has no field %s", st.Name, f.Name.Raw)
				cx.lowerBind(f.Bind, model.ErrorType())
				continue
			}
			fty := substitute(field.Type, args)
			if ty.Kind == model.TypeKindReference {
				fty = model.ReferenceType(ty.Mut, fty)
			}
			pat.Fields = append(pat.Fields, model.FieldPattern{Field: field.ID, Pat: cx.lowerBind(f.Bind, fty)})
		}
		return pat
	}
	return &model.Pattern{Kind: model.PatternKindError, Node: node}
}

// exprPattern reads the left side of an assignment as a pattern. It fails for
// places such as `*r`, `s.f` and `v[i]`, which are mutations.
func (cx *bodyContext) exprPattern(e ast.Expr, ty model.Type) (*model.Pattern, bool) {
	switch d := e.Data().(type) {
	case *ast.ExprName:
		if !d.Path.IsSimple() {
			return nil, false
		}
		node := cx.node(d.Span())
		name := d.Path.Last().Name
		if name == "_" {
			return &model.Pattern{Kind: model.PatternKindWildcard, Node: node}, true
		}
		return &model.Pattern{Kind: model.PatternKindVar, Node: node, Name: name}, true

	case *ast.ExprTuple:
		if len(d.Elems) == 0 {
			return nil, false
		}
		pat := &model.Pattern{Kind: model.PatternKindTuple, Node: cx.node(d.Span())}
		for i, elem := range d.Elems {
			ety := model.ErrorType()
			if ty.Kind == model.TypeKindTuple && len(ty.Args) == len(d.Elems) {
				ety = ty.Args[i]
			}
			sub, ok := cx.exprPattern(elem, ety)
			if !ok {
				return nil, false
			}
			pat.Elems = append(pat.Elems, sub)
		}
		return pat, true

	case *ast.ExprPack:
		st, ok := cx.sc.resolveStruct(cx.a, &d.Path)
		if !ok {
			return nil, false
		}
		pat := &model.Pattern{Kind: model.PatternKindStruct, Node: cx.node(d.Span()), Struct: st.QualifiedID()}
		for _, f := range d.Fields {
			field, ok := st.FieldByName(f.Name.Raw)
			if !ok {
				cx.a.Errorf(cx.sc.file, f.Name.Span(), "struct %s has no field %s", st.Name, f.Name.Raw)
				continue
			}
			sub, ok := cx.exprPattern(cx.packFieldValue(f), field.Type)
			if !ok {
				return nil, false
			}
			pat.Fields = append(pat.Fields, model.FieldPattern{Field: field.ID, Pat: sub})
		}
		return pat, true
	}
	return nil, false
}
