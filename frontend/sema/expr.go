package sema

import (
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/model"
)

// bodyContext lowers one function body, spec function body or specification
// block. Parameter uses become temporaries, `let`-bound names locals.
type bodyContext struct {
	a          *Analysis
	sc         *moduleScope
	typeParams []string
	params     []model.Param
	spec       bool
	// self is the struct whose invariants are being lowered; its fields are
	// in scope by name
	self *model.Struct
	// result is the function result type, bound to `result` in its spec
	result *model.Type
	locals *Scope
}

func newBodyContext(a *Analysis, sc *moduleScope, typeParams []string, params []model.Param, spec bool) *bodyContext {
	return &bodyContext{
		a:          a,
		sc:         sc,
		typeParams: typeParams,
		params:     params,
		spec:       spec,
		locals:     NewScope(nil),
	}
}

func (cx *bodyContext) node(span Span) model.NodeID {
	return cx.a.b.NewNode(cx.sc.file.loc(span))
}

func (cx *bodyContext) call(span Span, op model.Operation, args ...*model.Expr) *model.Expr {
	return model.NewExpr(cx.node(span), &model.ExprCall{Op: op, Args: args})
}

func (cx *bodyContext) unit(span Span) *model.Expr {
	return cx.call(span, model.SimpleOp(model.OpTuple))
}

func (cx *bodyContext) numberType() model.Type {
	if cx.spec {
		return model.PrimitiveType("num")
	}
	return model.PrimitiveType("u64")
}

func (cx *bodyContext) resolveType(t ast.Type) model.Type {
	return cx.a.resolveType(cx.sc, cx.typeParams, t)
}

func (cx *bodyContext) paramIndex(name string) int {
	for i, p := range cx.params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (cx *bodyContext) lowerExpr(e ast.Expr) (*model.Expr, model.Type) {
	span := e.Span()
	switch d := e.Data().(type) {
	case *ast.ExprValue:
		var ty model.Type
		switch d.Kind {
		case ast.ValueNumber:
			ty = cx.numberType()
		case ast.ValueBool:
			ty = model.PrimitiveType("bool")
		case ast.ValueByteString:
			ty = model.VectorType(model.PrimitiveType("u8"))
		case ast.ValueAddress:
			ty = model.PrimitiveType("address")
		}
		return model.NewExpr(cx.node(span), &model.ExprValue{Raw: d.Raw}), ty

	case *ast.ExprName:
		return cx.lowerName(d)

	case *ast.ExprCall:
		return cx.lowerCall(d)

	case *ast.ExprPack:
		return cx.lowerPack(d)

	case *ast.ExprVector:
		node := cx.node(span)
		elems, tys := cx.lowerExprs(d.Elems)
		elem := model.ErrorType()
		if len(d.TypeArgs) > 0 {
			elem = cx.resolveType(d.TypeArgs[0])
		} else if len(tys) > 0 {
			elem = tys[0]
		}
		return model.NewExpr(node, &model.ExprCall{Op: model.SimpleOp(model.OpVector), Args: elems}), model.VectorType(elem)

	case *ast.ExprTuple:
		node := cx.node(span)
		elems, tys := cx.lowerExprs(d.Elems)
		return model.NewExpr(node, &model.ExprCall{Op: model.SimpleOp(model.OpTuple), Args: elems}), model.TupleType(tys...)

	case *ast.Block:
		return cx.lowerBlock(d)

	case *ast.ExprIf:
		node := cx.node(span)
		cond, _ := cx.lowerExpr(d.Cond)
		then, ty := cx.lowerExpr(d.Then)
		var els *model.Expr
		if d.Else != nil {
			els, _ = cx.lowerExpr(*d.Else)
		} else {
			ty = model.UnitType()
		}
		return model.NewExpr(node, &model.ExprIfElse{Cond: cond, Then: then, Else: els}), ty

	case *ast.ExprWhile:
		// while (c) body  =>  loop { if (c) body else break }
		node := cx.node(span)
		inner := cx.node(span)
		cond, _ := cx.lowerExpr(d.Cond)
		body, _ := cx.lowerExpr(d.Body)
		brk := model.NewExpr(cx.node(span), &model.ExprLoopCont{Continue: false})
		test := model.NewExpr(inner, &model.ExprIfElse{Cond: cond, Then: body, Else: brk})
		return model.NewExpr(node, &model.ExprLoop{Body: test}), model.UnitType()

	case *ast.ExprLoop:
		node := cx.node(span)
		body, _ := cx.lowerExpr(d.Body)
		return model.NewExpr(node, &model.ExprLoop{Body: body}), model.UnitType()

	case *ast.ExprReturn:
		node := cx.node(span)
		var value *model.Expr
		if d.Value != nil {
			value, _ = cx.lowerExpr(*d.Value)
		}
		return model.NewExpr(node, &model.ExprReturn{Value: value}), model.ErrorType()

	case *ast.ExprAbort:
		node := cx.node(span)
		code, _ := cx.lowerExpr(d.Code)
		return model.NewExpr(node, &model.ExprReturn{Abort: true, Value: code}), model.ErrorType()

	case *ast.ExprLoopCont:
		return model.NewExpr(cx.node(span), &model.ExprLoopCont{Continue: d.Continue}), model.ErrorType()

	case *ast.ExprBinary:
		node := cx.node(span)
		left, lty := cx.lowerExpr(d.Left)
		right, _ := cx.lowerExpr(d.Right)
		ty := lty
		switch d.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||", "==>", "<==>":
			ty = model.PrimitiveType("bool")
		case "..":
			ty = model.PrimitiveType("range")
		}
		return model.NewExpr(node, &model.ExprCall{Op: model.BuiltinOp(d.Op), Args: []*model.Expr{left, right}}), ty

	case *ast.ExprUnary:
		node := cx.node(span)
		inner, ty := cx.lowerExpr(d.Inner)
		if d.Op == "!" {
			ty = model.PrimitiveType("bool")
		}
		return model.NewExpr(node, &model.ExprCall{Op: model.BuiltinOp(d.Op), Args: []*model.Expr{inner}}), ty

	case *ast.ExprBorrow:
		node := cx.node(span)
		inner, ty := cx.lowerExpr(d.Inner)
		return model.NewExpr(node, &model.ExprCall{Op: model.BorrowOp(d.Mut), Args: []*model.Expr{inner}}), model.ReferenceType(d.Mut, ty)

	case *ast.ExprDeref:
		node := cx.node(span)
		inner, ty := cx.lowerExpr(d.Inner)
		if ty.Kind == model.TypeKindReference {
			ty = *ty.Elem
		}
		return model.NewExpr(node, &model.ExprCall{Op: model.SimpleOp(model.OpDeref), Args: []*model.Expr{inner}}), ty

	case *ast.ExprMoveCopy:
		return cx.lowerExpr(d.Inner)

	case *ast.ExprDot:
		return cx.lowerSelect(d)

	case *ast.ExprIndex:
		node := cx.node(span)
		inner, ty := cx.lowerExpr(d.Inner)
		index, ity := cx.lowerExpr(d.Index)
		rty := elemType(ty)
		if ity.Kind == model.TypeKindPrimitive && ity.Name == "range" {
			rty = ty.SkipReference()
		}
		return model.NewExpr(node, &model.ExprCall{Op: model.SimpleOp(model.OpIndex), Args: []*model.Expr{inner, index}}), rty

	case *ast.ExprCast:
		node := cx.node(span)
		inner, _ := cx.lowerExpr(d.Inner)
		ty := cx.resolveType(d.Type)
		return model.NewExpr(node, &model.ExprCall{Op: model.CastOp(ty), Args: []*model.Expr{inner}}), ty

	case *ast.ExprAssign:
		return cx.lowerAssign(d)

	case *ast.ExprQuant:
		return cx.lowerQuant(d)

	case *ast.ExprSpecBlock:
		return cx.lowerInlineSpec(d)
	}
	return model.NewExpr(cx.node(span), &model.ExprInvalid{}), model.ErrorType()
}

func (cx *bodyContext) lowerExprs(es []ast.Expr) ([]*model.Expr, []model.Type) {
	if len(es) == 0 {
		return nil, nil
	}
	out := make([]*model.Expr, len(es))
	tys := make([]model.Type, len(es))
	for i, e := range es {
		out[i], tys[i] = cx.lowerExpr(e)
	}
	return out, tys
}

func (cx *bodyContext) lowerName(d *ast.ExprName) (*model.Expr, model.Type) {
	path := &d.Path
	span := path.Span()
	if path.IsSimple() {
		name := path.Last().Name
		if local, ok := cx.locals.Lookup(name); ok {
			return model.NewExpr(cx.node(span), &model.ExprLocalVar{Name: name}), local.Type
		}
		if idx := cx.paramIndex(name); idx >= 0 {
			return model.NewExpr(cx.node(span), &model.ExprTemporary{Index: idx}), cx.params[idx].Type
		}
		if cx.result != nil && name == "result" {
			return model.NewExpr(cx.node(span), &model.ExprLocalVar{Name: name}), *cx.result
		}
		if cx.self != nil {
			if field, ok := cx.self.FieldByName(name); ok {
				return cx.call(span, model.SelectOp(cx.self.QualifiedID(), field.ID)), field.Type
			}
		}
	}
	if c, ok := cx.sc.resolveConst(cx.a, path); ok {
		return model.NewExpr(cx.node(span), &model.ExprValue{Raw: path.Last().Name}), c.ty
	}
	if !cx.spec {
		cx.a.Warningf(cx.sc.file, span, "unresolved name %s", path.String())
	}
	return model.NewExpr(cx.node(span), &model.ExprInvalid{}), model.ErrorType()
}

func (cx *bodyContext) lowerCall(d *ast.ExprCall) (*model.Expr, model.Type) {
	path := &d.Path
	node := cx.node(d.Span())
	typeArgs := cx.a.resolveTypeArgs(cx.sc, cx.typeParams, path.TypeArgs)
	args, argTypes := cx.lowerExprs(d.Args)
	name := path.Last().Name

	mk := func(op model.Operation) *model.Expr {
		return model.NewExpr(node, &model.ExprCall{Op: op, Args: args})
	}

	if d.Macro {
		return mk(model.BuiltinOp(name + "!")), model.UnitType()
	}

	if cx.spec {
		if sf, ok := cx.sc.resolveSpecFun(cx.a, path); ok {
			params := make([]model.Type, len(sf.Params))
			for i, p := range sf.Params {
				params[i] = p.Type
			}
			sd := cx.a.specFunDecl(sf)
			tps := 0
			if sd != nil {
				tps = len(sd.decl.TypeParams)
			}
			return mk(model.SpecFunctionOp(sf.QualifiedID())), instantiate(tps, params, sf.Result, typeArgs, argTypes)
		}
	}

	if fun, ok := cx.sc.resolveFunction(cx.a, path); ok {
		params := make([]model.Type, len(fun.Params))
		for i, p := range fun.Params {
			params[i] = p.Type
		}
		return mk(model.MoveFunctionOp(fun.QualifiedID())), instantiate(len(fun.TypeParams), params, fun.Result, typeArgs, argTypes)
	}

	if !path.IsSimple() {
		cx.a.Warningf(cx.sc.file, path.NameSpan(), "unresolved function %s", path.String())
	}
	return mk(model.BuiltinOp(name)), builtinType(name, typeArgs, argTypes)
}

// builtinType is the result type of a builtin or unresolved call.
func builtinType(name string, typeArgs, argTypes []model.Type) model.Type {
	typeArg := func() model.Type {
		if len(typeArgs) > 0 {
			return typeArgs[0]
		}
		return model.ErrorType()
	}
	arg := func() model.Type {
		if len(argTypes) > 0 {
			return argTypes[0]
		}
		return model.ErrorType()
	}
	switch name {
	case "borrow_global":
		return model.ReferenceType(false, typeArg())
	case "borrow_global_mut":
		return model.ReferenceType(true, typeArg())
	case "move_from", "global":
		return typeArg()
	case "exists", "contains", "in_range":
		return model.PrimitiveType("bool")
	case "move_to":
		return model.UnitType()
	case "freeze":
		return model.ReferenceType(false, arg().SkipReference())
	case "old", "update_field", "concat", "TRACE":
		return arg()
	case "len", "index_of":
		return model.PrimitiveType("num")
	case "vec":
		return model.VectorType(arg())
	}
	return model.ErrorType()
}

func (a *Analysis) specFunDecl(sf *model.SpecFun) *specFunDecl {
	mi := a.modules[sf.Module]
	for _, sd := range mi.specFuns {
		if sd.fun == sf {
			return sd
		}
	}
	return nil
}

// packField is one `name: value` of a pack; shorthand fields read the local
// of the same name.
func (cx *bodyContext) packFieldValue(f ast.PackField) ast.Expr {
	if f.Value != nil {
		return *f.Value
	}
	part := ast.NewPathPart(f.Name.Raw, f.Name.Span())
	return ast.NewExpr(ast.NewExprName(ast.NewPath([]ast.PathPart{part}, nil)))
}

func (cx *bodyContext) lowerPack(d *ast.ExprPack) (*model.Expr, model.Type) {
	node := cx.node(d.Span())
	values := make([]ast.Expr, len(d.Fields))
	for i, f := range d.Fields {
		values[i] = cx.packFieldValue(f)
	}
	args, argTypes := cx.lowerExprs(values)

	st, ok := cx.sc.resolveStruct(cx.a, &d.Path)
	if !ok {
		cx.a.Warningf(cx.sc.file, d.Path.NameSpan(), "unresolved struct %s", d.Path.String())
		return model.NewExpr(node, &model.ExprCall{Op: model.BuiltinOp("pack"), Args: args}), model.ErrorType()
	}

	typeArgs := cx.a.resolveTypeArgs(cx.sc, cx.typeParams, d.Path.TypeArgs)
	subst := make([]model.Type, len(st.TypeParams))
	if len(typeArgs) == len(subst) {
		copy(subst, typeArgs)
	}
	for i, f := range d.Fields {
		field, ok := st.FieldByName(f.Name.Raw)
		if !ok {
			cx.a.Errorf(cx.sc.file, f.Name.Span(), "struct %s has no field %s", st.Name, f.Name.Raw)
			continue
		}
		unify(field.Type, argTypes[i], subst)
	}
	ty := model.StructType(st.QualifiedID(), subst...)
	return model.NewExpr(node, &model.ExprCall{Op: model.PackOp(st.QualifiedID()), Args: args}), ty
}

func (cx *bodyContext) lowerSelect(d *ast.ExprDot) (*model.Expr, model.Type) {
	node := cx.node(d.Span())
	inner, innerTy := cx.lowerExpr(d.Inner)
	name := d.Field.Raw

	base := innerTy.SkipReference()
	var st *model.Struct
	if base.IsStruct() {
		st = cx.a.structOf(base.Struct)
	}
	if st == nil || !hasField(st, name) {
		base = model.Type{}
		st = cx.a.uniqueStructWithField(cx.sc.module, name)
	}
	if st == nil {
		return model.NewExpr(node, &model.ExprCall{Op: model.BuiltinOp("." + name), Args: []*model.Expr{inner}}), model.ErrorType()
	}

	field, _ := st.FieldByName(name)
	ty := field.Type
	if base.IsStruct() {
		ty = substitute(ty, base.Args)
	}
	return model.NewExpr(node, &model.ExprCall{Op: model.SelectOp(st.QualifiedID(), field.ID), Args: []*model.Expr{inner}}), ty
}

func hasField(st *model.Struct, name string) bool {
	_, ok := st.FieldByName(name)
	return ok
}

// uniqueStructWithField is the fallback when a select's receiver type is
// unknown: the only struct of the module declaring the field, else the only
// one in the program.
func (a *Analysis) uniqueStructWithField(mi *moduleInfo, name string) *model.Struct {
	var found *model.Struct
	count := 0
	for _, st := range mi.m.Structs {
		if hasField(st, name) {
			found = st
			count++
		}
	}
	if count == 1 {
		return found
	}
	if count > 1 {
		return nil
	}
	for _, other := range a.modules {
		for _, st := range other.m.Structs {
			if hasField(st, name) {
				found = st
				count++
			}
		}
	}
	if count == 1 {
		return found
	}
	return nil
}

func (cx *bodyContext) lowerAssign(d *ast.ExprAssign) (*model.Expr, model.Type) {
	node := cx.node(d.Span())
	rhs, rty := cx.lowerExpr(d.Rhs)
	if pat, ok := cx.exprPattern(d.Lhs, rty); ok {
		return model.NewExpr(node, &model.ExprAssign{Pattern: pat, Rhs: rhs}), model.UnitType()
	}
	lhs, _ := cx.lowerExpr(d.Lhs)
	return model.NewExpr(node, &model.ExprMutate{Lhs: lhs, Rhs: rhs}), model.UnitType()
}

func (cx *bodyContext) lowerQuant(d *ast.ExprQuant) (*model.Expr, model.Type) {
	node := cx.node(d.Span())
	outer := cx.locals
	inner := outer.Child()

	ranges := make([]model.QuantRange, len(d.Binds))
	for i, b := range d.Binds {
		var ty model.Type
		r := model.QuantRange{}
		if b.Type != nil {
			ty = cx.resolveType(b.Type)
			r.Type = &ty
		} else if b.Range != nil {
			// ranges see the variables bound before them
			cx.locals = inner
			r.Range, ty = cx.lowerExpr(*b.Range)
			cx.locals = outer
			ty = elemType(ty)
		}
		r.Pattern = &model.Pattern{Kind: model.PatternKindVar, Node: cx.node(b.Name.Span()), Name: b.Name.Raw}
		inner.Add(b.Name.Raw, ty)
		ranges[i] = r
	}

	cx.locals = inner
	defer func() { cx.locals = outer }()
	var cond *model.Expr
	if d.Where != nil {
		cond, _ = cx.lowerExpr(*d.Where)
	}
	body, _ := cx.lowerExpr(d.Body)
	return model.NewExpr(node, &model.ExprQuant{Exists: d.Exists, Ranges: ranges, Condition: cond, Body: body}), model.PrimitiveType("bool")
}

// lowerInlineSpec lowers `spec { }` inside a function body to the sequence of
// its condition expressions.
func (cx *bodyContext) lowerInlineSpec(d *ast.ExprSpecBlock) (*model.Expr, model.Type) {
	node := cx.node(d.Span())
	outer, wasSpec := cx.locals, cx.spec
	cx.locals, cx.spec = outer.Child(), true
	defer func() { cx.locals, cx.spec = outer, wasSpec }()

	var exprs []*model.Expr
	for _, c := range cx.lowerSpecMembers(d.Members) {
		exprs = append(exprs, c.AllExps()...)
	}
	return model.NewExpr(node, &model.ExprSequence{Exprs: exprs}), model.UnitType()
}
