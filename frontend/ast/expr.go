package ast

import (
	"github.com/movebit/move-analyzer/common"
)

type ExprKind uint8

const (
	_ ExprKind = iota
	ExprKindValue
	ExprKindName
	ExprKindCall
	ExprKindPack
	ExprKindVector
	ExprKindTuple
	ExprKindBlock
	ExprKindIf
	ExprKindWhile
	ExprKindLoop
	ExprKindReturn
	ExprKindAbort
	ExprKindBreak
	ExprKindContinue
	ExprKindBinary
	ExprKindUnary
	ExprKindBorrow
	ExprKindDeref
	ExprKindMoveCopy
	ExprKindDot
	ExprKindIndex
	ExprKindCast
	ExprKindAssign
	ExprKindQuant
	ExprKindSpecBlock
)

func (k ExprKind) String() string {
	switch k {
	case ExprKindValue:
		return "value"
	case ExprKindName:
		return "name"
	case ExprKindCall:
		return "call"
	case ExprKindPack:
		return "pack"
	case ExprKindVector:
		return "vector"
	case ExprKindTuple:
		return "tuple"
	case ExprKindBlock:
		return "block"
	case ExprKindIf:
		return "if"
	case ExprKindWhile:
		return "while"
	case ExprKindLoop:
		return "loop"
	case ExprKindReturn:
		return "return"
	case ExprKindAbort:
		return "abort"
	case ExprKindBreak:
		return "break"
	case ExprKindContinue:
		return "continue"
	case ExprKindBinary:
		return "binary"
	case ExprKindUnary:
		return "unary"
	case ExprKindBorrow:
		return "borrow"
	case ExprKindDeref:
		return "deref"
	case ExprKindMoveCopy:
		return "move/copy"
	case ExprKindDot:
		return "dot"
	case ExprKindIndex:
		return "index"
	case ExprKindCast:
		return "cast"
	case ExprKindAssign:
		return "assign"
	case ExprKindQuant:
		return "quantifier"
	case ExprKindSpecBlock:
		return "spec block"
	default:
		panic("unreachable")
	}
}

type exprData interface {
	ExprKind() ExprKind
	Span() common.Span
}

type Expr struct {
	data exprData
}

func NewExpr[T exprData](data T) Expr {
	return Expr{data: data}
}

func (e Expr) Kind() ExprKind {
	return e.data.ExprKind()
}

func (e Expr) Data() exprData {
	return e.data
}

func (e Expr) Span() common.Span {
	return e.data.Span()
}

func (e *Expr) Value() *ExprValue {
	if e.Kind() != ExprKindValue {
		panic("not a value")
	}
	return e.data.(*ExprValue)
}

func (e *Expr) Name() *ExprName {
	if e.Kind() != ExprKindName {
		panic("not a name")
	}
	return e.data.(*ExprName)
}

func (e *Expr) Call() *ExprCall {
	if e.Kind() != ExprKindCall {
		panic("not a call")
	}
	return e.data.(*ExprCall)
}

func (e *Expr) Pack() *ExprPack {
	if e.Kind() != ExprKindPack {
		panic("not a pack")
	}
	return e.data.(*ExprPack)
}

func (e *Expr) Dot() *ExprDot {
	if e.Kind() != ExprKindDot {
		panic("not a dot")
	}
	return e.data.(*ExprDot)
}

func (e *Expr) Block() *Block {
	if e.Kind() != ExprKindBlock {
		panic("not a block")
	}
	return e.data.(*Block)
}

func (e *Expr) Binary() *ExprBinary {
	if e.Kind() != ExprKindBinary {
		panic("not a binary")
	}
	return e.data.(*ExprBinary)
}

func (e *Expr) Assign() *ExprAssign {
	if e.Kind() != ExprKindAssign {
		panic("not an assign")
	}
	return e.data.(*ExprAssign)
}

/* Value */

type ValueKind uint8

const (
	_ ValueKind = iota
	ValueNumber
	ValueBool
	ValueByteString
	ValueAddress
)

// ExprValue is a literal. Raw is the source text, without the `@` of addresses.
type ExprValue struct {
	Kind ValueKind
	Raw  string
	span common.Span
}

func NewExprValue(kind ValueKind, raw string, span common.Span) *ExprValue {
	return &ExprValue{Kind: kind, Raw: raw, span: span}
}

func (v *ExprValue) ExprKind() ExprKind { return ExprKindValue }
func (v *ExprValue) Span() common.Span  { return v.span }

/* Name */

// ExprName is a variable or constant reference.
type ExprName struct {
	Path Path
}

func NewExprName(path Path) *ExprName {
	return &ExprName{Path: path}
}

func (n *ExprName) ExprKind() ExprKind { return ExprKindName }
func (n *ExprName) Span() common.Span  { return n.Path.Span() }

/* Call */

type ExprCall struct {
	Path  Path
	Macro bool // `assert!(..)`
	Args  []Expr
	span  common.Span
}

func NewExprCall(path Path, macro bool, args []Expr, span common.Span) *ExprCall {
	return &ExprCall{Path: path, Macro: macro, Args: args, span: span}
}

func (c *ExprCall) ExprKind() ExprKind { return ExprKindCall }
func (c *ExprCall) Span() common.Span  { return c.span }

/* Pack */

// PackField is `name: value`; Value is nil for the shorthand `name`.
type PackField struct {
	Name  Ident
	Value *Expr
}

type ExprPack struct {
	Path   Path
	Fields []PackField
	span   common.Span
}

func NewExprPack(path Path, fields []PackField, span common.Span) *ExprPack {
	return &ExprPack{Path: path, Fields: fields, span: span}
}

func (p *ExprPack) ExprKind() ExprKind { return ExprKindPack }
func (p *ExprPack) Span() common.Span  { return p.span }

/* Vector */

type ExprVector struct {
	TypeArgs []Type
	Elems    []Expr
	span     common.Span
}

func NewExprVector(typeArgs []Type, elems []Expr, span common.Span) *ExprVector {
	return &ExprVector{TypeArgs: typeArgs, Elems: elems, span: span}
}

func (v *ExprVector) ExprKind() ExprKind { return ExprKindVector }
func (v *ExprVector) Span() common.Span  { return v.span }

/* Tuple */

// ExprTuple with no elements is `()`.
type ExprTuple struct {
	Elems []Expr
	span  common.Span
}

func NewExprTuple(elems []Expr, span common.Span) *ExprTuple {
	return &ExprTuple{Elems: elems, span: span}
}

func (t *ExprTuple) ExprKind() ExprKind { return ExprKindTuple }
func (t *ExprTuple) Span() common.Span  { return t.span }

/* If */

type ExprIf struct {
	Cond Expr
	Then Expr
	Else *Expr
	span common.Span
}

func NewExprIf(cond, then Expr, els *Expr, span common.Span) *ExprIf {
	return &ExprIf{Cond: cond, Then: then, Else: els, span: span}
}

func (i *ExprIf) ExprKind() ExprKind { return ExprKindIf }
func (i *ExprIf) Span() common.Span  { return i.span }

/* While */

type ExprWhile struct {
	Cond Expr
	Body Expr
	span common.Span
}

func NewExprWhile(cond, body Expr, span common.Span) *ExprWhile {
	return &ExprWhile{Cond: cond, Body: body, span: span}
}

func (w *ExprWhile) ExprKind() ExprKind { return ExprKindWhile }
func (w *ExprWhile) Span() common.Span  { return w.span }

/* Loop */

type ExprLoop struct {
	Body Expr
	span common.Span
}

func NewExprLoop(body Expr, span common.Span) *ExprLoop {
	return &ExprLoop{Body: body, span: span}
}

func (l *ExprLoop) ExprKind() ExprKind { return ExprKindLoop }
func (l *ExprLoop) Span() common.Span  { return l.span }

/* Return / Abort */

type ExprReturn struct {
	Value *Expr
	span  common.Span
}

func NewExprReturn(value *Expr, span common.Span) *ExprReturn {
	return &ExprReturn{Value: value, span: span}
}

func (r *ExprReturn) ExprKind() ExprKind { return ExprKindReturn }
func (r *ExprReturn) Span() common.Span  { return r.span }

type ExprAbort struct {
	Code Expr
	span common.Span
}

func NewExprAbort(code Expr, span common.Span) *ExprAbort {
	return &ExprAbort{Code: code, span: span}
}

func (a *ExprAbort) ExprKind() ExprKind { return ExprKindAbort }
func (a *ExprAbort) Span() common.Span  { return a.span }

/* Break / Continue */

type ExprLoopCont struct {
	Continue bool
	span     common.Span
}

func NewExprLoopCont(cont bool, span common.Span) *ExprLoopCont {
	return &ExprLoopCont{Continue: cont, span: span}
}

func (l *ExprLoopCont) ExprKind() ExprKind {
	if l.Continue {
		return ExprKindContinue
	}
	return ExprKindBreak
}
func (l *ExprLoopCont) Span() common.Span { return l.span }

/* Binary */

type ExprBinary struct {
	Op    string
	Left  Expr
	Right Expr
	span  common.Span
}

func NewExprBinary(op string, left, right Expr, span common.Span) *ExprBinary {
	return &ExprBinary{Op: op, Left: left, Right: right, span: span}
}

func (b *ExprBinary) ExprKind() ExprKind { return ExprKindBinary }
func (b *ExprBinary) Span() common.Span  { return b.span }

/* Unary */

// ExprUnary is `!e`.
type ExprUnary struct {
	Op    string
	Inner Expr
	span  common.Span
}

func NewExprUnary(op string, inner Expr, span common.Span) *ExprUnary {
	return &ExprUnary{Op: op, Inner: inner, span: span}
}

func (u *ExprUnary) ExprKind() ExprKind { return ExprKindUnary }
func (u *ExprUnary) Span() common.Span  { return u.span }

/* Borrow / Deref / Move / Copy */

type ExprBorrow struct {
	Mut   bool
	Inner Expr
	span  common.Span
}

func NewExprBorrow(mut bool, inner Expr, span common.Span) *ExprBorrow {
	return &ExprBorrow{Mut: mut, Inner: inner, span: span}
}

func (b *ExprBorrow) ExprKind() ExprKind { return ExprKindBorrow }
func (b *ExprBorrow) Span() common.Span  { return b.span }

type ExprDeref struct {
	Inner Expr
	span  common.Span
}

func NewExprDeref(inner Expr, span common.Span) *ExprDeref {
	return &ExprDeref{Inner: inner, span: span}
}

func (d *ExprDeref) ExprKind() ExprKind { return ExprKindDeref }
func (d *ExprDeref) Span() common.Span  { return d.span }

// ExprMoveCopy is `move x` or `copy x`.
type ExprMoveCopy struct {
	Copy  bool
	Inner Expr
	span  common.Span
}

func NewExprMoveCopy(copy bool, inner Expr, span common.Span) *ExprMoveCopy {
	return &ExprMoveCopy{Copy: copy, Inner: inner, span: span}
}

func (m *ExprMoveCopy) ExprKind() ExprKind { return ExprKindMoveCopy }
func (m *ExprMoveCopy) Span() common.Span  { return m.span }

/* Dot */

type ExprDot struct {
	Inner Expr
	Field Ident
	span  common.Span
}

func NewExprDot(inner Expr, field Ident, span common.Span) *ExprDot {
	return &ExprDot{Inner: inner, Field: field, span: span}
}

func (d *ExprDot) ExprKind() ExprKind { return ExprKindDot }
func (d *ExprDot) Span() common.Span  { return d.span }

/* Index */

type ExprIndex struct {
	Inner Expr
	Index Expr
	span  common.Span
}

func NewExprIndex(inner, index Expr, span common.Span) *ExprIndex {
	return &ExprIndex{Inner: inner, Index: index, span: span}
}

func (i *ExprIndex) ExprKind() ExprKind { return ExprKindIndex }
func (i *ExprIndex) Span() common.Span  { return i.span }

/* Cast */

type ExprCast struct {
	Inner Expr
	Type  Type
	span  common.Span
}

func NewExprCast(inner Expr, ty Type, span common.Span) *ExprCast {
	return &ExprCast{Inner: inner, Type: ty, span: span}
}

func (c *ExprCast) ExprKind() ExprKind { return ExprKindCast }
func (c *ExprCast) Span() common.Span  { return c.span }

/* Assign */

// ExprAssign is `lhs = rhs`. The left side is kept as an expression; the
// analyzer decides whether it is a pattern or a mutation.
type ExprAssign struct {
	Lhs  Expr
	Rhs  Expr
	span common.Span
}

func NewExprAssign(lhs, rhs Expr, span common.Span) *ExprAssign {
	return &ExprAssign{Lhs: lhs, Rhs: rhs, span: span}
}

func (a *ExprAssign) ExprKind() ExprKind { return ExprKindAssign }
func (a *ExprAssign) Span() common.Span  { return a.span }

/* Quant */

// QuantBind is `x: T` or `x in range`.
type QuantBind struct {
	Name  Ident
	Type  Type
	Range *Expr
}

type ExprQuant struct {
	Exists bool
	Binds  []QuantBind
	Where  *Expr
	Body   Expr
	span   common.Span
}

func NewExprQuant(exists bool, binds []QuantBind, where *Expr, body Expr, span common.Span) *ExprQuant {
	return &ExprQuant{Exists: exists, Binds: binds, Where: where, Body: body, span: span}
}

func (q *ExprQuant) ExprKind() ExprKind { return ExprKindQuant }
func (q *ExprQuant) Span() common.Span  { return q.span }

/* Inline spec */

// ExprSpecBlock is a `spec { }` block inside a function body. Its members are
// kept but do not take part in evaluation.
type ExprSpecBlock struct {
	Members []SpecMember
	span    common.Span
}

func NewExprSpecBlock(members []SpecMember, span common.Span) *ExprSpecBlock {
	return &ExprSpecBlock{Members: members, span: span}
}

func (s *ExprSpecBlock) ExprKind() ExprKind { return ExprKindSpecBlock }
func (s *ExprSpecBlock) Span() common.Span  { return s.span }
