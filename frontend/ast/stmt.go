package ast

import (
	"github.com/movebit/move-analyzer/common"
)

type Stmt interface {
	isStmt()
	Span() common.Span
}

/* Block */

// Block is `{ stmts; final }`. Final is nil when the block ends with `;`.
type Block struct {
	Stmts []Stmt
	Final *Expr
	span  common.Span
}

func NewBlock(stmts []Stmt, final *Expr, span common.Span) *Block {
	return &Block{Stmts: stmts, Final: final, span: span}
}

func (b *Block) ExprKind() ExprKind { return ExprKindBlock }
func (b *Block) Span() common.Span  { return b.span }

/* Let */

// Let is `let bind[: T] [= value];`. `let (a, b) = ..` binds a BindTuple.
type Let struct {
	Bind  Bind
	Type  Type  // nil when not annotated
	Value *Expr // nil for `let x;`
	span  common.Span
}

func NewLet(bind Bind, ty Type, value *Expr, span common.Span) *Let {
	return &Let{Bind: bind, Type: ty, Value: value, span: span}
}

func (l *Let) isStmt() {}

func (l *Let) Span() common.Span {
	return l.span
}

/* ExprStatement */

type StmtExpr struct {
	Expr         Expr
	HasSemicolon bool
	span         common.Span
}

func NewStmtExpr(expr Expr, hasSemicolon bool, span common.Span) *StmtExpr {
	return &StmtExpr{Expr: expr, HasSemicolon: hasSemicolon, span: span}
}

func (s *StmtExpr) isStmt() {}

func (s *StmtExpr) Span() common.Span {
	return s.span
}
