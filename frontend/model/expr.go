package model

import (
	"github.com/movebit/move-analyzer/common"
)

type ExprKind uint8

const (
	_ ExprKind = iota
	ExprKindInvalid
	ExprKindLocalVar
	ExprKindTemporary
	ExprKindValue
	ExprKindCall
	ExprKindBlock
	ExprKindAssign
	ExprKindIfElse
	ExprKindSequence
	ExprKindLoop
	ExprKindLoopCont
	ExprKindReturn
	ExprKindMutate
	ExprKindQuant
)

func (k ExprKind) String() string {
	switch k {
	case ExprKindInvalid:
		return "invalid"
	case ExprKindLocalVar:
		return "local var"
	case ExprKindTemporary:
		return "temporary"
	case ExprKindValue:
		return "value"
	case ExprKindCall:
		return "call"
	case ExprKindBlock:
		return "block"
	case ExprKindAssign:
		return "assign"
	case ExprKindIfElse:
		return "if else"
	case ExprKindSequence:
		return "sequence"
	case ExprKindLoop:
		return "loop"
	case ExprKindLoopCont:
		return "loop cont"
	case ExprKindReturn:
		return "return"
	case ExprKindMutate:
		return "mutate"
	case ExprKindQuant:
		return "quant"
	default:
		panic("unreachable")
	}
}

type exprData interface {
	ExprKind() ExprKind
}

// Expr is one node of a function body or a specification condition. Its
// location is recorded in the environment under Node.
type Expr struct {
	Node NodeID
	data exprData
}

func NewExpr[T exprData](node NodeID, data T) *Expr {
	return &Expr{Node: node, data: data}
}

func (e *Expr) Kind() ExprKind {
	return e.data.ExprKind()
}

func (e *Expr) Data() exprData {
	return e.data
}

func (e *Expr) LocalVar() *ExprLocalVar {
	if e.Kind() != ExprKindLocalVar {
		panic("not a local var")
	}
	return e.data.(*ExprLocalVar)
}

func (e *Expr) Temporary() *ExprTemporary {
	if e.Kind() != ExprKindTemporary {
		panic("not a temporary")
	}
	return e.data.(*ExprTemporary)
}

func (e *Expr) Value() *ExprValue {
	if e.Kind() != ExprKindValue {
		panic("not a value")
	}
	return e.data.(*ExprValue)
}

func (e *Expr) Call() *ExprCall {
	if e.Kind() != ExprKindCall {
		panic("not a call")
	}
	return e.data.(*ExprCall)
}

func (e *Expr) Block() *ExprBlock {
	if e.Kind() != ExprKindBlock {
		panic("not a block")
	}
	return e.data.(*ExprBlock)
}

func (e *Expr) Assign() *ExprAssign {
	if e.Kind() != ExprKindAssign {
		panic("not an assign")
	}
	return e.data.(*ExprAssign)
}

func (e *Expr) IfElse() *ExprIfElse {
	if e.Kind() != ExprKindIfElse {
		panic("not an if else")
	}
	return e.data.(*ExprIfElse)
}

func (e *Expr) Sequence() *ExprSequence {
	if e.Kind() != ExprKindSequence {
		panic("not a sequence")
	}
	return e.data.(*ExprSequence)
}

func (e *Expr) Loop() *ExprLoop {
	if e.Kind() != ExprKindLoop {
		panic("not a loop")
	}
	return e.data.(*ExprLoop)
}

func (e *Expr) LoopCont() *ExprLoopCont {
	if e.Kind() != ExprKindLoopCont {
		panic("not a loop cont")
	}
	return e.data.(*ExprLoopCont)
}

func (e *Expr) Return() *ExprReturn {
	if e.Kind() != ExprKindReturn {
		panic("not a return")
	}
	return e.data.(*ExprReturn)
}

func (e *Expr) Mutate() *ExprMutate {
	if e.Kind() != ExprKindMutate {
		panic("not a mutate")
	}
	return e.data.(*ExprMutate)
}

func (e *Expr) Quant() *ExprQuant {
	if e.Kind() != ExprKindQuant {
		panic("not a quant")
	}
	return e.data.(*ExprQuant)
}

/* Variants */

type ExprInvalid struct{}

func (*ExprInvalid) ExprKind() ExprKind { return ExprKindInvalid }

// ExprLocalVar is a use of a `let`-bound variable.
type ExprLocalVar struct {
	Name string
}

func (*ExprLocalVar) ExprKind() ExprKind { return ExprKindLocalVar }

// ExprTemporary is a use of a function parameter, by position.
type ExprTemporary struct {
	Index int
}

func (*ExprTemporary) ExprKind() ExprKind { return ExprKindTemporary }

// ExprValue is a literal; Raw is its source text.
type ExprValue struct {
	Raw string
}

func (*ExprValue) ExprKind() ExprKind { return ExprKindValue }

type ExprCall struct {
	Op   Operation
	Args []*Expr
}

func (*ExprCall) ExprKind() ExprKind { return ExprKindCall }

// ExprBlock is `let Pattern = Binding; Body`. Binding is nil for a bare `let x;`.
type ExprBlock struct {
	Pattern *Pattern
	Binding *Expr
	Body    *Expr
}

func (*ExprBlock) ExprKind() ExprKind { return ExprKindBlock }

type ExprAssign struct {
	Pattern *Pattern
	Rhs     *Expr
}

func (*ExprAssign) ExprKind() ExprKind { return ExprKindAssign }

type ExprIfElse struct {
	Cond, Then, Else *Expr
}

func (*ExprIfElse) ExprKind() ExprKind { return ExprKindIfElse }

type ExprSequence struct {
	Exprs []*Expr
}

func (*ExprSequence) ExprKind() ExprKind { return ExprKindSequence }

type ExprLoop struct {
	Body *Expr
}

func (*ExprLoop) ExprKind() ExprKind { return ExprKindLoop }

type ExprLoopCont struct {
	Continue bool
}

func (*ExprLoopCont) ExprKind() ExprKind { return ExprKindLoopCont }

// ExprReturn also models `abort`; Value may be nil.
type ExprReturn struct {
	Abort bool
	Value *Expr
}

func (*ExprReturn) ExprKind() ExprKind { return ExprKindReturn }

// ExprMutate is `*Lhs = Rhs`.
type ExprMutate struct {
	Lhs, Rhs *Expr
}

func (*ExprMutate) ExprKind() ExprKind { return ExprKindMutate }

// QuantRange is `pattern: Type` or `pattern in expr` inside a quantifier.
type QuantRange struct {
	Pattern *Pattern
	Type    *Type
	Range   *Expr
}

type ExprQuant struct {
	Exists    bool
	Ranges    []QuantRange
	Condition *Expr
	Body      *Expr
}

func (*ExprQuant) ExprKind() ExprKind { return ExprKindQuant }

/* Traversal */

// Children returns the direct sub-expressions of e in source order.
func (e *Expr) Children() []*Expr {
	var out []*Expr
	add := func(es ...*Expr) {
		for _, c := range es {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch d := e.data.(type) {
	case *ExprCall:
		add(d.Args...)
	case *ExprBlock:
		add(d.Binding, d.Body)
	case *ExprAssign:
		add(d.Rhs)
	case *ExprIfElse:
		add(d.Cond, d.Then, d.Else)
	case *ExprSequence:
		add(d.Exprs...)
	case *ExprLoop:
		add(d.Body)
	case *ExprReturn:
		add(d.Value)
	case *ExprMutate:
		add(d.Lhs, d.Rhs)
	case *ExprQuant:
		for _, r := range d.Ranges {
			add(r.Range)
		}
		add(d.Condition, d.Body)
	}
	return out
}

// VisitPreOrder calls visit on e and then on every descendant, parents
// before children and siblings in source order. Returning false from visit
// stops the whole traversal.
func (e *Expr) VisitPreOrder(visit func(*Expr) bool) {
	if e == nil {
		return
	}
	var stack common.Stack[*Expr]
	stack.Push(e)
	for !stack.Empty() {
		cur, _ := stack.Pop()
		if !visit(cur) {
			return
		}
		stack.PushReversed(cur.Children()...)
	}
}

// NodeIDs lists the node of e and of every descendant, in pre-order.
func (e *Expr) NodeIDs() []NodeID {
	var out []NodeID
	e.VisitPreOrder(func(x *Expr) bool {
		out = append(out, x.Node)
		return true
	})
	return out
}
