package references

import (
	"github.com/movebit/move-analyzer/frontend/model"
)

// binding identifies one variable of a body: a parameter by index, or the
// pattern node of the `let` (or quantifier) that introduced a local.
type binding struct {
	param int
	node  model.NodeID
}

func paramBinding(i int) binding { return binding{param: i} }

func localBinding(node model.NodeID) binding { return binding{param: -1, node: node} }

func (b binding) isParam() bool { return b.param >= 0 }

// scope is a persistent chain of visible names; inner entries shadow outer ones.
type scope struct {
	parent *scope
	name   string
	b      binding
}

func (s *scope) push(name string, b binding) *scope {
	return &scope{parent: s, name: name, b: b}
}

func (s *scope) lookup(name string) (binding, bool) {
	for ; s != nil; s = s.parent {
		if s.name == name {
			return s.b, true
		}
	}
	return binding{}, false
}

// bindings maps every variable occurrence of one expression tree to the
// binding it refers to. It is built fresh for each tree and never shared
// between declarations.
type bindings struct {
	params []model.Param
	of     map[model.NodeID]binding
	uses   map[binding][]model.NodeID
}

func resolveBindings(root *model.Expr, params []model.Param) *bindings {
	bs := &bindings{
		params: params,
		of:     make(map[model.NodeID]binding),
		uses:   make(map[binding][]model.NodeID),
	}
	var sc *scope
	for i, p := range params {
		sc = sc.push(p.Name, paramBinding(i))
	}
	bs.resolve(root, sc)
	return bs
}

func (bs *bindings) use(node model.NodeID, b binding) {
	bs.of[node] = b
	bs.uses[b] = append(bs.uses[b], node)
}

// declare adds the variables of pat to sc.
func (bs *bindings) declare(pat *model.Pattern, sc *scope) *scope {
	if pat == nil {
		return sc
	}
	for _, v := range pat.Vars() {
		b := localBinding(v.Node)
		bs.of[v.Node] = b
		sc = sc.push(v.Name, b)
	}
	return sc
}

func (bs *bindings) resolve(e *model.Expr, sc *scope) {
	if e == nil {
		return
	}
	switch e.Kind() {
	case model.ExprKindLocalVar:
		if b, ok := sc.lookup(e.LocalVar().Name); ok {
			bs.use(e.Node, b)
		}

	case model.ExprKindTemporary:
		bs.use(e.Node, paramBinding(e.Temporary().Index))

	case model.ExprKindBlock:
		blk := e.Block()
		bs.resolve(blk.Binding, sc)
		bs.resolve(blk.Body, bs.declare(blk.Pattern, sc))

	case model.ExprKindAssign:
		asg := e.Assign()
		bs.resolve(asg.Rhs, sc)
		if asg.Pattern != nil {
			for _, v := range asg.Pattern.Vars() {
				if b, ok := sc.lookup(v.Name); ok {
					bs.use(v.Node, b)
				}
			}
		}

	case model.ExprKindQuant:
		q := e.Quant()
		inner := sc
		for _, r := range q.Ranges {
			bs.resolve(r.Range, sc)
			inner = bs.declare(r.Pattern, inner)
		}
		bs.resolve(q.Condition, inner)
		bs.resolve(q.Body, inner)

	default:
		for _, c := range e.Children() {
			bs.resolve(c, sc)
		}
	}
}

// lookup returns the binding node refers to, as a use or as the declaring
// pattern.
func (bs *bindings) lookup(node model.NodeID) (binding, bool) {
	b, ok := bs.of[node]
	return b, ok
}

// locs is the declaration of b followed by its uses in traversal order.
func (bs *bindings) locs(env *model.GlobalEnv, b binding) []model.Loc {
	var out []model.Loc
	if b.isParam() {
		if b.param < len(bs.params) {
			out = append(out, bs.params[b.param].Loc)
		}
	} else {
		out = append(out, env.NodeLoc(b.node))
	}
	for _, n := range bs.uses[b] {
		out = append(out, env.NodeLoc(n))
	}
	return out
}
