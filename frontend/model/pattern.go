package model

type PatternKind uint8

const (
	_ PatternKind = iota
	PatternKindVar
	PatternKindWildcard
	PatternKindTuple
	PatternKindStruct
	PatternKindError
)

func (k PatternKind) String() string {
	switch k {
	case PatternKindVar:
		return "var"
	case PatternKindWildcard:
		return "wildcard"
	case PatternKindTuple:
		return "tuple"
	case PatternKindStruct:
		return "struct"
	case PatternKindError:
		return "error"
	default:
		panic("unreachable")
	}
}

// FieldPattern is one `field: pattern` entry of a struct pattern.
type FieldPattern struct {
	Field FieldID  `msgpack:"f"`
	Pat   *Pattern `msgpack:"p"`
}

// Pattern is the left-hand side of a `let` or an assignment.
//
// Var uses Name; Tuple uses Elems; Struct uses Struct and Fields, the latter
// in source order.
type Pattern struct {
	Kind   PatternKind       `msgpack:"k"`
	Node   NodeID            `msgpack:"n"`
	Name   string            `msgpack:"v,omitempty"`
	Struct QualifiedStructID `msgpack:"s,omitempty"`
	Fields []FieldPattern    `msgpack:"fs,omitempty"`
	Elems  []*Pattern        `msgpack:"es,omitempty"`
}

// PatVar is a variable bound by a pattern.
type PatVar struct {
	Node NodeID
	Name string
}

// Vars lists every variable p binds, in source order.
func (p *Pattern) Vars() []PatVar {
	var out []PatVar
	p.collectVars(&out)
	return out
}

func (p *Pattern) collectVars(out *[]PatVar) {
	if p == nil {
		return
	}
	switch p.Kind {
	case PatternKindVar:
		*out = append(*out, PatVar{Node: p.Node, Name: p.Name})
	case PatternKindTuple:
		for _, e := range p.Elems {
			e.collectVars(out)
		}
	case PatternKindStruct:
		for _, f := range p.Fields {
			f.Pat.collectVars(out)
		}
	}
}

// Children are the direct sub-patterns in source order.
func (p *Pattern) Children() []*Pattern {
	switch p.Kind {
	case PatternKindTuple:
		return p.Elems
	case PatternKindStruct:
		out := make([]*Pattern, 0, len(p.Fields))
		for _, f := range p.Fields {
			out = append(out, f.Pat)
		}
		return out
	default:
		return nil
	}
}

// VisitPreOrder calls visit on p and then on every nested pattern.
func (p *Pattern) VisitPreOrder(visit func(*Pattern)) {
	if p == nil {
		return
	}
	visit(p)
	for _, c := range p.Children() {
		c.VisitPreOrder(visit)
	}
}
