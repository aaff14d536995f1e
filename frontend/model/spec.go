package model

type ConditionKind uint8

const (
	_ ConditionKind = iota
	CondRequires
	CondEnsures
	CondAbortsIf
	CondAbortsWith
	CondModifies
	CondInvariant
	CondAssert
	CondAssume
	CondDecreases
	CondEmits
)

var conditionKindNames = map[ConditionKind]string{
	CondRequires:   "requires",
	CondEnsures:    "ensures",
	CondAbortsIf:   "aborts_if",
	CondAbortsWith: "aborts_with",
	CondModifies:   "modifies",
	CondInvariant:  "invariant",
	CondAssert:     "assert",
	CondAssume:     "assume",
	CondDecreases:  "decreases",
	CondEmits:      "emits",
}

// LookupConditionKind maps a condition keyword to its kind.
func LookupConditionKind(s string) (ConditionKind, bool) {
	for k, name := range conditionKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

func (k ConditionKind) String() string {
	return conditionKindNames[k]
}

// Condition is one line of a spec block, e.g. `aborts_if x > 0 with E;`.
type Condition struct {
	Kind           ConditionKind
	Loc            Loc
	Exp            *Expr
	AdditionalExps []*Expr
}

// AllExps is Exp followed by AdditionalExps.
func (c *Condition) AllExps() []*Expr {
	out := make([]*Expr, 0, 1+len(c.AdditionalExps))
	if c.Exp != nil {
		out = append(out, c.Exp)
	}
	return append(out, c.AdditionalExps...)
}

type Spec struct {
	Loc        Loc
	Conditions []Condition
}

type SpecBlockTargetKind uint8

const (
	_ SpecBlockTargetKind = iota
	SpecTargetModule
	SpecTargetFunction
	SpecTargetStruct
	SpecTargetSchema
)

type SpecBlockTarget struct {
	Kind   SpecBlockTargetKind `msgpack:"k"`
	Fun    FunID               `msgpack:"f,omitempty"`
	Struct StructID            `msgpack:"s,omitempty"`
	Name   string              `msgpack:"n,omitempty"`
}

// SpecBlockInfo records where a `spec ... { }` block sits and what it annotates.
type SpecBlockInfo struct {
	Loc    Loc             `msgpack:"l"`
	Target SpecBlockTarget `msgpack:"t"`
}
