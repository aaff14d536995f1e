package model

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

var ErrSnapshotVersion = errors.New("unsupported model snapshot version")

type snapshot struct {
	Version int         `msgpack:"version"`
	Files   []fileDTO   `msgpack:"files"`
	Nodes   []Loc       `msgpack:"nodes"`
	Modules []moduleDTO `msgpack:"modules"`
}

type fileDTO struct {
	Path    string `msgpack:"path"`
	Content string `msgpack:"content"`
}

type moduleDTO struct {
	Name       ModuleName      `msgpack:"name"`
	Loc        Loc             `msgpack:"loc"`
	Functions  []functionDTO   `msgpack:"functions"`
	Structs    []structDTO     `msgpack:"structs"`
	SpecFuns   []specFunDTO    `msgpack:"spec_funs"`
	SpecBlocks []SpecBlockInfo `msgpack:"spec_blocks"`
	Spec       specDTO         `msgpack:"spec"`
}

type functionDTO struct {
	Name             string              `msgpack:"name"`
	Loc              Loc                 `msgpack:"loc"`
	Visibility       Visibility          `msgpack:"visibility"`
	Entry            bool                `msgpack:"entry"`
	Native           bool                `msgpack:"native"`
	TypeParams       []string            `msgpack:"type_params"`
	Params           []Param             `msgpack:"params"`
	Result           Type                `msgpack:"result"`
	AccessSpecifiers []AccessSpecifier   `msgpack:"access"`
	Acquires         []QualifiedStructID `msgpack:"acquires"`
	Def              *exprDTO            `msgpack:"def"`
	Spec             specDTO             `msgpack:"spec"`
}

type structDTO struct {
	Name       string   `msgpack:"name"`
	Loc        Loc      `msgpack:"loc"`
	Native     bool     `msgpack:"native"`
	Abilities  []string `msgpack:"abilities"`
	TypeParams []string `msgpack:"type_params"`
	Fields     []Field  `msgpack:"fields"`
	Spec       specDTO  `msgpack:"spec"`
}

type specFunDTO struct {
	Name   string   `msgpack:"name"`
	Loc    Loc      `msgpack:"loc"`
	Params []Param  `msgpack:"params"`
	Result Type     `msgpack:"result"`
	Body   *exprDTO `msgpack:"body"`
}

type specDTO struct {
	Loc        Loc            `msgpack:"loc"`
	Conditions []conditionDTO `msgpack:"conditions"`
}

type conditionDTO struct {
	Kind       ConditionKind `msgpack:"kind"`
	Loc        Loc           `msgpack:"loc"`
	Exp        *exprDTO      `msgpack:"exp"`
	Additional []*exprDTO    `msgpack:"additional"`
}

// exprDTO flattens the expression sum type. Kids holds the sub-expressions
// in the fixed per-kind order used by exprToDTO; absent ones are nil.
type exprDTO struct {
	Kind    ExprKind        `msgpack:"k"`
	Node    NodeID          `msgpack:"n"`
	Name    string          `msgpack:"v,omitempty"`
	Index   int             `msgpack:"i,omitempty"`
	Flag    bool            `msgpack:"b,omitempty"`
	Op      *Operation      `msgpack:"op,omitempty"`
	Pattern *Pattern        `msgpack:"p,omitempty"`
	Ranges  []quantRangeDTO `msgpack:"r,omitempty"`
	Kids    []*exprDTO      `msgpack:"c,omitempty"`
}

type quantRangeDTO struct {
	Pattern *Pattern `msgpack:"p"`
	Type    *Type    `msgpack:"t,omitempty"`
	Range   *exprDTO `msgpack:"r,omitempty"`
}

// Encode writes env as a msgpack snapshot.
func Encode(w io.Writer, env *GlobalEnv) error {
	snap := snapshot{Version: snapshotVersion, Nodes: env.nodeLocs}
	for _, f := range env.files {
		snap.Files = append(snap.Files, fileDTO{Path: f.Path, Content: f.Content})
	}
	for _, m := range env.modules {
		md := moduleDTO{Name: m.Name, Loc: m.Loc, SpecBlocks: m.SpecBlocks, Spec: specToDTO(m.Spec)}
		for _, f := range m.Functions {
			md.Functions = append(md.Functions, functionDTO{
				Name:             f.Name,
				Loc:              f.Loc,
				Visibility:       f.Visibility,
				Entry:            f.Entry,
				Native:           f.Native,
				TypeParams:       f.TypeParams,
				Params:           f.Params,
				Result:           f.Result,
				AccessSpecifiers: f.AccessSpecifiers,
				Acquires:         f.Acquires,
				Def:              exprToDTO(f.Def),
				Spec:             specToDTO(f.Spec),
			})
		}
		for _, s := range m.Structs {
			md.Structs = append(md.Structs, structDTO{
				Name:       s.Name,
				Loc:        s.Loc,
				Native:     s.Native,
				Abilities:  s.Abilities,
				TypeParams: s.TypeParams,
				Fields:     s.Fields,
				Spec:       specToDTO(s.Spec),
			})
		}
		for _, sf := range m.SpecFuns {
			md.SpecFuns = append(md.SpecFuns, specFunDTO{
				Name:   sf.Name,
				Loc:    sf.Loc,
				Params: sf.Params,
				Result: sf.Result,
				Body:   exprToDTO(sf.Body),
			})
		}
		snap.Modules = append(snap.Modules, md)
	}

	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encoding model snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode and rebuilds the environment,
// re-validating every location.
func Decode(r io.Reader) (*GlobalEnv, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding model snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}

	b := NewBuilder()
	for _, f := range snap.Files {
		b.AddFile(f.Path, f.Content)
	}
	for _, loc := range snap.Nodes {
		b.NewNode(loc)
	}
	for _, md := range snap.Modules {
		m := b.AddModule(md.Name, md.Loc)
		m.SpecBlocks = md.SpecBlocks
		m.Spec = specFromDTO(md.Spec)
		for _, fd := range md.Functions {
			b.AddFunction(m, &Function{
				Name:             fd.Name,
				Loc:              fd.Loc,
				Visibility:       fd.Visibility,
				Entry:            fd.Entry,
				Native:           fd.Native,
				TypeParams:       fd.TypeParams,
				Params:           fd.Params,
				Result:           fd.Result,
				AccessSpecifiers: fd.AccessSpecifiers,
				Acquires:         fd.Acquires,
				Def:              exprFromDTO(fd.Def),
				Spec:             specFromDTO(fd.Spec),
			})
		}
		for _, sd := range md.Structs {
			b.AddStruct(m, &Struct{
				Name:       sd.Name,
				Loc:        sd.Loc,
				Native:     sd.Native,
				Abilities:  sd.Abilities,
				TypeParams: sd.TypeParams,
				Fields:     sd.Fields,
				Spec:       specFromDTO(sd.Spec),
			})
		}
		for _, sfd := range md.SpecFuns {
			b.AddSpecFun(m, &SpecFun{
				Name:   sfd.Name,
				Loc:    sfd.Loc,
				Params: sfd.Params,
				Result: sfd.Result,
				Body:   exprFromDTO(sfd.Body),
			})
		}
	}
	return b.Build()
}

func specToDTO(s Spec) specDTO {
	out := specDTO{Loc: s.Loc}
	for _, c := range s.Conditions {
		cd := conditionDTO{Kind: c.Kind, Loc: c.Loc, Exp: exprToDTO(c.Exp)}
		for _, e := range c.AdditionalExps {
			cd.Additional = append(cd.Additional, exprToDTO(e))
		}
		out.Conditions = append(out.Conditions, cd)
	}
	return out
}

func specFromDTO(s specDTO) Spec {
	out := Spec{Loc: s.Loc}
	for _, cd := range s.Conditions {
		c := Condition{Kind: cd.Kind, Loc: cd.Loc, Exp: exprFromDTO(cd.Exp)}
		for _, e := range cd.Additional {
			c.AdditionalExps = append(c.AdditionalExps, exprFromDTO(e))
		}
		out.Conditions = append(out.Conditions, c)
	}
	return out
}

func exprToDTO(e *Expr) *exprDTO {
	if e == nil {
		return nil
	}
	d := &exprDTO{Kind: e.Kind(), Node: e.Node}
	kids := func(es ...*Expr) {
		for _, k := range es {
			d.Kids = append(d.Kids, exprToDTO(k))
		}
	}
	switch data := e.data.(type) {
	case *ExprLocalVar:
		d.Name = data.Name
	case *ExprTemporary:
		d.Index = data.Index
	case *ExprValue:
		d.Name = data.Raw
	case *ExprCall:
		op := data.Op
		d.Op = &op
		kids(data.Args...)
	case *ExprBlock:
		d.Pattern = data.Pattern
		kids(data.Binding, data.Body)
	case *ExprAssign:
		d.Pattern = data.Pattern
		kids(data.Rhs)
	case *ExprIfElse:
		kids(data.Cond, data.Then, data.Else)
	case *ExprSequence:
		kids(data.Exprs...)
	case *ExprLoop:
		kids(data.Body)
	case *ExprLoopCont:
		d.Flag = data.Continue
	case *ExprReturn:
		d.Flag = data.Abort
		kids(data.Value)
	case *ExprMutate:
		kids(data.Lhs, data.Rhs)
	case *ExprQuant:
		d.Flag = data.Exists
		for _, r := range data.Ranges {
			d.Ranges = append(d.Ranges, quantRangeDTO{Pattern: r.Pattern, Type: r.Type, Range: exprToDTO(r.Range)})
		}
		kids(data.Condition, data.Body)
	}
	return d
}

func exprFromDTO(d *exprDTO) *Expr {
	if d == nil {
		return nil
	}
	kid := func(i int) *Expr {
		if i >= len(d.Kids) {
			return nil
		}
		return exprFromDTO(d.Kids[i])
	}
	all := func() []*Expr {
		out := make([]*Expr, 0, len(d.Kids))
		for i := range d.Kids {
			out = append(out, kid(i))
		}
		return out
	}
	switch d.Kind {
	case ExprKindLocalVar:
		return NewExpr(d.Node, &ExprLocalVar{Name: d.Name})
	case ExprKindTemporary:
		return NewExpr(d.Node, &ExprTemporary{Index: d.Index})
	case ExprKindValue:
		return NewExpr(d.Node, &ExprValue{Raw: d.Name})
	case ExprKindCall:
		var op Operation
		if d.Op != nil {
			op = *d.Op
		}
		return NewExpr(d.Node, &ExprCall{Op: op, Args: all()})
	case ExprKindBlock:
		return NewExpr(d.Node, &ExprBlock{Pattern: d.Pattern, Binding: kid(0), Body: kid(1)})
	case ExprKindAssign:
		return NewExpr(d.Node, &ExprAssign{Pattern: d.Pattern, Rhs: kid(0)})
	case ExprKindIfElse:
		return NewExpr(d.Node, &ExprIfElse{Cond: kid(0), Then: kid(1), Else: kid(2)})
	case ExprKindSequence:
		return NewExpr(d.Node, &ExprSequence{Exprs: all()})
	case ExprKindLoop:
		return NewExpr(d.Node, &ExprLoop{Body: kid(0)})
	case ExprKindLoopCont:
		return NewExpr(d.Node, &ExprLoopCont{Continue: d.Flag})
	case ExprKindReturn:
		return NewExpr(d.Node, &ExprReturn{Abort: d.Flag, Value: kid(0)})
	case ExprKindMutate:
		return NewExpr(d.Node, &ExprMutate{Lhs: kid(0), Rhs: kid(1)})
	case ExprKindQuant:
		q := &ExprQuant{Exists: d.Flag, Condition: kid(0), Body: kid(1)}
		for _, r := range d.Ranges {
			q.Ranges = append(q.Ranges, QuantRange{Pattern: r.Pattern, Type: r.Type, Range: exprFromDTO(r.Range)})
		}
		return NewExpr(d.Node, q)
	default:
		return NewExpr(d.Node, &ExprInvalid{})
	}
}
