package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const coinSrc = `module 0x1::coin {
    struct Coin has store { value: u64 }
    fun mint(v: u64): Coin { Coin { value: v } }
    fun twice(v: u64): u64 { value(&mint(v)) * 2 }
    fun value(c: &Coin): u64 { c.value }
}
`

// span finds the n-th (0-based) occurrence of sub in src.
func span(t *testing.T, file FileID, src, sub string, n int) Loc {
	t.Helper()
	off := 0
	for i := 0; ; i++ {
		idx := strings.Index(src[off:], sub)
		require.GreaterOrEqual(t, idx, 0, "occurrence %d of %q", n, sub)
		if i == n {
			return NewLoc(file, uint32(off+idx), uint32(off+idx+len(sub)))
		}
		off += idx + len(sub)
	}
}

func first(l Loc) Loc {
	return NewLoc(l.File, l.Start(), l.Start()+1)
}

// buildCoin wires a small module by hand: mint packs a Coin, twice calls
// mint and value, value selects the field.
func buildCoin(t *testing.T) *GlobalEnv {
	t.Helper()
	b := NewBuilder()
	fid := b.AddFile("/ws/sources/coin.move", coinSrc)
	line := func(sub string) Loc {
		return span(t, fid, coinSrc, sub, 0)
	}

	m := b.AddModule(ModuleName{Address: "0x0001", Name: "coin"}, NewLoc(fid, 0, uint32(len(coinSrc)-1)))
	coin := b.AddStruct(m, &Struct{
		Name:   "Coin",
		Loc:    line("struct Coin has store { value: u64 }"),
		Fields: []Field{{Name: "value", Type: PrimitiveType("u64"), Loc: span(t, fid, coinSrc, "value", 0)}},
	})
	coinTy := StructType(coin.QualifiedID())

	mint := b.AddFunction(m, &Function{
		Name:   "mint",
		Loc:    line("fun mint(v: u64): Coin { Coin { value: v } }"),
		Params: []Param{{Name: "v", Type: PrimitiveType("u64"), Loc: first(span(t, fid, coinSrc, "v: u64)", 0))}},
		Result: coinTy,
	})
	mint.Def = NewExpr(b.NewNode(span(t, fid, coinSrc, "Coin { value: v }", 0)), &ExprCall{
		Op:   PackOp(coin.QualifiedID()),
		Args: []*Expr{NewExpr(b.NewNode(span(t, fid, coinSrc, "v }", 0)), &ExprTemporary{Index: 0})},
	})

	twice := b.AddFunction(m, &Function{Name: "twice", Loc: line("fun twice(v: u64): u64 { value(&mint(v)) * 2 }")})
	value := b.AddFunction(m, &Function{Name: "value", Loc: line("fun value(c: &Coin): u64 { c.value }")})

	mintCall := NewExpr(b.NewNode(span(t, fid, coinSrc, "mint(v)", 0)), &ExprCall{Op: MoveFunctionOp(mint.QualifiedID())})
	borrow := NewExpr(b.NewNode(span(t, fid, coinSrc, "&mint(v)", 0)), &ExprCall{Op: BorrowOp(false), Args: []*Expr{mintCall}})
	valueCall := NewExpr(b.NewNode(span(t, fid, coinSrc, "value(&mint(v))", 0)), &ExprCall{Op: MoveFunctionOp(value.QualifiedID()), Args: []*Expr{borrow}})
	twice.Def = NewExpr(b.NewNode(span(t, fid, coinSrc, "value(&mint(v)) * 2", 0)), &ExprCall{Op: BuiltinOp("*"), Args: []*Expr{valueCall}})

	value.Def = NewExpr(b.NewNode(span(t, fid, coinSrc, "c.value", 0)), &ExprCall{
		Op:   SelectOp(coin.QualifiedID(), 0),
		Args: []*Expr{NewExpr(b.NewNode(first(span(t, fid, coinSrc, "c.value", 0))), &ExprTemporary{Index: 0})},
	})

	env, err := b.Build()
	require.NoError(t, err)
	return env
}

func TestFileLocationAndOffset(t *testing.T) {
	f := newFile(0, "/a.move", "ab\ncé\n\nd")

	loc, ok := f.Location(4)
	require.True(t, ok)
	assert.Equal(t, Location{Line: 1, Column: 1}, loc)

	loc, ok = f.Location(6)
	require.True(t, ok)
	assert.Equal(t, Location{Line: 1, Column: 2}, loc, "columns count characters")

	_, ok = f.Location(f.Len() + 1)
	assert.False(t, ok)

	off, ok := f.Offset(Location{Line: 1, Column: 2})
	require.True(t, ok)
	assert.Equal(t, uint32(6), off)

	off, ok = f.Offset(Location{Line: 0, Column: 50})
	require.True(t, ok)
	assert.Equal(t, uint32(2), off, "clamped to line end")

	_, ok = f.Offset(Location{Line: 9})
	assert.False(t, ok)
}

func TestSourceOutOfRange(t *testing.T) {
	env := buildCoin(t)
	f := env.Files()[0]

	_, err := env.Source(NewLoc(f.ID, 0, f.Len()+1))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = env.Source(NewLoc(7, 0, 1))
	assert.ErrorIs(t, err, ErrUnknownFile)

	src, err := env.Source(NewLoc(f.ID, 7, 12))
	require.NoError(t, err)
	assert.Equal(t, "0x1::", src[:5])
}

func TestBuildRejectsOutOfRangeNode(t *testing.T) {
	b := NewBuilder()
	fid := b.AddFile("/x.move", "module 0x1::x {}")
	b.NewNode(NewLoc(fid, 3, 99))
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCallGraph(t *testing.T) {
	env := buildCoin(t)
	m := env.Modules()[0]
	mint, _ := m.FunctionByName("mint")
	twice, _ := m.FunctionByName("twice")
	value, _ := m.FunctionByName("value")

	assert.Equal(t, []QualifiedFunID{twice.QualifiedID()}, mint.Callers)
	assert.Equal(t, []QualifiedFunID{twice.QualifiedID()}, value.Callers)
	assert.Equal(t, []QualifiedFunID{mint.QualifiedID(), value.QualifiedID()}, twice.Callees)
	assert.Empty(t, twice.Callers)
}

func TestModuleNameCanonical(t *testing.T) {
	env := buildCoin(t)
	m, ok := env.FindModule(ModuleName{Address: "0x01", Name: "coin"})
	require.True(t, ok)
	assert.Equal(t, "0x1::coin", m.Name.String())
	assert.Equal(t, "std", CanonicalAddress("std"))
	assert.Equal(t, "0x0", CanonicalAddress("0x000"))
}

func TestModulesByPath(t *testing.T) {
	b := NewBuilder()
	src := "module 0x1::m { fun f() {} }"
	spec := "spec 0x1::m { spec f { } }"
	fm := b.AddFile("/ws/sources/m.move", src)
	fs := b.AddFile("/ws/sources/m.spec.move", spec)
	m := b.AddModule(ModuleName{Address: "0x1", Name: "m"}, NewLoc(fm, 0, uint32(len(src))))
	b.AddFunction(m, &Function{Name: "f", Loc: NewLoc(fm, 16, 26)})
	b.AddSpecBlock(m, SpecBlockInfo{Loc: NewLoc(fs, 14, 24), Target: SpecBlockTarget{Kind: SpecTargetFunction}})
	env, err := b.Build()
	require.NoError(t, err)

	assert.Len(t, env.ModulesByPath("/ws/sources/m.move"), 1)
	assert.Len(t, env.ModulesByPath("/ws/sources/m.spec.move"), 1)
	assert.Empty(t, env.ModulesByPath("/ws/sources/other.move"))
}

func TestVisitPreOrder(t *testing.T) {
	env := buildCoin(t)
	twice, _ := env.Modules()[0].FunctionByName("twice")

	var kinds []string
	twice.Def.VisitPreOrder(func(e *Expr) bool {
		if e.Kind() == ExprKindCall {
			kinds = append(kinds, e.Call().Op.Kind.String())
		}
		return true
	})
	assert.Equal(t, []string{"builtin", "move_function", "borrow", "move_function"}, kinds)

	visited := 0
	twice.Def.VisitPreOrder(func(*Expr) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
}

func TestPatternVars(t *testing.T) {
	p := &Pattern{Kind: PatternKindTuple, Elems: []*Pattern{
		{Kind: PatternKindVar, Node: 1, Name: "a"},
		{Kind: PatternKindStruct, Node: 2, Fields: []FieldPattern{
			{Field: 0, Pat: &Pattern{Kind: PatternKindVar, Node: 3, Name: "b"}},
			{Field: 1, Pat: &Pattern{Kind: PatternKindWildcard, Node: 4}},
		}},
	}}
	assert.Equal(t, []PatVar{{Node: 1, Name: "a"}, {Node: 3, Name: "b"}}, p.Vars())
}

func TestSnapshotRoundTrip(t *testing.T) {
	env := buildCoin(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, env))
	got, err := Decode(&buf)
	require.NoError(t, err)

	require.Len(t, got.Modules(), 1)
	m := got.Modules()[0]
	assert.Equal(t, env.Modules()[0].Name, m.Name)
	assert.Equal(t, env.NodeCount(), got.NodeCount())

	value, ok := m.FunctionByName("value")
	require.True(t, ok)
	assert.Equal(t, ExprKindCall, value.Def.Kind())
	assert.Equal(t, OpSelect, value.Def.Call().Op.Kind)
	assert.Len(t, value.Callers, 1, "call graph is recomputed")

	src, err := got.Source(got.NodeLoc(value.Def.Node))
	require.NoError(t, err)
	assert.Equal(t, "c.value", src)
}

func TestDecodeRejectsVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, buildCoin(t)))
	var snap snapshot
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &snap))
	snap.Version = 99
	out, err := msgpack.Marshal(&snap)
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(out))
	assert.ErrorIs(t, err, ErrSnapshotVersion)
}
