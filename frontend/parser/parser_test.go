package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movebit/move-analyzer/frontend/ast"
)

const coinSrc = `module 0x1::coin {
    use std::signer;
    use 0x1::vector::{Self, push_back as push};

    #[test_only]
    const E_ZERO: u64 = 1;

    struct Coin<phantom T> has key, store { value: u64, owner: address }

    public(friend) entry fun mint<T>(account: &signer, v: u64): Coin<T> acquires Coin {
        let c = Coin<T> { value: v, owner: signer::address_of(account) };
        let Coin { value, owner: _ } = c;
        if (value == 0) abort E_ZERO;
        while (value > 0) { value = value - 1 };
        let (a, b) = (1 << 2, 8 >> 1);
        let v = vector<u64>[a, b];
        Coin { value: (a as u64), owner: @0x1 }
    }

    native fun len<E>(v: &vector<E>): u64;

    spec mint {
        requires v > 0;
        aborts_if !exists<Coin<T>>(@0x1) with 7;
        ensures forall i in 0..v: i < v;
        pragma opaque;
    }

    spec module {
        fun total(): num { 0 }
    }
}
`

func parseOK(t *testing.T, src string) *ast.Ast {
	t.Helper()
	tree, diags := Parse("/ws/sources/m.move", src)
	for _, d := range diags {
		t.Errorf("unexpected diagnostic: %s", d.Error())
	}
	return tree
}

func TestParseModuleItems(t *testing.T) {
	tree := parseOK(t, coinSrc)
	require.Len(t, tree.Definitions, 1)
	m, ok := tree.Definitions[0].(*ast.Module)
	require.True(t, ok)
	assert.Equal(t, "0x1", m.Address.Name)
	assert.Equal(t, "coin", m.Name.Raw)
	require.Len(t, m.Items, 8)

	use := m.Items[1].(*ast.Use)
	assert.Equal(t, "vector", use.Module.Raw)
	require.Len(t, use.Members, 2)
	assert.Equal(t, "push", use.Members[1].Alias.Raw)

	s := m.Items[3].(*ast.Struct)
	assert.Equal(t, "Coin", s.Name.Raw)
	assert.True(t, s.TypeParams[0].Phantom)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "owner", s.Fields[1].Name.Raw)
	assert.Len(t, s.Abilities, 2)

	f := m.Items[4].(*ast.Function)
	assert.Equal(t, "mint", f.Name.Raw)
	assert.Equal(t, ast.VisibilityFriend, f.Visibility)
	assert.True(t, f.Entry)
	require.Len(t, f.Params, 2)
	require.Len(t, f.Access, 1)
	assert.Equal(t, "Coin", f.Access[0].Resource.String())
	require.NotNil(t, f.Body)
	require.NotNil(t, f.Body.Final)
	assert.Equal(t, ast.ExprKindPack, f.Body.Final.Kind())
	assert.True(t, strings.HasPrefix(coinSrc[f.Span().Start:], "public(friend)"))
	assert.Equal(t, "}", coinSrc[f.Span().End-1:f.Span().End])

	native := m.Items[5].(*ast.Function)
	assert.True(t, native.Native)
	assert.Nil(t, native.Body)

	spec := m.Items[6].(*ast.SpecBlock)
	assert.Equal(t, ast.SpecTargetMember, spec.Target)
	assert.Equal(t, "mint", spec.TargetName.Raw)
	require.Len(t, spec.Members, 4)
	abortsIf := spec.Members[1].(*ast.SpecCondition)
	assert.Equal(t, "aborts_if", abortsIf.Kind)
	assert.Len(t, abortsIf.Additional, 1)
	ensures := spec.Members[2].(*ast.SpecCondition)
	assert.Equal(t, ast.ExprKindQuant, ensures.Exp.Kind())
	assert.Equal(t, "pragma", spec.Members[3].(*ast.SpecOther).Keyword)

	specModule := m.Items[7].(*ast.SpecBlock)
	assert.Equal(t, ast.SpecTargetModule, specModule.Target)
	require.Len(t, specModule.Members, 1)
	assert.Equal(t, "total", specModule.Members[0].(*ast.SpecFun).Name.Raw)
}

func TestParseStatements(t *testing.T) {
	tree := parseOK(t, coinSrc)
	f := tree.Definitions[0].(*ast.Module).Items[4].(*ast.Function)
	stmts := f.Body.Stmts
	require.Len(t, stmts, 6)

	let := stmts[0].(*ast.Let)
	assert.Equal(t, "c", let.Bind.(*ast.BindVar).Name.Raw)
	pack := let.Value.Pack()
	assert.Equal(t, "Coin", pack.Path.String())
	assert.Len(t, pack.Path.TypeArgs, 1)
	require.Len(t, pack.Fields, 2)
	assert.Equal(t, ast.ExprKindCall, pack.Fields[1].Value.Kind())

	unpack := stmts[1].(*ast.Let).Bind.(*ast.BindUnpack)
	require.Len(t, unpack.Fields, 2)
	assert.True(t, unpack.Fields[0].Shorthand)
	assert.True(t, unpack.Fields[1].Bind.(*ast.BindVar).IsWildcard())

	// `while` is block-like and needs no `;`, but here it has one
	loop := stmts[3].(*ast.StmtExpr)
	assert.Equal(t, ast.ExprKindWhile, loop.Expr.Kind())

	tuple := stmts[4].(*ast.Let)
	assert.Len(t, tuple.Bind.(*ast.BindTuple).Elems, 2)
	shifts := tuple.Value.Data().(*ast.ExprTuple)
	assert.Equal(t, "<<", shifts.Elems[0].Binary().Op)
	assert.Equal(t, ">>", shifts.Elems[1].Binary().Op)

	vec := stmts[5].(*ast.Let).Value.Data().(*ast.ExprVector)
	assert.Len(t, vec.TypeArgs, 1)
	assert.Len(t, vec.Elems, 2)
}

func TestParsePrecedence(t *testing.T) {
	src := `module 0x1::m { fun f(): bool { 1 + 2 * 3 == 7 && true || false } }`
	tree := parseOK(t, src)
	f := tree.Definitions[0].(*ast.Module).Items[0].(*ast.Function)
	or := f.Body.Final.Binary()
	assert.Equal(t, "||", or.Op)
	and := or.Left.Binary()
	assert.Equal(t, "&&", and.Op)
	eq := and.Left.Binary()
	assert.Equal(t, "==", eq.Op)
	plus := eq.Left.Binary()
	assert.Equal(t, "+", plus.Op)
	assert.Equal(t, "*", plus.Right.Binary().Op)
}

func TestParseGenericCallVersusComparison(t *testing.T) {
	src := `module 0x1::m {
    fun f(a: u64, b: u64): bool { borrow_global<R>(@0x1); a < b && b > a }
}`
	tree := parseOK(t, src)
	f := tree.Definitions[0].(*ast.Module).Items[0].(*ast.Function)
	call := f.Body.Stmts[0].(*ast.StmtExpr).Expr.Call()
	assert.Equal(t, "borrow_global", call.Path.String())
	assert.Len(t, call.Path.TypeArgs, 1)

	and := f.Body.Final.Binary()
	assert.Equal(t, "&&", and.Op)
	assert.Equal(t, "<", and.Left.Binary().Op)
	assert.Equal(t, ">", and.Right.Binary().Op)
}

func TestParseReceiverCall(t *testing.T) {
	src := `module 0x1::m { fun f(c: &Coin): u64 { c.value.add(1) } }`
	tree := parseOK(t, src)
	f := tree.Definitions[0].(*ast.Module).Items[0].(*ast.Function)
	call := f.Body.Final.Call()
	assert.Equal(t, "add", call.Path.String())
	require.Len(t, call.Args, 2)
	assert.Equal(t, ast.ExprKindDot, call.Args[0].Kind())
}

func TestParseAddressBlock(t *testing.T) {
	src := `address 0x2 {
module a { fun f() {} }
module b { fun g() {} }
}`
	tree := parseOK(t, src)
	require.Len(t, tree.Definitions, 2)
	a := tree.Definitions[0].(*ast.Module)
	b := tree.Definitions[1].(*ast.Module)
	assert.Equal(t, "0x2", a.Address.Name)
	assert.Equal(t, "a", a.Name.Raw)
	assert.Equal(t, "b", b.Name.Raw)
}

func TestParseSpecFile(t *testing.T) {
	src := `spec 0x1::coin {
    use 0x1::signer;
    spec mint { ensures result.value == v; }
    spec fun helper(x: u64): u64 { x + 1 }
}`
	tree := parseOK(t, src)
	require.Len(t, tree.Definitions, 1)
	ms := tree.Definitions[0].(*ast.ModuleSpec)
	assert.Equal(t, "coin", ms.Name.Raw)
	require.Len(t, ms.Items, 3)
	assert.IsType(t, &ast.Use{}, ms.Items[0])
	assert.IsType(t, &ast.SpecBlock{}, ms.Items[1])
	assert.IsType(t, &ast.SpecFun{}, ms.Items[2])
}

func TestParseRecoversPerItem(t *testing.T) {
	src := `module 0x1::m {
    fun broken( { }
    fun ok(): u64 { 1 }
}`
	tree, diags := Parse("/ws/m.move", src)
	require.NotEmpty(t, diags)
	assert.Equal(t, "/ws/m.move", diags[0].Path)
	require.Len(t, tree.Definitions, 1)
	m := tree.Definitions[0].(*ast.Module)
	require.Len(t, m.Items, 1)
	assert.Equal(t, "ok", m.Items[0].(*ast.Function).Name.Raw)
}

func TestParseLexError(t *testing.T) {
	tree, diags := Parse("/ws/m.move", "module 0x1::m { fun f() { $ } }")
	require.NotEmpty(t, diags)
	assert.NotNil(t, tree)
}
