package sema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
)

const coinSrc = `module 0x1::coin {
    struct Coin<phantom T> has store { value: u64 }
    struct Pair { a: u64, b: bool }

    public fun mint<T>(v: u64): Coin<T> { Coin { value: v } }
    public fun value<T>(c: &Coin<T>): u64 { c.value }
    fun burn<T>(c: Coin<T>): u64 {
        let Coin { value } = c;
        value
    }
    fun pair(): u64 {
        let p = Pair { a: 1, b: true };
        let (x, _) = (p.a, p.b);
        x = x + 1;
        x
    }
    spec mint {
        ensures result.value == v;
    }
    spec Coin {
        invariant value >= 0;
    }
    spec module {
        fun total(): num { 0 }
    }
}
`

const userSrc = `module std::user {
    use 0x1::coin::{Self, Coin};

    fun run(): u64 {
        let c: Coin<u8> = coin::mint(5);
        coin::value(&c) + coin::burn(c)
    }
}
`

var addresses = map[string]string{"std": "0x1"}

func compile(t *testing.T, files map[string]string) (*model.GlobalEnv, []*Diagnostic) {
	t.Helper()
	var sources []Source
	for path, code := range files {
		sources = append(sources, Source{Path: path, Code: code})
	}
	env, diags, err := Compile(sources, addresses)
	require.NoError(t, err)
	return env, diags
}

func module(t *testing.T, env *model.GlobalEnv, addr, name string) *model.Module {
	t.Helper()
	m, ok := env.FindModule(model.ModuleName{Address: model.CanonicalAddress(addr), Name: name})
	require.True(t, ok, "module %s::%s", addr, name)
	return m
}

func function(t *testing.T, m *model.Module, name string) *model.Function {
	t.Helper()
	f, ok := m.FunctionByName(name)
	require.True(t, ok, "function %s", name)
	return f
}

func callsOf(e *model.Expr, kind model.OperationKind) []*model.ExprCall {
	var out []*model.ExprCall
	e.VisitPreOrder(func(x *model.Expr) bool {
		if x.Kind() == model.ExprKindCall && x.Call().Op.Kind == kind {
			out = append(out, x.Call())
		}
		return true
	})
	return out
}

func exprsOf(e *model.Expr, kind model.ExprKind) []*model.Expr {
	var out []*model.Expr
	e.VisitPreOrder(func(x *model.Expr) bool {
		if x.Kind() == kind {
			out = append(out, x)
		}
		return true
	})
	return out
}

func TestCompileClean(t *testing.T) {
	_, diags := compile(t, map[string]string{"/ws/sources/coin.move": coinSrc, "/ws/sources/user.move": userSrc})
	assert.Empty(t, diags)
}

func TestCompileCallGraph(t *testing.T) {
	env, _ := compile(t, map[string]string{"/ws/sources/coin.move": coinSrc, "/ws/sources/user.move": userSrc})
	coin := module(t, env, "0x1", "coin")
	user := module(t, env, "0x1", "user")

	run := function(t, user, "run")
	mint := function(t, coin, "mint")
	assert.ElementsMatch(t, []model.QualifiedFunID{
		mint.QualifiedID(),
		function(t, coin, "value").QualifiedID(),
		function(t, coin, "burn").QualifiedID(),
	}, run.Callees)
	assert.Equal(t, []model.QualifiedFunID{run.QualifiedID()}, mint.Callers)
}

func TestCompileSelectAndPack(t *testing.T) {
	env, _ := compile(t, map[string]string{"/ws/sources/coin.move": coinSrc})
	coin := module(t, env, "0x1", "coin")
	st, ok := coin.StructByName("Coin")
	require.True(t, ok)

	selects := callsOf(function(t, coin, "value").Def, model.OpSelect)
	require.Len(t, selects, 1)
	assert.Equal(t, st.QualifiedID(), selects[0].Op.Struct)
	assert.Equal(t, model.FieldID(0), selects[0].Op.Field)
	require.Len(t, selects[0].Args, 1)
	assert.Equal(t, model.ExprKindTemporary, selects[0].Args[0].Kind())

	packs := callsOf(function(t, coin, "mint").Def, model.OpPack)
	require.Len(t, packs, 1)
	assert.Equal(t, st.QualifiedID(), packs[0].Op.Struct)

	pair, ok := coin.StructByName("Pair")
	require.True(t, ok)
	pairSelects := callsOf(function(t, coin, "pair").Def, model.OpSelect)
	require.Len(t, pairSelects, 2)
	for _, sel := range pairSelects {
		assert.Equal(t, pair.QualifiedID(), sel.Op.Struct)
	}
}

func TestCompileLetBlocks(t *testing.T) {
	env, _ := compile(t, map[string]string{"/ws/sources/coin.move": coinSrc})
	coin := module(t, env, "0x1", "coin")

	burn := function(t, coin, "burn")
	blocks := exprsOf(burn.Def, model.ExprKindBlock)
	require.Len(t, blocks, 1)
	pat := blocks[0].Block().Pattern
	require.Equal(t, model.PatternKindStruct, pat.Kind)
	require.Len(t, pat.Fields, 1)
	assert.Equal(t, "value", pat.Fields[0].Pat.Name)

	loc := env.NodeLoc(blocks[0].Node)
	assert.Equal(t, uint32(strings.Index(coinSrc, "let Coin")), loc.Start())
	assert.Equal(t, burn.Loc.End(), loc.End())

	// the final `value` reads the local, not the function of that name
	body := blocks[0].Block().Body
	locals := exprsOf(body, model.ExprKindLocalVar)
	require.Len(t, locals, 1)
	assert.Equal(t, "value", locals[0].LocalVar().Name)
	assert.Empty(t, callsOf(body, model.OpMoveFunction))
}

func TestCompileAssignPatterns(t *testing.T) {
	env, _ := compile(t, map[string]string{"/ws/sources/coin.move": coinSrc})
	pair := function(t, module(t, env, "0x1", "coin"), "pair")

	blocks := exprsOf(pair.Def, model.ExprKindBlock)
	require.Len(t, blocks, 2)
	tuple := blocks[1].Block().Pattern
	require.Equal(t, model.PatternKindTuple, tuple.Kind)
	require.Len(t, tuple.Elems, 2)
	assert.Equal(t, model.PatternKindVar, tuple.Elems[0].Kind)
	assert.Equal(t, model.PatternKindWildcard, tuple.Elems[1].Kind)

	assigns := exprsOf(pair.Def, model.ExprKindAssign)
	require.Len(t, assigns, 1)
	assert.Equal(t, "x", assigns[0].Assign().Pattern.Name)
}

func TestCompileSpecBlocks(t *testing.T) {
	env, _ := compile(t, map[string]string{"/ws/sources/coin.move": coinSrc})
	coin := module(t, env, "0x1", "coin")

	var kinds []model.SpecBlockTargetKind
	for _, sb := range coin.SpecBlocks {
		kinds = append(kinds, sb.Target.Kind)
	}
	assert.Equal(t, []model.SpecBlockTargetKind{model.SpecTargetFunction, model.SpecTargetStruct, model.SpecTargetModule}, kinds)

	mint := function(t, coin, "mint")
	require.Len(t, mint.Spec.Conditions, 1)
	cond := mint.Spec.Conditions[0]
	assert.Equal(t, model.CondEnsures, cond.Kind)
	selects := callsOf(cond.Exp, model.OpSelect)
	require.Len(t, selects, 1)
	require.Len(t, selects[0].Args, 1)
	assert.Equal(t, "result", selects[0].Args[0].LocalVar().Name)
	assert.Len(t, exprsOf(cond.Exp, model.ExprKindTemporary), 1)

	st, _ := coin.StructByName("Coin")
	require.Len(t, st.Spec.Conditions, 1)
	assert.Equal(t, model.CondInvariant, st.Spec.Conditions[0].Kind)
	fieldReads := callsOf(st.Spec.Conditions[0].Exp, model.OpSelect)
	require.Len(t, fieldReads, 1)
	assert.Empty(t, fieldReads[0].Args)

	total, ok := coin.SpecFunByName("total")
	require.True(t, ok)
	assert.NotNil(t, total.Body)
}

func TestCompileSpecFile(t *testing.T) {
	specSrc := `spec 0x1::coin {
    spec value {
        ensures result == c.value;
    }
}
`
	env, diags := compile(t, map[string]string{
		"/ws/sources/coin.move":      coinSrc,
		"/ws/sources/coin.spec.move": specSrc,
	})
	assert.Empty(t, diags)

	value := function(t, module(t, env, "0x1", "coin"), "value")
	require.Len(t, value.Spec.Conditions, 1)
	loc := value.Spec.Conditions[0].Loc
	path, _, ok := env.FileAndLocation(loc)
	require.True(t, ok)
	assert.Equal(t, "/ws/sources/coin.spec.move", path)
}

func TestCompileDiagnostics(t *testing.T) {
	bad := `module 0x1::bad {
    fun f(): u64 { 0x1::coin::nope() }
    fun g(): Missing { abort 0 }
}
module 0x1::bad {}
`
	_, diags := compile(t, map[string]string{
		"/ws/sources/coin.move": coinSrc,
		"/ws/sources/bad.move":  bad,
	})

	messages := make(map[string]common.Severity)
	for _, d := range diags {
		assert.Equal(t, "/ws/sources/bad.move", d.Path)
		messages[d.Message] = d.Severity
	}
	assert.Equal(t, common.SeverityWarning, messages["unresolved function 0x1::coin::nope"])
	assert.Equal(t, common.SeverityWarning, messages["unresolved type Missing"])
	assert.Equal(t, common.SeverityError, messages["duplicate module 0x1::bad"])
}

func TestCompileSyntaxErrorKeepsOtherFiles(t *testing.T) {
	env, diags := compile(t, map[string]string{
		"/ws/sources/coin.move":   coinSrc,
		"/ws/sources/broken.move": "module 0x1::broken { fun f( }",
	})
	require.NotEmpty(t, diags)
	assert.Equal(t, "/ws/sources/broken.move", diags[0].Path)
	module(t, env, "0x1", "coin")
}
