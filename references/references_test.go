package references

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/model"
	"github.com/movebit/move-analyzer/frontend/project"
	"github.com/movebit/move-analyzer/frontend/sema"
)

var _ project.Visitor = (*Handler)(nil)

const pointPath = "/ws/sources/point.move"

const pointSrc = `module 0x1::point {
    struct Point has copy, drop {
        x: u64,
        y: u64,
    }

    struct Box { inner: Point }

    public fun new(x: u64, y: u64): Point {
        Point { x: x, y: y }
    }

    fun origin(): Point {
        new(0, 0)
    }

    fun shifted(p: &Point): Point {
        let Point { x, y: py } = *p;
        new(x + 1, py)
    }

    fun sum(p: Point): u64 {
        p.x + p.y
    }

    fun scaled(p: Point, q: Point): u64 {
        p.scale(q.y) + sum(Point { x: q.x, y: 0 })
    }

    fun scale(p: Point, k: u64): u64 {
        p.y * k
    }
}
`

const counterPath = "/ws/sources/counter.move"

const counterSrc = `module 0x1::counter {
    struct Counter has key { value: u64 }

    public fun bump(c: &mut Counter) {
        c.value = c.value + 1;
    }

    spec bump {
        ensures c.value == old(c.value) + 1;
        ensures limit(c.value);
    }

    spec module {
        fun limit(v: num): bool { below(v) }
        fun below(v: num): bool { v >= 1 }
    }
}
`

const counterSpecPath = "/ws/sources/counter.spec.move"

const counterSpecSrc = `spec 0x1::counter {
    spec bump {
        ensures c.value >= 1;
    }
}
`

func compile(t *testing.T, files map[string]string) *model.GlobalEnv {
	t.Helper()
	var sources []sema.Source
	for path, code := range files {
		sources = append(sources, sema.Source{Path: path, Code: code})
	}
	env, diags, err := sema.Compile(sources, nil)
	require.NoError(t, err)
	for _, d := range diags {
		require.NotEqual(t, common.SeverityError, d.Severity, "%s: %s", d.Path, d.Message)
	}
	return env
}

func pointEnv(t *testing.T) *model.GlobalEnv {
	return compile(t, map[string]string{pointPath: pointSrc})
}

func counterEnv(t *testing.T) *model.GlobalEnv {
	return compile(t, map[string]string{
		counterPath:     counterSrc,
		counterSpecPath: counterSpecSrc,
	})
}

// mark is the range of the nth occurrence of word on the first line of src
// containing context.
func mark(t *testing.T, path, src, context, word string, nth int) common.FileRange {
	t.Helper()
	for i, line := range strings.Split(src, "\n") {
		if !strings.Contains(line, context) {
			continue
		}
		col := -1
		for n := 0; n <= nth; n++ {
			next := strings.Index(line[col+1:], word)
			require.GreaterOrEqual(t, next, 0, "occurrence %d of %q in %q", nth, word, line)
			col += next + 1
		}
		return common.FileRange{
			Path:      path,
			LineStart: uint32(i),
			ColStart:  uint32(col),
			LineEnd:   uint32(i),
			ColEnd:    uint32(col + len(word)),
		}
	}
	require.Failf(t, "no line", "no line contains %q", context)
	return common.FileRange{}
}

func at(t *testing.T, env *model.GlobalEnv, r common.FileRange, shift uint32) []common.FileRange {
	t.Helper()
	return Find(env, r.Path, r.LineStart, r.ColStart+shift)
}

// text is the source a range covers; every result must be inside its file.
func text(t *testing.T, src string, r common.FileRange) string {
	t.Helper()
	lines := strings.Split(src, "\n")
	require.Less(t, int(r.LineStart), len(lines))
	require.Equal(t, r.LineStart, r.LineEnd)
	line := lines[r.LineStart]
	require.LessOrEqual(t, int(r.ColEnd), len(line))
	return line[r.ColStart:r.ColEnd]
}

func TestCallSiteListsCallers(t *testing.T) {
	env := pointEnv(t)
	got := at(t, env, mark(t, pointPath, pointSrc, "new(0, 0)", "new", 0), 1)

	assert.Equal(t, []common.FileRange{
		mark(t, pointPath, pointSrc, "new(0, 0)", "new", 0),
		mark(t, pointPath, pointSrc, "new(x + 1, py)", "new", 0),
	}, got)
}

func TestCallNeedsMouseStrictlyInside(t *testing.T) {
	env := pointEnv(t)
	got := at(t, env, mark(t, pointPath, pointSrc, "new(0, 0)", "new", 0), 0)
	assert.Empty(t, got)
}

func TestFunctionNameListsCallers(t *testing.T) {
	env := pointEnv(t)
	got := at(t, env, mark(t, pointPath, pointSrc, "public fun new", "new", 0), 0)

	assert.Equal(t, []common.FileRange{
		mark(t, pointPath, pointSrc, "new(0, 0)", "new", 0),
		mark(t, pointPath, pointSrc, "new(x + 1, py)", "new", 0),
	}, got)
}

func fieldX(t *testing.T) []common.FileRange {
	return []common.FileRange{
		mark(t, pointPath, pointSrc, "Point { x: x, y: y }", "x", 0),
		mark(t, pointPath, pointSrc, "let Point { x, y: py }", "x", 0),
		mark(t, pointPath, pointSrc, "p.x + p.y", "x", 0),
		mark(t, pointPath, pointSrc, "sum(Point { x: q.x", "x", 0),
		mark(t, pointPath, pointSrc, "sum(Point { x: q.x", "x", 1),
		mark(t, pointPath, pointSrc, "x: u64,", "x", 0),
	}
}

func TestPackLabelListsField(t *testing.T) {
	env := pointEnv(t)
	got := at(t, env, mark(t, pointPath, pointSrc, "Point { x: x, y: y }", "x", 0), 0)

	assert.Equal(t, fieldX(t), got)
	for _, r := range got {
		assert.Equal(t, "x", text(t, pointSrc, r))
	}
}

func TestFieldDeclarationIsSymmetric(t *testing.T) {
	env := pointEnv(t)
	fromDecl := at(t, env, mark(t, pointPath, pointSrc, "x: u64,", "x", 0), 0)
	fromSelect := at(t, env, mark(t, pointPath, pointSrc, "p.x + p.y", "x", 0), 0)
	fromUnpack := at(t, env, mark(t, pointPath, pointSrc, "y: py", "y", 0), 0)

	assert.Equal(t, fieldX(t), fromDecl)
	assert.Equal(t, fromDecl, fromSelect)

	seen := make(map[common.FileRange]bool)
	for _, r := range fromDecl {
		assert.False(t, seen[r], "duplicate %s", r)
		seen[r] = true
	}
	assert.Contains(t, fromUnpack, mark(t, pointPath, pointSrc, "y: u64,", "y", 0))
	assert.NotContains(t, fromUnpack, mark(t, pointPath, pointSrc, "x: u64,", "x", 0))
}

func TestReturnTypeResolvesStruct(t *testing.T) {
	env := pointEnv(t)
	got := at(t, env, mark(t, pointPath, pointSrc, "fun origin(): Point", "Point", 0), 1)

	require.Len(t, got, 13)
	for _, r := range got {
		assert.Equal(t, "Point", text(t, pointSrc, r))
	}
	assert.Contains(t, got, mark(t, pointPath, pointSrc, "struct Box", "Point", 0))
	assert.Contains(t, got, mark(t, pointPath, pointSrc, "fun origin(): Point", "Point", 0))
}

func TestParameterTypeResolvesStruct(t *testing.T) {
	env := pointEnv(t)
	fromParam := at(t, env, mark(t, pointPath, pointSrc, "fun sum(p: Point)", "Point", 0), 2)
	fromReturn := at(t, env, mark(t, pointPath, pointSrc, "fun origin(): Point", "Point", 0), 1)
	assert.Equal(t, fromReturn, fromParam)

	fromPack := at(t, env, mark(t, pointPath, pointSrc, "Point { x: x, y: y }", "Point", 0), 0)
	assert.Equal(t, fromReturn, fromPack)
}

func TestBlankLineFindsNothing(t *testing.T) {
	env := pointEnv(t)
	line := mark(t, pointPath, pointSrc, "struct Box", "struct", 0).LineStart - 1

	got := Find(env, pointPath, line, 0)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInnermostSelectInsideCall(t *testing.T) {
	env := pointEnv(t)
	got := at(t, env, mark(t, pointPath, pointSrc, "p.scale(q.y)", "y", 0), 0)

	assert.Equal(t, []common.FileRange{
		mark(t, pointPath, pointSrc, "Point { x: x, y: y }", "y", 0),
		mark(t, pointPath, pointSrc, "let Point { x, y: py }", "y", 0),
		mark(t, pointPath, pointSrc, "p.x + p.y", "y", 0),
		mark(t, pointPath, pointSrc, "p.scale(q.y)", "y", 0),
		mark(t, pointPath, pointSrc, "y: 0 })", "y", 1),
		mark(t, pointPath, pointSrc, "p.y * k", "y", 0),
		mark(t, pointPath, pointSrc, "y: u64,", "y", 0),
	}, got)

	// The enclosing receiver call on its own lists the callers of scale.
	outer := at(t, env, mark(t, pointPath, pointSrc, "p.scale(q.y)", "scale", 0), 1)
	assert.Equal(t, []common.FileRange{mark(t, pointPath, pointSrc, "p.scale(q.y)", "scale", 0)}, outer)
}

func TestLocalBinding(t *testing.T) {
	env := pointEnv(t)
	want := []common.FileRange{
		mark(t, pointPath, pointSrc, "let Point { x, y: py }", "py", 0),
		mark(t, pointPath, pointSrc, "new(x + 1, py)", "py", 0),
	}
	assert.Equal(t, want, at(t, env, want[1], 0))
	assert.Equal(t, want, at(t, env, want[0], 1))

	shorthand := []common.FileRange{
		mark(t, pointPath, pointSrc, "let Point { x, y: py }", "x", 0),
		mark(t, pointPath, pointSrc, "new(x + 1, py)", "x", 0),
	}
	assert.Equal(t, shorthand, at(t, env, shorthand[1], 0))
}

func TestParameterUses(t *testing.T) {
	env := pointEnv(t)
	want := []common.FileRange{
		mark(t, pointPath, pointSrc, "fun sum(p: Point)", "p", 0),
		mark(t, pointPath, pointSrc, "p.x + p.y", "p", 0),
		mark(t, pointPath, pointSrc, "p.x + p.y", "p", 1),
	}
	assert.Equal(t, want, at(t, env, want[1], 0))
	assert.Equal(t, want, at(t, env, want[0], 0))
}

func TestLineContainmentIsAsymmetric(t *testing.T) {
	env := pointEnv(t)

	// A function matches on its first line but not on its closing line.
	first := mark(t, pointPath, pointSrc, "public fun new", "new", 0)
	assert.NotEmpty(t, Find(env, pointPath, first.LineStart, first.ColStart))
	closing := first.LineStart + 2
	assert.Empty(t, Find(env, pointPath, closing, 4))

	// A struct matches on neither its first nor its last line, so a struct
	// written on one line never matches.
	assert.Empty(t, at(t, env, mark(t, pointPath, pointSrc, "struct Point", "Point", 0), 0))
	assert.Empty(t, at(t, env, mark(t, pointPath, pointSrc, "struct Box", "Point", 0), 0))
	assert.NotEmpty(t, at(t, env, mark(t, pointPath, pointSrc, "y: u64,", "y", 0), 0))
}

func TestIdempotent(t *testing.T) {
	env := pointEnv(t)
	cursor := mark(t, pointPath, pointSrc, "p.scale(q.y)", "y", 0)
	first := at(t, env, cursor, 0)
	second := at(t, env, cursor, 0)
	assert.Equal(t, first, second)

	h := NewHandler(pointPath, cursor.LineStart, cursor.ColStart)
	h.HandleProjectEnv(env, pointPath)
	assert.Equal(t, first, h.Result())
	assert.Empty(t, h.Result())
}

func TestUnknownFile(t *testing.T) {
	env := pointEnv(t)
	assert.Empty(t, Find(env, "/ws/sources/other.move", 1, 1))
}

func TestSpecCallListsCallees(t *testing.T) {
	env := counterEnv(t)
	got := at(t, env, mark(t, counterPath, counterSrc, "ensures limit", "limit", 0), 1)

	assert.Equal(t, []common.FileRange{
		mark(t, counterPath, counterSrc, "fun below", "below", 0),
	}, got)
}

func TestSpecConditionField(t *testing.T) {
	env := counterEnv(t)
	got := at(t, env, mark(t, counterPath, counterSrc, "ensures c.value ==", "value", 0), 1)

	want := []common.FileRange{
		mark(t, counterPath, counterSrc, "c.value = c.value", "value", 0),
		mark(t, counterPath, counterSrc, "c.value = c.value", "value", 1),
		mark(t, counterPath, counterSrc, "ensures c.value ==", "value", 0),
		mark(t, counterPath, counterSrc, "ensures c.value ==", "value", 1),
		mark(t, counterPath, counterSrc, "ensures limit", "value", 0),
		mark(t, counterSpecPath, counterSpecSrc, "ensures c.value", "value", 0),
		mark(t, counterPath, counterSrc, "struct Counter", "value", 0),
	}
	assert.Equal(t, want, got)

	fromSpecFile := at(t, env, mark(t, counterSpecPath, counterSpecSrc, "ensures c.value", "value", 0), 1)
	assert.Equal(t, want, fromSpecFile)
}

func TestSpecFileOutsideBlocks(t *testing.T) {
	env := counterEnv(t)
	// The module header of a spec file lies outside every spec block.
	assert.Empty(t, Find(env, counterSpecPath, 0, 0))
	// Inside the block, leading whitespace names nothing.
	assert.Empty(t, Find(env, counterSpecPath, 2, 0))
}

func TestAcquiresClause(t *testing.T) {
	src := `module 0x1::store {
    struct Store has key { n: u64 }

    fun read(a: address): u64 acquires Store {
        borrow_global<Store>(a).n
    }
}
`
	path := "/ws/sources/store.move"
	env := compile(t, map[string]string{path: src})
	got := at(t, env, mark(t, path, src, "acquires Store", "Store", 0), 1)

	assert.Equal(t, []common.FileRange{
		mark(t, path, src, "struct Store", "Store", 0),
		mark(t, path, src, "acquires Store", "Store", 0),
		mark(t, path, src, "borrow_global<Store>", "Store", 0),
	}, got)
}

func TestPackLabelsAfterComparison(t *testing.T) {
	src := `module 0x1::flag {
    struct Flag has drop {
        low: bool,
        high: u64,
    }

    fun make(n: u64): Flag {
        Flag { low: n < 10, high: n }
    }
}
`
	path := "/ws/sources/flag.move"
	env := compile(t, map[string]string{path: src})
	want := []common.FileRange{
		mark(t, path, src, "high: n }", "high", 0),
		mark(t, path, src, "high: u64,", "high", 0),
	}

	assert.Equal(t, want, at(t, env, mark(t, path, src, "high: u64,", "high", 0), 0))
	assert.Equal(t, want, at(t, env, mark(t, path, src, "high: n }", "high", 0), 1))

	low := at(t, env, mark(t, path, src, "low: bool,", "low", 0), 0)
	assert.Equal(t, []common.FileRange{
		mark(t, path, src, "low: n < 10", "low", 0),
		mark(t, path, src, "low: bool,", "low", 0),
	}, low)
}

func TestFieldTypeResolvesStruct(t *testing.T) {
	src := `module 0x1::shape {
    struct Point has copy, drop { x: u64 }

    struct Pair has drop {
        a: Point,
        b: vector<Point>,
    }

    fun first(p: &Pair): Point {
        p.a
    }
}
`
	path := "/ws/sources/shape.move"
	env := compile(t, map[string]string{path: src})
	want := []common.FileRange{
		mark(t, path, src, "struct Point", "Point", 0),
		mark(t, path, src, "a: Point,", "Point", 0),
		mark(t, path, src, "b: vector<Point>,", "Point", 0),
		mark(t, path, src, "fun first", "Point", 0),
	}

	fromPlain := at(t, env, mark(t, path, src, "a: Point,", "Point", 0), 1)
	assert.ElementsMatch(t, want, fromPlain)
	fromVector := at(t, env, mark(t, path, src, "b: vector<Point>,", "Point", 0), 1)
	assert.Equal(t, fromPlain, fromVector)

	// Past the comma the cursor is outside the type annotation.
	comma := mark(t, path, src, "a: Point,", ",", 0)
	assert.Empty(t, Find(env, path, comma.LineStart, comma.ColEnd))
}

func TestCrossModuleReferences(t *testing.T) {
	const (
		geoPath   = "/ws/sources/a.move"
		userPath  = "/ws/sources/b.move"
		otherPath = "/ws/sources/c.move"
	)
	geoSrc := `module 0x1::geo {
    struct Pt has copy, drop { x: u64 }

    public fun mk(x: u64): Pt {
        Pt { x: x }
    }
}
`
	userSrc := `module 0x1::user {
    use 0x1::geo::{Self, Pt};

    fun shift(p: Pt): Pt {
        geo::mk(1)
    }
}
`
	otherSrc := `module 0x1::other {
    struct Pt has drop { y: u64 }

    fun keep(p: Pt): Pt {
        p
    }
}
`
	env := compile(t, map[string]string{geoPath: geoSrc, userPath: userSrc, otherPath: otherSrc})

	types := at(t, env, mark(t, geoPath, geoSrc, "): Pt {", "Pt", 0), 1)
	assert.ElementsMatch(t, []common.FileRange{
		mark(t, geoPath, geoSrc, "struct Pt", "Pt", 0),
		mark(t, geoPath, geoSrc, "): Pt {", "Pt", 0),
		mark(t, geoPath, geoSrc, "Pt { x: x }", "Pt", 0),
		mark(t, userPath, userSrc, "fun shift", "Pt", 0),
		mark(t, userPath, userSrc, "fun shift", "Pt", 1),
	}, types)
	for _, r := range types {
		assert.NotEqual(t, otherPath, r.Path)
	}

	callers := []common.FileRange{mark(t, userPath, userSrc, "geo::mk(1)", "mk", 0)}
	assert.Equal(t, callers, at(t, env, mark(t, userPath, userSrc, "geo::mk(1)", "mk", 0), 1))
	assert.Equal(t, callers, at(t, env, mark(t, geoPath, geoSrc, "public fun mk", "mk", 0), 0))

	// The unrelated Pt only finds itself.
	own := at(t, env, mark(t, otherPath, otherSrc, "fun keep", "Pt", 0), 1)
	assert.ElementsMatch(t, []common.FileRange{
		mark(t, otherPath, otherSrc, "struct Pt", "Pt", 0),
		mark(t, otherPath, otherSrc, "fun keep", "Pt", 0),
		mark(t, otherPath, otherSrc, "fun keep", "Pt", 1),
	}, own)
}

func TestVerboseIsPerHandler(t *testing.T) {
	env := pointEnv(t)
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	cursor := mark(t, pointPath, pointSrc, "new(0, 0)", "new", 0)
	quiet := Find(env, pointPath, cursor.LineStart, cursor.ColStart+1)
	assert.Empty(t, buf.String())

	h := NewHandler(pointPath, cursor.LineStart, cursor.ColStart+1)
	h.Verbose = true
	h.HandleProjectEnv(env, pointPath)
	assert.Equal(t, quiet, h.Result())
	assert.Contains(t, buf.String(), "references: call of new")
}
