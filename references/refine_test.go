package references

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movebit/move-analyzer/common"
)

func TestParamTypeEnd(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"next param", ": &mut Coin<T>, b: u64) {}", ": &mut Coin<T>", true},
		{"last param", ": vector<u8>): u64 {}", ": vector<u8>", true},
		{"qualified", ": 0x1::coin::Coin, x: u8) {}", ": 0x1::coin::Coin", true},
		{"nested generics", ": Table<u64, vector<u8>>) {}", ": Table<u64, vector<u8>>", true},
		{"lex error", ": Coin `", ": Coin", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := paramTypeEnd(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, tt.text[:end])
		})
	}
}

func TestScanSignature(t *testing.T) {
	text := "public fun take<T: store>(c: Coin<T>): (Coin<T>, u64) acquires Store { c }"
	sig := scanSignature(text)
	require.True(t, sig.hasName)
	assert.Equal(t, "take", text[sig.name.Start:sig.name.End])
	require.True(t, sig.hasReturn)
	assert.Equal(t, ": (Coin<T>, u64) ", text[sig.ret.Start:sig.ret.End])

	sig = scanSignature("fun f(x: u64) { x }")
	assert.True(t, sig.hasName)
	assert.False(t, sig.hasReturn)

	text = "native fun hash(v: vector<u8>): vector<u8>;"
	sig = scanSignature(text)
	require.True(t, sig.hasReturn)
	assert.Equal(t, ": vector<u8>", text[sig.ret.Start:sig.ret.End])
}

func TestDeclName(t *testing.T) {
	text := "#[test] public(friend) fun go_on() {}"
	span, ok := declName(text)
	require.True(t, ok)
	assert.Equal(t, "go_on", text[span.Start:span.End])

	_, ok = declName("struct S {}")
	assert.False(t, ok)
}

func TestFieldTypeEnd(t *testing.T) {
	text := ": Table<u64, Coin>,\n        next: u8 }"
	end, ok := fieldTypeEnd(text)
	require.True(t, ok)
	assert.Equal(t, ": Table<u64, Coin>", text[:end])

	text = ": vector<Coin>\n    }"
	end, ok = fieldTypeEnd(text)
	require.True(t, ok)
	assert.Equal(t, ": vector<Coin>", text[:end])
}

func TestStructBody(t *testing.T) {
	text := "Outer<T> { a: Inner { b: 1 }, c, d: f(x, y), e }"
	brace, labels, ok := structBody(text)
	require.True(t, ok)
	assert.Equal(t, uint32(9), brace)

	var names []string
	for _, l := range labels {
		names = append(names, l.name)
		assert.Equal(t, l.name, text[l.span.Start:l.span.End])
	}
	assert.Equal(t, []string{"a", "c", "d", "e"}, names)

	_, _, ok = structBody("Point")
	assert.False(t, ok)
}

func TestStructBodyComparisons(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Flag { low: n < 10, high: n }", []string{"low", "high"}},
		{"Flag { low: a > b, high: c <= d, mid }", []string{"low", "high", "mid"}},
		{"P { a: f<u64>(x), b }", []string{"a", "b"}},
		{"P { a: x < y && y > z, b: vector<u8>[] }", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, labels, ok := structBody(tt.text)
			require.True(t, ok)
			var names []string
			for _, l := range labels {
				names = append(names, l.name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestStructBodyStopsOnLexError(t *testing.T) {
	_, labels, ok := structBody("P { x: 1, ` y: 2 }")
	require.True(t, ok)
	require.Len(t, labels, 1)
	assert.Equal(t, "x", labels[0].name)
}

func TestIdentHelpers(t *testing.T) {
	text := "let c: Coin = coin::mint(); // Coin\n CoinStore { Coin }"
	spans := identSpans(text, "Coin")
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, "Coin", text[s.Start:s.End])
	}

	name, span, ok := identAt(text, 9)
	require.True(t, ok)
	assert.Equal(t, "Coin", name)
	assert.Equal(t, common.SpanNew(7, 11), span)

	_, _, ok = identAt(text, 12)
	assert.False(t, ok)

	last, ok := lastIdent("self.inner.value")
	require.True(t, ok)
	assert.Equal(t, common.SpanNew(11, 16), last)
}
