package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movebit/move-analyzer/common"
)

func strs(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.String())
	}
	return out
}

func TestLexFunctionHeader(t *testing.T) {
	src := "public fun f(a: &mut Coin<u64>, b: vector<u8>): u64 acquires Store {"
	toks, err := Lex(src)
	require.Nil(t, err)

	assert.Equal(t, []string{
		"public", "fun", "f", "(", "a", ":", "&mut", "Coin", "<", "u64", ">", ",",
		"b", ":", "vector", "<", "u8", ">", ")", ":", "u64", "acquires", "Store", "{", "<EOF>",
	}, strs(toks))

	assert.True(t, IsKeyword(toks[0], KwPublic))
	assert.True(t, IsPunct(toks[6], PunctAmpMut))
	assert.True(t, IsKeyword(toks[21], KwAcquires))
}

func TestLexByteOffsets(t *testing.T) {
	src := "let  x = 0x1::m::f();"
	toks, err := Lex(src)
	require.Nil(t, err)

	assert.Equal(t, common.SpanNew(0, 3), toks[0].Span())
	assert.Equal(t, common.SpanNew(5, 6), toks[1].Span())
	assert.Equal(t, "0x1", toks[3].String())
	assert.Equal(t, common.SpanNew(9, 12), toks[3].Span())
	assert.True(t, IsPunct(toks[4], PunctDoubleColon))
}

func TestLexAmpFollowedByIdentifier(t *testing.T) {
	toks, err := Lex("&mutable")
	require.Nil(t, err)
	assert.Equal(t, []string{"&", "mutable", "<EOF>"}, strs(toks))
}

func TestLexLongestPunct(t *testing.T) {
	toks, err := Lex("a <==> b ==> c => d :: e : f .. g")
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "<==>", "b", "==>", "c", "=>", "d", "::", "e", ":", "f", "..", "g", "<EOF>"}, strs(toks))
}

func TestLexSkipsComments(t *testing.T) {
	src := "a // line\n/* block\n */ b"
	toks, err := Lex(src)
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "<EOF>"}, strs(toks))
	assert.Equal(t, uint32(len(src)-1), Start(toks[1]))
}

func TestLexLiterals(t *testing.T) {
	toks, err := Lex(`b"a\"c" x"0aFF" 1_000u64 b`)
	require.Nil(t, err)
	require.Len(t, toks, 5)

	bs, ok := toks[0].(TokByteString)
	require.True(t, ok)
	assert.False(t, bs.Hex)
	assert.Equal(t, `b"a\"c"`, bs.Raw)

	hs, ok := toks[1].(TokByteString)
	require.True(t, ok)
	assert.True(t, hs.Hex)

	assert.Equal(t, "1_000u64", toks[2].String())
	assert.True(t, IsIdentStr(toks[3], "b"))
}

func TestLexCRLF(t *testing.T) {
	toks, err := Lex("a\r\nb")
	require.Nil(t, err)
	assert.Equal(t, uint32(3), Start(toks[1]))
}

func TestLexErrorKeepsPrefix(t *testing.T) {
	toks, err := Lex("a b \"oops")
	require.NotNil(t, err)
	assert.Equal(t, uint32(4), err.Offset)
	assert.Equal(t, []string{"a", "b"}, strs(toks))
}

func TestRelexStopsOnError(t *testing.T) {
	var got []string
	for tok := range Relex("x: u64 ` y") {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{"x", ":", "u64"}, got)
}

func TestRelexIsRestartable(t *testing.T) {
	seq := Relex("a, b")
	var first, second []string
	for tok := range seq {
		first = append(first, tok.String())
		break
	}
	for tok := range seq {
		second = append(second, tok.String())
	}
	assert.Equal(t, []string{"a"}, first)
	assert.Equal(t, []string{"a", ",", "b"}, second)
}

func TestRelexUnterminatedComment(t *testing.T) {
	var got []string
	for tok := range Relex("a /* b") {
		got = append(got, tok.String())
	}
	assert.Equal(t, []string{"a"}, got)
}
