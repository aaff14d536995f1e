package common

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanContainment(t *testing.T) {
	s := SpanNew(10, 20)

	assert.True(t, s.Covers(10))
	assert.True(t, s.Covers(20))
	assert.False(t, s.Covers(21))

	assert.False(t, s.StrictlyCovers(10))
	assert.False(t, s.StrictlyCovers(20))
	assert.True(t, s.StrictlyCovers(15))

	assert.True(t, s.ContainsSpan(SpanNew(12, 20)))
	assert.False(t, s.ContainsSpan(SpanNew(9, 12)))
}

func TestSpanNewClamps(t *testing.T) {
	s := SpanNew(7, 3)
	assert.Equal(t, uint32(7), s.End)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, SpanNew(17, 17), s.Shift(10))
}

func TestStackOrder(t *testing.T) {
	var st Stack[int]
	assert.True(t, st.Empty())

	st.PushReversed(1, 2, 3)
	st.Push(0)

	var got []int
	for !st.Empty() {
		v, ok := st.Pop()
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, got)

	_, ok := st.Pop()
	assert.False(t, ok)
}

func TestFileRangeLocation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix paths")
	}
	r := FileRange{Path: "/ws/sources/my coin.move", LineStart: 3, ColStart: 8, LineEnd: 3, ColEnd: 12}

	loc := r.ToLocation()
	assert.Equal(t, "file:///ws/sources/my%20coin.move", loc.URI)
	assert.Equal(t, uint32(3), loc.Range.Start.Line)
	assert.Equal(t, uint32(12), loc.Range.End.Character)

	p, err := URIToFilePath(loc.URI)
	require.NoError(t, err)
	assert.Equal(t, r.Path, p)
}

func TestURIToFilePathRejectsOtherSchemes(t *testing.T) {
	_, err := URIToFilePath("untitled:Untitled-1")
	assert.Error(t, err)
}

func TestIsSpecFile(t *testing.T) {
	assert.True(t, IsSpecFile("/ws/sources/coin.spec.move"))
	assert.False(t, IsSpecFile("/ws/sources/coin.move"))
	assert.False(t, IsSpecFile("/ws.spec/sources/coin.move"))
}

func TestSHA256Hex(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(nil))
}
