package lsp

import (
	"testing"

	"github.com/gluax-lang/lsp"
	"github.com/stretchr/testify/assert"

	"github.com/movebit/move-analyzer/common"
)

func TestRuneIndex(t *testing.T) {
	ri := BuildRuneIndex("let a = 1;\n/* 😀 */ é(x)\n")

	assert.Equal(t, uint32(4), ri.Column(lsp.Position{Line: 0, Character: 4}))
	// é is one unit, the emoji two.
	assert.Equal(t, uint32(9), ri.Column(lsp.Position{Line: 1, Character: 10}))
	assert.Equal(t, uint32(10), ri.Character(1, 9))
	// Halfway through the surrogate pair rounds down to the emoji.
	assert.Equal(t, uint32(3), ri.Column(lsp.Position{Line: 1, Character: 4}))
	assert.Equal(t, uint32(5), ri.Character(1, 4))
	// Past the end of the line.
	assert.Equal(t, uint32(10), ri.Column(lsp.Position{Line: 0, Character: 40}))
	assert.Equal(t, uint32(10), ri.Character(0, 40))
	// Past the last line positions pass through.
	assert.Equal(t, uint32(7), ri.Column(lsp.Position{Line: 9, Character: 7}))
}

func TestIsArgument(t *testing.T) {
	src := "f(a, b) + c.g(d)"
	span := func(off uint32) common.Span { return common.SpanNew(off, off+1) }

	assert.True(t, isArgument(src, span(2)))
	assert.True(t, isArgument(src, span(5)))
	assert.False(t, isArgument(src, span(10)), "receiver")
	assert.True(t, isArgument(src, span(14)))
}
