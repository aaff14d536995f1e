package references

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/movebit/move-analyzer/common"
)

func TestInnermost(t *testing.T) {
	a := []common.FileRange{{Path: "a.move", LineStart: 1}}
	b := []common.FileRange{{Path: "b.move", LineStart: 2}}
	c := []common.FileRange{{Path: "c.move", LineStart: 3}}

	got := innermost([]candidateSet{
		{capture: common.SpanNew(0, 40), ranges: a},
		{capture: common.SpanNew(10, 14), ranges: b},
		{capture: common.SpanNew(20, 30), ranges: c},
	})
	assert.Equal(t, b, got)

	// Equal captures keep the first set.
	got = innermost([]candidateSet{
		{capture: common.SpanNew(5, 9), ranges: c},
		{capture: common.SpanNew(0, 4), ranges: a},
	})
	assert.Equal(t, c, got)

	got = innermost(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
