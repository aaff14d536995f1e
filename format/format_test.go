package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movebit/move-analyzer/frontend"
)

func TestFormatReindents(t *testing.T) {
	src := "module 0x1::m {\n" +
		"struct S { a: u64 }\n" +
		"      fun f(x: u64): u64 {\n" +
		"   let y = x +\n" +
		"1;   \n" +
		"  // note\n" +
		"      if (y > 2) {\n" +
		" y\n" +
		"            } else {\n" +
		"     0 }\n" +
		"}\n" +
		"\n" +
		"\n" +
		"  /* keep\n" +
		"       this */\n" +
		"}\n"
	want := "module 0x1::m {\n" +
		"    struct S { a: u64 }\n" +
		"    fun f(x: u64): u64 {\n" +
		"        let y = x +\n" +
		"            1;\n" +
		"        // note\n" +
		"        if (y > 2) {\n" +
		"            y\n" +
		"        } else {\n" +
		"            0 }\n" +
		"    }\n" +
		"\n" +
		"    /* keep\n" +
		"       this */\n" +
		"}\n"

	res, err := Format(src, frontend.DefaultFmtConfig())
	require.NoError(t, err)
	assert.Equal(t, want, res.Text)
	assert.Empty(t, res.Overlong)

	again, err := Format(res.Text, frontend.DefaultFmtConfig())
	require.NoError(t, err)
	assert.Equal(t, res.Text, again.Text)
}

func TestFormatIndentSize(t *testing.T) {
	cfg := frontend.DefaultFmtConfig()
	cfg.IndentSize = 2
	res, err := Format("module 0x1::m {\nfun f() {\nabort 1\n}\n}", cfg)
	require.NoError(t, err)
	assert.Equal(t, "module 0x1::m {\n  fun f() {\n    abort 1\n  }\n}\n", res.Text)
}

func TestFormatKeepsByteStrings(t *testing.T) {
	src := "module 0x1::m {\nfun f() {\nlet s = b\"a\n   b  \";\n}\n}\n"
	res, err := Format(src, frontend.DefaultFmtConfig())
	require.NoError(t, err)
	assert.Equal(t, "module 0x1::m {\n    fun f() {\n        let s = b\"a\n   b  \";\n    }\n}\n", res.Text)
}

func TestFormatOverlong(t *testing.T) {
	cfg := frontend.DefaultFmtConfig()
	cfg.MaxWidth = 10
	res, err := Format("module 0x1::abcdefgh {\n}\n", cfg)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, res.Overlong)
}

func TestFormatRejectsUnbalanced(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed", "module 0x1::m { fun f() { }"},
		{"stray close", "}"},
		{"mismatch", "module 0x1::m { fun f(] }"},
		{"lex error", "module 0x1::m { ` }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.src, frontend.DefaultFmtConfig())
			assert.Error(t, err)
		})
	}
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, uint32(0), LineCount(""))
	assert.Equal(t, uint32(1), LineCount("a"))
	assert.Equal(t, uint32(1), LineCount("a\n"))
	assert.Equal(t, uint32(2), LineCount("a\nb"))
	assert.Equal(t, uint32(3), LineCount("a\n\nb\n"))
}
