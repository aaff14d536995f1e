package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/gluax-lang/lsp"
)

// RuneIndex maps between LSP positions, whose characters are UTF-16 code
// units, and model locations, whose columns count runes.
type RuneIndex struct {
	lines []string
}

func BuildRuneIndex(text string) RuneIndex {
	return RuneIndex{lines: strings.Split(text, "\n")}
}

// Column converts pos to a rune column. A character inside a surrogate pair
// rounds down; past the end of the line the column is the line length.
func (ri RuneIndex) Column(pos lsp.Position) uint32 {
	if int(pos.Line) >= len(ri.lines) {
		return pos.Character
	}
	var units, col uint32
	for _, r := range ri.lines[pos.Line] {
		w := uint32(utf16Len(r))
		if units+w > pos.Character {
			break
		}
		units += w
		col++
	}
	return col
}

// Character converts a rune column on line to UTF-16 code units.
func (ri RuneIndex) Character(line, col uint32) uint32 {
	if int(line) >= len(ri.lines) {
		return col
	}
	var units, n uint32
	for _, r := range ri.lines[line] {
		if n == col {
			break
		}
		units += uint32(utf16Len(r))
		n++
	}
	return units
}

func utf16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
