package common

import (
	"fmt"

	protocol "github.com/gluax-lang/lsp"
)

// FileRange is a reference result: 0-based lines and columns in a file.
type FileRange struct {
	Path      string `json:"path"`
	LineStart uint32 `json:"line_start"`
	ColStart  uint32 `json:"col_start"`
	LineEnd   uint32 `json:"line_end"`
	ColEnd    uint32 `json:"col_end"`
}

func (r FileRange) ToRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      r.LineStart,
			Character: r.ColStart,
		},
		End: protocol.Position{
			Line:      r.LineEnd,
			Character: r.ColEnd,
		},
	}
}

func (r FileRange) ToLocation() protocol.Location {
	return protocol.Location{
		URI:   FilePathToURI(r.Path),
		Range: r.ToRange(),
	}
}

func (r FileRange) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", r.Path, r.LineStart, r.ColStart, r.LineEnd, r.ColEnd)
}
