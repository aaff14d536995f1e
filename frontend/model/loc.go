package model

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/movebit/move-analyzer/common"
)

type (
	FileID    uint32
	NodeID    uint32
	ModuleID  uint32
	FunID     uint32
	StructID  uint32
	FieldID   uint32
	SpecFunID uint32
)

// Loc is a span inside one file of the environment.
type Loc struct {
	File FileID      `msgpack:"f"`
	Span common.Span `msgpack:"s"`
}

func NewLoc(file FileID, start, end uint32) Loc {
	return Loc{File: file, Span: common.SpanNew(start, end)}
}

func (l Loc) Start() uint32 { return l.Span.Start }
func (l Loc) End() uint32   { return l.Span.End }

// WithSpan keeps the file and replaces the range.
func (l Loc) WithSpan(span common.Span) Loc {
	return Loc{File: l.File, Span: span}
}

func (l Loc) String() string {
	return fmt.Sprintf("#%d:%s", l.File, l.Span)
}

// Location is a 0-based line and column. Columns count characters, not bytes.
type Location struct {
	Line   uint32
	Column uint32
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

type File struct {
	ID         FileID
	Path       string
	Content    string
	lineStarts []uint32
}

func newFile(id FileID, path, content string) *File {
	starts := []uint32{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &File{ID: id, Path: path, Content: content, lineStarts: starts}
}

func (f *File) Len() uint32 {
	return uint32(len(f.Content))
}

func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Location maps a byte offset to a line and column; the end of the file is a valid position.
func (f *File) Location(off uint32) (Location, bool) {
	if off > f.Len() {
		return Location{}, false
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > off }) - 1
	start := f.lineStarts[line]
	col := utf8.RuneCountInString(f.Content[start:off])
	return Location{Line: uint32(line), Column: uint32(col)}, true
}

// Offset is the inverse of Location. A column past the end of its line clamps
// to the line end.
func (f *File) Offset(loc Location) (uint32, bool) {
	if int(loc.Line) >= len(f.lineStarts) {
		return 0, false
	}
	off := f.lineStarts[loc.Line]
	end := f.Len()
	if int(loc.Line)+1 < len(f.lineStarts) {
		end = f.lineStarts[loc.Line+1] - 1
	}
	for col := uint32(0); col < loc.Column && off < end; col++ {
		_, w := utf8.DecodeRuneInString(f.Content[off:])
		off += uint32(w)
	}
	return off, true
}
