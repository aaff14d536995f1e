package sema

import (
	"fmt"

	"github.com/movebit/move-analyzer/common"
	"github.com/movebit/move-analyzer/frontend/ast"
	"github.com/movebit/move-analyzer/frontend/model"
	"github.com/movebit/move-analyzer/frontend/parser"
)

type sourceFile struct {
	id   model.FileID
	path string
	code string
	tree *ast.Ast
}

func (f *sourceFile) loc(span Span) model.Loc {
	return model.NewLoc(f.id, span.Start, span.End)
}

// moduleInfo ties a model module to the declarations it was built from. A
// module can receive items from its own definition and from spec files.
type moduleInfo struct {
	m          *model.Module
	decl       *ast.Module
	scope      *moduleScope
	consts     map[string]*constDecl
	funs       []*funDecl
	structs    []*structDecl
	specFuns   []*specFunDecl
	specBlocks []*specBlockDecl
}

type constDecl struct {
	decl  *ast.Const
	scope *moduleScope
	ty    model.Type
}

type funDecl struct {
	fun   *model.Function
	decl  *ast.Function
	scope *moduleScope
}

type structDecl struct {
	st    *model.Struct
	decl  *ast.Struct
	scope *moduleScope
}

type specFunDecl struct {
	fun   *model.SpecFun
	decl  *ast.SpecFun
	scope *moduleScope
}

type specBlockDecl struct {
	decl  *ast.SpecBlock
	scope *moduleScope
}

type Analysis struct {
	b         *model.Builder
	addresses map[string]string
	files     []*sourceFile
	modules   []*moduleInfo
	byName    map[model.ModuleName]*moduleInfo
	Diags     []*Diagnostic
}

func newAnalysis(addresses map[string]string) *Analysis {
	return &Analysis{
		b:         model.NewBuilder(),
		addresses: addresses,
		byName:    make(map[model.ModuleName]*moduleInfo),
	}
}

func (a *Analysis) addSource(src Source) {
	id := a.b.AddFile(src.Path, src.Code)
	file := a.b.File(id)
	tree, diags := parser.Parse(file.Path, src.Code)
	a.Diags = append(a.Diags, diags...)
	a.files = append(a.files, &sourceFile{id: id, path: file.Path, code: src.Code, tree: tree})
}

func (a *Analysis) Error(file *sourceFile, span Span, msg string) {
	d := common.ErrorDiag(msg, span)
	d.Path = file.path
	a.Diags = append(a.Diags, d)
}

func (a *Analysis) Errorf(file *sourceFile, span Span, format string, args ...any) {
	a.Error(file, span, fmt.Sprintf(format, args...))
}

func (a *Analysis) Warning(file *sourceFile, span Span, msg string) {
	d := common.WarningDiag(msg, span)
	d.Path = file.path
	a.Diags = append(a.Diags, d)
}

func (a *Analysis) Warningf(file *sourceFile, span Span, format string, args ...any) {
	a.Warning(file, span, fmt.Sprintf(format, args...))
}

// resolveAddress maps a numeric or named address to its canonical form.
// Unknown named addresses are kept by name.
func (a *Analysis) resolveAddress(addr string) string {
	if v, ok := a.addresses[addr]; ok {
		return model.CanonicalAddress(v)
	}
	return model.CanonicalAddress(addr)
}

func (a *Analysis) moduleName(addr ast.PathPart, name string) model.ModuleName {
	return model.ModuleName{Address: a.resolveAddress(addr.Name), Name: name}
}

func (a *Analysis) findModule(name model.ModuleName) (*moduleInfo, bool) {
	mi, ok := a.byName[name]
	return mi, ok
}
