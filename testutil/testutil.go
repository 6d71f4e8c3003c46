package testutil

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/cs-au-dk/mint/pkgutil"

	"golang.org/x/tools/go/packages"
)

// LoadSourceAsPackage type checks a single file of Go source code.
func LoadSourceAsPackage(t *testing.T, importPath string, content string) *packages.Package {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(
		fset,
		"main.go",
		content,
		parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}

	files := []*ast.File{file}

	// If the source has imports we need to invoke the packages tool that can
	// import code for dependencies. It is a lot slower than type checking the
	// file ourselves because it invokes the go tool in a subprocess.
	if len(file.Imports) > 0 {
		pkgs, err := pkgutil.LoadPackagesFromSource(content)
		if err != nil {
			t.Fatal(err)
		}
		return pkgs[0]
	}

	// First argument is package path, the second is name.
	pkg := types.NewPackage(importPath, file.Name.Name)
	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Implicits:  make(map[ast.Node]types.Object),
		Instances:  make(map[*ast.Ident]types.Instance),
		Scopes:     make(map[ast.Node]*types.Scope),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	if err := types.NewChecker(
		&types.Config{Importer: importer.Default()},
		fset, pkg, info).Files(files); err != nil {
		t.Fatal(err)
	}

	return &packages.Package{
		ID:        "pkg-loaded-from-src",
		Name:      pkg.Name(),
		PkgPath:   pkg.Path(),
		Types:     pkg,
		Fset:      fset,
		Syntax:    files,
		TypesInfo: info,
	}
}

// LoadFunction type checks the source and retrieves the declaration of the
// named function. Methods are named Type.Method.
func LoadFunction(t *testing.T, content string, name string) (*token.FileSet, *ast.FuncDecl, *types.Info) {
	t.Helper()

	pkg := LoadSourceAsPackage(t, "testpackage", content)
	fdecl, found := pkgutil.FindFunction(pkg, name)
	if !found {
		t.Fatalf("function %s not found", name)
	}
	return pkg.Fset, fdecl, pkg.TypesInfo
}
