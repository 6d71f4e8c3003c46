package pkgutil

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"
)

// FuncName is the name of a function declaration as accepted by
// FindFunction: the plain name for functions, and Type.Method for methods.
func FuncName(fdecl *ast.FuncDecl) string {
	if fdecl.Recv == nil || len(fdecl.Recv.List) == 0 {
		return fdecl.Name.Name
	}

	recv := fdecl.Recv.List[0].Type
	for {
		switch r := recv.(type) {
		case *ast.StarExpr:
			recv = r.X
			continue
		case *ast.IndexExpr:
			recv = r.X
			continue
		case *ast.IndexListExpr:
			recv = r.X
			continue
		case *ast.ParenExpr:
			recv = r.X
			continue
		}
		break
	}
	return types.ExprString(recv) + "." + fdecl.Name.Name
}

// Functions lists the declarations of the package's functions and methods
// that have a body, in source order. Test functions are included only if
// includeTests is set.
func Functions(pkg *packages.Package, includeTests bool) (res []*ast.FuncDecl) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fdecl, ok := decl.(*ast.FuncDecl)
			if !ok || fdecl.Body == nil {
				continue
			}
			if !includeTests && IsTestFunction(pkg, fdecl) {
				continue
			}
			res = append(res, fdecl)
		}
	}
	return
}

// FindFunction retrieves a function declaration by its name, see FuncName.
func FindFunction(pkg *packages.Package, name string) (*ast.FuncDecl, bool) {
	for _, fdecl := range Functions(pkg, true) {
		if FuncName(fdecl) == name {
			return fdecl, true
		}
	}
	return nil, false
}

// IsTestFunction holds for TestXxx functions taking a single *testing.T.
func IsTestFunction(pkg *packages.Package, fdecl *ast.FuncDecl) bool {
	if fdecl.Recv != nil || !strings.HasPrefix(fdecl.Name.Name, "Test") {
		return false
	}
	if pkg.TypesInfo == nil {
		return false
	}

	fun, ok := pkg.TypesInfo.Defs[fdecl.Name].(*types.Func)
	if !ok {
		return false
	}
	params := fun.Type().(*types.Signature).Params()
	if params.Len() != 1 {
		return false
	}

	ptr, ok := params.At(0).Type().(*types.Pointer)
	if !ok {
		return false
	}
	named, ok := ptr.Elem().(*types.Named)
	return ok && named.Obj().Pkg() != nil &&
		named.Obj().Pkg().Path() == "testing" && named.Obj().Name() == "T"
}
