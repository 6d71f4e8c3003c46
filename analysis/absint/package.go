package absint

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"runtime"

	"github.com/cs-au-dk/mint/analysis/cfa"
	"github.com/cs-au-dk/mint/config"
	"github.com/cs-au-dk/mint/pkgutil"
	"github.com/cs-au-dk/mint/utils/worklist"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"
)

// FunctionResult is the outcome of analyzing one function of a package.
type FunctionResult struct {
	Name   string
	Result *Result
	Err    error
}

// AnalyzeFunction builds the automaton of a function declaration and
// computes its reachable states.
func AnalyzeFunction(ctx context.Context, fset *token.FileSet, fdecl *ast.FuncDecl, info *types.Info, conf config.Config) (*Result, error) {
	fn, err := cfa.Build(fset, fdecl, info)
	if err != nil {
		return nil, err
	}
	loops, err := cfa.Loops(fn)
	if err != nil {
		return nil, err
	}
	rel, err := NewRelation(fn, loops, conf)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, rel)
}

// AnalyzePackage analyzes the function selected by the configuration, or
// every function of the package. Functions are analyzed concurrently.
// Failing functions are logged and reported in their result; the returned
// error is reserved for a missing selected function and cancellation.
func AnalyzePackage(ctx context.Context, pkg *packages.Package, conf config.Config, includeTests bool) ([]FunctionResult, error) {
	var fdecls []*ast.FuncDecl
	if conf.Function == "" || conf.Function == "." {
		fdecls = pkgutil.Functions(pkg, includeTests)
	} else {
		fdecl, found := pkgutil.FindFunction(pkg, conf.Function)
		if !found {
			return nil, errors.Errorf("function %s not found in %s", conf.Function, pkg.PkgPath)
		}
		fdecls = []*ast.FuncDecl{fdecl}
	}

	results := make([]FunctionResult, len(fdecls))
	W := worklist.Empty[int]()
	for i := range fdecls {
		W.Add(i)
	}

	W.ProcessConc(runtime.GOMAXPROCS(0), func(i int, _ func(int)) {
		name := pkgutil.FuncName(fdecls[i])
		res, err := AnalyzeFunction(ctx, pkg.Fset, fdecls[i], pkg.TypesInfo, conf)
		if err != nil {
			log.Errorf("%s.%s: %s", pkg.PkgPath, name, err)
		}
		results[i] = FunctionResult{Name: name, Result: res, Err: err}
	})

	return results, ctx.Err()
}
