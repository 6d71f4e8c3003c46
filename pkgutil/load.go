// Package pkgutil loads Go packages for analysis and locates the functions
// declared in them.
package pkgutil

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

var log = commonlog.GetLogger("mint.pkgutil")

// LoadConfig selects how packages are found. Packages are loaded in
// module-aware mode relative to ModulePath when it is set, and from GoPath
// otherwise. IncludeTests also loads the test files of the packages.
type LoadConfig struct {
	GoPath, ModulePath string
	IncludeTests       bool
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes | packages.NeedTypesSizes |
	packages.NeedSyntax | packages.NeedTypesInfo

// ErrLoad is returned when a loaded package has parse or type errors.
// The errors themselves are logged.
var ErrLoad = errors.New("errors encountered while loading packages")

// parseRelative parses files under names relative to the working directory,
// so positions print the same on every machine.
func parseRelative(cwd string) func(*token.FileSet, string, []byte) (*ast.File, error) {
	return func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
		if rel, err := filepath.Rel(cwd, filename); err == nil {
			filename = rel
		}
		return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
	}
}

// moduleName reads the module path from the go.mod file in dir.
func moduleName(dir string) (string, error) {
	contents, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", errors.Wrapf(err, "unable to load 'go.mod' file at %s", dir)
	}
	if name := modfile.ModulePath(contents); name != "" {
		return name, nil
	}
	return "", errors.Errorf("unable to locate module name in 'go.mod' file at %s", dir)
}

// LoadPackages loads the packages matching the pattern.
func LoadPackages(cfg LoadConfig, pattern string) ([]*packages.Package, error) {
	gopath, err := filepath.Abs(cfg.GoPath)
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	config := &packages.Config{
		Mode:      loadMode,
		Tests:     cfg.IncludeTests,
		ParseFile: parseRelative(cwd),
		Env:       append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=off"),
	}

	if cfg.ModulePath != "" {
		dir, err := filepath.Abs(cfg.ModulePath)
		if err != nil {
			return nil, err
		}
		name, err := moduleName(dir)
		if err != nil {
			return nil, err
		}
		log.Debugf("loading %s in module %s", pattern, name)

		config.Dir = dir
		config.Env = append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=on")
	}

	return load(config, pattern)
}

// LoadPackagesFromSource loads a single source file as a package. It is
// mainly useful for testing.
func LoadPackagesFromSource(source string) ([]*packages.Package, error) {
	// The overlay makes the file visible to the go tool without writing it.
	const file = "/fake/testpackage/main.go"
	config := &packages.Config{
		Mode:    loadMode,
		Env:     append(os.Environ(), "GO111MODULE=off", "GOPATH=/fake"),
		Overlay: map[string][]byte{file: []byte(source)},
	}
	return load(config, file)
}

func load(config *packages.Config, query string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(config, query)
	if err != nil {
		return nil, err
	}

	failed := false
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, err := range pkg.Errors {
			log.Error(err.Error())
			failed = true
		}
	})
	if failed {
		return nil, ErrLoad
	}

	if config.Tests {
		pkgs = dropTestedVariants(pkgs)
	}
	return pkgs, nil
}

// dropTestedVariants keeps only the test variant of packages loaded both
// with and without their tests, so declarations are not seen twice.
func dropTestedVariants(pkgs []*packages.Package) []*packages.Package {
	ids := make(map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		ids[pkg.ID] = true
	}

	var res []*packages.Package
	for _, pkg := range pkgs {
		if !ids[fmt.Sprintf("%s [%s.test]", pkg.ID, pkg.ID)] {
			res = append(res, pkg)
		}
	}
	return res
}
