package cmd

import (
	"fmt"

	"github.com/cs-au-dk/mint/analysis/cfa"
	"github.com/cs-au-dk/mint/pkgutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mint.cmd")

var cfaCmd = &cobra.Command{
	Use:   "cfa [package pattern]",
	Short: "Print the control-flow automata of functions",
	Long: `Builds the control-flow automaton of every function of the matched packages,
or the one selected with --fun, and prints its locations and edges.`,
	Args: cobra.ExactArgs(1),
	RunE: runCFA,
}

func runCFA(cmd *cobra.Command, args []string) error {
	pkgs, err := loadPackages(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	found := false
	for _, pkg := range pkgs {
		for _, fdecl := range pkgutil.Functions(pkg, opts.IncludeTests()) {
			name := pkgutil.FuncName(fdecl)
			if !opts.AnalyzeAllFuncs() && name != opts.Function() {
				continue
			}
			found = true

			fn, err := cfa.Build(pkg.Fset, fdecl, pkg.TypesInfo)
			if err != nil {
				return errors.WithMessagef(err, "%s.%s", pkg.PkgPath, name)
			}
			fmt.Fprint(out, fn.String())

			if opts.Visualize() {
				loops, err := cfa.Loops(fn)
				if err != nil {
					log.Warningf("%s.%s: %s", pkg.PkgPath, name, err)
					loops = nil
				}
				if err := render(graphName(pkg, name), fn.ToDot(loops, nil)); err != nil {
					return err
				}
			}
		}
	}

	if !found {
		return errors.Errorf("function %s not found", opts.Function())
	}
	return nil
}
