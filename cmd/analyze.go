package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/cs-au-dk/mint/analysis/absint"
	"github.com/cs-au-dk/mint/pkgutil"
	"github.com/cs-au-dk/mint/utils/dot"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [package pattern]",
	Short: "Compute the value ranges of variables at function exits",
	Long: `Analyzes every function of the matched packages, or the one selected with --fun,
and prints the multi-intervals of the variables at the function exit.
Example) mint analyze --modulepath examples/src/loops --max-loops 4 example.com/loops/...`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	pkgs, err := loadPackages(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	all := conf.Function == "" || conf.Function == "."
	failed, analyzed := 0, 0
	for _, pkg := range pkgs {
		if _, found := pkgutil.FindFunction(pkg, conf.Function); !all && !found {
			continue
		}
		analyzed++

		results, err := absint.AnalyzePackage(cmd.Context(), pkg, conf, opts.IncludeTests())
		if err != nil {
			return err
		}

		for _, fr := range results {
			if fr.Err != nil {
				failed++
				fmt.Fprintf(out, "func %s: %s\n", fr.Name, color.RedString("%s", fr.Err))
				continue
			}

			if opts.AllLocations() {
				fmt.Fprintln(out, fr.Result.String())
			} else {
				fmt.Fprintln(out, fr.Result.ExitString())
			}
			if opts.Metrics() {
				fmt.Fprintln(out, "  "+fr.Result.Metrics.String())
			}
			if opts.Visualize() {
				if err := render(graphName(pkg, fr.Name), fr.Result.ToDot()); err != nil {
					return err
				}
			}
		}
	}

	if analyzed == 0 {
		return fmt.Errorf("function %s not found", conf.Function)
	}
	if failed > 0 {
		return fmt.Errorf("%d function(s) could not be analyzed", failed)
	}
	return nil
}

func render(name string, g *dot.DotGraph) error {
	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		return err
	}
	img, err := dot.DotToImage(filepath.Join(opts.OutputDir(), name), opts.OutputFormat(), buf.Bytes())
	if err != nil {
		return err
	}
	log.Infof("wrote %s", img)
	return nil
}
