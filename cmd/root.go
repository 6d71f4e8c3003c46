// Package cmd implements the mint command line.
package cmd

import (
	"strings"

	"github.com/cs-au-dk/mint/config"
	"github.com/cs-au-dk/mint/pkgutil"
	"github.com/cs-au-dk/mint/utils"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/tools/go/packages"
)

var (
	opts = utils.Opts()

	configFile string
	maxLoops   uint32
	intervals  []string
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:          "mint [subcommand]",
	Short:        "mint - multi-interval analysis of Go functions",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if opts.Verbose() && verbosity < 1 {
			verbosity = 1
		}
		commonlog.Configure(verbosity, nil)
		return nil
	},
}

// Execute runs the command line against os.Args.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	fs := rootCmd.PersistentFlags()
	utils.BindFlags(fs)
	fs.StringVarP(&configFile, "config", "c", "", "analysis configuration file (.yaml or .toml)")
	fs.Uint32Var(&maxLoops, "max-loops", 0, "number of loop iterations unrolled before loop variables are unbounded (at least 3)")
	fs.StringArrayVar(&intervals, "interval", nil, "initial interval of a variable, e.g. n=[0, 10] (repeatable)")
	fs.IntVar(&verbosity, "log-level", 0, "log verbosity (-2 = errors only, 0 = notices, 1 = info, 2 = debug)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(cfaCmd)
}

// loadConfig resolves the analysis configuration: the configuration file
// if given, then the command line overrides.
func loadConfig() (config.Config, error) {
	conf := config.Default()
	if configFile != "" {
		var err error
		if conf, err = config.Load(configFile); err != nil {
			return conf, err
		}
	}

	if maxLoops != 0 {
		conf.MaxLoops = maxLoops
	}
	for _, a := range intervals {
		if err := conf.SetInterval(a); err != nil {
			return conf, err
		}
	}
	if opts.Function() != "" {
		conf.Function = opts.Function()
	}
	return conf, conf.Validate()
}

func loadPackages(pattern string) ([]*packages.Package, error) {
	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{
		GoPath:       opts.GoPath(),
		ModulePath:   opts.ModulePath(),
		IncludeTests: opts.IncludeTests(),
	}, pattern)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading %s", pattern)
	}
	if len(pkgs) == 0 {
		return nil, errors.Errorf("no packages matched %s", pattern)
	}
	return pkgs, nil
}

// graphName is a file name for the rendered graph of a function.
func graphName(pkg *packages.Package, fun string) string {
	return strings.NewReplacer("/", "_", ".", "_").Replace(pkg.PkgPath + "." + fun)
}
