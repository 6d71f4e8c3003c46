package utils

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

type options struct {
	minlen       uint
	nodesep      float64
	function     string
	outputFormat string
	modulePath   string
	gopath       string
	outputDir    string
	noColorize   bool
	verbose      bool
	visualize    bool
	metrics      bool
	allLocations bool
	includeTests bool
}

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var opts = &options{
	minlen:       2,
	nodesep:      0.35,
	outputFormat: "svg",
	outputDir:    ".",
	gopath:       "examples",
}

type optInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

// SetNoColorize toggles colorization of pretty printed output.
// Golden tests disable it to get stable output.
func (optInterface) SetNoColorize(b bool) {
	opts.noColorize = b
}

func (optInterface) Minlen() uint {
	return opts.minlen
}
func (optInterface) Nodesep() float64 {
	return opts.nodesep
}
func (optInterface) Function() string {
	return opts.function
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) OutputDir() string {
	return opts.outputDir
}
func (optInterface) GoPath() string {
	return opts.gopath
}
func (optInterface) ModulePath() string {
	return opts.modulePath
}
func (optInterface) Verbose() bool {
	return opts.verbose
}
func (optInterface) Visualize() bool {
	return opts.visualize
}
func (optInterface) Metrics() bool {
	return opts.metrics
}
func (optInterface) AllLocations() bool {
	return opts.allLocations
}
func (optInterface) IncludeTests() bool {
	return opts.includeTests
}

// AnalyzeAllFuncs holds when no specific function was targeted.
func (optInterface) AnalyzeAllFuncs() bool {
	return opts.function == "" || opts.function == "."
}

// BindFlags registers the process-wide options on the given flag set.
// The CLI binds them to its persistent flags.
func BindFlags(fs *pflag.FlagSet) {
	fs.UintVar(&(opts.minlen), "minlen", opts.minlen, "Minimum edge length (for wider output).")
	fs.Float64Var(&(opts.nodesep), "nodesep", opts.nodesep, "Minimum space between two adjacent nodes in the same rank (for taller output).")
	fs.StringVar(&(opts.function), "fun", opts.function, "target a specific function.\n"+
		"Function names need not be qualified by the package name. Use '.' (or leave empty) to analyze every function.")
	fs.StringVar(&(opts.outputFormat), "format", opts.outputFormat, "output file format [dot | svg | png | jpg]")
	fs.StringVar(&(opts.outputDir), "out", opts.outputDir, "directory for rendered graphs")
	fs.StringVar(&(opts.modulePath), "modulepath", opts.modulePath, `specify a path to a directory containing a Go module.
If provided, packages are loaded in module-aware mode relative to it.`)
	fs.StringVar(&(opts.gopath), "gopath", opts.gopath, "specify GOPATH to be used for packages.Load")
	fs.BoolVar(&(opts.noColorize), "no-colorize", opts.noColorize, "Disable pretty printer colorization")
	fs.BoolVarP(&(opts.verbose), "verbose", "v", opts.verbose, "enable verbose output")
	fs.BoolVar(&(opts.visualize), "visualize", opts.visualize, "render the analyzed control-flow automata")
	fs.BoolVar(&(opts.metrics), "metrics", opts.metrics, "print analysis metrics")
	fs.BoolVar(&(opts.allLocations), "all-locations", opts.allLocations, "print the reached states of every location, not only the exit")
	fs.BoolVar(&(opts.includeTests), "include-tests", opts.includeTests, "include test files when loading packages")
}
