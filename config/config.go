// Package config holds the analysis settings: the loop iteration bound and
// the initial intervals of variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cs-au-dk/mint/analysis/lattice"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is raised for malformed configuration files, interval
// literals and settings.
var ErrInvalidConfig = errors.New("InvalidConfigError")

// MinLoops is the smallest accepted loop iteration bound.
const MinLoops = 3

// Config steers a run of the analysis.
type Config struct {
	// MaxLoops bounds the number of iterations of every loop before its
	// assigned variables are unbounded.
	MaxLoops uint32
	// Intervals gives the initial value of declared variables, by name.
	// Unlisted variables start unbound.
	Intervals map[string]lattice.Interval
	// Function selects a single function to analyze. Empty selects all.
	Function string
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		MaxLoops:  MinLoops,
		Intervals: make(map[string]lattice.Interval),
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.MaxLoops < MinLoops {
		return errors.Wrapf(ErrInvalidConfig, "max-loops must be at least %d, got %d", MinLoops, c.MaxLoops)
	}
	return nil
}

// IntervalOf retrieves the configured initial interval of a variable.
func (c Config) IntervalOf(name string) (lattice.Interval, bool) {
	i, found := c.Intervals[name]
	return i, found
}

// SetInterval parses an assignment of the form name=[low, high] and records
// it.
func (c *Config) SetInterval(assignment string) error {
	name, lit, found := strings.Cut(assignment, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return errors.Wrapf(ErrInvalidConfig, "expected name=interval, got %q", assignment)
	}

	i, err := ParseInterval(lit)
	if err != nil {
		return errors.WithMessagef(err, "interval of %s", name)
	}

	if c.Intervals == nil {
		c.Intervals = make(map[string]lattice.Interval)
	}
	c.Intervals[name] = i
	return nil
}

func (c Config) String() string {
	names := make([]string, 0, len(c.Intervals))
	for name := range c.Intervals {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "max-loops: %d", c.MaxLoops)
	for _, name := range names {
		fmt.Fprintf(&sb, "\n%s: %s", name, c.Intervals[name])
	}
	return sb.String()
}

// file is the on-disk layout shared by YAML and TOML configurations.
type file struct {
	MaxLoops  *uint32           `yaml:"max-loops" toml:"max-loops"`
	Function  string            `yaml:"function" toml:"function"`
	Intervals map[string]string `yaml:"intervals" toml:"intervals"`
}

// Load reads a configuration file. The format is chosen by extension:
// .yaml and .yml for YAML, .toml for TOML. Settings absent from the file
// keep their default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading %s", path)
	}

	var f file
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, &f)
	case ".toml":
		_, err = toml.Decode(string(data), &f)
	default:
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%s: unknown configuration format %q", path, ext)
	}
	if err != nil {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%s: %v", path, err)
	}

	conf, err := f.decode()
	if err != nil {
		return Config{}, errors.WithMessage(err, path)
	}
	return conf, conf.Validate()
}

func (f file) decode() (Config, error) {
	conf := Default()
	if f.MaxLoops != nil {
		conf.MaxLoops = *f.MaxLoops
	}
	conf.Function = f.Function

	for name, lit := range f.Intervals {
		i, err := ParseInterval(lit)
		if err != nil {
			return Config{}, errors.WithMessagef(err, "interval of %s", name)
		}
		conf.Intervals[name] = i
	}
	return conf, nil
}
