package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cs-au-dk/mint/analysis/lattice"
	"github.com/cs-au-dk/mint/utils"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.Opts().SetNoColorize(true)
	os.Exit(m.Run())
}

func TestParseInterval(t *testing.T) {
	for _, test := range []struct {
		lit      string
		expected lattice.Interval
	}{
		{"[0, 10]", lattice.MustInterval(0, 10)},
		{"[-3,max]", lattice.MustInterval(-3, math.MaxInt64)},
		{"[min, 5]", lattice.MustInterval(math.MinInt64, 5)},
		{"[min, max]", lattice.FullInterval()},
		{" [ +2 , 2 ] ", lattice.Singleton(2)},
		{"[]", lattice.EmptyInterval()},
		{"7", lattice.Singleton(7)},
		{"-7", lattice.Singleton(-7)},
	} {
		t.Run(test.lit, func(t *testing.T) {
			i, err := ParseInterval(test.lit)
			require.NoError(t, err)
			assert.True(t, test.expected.Equal(i), "expected %s, got %s", test.expected, i)
		})
	}
}

func TestParseIntervalInvalid(t *testing.T) {
	for _, lit := range []string{
		"[1, 0]",
		"[3]",
		"[0, 10",
		"0, 10]",
		"[x, 1]",
		"[0, 99999999999999999999]",
		"[max, min]",
	} {
		t.Run(lit, func(t *testing.T) {
			_, err := ParseInterval(lit)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "unexpected error: %v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	conf := Default()
	assert.NoError(t, conf.Validate())

	conf.MaxLoops = 2
	assert.True(t, errors.Is(conf.Validate(), ErrInvalidConfig))
}

func TestSetInterval(t *testing.T) {
	var conf Config
	require.NoError(t, conf.SetInterval("x=[0, 4]"))
	require.NoError(t, conf.SetInterval(" y = 3"))

	x, found := conf.IntervalOf("x")
	assert.True(t, found)
	assert.True(t, lattice.MustInterval(0, 4).Equal(x))

	y, found := conf.IntervalOf("y")
	assert.True(t, found)
	assert.True(t, lattice.Singleton(3).Equal(y))

	_, found = conf.IntervalOf("z")
	assert.False(t, found)

	for _, bad := range []string{"[0, 4]", "=1", "x=[4, 0]"} {
		assert.True(t, errors.Is(conf.SetInterval(bad), ErrInvalidConfig), bad)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	for _, test := range []struct {
		name, content string
	}{
		{"mint.yaml", `
max-loops: 5
function: loop
intervals:
  x: "[0, 10]"
  n: "[1, max]"
`},
		{"mint.toml", `
max-loops = 5
function = "loop"

[intervals]
x = "[0, 10]"
n = "[1, max]"
`},
	} {
		t.Run(test.name, func(t *testing.T) {
			conf, err := Load(writeFile(t, test.name, test.content))
			require.NoError(t, err)

			assert.EqualValues(t, 5, conf.MaxLoops)
			assert.Equal(t, "loop", conf.Function)
			require.Len(t, conf.Intervals, 2)
			assert.True(t, lattice.MustInterval(0, 10).Equal(conf.Intervals["x"]))
			assert.True(t, lattice.MustInterval(1, math.MaxInt64).Equal(conf.Intervals["n"]))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	conf, err := Load(writeFile(t, "mint.yml", "intervals:\n  x: \"3\"\n"))
	require.NoError(t, err)
	assert.EqualValues(t, MinLoops, conf.MaxLoops)
	assert.Empty(t, conf.Function)
}

func TestLoadInvalid(t *testing.T) {
	for _, test := range []struct {
		name, content string
	}{
		{"mint.json", `{}`},
		{"mint.yaml", "max-loops: 1\n"},
		{"mint.yaml", "unknown: 1\n"},
		{"mint.yaml", "intervals:\n  x: \"[2, 1]\"\n"},
		{"mint.toml", "max-loops = \"three\"\n"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeFile(t, test.name, test.content))
			assert.True(t, errors.Is(err, ErrInvalidConfig), "unexpected error: %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestString(t *testing.T) {
	conf := Default()
	require.NoError(t, conf.SetInterval("b=[1, 2]"))
	require.NoError(t, conf.SetInterval("a=4"))

	assert.Equal(t, "max-loops: 3\na: [4, 4]\nb: [1, 2]", conf.String())
}
