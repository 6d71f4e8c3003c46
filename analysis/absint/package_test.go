package absint

import (
	"context"
	"testing"

	"github.com/cs-au-dk/mint/analysis/expr"
	"github.com/cs-au-dk/mint/config"
	"github.com/cs-au-dk/mint/testutil"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packageSrc = `package main

type T int

func (t T) double() int {
	return int(t) * 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func deref(p *int) int {
	return 0
}

func main() {}
`

func TestAnalyzePackage(t *testing.T) {
	pkg := testutil.LoadSourceAsPackage(t, "pkg", packageSrc)

	results, err := AnalyzePackage(context.Background(), pkg, config.Default(), false)
	require.NoError(t, err)
	require.Len(t, results, 4)

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if r.Name == "deref" {
			assert.True(t, errors.Is(r.Err, expr.ErrUnsupportedExpression), "unexpected error: %v", r.Err)
			assert.Nil(t, r.Result)
			continue
		}
		assert.NoError(t, r.Err, r.Name)
		assert.NotNil(t, r.Result, r.Name)
	}
	assert.Equal(t, []string{"T.double", "abs", "deref", "main"}, names)
}

func TestAnalyzePackageSelected(t *testing.T) {
	pkg := testutil.LoadSourceAsPackage(t, "pkg", packageSrc)

	conf := config.Default()
	conf.Function = "abs"
	results, err := AnalyzePackage(context.Background(), pkg, conf, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	x := exitValue(t, results[0].Result, "x")
	assert.True(t, x.Equal(mi(minInt, maxInt)), "%s", x)

	conf.Function = "missing"
	_, err = AnalyzePackage(context.Background(), pkg, conf, false)
	assert.Error(t, err)
}
