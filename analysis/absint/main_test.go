package absint

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/cs-au-dk/mint/analysis/cfa"
	"github.com/cs-au-dk/mint/analysis/defs"
	L "github.com/cs-au-dk/mint/analysis/lattice"
	"github.com/cs-au-dk/mint/config"
	"github.com/cs-au-dk/mint/testutil"
	"github.com/cs-au-dk/mint/utils"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.Opts().SetNoColorize(true)
	os.Exit(m.Run())
}

func relationOf(t *testing.T, src, name string, conf config.Config) *Relation {
	t.Helper()
	fset, fdecl, info := testutil.LoadFunction(t, src, name)
	fn, err := cfa.Build(fset, fdecl, info)
	require.NoError(t, err)
	loops, err := cfa.Loops(fn)
	require.NoError(t, err)
	rel, err := NewRelation(fn, loops, conf)
	require.NoError(t, err)
	return rel
}

func analyze(t *testing.T, src, name string, conf config.Config) *Result {
	t.Helper()
	res, err := Analyze(context.Background(), relationOf(t, src, name, conf))
	require.NoError(t, err)
	return res
}

// varOf finds a parameter or local of the function by name.
func varOf(t *testing.T, fn *cfa.Function, name string) defs.Var {
	t.Helper()
	for _, vs := range [][]defs.Var{fn.Params, fn.Locals} {
		for _, v := range vs {
			if v.Name == name {
				return v
			}
		}
	}
	t.Fatalf("no variable %s in %s", name, fn.Name)
	return defs.Var{}
}

func assumeOf(t *testing.T, fn *cfa.Function, cond string, truth bool) *cfa.AssumeEdge {
	t.Helper()
	for _, e := range fn.Edges() {
		if e, ok := e.(*cfa.AssumeEdge); ok && e.Cond.String() == cond && e.Truth == truth {
			return e
		}
	}
	t.Fatalf("no assume edge %s (%v) in %s", cond, truth, fn.Name)
	return nil
}

func mi(bounds ...int64) L.MultiInterval {
	is := make([]L.Interval, 0, len(bounds)/2)
	for i := 0; i < len(bounds); i += 2 {
		is = append(is, L.MustInterval(bounds[i], bounds[i+1]))
	}
	return L.MultiOf(is...)
}

const (
	minInt = math.MinInt64
	maxInt = math.MaxInt64
)
