package lattice

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalConstruction(t *testing.T) {
	ptr := func(v int64) *int64 { return &v }

	tests := []struct {
		name      string
		low, high *int64
		empty     bool
		fails     bool
	}{
		{"both bounds", ptr(0), ptr(10), false, false},
		{"singleton", ptr(3), ptr(3), false, false},
		{"empty", nil, nil, true, false},
		{"missing high", ptr(0), nil, false, true},
		{"missing low", nil, ptr(0), false, true},
		{"inverted", ptr(5), ptr(4), false, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			i, err := IntervalOf(test.low, test.high)
			if test.fails {
				assert.ErrorIs(t, err, ErrInvalidInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.empty, i.IsEmpty())
		})
	}

	assert.Panics(t, func() { MustInterval(1, 0) })
}

func TestIntervalPlus(t *testing.T) {
	itv := MustInterval
	empty := EmptyInterval()

	tests := []struct {
		a, b, expected Interval
	}{
		{itv(0, 1), itv(2, 3), itv(2, 4)},
		{itv(-5, 5), itv(-1, 1), itv(-6, 6)},
		{itv(0, math.MaxInt64), itv(1, 1), itv(1, math.MaxInt64)},
		{itv(math.MaxInt64-1, math.MaxInt64), itv(5, 10), itv(math.MaxInt64, math.MaxInt64)},
		{itv(math.MinInt64, 0), itv(-1, -1), itv(math.MinInt64, -1)},
		{itv(math.MinInt64, math.MinInt64), itv(math.MinInt64, 0), itv(math.MinInt64, math.MinInt64)},
		{empty, itv(0, 1), empty},
		{itv(0, 1), empty, empty},
	}

	for _, test := range tests {
		res := test.a.Plus(test.b)
		if !res.Equal(test.expected) {
			t.Errorf("%s + %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		} else {
			t.Logf("%s + %s = %s\n", test.a, test.b, res)
		}

		if comm := test.b.Plus(test.a); !comm.Equal(res) {
			t.Errorf("%s + %s = %s is not commutative: %s", test.a, test.b, res, comm)
		}
	}
}

func TestIntervalNegate(t *testing.T) {
	for _, i := range []Interval{
		MustInterval(0, 0),
		MustInterval(-3, 7),
		MustInterval(math.MinInt64+1, math.MaxInt64),
		MustInterval(-100, -10),
		EmptyInterval(),
	} {
		assert.True(t, i.Negate().Negate().Equal(i), "-(-%s) = %s", i, i.Negate().Negate())
	}

	// The negation of MinInt64 saturates.
	assert.True(t, MustInterval(math.MinInt64, 0).Negate().Equal(MustInterval(0, math.MaxInt64)))
	assert.True(t, MustInterval(2, 5).Negate().Equal(MustInterval(-5, -2)))
}

func TestIntervalTimes(t *testing.T) {
	itv := MustInterval

	tests := []struct {
		a, b, expected Interval
	}{
		{itv(2, 3), itv(4, 5), itv(8, 15)},
		{itv(-2, 3), itv(4, 5), itv(-10, 15)},
		{itv(-2, 3), itv(-4, 5), itv(-12, 15)},
		{itv(math.MaxInt64/2, math.MaxInt64), itv(3, 3), itv(math.MaxInt64, math.MaxInt64)},
		{itv(-1, -1), itv(math.MinInt64, math.MinInt64), itv(math.MaxInt64, math.MaxInt64)},
	}

	for _, test := range tests {
		res := test.a.Times(test.b)
		if !res.Equal(test.expected) {
			t.Errorf("%s * %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestIntervalIntersect(t *testing.T) {
	itv := MustInterval
	empty := EmptyInterval()

	tests := []struct {
		a, b, expected Interval
	}{
		{itv(0, 5), itv(3, 8), itv(3, 5)},
		{itv(0, 5), itv(6, 8), empty},
		{itv(0, 5), itv(5, 8), itv(5, 5)},
		{itv(0, 10), itv(3, 4), itv(3, 4)},
		{itv(0, 10), empty, empty},
		{empty, empty, empty},
	}

	for _, test := range tests {
		res := test.a.Intersect(test.b)
		if !res.Equal(test.expected) {
			t.Errorf("%s ∩ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}
		assert.True(t, test.b.Intersect(test.a).Equal(res), "∩ is commutative")
		assert.True(t, res.Intersect(res).Equal(res), "∩ is idempotent")
	}
}

func TestIntervalPredicates(t *testing.T) {
	itv := MustInterval
	empty := EmptyInterval()

	assert.True(t, itv(0, 10).Contains(itv(2, 3)))
	assert.False(t, itv(0, 10).Contains(itv(2, 11)))
	assert.False(t, itv(0, 10).Contains(empty))
	assert.False(t, empty.Contains(empty))

	assert.True(t, itv(0, 10).Intersects(itv(10, 20)))
	assert.False(t, itv(0, 10).Intersects(itv(11, 20)))
	assert.False(t, empty.Intersects(itv(0, 0)))

	assert.True(t, itv(5, 6).GreaterThan(itv(0, 4)))
	assert.False(t, itv(4, 6).GreaterThan(itv(0, 4)))
	assert.True(t, itv(4, 6).GreaterOrEqualThan(itv(0, 4)))
	assert.False(t, empty.GreaterThan(itv(0, 0)))

	assert.True(t, itv(0, 4).Touches(itv(5, 9)))
	assert.False(t, itv(0, 3).Touches(itv(5, 9)))
	assert.True(t, itv(0, math.MaxInt64).Touches(itv(math.MaxInt64, math.MaxInt64)))
}

func TestIntervalSplit(t *testing.T) {
	itv := MustInterval

	tests := []struct {
		a, hole  Interval
		expected []Interval
	}{
		{itv(0, 10), itv(7, 7), []Interval{itv(0, 6), itv(8, 10)}},
		{itv(0, 10), itv(0, 3), []Interval{itv(4, 10)}},
		{itv(0, 10), itv(8, 20), []Interval{itv(0, 7)}},
		{itv(0, 10), itv(-5, 20), nil},
		{itv(0, 10), itv(20, 30), []Interval{itv(0, 10)}},
		{EmptyInterval(), itv(0, 0), nil},
	}

	for _, test := range tests {
		res := test.a.Split(test.hole)
		require.Len(t, res, len(test.expected), "%s split by %s", test.a, test.hole)
		for i := range res {
			assert.True(t, res[i].Equal(test.expected[i]), "%s split by %s: %s", test.a, test.hole, res)
		}
	}
}

func TestIntervalSize(t *testing.T) {
	assert.Equal(t, big.NewInt(11), MustInterval(0, 10).Size())
	assert.Equal(t, big.NewInt(0), EmptyInterval().Size())

	full := new(big.Int).Lsh(big.NewInt(1), 64)
	assert.Equal(t, 0, FullInterval().Size().Cmp(full))
}

func TestIntervalCompare(t *testing.T) {
	assert.Equal(t, -1, MustInterval(0, 5).Compare(MustInterval(1, 2)))
	assert.Equal(t, -1, MustInterval(0, 5).Compare(MustInterval(0, 6)))
	assert.Equal(t, 0, MustInterval(0, 5).Compare(MustInterval(0, 5)))
	assert.Equal(t, 1, MustInterval(0, 5).Compare(EmptyInterval()))
}

func TestIntervalString(t *testing.T) {
	assert.Equal(t, "[-∞, 4]", MustInterval(math.MinInt64, 4).String())
	assert.Equal(t, "[0, ∞]", MustInterval(0, math.MaxInt64).String())
	assert.Equal(t, "⊥", EmptyInterval().String())
}
