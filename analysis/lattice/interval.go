package lattice

import (
	"math"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
)

// Interval is a closed integer interval [low, high], or the empty interval.
// The zero value is the empty interval. Bounds are 64-bit integers and all
// arithmetic saturates at math.MinInt64 and math.MaxInt64.
type Interval struct {
	low, high int64
	// valid is false for the empty interval.
	valid bool
}

// NewInterval creates the interval [low, high]. It fails with
// ErrInvalidInterval if low > high.
func NewInterval(low, high int64) (Interval, error) {
	if low > high {
		return Interval{}, errors.Wrapf(ErrInvalidInterval, "lower bound %d exceeds upper bound %d", low, high)
	}
	return Interval{low, high, true}, nil
}

// IntervalOf creates an interval from optional bounds. Two absent bounds
// denote the empty interval. Exactly one absent bound, or low > high, fails
// with ErrInvalidInterval.
func IntervalOf(low, high *int64) (Interval, error) {
	switch {
	case low == nil && high == nil:
		return Interval{}, nil
	case low == nil || high == nil:
		return Interval{}, errors.Wrap(ErrInvalidInterval, "exactly one bound is missing")
	}
	return NewInterval(*low, *high)
}

// MustInterval is like NewInterval but panics on invalid bounds.
func MustInterval(low, high int64) Interval {
	i, err := NewInterval(low, high)
	if err != nil {
		panic(err)
	}
	return i
}

// Singleton creates the interval [v, v].
func Singleton(v int64) Interval {
	return Interval{v, v, true}
}

// FullInterval creates the interval [MinInt64, MaxInt64].
func FullInterval() Interval {
	return Interval{math.MinInt64, math.MaxInt64, true}
}

// EmptyInterval creates the empty interval.
func EmptyInterval() Interval {
	return Interval{}
}

// IsEmpty checks whether the interval denotes no values.
func (i Interval) IsEmpty() bool {
	return !i.valid
}

// IsSingleton checks whether the interval denotes exactly one value.
func (i Interval) IsSingleton() bool {
	return i.valid && i.low == i.high
}

// Low returns the lower bound. Panics on the empty interval.
func (i Interval) Low() int64 {
	if !i.valid {
		panic(errors.WithMessage(errInternal, "lower bound of empty interval"))
	}
	return i.low
}

// High returns the upper bound. Panics on the empty interval.
func (i Interval) High() int64 {
	if !i.valid {
		panic(errors.WithMessage(errInternal, "upper bound of empty interval"))
	}
	return i.high
}

// Bounds unpacks the interval. The boolean is false for the empty interval.
func (i Interval) Bounds() (int64, int64, bool) {
	return i.low, i.high, i.valid
}

func boundString(b int64) string {
	switch b {
	case math.MinInt64:
		return "-∞"
	case math.MaxInt64:
		return "∞"
	}
	return strconv.FormatInt(b, 10)
}

func (i Interval) String() string {
	if !i.valid {
		return colorize.Const("⊥")
	}
	return "[" + colorize.Element(boundString(i.low)) + ", " + colorize.Element(boundString(i.high)) + "]"
}

// Equal checks for structural equality. All empty intervals are equal.
func (i Interval) Equal(o Interval) bool {
	if !i.valid || !o.valid {
		return i.valid == o.valid
	}
	return i.low == o.low && i.high == o.high
}

// Compare totally orders intervals by lower bound, then by upper bound.
// The empty interval precedes every other interval.
func (i Interval) Compare(o Interval) int {
	switch {
	case !i.valid && !o.valid:
		return 0
	case !i.valid:
		return -1
	case !o.valid:
		return 1
	case i.low < o.low:
		return -1
	case i.low > o.low:
		return 1
	case i.high < o.high:
		return -1
	case i.high > o.high:
		return 1
	}
	return 0
}

// Plus computes i + o with saturating bounds:
//
//	[l1, h1] + [l2, h2] = [l1 + l2, h1 + h2]
//	⊥ + x = x + ⊥ = ⊥
func (i Interval) Plus(o Interval) Interval {
	if !i.valid || !o.valid {
		return Interval{}
	}
	return Interval{satAdd(i.low, o.low), satAdd(i.high, o.high), true}
}

// Negate computes -[l, h] = [-h, -l] with saturating bounds.
func (i Interval) Negate() Interval {
	if !i.valid {
		return i
	}
	return Interval{satNeg(i.high), satNeg(i.low), true}
}

// Minus computes i - o as i + (-o).
func (i Interval) Minus(o Interval) Interval {
	return i.Plus(o.Negate())
}

// Times computes i * o as the hull of the saturated corner products.
func (i Interval) Times(o Interval) Interval {
	if !i.valid || !o.valid {
		return Interval{}
	}
	return hullOf(
		satMul(i.low, o.low), satMul(i.low, o.high),
		satMul(i.high, o.low), satMul(i.high, o.high))
}

// quo divides by an interval that does not contain 0. Division truncates
// towards zero, and the quotient is monotone in both operands on either side
// of 0, so the extremes are found at the corners.
func (i Interval) quo(o Interval) Interval {
	if !i.valid || !o.valid {
		return Interval{}
	}
	if o.low <= 0 && 0 <= o.high {
		panic(errors.WithMessagef(errInternal, "division by %s which contains 0", o))
	}
	return hullOf(
		satQuo(i.low, o.low), satQuo(i.low, o.high),
		satQuo(i.high, o.low), satQuo(i.high, o.high))
}

func hullOf(vs ...int64) Interval {
	low, high := vs[0], vs[0]
	for _, v := range vs[1:] {
		low, high = min64(low, v), max64(high, v)
	}
	return Interval{low, high, true}
}

// Hull computes the smallest interval containing both intervals.
func (i Interval) Hull(o Interval) Interval {
	switch {
	case !i.valid:
		return o
	case !o.valid:
		return i
	}
	return Interval{min64(i.low, o.low), max64(i.high, o.high), true}
}

// Intersect computes i ∩ o, which is ⊥ for disjoint intervals.
func (i Interval) Intersect(o Interval) Interval {
	if !i.Intersects(o) {
		return Interval{}
	}
	return Interval{max64(i.low, o.low), min64(i.high, o.high), true}
}

// Intersects checks whether the intervals share a value. The empty interval
// intersects nothing.
func (i Interval) Intersects(o Interval) bool {
	return i.valid && o.valid && i.low <= o.high && o.low <= i.high
}

// Contains checks whether o ⊆ i. The empty interval contains nothing, and
// is contained in nothing.
func (i Interval) Contains(o Interval) bool {
	return i.valid && o.valid && i.low <= o.low && o.high <= i.high
}

// GreaterThan holds if every value of i exceeds every value of o.
func (i Interval) GreaterThan(o Interval) bool {
	return i.valid && o.valid && i.low > o.high
}

// GreaterOrEqualThan holds if every value of i is at least every value of o.
func (i Interval) GreaterOrEqualThan(o Interval) bool {
	return i.valid && o.valid && i.low >= o.high
}

// Touches checks whether the intervals overlap or are adjacent, i.e. their
// union is an interval.
func (i Interval) Touches(o Interval) bool {
	if !i.valid || !o.valid {
		return false
	}
	if i.low > o.low {
		i, o = o, i
	}
	return i.high == math.MaxInt64 || o.low <= i.high+1
}

// Split returns the 0 to 2 sub-intervals of i lying strictly outside of o.
func (i Interval) Split(o Interval) []Interval {
	if !i.Intersects(o) {
		if !i.valid {
			return nil
		}
		return []Interval{i}
	}

	var res []Interval
	if i.low < o.low {
		res = append(res, Interval{i.low, o.low - 1, true})
	}
	if i.high > o.high {
		res = append(res, Interval{o.high + 1, i.high, true})
	}
	return res
}

// LimitUpper clips the interval to (-∞, bound].
func (i Interval) LimitUpper(bound int64) Interval {
	if !i.valid || i.low > bound {
		return Interval{}
	}
	return Interval{i.low, min64(i.high, bound), true}
}

// LimitLower clips the interval to [bound, ∞).
func (i Interval) LimitLower(bound int64) Interval {
	if !i.valid || i.high < bound {
		return Interval{}
	}
	return Interval{max64(i.low, bound), i.high, true}
}

// Size computes the number of values in the interval, high - low + 1.
// It may exceed the 64-bit range.
func (i Interval) Size() *big.Int {
	if !i.valid {
		return new(big.Int)
	}
	size := new(big.Int).Sub(big.NewInt(i.high), big.NewInt(i.low))
	return size.Add(size, big.NewInt(1))
}
