package lattice

import (
	"math/big"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// MultiInterval is a finite union of closed integer intervals. Members are
// kept normalized: non-empty, sorted in ascending order, and pairwise neither
// overlapping nor adjacent. Two multi-intervals denoting the same set of
// integers are therefore structurally equal.
//
// MultiInterval values are immutable. The zero value is the empty set.
type MultiInterval struct {
	members []Interval
}

// MultiOf creates the normalized union of the given intervals.
func MultiOf(is ...Interval) MultiInterval {
	return normalize(append([]Interval(nil), is...))
}

// MultiRange creates the multi-interval of the single interval [low, high].
func MultiRange(low, high int64) MultiInterval {
	return MultiOf(MustInterval(low, high))
}

// MultiSingleton creates the multi-interval {v}.
func MultiSingleton(v int64) MultiInterval {
	return MultiInterval{[]Interval{Singleton(v)}}
}

// normalize sorts the given intervals and merges overlapping or adjacent
// ones. It takes ownership of the slice.
func normalize(is []Interval) MultiInterval {
	res := is[:0]
	for _, i := range is {
		if !i.IsEmpty() {
			res = append(res, i)
		}
	}
	if len(res) == 0 {
		return MultiInterval{}
	}

	sort.Slice(res, func(a, b int) bool {
		return res[a].Compare(res[b]) < 0
	})

	merged := res[:1]
	for _, i := range res[1:] {
		last := &merged[len(merged)-1]
		if last.Touches(i) {
			*last = last.Hull(i)
		} else {
			merged = append(merged, i)
		}
	}
	return MultiInterval{merged}
}

// Members returns a copy of the normalized member intervals.
func (m MultiInterval) Members() []Interval {
	return append([]Interval(nil), m.members...)
}

// IsEmpty checks whether the multi-interval denotes no values.
func (m MultiInterval) IsEmpty() bool {
	return len(m.members) == 0
}

// IsSingleton checks whether the multi-interval denotes exactly one value.
func (m MultiInterval) IsSingleton() bool {
	return len(m.members) == 1 && m.members[0].IsSingleton()
}

// Min returns the least value. Panics on the empty set.
func (m MultiInterval) Min() int64 {
	if m.IsEmpty() {
		panic(errors.WithMessage(errInternal, "minimum of empty multi-interval"))
	}
	return m.members[0].Low()
}

// Max returns the greatest value. Panics on the empty set.
func (m MultiInterval) Max() int64 {
	if m.IsEmpty() {
		panic(errors.WithMessage(errInternal, "maximum of empty multi-interval"))
	}
	return m.members[len(m.members)-1].High()
}

// Hull returns the smallest interval containing every member.
func (m MultiInterval) Hull() Interval {
	if m.IsEmpty() {
		return EmptyInterval()
	}
	return MustInterval(m.Min(), m.Max())
}

// Equal checks for structural equality, which coincides with set equality.
func (m MultiInterval) Equal(o MultiInterval) bool {
	if len(m.members) != len(o.members) {
		return false
	}
	for i, mi := range m.members {
		if !mi.Equal(o.members[i]) {
			return false
		}
	}
	return true
}

// Size computes the number of denoted values.
func (m MultiInterval) Size() *big.Int {
	size := new(big.Int)
	for _, i := range m.members {
		size.Add(size, i.Size())
	}
	return size
}

// Contains checks whether o ⊆ m. Since members are normalized, every member
// of o must lie inside a single member of m.
func (m MultiInterval) Contains(o MultiInterval) bool {
	for _, oi := range o.members {
		j := sort.Search(len(m.members), func(j int) bool {
			return m.members[j].High() >= oi.Low()
		})
		if j == len(m.members) || !m.members[j].Contains(oi) {
			return false
		}
	}
	return true
}

// Intersects checks whether m and o share a value.
func (m MultiInterval) Intersects(o MultiInterval) bool {
	i, j := 0, 0
	for i < len(m.members) && j < len(o.members) {
		a, b := m.members[i], o.members[j]
		if a.Intersects(b) {
			return true
		}
		if a.High() < b.High() {
			i++
		} else {
			j++
		}
	}
	return false
}

// lift applies a binary interval operation to the Cartesian product of the
// members of both operands, and normalizes the result.
func (m MultiInterval) lift(o MultiInterval, op func(Interval, Interval) Interval) MultiInterval {
	res := make([]Interval, 0, len(m.members)*len(o.members))
	for _, a := range m.members {
		for _, b := range o.members {
			res = append(res, op(a, b))
		}
	}
	return normalize(res)
}

// Plus computes {a + b | a ∈ m, b ∈ o}, with saturation.
func (m MultiInterval) Plus(o MultiInterval) MultiInterval {
	return m.lift(o, Interval.Plus)
}

// Minus computes {a - b | a ∈ m, b ∈ o}, with saturation.
func (m MultiInterval) Minus(o MultiInterval) MultiInterval {
	return m.lift(o, Interval.Minus)
}

// Times over-approximates {a * b | a ∈ m, b ∈ o} member-wise by interval
// multiplication.
func (m MultiInterval) Times(o MultiInterval) MultiInterval {
	return m.lift(o, Interval.Times)
}

// Divide over-approximates {a / b | a ∈ m, b ∈ o, b ≠ 0}. Zero is removed
// from the divisor first. A divisor that is exactly {0} gives the unbound
// multi-interval.
//
//	.------------------------------------.
//	|   m   |     o      |     m / o     |
//	|=======|============|===============|
//	|   ⊥   |    ∀ o     |       ⊥       |
//	|-------|------------|---------------|
//	|  ∀ m  |     ⊥      |       ⊥       |
//	|-------|------------|---------------|
//	|  ∀ m  |    {0}     |    UNBOUND    |
//	|-------|------------|---------------|
//	|  ∀ m  | o \ {0} ≠ ⊥| m / (o \ {0}) |
//	 ------------------------------------
func (m MultiInterval) Divide(o MultiInterval) MultiInterval {
	if m.IsEmpty() || o.IsEmpty() {
		return MultiInterval{}
	}
	divisor := o.AddOut(Singleton(0))
	if divisor.IsEmpty() {
		return Consts().Unbound()
	}
	return m.lift(divisor, Interval.quo)
}

// Negate computes {-a | a ∈ m}, with saturation.
func (m MultiInterval) Negate() MultiInterval {
	res := make([]Interval, 0, len(m.members))
	for _, i := range m.members {
		res = append(res, i.Negate())
	}
	return normalize(res)
}

// Union computes m ∪ o. It is also the join of the value domain.
func (m MultiInterval) Union(o MultiInterval) MultiInterval {
	res := make([]Interval, 0, len(m.members)+len(o.members))
	res = append(res, m.members...)
	res = append(res, o.members...)
	return normalize(res)
}

// Intersect computes m ∩ o.
func (m MultiInterval) Intersect(o MultiInterval) MultiInterval {
	return m.lift(o, Interval.Intersect)
}

// LimitUpperBound clips every member to (-∞, max(bound)]. An empty bound
// leaves nothing.
func (m MultiInterval) LimitUpperBound(bound MultiInterval) MultiInterval {
	if bound.IsEmpty() {
		return MultiInterval{}
	}
	upper := bound.Max()
	res := make([]Interval, 0, len(m.members))
	for _, i := range m.members {
		res = append(res, i.LimitUpper(upper))
	}
	return normalize(res)
}

// LimitLowerBound clips every member to [min(bound), ∞). An empty bound
// leaves nothing.
func (m MultiInterval) LimitLowerBound(bound MultiInterval) MultiInterval {
	if bound.IsEmpty() {
		return MultiInterval{}
	}
	lower := bound.Min()
	res := make([]Interval, 0, len(m.members))
	for _, i := range m.members {
		res = append(res, i.LimitLower(lower))
	}
	return normalize(res)
}

// AddOut removes every value of the given interval, splitting members
// where needed. With a singleton argument it records a disequality.
func (m MultiInterval) AddOut(hole Interval) MultiInterval {
	res := make([]Interval, 0, len(m.members)+1)
	for _, i := range m.members {
		res = append(res, i.Split(hole)...)
	}
	return normalize(res)
}

func (m MultiInterval) String() string {
	if m.IsEmpty() {
		return colorize.Const("⊥")
	}
	strs := make([]string, 0, len(m.members))
	for _, i := range m.members {
		strs = append(strs, i.String())
	}
	return strings.Join(strs, " ∪ ")
}
