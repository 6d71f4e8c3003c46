package lattice

import (
	"fmt"
	"strings"

	"github.com/cs-au-dk/mint/analysis/defs"

	"github.com/benbjohnson/immutable"
)

// LoopCounters maps loop heads to the number of times the loop body was
// entered. It is ordered by location, and locations are numbered in source
// order, so enclosing loops precede the loops nested inside them.
//
// LoopCounters values are persistent: updates return new values and never
// affect the receiver.
type LoopCounters struct {
	m *immutable.SortedMap[defs.Loc, uint32]
}

func emptyLoopCounters() LoopCounters {
	return LoopCounters{immutable.NewSortedMap[defs.Loc, uint32](defs.LocComparer{})}
}

// LoopCountersOf creates loop counters from the given mapping.
func LoopCountersOf(counts map[defs.Loc]uint32) LoopCounters {
	lc := emptyLoopCounters()
	for l, c := range counts {
		lc.m = lc.m.Set(l, c)
	}
	return lc
}

func (lc LoopCounters) Len() int {
	return lc.m.Len()
}

func (lc LoopCounters) Get(l defs.Loc) (uint32, bool) {
	return lc.m.Get(l)
}

// Increment records one more iteration of the loop at l, starting at 1.
func (lc LoopCounters) Increment(l defs.Loc) LoopCounters {
	c, _ := lc.m.Get(l)
	return LoopCounters{lc.m.Set(l, c+1)}
}

// Reset forgets the loop at l.
func (lc LoopCounters) Reset(l defs.Loc) LoopCounters {
	return LoopCounters{lc.m.Delete(l)}
}

// ForEach iterates over the counters in location order.
func (lc LoopCounters) ForEach(do func(defs.Loc, uint32)) {
	for it := lc.m.Iterator(); !it.Done(); {
		l, c, _ := it.Next()
		do(l, c)
	}
}

// Exists checks whether some counter satisfies the predicate.
func (lc LoopCounters) Exists(pred func(defs.Loc, uint32) bool) bool {
	for it := lc.m.Iterator(); !it.Done(); {
		l, c, _ := it.Next()
		if pred(l, c) {
			return true
		}
	}
	return false
}

// Equal checks that both maps have the same loops with the same counts.
func (lc LoopCounters) Equal(o LoopCounters) bool {
	if lc.Len() != o.Len() {
		return false
	}
	return !lc.Exists(func(l defs.Loc, c uint32) bool {
		oc, found := o.Get(l)
		return !found || oc != c
	})
}

// sameLoops checks that both maps track the same loop heads.
func (lc LoopCounters) sameLoops(o LoopCounters) bool {
	if lc.Len() != o.Len() {
		return false
	}
	return !lc.Exists(func(l defs.Loc, _ uint32) bool {
		_, found := o.Get(l)
		return !found
	})
}

func (lc LoopCounters) first() (defs.Loc, uint32, bool) {
	it := lc.m.Iterator()
	return it.Next()
}

func (lc LoopCounters) last() (defs.Loc, uint32, bool) {
	it := lc.m.Iterator()
	it.Last()
	return it.Next()
}

// lower finds the counter of the greatest loop head strictly below l.
func (lc LoopCounters) lower(l defs.Loc) (loc defs.Loc, c uint32, found bool) {
	lc.ForEach(func(l2 defs.Loc, c2 uint32) {
		if l2 < l {
			loc, c, found = l2, c2, true
		}
	})
	return
}

// ReachedBound holds if some loop will hit the iteration bound on its next
// pass through the loop head.
func (lc LoopCounters) ReachedBound(maxLoops uint32) bool {
	return lc.Exists(func(_ defs.Loc, c uint32) bool {
		return uint64(c)+1 >= uint64(maxLoops)
	})
}

func (lc LoopCounters) String() string {
	strs := make([]string, 0, lc.Len())
	lc.ForEach(func(l defs.Loc, c uint32) {
		strs = append(strs, fmt.Sprintf("%s ↦ %d", l, c))
	})
	return "{" + strings.Join(strs, ", ") + "}"
}

// isNextLoop checks whether b is exactly one iteration of the innermost loop
// ahead of a, with every other loop at the same iteration.
func isNextLoop(a, b LoopCounters) bool {
	if a.Equal(b) || !a.sameLoops(b) || a.Len() == 0 {
		return false
	}

	_, aLast, _ := a.last()
	bInner, bLast, _ := b.last()
	if uint64(aLast)+1 != uint64(bLast) {
		return false
	}

	return !a.Exists(func(l defs.Loc, c uint32) bool {
		bc, _ := b.Get(l)
		return l != bInner && bc != c
	})
}

// newOuterLoopIteration checks whether b has just entered a new iteration of
// some enclosing loop, i.e. a nested loop restarted at 1 in b while its
// enclosing loop is one iteration ahead of the one in a.
func newOuterLoopIteration(a, b LoopCounters) bool {
	if a.Equal(b) || !a.sameLoops(b) || a.Len() < 2 {
		return false
	}

	outermost, _, _ := a.first()
	return a.Exists(func(l defs.Loc, _ uint32) bool {
		if l == outermost {
			return false
		}
		if bc, _ := b.Get(l); bc != 1 {
			return false
		}
		_, bOuter, _ := b.lower(l)
		_, aOuter, _ := a.lower(l)
		return uint64(bOuter) == uint64(aOuter)+1
	})
}
