package lattice

import (
	"sync/atomic"

	"github.com/cs-au-dk/mint/analysis/defs"

	"github.com/pkg/errors"
)

// Domain creates abstract states and owns the lattice operations that
// produce new states. It hands out creation numbers, so states created by
// the same domain are totally ordered by age.
type Domain struct {
	seq atomic.Uint64
}

// NewDomain creates a domain whose first state gets creation number 1.
func NewDomain() *Domain {
	return &Domain{}
}

func (d *Domain) next() uint64 {
	return d.seq.Add(1)
}

// Initial creates the state at function entry: no variables, no loops.
func (d *Domain) Initial() *State {
	return &State{
		seq:    d.next(),
		ranges: emptyRanges(),
		loops:  emptyLoopCounters(),
		status: Idle,
	}
}

// Clone creates a fresh state with the same variables, loop counters,
// status and loop membership. The loop start flag is not carried over.
func (d *Domain) Clone(s *State) *State {
	res := s.copy()
	res.seq = d.next()
	res.loopStart = false
	return res
}

// Join merges the successor state a into the reached state b:
//
//  1. A loop start meeting a younger state adopts the younger state's
//     values, counters and status, and stays a loop start.
//  2. If either state is inside a loop and one is exactly the next
//     iteration of the other, the more advanced state is returned as is.
//     Consecutive iterations supersede each other instead of being merged.
//  3. Otherwise values are merged point-wise, a's loop counters are kept,
//     and the status is a's unless it is IDLE.
//
// Both states must track the same variables for the point-wise merge,
// otherwise Join panics with ErrVariableMismatch.
func (d *Domain) Join(a, b *State) *State {
	switch {
	case a.loopStart && a.seq < b.seq:
		res := d.Clone(b)
		res.loopStart = true
		return res
	case b.loopStart && a.seq > b.seq:
		res := d.Clone(a)
		res.loopStart = true
		return res
	}

	inLoop := a.inLoop || b.inLoop
	if inLoop {
		switch {
		case isNextLoop(a.loops, b.loops):
			return b
		case isNextLoop(b.loops, a.loops):
			return a
		case newOuterLoopIteration(a.loops, b.loops):
			return b
		case newOuterLoopIteration(b.loops, a.loops):
			return a
		}
	}

	if a.Len() != b.Len() {
		panic(errors.Wrapf(ErrVariableMismatch, "joining %d and %d variables", a.Len(), b.Len()))
	}
	ranges := emptyRanges()
	a.ForEach(func(v defs.Var, m MultiInterval) {
		om, found := b.Get(v)
		if !found {
			panic(errors.Wrapf(ErrVariableMismatch, "%s is only tracked on one side", v.Name))
		}
		ranges = ranges.Set(v, m.Union(om))
	})

	status := a.status
	if status == Idle {
		status = b.status
	}

	return &State{
		seq:    d.next(),
		ranges: ranges,
		loops:  a.loops,
		status: status,
		inLoop: inLoop,
	}
}
