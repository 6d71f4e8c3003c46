package lattice

import (
	"sort"
	"strings"

	"github.com/cs-au-dk/mint/analysis/defs"
	"github.com/cs-au-dk/mint/utils"
	"github.com/cs-au-dk/mint/utils/indenter"

	"github.com/benbjohnson/immutable"
)

// ExitStatus is the state of the loop-bound automaton.
type ExitStatus uint8

const (
	// Idle is normal flow.
	Idle ExitStatus = iota
	// Leaving means a loop reached its iteration bound, and the analysis
	// forces control out of it.
	Leaving
	// Error is reserved.
	Error
)

func (s ExitStatus) String() string {
	switch s {
	case Idle:
		return colorize.Status("IDLE")
	case Leaving:
		return colorize.Status("LEAVING")
	case Error:
		return colorize.Status("ERROR")
	}
	panic(errPatternMatch(s))
}

// State is the abstract state at a program location. It maps variables to
// multi-intervals, and keeps the iteration counters of the enclosing loops
// together with flags steering loop unbounding.
//
// States are immutable. Every update returns a new state which shares
// unchanged parts with its origin.
type State struct {
	// seq orders states by creation. It is only consulted when joining
	// with a loop start.
	seq       uint64
	ranges    *immutable.Map[defs.Var, MultiInterval]
	loops     LoopCounters
	status    ExitStatus
	loopStart bool
	inLoop    bool
}

func emptyRanges() *immutable.Map[defs.Var, MultiInterval] {
	return utils.NewImmMap[defs.Var, MultiInterval]()
}

func (s *State) copy() *State {
	cp := *s
	return &cp
}

// Seq is the creation number of the state.
func (s *State) Seq() uint64 {
	return s.seq
}

// Get retrieves the value of a variable.
func (s *State) Get(v defs.Var) (MultiInterval, bool) {
	return s.ranges.Get(v)
}

// Len is the number of tracked variables.
func (s *State) Len() int {
	return s.ranges.Len()
}

// each iterates over the tracked variables in hash order.
func (s *State) each(do func(defs.Var, MultiInterval)) {
	for it := s.ranges.Iterator(); !it.Done(); {
		v, m, _ := it.Next()
		do(v, m)
	}
}

// Vars lists the tracked variables ordered by name, then by declaration.
func (s *State) Vars() []defs.Var {
	vs := make([]defs.Var, 0, s.Len())
	s.each(func(v defs.Var, _ MultiInterval) {
		vs = append(vs, v)
	})
	sort.Slice(vs, func(i, j int) bool {
		return vs[i].Compare(vs[j]) < 0
	})
	return vs
}

// ForEach iterates over the tracked variables in the order of Vars.
func (s *State) ForEach(do func(defs.Var, MultiInterval)) {
	for _, v := range s.Vars() {
		m, _ := s.ranges.Get(v)
		do(v, m)
	}
}

func (s *State) LoopCounters() LoopCounters {
	return s.loops
}

func (s *State) Status() ExitStatus {
	return s.status
}

func (s *State) IsLoopStart() bool {
	return s.loopStart
}

func (s *State) IsInLoop() bool {
	return s.inLoop
}

// Update binds a variable to a value.
func (s *State) Update(v defs.Var, m MultiInterval) *State {
	res := s.copy()
	res.ranges = s.ranges.Set(v, m)
	return res
}

// Remove stops tracking a variable.
func (s *State) Remove(v defs.Var) *State {
	res := s.copy()
	res.ranges = s.ranges.Delete(v)
	return res
}

func (s *State) UpdateLoopCounters(lc LoopCounters) *State {
	res := s.copy()
	res.loops = lc
	return res
}

func (s *State) UpdateStatus(status ExitStatus) *State {
	res := s.copy()
	res.status = status
	return res
}

func (s *State) SetLoopStart(b bool) *State {
	res := s.copy()
	res.loopStart = b
	return res
}

func (s *State) SetInLoop(b bool) *State {
	res := s.copy()
	res.inLoop = b
	return res
}

// ReachedBound holds if some enclosing loop is about to hit the given
// iteration bound.
func (s *State) ReachedBound(maxLoops uint32) bool {
	return s.loops.ReachedBound(maxLoops)
}

// Equal compares every component except the creation number.
func (s *State) Equal(o *State) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	if s.status != o.status ||
		s.loopStart != o.loopStart ||
		s.inLoop != o.inLoop ||
		s.Len() != o.Len() ||
		!s.loops.Equal(o.loops) {
		return false
	}

	equal := true
	s.each(func(v defs.Var, m MultiInterval) {
		if om, found := o.Get(v); !found || !m.Equal(om) {
			equal = false
		}
	})
	return equal
}

// Leq computes s ⊑ o:
//   - false if o is absent,
//   - true if o is exactly one iteration of the innermost loop ahead of s,
//   - false if the loop counters differ otherwise,
//   - true if either state is a loop start,
//   - otherwise true iff every value in s is contained in o's value for
//     the same variable.
func (s *State) Leq(o *State) bool {
	switch {
	case o == nil:
		return false
	case isNextLoop(s.loops, o.loops):
		return true
	case !s.loops.Equal(o.loops):
		return false
	case s.loopStart || o.loopStart:
		return true
	}

	leq := true
	s.each(func(v defs.Var, m MultiInterval) {
		if om, found := o.Get(v); !found || !om.Contains(m) {
			leq = false
		}
	})
	return leq
}

func (s *State) String() string {
	entries := make([]string, 0, s.Len())
	s.ForEach(func(v defs.Var, m MultiInterval) {
		entries = append(entries, colorize.Key(v.Name)+" ↦ "+m.String())
	})

	flags := []string{s.status.String()}
	if s.inLoop {
		flags = append(flags, colorize.Attr("in-loop"))
	}
	if s.loopStart {
		flags = append(flags, colorize.Attr("loop-start"))
	}

	return indenter.New().Start("{").
		NestStringsSep(",", entries...).
		End("} loops: " + s.loops.String() + " " + strings.Join(flags, " "))
}
