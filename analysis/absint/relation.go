// Package absint computes multi-interval invariants of Go functions by
// abstract interpretation over their control-flow automata.
//
// The transfer relation bounds every loop. Each pass through a loop head
// into the body increments the loop's iteration counter. Once a counter is
// about to reach the configured bound, the state is armed (LEAVING), the
// loop body is no longer entered, and the variables assigned in the loop
// are unbound on the exit edge.
package absint

import (
	"fmt"
	"go/types"

	"github.com/cs-au-dk/mint/analysis/absint/ops"
	"github.com/cs-au-dk/mint/analysis/cfa"
	"github.com/cs-au-dk/mint/analysis/expr"
	L "github.com/cs-au-dk/mint/analysis/lattice"
	"github.com/cs-au-dk/mint/config"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mint.absint")

var errPatternMatch = func(v interface{}) error {
	return fmt.Errorf("invalid pattern match: %v %T", v, v)
}

// Relation is the transfer relation of a single function.
type Relation struct {
	fn    *cfa.Function
	loops *cfa.LoopStructure
	conf  config.Config
	dom   *L.Domain
}

// NewRelation prepares the transfer relation of a function. It fails if the
// configuration is invalid, or if some loop head is not a condition.
func NewRelation(fn *cfa.Function, loops *cfa.LoopStructure, conf config.Config) (*Relation, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if err := loops.Validate(fn); err != nil {
		return nil, err
	}

	return &Relation{
		fn:    fn,
		loops: loops,
		conf:  conf,
		dom:   L.NewDomain(),
	}, nil
}

func (r *Relation) Function() *cfa.Function {
	return r.fn
}

func (r *Relation) Loops() *cfa.LoopStructure {
	return r.loops
}

// InitialState is the state at function entry.
func (r *Relation) InitialState() *L.State {
	return r.dom.Initial()
}

// Join merges a new state into a reached state.
func (r *Relation) Join(a, b *L.State) *L.State {
	return r.dom.Join(a, b)
}

// IsLessOrEqual checks whether a is covered by b.
func (r *Relation) IsLessOrEqual(a, b *L.State) bool {
	return a.Leq(b)
}

// Successors computes the states reached by taking the edge. An infeasible
// edge has no successor, and is not an error.
func (r *Relation) Successors(s *L.State, e cfa.Edge) ([]*L.State, error) {
	succ, err := r.successor(s, e)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s: %s", r.fn.Position(e.Pos()), e)
	}
	if succ == nil {
		log.Debugf("%s: %s → %s is infeasible", r.fn.Name, e.Predecessor(), e.Successor())
		return nil, nil
	}
	return []*L.State{succ}, nil
}

func (r *Relation) successor(s *L.State, e cfa.Edge) (*L.State, error) {
	switch e := e.(type) {
	case *cfa.AssumeEdge:
		return r.assume(s, e)
	case *cfa.DeclarationEdge:
		return r.declare(s, e)
	case *cfa.StatementEdge:
		succ, err := r.assign(s, e)
		if err != nil {
			return nil, err
		}
		return r.leaveLoops(succ, e), nil
	case *cfa.BlankEdge:
		succ := r.dom.Clone(s)
		if r.loops.IsLoopHead(e.Successor()) {
			succ = succ.SetLoopStart(true).SetInLoop(true)
		}
		return r.leaveLoops(succ, e), nil
	case *cfa.FunctionCallEdge, *cfa.FunctionReturnEdge, *cfa.ReturnStatementEdge:
		return r.leaveLoops(r.dom.Clone(s), e), nil
	}
	panic(errPatternMatch(e))
}

// declare binds a variable to its configured initial interval, or leaves
// it unbound.
func (r *Relation) declare(s *L.State, e *cfa.DeclarationEdge) (*L.State, error) {
	switch t := e.Type.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Array, *types.Map,
		*types.Struct, *types.Chan, *types.Interface, *types.Signature:
		return nil, errors.Wrapf(expr.ErrUnsupportedExpression, "%s has unsupported type %s", e.Var.Name, t)
	}

	value := L.Consts().Unbound()
	if i, found := r.conf.IntervalOf(e.Var.Name); found {
		value = L.MultiOf(i)
	}
	return r.dom.Clone(s).Update(e.Var, value), nil
}

// assign evaluates every right-hand side against the state before the
// assignment, then binds the results.
func (r *Relation) assign(s *L.State, e *cfa.StatementEdge) (*L.State, error) {
	values := make([]L.MultiInterval, len(e.Rhs))
	for i, rhs := range e.Rhs {
		v, err := ops.Eval(rhs, s)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	succ := r.dom.Clone(s)
	for i, v := range e.Lhs {
		succ = succ.Update(v, values[i])
	}
	return succ, nil
}

// leaveLoops forgets the counters of the loops left by a non-assume edge,
// and re-arms the status for the remaining loops.
func (r *Relation) leaveLoops(s *L.State, e cfa.Edge) *L.State {
	left := r.loops.LeavesLoops(e)
	if len(left) == 0 {
		return s
	}
	return r.rearm(r.dropCounters(s, left))
}

func (r *Relation) dropCounters(s *L.State, left []*cfa.Loop) *L.State {
	counters := s.LoopCounters()
	for _, loop := range left {
		counters = counters.Reset(loop.Head.Loc())
	}
	return s.UpdateLoopCounters(counters).SetInLoop(counters.Len() > 0)
}

func (r *Relation) rearm(s *L.State) *L.State {
	if s.Status() == L.Leaving && !s.ReachedBound(r.conf.MaxLoops) {
		return s.UpdateStatus(L.Idle)
	}
	return s
}

// Strengthen arms the loop bound: an idle state with a loop counter about to
// reach the iteration bound starts leaving.
func (r *Relation) Strengthen(s *L.State, _ cfa.Edge) *L.State {
	if s.Status() == L.Idle && s.ReachedBound(r.conf.MaxLoops) {
		return s.UpdateStatus(L.Leaving)
	}
	return s
}
