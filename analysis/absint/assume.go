package absint

import (
	"go/token"

	"github.com/cs-au-dk/mint/analysis/absint/ops"
	"github.com/cs-au-dk/mint/analysis/cfa"
	"github.com/cs-au-dk/mint/analysis/expr"
	L "github.com/cs-au-dk/mint/analysis/lattice"

	"github.com/pkg/errors"
)

// assume computes the successor along a conditional edge. The guards are
// ordered: loop entry is counted before the bound is enforced, and the
// bound is enforced before the counters of the left loops are dropped.
func (r *Relation) assume(s *L.State, e *cfa.AssumeEdge) (*L.State, error) {
	succ := r.dom.Clone(s)

	pred := e.Predecessor()
	loop, atHead := r.loops.LoopAt(pred)
	exiting := r.loops.IsLoopExitEdge(e)

	if atHead && !exiting {
		succ = succ.
			UpdateLoopCounters(succ.LoopCounters().Increment(pred.Loc())).
			SetInLoop(true)
	}

	unbounded := false
	if atHead && s.Status() == L.Leaving {
		if !exiting {
			return nil, nil
		}

		for _, v := range r.loops.AssignedVars(loop) {
			succ = succ.Update(v, L.Consts().Unbound())
		}
		if succ.LoopCounters().Len() > 1 {
			succ = succ.UpdateStatus(L.Leaving)
		} else {
			succ = succ.UpdateStatus(L.Idle)
		}
		unbounded = true
	}

	if left := r.loops.LeavesLoops(e); len(left) > 0 {
		succ = r.dropCounters(succ, left)
		if !unbounded {
			succ = r.rearm(succ)
		}
	}

	return r.narrow(succ, e.Cond, e.Truth)
}

// narrow restricts the state to the values satisfying the condition, or
// its negation. It returns nil when no values do.
func (r *Relation) narrow(s *L.State, cond expr.Binary, truth bool) (*L.State, error) {
	op, left, right := cond.Op, cond.X, cond.Y
	if !expr.IsRelational(op) {
		return nil, errors.Wrapf(expr.ErrUnsupportedExpression, "%s is not a comparison", cond)
	}

	_, leftIsVar := expr.AsIdent(left)
	if _, rightIsVar := expr.AsIdent(right); !leftIsVar && rightIsVar {
		op, left, right = expr.Mirror(op), right, left
	}
	if !truth {
		op = expr.Negate(op)
	}

	lv, err := ops.Eval(left, s)
	if err != nil {
		return nil, err
	}
	rv, err := ops.Eval(right, s)
	if err != nil {
		return nil, err
	}
	if lv.IsEmpty() || rv.IsEmpty() {
		log.Debugf("%s: operand of %s has no values", r.fn.Name, cond)
		return nil, nil
	}

	lIdent, leftIsVar := expr.AsIdent(left)
	rIdent, rightIsVar := expr.AsIdent(right)

	if !leftIsVar {
		if !expr.IsLiteral(left) || !expr.IsLiteral(right) {
			return nil, errors.Wrapf(expr.ErrUnsupportedExpression,
				"cannot narrow %s: the left operand is not a variable", cond)
		}

		// Conditions over constants only decide feasibility.
		if ops.LogicInterval(op, lv, rv).Equal(L.Consts().Zero()) {
			return nil, nil
		}
		return s, nil
	}

	if rightIsVar && lIdent.Var == rIdent.Var {
		switch op {
		case token.LSS, token.GTR, token.NEQ:
			return nil, nil
		}
		return s, nil
	}

	ONE := L.Consts().One()
	var newL, newR L.MultiInterval
	switch op {
	case token.LSS:
		newL = lv.LimitUpperBound(rv.Minus(ONE))
		newR = rv.LimitLowerBound(lv.Plus(ONE))
	case token.GTR:
		newL = lv.LimitLowerBound(rv.Plus(ONE))
		newR = rv.LimitUpperBound(lv.Minus(ONE))
	case token.LEQ:
		newL = lv.LimitUpperBound(rv)
		newR = rv.LimitLowerBound(lv)
	case token.GEQ:
		newL = lv.LimitLowerBound(rv)
		newR = rv.LimitUpperBound(lv)
	case token.EQL:
		newL = lv.Intersect(rv)
		newR = newL
	case token.NEQ:
		switch {
		case lv.IsSingleton() && rv.IsSingleton() && lv.Equal(rv):
			return nil, nil
		case rv.IsSingleton():
			newL, newR = lv.AddOut(rv.Members()[0]), rv
		case lv.IsSingleton():
			newL, newR = lv, rv.AddOut(lv.Members()[0])
		default:
			newL, newR = lv, rv
		}
	default:
		panic(errPatternMatch(op))
	}

	if newL.IsEmpty() {
		return nil, nil
	}
	s = s.Update(lIdent.Var, newL)

	if rightIsVar {
		if newR.IsEmpty() {
			return nil, nil
		}
		s = s.Update(rIdent.Var, newR)
	}
	return s, nil
}
