// Package ops encodes the semantics of expressions over multi-intervals.
package ops

import (
	"github.com/cs-au-dk/mint/analysis/defs"
	"github.com/cs-au-dk/mint/analysis/expr"
	L "github.com/cs-au-dk/mint/analysis/lattice"

	"github.com/pkg/errors"
)

// Env provides read-only access to variable values. *lattice.State
// implements it.
type Env interface {
	Get(defs.Var) (L.MultiInterval, bool)
}

// Eval computes the multi-interval of all values the expression may take
// under the given environment. It is pure. Variables absent from the
// environment, calls and unrecognized expressions are unbound.
// Unsupported operators fail with expr.ErrUnsupportedExpression.
func Eval(e expr.Expr, env Env) (L.MultiInterval, error) {
	switch e := e.(type) {
	case expr.Literal:
		return L.MultiSingleton(e.Value), nil
	case expr.Const:
		return L.MultiSingleton(e.Value), nil
	case expr.Ident:
		if v, found := env.Get(e.Var); found {
			return v, nil
		}
		return L.Consts().Unbound(), nil
	case expr.Cast:
		return Eval(e.X, env)
	case expr.Unary:
		v, err := Eval(e.X, env)
		if err != nil {
			return v, err
		}
		return UnOp(e.Op, v)
	case expr.Binary:
		v1, err := Eval(e.X, env)
		if err != nil {
			return v1, err
		}
		v2, err := Eval(e.Y, env)
		if err != nil {
			return v2, err
		}
		res, err := BinOp(e.Op, v1, v2)
		return res, errors.WithMessagef(err, "evaluating %s", e)
	case expr.Call, expr.Unknown:
		return L.Consts().Unbound(), nil
	case nil:
		return L.Consts().Empty(), errors.Wrap(expr.ErrUnsupportedExpression, "missing expression")
	}
	return L.Consts().Unbound(), nil
}
