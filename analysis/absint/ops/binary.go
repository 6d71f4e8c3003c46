package ops

import (
	"go/token"

	"github.com/cs-au-dk/mint/analysis/expr"
	L "github.com/cs-au-dk/mint/analysis/lattice"

	"github.com/pkg/errors"
)

// BinOp encodes the semantics of binary operations. Arithmetic is lifted to
// multi-intervals, and comparisons are abstracted to {0}, {1} or {0, 1}.
// Remainder, shifts, bitwise and logical connectives are not supported.
func BinOp(op token.Token, v1, v2 L.MultiInterval) (L.MultiInterval, error) {
	switch op {
	case token.ADD:
		return v1.Plus(v2), nil
	case token.SUB:
		return v1.Minus(v2), nil
	case token.MUL:
		return v1.Times(v2), nil
	case token.QUO:
		return v1.Divide(v2), nil
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return LogicInterval(op, v1, v2), nil
	}
	return L.Consts().Empty(), errors.Wrapf(expr.ErrUnsupportedExpression, "binary operator %s", op)
}

// LogicInterval abstracts a comparison to the three truth values:
//
//	.--------------------------------------------------------------.
//	|  op  |     {1}                 |     {0}                     |
//	|======|=========================|=============================|
//	|  ==  | v1 = v2 = {c}           | v1 ∩ v2 = ∅                 |
//	|------|-------------------------|-----------------------------|
//	|  !=  | v1 ∩ v2 = ∅             | v1 = v2 = {c}               |
//	|------|-------------------------|-----------------------------|
//	|  >   | min(v1) > max(v2)       | min(v2) ≥ max(v1)           |
//	|------|-------------------------|-----------------------------|
//	|  >=  | min(v1) ≥ max(v2)       | min(v2) > max(v1)           |
//	|  <   | v2 > v1                 |                             |
//	|  <=  | v2 >= v1                |                             |
//	 --------------------------------------------------------------
//
// In all other cases, as well as for empty operands, the result is {0, 1}.
func LogicInterval(op token.Token, v1, v2 L.MultiInterval) L.MultiInterval {
	TRUE, FALSE, UNKNOWN := L.Consts().Truths()

	if v1.IsEmpty() || v2.IsEmpty() {
		return UNKNOWN
	}

	switch op {
	case token.EQL:
		switch {
		case !v1.Intersects(v2):
			return FALSE
		case v1.IsSingleton() && v1.Equal(v2):
			return TRUE
		}
		return UNKNOWN
	case token.NEQ:
		switch eq := LogicInterval(token.EQL, v1, v2); {
		case eq.Equal(TRUE):
			return FALSE
		case eq.Equal(FALSE):
			return TRUE
		}
		return UNKNOWN
	case token.GTR:
		h1, h2 := v1.Hull(), v2.Hull()
		switch {
		case h1.GreaterThan(h2):
			return TRUE
		case h2.GreaterOrEqualThan(h1):
			return FALSE
		}
		return UNKNOWN
	case token.GEQ:
		h1, h2 := v1.Hull(), v2.Hull()
		switch {
		case h1.GreaterOrEqualThan(h2):
			return TRUE
		case h2.GreaterThan(h1):
			return FALSE
		}
		return UNKNOWN
	case token.LSS:
		return LogicInterval(token.GTR, v2, v1)
	case token.LEQ:
		return LogicInterval(token.GEQ, v2, v1)
	}
	panic(errors.Wrapf(expr.ErrUnsupportedExpression, "%s is not a comparison", op))
}
