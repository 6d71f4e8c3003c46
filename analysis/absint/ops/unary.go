package ops

import (
	"go/token"

	"github.com/cs-au-dk/mint/analysis/expr"
	L "github.com/cs-au-dk/mint/analysis/lattice"

	"github.com/pkg/errors"
)

// UnOp encodes the semantics of unary operations. Only negation and the
// no-op plus are supported.
func UnOp(op token.Token, v L.MultiInterval) (L.MultiInterval, error) {
	switch op {
	case token.SUB:
		return v.Negate(), nil
	case token.ADD:
		return v, nil
	}
	return L.Consts().Empty(), errors.Wrapf(expr.ErrUnsupportedExpression, "unary operator %s", op)
}
