// Package expr defines the integer expression language of the analysis.
//
// Expressions form a closed sum type. Every expression is one of Literal,
// Ident, Const, Unary, Binary, Cast, Call or Unknown. Operators are go/token
// tokens.
package expr

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/cs-au-dk/mint/analysis/defs"

	"github.com/pkg/errors"
)

// ErrUnsupportedExpression is raised for expression shapes the analysis
// cannot soundly handle: composite l-values, pointers and unsupported
// operators.
var ErrUnsupportedExpression = errors.New("UnsupportedExpressionError")

// Expr is an integer expression.
type Expr interface {
	fmt.Stringer
	expr()
}

type (
	// Literal is an integer or rune literal, or a folded constant expression.
	Literal struct {
		Value int64
	}
	// Ident refers to a program variable.
	Ident struct {
		Var defs.Var
	}
	// Const refers to a named constant, e.g. an enumerator declared with iota.
	Const struct {
		Name  string
		Value int64
	}
	// Unary applies a prefix operator.
	Unary struct {
		Op token.Token
		X  Expr
	}
	// Binary applies an infix operator.
	Binary struct {
		Op   token.Token
		X, Y Expr
	}
	// Cast is a type conversion.
	Cast struct {
		Type string
		X    Expr
	}
	// Call is a function call. Its result is not tracked.
	Call struct {
		Fun  string
		Args []Expr
	}
	// Unknown is any other expression, kept in source form.
	Unknown struct {
		Text string
	}
)

func (Literal) expr() {}
func (Ident) expr()   {}
func (Const) expr()   {}
func (Unary) expr()   {}
func (Binary) expr()  {}
func (Cast) expr()    {}
func (Call) expr()    {}
func (Unknown) expr() {}

func (e Literal) String() string { return strconv.FormatInt(e.Value, 10) }
func (e Ident) String() string   { return e.Var.Name }
func (e Const) String() string   { return e.Name }
func (e Unary) String() string   { return e.Op.String() + paren(e.X) }
func (e Binary) String() string {
	return paren(e.X) + " " + e.Op.String() + " " + paren(e.Y)
}
func (e Cast) String() string { return e.Type + "(" + e.X.String() + ")" }
func (e Call) String() string {
	args := make([]string, 0, len(e.Args))
	for _, arg := range e.Args {
		args = append(args, arg.String())
	}
	return e.Fun + "(" + strings.Join(args, ", ") + ")"
}
func (e Unknown) String() string { return e.Text }

func paren(e Expr) string {
	switch e.(type) {
	case Binary:
		return "(" + e.String() + ")"
	}
	return e.String()
}

// IsRelational holds for the comparison operators.
func IsRelational(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	}
	return false
}

// Mirror returns the operator obtained by swapping the operands, such that
// x op y ⇔ y Mirror(op) x.
func Mirror(op token.Token) token.Token {
	switch op {
	case token.LSS:
		return token.GTR
	case token.GTR:
		return token.LSS
	case token.LEQ:
		return token.GEQ
	case token.GEQ:
		return token.LEQ
	}
	return op
}

// Negate returns the complement of a comparison operator, such that
// x op y ⇔ ¬(x Negate(op) y).
func Negate(op token.Token) token.Token {
	switch op {
	case token.EQL:
		return token.NEQ
	case token.NEQ:
		return token.EQL
	case token.LSS:
		return token.GEQ
	case token.GEQ:
		return token.LSS
	case token.GTR:
		return token.LEQ
	case token.LEQ:
		return token.GTR
	}
	panic(errors.Wrapf(ErrUnsupportedExpression, "%s is not a comparison", op))
}

// AsIdent unwraps no-op casts around a variable.
func AsIdent(e Expr) (Ident, bool) {
	switch e := e.(type) {
	case Ident:
		return e, true
	case Cast:
		return AsIdent(e.X)
	}
	return Ident{}, false
}

// IsLiteral holds for literals and named constants.
func IsLiteral(e Expr) bool {
	switch e := e.(type) {
	case Literal, Const:
		return true
	case Cast:
		return IsLiteral(e.X)
	}
	return false
}
