package expr

import (
	"go/ast"
	"go/constant"
	"go/types"

	"github.com/cs-au-dk/mint/analysis/defs"
)

// Converter lowers type-checked go/ast expressions.
type Converter struct {
	Info *types.Info
}

// IsLocal holds for variables declared inside a function, including
// parameters and named results.
func IsLocal(obj types.Object) bool {
	v, ok := obj.(*types.Var)
	if !ok || v.IsField() || v.Parent() == nil || v.Pkg() == nil {
		return false
	}
	return v.Parent() != v.Pkg().Scope() && v.Parent() != types.Universe
}

// VarOf creates the variable identifier of a declared object.
func VarOf(obj types.Object) defs.Var {
	return defs.MakeVar(obj.Name(), obj.Pos())
}

// constValue extracts a constant as an integer. Booleans are 0 and 1.
func constValue(v constant.Value) (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Kind() {
	case constant.Bool:
		if constant.BoolVal(v) {
			return 1, true
		}
		return 0, true
	case constant.Int, constant.Float:
		if i := constant.ToInt(v); i.Kind() == constant.Int {
			return constant.Int64Val(i)
		}
	}
	return 0, false
}

// Convert lowers an expression. Shapes outside of the integer fragment are
// kept as Unknown, and evaluate to the unbound value.
func (c Converter) Convert(e ast.Expr) Expr {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return c.Convert(e.X)
	case *ast.Ident:
		switch obj := c.Info.ObjectOf(e).(type) {
		case *types.Const:
			v, ok := constValue(obj.Val())
			switch {
			case !ok:
			case obj.Pkg() == nil:
				// true and false
				return Literal{v}
			default:
				return Const{Name: e.Name, Value: v}
			}
		case *types.Var:
			if IsLocal(obj) {
				return Ident{VarOf(obj)}
			}
		}
		return Unknown{types.ExprString(e)}
	}

	if tv, ok := c.Info.Types[e]; ok && tv.Value != nil {
		if v, ok := constValue(tv.Value); ok {
			return Literal{v}
		}
		return Unknown{types.ExprString(e)}
	}

	switch e := e.(type) {
	case *ast.UnaryExpr:
		return Unary{Op: e.Op, X: c.Convert(e.X)}
	case *ast.BinaryExpr:
		return Binary{Op: e.Op, X: c.Convert(e.X), Y: c.Convert(e.Y)}
	case *ast.CallExpr:
		if tv, ok := c.Info.Types[e.Fun]; ok && tv.IsType() && len(e.Args) == 1 {
			return Cast{Type: types.ExprString(e.Fun), X: c.Convert(e.Args[0])}
		}
		args := make([]Expr, 0, len(e.Args))
		for _, arg := range e.Args {
			args = append(args, c.Convert(arg))
		}
		return Call{Fun: types.ExprString(e.Fun), Args: args}
	}
	return Unknown{types.ExprString(e)}
}
