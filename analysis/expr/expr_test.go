package expr

import (
	"go/ast"
	"go/token"
	"testing"

	"github.com/cs-au-dk/mint/analysis/defs"
	"github.com/cs-au-dk/mint/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var relational = []token.Token{token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ}

func TestMirrorNegate(t *testing.T) {
	for _, op := range relational {
		assert.True(t, IsRelational(op))
		assert.Equal(t, op, Mirror(Mirror(op)), "mirror of %s", op)
		assert.Equal(t, op, Negate(Negate(op)), "negation of %s", op)
	}

	assert.Equal(t, token.GTR, Mirror(token.LSS))
	assert.Equal(t, token.EQL, Mirror(token.EQL))
	assert.Equal(t, token.GEQ, Negate(token.LSS))
	assert.Equal(t, token.LEQ, Negate(token.GTR))

	assert.False(t, IsRelational(token.ADD))
	assert.Panics(t, func() { Negate(token.ADD) })
}

func TestString(t *testing.T) {
	x := Ident{defs.MakeVar("x", token.NoPos)}
	tests := []struct {
		e    Expr
		want string
	}{
		{Binary{Op: token.LSS, X: x, Y: Literal{5}}, "x < 5"},
		{Binary{Op: token.LSS, X: Binary{Op: token.ADD, X: x, Y: Literal{1}}, Y: Const{Name: "Big", Value: 100}}, "(x + 1) < Big"},
		{Unary{Op: token.SUB, X: Binary{Op: token.MUL, X: x, Y: x}}, "-(x * x)"},
		{Cast{Type: "int64", X: x}, "int64(x)"},
		{Call{Fun: "f", Args: []Expr{x, Literal{2}}}, "f(x, 2)"},
		{Unknown{"s.f"}, "s.f"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.e.String())
	}
}

func TestUnwrap(t *testing.T) {
	x := Ident{defs.MakeVar("x", token.NoPos)}

	id, ok := AsIdent(Cast{Type: "int", X: Cast{Type: "int32", X: x}})
	require.True(t, ok)
	assert.Equal(t, x, id)
	_, ok = AsIdent(Literal{1})
	assert.False(t, ok)

	assert.True(t, IsLiteral(Literal{1}))
	assert.True(t, IsLiteral(Const{Name: "K", Value: 1}))
	assert.True(t, IsLiteral(Cast{Type: "int", X: Literal{1}}))
	assert.False(t, IsLiteral(x))
}

const convertSrc = `package main

const K = 4

type Level int

const (
	Low Level = iota
	High
)

var global int

func f(n int) int { return n }

func g(x int, l Level) {
	_ = x + K
	_ = 2 * K
	_ = l == High
	_ = global
	_ = f(x) < 3
	_ = int64(x)
	_ = x % 2
	_ = true
	_ = false == (x > 0)
}
`

func TestConvert(t *testing.T) {
	pkg := testutil.LoadSourceAsPackage(t, "pkg", convertSrc)
	var g *ast.FuncDecl
	for _, decl := range pkg.Syntax[0].Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Name.Name == "g" {
			g = fd
		}
	}
	require.NotNil(t, g)

	c := Converter{Info: pkg.TypesInfo}
	var got []Expr
	for _, stmt := range g.Body.List {
		got = append(got, c.Convert(stmt.(*ast.AssignStmt).Rhs[0]))
	}

	xv := VarOf(pkg.TypesInfo.Defs[g.Type.Params.List[0].Names[0]])
	lv := VarOf(pkg.TypesInfo.Defs[g.Type.Params.List[1].Names[0]])
	x, l := Ident{xv}, Ident{lv}

	assert.Equal(t, Binary{Op: token.ADD, X: x, Y: Const{Name: "K", Value: 4}}, got[0])
	assert.Equal(t, Literal{8}, got[1], "constant expressions are folded")
	assert.Equal(t, Binary{Op: token.EQL, X: l, Y: Const{Name: "High", Value: 1}}, got[2])
	assert.Equal(t, Unknown{"global"}, got[3], "globals are not tracked")
	assert.Equal(t, Binary{Op: token.LSS, X: Call{Fun: "f", Args: []Expr{x}}, Y: Literal{3}}, got[4])
	assert.Equal(t, Cast{Type: "int64", X: x}, got[5])
	assert.Equal(t, Binary{Op: token.REM, X: x, Y: Literal{2}}, got[6])
	assert.Equal(t, Literal{1}, got[7], "predeclared constants are literals")
	assert.Equal(t, Binary{Op: token.EQL, X: Literal{0}, Y: Binary{Op: token.GTR, X: x, Y: Literal{0}}}, got[8])
}
