package cfa

import (
	"testing"

	"github.com/cs-au-dk/mint/analysis/expr"
	"github.com/cs-au-dk/mint/testutil"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loopSrc = `package main

func loop() int {
	x := 0
	for x < 10 {
		x = x + 1
	}
	return x
}
`

func TestBuildLoop(t *testing.T) {
	fn := build(t, loopSrc, "loop")

	expected := `func loop
L0 (entry):
	var x int → L1
L1:
	x = 0 → L2
L2:
	skip → L3
L3:
	[x < 10] → L6
	[!(x < 10)] → L4
L4:
	return x → L5
L5 (exit):
L6:
	x = x + 1 → L7
L7:
	skip → L3
`
	assert.Equal(t, expected, fn.String())
	assert.Equal(t, Entry, fn.Entry.Kind())
	assert.Equal(t, Exit, fn.Exit.Kind())
	assert.Len(t, fn.Nodes(), 8)

	for i, n := range fn.Nodes() {
		got, found := fn.Node(n.Loc())
		require.True(t, found)
		assert.Same(t, n, got)
		assert.EqualValues(t, i, n.Loc())
	}
	_, found := fn.Node(42)
	assert.False(t, found)
}

func TestBuildDeclarations(t *testing.T) {
	fn := build(t, `package main

type T int

func (t T) f(a, _ int, b int) (r int) {
	c := a
	if b > 0 {
		var d int
		d, c = c, d
	}
	for i := 0; i < 3; i++ {
		e := i
		r = r + e
	}
	return
}
`, "T.f")

	var params, locals []string
	for _, v := range fn.Params {
		params = append(params, v.Name)
	}
	for _, v := range fn.Locals {
		locals = append(locals, v.Name)
	}
	assert.Equal(t, []string{"t", "a", "b", "r"}, params)
	assert.Equal(t, []string{"c", "d", "i", "e"}, locals)

	// Every declaration precedes the body.
	n := fn.Entry
	for i := 0; i < len(params)+len(locals); i++ {
		require.Len(t, n.Out(), 1)
		_, ok := n.Out()[0].(*DeclarationEdge)
		require.True(t, ok, "edge %d from entry is %s", i, n.Out()[0])
		n = n.Out()[0].Successor()
	}
	require.Len(t, n.Out(), 1)
	assert.Equal(t, "r = 0", n.Out()[0].String(), "named results are zeroed")

	assert.Contains(t, edgeStrings[*StatementEdge](fn), "d = 0")
	assert.Contains(t, edgeStrings[*StatementEdge](fn), "d, c = c, d")
	assert.Len(t, edgesOf[*DeclarationEdge](fn), 8)
}

func TestBuildConditions(t *testing.T) {
	fn := build(t, `package main

func f(x, y int, done bool) int {
	if x > 0 && (y < 3 || !(x == y)) {
		return 1
	}
	if done {
		return 2
	}
	return 0
}
`, "f")

	assert.ElementsMatch(t, []string{
		"[x > 0]", "[!(x > 0)]",
		"[y < 3]", "[!(y < 3)]",
		"[x == y]", "[!(x == y)]",
		"[done != 0]", "[!(done != 0)]",
	}, edgeStrings[*AssumeEdge](fn))

	// The negation swaps the branches of x == y.
	for _, e := range edgesOf[*AssumeEdge](fn) {
		if e.Cond.Op.String() == "==" && !e.Truth {
			assert.Len(t, e.Successor().Out(), 1)
			_, isReturn := e.Successor().Out()[0].(*ReturnStatementEdge)
			assert.True(t, isReturn, "x != y returns 1")
		}
	}

	for _, n := range fn.Nodes() {
		out := n.Out()
		if len(out) == 2 {
			t1, ok1 := out[0].(*AssumeEdge)
			t2, ok2 := out[1].(*AssumeEdge)
			require.True(t, ok1 && ok2)
			assert.True(t, t1.Truth)
			assert.False(t, t2.Truth)
		}
	}
}

func TestBuildSwitch(t *testing.T) {
	fn := build(t, `package main

const Big = 100

func f(x int) int {
	r := 0
	switch x {
	case 1, 2:
		r = 1
	case Big:
		r = 2
	default:
		r = 3
	}
	switch {
	case x > 5 && r < 2:
		r = 4
	}
	return r
}
`, "f")

	assert.ElementsMatch(t, []string{
		"[x == 1]", "[!(x == 1)]",
		"[x == 2]", "[!(x == 2)]",
		"[x == Big]", "[!(x == Big)]",
		"[x > 5]", "[!(x > 5)]",
		"[r < 2]", "[!(r < 2)]",
	}, edgeStrings[*AssumeEdge](fn))

	for _, e := range edgesOf[*AssumeEdge](fn) {
		if e.Cond.Y.String() == "Big" {
			assert.Equal(t, expr.Const{Name: "Big", Value: 100}, e.Cond.Y)
		}
	}
}

func TestBuildStatements(t *testing.T) {
	fn := build(t, `package main

var g int

func f(x, y int) int {
	x += 2
	y--
	x, y = y, x
	g = x
	var z int
	z, _ = x, y
	println(z)
	return g
}
`, "f")

	assert.Equal(t, []string{
		"x = x + 2",
		"y = y - 1",
		"x, y = y, x",
		"z = 0",
		"z = x",
	}, edgeStrings[*StatementEdge](fn))

	assert.Contains(t, edgeStrings[*BlankEdge](fn), "g = x", "globals are not tracked")

	calls := edgesOf[*FunctionCallEdge](fn)
	require.Len(t, calls, 1)
	assert.Equal(t, "call println(z)", calls[0].String())
	rets := calls[0].Successor().Out()
	require.Len(t, rets, 1)
	assert.IsType(t, &FunctionReturnEdge{}, rets[0])

	returns := edgesOf[*ReturnStatementEdge](fn)
	require.Len(t, returns, 1)
	assert.Same(t, fn.Exit, returns[0].Successor())
	assert.Equal(t, "return g", returns[0].String())
}

func TestBuildPanicEndsBlock(t *testing.T) {
	fn := build(t, `package main

func f(x int) int {
	if x < 0 {
		panic("negative")
	}
	return x
}
`, "f")

	calls := edgesOf[*FunctionCallEdge](fn)
	require.Len(t, calls, 1)
	after := calls[0].Successor().Out()[0].Successor()
	assert.Empty(t, after.Out(), "nothing follows a panic")
	assert.Len(t, fn.Exit.In(), 1)
}

func TestBuildUnsupported(t *testing.T) {
	tests := []struct {
		name, src string
		err       error
	}{
		{"range", `package main
func f(xs []int) { for range xs {} }`, ErrUnsupportedStatement},
		{"go", `package main
func f() { go f() }`, ErrUnsupportedStatement},
		{"defer", `package main
func f() { defer f() }`, ErrUnsupportedStatement},
		{"select", `package main
func f(c chan int) { select { case <-c: } }`, ErrUnsupportedStatement},
		{"type switch", `package main
func f(x any) { switch x.(type) {} }`, ErrUnsupportedStatement},
		{"send", `package main
func f(c chan int) { c <- 1 }`, ErrUnsupportedStatement},
		{"address", `package main
func g(*int) {}
func f() { x := 1; g(&x) }`, expr.ErrUnsupportedExpression},
		{"pointer method", `package main
type C int
func (c *C) inc() { *c++ }
func f() { var c C; c.inc() }`, expr.ErrUnsupportedExpression},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fset, fdecl, info := testutil.LoadFunction(t, test.src, "f")
			_, err := Build(fset, fdecl, info)
			assert.True(t, errors.Is(err, test.err), "unexpected error: %v", err)
		})
	}
}
