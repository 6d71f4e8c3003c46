package cfa

import (
	"testing"

	"github.com/cs-au-dk/mint/analysis/defs"
	"github.com/cs-au-dk/mint/testutil"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loops(t *testing.T, fn *Function) *LoopStructure {
	t.Helper()
	ls, err := Loops(fn)
	require.NoError(t, err)
	require.NoError(t, ls.Validate(fn))
	return ls
}

func varNames(vs []defs.Var) (res []string) {
	for _, v := range vs {
		res = append(res, v.Name)
	}
	return
}

func locs(ns []*Node) (res []defs.Loc) {
	for _, n := range ns {
		res = append(res, n.Loc())
	}
	return
}

func TestLoopsSingle(t *testing.T) {
	fn := build(t, loopSrc, "loop")
	ls := loops(t, fn)

	require.Len(t, ls.All(), 1)
	loop := ls.All()[0]

	assert.EqualValues(t, 3, loop.Head.Loc())
	assert.Equal(t, []defs.Loc{3, 6, 7}, locs(loop.Nodes()))
	assert.Equal(t, []string{"x"}, varNames(ls.AssignedVars(loop)))
	assert.Len(t, ls.InnerEdges(loop), 3)

	assert.True(t, ls.IsLoopHead(loop.Head))
	l, found := ls.LoopAt(loop.Head)
	assert.True(t, found)
	assert.Same(t, loop, l)

	body, _ := fn.Node(6)
	assert.False(t, ls.IsLoopHead(body))
	assert.Equal(t, []*Loop{loop}, ls.LoopsContaining(body))
	assert.Empty(t, ls.LoopsContaining(fn.Entry))

	out := loop.Head.Out()
	require.Len(t, out, 2)
	assert.False(t, ls.IsLoopExitEdge(out[0]))
	assert.True(t, ls.IsLoopExitEdge(out[1]))
	assert.Equal(t, []*Loop{loop}, ls.LeavesLoops(out[1]))
	assert.Empty(t, ls.LeavesLoops(out[0]))
}

func TestLoopsNested(t *testing.T) {
	fn := build(t, `package main

func nested(n int) int {
	s := 0
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			s = s + j
		}
	}
	return s
}
`, "nested")
	ls := loops(t, fn)

	require.Len(t, ls.All(), 2)
	outer, inner := ls.All()[0], ls.All()[1]

	assert.Less(t, outer.Head.Loc(), inner.Head.Loc())
	assert.True(t, outer.Contains(inner.Head))
	assert.False(t, inner.Contains(outer.Head))
	assert.Equal(t, []*Loop{outer, inner}, ls.LoopsContaining(inner.Head))

	assert.Equal(t, []string{"i", "j", "s"}, varNames(ls.AssignedVars(outer)))
	assert.Equal(t, []string{"j", "s"}, varNames(ls.AssignedVars(inner)))

	// The inner loop exits into the outer loop body.
	for _, e := range inner.Head.Out() {
		if ls.IsLoopExitEdge(e) {
			assert.Equal(t, []*Loop{inner}, ls.LeavesLoops(e))
			assert.True(t, outer.Contains(e.Successor()))
		}
	}
}

func TestLoopsContinue(t *testing.T) {
	fn := build(t, `package main

func skip() int {
	x := 0
	for x < 10 {
		x++
		if x == 5 {
			continue
		}
		x++
	}
	return x
}
`, "skip")
	ls := loops(t, fn)

	// Both the continue and the end of the body jump back to the head.
	require.Len(t, ls.All(), 1)
	loop := ls.All()[0]

	backEdges := 0
	for _, e := range fn.Edges() {
		if e.Successor() == loop.Head && loop.Contains(e.Predecessor()) {
			backEdges++
		}
	}
	assert.Equal(t, 2, backEdges)
	assert.Equal(t, []string{"x"}, varNames(ls.AssignedVars(loop)))
}

func TestLoopsBreak(t *testing.T) {
	fn := build(t, `package main

func search(n int) int {
	i := 0
	for i < n {
		if i == 7 {
			break
		}
		i++
	}
	return i
}
`, "search")
	ls := loops(t, fn)
	require.Len(t, ls.All(), 1)
	loop := ls.All()[0]

	var exits []Edge
	for _, e := range fn.Edges() {
		if ls.IsLoopExitEdge(e) {
			exits = append(exits, e)
		}
	}

	// The loop is left from its head, and from the condition guarding the break.
	require.Len(t, exits, 2)
	heads := 0
	for _, e := range exits {
		assert.IsType(t, &AssumeEdge{}, e)
		if e.Predecessor() == loop.Head {
			heads++
		}
	}
	assert.Equal(t, 1, heads)
}

func TestLoopsWithoutCondition(t *testing.T) {
	fn := build(t, `package main

func spin(x int) int {
	for {
		x++
		if x > 10 {
			return x
		}
	}
}
`, "spin")

	ls, err := Loops(fn)
	require.NoError(t, err)
	require.Len(t, ls.All(), 1)
	assert.True(t, errors.Is(ls.Validate(fn), ErrLoopStructure))
}

func TestLoopsIrreducible(t *testing.T) {
	fset, fdecl, info := testutil.LoadFunction(t, `package main

func irreducible(x int) int {
	if x > 0 {
		goto B
	}
A:
	x++
B:
	x--
	if x > 5 {
		goto A
	}
	return x
}
`, "irreducible")

	fn, err := Build(fset, fdecl, info)
	require.NoError(t, err)

	_, err = Loops(fn)
	assert.True(t, errors.Is(err, ErrLoopStructure), "unexpected error: %v", err)
}

func TestToDot(t *testing.T) {
	fn := build(t, loopSrc, "loop")
	ls := loops(t, fn)

	dg := fn.ToDot(ls, func(n *Node) []string {
		return []string{"note"}
	})

	assert.Equal(t, "loop", dg.Title)
	require.Len(t, dg.Clusters, 1)
	assert.Len(t, dg.Clusters[0].Nodes, 3)
	assert.Len(t, dg.Nodes, 5)
	assert.Len(t, dg.Edges, 8)

	for _, node := range dg.Clusters[0].Nodes {
		if node.ID == "L3" {
			assert.Equal(t, "gold", node.Attrs["fillcolor"])
			assert.Equal(t, "L3\nnote", node.Attrs["label"])
		}
	}
}
