package cfa

import (
	"fmt"
	"sort"

	"github.com/cs-au-dk/mint/analysis/defs"
	"github.com/cs-au-dk/mint/utils/graph"

	"github.com/pkg/errors"
	uf "github.com/spakin/disjoint"
)

// Loop is a natural loop: the locations from which a back edge to the loop
// head can be reached without passing through the head, and the head itself.
type Loop struct {
	Head *Node

	nodes    map[*Node]struct{}
	inner    []Edge
	assigned []defs.Var
}

// Contains holds if the location is part of the loop body or its head.
func (l *Loop) Contains(n *Node) bool {
	_, found := l.nodes[n]
	return found
}

// Nodes lists the locations of the loop in order.
func (l *Loop) Nodes() []*Node {
	res := make([]*Node, 0, len(l.nodes))
	for n := range l.nodes {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].id < res[j].id
	})
	return res
}

func (l *Loop) String() string {
	return fmt.Sprintf("loop@%s", l.Head)
}

// LoopStructure describes the loops of a function.
type LoopStructure struct {
	// loops are ordered by the location of their head, such that enclosing
	// loops precede the loops nested in them.
	loops []*Loop
	heads map[*Node]*Loop
	// containing lists the loops containing a location, outermost first.
	containing map[*Node][]*Loop
}

// Loops computes the natural loops of a function. Back edges are edges to a
// location that dominates their source. Back edges to the same head form a
// single loop. Cycles without a back edge are irreducible, and rejected with
// ErrLoopStructure.
func Loops(fn *Function) (*LoopStructure, error) {
	G := graph.Of(func(n *Node) []*Node {
		return n.Successors()
	})
	D := G.Dominators(fn.Entry)

	// Back edges are partitioned by the head they enter. Each class is one
	// loop, so a continue statement adds a back edge to its enclosing loop
	// rather than a loop of its own.
	PMap := make(map[*Node]*uf.Element)
	elements := make(map[Edge]*uf.Element)
	backEdges := make(map[Edge]bool)
	for _, e := range fn.Edges() {
		head := e.Successor()
		if !D.Dominates(head, e.Predecessor()) {
			continue
		}

		backEdges[e] = true
		el := uf.NewElement()
		el.Data = e
		elements[e] = el
		if rep, found := PMap[head]; found {
			uf.Union(rep, el)
		} else {
			PMap[head] = el
		}
	}

	forward := graph.Of(func(n *Node) (succs []*Node) {
		for _, e := range n.out {
			if !backEdges[e] {
				succs = append(succs, e.Successor())
			}
		}
		return
	})
	if cyclic := forward.SCC([]*Node{fn.Entry}).Cyclic(); len(cyclic) > 0 {
		return nil, errors.Wrapf(ErrLoopStructure, "%s: irreducible control flow at %s",
			fn.Name, fn.Position(cyclic[0][0].pos))
	}

	groups := make(map[*uf.Element][]Edge)
	for _, e := range fn.Edges() {
		if el, found := elements[e]; found {
			rep := el.Find()
			groups[rep] = append(groups[rep], e)
		}
	}

	ls := &LoopStructure{
		heads:      make(map[*Node]*Loop),
		containing: make(map[*Node][]*Loop),
	}

	for _, group := range groups {
		head := group[0].Successor()
		loop := &Loop{
			Head:  head,
			nodes: map[*Node]struct{}{head: {}},
		}

		sources := make([]*Node, 0, len(group))
		for _, e := range group {
			sources = append(sources, e.Predecessor())
		}

		// Walk backwards from the back edges, stopping at the head.
		body := graph.Of(func(n *Node) []*Node {
			if n == head {
				return nil
			}
			return n.Predecessors()
		})
		body.BFSV(func(n *Node) bool {
			loop.nodes[n] = struct{}{}
			return false
		}, sources...)

		ls.loops = append(ls.loops, loop)
		ls.heads[head] = loop
	}

	sort.Slice(ls.loops, func(i, j int) bool {
		return ls.loops[i].Head.id < ls.loops[j].Head.id
	})

	for _, loop := range ls.loops {
		assigned := make(map[defs.Var]struct{})
		for _, n := range loop.Nodes() {
			ls.containing[n] = append(ls.containing[n], loop)

			for _, e := range n.out {
				if !loop.Contains(e.Successor()) {
					continue
				}
				loop.inner = append(loop.inner, e)
				if stmt, ok := e.(*StatementEdge); ok {
					for _, v := range stmt.Lhs {
						assigned[v] = struct{}{}
					}
				}
			}
		}

		for v := range assigned {
			loop.assigned = append(loop.assigned, v)
		}
		sort.Slice(loop.assigned, func(i, j int) bool {
			return loop.assigned[i].Compare(loop.assigned[j]) < 0
		})
	}

	return ls, nil
}

// Validate checks that every loop can be bounded: the edges leaving a loop
// head must all be assume edges.
func (ls *LoopStructure) Validate(fn *Function) error {
	for _, loop := range ls.loops {
		for _, e := range loop.Head.out {
			if _, ok := e.(*AssumeEdge); !ok {
				return errors.Wrapf(ErrLoopStructure, "%s: %s at %s has no loop condition",
					fn.Name, loop, fn.Position(loop.Head.pos))
			}
		}
	}
	return nil
}

// All lists the loops, enclosing loops before nested ones.
func (ls *LoopStructure) All() []*Loop {
	return ls.loops
}

// LoopsContaining lists the loops containing a location, outermost first.
func (ls *LoopStructure) LoopsContaining(n *Node) []*Loop {
	return ls.containing[n]
}

// IsLoopHead holds if the location is the head of a loop.
func (ls *LoopStructure) IsLoopHead(n *Node) bool {
	_, found := ls.heads[n]
	return found
}

// LoopAt retrieves the loop headed by a location.
func (ls *LoopStructure) LoopAt(n *Node) (*Loop, bool) {
	l, found := ls.heads[n]
	return l, found
}

// LeavesLoops lists the loops containing the source but not the target of
// the edge, innermost first.
func (ls *LoopStructure) LeavesLoops(e Edge) (res []*Loop) {
	loops := ls.containing[e.Predecessor()]
	for i := len(loops) - 1; i >= 0; i-- {
		if !loops[i].Contains(e.Successor()) {
			res = append(res, loops[i])
		}
	}
	return
}

// IsLoopExitEdge holds if the edge leaves at least one loop.
func (ls *LoopStructure) IsLoopExitEdge(e Edge) bool {
	for _, l := range ls.containing[e.Predecessor()] {
		if !l.Contains(e.Successor()) {
			return true
		}
	}
	return false
}

// InnerEdges lists the edges between locations of the loop.
func (ls *LoopStructure) InnerEdges(l *Loop) []Edge {
	return l.inner
}

// AssignedVars lists the variables assigned by an inner edge of the loop,
// in order.
func (ls *LoopStructure) AssignedVars(l *Loop) []defs.Var {
	return l.assigned
}
