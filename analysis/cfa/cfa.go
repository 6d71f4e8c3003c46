// Package cfa lowers Go function bodies to control-flow automata: graphs whose
// nodes are program locations and whose edges carry the statement or
// condition executed between them.
package cfa

import (
	"go/token"
	"strings"

	"github.com/cs-au-dk/mint/analysis/defs"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedStatement is raised for statements outside of the
	// sequential integer fragment: range loops, select, type switches,
	// channel sends, go and defer statements.
	ErrUnsupportedStatement = errors.New("UnsupportedStatementError")
	// ErrLoopStructure is raised for control flow whose loops cannot be
	// bounded, e.g. irreducible loops or loop heads without a condition.
	ErrLoopStructure = errors.New("LoopStructureError")
)

// Node is a location of a control-flow automaton.
type Node struct {
	id   defs.Loc
	pos  token.Pos
	in   []Edge
	out  []Edge
	kind NodeKind
}

// NodeKind distinguishes the entry and exit locations of a function.
type NodeKind uint8

const (
	Internal NodeKind = iota
	Entry
	Exit
)

// Loc is the identifier of the location. Locations are numbered in reverse
// postorder from the function entry, so loop heads of enclosing loops are
// numbered before those of nested loops.
func (n *Node) Loc() defs.Loc {
	return n.id
}

func (n *Node) Pos() token.Pos {
	return n.pos
}

func (n *Node) Kind() NodeKind {
	return n.kind
}

// In lists the incoming edges.
func (n *Node) In() []Edge {
	return n.in
}

// Out lists the outgoing edges in creation order. The true branch of a
// condition precedes its false branch.
func (n *Node) Out() []Edge {
	return n.out
}

// Successors lists the targets of the outgoing edges.
func (n *Node) Successors() []*Node {
	succs := make([]*Node, 0, len(n.out))
	for _, e := range n.out {
		succs = append(succs, e.Successor())
	}
	return succs
}

// Predecessors lists the sources of the incoming edges.
func (n *Node) Predecessors() []*Node {
	preds := make([]*Node, 0, len(n.in))
	for _, e := range n.in {
		preds = append(preds, e.Predecessor())
	}
	return preds
}

func (n *Node) String() string {
	return n.id.String()
}

// Function is the control-flow automaton of a single function.
type Function struct {
	Name string
	// Entry is the location before the parameters are declared.
	Entry *Node
	// Exit is the location after every return statement.
	Exit *Node
	// Params are the parameters, including the receiver and named results.
	Params []defs.Var
	// Locals are the variables declared in the body. They are declared at
	// function entry, after the parameters.
	Locals []defs.Var

	fset  *token.FileSet
	nodes []*Node
}

// Nodes lists the locations ordered by their identifier.
func (f *Function) Nodes() []*Node {
	return f.nodes
}

// Node retrieves a location by its identifier.
func (f *Function) Node(l defs.Loc) (*Node, bool) {
	if int(l) < 0 || int(l) >= len(f.nodes) {
		return nil, false
	}
	return f.nodes[l], true
}

// Edges lists all edges, grouped by source location.
func (f *Function) Edges() []Edge {
	var edges []Edge
	for _, n := range f.nodes {
		edges = append(edges, n.out...)
	}
	return edges
}

// FileSet is the file set of the source the function was built from.
func (f *Function) FileSet() *token.FileSet {
	return f.fset
}

// Position renders a source position relative to the file set of the function.
func (f *Function) Position(pos token.Pos) string {
	if f.fset == nil || !pos.IsValid() {
		return "-"
	}
	return f.fset.Position(pos).String()
}

// String lists every location with its outgoing edges.
func (f *Function) String() string {
	var b strings.Builder
	b.WriteString("func " + f.Name + "\n")
	for _, n := range f.nodes {
		b.WriteString(n.String())
		switch n.kind {
		case Entry:
			b.WriteString(" (entry)")
		case Exit:
			b.WriteString(" (exit)")
		}
		b.WriteString(":\n")

		for _, e := range n.out {
			b.WriteString("\t" + e.String() + " → " + e.Successor().String() + "\n")
		}
	}
	return b.String()
}
