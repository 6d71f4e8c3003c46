package cfa

import (
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/cs-au-dk/mint/analysis/defs"
	"github.com/cs-au-dk/mint/analysis/expr"
)

// Edge is a transition of a control-flow automaton. Every edge is one of
// AssumeEdge, DeclarationEdge, StatementEdge, BlankEdge, FunctionCallEdge,
// FunctionReturnEdge or ReturnStatementEdge.
type Edge interface {
	Predecessor() *Node
	Successor() *Node
	Pos() token.Pos
	String() string
	base() *BaseEdge
}

// BaseEdge holds the endpoints of an edge.
type BaseEdge struct {
	pred, succ *Node
	pos        token.Pos
}

func (e *BaseEdge) base() *BaseEdge {
	return e
}

func (e *BaseEdge) Predecessor() *Node {
	return e.pred
}

func (e *BaseEdge) Successor() *Node {
	return e.succ
}

func (e *BaseEdge) Pos() token.Pos {
	return e.pos
}

type (
	// AssumeEdge is taken when the condition evaluates to Truth.
	// The condition is always a comparison.
	AssumeEdge struct {
		BaseEdge
		Cond  expr.Binary
		Truth bool
	}

	// DeclarationEdge introduces a variable.
	DeclarationEdge struct {
		BaseEdge
		Var  defs.Var
		Type types.Type
	}

	// StatementEdge assigns the values of Rhs to the variables of Lhs in
	// parallel.
	StatementEdge struct {
		BaseEdge
		Lhs []defs.Var
		Rhs []expr.Expr
	}

	// BlankEdge does not change the program state. Text describes the
	// originating statement, if any.
	BlankEdge struct {
		BaseEdge
		Text string
	}

	// FunctionCallEdge is the call of a function whose result is discarded.
	FunctionCallEdge struct {
		BaseEdge
		Call expr.Call
	}

	// FunctionReturnEdge is the return from a call made by the preceding
	// FunctionCallEdge.
	FunctionReturnEdge struct {
		BaseEdge
		Call expr.Call
	}

	// ReturnStatementEdge leads to the exit location of the function.
	ReturnStatementEdge struct {
		BaseEdge
		Results []expr.Expr
	}
)

func (e *AssumeEdge) String() string {
	if e.Truth {
		return "[" + e.Cond.String() + "]"
	}
	return "[!(" + e.Cond.String() + ")]"
}

func (e *DeclarationEdge) String() string {
	return fmt.Sprintf("var %s %s", e.Var, e.Type)
}

func (e *StatementEdge) String() string {
	lhs := make([]string, 0, len(e.Lhs))
	for _, v := range e.Lhs {
		lhs = append(lhs, v.String())
	}
	rhs := make([]string, 0, len(e.Rhs))
	for _, x := range e.Rhs {
		rhs = append(rhs, x.String())
	}
	return strings.Join(lhs, ", ") + " = " + strings.Join(rhs, ", ")
}

func (e *BlankEdge) String() string {
	if e.Text == "" {
		return "skip"
	}
	return e.Text
}

func (e *FunctionCallEdge) String() string {
	return "call " + e.Call.String()
}

func (e *FunctionReturnEdge) String() string {
	return "return from " + e.Call.Fun
}

func (e *ReturnStatementEdge) String() string {
	if len(e.Results) == 0 {
		return "return"
	}
	res := make([]string, 0, len(e.Results))
	for _, x := range e.Results {
		res = append(res, x.String())
	}
	return "return " + strings.Join(res, ", ")
}

// connect links an edge between two locations.
func connect(e Edge, from, to *Node) {
	b := e.base()
	b.pred, b.succ = from, to
	from.out = append(from.out, e)
	to.in = append(to.in, e)
}
