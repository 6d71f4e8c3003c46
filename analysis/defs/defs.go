package defs

import (
	"fmt"
	"go/token"

	u "github.com/cs-au-dk/mint/utils"

	"github.com/benbjohnson/immutable"
	c "github.com/fatih/color"
)

var colorize = struct {
	Var func(...interface{}) string
	Loc func(...interface{}) string
}{
	Var: func(is ...interface{}) string {
		return u.CanColorize(c.New(c.FgHiGreen).SprintFunc())(is...)
	},
	Loc: func(is ...interface{}) string {
		return u.CanColorize(c.New(c.FgHiCyan).SprintFunc())(is...)
	},
}

// Var identifies a program variable. The declaring position keeps shadowed
// variables with the same name apart.
type Var struct {
	Name string
	Pos  token.Pos
}

// MakeVar creates a variable identifier.
func MakeVar(name string, pos token.Pos) Var {
	return Var{Name: name, Pos: pos}
}

func (v Var) String() string {
	return colorize.Var(v.Name)
}

// Compare orders variables by name, then by declaring position.
func (v Var) Compare(o Var) int {
	switch {
	case v.Name < o.Name:
		return -1
	case v.Name > o.Name:
		return 1
	case v.Pos < o.Pos:
		return -1
	case v.Pos > o.Pos:
		return 1
	}
	return 0
}

// Equal holds for the same declaration.
func (v Var) Equal(o Var) bool {
	return v == o
}

// Hash combines the name and the declaring position.
func (v Var) Hash() uint32 {
	return u.HashCombine(
		immutable.NewHasher(v.Name).Hash(v.Name),
		uint32(v.Pos),
	)
}

// Loc identifies a location of a control-flow automaton.
type Loc int

func (l Loc) String() string {
	return colorize.Loc(fmt.Sprintf("L%d", int(l)))
}

// LocComparer orders locations for persistent sorted maps.
type LocComparer struct{}

func (LocComparer) Compare(a, b Loc) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
