package absint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cs-au-dk/mint/analysis/cfa"
	"github.com/cs-au-dk/mint/analysis/defs"
	L "github.com/cs-au-dk/mint/analysis/lattice"
	"github.com/cs-au-dk/mint/utils/dot"
)

// Metrics counts the work done by the fixed-point iteration.
type Metrics struct {
	// Steps is the number of processed work items.
	Steps int
	// Merges is the number of reached states replaced by a join.
	Merges int
	// Stops is the number of new states covered by a reached state.
	Stops int
	// Infeasible is the number of edges without a successor.
	Infeasible int
}

func (m Metrics) String() string {
	return fmt.Sprintf("steps: %d, merges: %d, stops: %d, infeasible: %d",
		m.Steps, m.Merges, m.Stops, m.Infeasible)
}

// Result holds the states reached at every location of a function.
type Result struct {
	rel     *Relation
	reached map[*cfa.Node][]*L.State
	Metrics Metrics
}

func (r *Result) Function() *cfa.Function {
	return r.rel.fn
}

// At lists the states reached at a location.
func (r *Result) At(l defs.Loc) []*L.State {
	n, found := r.rel.fn.Node(l)
	if !found {
		return nil
	}
	return r.reached[n]
}

// Exit lists the states reached at the function exit. They are not joined.
func (r *Result) Exit() []*L.State {
	return r.reached[r.rel.fn.Exit]
}

// Ranges unions the values of every variable over the states reached at a
// location. Variables are listed in order.
func (r *Result) Ranges(n *cfa.Node) ([]defs.Var, map[defs.Var]L.MultiInterval) {
	ranges := make(map[defs.Var]L.MultiInterval)
	var vars []defs.Var
	for _, s := range r.reached[n] {
		s.ForEach(func(v defs.Var, m L.MultiInterval) {
			if prev, found := ranges[v]; found {
				ranges[v] = prev.Union(m)
				return
			}
			vars = append(vars, v)
			ranges[v] = m
		})
	}

	sort.Slice(vars, func(i, j int) bool {
		return vars[i].Compare(vars[j]) < 0
	})
	return vars, ranges
}

// describe renders the joined ranges of a location as x ∈ [0, 3] lines.
func (r *Result) describe(n *cfa.Node) []string {
	vars, ranges := r.Ranges(n)
	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, fmt.Sprintf("%s ∈ %s", v, ranges[v]))
	}
	return lines
}

// ExitString describes the joined ranges at the function exit.
func (r *Result) ExitString() string {
	lines := r.describe(r.rel.fn.Exit)
	if len(r.Exit()) == 0 {
		lines = []string{"unreachable"}
	}

	var sb strings.Builder
	sb.WriteString("func " + r.rel.fn.Name)
	for _, line := range lines {
		sb.WriteString("\n  " + line)
	}
	return sb.String()
}

// String dumps every reached state, by location.
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString("func " + r.rel.fn.Name)
	for _, n := range r.rel.fn.Nodes() {
		states := r.reached[n]
		if len(states) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:", n)
		for _, s := range states {
			sb.WriteString("\n  " + strings.ReplaceAll(s.String(), "\n", "\n  "))
		}
	}
	return sb.String()
}

// ToDot renders the automaton of the function, labeling every location with
// its reached ranges.
func (r *Result) ToDot() *dot.DotGraph {
	return r.rel.fn.ToDot(r.rel.loops, func(n *cfa.Node) []string {
		if len(r.reached[n]) == 0 {
			return []string{"unreachable"}
		}
		return r.describe(n)
	})
}
