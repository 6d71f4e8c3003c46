package absint

import (
	"context"

	"github.com/cs-au-dk/mint/analysis/cfa"
	L "github.com/cs-au-dk/mint/analysis/lattice"
	"github.com/cs-au-dk/mint/utils/pq"

	"github.com/pkg/errors"
)

// workItem is a reached state waiting to be propagated. Items are
// processed in reverse postorder of their location, then in insertion order.
type workItem struct {
	node  *cfa.Node
	state *L.State
	seq   int
}

type analysis struct {
	rel      *Relation
	reached  map[*cfa.Node][]*L.State
	worklist pq.PriorityQueue[*workItem]
	added    int
	metrics  Metrics
}

// Analyze computes the reachable states of the function by fixed-point
// iteration. The context is checked between iterations.
func Analyze(ctx context.Context, rel *Relation) (*Result, error) {
	a := &analysis{
		rel:     rel,
		reached: make(map[*cfa.Node][]*L.State),
		worklist: pq.Empty(func(a, b *workItem) bool {
			if a.node.Loc() != b.node.Loc() {
				return a.node.Loc() < b.node.Loc()
			}
			return a.seq < b.seq
		}),
	}

	entry := rel.fn.Entry
	s0 := rel.InitialState()
	a.reached[entry] = []*L.State{s0}
	a.enqueue(entry, s0)

	for !a.worklist.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "%s: interrupted after %d steps", rel.fn.Name, a.metrics.Steps)
		}

		item := a.worklist.GetNext()
		if !a.isReached(item.node, item.state) {
			// Superseded by a join since it was enqueued.
			continue
		}
		a.metrics.Steps++

		for _, e := range item.node.Out() {
			succs, err := rel.Successors(item.state, e)
			if err != nil {
				return nil, errors.WithMessage(err, rel.fn.Name)
			}
			if len(succs) == 0 {
				a.metrics.Infeasible++
			}
			for _, s := range succs {
				a.merge(e.Successor(), rel.Strengthen(s, e))
			}
		}
	}

	log.Infof("%s: fixed point after %d steps (%d merges, %d stops, %d infeasible edges)",
		rel.fn.Name, a.metrics.Steps, a.metrics.Merges, a.metrics.Stops, a.metrics.Infeasible)

	return &Result{
		rel:     rel,
		reached: a.reached,
		Metrics: a.metrics,
	}, nil
}

func (a *analysis) enqueue(n *cfa.Node, s *L.State) {
	a.added++
	a.worklist.Add(&workItem{node: n, state: s, seq: a.added})
}

func (a *analysis) isReached(n *cfa.Node, s *L.State) bool {
	for _, r := range a.reached[n] {
		if r == s {
			return true
		}
	}
	return false
}

// merge joins a new state into every state reached at the location, then
// adds it unless it is covered by one of them.
func (a *analysis) merge(n *cfa.Node, s *L.State) {
	reached := a.reached[n]
	for i, r := range reached {
		if m := a.rel.Join(s, r); !m.Equal(r) {
			reached[i] = m
			a.metrics.Merges++
			a.enqueue(n, m)
		}
	}

	for _, r := range reached {
		if a.rel.IsLessOrEqual(s, r) {
			a.metrics.Stops++
			return
		}
	}

	a.reached[n] = append(reached, s)
	a.enqueue(n, s)
}
