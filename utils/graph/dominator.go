package graph

import "fmt"

// Dominators answers dominance queries for the nodes reachable from a root.
// Nodes are identified by their postorder index; idom holds the index of
// the immediate dominator, and the root is its own.
type Dominators[T comparable] struct {
	index map[T]int
	order []T
	idom  []int
}

// Dominators computes the dominator tree of the nodes reachable from root,
// with the iterative algorithm of Cooper, Harvey and Kennedy.
func (G Graph[T]) Dominators(root T) Dominators[T] {
	order := G.postorder(root)
	D := Dominators[T]{
		index: make(map[T]int, len(order)),
		order: order,
		idom:  make([]int, len(order)),
	}
	for i, node := range order {
		D.index[node] = i
		D.idom[i] = -1
	}

	preds := make([][]int, len(order))
	for i, node := range order {
		for _, succ := range G.Edges(node) {
			j := D.index[succ]
			preds[j] = append(preds[j], i)
		}
	}

	rootIdx := len(order) - 1
	D.idom[rootIdx] = rootIdx

	for changed := true; changed; {
		changed = false
		for i := rootIdx - 1; i >= 0; i-- {
			idom := -1
			for _, p := range preds[i] {
				switch {
				case D.idom[p] == -1:
				case idom == -1:
					idom = p
				default:
					idom = D.intersect(p, idom)
				}
			}
			if idom != D.idom[i] {
				D.idom[i] = idom
				changed = true
			}
		}
	}
	return D
}

func (D Dominators[T]) indexOf(node T) int {
	i, found := D.index[node]
	if !found {
		panic(fmt.Errorf("%v was not reachable when computing the dominator tree", node))
	}
	return i
}

// intersect walks up the tree to the nearest common dominator.
func (D Dominators[T]) intersect(a, b int) int {
	for a != b {
		for a < b {
			a = D.idom[a]
		}
		for b < a {
			b = D.idom[b]
		}
	}
	return a
}

// Common computes the nearest common dominator of the given nodes.
func (D Dominators[T]) Common(nodes ...T) T {
	if len(nodes) == 0 {
		panic("no nodes to find a common dominator of")
	}

	dom := D.indexOf(nodes[0])
	for _, node := range nodes[1:] {
		dom = D.intersect(D.indexOf(node), dom)
	}
	return D.order[dom]
}

// Dominates holds if every path from the root to b passes through a.
// Every node dominates itself.
func (D Dominators[T]) Dominates(a, b T) bool {
	i := D.indexOf(a)
	return D.intersect(i, D.indexOf(b)) == i
}

// Idom retrieves the immediate dominator of a node. The root has none.
func (D Dominators[T]) Idom(node T) (T, bool) {
	i := D.indexOf(node)
	if D.idom[i] == i {
		var zero T
		return zero, false
	}
	return D.order[D.idom[i]], true
}
