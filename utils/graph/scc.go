package graph

// SCCDecomposition is the condensation of a graph into strongly connected
// components. Nodes of component i only have edges into components j <= i.
type SCCDecomposition[T comparable] struct {
	Components [][]T
	Original   Graph[T]
	comp       map[T]int
}

// ComponentOf is the index of the component of a node, or -1 if the node
// was not reachable from the start nodes.
func (scc SCCDecomposition[T]) ComponentOf(node T) int {
	if c, found := scc.comp[node]; found {
		return c
	}
	return -1
}

// Cyclic lists the components containing a cycle: those with more than one
// node, and single nodes with an edge to themselves.
func (scc SCCDecomposition[T]) Cyclic() (res [][]T) {
	for i, comp := range scc.Components {
		if len(comp) > 1 {
			res = append(res, comp)
			continue
		}
		for _, e := range scc.Original.Edges(comp[0]) {
			if scc.ComponentOf(e) == i {
				res = append(res, comp)
				break
			}
		}
	}
	return
}

// SCC computes the strongly connected components of the subgraph reachable
// from the start nodes, with Tarjan's algorithm.
func (G Graph[T]) SCC(starts []T) SCCDecomposition[T] {
	scc := SCCDecomposition[T]{Original: G, comp: map[T]int{}}
	index, low := map[T]int{}, map[T]int{}
	var stack []T

	var visit func(T)
	visit = func(node T) {
		index[node] = len(index)
		low[node] = index[node]
		stack = append(stack, node)

		for _, next := range G.Edges(node) {
			if _, done := scc.comp[next]; done {
				continue
			}
			if _, seen := index[next]; !seen {
				visit(next)
			}
			low[node] = min(low[node], low[next])
		}

		if low[node] != index[node] {
			return
		}

		var comp []T
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			scc.comp[top] = len(scc.Components)
			comp = append(comp, top)
			if top == node {
				break
			}
		}
		scc.Components = append(scc.Components, comp)
	}

	for _, node := range starts {
		if _, seen := index[node]; !seen {
			visit(node)
		}
	}
	return scc
}
