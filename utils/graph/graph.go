// Package graph implements the graph algorithms the analysis needs on
// control-flow automata: traversals, dominators, strongly connected
// components and rendering. A graph is given by its edge relation.
package graph

// Graph is a directed graph over comparable nodes.
type Graph[T comparable] struct {
	edgesOf func(node T) []T
	cache   map[T][]T
}

// Of creates the graph of an edge relation.
func Of[T comparable](edgesOf func(node T) []T) Graph[T] {
	return Graph[T]{edgesOf: edgesOf, cache: make(map[T][]T)}
}

// Edges lists the successors of a node. The result is cached, so the edge
// relation must not change during the lifetime of the graph.
func (G Graph[T]) Edges(node T) []T {
	if es, found := G.cache[node]; found {
		return es
	}

	es := G.edgesOf(node)
	G.cache[node] = es
	return es
}
