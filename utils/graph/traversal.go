package graph

import W "github.com/cs-au-dk/mint/utils/worklist"

// BFSV visits the nodes reachable from starts breadth-first, and stops as
// soon as visit returns true. It reports whether it stopped early.
func (G Graph[T]) BFSV(visit func(node T) (stop bool), starts ...T) bool {
	seen := make(map[T]bool, len(starts))
	for _, start := range starts {
		seen[start] = true
	}

	stopped := false
	W.StartV(starts, func(node T, add func(T)) {
		if stopped {
			return
		}
		if stopped = visit(node); stopped {
			return
		}

		for _, next := range G.Edges(node) {
			if !seen[next] {
				seen[next] = true
				add(next)
			}
		}
	})
	return stopped
}

// BFS is BFSV from a single node.
func (G Graph[T]) BFS(start T, visit func(node T) (stop bool)) bool {
	return G.BFSV(visit, start)
}

// postorder lists the nodes reachable from root in depth-first postorder.
// Successors are explored in the order of Edges.
func (G Graph[T]) postorder(root T) []T {
	seen := map[T]bool{}
	var post []T

	var dfs func(T)
	dfs = func(node T) {
		seen[node] = true
		for _, next := range G.Edges(node) {
			if !seen[next] {
				dfs(next)
			}
		}
		post = append(post, node)
	}
	dfs(root)
	return post
}

// ReversePostorder lists the nodes reachable from root in reverse
// depth-first postorder. The result is deterministic.
func (G Graph[T]) ReversePostorder(root T) []T {
	post := G.postorder(root)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
