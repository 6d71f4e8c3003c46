package graph

import (
	"fmt"

	"github.com/cs-au-dk/mint/utils"
	"github.com/cs-au-dk/mint/utils/dot"
)

var opts = utils.Opts()

// VisualizationConfig customizes the rendering of a graph. Every field is
// optional.
type VisualizationConfig[T any] struct {
	// NodeAttrs gives the ID and attributes of a node. The ID defaults to
	// the formatted node.
	NodeAttrs func(node T) (string, dot.DotAttrs)
	// EdgeAttrs gives the attributes of the i'th edge of a node, in the
	// order of Edges.
	EdgeAttrs func(node T, i int) dot.DotAttrs
	// ClusterKey groups nodes with the same key in a cluster. Keys must be
	// comparable. Nodes with a nil key are not clustered.
	ClusterKey func(node T) any
	// ClusterAttrs gives the ID and attributes of the cluster of a key.
	ClusterAttrs func(key any) (string, dot.DotAttrs)
}

// ToDotGraph renders the given nodes, and the edges between them.
func (G Graph[T]) ToDotGraph(nodes []T, cfg *VisualizationConfig[T]) *dot.DotGraph {
	if cfg == nil {
		cfg = &VisualizationConfig[T]{}
	}

	dg := &dot.DotGraph{
		Options: map[string]string{
			"minlen":  fmt.Sprint(opts.Minlen()),
			"nodesep": fmt.Sprint(opts.Nodesep()),
			"rankdir": "TB",
		},
	}

	clusters := map[any]*dot.DotCluster{}
	clusterOf := func(key any) *dot.DotCluster {
		if cl, found := clusters[key]; found {
			return cl
		}

		id, attrs := fmt.Sprint(key), dot.DotAttrs(nil)
		if cfg.ClusterAttrs != nil {
			id, attrs = cfg.ClusterAttrs(key)
		}
		cl := dot.NewDotCluster(id)
		if attrs != nil {
			cl.Attrs = attrs
		}
		dg.Clusters = append(dg.Clusters, cl)
		clusters[key] = cl
		return cl
	}

	dotNodes := make(map[T]*dot.DotNode, len(nodes))
	for _, node := range nodes {
		dn := &dot.DotNode{ID: fmt.Sprint(node)}
		if cfg.NodeAttrs != nil {
			dn.ID, dn.Attrs = cfg.NodeAttrs(node)
		}
		dotNodes[node] = dn

		var key any
		if cfg.ClusterKey != nil {
			key = cfg.ClusterKey(node)
		}
		if key == nil {
			dg.Nodes = append(dg.Nodes, dn)
			continue
		}
		cl := clusterOf(key)
		cl.Nodes = append(cl.Nodes, dn)
	}

	for _, node := range nodes {
		for i, succ := range G.Edges(node) {
			to, found := dotNodes[succ]
			if !found {
				continue
			}

			var attrs dot.DotAttrs
			if cfg.EdgeAttrs != nil {
				attrs = cfg.EdgeAttrs(node, i)
			}
			dg.Edges = append(dg.Edges, &dot.DotEdge{From: dotNodes[node], To: to, Attrs: attrs})
		}
	}
	return dg
}
