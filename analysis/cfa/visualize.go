package cfa

import (
	"fmt"
	"strings"

	"github.com/cs-au-dk/mint/utils/dot"
	"github.com/cs-au-dk/mint/utils/graph"
)

// Annotator provides extra label lines for a location.
type Annotator func(*Node) []string

// ToDot creates a Dot graph of the automaton. Locations are grouped by their
// innermost loop when loop information is provided.
func (f *Function) ToDot(loops *LoopStructure, annotate Annotator) *dot.DotGraph {
	G := graph.Of(func(n *Node) []*Node {
		return n.Successors()
	})

	config := &graph.VisualizationConfig[*Node]{
		NodeAttrs: func(n *Node) (string, dot.DotAttrs) {
			label := []string{fmt.Sprintf("L%d", n.id)}
			attrs := dot.DotAttrs{"shape": "box"}
			switch n.kind {
			case Entry:
				label[0] += " (entry)"
				attrs["fillcolor"] = "lightblue"
			case Exit:
				label[0] += " (exit)"
				attrs["fillcolor"] = "lightblue"
			}
			if loops != nil && loops.IsLoopHead(n) {
				attrs["fillcolor"] = "gold"
			}
			if annotate != nil {
				label = append(label, annotate(n)...)
			}
			attrs["label"] = strings.Join(label, "\n")
			return fmt.Sprintf("L%d", n.id), attrs
		},
		EdgeAttrs: func(n *Node, i int) dot.DotAttrs {
			e := n.out[i]
			attrs := dot.DotAttrs{"label": e.String()}
			switch e := e.(type) {
			case *AssumeEdge:
				if e.Truth {
					attrs["color"] = "darkgreen"
				} else {
					attrs["color"] = "red"
				}
			case *FunctionCallEdge, *FunctionReturnEdge:
				attrs["style"] = "dashed"
			}
			if loops != nil && loops.IsLoopExitEdge(e) {
				attrs["penwidth"] = "2"
			}
			return attrs
		},
	}

	if loops != nil {
		config.ClusterKey = func(n *Node) any {
			if ls := loops.LoopsContaining(n); len(ls) > 0 {
				return ls[len(ls)-1]
			}
			return nil
		}
		config.ClusterAttrs = func(key any) (string, dot.DotAttrs) {
			l := key.(*Loop)
			return fmt.Sprintf("loop_L%d", l.Head.id), dot.DotAttrs{
				"label": l.String(),
				"style": "dashed",
			}
		}
	}

	dg := G.ToDotGraph(f.nodes, config)
	dg.Title = f.Name
	return dg
}
