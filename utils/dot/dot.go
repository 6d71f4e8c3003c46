// Package dot models Graphviz graphs and renders them.
package dot

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
)

// Missing options render as their zero value.
var graphTemplate = template.Must(template.New("graph").Option("missingkey=zero").Parse(`
{{- define "node"}}{{printf "%q [ %s ]" .ID .Attrs}}{{end}}

{{- define "edge"}}{{printf "%q -> %q [ %s ]" .From .To .Attrs}}{{end}}

{{- define "cluster"}}subgraph {{printf "%q" .}} {
		{{.Attrs.Lines}}
		{{- range .Nodes}}
		{{template "node" .}}
		{{- end}}
		{{- range .Clusters}}
		{{template "cluster" .}}
		{{- end}}
	}
{{- end -}}

digraph CFA {
	label="{{.Title}}";
	labeljust="l";
	labelloc="t";
	fontname="Helvetica";
	fontsize="14";
	rankdir="{{or .Options.rankdir "TB"}}";
	nodesep="{{or .Options.nodesep "0.35"}}";
	pad="0.1";
	{{- with .Attrs}}
	{{.Lines}}
	{{- end}}

	node [shape="box" style="filled,rounded" fillcolor="white" fontname="Menlo" fontsize="11" margin="0.1,0.05"];
	edge [fontname="Menlo" fontsize="10" minlen="{{or .Options.minlen "1"}}"];
	{{- range .Clusters}}
	{{template "cluster" .}}
	{{- end}}
	{{- range .Nodes}}
	{{template "node" .}}
	{{- end}}
	{{- range .Edges}}
	{{template "edge" .}}
	{{- end}}
}
`))

// DotGraph is a directed graph with nodes grouped in nested clusters.
// Options tunes the layout: rankdir, nodesep and minlen.
type DotGraph struct {
	Title    string
	Attrs    DotAttrs
	Clusters []*DotCluster
	Nodes    []*DotNode
	Edges    []*DotEdge
	Options  map[string]string
}

// WriteDot writes the graph in the dot language.
func (g *DotGraph) WriteDot(w io.Writer) error {
	return graphTemplate.Execute(w, g)
}

type DotCluster struct {
	ID       string
	Clusters []*DotCluster
	Nodes    []*DotNode
	Attrs    DotAttrs
}

func NewDotCluster(id string) *DotCluster {
	return &DotCluster{ID: id, Attrs: make(DotAttrs)}
}

// String is the dot identifier of the cluster. Graphviz only draws
// subgraphs whose name starts with cluster.
func (c *DotCluster) String() string {
	return "cluster_" + c.ID
}

type DotNode struct {
	ID    string
	Attrs DotAttrs
}

func (n *DotNode) String() string {
	return n.ID
}

type DotEdge struct {
	From  *DotNode
	To    *DotNode
	Attrs DotAttrs
}

// DotAttrs are the attributes of a graph element.
type DotAttrs map[string]string

// List renders the attributes in key order.
func (p DotAttrs) List() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l := make([]string, 0, len(p))
	for _, k := range keys {
		l = append(l, fmt.Sprintf("%s=%q;", k, p[k]))
	}
	return l
}

func (p DotAttrs) String() string {
	return strings.Join(p.List(), " ")
}

func (p DotAttrs) Lines() string {
	return strings.Join(p.List(), "\n\t\t")
}
