package dot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *DotGraph {
	a := &DotNode{ID: "L0", Attrs: DotAttrs{"shape": "box", "label": "L0\nx ∈ [0, 1]"}}
	b := &DotNode{ID: "L1"}
	cl := NewDotCluster("loop_L1")
	cl.Nodes = append(cl.Nodes, b)
	cl.Attrs["style"] = "dashed"

	return &DotGraph{
		Title:    "f",
		Clusters: []*DotCluster{cl},
		Nodes:    []*DotNode{a},
		Edges: []*DotEdge{{
			From: a, To: b, Attrs: DotAttrs{"label": "[x < 1]", "color": "darkgreen"},
		}},
		Options: map[string]string{"minlen": "2", "nodesep": "0.35"},
	}
}

func TestAttrsOrdered(t *testing.T) {
	attrs := DotAttrs{"shape": "box", "color": "red", "label": "x"}
	assert.Equal(t, `color="red"; label="x"; shape="box";`, attrs.String())
}

func TestWriteDot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample().WriteDot(&buf))

	out := buf.String()
	assert.Contains(t, out, "digraph CFA {")
	assert.Contains(t, out, `label="f";`)
	assert.Contains(t, out, `subgraph "cluster_loop_L1" {`)
	assert.Contains(t, out, `"L0" [ label="L0\nx ∈ [0, 1]"; shape="box"; ]`)
	assert.Contains(t, out, `"L0" -> "L1" [ color="darkgreen"; label="[x < 1]"; ]`)
}

func TestDotToImageDot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample().WriteDot(&buf))

	out := filepath.Join(t.TempDir(), "f")
	img, err := DotToImage(out, "dot", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, out+".dot", img)

	written, err := os.ReadFile(img)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), written)
}
