package dot

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/goccy/go-graphviz"
	"github.com/pkg/errors"
)

// DotToImage renders a dot graph to outfname.format, or to a file in the
// temporary directory if outfname is empty, and returns the path written.
// The dot format writes the graph as is. Rendering falls back to the dot
// program when the bundled Graphviz fails.
func DotToImage(outfname string, format string, dot []byte) (string, error) {
	if outfname == "" {
		outfname = filepath.Join(os.TempDir(), "mint_export")
	}
	img := fmt.Sprintf("%s.%s", outfname, format)

	if format == "dot" {
		return img, os.WriteFile(img, dot, 0644)
	}

	g := graphviz.New()
	defer g.Close()

	graph, err := graphviz.ParseBytes(dot)
	if err != nil {
		return "", errors.Wrap(err, "parsing dot graph")
	}
	defer graph.Close()

	if err := g.RenderFilename(graph, graphviz.Format(format), img); err != nil {
		return img, renderWithExe(img, format, dot)
	}
	return img, nil
}

func renderWithExe(img string, format string, dot []byte) error {
	exe, err := exec.LookPath("dot")
	if err != nil {
		return errors.Wrap(err, "unable to find program 'dot', please install it or check your PATH")
	}

	cmd := exec.Command(exe, "-T"+format, "-o", img)
	cmd.Stdin = bytes.NewReader(dot)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Errorf("command '%v': %v\n%v", cmd, err, stderr.String())
	}
	return nil
}
