package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/object"
)

// Options configures tree rendering.
type Options struct {
	// Detailed includes geometry and effects in node labels.
	// When false, only the object key is shown.
	Detailed bool
}

// ToDOT converts the subtree of root to Graphviz DOT format. A figure
// container is drawn as a point so its roots appear side by side.
func ToDOT(root *object.Object, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	root.Walk(func(o *object.Object) bool {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(o), strings.Join(fmtAttrs(o, opts.Detailed), ", "))
		for _, c := range o.Children() {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", nodeID(o), nodeID(c)))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(o *object.Object) string {
	return fmt.Sprintf("n%d", o.ID())
}

func fmtLabel(o *object.Object, detailed bool) string {
	if !detailed {
		return o.Key()
	}
	s, b := o.Size(), o.AbsBegin()
	parts := []string{fmt.Sprintf("%gx%g+%g+%g", s.X(), s.Y(), b.X(), b.Y())}
	for _, e := range o.Effects() {
		parts = append(parts, e.String())
	}
	return o.Key() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(o *object.Object, detailed bool) []string {
	if o.IsContainer() {
		return []string{"shape=point", "width=0.1"}
	}
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(o, detailed))}
	if o.IsRoot() {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if o.Size().X() == 0 || o.Size().Y() == 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "render")
	}
	return buf.Bytes(), nil
}
