package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/syntree/syntree/pkg/errors"
	"github.com/syntree/syntree/pkg/tree"
)

// DOTOptions configures the Graphviz node-link view.
type DOTOptions struct {
	// Detailed includes node IDs and leaf counts in labels. When false,
	// only the label text is shown.
	Detailed bool
}

// ToDOT converts a tree to Graphviz DOT format, an alternative
// structural view that delegates layout to Graphviz instead of the
// constituent layout engine. Useful for eyeballing tree shape without
// typography concerns.
func ToDOT(root *tree.Node, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=none, fontsize=14, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	ids := map[*tree.Node]string{}
	i := 0
	root.Walk(func(n *tree.Node, _ []int) bool {
		ids[n] = fmt.Sprintf("n%d", i)
		i++
		fmt.Fprintf(&buf, "  %s [label=%q];\n", ids[n], dotLabel(n, opts.Detailed))
		return !n.Collapsed()
	})

	buf.WriteString("\n")
	root.Walk(func(n *tree.Node, _ []int) bool {
		if n.Collapsed() {
			return false
		}
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %s -> %s;\n", ids[n], ids[c])
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *tree.Node, detailed bool) string {
	label := n.Label.String()
	if n.Collapsed() {
		label += "\n" + n.Yield()
	}
	if !detailed {
		return label
	}
	parts := []string{label}
	if n.ID != "" {
		parts = append(parts, "id: "+n.ID)
	}
	if !n.IsLeaf() {
		parts = append(parts, fmt.Sprintf("leaves: %s", countLeaves(n)))
	}
	return strings.Join(parts, "\n")
}

func countLeaves(n *tree.Node) string {
	count := 0
	n.Walk(func(m *tree.Node, _ []int) bool {
		if m.IsLeaf() {
			count++
		}
		return true
	})
	return fmt.Sprintf("%d", count)
}

// GraphvizSVG renders a DOT document to SVG using Graphviz.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer func() { _ = g.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return buf.Bytes(), nil
}
