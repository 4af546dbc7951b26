package surface

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seqtracks/pkg/container"
)

// ToDOT converts the element tree of m to Graphviz DOT. Groups are drawn as
// folders, tracks as boxes labeled with their row count. Hidden elements are
// dashed.
func ToDOT(m *Memory, title string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tracks {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	if title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", title)
	}
	buf.WriteString("\n")

	var edges []string
	m.Walk(func(n *Node, _ int) {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(dotAttrs(n), ", "))
		if n.Parent != "" {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.Parent, n.ID))
		}
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n *Node) []string {
	label := n.Label
	if n.Kind != container.KindGroup {
		label = fmt.Sprintf("%s\n%s, %d rows", n.Label, n.Kind, len(n.Data))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	style := "rounded,filled"
	switch n.Kind {
	case container.KindGroup:
		attrs = append(attrs, "shape=folder", "fillcolor=lightgrey")
		style = "filled"
	case container.KindMain:
		attrs = append(attrs, "fillcolor=lightblue")
	}
	if !n.Visible {
		style += ",dashed"
	}
	return append(attrs, fmt.Sprintf("style=%q", style))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
