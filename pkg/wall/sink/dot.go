package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brickwall/pkg/wall"
)

// ToDOT converts a result to a Graphviz DOT diagram with one cluster per
// row. Nodes are labelled with the item ID (or index) and slot width, and
// each row's cluster label carries its Missing delta.
func ToDOT(res wall.Result) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Wall {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("\n")

	for _, row := range res.Rows {
		if row.Len() == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_row%d {\n", row.Index)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("row %d (missing %.1f)", row.Index, row.Missing))
		if row.Oversized(res.ContainerWidth) {
			buf.WriteString("    style=dashed;\n")
		}
		for _, idx := range row.Items {
			p := res.Placements[idx]
			fmt.Fprintf(&buf, "    %q [label=%q];\n", nodeID(idx), nodeLabel(p))
		}
		for k := 1; k < len(row.Items); k++ {
			fmt.Fprintf(&buf, "    %q -> %q [style=invis];\n", nodeID(row.Items[k-1]), nodeID(row.Items[k]))
		}
		buf.WriteString("  }\n")
	}

	// Chain row heads so rows stack top to bottom.
	var prev string
	for _, row := range res.Rows {
		if row.Len() == 0 {
			continue
		}
		head := nodeID(row.Items[0])
		if prev != "" {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", prev, head)
		}
		prev = head
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(idx int) string { return fmt.Sprintf("item%d", idx) }

func nodeLabel(p wall.Placement) string {
	name := p.ID
	if name == "" {
		name = fmt.Sprintf("#%d", p.Index)
	}
	return fmt.Sprintf("%s\n%.0fpx x%.3f", name, p.SlotWidth, p.Ratio)
}

// RenderDOTSVG renders a DOT diagram to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
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
