package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridnet/pkg/grid"
	"github.com/matzehuels/gridnet/pkg/topology"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds kind and network to node labels.
	Detailed bool
	// Title is drawn as the graph label when non-empty.
	Title string
}

// palette holds cluster fill colors, cycled by network position.
var palette = []string{
	"#dbeafe", "#dcfce7", "#fef9c3", "#fce7f3", "#ede9fe",
	"#ffedd5", "#cffafe", "#e0e7ff", "#f3e8ff", "#ecfccb",
}

// Color returns the fill color used for the i-th network of a snapshot.
func Color(i int) string { return palette[i%len(palette)] }

// ToDOT converts a graph and its partition to Graphviz DOT.
func ToDOT(g *topology.Graph, snap grid.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	placed := make(map[grid.NodeID]grid.NetworkID)
	for i, v := range snap.Networks {
		fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+v.ID.String())
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("%s (%s)", v.ID, v.Kind))
		fmt.Fprintf(&buf, "    style=\"rounded,filled\";\n    fillcolor=%q;\n    color=\"#94a3b8\";\n", Color(i))
		for _, id := range v.Members {
			placed[id] = v.ID
			n, ok := g.Node(id)
			if !ok {
				n = topology.Node{ID: id, Kind: v.Kind, Label: string(id)}
			}
			fmt.Fprintf(&buf, "    %q [label=%q];\n", id, fmtLabel(n, v.ID, opts.Detailed))
		}
		buf.WriteString("  }\n")
	}

	for _, n := range g.Nodes() {
		if _, ok := placed[n.ID]; ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\", color=grey, fontcolor=grey];\n",
			n.ID, fmtLabel(n, 0, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if !e.Enabled {
			attrs = append(attrs, "style=dotted")
		}
		if a, b := kindOf(g, e.A), kindOf(g, e.B); a != b {
			attrs = append(attrs, "color=grey")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.A, e.B)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.A, e.B, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func kindOf(g *topology.Graph, id grid.NodeID) grid.Kind {
	k, _ := g.Kind(id)
	return k
}

func fmtLabel(n topology.Node, net grid.NetworkID, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\nkind: %s\nnetwork: %s", n.Label, n.Kind, net)
}

// RenderSVG renders DOT source to SVG using Graphviz.
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from its
// viewBox instead of Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
