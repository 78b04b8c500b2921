// Package nodelink renders a partitioned grid as a node-link diagram.
//
// # Overview
//
// [ToDOT] produces undirected Graphviz DOT source from a topology.Graph and a
// grid.Snapshot. Every network becomes a cluster labelled with its handle and
// kind and filled with a color of its own. Nodes outside every network (not
// active) are drawn dashed and grey. Edges whose switch is open are dotted,
// and edges joining nodes of different kinds are grey, since they never
// conduct.
//
//	dot := nodelink.ToDOT(g, m.Snapshot(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include kind and network
//   - Title: graph label drawn above the diagram
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
