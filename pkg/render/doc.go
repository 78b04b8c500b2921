// Package render turns a partitioned grid into pictures.
//
// The [nodelink] subpackage draws the host graph as a Graphviz diagram with
// one cluster per network, so splits and merges are visible at a glance.
//
//	dot := nodelink.ToDOT(g, m.Snapshot(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/gridnet/pkg/render/nodelink
package render
