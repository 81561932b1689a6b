// Package nodelink draws the neighbor graph of a diagram with Graphviz.
//
// Every cell becomes a node filled with the cell's color and every pair of
// adjacent cells becomes an undirected edge. The graph shows at a glance
// which cells a click will blend.
//
//	dot := nodelink.ToDOT(state, p, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [ToDOT] output is plain DOT source and can also be fed to external
// Graphviz tools. [RenderSVG] lays it out in-process with
// [github.com/goccy/go-graphviz].
package nodelink
