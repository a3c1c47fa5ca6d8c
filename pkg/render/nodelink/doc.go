// Package nodelink renders playbook graphs as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [graph.Graph] into DOT source where each node type gets
// its own shape: phases are bold boxes, steps rounded boxes, decisions
// diamonds, merge points small circles and execute nodes double octagons
// holding the code block language. Edge labels ("yes", "no", ...) are kept.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Direction: Graphviz rankdir ("TB" by default, or "LR", "BT", "RL")
//   - Detailed: append node metadata below each label
//
// # Dependencies
//
// Rendering runs in-process through [github.com/goccy/go-graphviz], so no
// Graphviz installation is required.
package nodelink
