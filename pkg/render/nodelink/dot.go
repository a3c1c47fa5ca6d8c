package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/playbookforge/pkg/graph"
)

// Directions accepted by [Options].
var Directions = []string{"TB", "LR", "BT", "RL"}

// Options configures node-link diagram rendering.
type Options struct {
	// Direction is the Graphviz rankdir. Empty means "TB".
	Direction string

	// Detailed includes node metadata in labels.
	// When false, only the node label is shown.
	Detailed bool
}

// ValidDirection reports whether d is an accepted rankdir.
func ValidDirection(d string) bool {
	for _, v := range Directions {
		if v == d {
			return true
		}
	}
	return false
}

// ToDOT converts a graph to Graphviz DOT format. The result can be rendered
// with [RenderSVG] or [RenderPNG].
func ToDOT(g graph.Graph, opts Options) string {
	dir := opts.Direction
	if !ValidDirection(dir) {
		dir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if n.Type == graph.TypeExecute {
		if lang := n.Metadata.String(graph.MetaLanguage); lang != "" {
			label = lang
		}
	}
	if !detailed || len(n.Metadata) == 0 {
		return label
	}

	parts := make([]string, 0, len(n.Metadata))
	for _, f := range n.Metadata {
		if f.Key == graph.MetaCode {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", f.Key, f.Value))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string) []string {
	if n.Type == graph.TypeMerge {
		return []string{`label=""`, "shape=circle", "style=filled", "fillcolor=lightgrey", "width=0.3", "fixedsize=true"}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Type {
	case graph.TypePhase:
		attrs = append(attrs, "style=\"filled,bold\"", "fillcolor=\"#e8eefc\"")
	case graph.TypeDecision:
		attrs = append(attrs, "shape=diamond", "style=filled", "fillcolor=\"#fff4d6\"")
	case graph.TypeExecute:
		attrs = append(attrs, "shape=doubleoctagon", "style=filled", "fillcolor=\"#e6f5e6\"", "fontname=\"Courier\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
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
