// Package pkg provides the core libraries for playbookforge.
//
// # Overview
//
// Playbookforge turns operational runbooks into flowchart graphs. A runbook
// written as structured markdown (headers, lists, code blocks) or as a
// Mermaid flowchart is converted into one node/edge representation that can
// be stored, exported back to text, or rendered with Graphviz.
//
// # Architecture
//
// The typical data flow:
//
//	markdown / mermaid text
//	         ↓
//	    [convert] package (detect format, run converter)
//	         ↓
//	    [graph] package (nodes, edges, ordered metadata)
//	         ↓
//	    [export] package (json, mermaid, markdown, dot, svg, png)
//
// [pipeline] ties these together with size limits and caching, and is
// shared by the CLI and the HTTP API.
//
// # Quick Start
//
//	g, _, err := convert.Convert(text, convert.FormatAuto)
//	if err != nil {
//	    return err
//	}
//	svg, err := export.Export(ctx, g, export.FormatSVG, export.Options{Direction: "LR"})
//
// # Main Packages
//
// [graph] - The graph IR: [graph.Graph], [graph.Node], [graph.Edge] and
// the id-assigning [graph.Builder].
//
// [convert] - Format detection and the markdown and mermaid converters.
//
// [export] - Text exporters and the Graphviz-backed image formats via
// [render/nodelink].
//
// [pipeline] - Validation, limits, the cached [pipeline.Runner].
//
// [cache] - File, redis and null cache backends with content-addressed keys.
//
// [store] - Playbook persistence in memory or MongoDB.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for conversion, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the API.
//
// [graph]: github.com/matzehuels/playbookforge/pkg/graph
// [convert]: github.com/matzehuels/playbookforge/pkg/convert
// [export]: github.com/matzehuels/playbookforge/pkg/export
// [render/nodelink]: github.com/matzehuels/playbookforge/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/playbookforge/pkg/pipeline
// [cache]: github.com/matzehuels/playbookforge/pkg/cache
// [store]: github.com/matzehuels/playbookforge/pkg/store
// [config]: github.com/matzehuels/playbookforge/pkg/config
// [observability]: github.com/matzehuels/playbookforge/pkg/observability
// [errors]: github.com/matzehuels/playbookforge/pkg/errors
package pkg
