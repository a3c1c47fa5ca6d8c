// Package export turns a playbook graph back into text and image formats.
//
// # Formats
//
//   - json: the graph itself, as written by [graph.WriteGraph]
//   - mermaid: a "flowchart TD" diagram ([Mermaid])
//   - markdown: a phase outline ([Markdown])
//   - dot: Graphviz source ([nodelink.ToDOT])
//   - svg, png: Graphviz renderings
//
// Text exports are lossy. The markdown export lists each phase with its
// direct successors only, and neither text form carries code blocks.
//
// # Usage
//
//	f, err := export.Validate("svg")
//	data, err := export.Export(ctx, g, f, export.Options{})
//
// [nodelink.ToDOT]: github.com/matzehuels/playbookforge/pkg/render/nodelink.ToDOT
package export
