// Package mermaid converts mermaid-style flowcharts into a [graph.Graph].
//
// # Supported Syntax
//
// Everything before the first "flowchart" or "graph" declaration is ignored.
// After it, each line is one of:
//
//   - a comment ("%% ...") or blank line, ignored
//   - "subgraph Label", which opens a group and emits a phase node
//   - "end", which closes the innermost group
//   - an edge statement such as "A[Start] --> B{Ready?}"
//   - a standalone node definition such as "C((Deploy))"
//
// # Shapes
//
// Node shapes are matched in a fixed order so that nested bracket forms win
// over their single-bracket prefixes:
//
//	A[[text]]  step
//	A((text))  phase
//	A[text]    step
//	A{text}    decision
//	A(text)    step
//	A>text]    step
//
// A bare identifier is a reference; if it is never given a shape the node is
// a step labeled with the identifier.
//
// # Edges
//
// Arrow forms are also tried in a fixed order: labeled solid ("-- text -->"),
// labeled dotted ("-. text .->"), labeled bold ("== text ==>"), then the
// unlabeled "-->", "-.->", "==>" and multi-dash arrows. Only the label is
// kept on the resulting edge; the arrow style is not represented.
//
// Chained statements like "A --> B --> C" are resolved only partially: the
// line is split on the first arrow form that matches and only the segment
// after the first split is turned into targets. See the package tests for
// the exact edges produced.
//
// # Identifiers
//
// Each literal identifier maps to exactly one node, created on first
// sighting and tagged with its mermaid_id and the enclosing subgraph id
// (or null). Later references reuse that node.
//
// [graph.Graph]: github.com/matzehuels/playbookforge/pkg/graph.Graph
package mermaid
