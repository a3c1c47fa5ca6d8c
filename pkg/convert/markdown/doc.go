// Package markdown converts outline-style playbooks into a [graph.Graph].
//
// # Overview
//
// The converter makes a single forward pass over the lines of a document.
// Each recognised line creates one node, and every new node is connected
// from the node created before it, so the output reads top to bottom in
// document order.
//
// # Line Rules
//
// Rules are tried in order; the first match wins and blank lines are skipped:
//
//   - "# Title", "## Section": a phase node with level and header_type
//   - "1. Do something": a step node (step_type "sequential")
//   - "- item" or "* item": a step node (step_type "bullet"), or a decision
//     when the text contains a decision keyword
//   - a code fence: an execute node carrying the code and its language
//
// Any other line is ignored.
//
// # Decisions
//
// A bullet containing "if ", "when ", "else", "otherwise", "or if" or "elif"
// becomes a decision node. The indented bullets directly below it (two or
// four spaces) are its branches:
//
//	- If disk is full
//	  - Rotate logs
//	  - Page on-call
//
// The first branch is labeled "yes" (or "no" when the decision text contains
// else/otherwise); every later branch is labeled "no". Two or more branches
// are joined again by a single merge node labeled "Continue", which becomes
// the predecessor of whatever follows the block.
//
// # Robustness
//
// [Convert] never fails. Lines it does not understand are dropped. Each call
// uses its own builder, so concurrent calls need no locking.
//
// [graph.Graph]: github.com/matzehuels/playbookforge/pkg/graph.Graph
package markdown
