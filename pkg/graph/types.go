package graph

import (
	"fmt"

	"github.com/matzehuels/playbookforge/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// NodeType classifies a node. The set is open; converters only emit the
// constants below.
type NodeType string

// Node types emitted by the converters.
const (
	TypePhase    NodeType = "phase"
	TypeStep     NodeType = "step"
	TypeDecision NodeType = "decision"
	TypeMerge    NodeType = "merge"
	TypeExecute  NodeType = "execute"
)

// Metadata keys written by the converters.
const (
	MetaLevel      = "level"
	MetaHeaderType = "header_type"
	MetaStepType   = "step_type"
	MetaCondition  = "condition"
	MetaBranch     = "branch"
	MetaMergeType  = "merge_type"
	MetaCode       = "code"
	MetaLanguage   = "language"
	MetaIsSubgraph = "is_subgraph"
	MetaMermaidID  = "mermaid_id"
	MetaSubgraph   = "subgraph"
)

// Branch labels used on decision edges.
const (
	BranchYes = "yes"
	BranchNo  = "no"
)

// =============================================================================
// Graph - Playbook Flowchart
// =============================================================================

// Graph is the canonical representation of a converted playbook.
// Node and edge order reflects document order and is significant.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a single flowchart node.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     NodeType `json:"type"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"` // e.g. "yes", "no"
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Outgoing returns the edges leaving id, in insertion order.
func (g Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// NodesOfType returns all nodes of type t, in insertion order.
func (g Graph) NodesOfType(t NodeType) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks that node ids and edge ids are unique and that every
// edge refers to nodes present in the graph.
func (g Graph) Validate() error {
	nodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node with empty id")
		}
		if nodes[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		nodes[n.ID] = true
	}

	edges := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if edges[e.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate edge id %q", e.ID)
		}
		edges[e.ID] = true
		if !nodes[e.Source] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s: unknown source %q", e.ID, e.Source)
		}
		if !nodes[e.Target] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s: unknown target %q", e.ID, e.Target)
		}
	}
	return nil
}

// String returns a short summary such as "graph(3 nodes, 2 edges)".
func (g Graph) String() string {
	return fmt.Sprintf("graph(%d nodes, %d edges)", len(g.Nodes), len(g.Edges))
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
