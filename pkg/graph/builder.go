package graph

import "strconv"

// Builder accumulates nodes and edges for a single conversion run and
// assigns their ids. Node and edge counters are independent and start at 0.
type Builder struct {
	nodes   []Node
	edges   []Edge
	nodeSeq int
	edgeSeq int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddNode appends a node and returns its assigned id.
func (b *Builder) AddNode(label string, typ NodeType, meta Metadata) string {
	id := "node_" + strconv.Itoa(b.nodeSeq)
	b.nodeSeq++
	b.nodes = append(b.nodes, Node{ID: id, Label: label, Type: typ, Metadata: meta})
	return id
}

// AddEdge appends an edge from source to target and returns its assigned id.
// An empty label means the edge is unlabeled.
func (b *Builder) AddEdge(source, target, label string) string {
	id := "edge_" + strconv.Itoa(b.edgeSeq)
	b.edgeSeq++
	b.edges = append(b.edges, Edge{ID: id, Source: source, Target: target, Label: label})
	return id
}

// Connect adds an unlabeled edge from source to target when source is set.
func (b *Builder) Connect(source, target string) {
	if source != "" {
		b.AddEdge(source, target, "")
	}
}

// NodeCount returns the number of nodes added so far.
func (b *Builder) NodeCount() int { return len(b.nodes) }

// Build returns the accumulated graph. The returned slices are copies, so
// later use of the builder does not affect graphs already built.
func (b *Builder) Build() Graph {
	nodes := make([]Node, len(b.nodes))
	copy(nodes, b.nodes)
	edges := make([]Edge, len(b.edges))
	copy(edges, b.edges)
	return Graph{Nodes: nodes, Edges: edges}
}
