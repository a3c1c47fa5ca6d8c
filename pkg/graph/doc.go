// Package graph defines the playbook graph intermediate representation.
//
// Both converters in pkg/convert produce a [Graph]: an ordered list of typed
// [Node] values and an ordered list of labeled [Edge] values. The same type
// is the wire format for JSON files, API responses, the cache and the
// playbook store.
//
// # Core Types
//
//   - [Graph]: ordered nodes and edges
//   - [Node]: id, display label, [NodeType] and ordered [Metadata]
//   - [Edge]: id, source node id, target node id, optional label
//   - [Builder]: per-conversion mutable builder that assigns ids
//
// # Identifiers
//
// Node and edge ids are assigned by a [Builder] from two independent
// counters starting at zero:
//
//	node_0, node_1, node_2, ...
//	edge_0, edge_1, edge_2, ...
//
// A Builder is created fresh for every conversion, so converting the same
// input twice yields identical ids.
//
// # Serialization
//
// Graphs use a node-link JSON format. Metadata keys keep their insertion
// order, and empty metadata and empty edge labels are omitted:
//
//	{
//	  "nodes": [
//	    {"id": "node_0", "label": "Setup", "type": "phase", "metadata": {"level": 1, "header_type": "h1"}},
//	    {"id": "node_1", "label": "Install", "type": "step", "metadata": {"step_type": "sequential"}}
//	  ],
//	  "edges": [
//	    {"id": "edge_0", "source": "node_0", "target": "node_1"}
//	  ]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("playbook.json")  // File → Graph (validated)
//	graph.WriteGraphFile(g, "output.json")        // Graph → File
//	data, _ := graph.MarshalGraph(g)              // Graph → []byte
//
// # Concurrency
//
// A Graph returned by a converter is never modified afterwards and may be
// read from multiple goroutines. A Builder is not safe for concurrent use.
package graph
