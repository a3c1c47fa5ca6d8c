package mermaid

import (
	"reflect"
	"testing"

	"github.com/matzehuels/playbookforge/pkg/graph"
)

func mustValid(t *testing.T, g graph.Graph) {
	t.Helper()
	if err := g.Validate(); err != nil {
		t.Fatalf("invalid graph: %v", err)
	}
}

// byMermaidID indexes nodes by their literal identifier.
func byMermaidID(g graph.Graph) map[string]graph.Node {
	out := make(map[string]graph.Node)
	for _, n := range g.Nodes {
		if id := n.Metadata.String(graph.MetaMermaidID); id != "" {
			out[id] = n
		}
	}
	return out
}

func TestConvertEmpty(t *testing.T) {
	for _, in := range []string{"", "flowchart TD", "A --> B", "# just markdown\n- item"} {
		g := Convert(in)
		if g.NodeCount() != 0 || g.EdgeCount() != 0 {
			t.Errorf("Convert(%q) = %s, want empty graph", in, g)
		}
	}
}

func TestSimpleEdge(t *testing.T) {
	for _, header := range []string{"flowchart TD", "graph LR", "  flowchart"} {
		g := Convert(header + "\n    A[Start] --> B[End]")
		mustValid(t, g)

		want := graph.Graph{
			Nodes: []graph.Node{
				{ID: "node_0", Label: "Start", Type: graph.TypeStep, Metadata: graph.Metadata{
					{Key: graph.MetaMermaidID, Value: "A"}, {Key: graph.MetaSubgraph, Value: nil},
				}},
				{ID: "node_1", Label: "End", Type: graph.TypeStep, Metadata: graph.Metadata{
					{Key: graph.MetaMermaidID, Value: "B"}, {Key: graph.MetaSubgraph, Value: nil},
				}},
			},
			Edges: []graph.Edge{{ID: "edge_0", Source: "node_0", Target: "node_1"}},
		}
		if !reflect.DeepEqual(g, want) {
			t.Errorf("%s: got %+v\nwant %+v", header, g, want)
		}
	}
}

func TestShapePrecedence(t *testing.T) {
	tests := []struct {
		input string
		label string
		typ   graph.NodeType
	}{
		{"A[[Sub]]", "Sub", graph.TypeStep},
		{"A((Phase 1))", "Phase 1", graph.TypePhase},
		{"A[Square]", "Square", graph.TypeStep},
		{"A{Is Valid?}", "Is Valid?", graph.TypeDecision},
		{"A(Rounded Node)", "Rounded Node", graph.TypeStep},
		{"A>Flag]", "Flag", graph.TypeStep},
		{"A [ spaced ]", "spaced", graph.TypeStep},
		{"A", "A", graph.TypeStep},
		{"A[ ]", "A", graph.TypeStep},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g := Convert("flowchart TD\n" + tt.input)
			if g.NodeCount() != 1 {
				t.Fatalf("got %+v, want 1 node", g.Nodes)
			}
			n := g.Nodes[0]
			if n.Label != tt.label || n.Type != tt.typ {
				t.Errorf("got %q/%s, want %q/%s", n.Label, n.Type, tt.label, tt.typ)
			}
		})
	}
}

func TestShapeTableOrder(t *testing.T) {
	var got []string
	for _, s := range shapes {
		got = append(got, s.name)
	}
	want := []string{"subroutine", "circle", "square", "diamond", "rounded", "flag"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("shape order = %v, want %v", got, want)
	}
}

func TestArrowTableOrder(t *testing.T) {
	var got []string
	for _, a := range arrows {
		got = append(got, a.re.String())
	}
	want := []string{
		`--\s*([^-]+?)\s*-->`,
		`-\.\s*([^-]+?)\s*\.->`,
		`==\s*([^=]+?)\s*==>`,
		`-->`,
		`-\.->`,
		`==>`,
		`--->`,
		`---->`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrow order = %v, want %v", got, want)
	}
}

func TestArrowForms(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		label string
	}{
		{"solid", "A --> B", ""},
		{"solid compact", "A-->B", ""},
		{"dotted", "A -.-> B", ""},
		{"bold", "A ==> B", ""},
		{"long", "A ---> B", ""},
		{"longer", "A ----> B", ""},
		{"labeled solid", "A -- yes --> B", "yes"},
		{"labeled solid compact", "A --Yes--> B", "Yes"},
		{"labeled dotted", "A -. maybe .-> B", "maybe"},
		{"labeled bold", "A == sure ==> B", "sure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Convert("flowchart TD\n" + tt.line)
			mustValid(t, g)

			ids := byMermaidID(g)
			if len(ids) != 2 || g.EdgeCount() != 1 {
				t.Fatalf("got %+v / %+v, want A and B joined by one edge", g.Nodes, g.Edges)
			}
			e := g.Edges[0]
			if e.Source != ids["A"].ID || e.Target != ids["B"].ID {
				t.Errorf("edge = %+v", e)
			}
			if e.Label != tt.label {
				t.Errorf("label = %q, want %q", e.Label, tt.label)
			}
		})
	}
}

func TestDeduplication(t *testing.T) {
	g := Convert("flowchart TD\nA[Start]\nA --> B[End]\nB --> A")
	mustValid(t, g)

	if g.NodeCount() != 2 {
		t.Fatalf("nodes = %+v, want exactly A and B", g.Nodes)
	}
	if g.Nodes[0].Label != "Start" {
		t.Errorf("A label = %q, want Start", g.Nodes[0].Label)
	}
	if g.EdgeCount() != 2 || g.Edges[1].Target != "node_0" {
		t.Errorf("edges = %+v", g.Edges)
	}
}

func TestFirstShapeWins(t *testing.T) {
	g := Convert("flowchart TD\nA --> B\nB{Later shape}")
	if n := byMermaidID(g)["B"]; n.Label != "B" || n.Type != graph.TypeStep {
		t.Errorf("B = %+v, want the bare reference to stand", n)
	}
}

func TestDecisionDiagram(t *testing.T) {
	g := Convert(`flowchart TD
    A[Start] --Check--> B{Valid?}
    B --Yes--> C[Process]
    B --No--> D[Error]`)
	mustValid(t, g)

	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Fatalf("got %s", g)
	}
	if dec := g.NodesOfType(graph.TypeDecision); len(dec) != 1 || dec[0].Label != "Valid?" {
		t.Errorf("decisions = %+v", dec)
	}
	var labels []string
	for _, e := range g.Edges {
		labels = append(labels, e.Label)
	}
	if !reflect.DeepEqual(labels, []string{"Check", "Yes", "No"}) {
		t.Errorf("labels = %v", labels)
	}
}

func TestMultipleTargets(t *testing.T) {
	g := Convert("flowchart TD\nA --> B[Option 1]\nA --> C[Option 2]\nA --> D[Option 3]")
	mustValid(t, g)

	if got := len(g.Outgoing(byMermaidID(g)["A"].ID)); got != 3 {
		t.Errorf("edges from A = %d, want 3", got)
	}
}

// Chained arrows are only partially resolved: the labeled-solid pattern
// matches first and captures the middle node as the edge label, so B is
// never created and every remaining segment hangs off A.
func TestChainedArrowsPartial(t *testing.T) {
	g := Convert("flowchart TD\n    A --> B --> C --> D")
	mustValid(t, g)

	ids := byMermaidID(g)
	if _, ok := ids["B"]; ok {
		t.Errorf("B should not be materialized, got %+v", g.Nodes)
	}
	if g.NodeCount() != 3 {
		t.Fatalf("nodes = %+v, want A, C, D", g.Nodes)
	}
	want := []graph.Edge{
		{ID: "edge_0", Source: ids["A"].ID, Target: ids["C"].ID, Label: "> B"},
		{ID: "edge_1", Source: ids["A"].ID, Target: ids["D"].ID, Label: "> B"},
	}
	if !reflect.DeepEqual(g.Edges, want) {
		t.Errorf("edges = %+v\nwant %+v", g.Edges, want)
	}
}

func TestChainedArrowsTwoHops(t *testing.T) {
	g := Convert("flowchart TD\nA --> B --> C")
	mustValid(t, g)

	if g.EdgeCount() != 1 || g.NodeCount() != 2 {
		t.Fatalf("got %+v / %+v", g.Nodes, g.Edges)
	}
}

func TestChainedDottedArrows(t *testing.T) {
	// No labeled pattern applies, so the line is split on every -.-> and
	// only the first segment after the source becomes a target.
	g := Convert("flowchart TD\nA -.-> B -.-> C")
	mustValid(t, g)

	ids := byMermaidID(g)
	if g.EdgeCount() != 1 || g.Edges[0].Target != ids["B"].ID {
		t.Errorf("edges = %+v, want only A -> B", g.Edges)
	}
	if _, ok := ids["C"]; ok {
		t.Error("C should be dropped")
	}
}

func TestSubgraphs(t *testing.T) {
	g := Convert(`flowchart TD
    subgraph Main Phase
        A[Start]
        subgraph Sub Phase
            B[Step 1] --> C[Step 2]
        end
        A --> B
    end
    C --> D[Done]`)
	mustValid(t, g)

	phases := g.NodesOfType(graph.TypePhase)
	if len(phases) != 2 {
		t.Fatalf("phases = %+v", phases)
	}
	for i, p := range phases {
		if !p.Metadata.Bool(graph.MetaIsSubgraph) {
			t.Errorf("phase %s missing is_subgraph", p.ID)
		}
		if lvl, _ := p.Metadata.Int(graph.MetaLevel); lvl != i+1 {
			t.Errorf("phase %s level = %d, want %d", p.ID, lvl, i+1)
		}
	}

	ids := byMermaidID(g)
	groupOf := func(id string) any {
		v, _ := ids[id].Metadata.Get(graph.MetaSubgraph)
		return v
	}
	if groupOf("A") != phases[0].ID {
		t.Errorf("A subgraph = %v, want %s", groupOf("A"), phases[0].ID)
	}
	if groupOf("B") != phases[1].ID || groupOf("C") != phases[1].ID {
		t.Errorf("B/C subgraph = %v/%v, want %s", groupOf("B"), groupOf("C"), phases[1].ID)
	}
	if groupOf("D") != nil {
		t.Errorf("D subgraph = %v, want nil", groupOf("D"))
	}
}

func TestUnbalancedEnd(t *testing.T) {
	g := Convert("flowchart TD\nend\nend\nA")
	mustValid(t, g)
	if g.NodeCount() != 1 {
		t.Errorf("got %+v", g.Nodes)
	}
}

func TestCommentsIgnored(t *testing.T) {
	g := Convert("flowchart TD\n    %% This is a comment\n    A[Start] --> B[End]\n    %% Another comment")
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("got %s", g)
	}
}

func TestUnparseableFragments(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		nodes int
		edges int
	}{
		{"bad source", "?? --> B", 0, 0},
		{"bad target", "A --> ??", 1, 0},
		{"pipe label", "A -->|yes| B", 1, 0},
		{"garbage", "!!!", 0, 0},
		{"bare subgraph keyword", "subgraph", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Convert("flowchart TD\n" + tt.line)
			mustValid(t, g)
			if g.NodeCount() != tt.nodes || g.EdgeCount() != tt.edges {
				t.Errorf("got %s, want %d nodes and %d edges", g, tt.nodes, tt.edges)
			}
		})
	}
}

func TestComplexFlowchart(t *testing.T) {
	content := `flowchart TD
    Start[Start Process] --> Auth{Authenticated?}
    Auth --Yes--> Load[Load Data]
    Auth --No--> Login[Show Login]
    Login --> Auth
    Load --> Process((Processing))
    Process --> Save[Save Results]
    Save -.-> Notify[Send Notification]
    Save --> End[Complete]`
	g := Convert(content)
	mustValid(t, g)

	if g.NodeCount() != 8 || g.EdgeCount() != 8 {
		t.Errorf("got %s, want 8 nodes and 8 edges", g)
	}
	if !reflect.DeepEqual(Convert(content), g) {
		t.Error("conversion is not deterministic")
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		pattern string
		in      string
		want    []string
	}{
		{`-->`, "A --> B --> C", []string{"A ", " B ", " C"}},
		{`--\s*([^-]+?)\s*-->`, "A -- x --> B", []string{"A ", "x", " B"}},
		{`-->`, "no arrow", []string{"no arrow"}},
	}
	for _, tt := range tests {
		for _, a := range arrows {
			if a.re.String() != tt.pattern {
				continue
			}
			if got := split(a.re, tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("split(%s, %q) = %q, want %q", tt.pattern, tt.in, got, tt.want)
			}
			break
		}
	}
}
