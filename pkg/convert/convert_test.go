package convert

import (
	"testing"

	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/graph"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"flowchart TD\nA-->B", FormatMermaid},
		{"graph LR\nA-->B", FormatMermaid},
		{"  \n\nFlowchart bt\nA", FormatMermaid},
		{"GRAPH RL", FormatMermaid},
		{"flowchart\nA-->B", FormatMarkdown},
		{"flowchart XY", FormatMarkdown},
		{"# Title\nflowchart TD", FormatMarkdown},
		{"", FormatMarkdown},
		{"1. step", FormatMarkdown},
	}
	for _, tt := range tests {
		if got := Detect(tt.in); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		hint    string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"markdown", FormatMarkdown, false},
		{"MERMAID", FormatMermaid, false},
		{" Mermaid ", FormatMermaid, false},
		{"yaml", FormatAuto, true},
		{"md", FormatAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			got, err := ParseFormat(tt.hint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.hint, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %s, want INVALID_FORMAT", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.hint, got, tt.want)
			}
		})
	}
}

func TestConvertDispatch(t *testing.T) {
	g, f, err := Convert("flowchart TD\nA-->B", FormatAuto)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if f != FormatMermaid || g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("got %s via %s", g, f)
	}

	g, f, err = Convert("1. a\n2. b", FormatAuto)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if f != FormatMarkdown || g.NodeCount() != 2 {
		t.Errorf("got %s via %s", g, f)
	}

	// An explicit hint overrides detection.
	g, _, _ = Convert("flowchart TD\nA-->B", FormatMarkdown)
	if len(g.NodesOfType(graph.TypeStep)) != 0 || g.NodeCount() != 0 {
		t.Errorf("markdown conversion of a flowchart = %+v, want no nodes", g.Nodes)
	}

	if _, _, err := Convert("x", Format("yaml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}

func TestConverters(t *testing.T) {
	cs := Converters()
	if len(cs) != 2 || cs[0].Format != FormatMarkdown || cs[1].Format != FormatMermaid {
		t.Fatalf("Converters() = %+v", cs)
	}
	for _, c := range cs {
		if c.Description == "" || c.Detection == "" || c.Convert == nil {
			t.Errorf("incomplete converter %+v", c)
		}
	}
	cs[0].Format = "mutated"
	if Converters()[0].Format != FormatMarkdown {
		t.Error("Converters() must return a copy")
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		f    Format
		want string
	}{
		{"markdown h1", "intro\n# Incident Response \n## Triage", FormatMarkdown, "Incident Response"},
		{"markdown h2 only", "## Triage", FormatMarkdown, ""},
		{"mermaid titled", "flowchart TD: Deploy Flow\nA-->B", FormatMermaid, "Deploy Flow"},
		{"mermaid untitled", "flowchart TD\nA-->B", FormatMermaid, ""},
		{"unknown format", "# Title", Format("yaml"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.text, tt.f); got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		text string
		f    Format
		want string
	}{
		{"markdown", "# Title\n\n## Section\n  Handles outages.  \nmore", FormatMarkdown, "Handles outages."},
		{"markdown no header", "Just text", FormatMarkdown, ""},
		{"markdown header only", "# Title\n## Sub", FormatMarkdown, ""},
		{"mermaid comment", "flowchart TD\n%% Rollout plan\nA-->B", FormatMermaid, "Rollout plan"},
		{"mermaid none", "flowchart TD\nA-->B", FormatMermaid, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDescription(tt.text, tt.f); got != tt.want {
				t.Errorf("ExtractDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Every graph produced for arbitrary input must have unique ids and edges
// that point at existing nodes.
func TestGraphInvariants(t *testing.T) {
	inputs := []string{
		"# A\n## B\n1. c\n- if d\n  - e\n  - f\n  - g\n- when h\n  - i\n```go\nfmt.Println()\n```\n- otherwise j\n  - k",
		"flowchart LR\nsubgraph S\nA{x} -- y --> B((z))\nB -.-> C>f]\nend\nend\nC ==> A\nA --> B --> C --> D\nD -- a --> E -- b --> F",
		"graph TD\nA & B --> C\nA --- B\nA --x B\n%% comment\nclassDef foo fill:#f9f",
		"```\nunterminated",
		"- else\n    * branch\n  * branch\n- if\n- if ",
	}
	for _, in := range inputs {
		g, f, err := Convert(in, FormatAuto)
		if err != nil {
			t.Fatalf("Convert(%q): %v", in, err)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("%s graph for %q invalid: %v", f, in, err)
		}
	}
}
