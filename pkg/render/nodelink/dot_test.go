package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/playbookforge/pkg/graph"
)

func sampleGraph() graph.Graph {
	b := graph.NewBuilder()
	phase := b.AddNode("Triage", graph.TypePhase, graph.Metadata{{Key: graph.MetaLevel, Value: 2}})
	dec := b.AddNode("Is it down?", graph.TypeDecision, nil)
	merge := b.AddNode("", graph.TypeMerge, nil)
	exec := b.AddNode("curl -I host", graph.TypeExecute, graph.Metadata{
		{Key: graph.MetaCode, Value: "curl -I host"},
		{Key: graph.MetaLanguage, Value: "bash"},
	})
	b.AddEdge(phase, dec, "")
	b.AddEdge(dec, merge, graph.BranchYes)
	b.AddEdge(merge, exec, "")
	return b.Build()
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"node_0" [label="Triage", style="filled,bold"`,
		`"node_1" [label="Is it down?", shape=diamond`,
		`"node_2" [label="", shape=circle`,
		`"node_3" [label="bash", shape=doubleoctagon`,
		`"node_0" -> "node_1";`,
		`"node_1" -> "node_2" [label="yes"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT should end with closing brace")
	}
}

func TestToDOTDirection(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"", "rankdir=TB;"},
		{"LR", "rankdir=LR;"},
		{"sideways", "rankdir=TB;"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			dot := ToDOT(graph.Graph{}, Options{Direction: tt.dir})
			if !strings.Contains(dot, tt.want) {
				t.Errorf("ToDOT(dir=%q) missing %q", tt.dir, tt.want)
			}
		})
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{Detailed: true})
	if !strings.Contains(dot, `label="Triage\nlevel: 2"`) {
		t.Errorf("detailed label missing metadata:\n%s", dot)
	}
	if strings.Contains(dot, "code: ") {
		t.Error("code blocks should not appear in detailed labels")
	}
}

func TestToDOTEscapesQuotes(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNode(`Say "hi"`, graph.TypeStep, nil)
	dot := ToDOT(b.Build(), Options{})
	if !strings.Contains(dot, `label="Say \"hi\""`) {
		t.Errorf("quotes not escaped:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleGraph(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("unexpected SVG root: %.200s", svg)
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(context.Background(), ToDOT(sampleGraph(), Options{}))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s\nwant %s", got, want)
	}
}
