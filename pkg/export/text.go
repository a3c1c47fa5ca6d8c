package export

import (
	"regexp"
	"strings"

	"github.com/matzehuels/playbookforge/pkg/graph"
)

var unsafeID = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Mermaid renders g as a top-down flowchart. Node ids are reduced to
// [A-Za-z0-9_] and double quotes in labels become single quotes. Edges whose
// endpoints are not in the graph are dropped.
func Mermaid(g graph.Graph) string {
	lines := []string{"flowchart TD"}
	ids := make(map[string]string, len(g.Nodes))

	for _, n := range g.Nodes {
		if n.ID == "" {
			continue
		}
		id := unsafeID.ReplaceAllString(n.ID, "_")
		ids[n.ID] = id
		label := strings.ReplaceAll(n.DisplayLabel(), `"`, "'")

		var shape string
		switch n.Type {
		case graph.TypeDecision:
			shape = "{" + label + "}"
		case graph.TypeExecute:
			shape = "((" + label + "))"
		default:
			shape = "[" + label + "]"
		}
		lines = append(lines, "    "+id+shape)
	}

	for _, e := range g.Edges {
		src, ok := ids[e.Source]
		if !ok {
			continue
		}
		dst, ok := ids[e.Target]
		if !ok {
			continue
		}
		if e.Label != "" {
			lines = append(lines, "    "+src+" -->|"+e.Label+"| "+dst)
		} else {
			lines = append(lines, "    "+src+" --> "+dst)
		}
	}
	return strings.Join(lines, "\n")
}

// Markdown renders g as a phase outline. Each phase lists the nodes it
// points at directly; decisions list their branches beneath them. A graph
// without phases is listed flat in node order.
func Markdown(g graph.Graph) string {
	byID := make(map[string]graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	outgoing := make(map[string][]graph.Edge)
	for _, e := range g.Edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		outgoing[e.Source] = append(outgoing[e.Source], e)
	}

	var lines []string
	for _, phase := range g.NodesOfType(graph.TypePhase) {
		lines = append(lines, "## Phase: "+phase.DisplayLabel())

		for _, e := range outgoing[phase.ID] {
			child, ok := byID[e.Target]
			if !ok {
				continue
			}
			if child.Type != graph.TypeDecision {
				lines = append(lines, "- Step: "+child.DisplayLabel())
				continue
			}
			lines = append(lines, "- Decision: "+child.DisplayLabel())
			for _, br := range outgoing[child.ID] {
				target, ok := byID[br.Target]
				if !ok {
					continue
				}
				lines = append(lines, "  - "+branchLabel(br.Label)+": "+target.DisplayLabel())
			}
		}
		lines = append(lines, "")
	}

	if len(lines) == 0 {
		for _, n := range g.Nodes {
			switch n.Type {
			case graph.TypePhase:
				lines = append(lines, "## Phase: "+n.DisplayLabel())
			case graph.TypeDecision:
				lines = append(lines, "- Decision: "+n.DisplayLabel())
			default:
				lines = append(lines, "- Step: "+n.DisplayLabel())
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func branchLabel(label string) string {
	if label == "" {
		label = "branch"
	}
	label = strings.ToUpper(label)
	if label == "YES" || label == "NO" {
		return label
	}
	return "BRANCH (" + label + ")"
}
