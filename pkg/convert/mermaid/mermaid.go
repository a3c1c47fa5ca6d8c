package mermaid

import (
	"regexp"
	"strings"

	"github.com/matzehuels/playbookforge/pkg/graph"
)

// =============================================================================
// Pattern Tables - order is significant
// =============================================================================

const idPattern = `^([A-Za-z0-9_]+)\s*`

type shape struct {
	name string
	re   *regexp.Regexp
	typ  graph.NodeType
}

// shapes are tried top to bottom; the first match decides the node type.
var shapes = []shape{
	{"subroutine", regexp.MustCompile(idPattern + `\[\[([^\]]+)\]\]`), graph.TypeStep},
	{"circle", regexp.MustCompile(idPattern + `\(\(([^\)]+)\)\)`), graph.TypePhase},
	{"square", regexp.MustCompile(idPattern + `\[([^\]]+)\]`), graph.TypeStep},
	{"diamond", regexp.MustCompile(idPattern + `\{([^\}]+)\}`), graph.TypeDecision},
	{"rounded", regexp.MustCompile(idPattern + `\(([^\)]+)\)`), graph.TypeStep},
	{"flag", regexp.MustCompile(idPattern + `>([^\]]+)\]`), graph.TypeStep},
}

var bareID = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type arrow struct {
	kind    string // solid, dotted or bold
	re      *regexp.Regexp
	labeled bool
}

// arrows are tried top to bottom; the first one found anywhere in a line
// splits that line.
var arrows = []arrow{
	{"solid", regexp.MustCompile(`--\s*([^-]+?)\s*-->`), true},
	{"dotted", regexp.MustCompile(`-\.\s*([^-]+?)\s*\.->`), true},
	{"bold", regexp.MustCompile(`==\s*([^=]+?)\s*==>`), true},
	{"solid", regexp.MustCompile(`-->`), false},
	{"dotted", regexp.MustCompile(`-\.->`), false},
	{"bold", regexp.MustCompile(`==>`), false},
	{"solid", regexp.MustCompile(`--->`), false},
	{"solid", regexp.MustCompile(`---->`), false},
}

// connector splits a target remainder into individual targets.
var connector = regexp.MustCompile(`(?:-->|-\.->|==>|---+>)`)

var subgraphDecl = regexp.MustCompile(`^subgraph\s+(.+)`)

// arrowResidue is left on a fragment when a shorter arrow matched inside a
// longer one, e.g. the extra dash of "A ---> B".
const arrowResidue = "-.= \t"

// =============================================================================
// Converter
// =============================================================================

// Convert turns a flowchart into a graph. It never fails; statements it
// cannot read are skipped.
func Convert(content string) graph.Graph {
	p := &parser{
		b:   graph.NewBuilder(),
		ids: make(map[string]string),
	}
	p.run(strings.Split(content, "\n"))
	return p.b.Build()
}

type group struct {
	id    string
	label string
}

type parser struct {
	b      *graph.Builder
	ids    map[string]string // literal identifier -> node id
	groups []group           // open subgraphs, innermost last
}

func (p *parser) run(lines []string) {
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "flowchart") || strings.HasPrefix(line, "graph") {
			i++
			break
		}
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "", strings.HasPrefix(line, "%%"):
		case strings.HasPrefix(line, "subgraph"):
			p.openGroup(line)
		case line == "end":
			p.closeGroup()
		default:
			p.statement(line)
		}
	}
}

func (p *parser) openGroup(line string) {
	m := subgraphDecl.FindStringSubmatch(line)
	if m == nil {
		return
	}
	label := strings.TrimSpace(m[1])
	id := p.b.AddNode(label, graph.TypePhase, graph.Metadata{
		{Key: graph.MetaIsSubgraph, Value: true},
		{Key: graph.MetaLevel, Value: len(p.groups) + 1},
	})
	p.groups = append(p.groups, group{id: id, label: label})
}

func (p *parser) closeGroup() {
	if len(p.groups) > 0 {
		p.groups = p.groups[:len(p.groups)-1]
	}
}

// currentGroup returns the innermost subgraph id, or nil outside any group.
func (p *parser) currentGroup() any {
	if len(p.groups) == 0 {
		return nil
	}
	return p.groups[len(p.groups)-1].id
}

func (p *parser) statement(line string) {
	for _, a := range arrows {
		if a.re.MatchString(line) {
			p.edgeStatement(line, a)
			return
		}
	}
	if ref, ok := parseRef(line); ok {
		p.resolve(ref)
	}
}

func (p *parser) edgeStatement(line string, a arrow) {
	parts := split(a.re, line)
	if len(parts) < 2 {
		return
	}

	src, ok := parseRef(strings.TrimRight(parts[0], arrowResidue))
	if !ok {
		return
	}
	srcID := p.resolve(src)

	var label string
	rest := parts[1]
	if a.labeled && len(parts) > 2 {
		label = strings.TrimSpace(parts[1])
		rest = parts[2]
	}

	for _, frag := range connector.Split(rest, -1) {
		frag = strings.Trim(frag, arrowResidue)
		if frag == "" {
			continue
		}
		dst, ok := parseRef(frag)
		if !ok {
			continue
		}
		p.b.AddEdge(srcID, p.resolve(dst), label)
	}
}

// resolve returns the node for a literal identifier, creating it on first
// sighting.
func (p *parser) resolve(r ref) string {
	if id, ok := p.ids[r.id]; ok {
		return id
	}
	label, typ := r.label, r.typ
	if label == "" {
		label = r.id
	}
	if typ == "" {
		typ = graph.TypeStep
	}
	id := p.b.AddNode(label, typ, graph.Metadata{
		{Key: graph.MetaMermaidID, Value: r.id},
		{Key: graph.MetaSubgraph, Value: p.currentGroup()},
	})
	p.ids[r.id] = id
	return id
}

// ref is a node reference parsed from a statement fragment.
type ref struct {
	id    string
	label string
	typ   graph.NodeType // empty for a bare identifier
}

func parseRef(text string) (ref, bool) {
	text = strings.TrimSpace(text)
	for _, s := range shapes {
		if m := s.re.FindStringSubmatch(text); m != nil {
			return ref{id: m[1], label: strings.TrimSpace(m[2]), typ: s.typ}, true
		}
	}
	if bareID.MatchString(text) {
		return ref{id: text}, true
	}
	return ref{}, false
}

// split breaks s around every match of re. Text captured by groups in re is
// included between the surrounding pieces.
func split(re *regexp.Regexp, s string) []string {
	var parts []string
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		parts = append(parts, s[last:m[0]])
		for g := 2; g < len(m); g += 2 {
			if m[g] < 0 {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, s[m[g]:m[g+1]])
		}
		last = m[1]
	}
	return append(parts, s[last:])
}
