package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/playbookforge/pkg/graph"
)

var (
	numberedMarker = regexp.MustCompile(`^\d+\.`)
	numberedItem   = regexp.MustCompile(`^\d+\.\s*(.+)$`)
)

// decisionKeywords trigger a decision when found anywhere in a bullet.
var decisionKeywords = []string{"if ", "when ", "else", "otherwise", "or if", "elif"}

// conditionPrefixes are stripped from the start of a decision label.
var conditionPrefixes = []string{"if ", "when ", "else ", "otherwise ", "or if ", "elif "}

// branchPrefixes mark a line as a branch of the preceding decision.
var branchPrefixes = []string{"  -", "  *", "    -", "    *"}

const fence = "```"

// Convert turns an outline document into a graph. It never fails; lines that
// match no rule are skipped.
func Convert(content string) graph.Graph {
	p := &parser{b: graph.NewBuilder()}
	p.run(strings.Split(content, "\n"))
	return p.b.Build()
}

type parser struct {
	b    *graph.Builder
	last string

	// phases holds the most recent h1 and h2 ids. It is kept for
	// bookkeeping only and never routes edges.
	phases []string
}

func (p *parser) run(lines []string) {
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
			i++
		case strings.HasPrefix(line, "#"):
			p.header(line)
			i++
		case numberedMarker.MatchString(line):
			p.numbered(line)
			i++
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"):
			i = p.bullet(lines, i, strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, fence):
			i = p.codeBlock(lines, i)
		default:
			i++
		}
	}
}

// add creates a node, chains it from the previous node and makes it current.
func (p *parser) add(label string, typ graph.NodeType, meta graph.Metadata) string {
	id := p.b.AddNode(label, typ, meta)
	p.b.Connect(p.last, id)
	p.last = id
	return id
}

func (p *parser) header(line string) {
	level := len(line) - len(strings.TrimLeft(line, "#"))
	label := strings.TrimSpace(line[level:])

	id := p.add(label, graph.TypePhase, graph.Metadata{
		{Key: graph.MetaLevel, Value: level},
		{Key: graph.MetaHeaderType, Value: "h" + strconv.Itoa(level)},
	})

	switch {
	case level == 1:
		p.phases = []string{id}
	case level == 2 && len(p.phases) > 0:
		p.phases = []string{p.phases[0], id}
	}
}

func (p *parser) numbered(line string) {
	m := numberedItem.FindStringSubmatch(line)
	if m == nil {
		return
	}
	p.add(strings.TrimSpace(m[1]), graph.TypeStep, graph.Metadata{
		{Key: graph.MetaStepType, Value: "sequential"},
	})
}

func (p *parser) bullet(lines []string, idx int, content string) int {
	if !isDecision(content) {
		p.add(content, graph.TypeStep, graph.Metadata{
			{Key: graph.MetaStepType, Value: "bullet"},
		})
		return idx + 1
	}
	return p.decision(lines, idx, content)
}

type branch struct {
	label   string
	content string
}

// decision emits a decision node followed by its branches and returns the
// index of the first line that is not a branch.
func (p *parser) decision(lines []string, idx int, content string) int {
	decisionID := p.add(conditionLabel(content), graph.TypeDecision, graph.Metadata{
		{Key: graph.MetaCondition, Value: content},
	})

	lower := strings.ToLower(content)
	negated := strings.Contains(lower, "else") || strings.Contains(lower, "otherwise")

	var branches []branch
	next := idx + 1
	for ; next < len(lines) && isBranchLine(lines[next]); next++ {
		label := graph.BranchYes
		if negated || len(branches) > 0 {
			label = graph.BranchNo
		}
		text := strings.TrimSpace(lines[next])
		branches = append(branches, branch{label: label, content: strings.TrimSpace(text[1:])})
	}

	var mergeID string
	for _, br := range branches {
		id := p.b.AddNode(br.content, graph.TypeStep, graph.Metadata{
			{Key: graph.MetaBranch, Value: br.label},
		})
		p.b.AddEdge(decisionID, id, br.label)

		if mergeID == "" && len(branches) > 1 {
			mergeID = p.b.AddNode("Continue", graph.TypeMerge, graph.Metadata{
				{Key: graph.MetaMergeType, Value: "decision"},
			})
		}
		if mergeID != "" {
			p.b.AddEdge(id, mergeID, "")
		}
	}

	if mergeID != "" {
		p.last = mergeID
	} else {
		p.last = decisionID
	}
	return next
}

// codeBlock captures lines verbatim up to the closing fence. An unclosed
// fence runs to the end of the document.
func (p *parser) codeBlock(lines []string, idx int) int {
	opening := strings.TrimSpace(lines[idx])
	language := strings.TrimSpace(opening[len(fence):])

	var code []string
	next := idx + 1
	for ; next < len(lines); next++ {
		if strings.HasPrefix(strings.TrimSpace(lines[next]), fence) {
			break
		}
		code = append(code, lines[next])
	}

	label := "Execute code"
	if language != "" {
		label = "Execute " + language
	}
	p.add(label, graph.TypeExecute, graph.Metadata{
		{Key: graph.MetaCode, Value: strings.Join(code, "\n")},
		{Key: graph.MetaLanguage, Value: language},
	})
	return next + 1
}

func isDecision(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range decisionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isBranchLine(line string) bool {
	for _, prefix := range branchPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// conditionLabel turns "if disk is full" into "Disk is full?".
func conditionLabel(content string) string {
	for _, prefix := range conditionPrefixes {
		if len(content) >= len(prefix) && strings.EqualFold(content[:len(prefix)], prefix) {
			content = strings.TrimSpace(content[len(prefix):])
			break
		}
	}
	if content == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(content)
	content = string(unicode.ToUpper(r)) + content[size:]
	if !strings.HasSuffix(content, "?") {
		content += "?"
	}
	return content
}
