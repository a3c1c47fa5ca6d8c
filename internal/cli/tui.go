package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/playbookforge/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// typeColors tints the type column.
var typeColors = map[graph.NodeType]lipgloss.Color{
	graph.TypePhase:    colorGreen,
	graph.TypeDecision: colorYellow,
	graph.TypeExecute:  colorBlue,
	graph.TypeMerge:    colorDim,
}

const maxLabelWidth = 48

// =============================================================================
// NodeListModel - Interactive graph browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing a converted graph.
// Enter toggles a detail pane with the selected node's metadata and
// outgoing edges.
type NodeListModel struct {
	Graph      graph.Graph
	Title      string
	Cursor     int
	Offset     int
	Height     int
	ShowDetail bool
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(g graph.Graph, title string) NodeListModel {
	return NodeListModel{
		Graph:  g,
		Title:  title,
		Height: 15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.ShowDetail {
				m.ShowDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Graph.Nodes))
		case "end", "G":
			m.move(len(m.Graph.Nodes))
		case "enter", " ":
			if len(m.Graph.Nodes) > 0 {
				m.ShowDetail = !m.ShowDetail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.ShowDetail {
			m.Height -= 8
		}
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the node list, and scrolls
// the window to keep it visible.
func (m *NodeListModel) move(delta int) {
	n := len(m.Graph.Nodes)
	if n == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = max(0, min(n-1, m.Cursor+delta))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m NodeListModel) View() string {
	var b strings.Builder

	title := "Playbook"
	if m.Title != "" {
		title = m.Title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Graph.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Graph.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  No nodes"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Graph.Nodes))
	b.WriteString(nodeTable(m.Graph, m.Offset, end, m.Cursor))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))

	if m.ShowDetail {
		b.WriteString("\n\n")
		b.WriteString(nodeDetail(m.Graph, m.Graph.Nodes[m.Cursor]))
	}
	return b.String()
}

// nodeTable renders nodes[start:end]. cursor marks the selected row; pass
// -1 for a plain listing.
func nodeTable(g graph.Graph, start, end, cursor int) string {
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		n := g.Nodes[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		out := len(g.Outgoing(n.ID))
		rows = append(rows, []string{marker, n.ID, string(n.Type), truncate(n.DisplayLabel(), maxLabelWidth), strconv.Itoa(out)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Label", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := start + row
			if idx >= end {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 2 {
				if c, ok := typeColors[g.Nodes[idx].Type]; ok {
					base = base.Foreground(c)
				}
			}
			if idx == cursor {
				if col == 2 {
					return base.Bold(true)
				}
				return listSelectedStyle
			}
			return base
		})
	return t.Render()
}

// nodeDetail renders metadata and outgoing edges for n.
func nodeDetail(g graph.Graph, n graph.Node) string {
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.DisplayLabel()))
	b.WriteString("\n")
	b.WriteString(keyValue("id", n.ID))
	b.WriteString("\n")
	b.WriteString(keyValue("type", string(n.Type)))
	b.WriteString("\n")
	for _, f := range n.Metadata {
		b.WriteString(keyValue(f.Key, truncate(fmt.Sprint(f.Value), maxLabelWidth)))
		b.WriteString("\n")
	}

	edges := g.Outgoing(n.ID)
	if len(edges) == 0 {
		b.WriteString(listDimStyle.Render("no outgoing edges"))
		return b.String()
	}
	for _, e := range edges {
		target := e.Target
		if t, ok := g.Node(e.Target); ok {
			target = t.DisplayLabel()
		}
		line := iconArrow + " " + truncate(target, maxLabelWidth)
		if e.Label != "" {
			line += " " + listDimStyle.Render("["+e.Label+"]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
