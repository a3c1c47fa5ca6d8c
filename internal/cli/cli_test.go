package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/playbookforge/pkg/buildinfo"
	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/graph"
)

const flowchart = `flowchart TD
    A[Start] --> B{Ready?}
    B --> C[Done]`

// runCLI executes the root command with args, feeding stdin and capturing
// stdout. The file cache is redirected to a temp dir and status lines are
// discarded.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	if os.Getenv("XDG_CACHE_HOME") == "" {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
	}
	prev := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = prev })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertCommandStdin(t *testing.T) {
	out, err := runCLI(t, flowchart, "convert")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	g, err := graph.ReadGraph(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a graph: %v\n%s", err, out)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("got %s, want 3 nodes and 2 edges", g)
	}
	if g.Nodes[1].Type != graph.TypeDecision {
		t.Errorf("node_1 type = %s, want decision", g.Nodes[1].Type)
	}
}

func TestConvertCommandFileToOutput(t *testing.T) {
	src := writeFile(t, "deploy.md", "# Deploy\n\n## Phase: Prepare\n\n- Back up database\n")
	dst := filepath.Join(t.TempDir(), "deploy.json")

	out, err := runCLI(t, "", "convert", src, "-o", dst)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty with --output, got %q", out)
	}

	g, err := graph.ReadGraphFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if g.NodeCount() == 0 {
		t.Error("expected nodes in converted markdown")
	}
}

func TestConvertCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"missing file", "", []string{"convert", filepath.Join(t.TempDir(), "nope.md")}, errors.ErrCodeFileNotFound},
		{"empty stdin", "  \n", []string{"convert"}, errors.ErrCodeEmptyContent},
		{"bad format", flowchart, []string{"convert", "--format", "yaml"}, errors.ErrCodeInvalidFormat},
		{"bad title", flowchart, []string{"convert", "--title", "   "}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConvertCommandNoCache(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	if _, err := runCLI(t, flowchart, "convert", "--no-cache"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cacheHome, appName)); !os.IsNotExist(err) {
		t.Errorf("--no-cache should not create the cache dir, stat err = %v", err)
	}
}

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{flowchart, "mermaid"},
		{"graph LR\nA --> B", "mermaid"},
		{"# Runbook\n- step", "markdown"},
		{"", "markdown"},
	}
	for _, tt := range tests {
		out, err := runCLI(t, tt.in, "detect", "-")
		if err != nil {
			t.Fatalf("detect: %v", err)
		}
		if got := strings.TrimSpace(out); got != tt.want {
			t.Errorf("detect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportCommandStdout(t *testing.T) {
	out, err := runCLI(t, flowchart, "export", "--format", "mermaid")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "flowchart TD") {
		t.Errorf("mermaid export should start with the declaration:\n%s", out)
	}
	if !strings.Contains(out, "{Ready?}") {
		t.Errorf("decision node missing:\n%s", out)
	}
}

func TestExportCommandFiles(t *testing.T) {
	stem := filepath.Join(t.TempDir(), "flow")
	src := writeFile(t, "flow.mmd", flowchart)

	out, err := runCLI(t, "", "export", src, "--format", "DOT,markdown", "-o", stem, "--direction", "lr")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty when writing files, got %q", out)
	}

	dot, err := os.ReadFile(stem + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !bytes.Contains(dot, []byte("digraph")) || !bytes.Contains(dot, []byte("rankdir=LR")) {
		t.Errorf("unexpected dot output:\n%s", dot)
	}
	if _, err := os.Stat(stem + ".md"); err != nil {
		t.Errorf("markdown export missing: %v", err)
	}
}

func TestExportCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"export", "--format", "pdf"}, errors.ErrCodeInvalidExportFormat},
		{"bad direction", []string{"export", "--format", "dot", "--direction", "up"}, errors.ErrCodeInvalidInput},
		{"bad source format", []string{"export", "--from", "yaml"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, flowchart, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFormatsCommand(t *testing.T) {
	out, err := runCLI(t, "", "formats")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	for _, want := range []string{"markdown", "mermaid", "json", "svg", "png", "image/svg+xml"} {
		if !strings.Contains(out, want) {
			t.Errorf("formats output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectPlain(t *testing.T) {
	out, err := runCLI(t, flowchart, "inspect", "--plain")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"node_0", "Start", "Ready?", "decision"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	out, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(cacheHome, appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, err := runCLI(t, flowchart, "convert"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	entries, _ := filepath.Glob(filepath.Join(want, "*", "*.json"))
	if len(entries) == 0 {
		t.Fatal("convert should have written a cache entry")
	}

	if _, err := runCLI(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = filepath.Glob(filepath.Join(want, "*", "*.json"))
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestConfigFlag(t *testing.T) {
	cfg := writeFile(t, "playbookforge.toml", "[limits]\nmax_input_bytes = 16\n")

	_, err := runCLI(t, flowchart, "--config", cfg, "convert")
	if !errors.Is(err, errors.ErrCodeInputTooLarge) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInputTooLarge)
	}

	bad := writeFile(t, "bad.toml", "[limits]\nmax_nodez = 1\n")
	if _, err := runCLI(t, flowchart, "--config", bad, "convert"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown key err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := runCLI(t, "", "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("version output %q should contain %q", out, buildinfo.Version)
	}
}

// =============================================================================
// NodeListModel
// =============================================================================

func testGraph() graph.Graph {
	b := graph.NewBuilder()
	start := b.AddNode("Start", graph.TypeStep, nil)
	check := b.AddNode("Ready?", graph.TypeDecision, graph.Metadata{{Key: graph.MetaCondition, Value: "Ready?"}})
	done := b.AddNode("Done", graph.TypeStep, nil)
	b.Connect(start, check)
	b.AddEdge(check, done, graph.BranchYes)
	return b.Build()
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m NodeListModel, keys ...string) NodeListModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(NodeListModel)
	}
	return m
}

func TestNodeListModelNavigation(t *testing.T) {
	m := NewNodeListModel(testGraph(), "Deploy")

	m = update(t, m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first node: %d", m.Cursor)
	}
	m = update(t, m, "down", "j", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want clamped to 2", m.Cursor)
	}
	m = update(t, m, "g")
	if m.Cursor != 0 {
		t.Errorf("home: cursor = %d, want 0", m.Cursor)
	}
	m = update(t, m, "G")
	if m.Cursor != 2 {
		t.Errorf("end: cursor = %d, want 2", m.Cursor)
	}
}

func TestNodeListModelScrolls(t *testing.T) {
	m := NewNodeListModel(testGraph(), "")
	m.Height = 1

	m = update(t, m, "down", "down")
	if m.Offset != 2 {
		t.Errorf("offset = %d, want 2", m.Offset)
	}
	m = update(t, m, "up")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
}

func TestNodeListModelDetail(t *testing.T) {
	m := NewNodeListModel(testGraph(), "Deploy")
	m = update(t, m, "down", "enter")
	if !m.ShowDetail {
		t.Fatal("enter should open the detail pane")
	}

	view := m.View()
	for _, want := range []string{"Deploy", "condition", "Done", "[yes]", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	next, cmd := m.Update(key("esc"))
	m = next.(NodeListModel)
	if m.ShowDetail || cmd != nil {
		t.Error("esc should close the detail pane without quitting")
	}
}

func TestNodeListModelQuit(t *testing.T) {
	m := NewNodeListModel(testGraph(), "")
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestNodeListModelEmpty(t *testing.T) {
	m := NewNodeListModel(graph.Graph{}, "")
	m = update(t, m, "down", "enter")
	if m.ShowDetail {
		t.Error("detail pane should stay closed without nodes")
	}
	if !strings.Contains(m.View(), "No nodes") {
		t.Errorf("empty view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a long label\nwith newline", 8); got != "a long …" {
		t.Errorf("truncate = %q", got)
	}
}
