package convert

import (
	"regexp"
	"strings"

	"github.com/matzehuels/playbookforge/pkg/convert/markdown"
	"github.com/matzehuels/playbookforge/pkg/convert/mermaid"
	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/graph"
)

// Format names a source text format.
type Format string

const (
	// FormatAuto asks Convert to detect the format.
	FormatAuto     Format = ""
	FormatMarkdown Format = "markdown"
	FormatMermaid  Format = "mermaid"
)

// Converter describes one supported source format.
type Converter struct {
	Format      Format
	Description string
	Detection   string
	Convert     func(string) graph.Graph
}

var registry = []Converter{
	{
		Format:      FormatMarkdown,
		Description: "Structured markdown with headers, lists, and code blocks",
		Detection:   "Default format when no flowchart/graph keyword is found",
		Convert:     markdown.Convert,
	},
	{
		Format:      FormatMermaid,
		Description: "Mermaid flowchart syntax (flowchart TD/LR or graph TD/LR)",
		Detection:   "Auto-detected when content starts with 'flowchart' or 'graph'",
		Convert:     mermaid.Convert,
	},
}

// Converters returns the supported formats in display order.
func Converters() []Converter {
	out := make([]Converter, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the converter registered for f.
func Lookup(f Format) (Converter, bool) {
	for _, c := range registry {
		if c.Format == f {
			return c, true
		}
	}
	return Converter{}, false
}

// FormatNames returns the registered format names, e.g. for flag help.
func FormatNames() []string {
	names := make([]string, len(registry))
	for i, c := range registry {
		names[i] = string(c.Format)
	}
	return names
}

// ParseFormat validates a user-supplied format hint. Matching is
// case-insensitive and an empty hint means FormatAuto.
func ParseFormat(hint string) (Format, error) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" || hint == "auto" {
		return FormatAuto, nil
	}
	if _, ok := Lookup(Format(hint)); ok {
		return Format(hint), nil
	}
	return FormatAuto, errors.New(errors.ErrCodeInvalidFormat,
		"invalid format %q: must be %s", hint, strings.Join(quoted(FormatNames()), " or "))
}

var declaration = regexp.MustCompile(`(?i)^(?:flowchart|graph)\s+(?:TD|LR|TB|RL|BT)`)

// Detect returns FormatMermaid when the trimmed text starts with a flowchart
// declaration and FormatMarkdown otherwise. It never fails.
func Detect(text string) Format {
	if declaration.MatchString(strings.TrimSpace(text)) {
		return FormatMermaid
	}
	return FormatMarkdown
}

// Convert converts text with the converter for f, detecting the format first
// when f is FormatAuto. It returns the format actually used.
func Convert(text string, f Format) (graph.Graph, Format, error) {
	if f == FormatAuto {
		f = Detect(text)
	}
	c, ok := Lookup(f)
	if !ok {
		return graph.Graph{}, f, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
	}
	return c.Convert(text), f, nil
}

func quoted(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "'" + n + "'"
	}
	return out
}
