package export

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/graph"
	"github.com/matzehuels/playbookforge/pkg/render/nodelink"
)

// Format names an export target.
type Format string

// Export formats.
const (
	FormatJSON     Format = "json"
	FormatMermaid  Format = "mermaid"
	FormatMarkdown Format = "markdown"
	FormatDOT      Format = "dot"
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
)

// Formats lists every supported export format in display order.
var Formats = []Format{FormatJSON, FormatMermaid, FormatMarkdown, FormatDOT, FormatSVG, FormatPNG}

// Options tunes the Graphviz-based formats. Text formats ignore it.
type Options struct {
	Direction string
	Detailed  bool
}

// Validate parses a format name. Matching is case-insensitive.
func Validate(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidExportFormat,
		"invalid export format %q: must be one of %s", name, strings.Join(Names(), ", "))
}

// Names returns the format names as strings.
func Names() []string {
	out := make([]string, len(Formats))
	for i, f := range Formats {
		out[i] = string(f)
	}
	return out
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMermaid:
		return "mmd"
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// Binary reports whether f produces non-text output.
func (f Format) Binary() bool { return f == FormatPNG }

// Export renders g in format f.
func Export(ctx context.Context, g graph.Graph, f Format, opts Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		return graph.MarshalGraph(g)
	case FormatMermaid:
		return []byte(Mermaid(g)), nil
	case FormatMarkdown:
		return []byte(Markdown(g)), nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Direction: opts.Direction, Detailed: opts.Detailed})
	switch f {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		out, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		return out, nil
	case FormatPNG:
		out, err := nodelink.RenderPNG(ctx, dot)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidExportFormat, "invalid export format %q", f)
}
