package pipeline

import (
	"strings"

	"github.com/matzehuels/playbookforge/pkg/convert"
	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/graph"
)

// Convert runs the conversion stage without caching. The text is trimmed
// before conversion; the returned Meta carries the extracted title and
// description, and Title in opts replaces the extracted title when set.
func Convert(opts Options) (graph.Graph, Meta, error) {
	if err := opts.ValidateForConvert(); err != nil {
		return graph.Graph{}, Meta{}, err
	}
	hint, _ := convert.ParseFormat(opts.Format)
	content := strings.TrimSpace(opts.Content)

	g, f, err := convert.Convert(content, hint)
	if err != nil {
		return graph.Graph{}, Meta{}, err
	}
	if err := checkLimits(g, opts); err != nil {
		return graph.Graph{}, Meta{}, err
	}

	meta := Meta{
		Title:       convert.ExtractTitle(content, f),
		Description: convert.ExtractDescription(content, f),
		Format:      string(f),
		NodeCount:   g.NodeCount(),
		EdgeCount:   g.EdgeCount(),
	}
	if opts.Title != "" {
		meta.Title = opts.Title
	}
	return g, meta, nil
}

func checkLimits(g graph.Graph, opts Options) error {
	if opts.MaxNodes > 0 && g.NodeCount() > opts.MaxNodes {
		return errors.New(errors.ErrCodeGraphTooLarge,
			"graph has %d nodes, limit is %d", g.NodeCount(), opts.MaxNodes)
	}
	if opts.MaxEdges > 0 && g.EdgeCount() > opts.MaxEdges {
		return errors.New(errors.ErrCodeGraphTooLarge,
			"graph has %d edges, limit is %d", g.EdgeCount(), opts.MaxEdges)
	}
	return nil
}

// sourceFormat resolves the format a conversion will use, detecting it
// when opts asks for auto.
func sourceFormat(opts Options) convert.Format {
	f, _ := convert.ParseFormat(opts.Format)
	if f == convert.FormatAuto {
		return convert.Detect(opts.Content)
	}
	return f
}
