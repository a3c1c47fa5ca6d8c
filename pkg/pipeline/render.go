package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/playbookforge/pkg/export"
	"github.com/matzehuels/playbookforge/pkg/graph"
)

// Render exports g in every format named in opts.Formats, without caching.
func Render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, name := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := export.Export(ctx, g, export.Format(name), opts.exportOptions())
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		artifacts[name] = data
	}
	return artifacts, nil
}
