// Package pipeline provides the conversion pipeline shared by the CLI and
// the API server.
//
// The pipeline has two stages:
//
//  1. Convert: validate the text, pick a source format, build the graph and
//     extract the title and description
//  2. Render: export the graph to the requested formats (json, mermaid,
//     markdown, dot, svg, png)
//
// Both stages are cached through a [cache.Cache]: converted graphs by the
// hash of their source text and format, artifacts by the hash of the graph
// JSON and their export settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Content: text,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, err := runner.Convert(ctx, opts)
//	artifacts, err := runner.Render(ctx, res.Graph, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/playbookforge/pkg/cache"
	"github.com/matzehuels/playbookforge/pkg/convert"
	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/export"
	"github.com/matzehuels/playbookforge/pkg/graph"
	"github.com/matzehuels/playbookforge/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxInputBytes bounds the size of the source text.
	DefaultMaxInputBytes = 1 << 20

	// DefaultMaxNodes bounds the number of nodes a conversion may produce.
	DefaultMaxNodes = 5000

	// DefaultMaxEdges bounds the number of edges a conversion may produce.
	DefaultMaxEdges = 10000

	// DefaultDirection is the Graphviz rank direction.
	DefaultDirection = "TB"
)

// DefaultFormat is the export format used when none is requested.
const DefaultFormat = export.FormatJSON

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Convert options
	Content       string `json:"content"`
	Format        string `json:"format,omitempty"` // "", "auto", "markdown" or "mermaid"
	Title         string `json:"title,omitempty"`  // overrides the extracted title
	MaxInputBytes int    `json:"max_input_bytes,omitempty"`
	MaxNodes      int    `json:"max_nodes,omitempty"`
	MaxEdges      int    `json:"max_edges,omitempty"`
	Refresh       bool   `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the converted playbook graph.
	Graph graph.Graph

	// Format is the source format that was actually used.
	Format convert.Format

	// Meta summarizes the conversion.
	Meta Meta

	// GraphHash is the content hash of the graph JSON.
	GraphHash string

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Meta is the conversion summary returned next to the graph.
type Meta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format"`
	NodeCount   int    `json:"node_count"`
	EdgeCount   int    `json:"edge_count"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	ConvertTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ConvertHit bool // Whether the graph came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForConvert(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForConvert checks the source text and format hint and applies
// limit defaults.
func (o *Options) ValidateForConvert() error {
	if o.MaxInputBytes <= 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxEdges <= 0 {
		o.MaxEdges = DefaultMaxEdges
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateContent(o.Content, o.MaxInputBytes); err != nil {
		return err
	}
	if o.Title != "" {
		if err := errors.ValidateTitle(o.Title); err != nil {
			return err
		}
	}
	_, err := convert.ParseFormat(o.Format)
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates export formats and direction after applying
// defaults. Format names are normalized to lower case.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	formats := make([]string, len(o.Formats))
	for i, name := range o.Formats {
		f, err := export.Validate(name)
		if err != nil {
			return err
		}
		formats[i] = string(f)
	}
	o.Formats = formats
	o.Direction = strings.ToUpper(o.Direction)
	if !nodelink.ValidDirection(o.Direction) {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid direction %q: must be one of %s", o.Direction, strings.Join(nodelink.Directions, ", "))
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for an export format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch export.Format(format) {
	case export.FormatDOT, export.FormatSVG, export.FormatPNG:
		k.Direction = o.Direction
		k.Detailed = o.Detailed
	}
	return k
}

// exportOptions maps render options onto the export package.
func (o *Options) exportOptions() export.Options {
	return export.Options{Direction: o.Direction, Detailed: o.Detailed}
}
