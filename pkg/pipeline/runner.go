package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/playbookforge/pkg/cache"
	"github.com/matzehuels/playbookforge/pkg/convert"
	"github.com/matzehuels/playbookforge/pkg/graph"
	"github.com/matzehuels/playbookforge/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetimes when non-zero.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs convert then render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.Convert(ctx, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Graph, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("exported graph",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// cachedGraph is the cache entry for a converted graph.
type cachedGraph struct {
	Graph graph.Graph `json:"graph"`
	Meta  Meta        `json:"meta"`
}

// Convert runs the conversion stage with caching. Entries are keyed by the
// resolved source format and the hash of the text.
func (r *Runner) Convert(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForConvert(); err != nil {
		return nil, err
	}

	f := sourceFormat(opts)
	hooks := observability.Convert()
	hooks.OnConvertStart(ctx, string(f), len(opts.Content))
	start := time.Now()

	key := r.Keyer.GraphKey(string(f), cache.Hash([]byte(opts.Content)))
	entry, hit := r.lookupGraph(ctx, key, opts)
	if !hit {
		plain := opts
		plain.Title = ""
		g, meta, err := Convert(plain)
		if err != nil {
			hooks.OnConvertComplete(ctx, string(f), 0, 0, time.Since(start), err)
			return nil, err
		}
		entry = cachedGraph{Graph: g, Meta: meta}
		r.storeGraph(ctx, key, entry)
	}
	if opts.Title != "" {
		entry.Meta.Title = opts.Title
	}

	elapsed := time.Since(start)
	hooks.OnConvertComplete(ctx, string(f), entry.Graph.NodeCount(), entry.Graph.EdgeCount(), elapsed, nil)

	result := &Result{
		Graph:     entry.Graph,
		Format:    convert.Format(entry.Meta.Format),
		Meta:      entry.Meta,
		GraphHash: graphHash(entry.Graph),
		Artifacts: make(map[string][]byte),
		Stats: Stats{
			NodeCount:   entry.Graph.NodeCount(),
			EdgeCount:   entry.Graph.EdgeCount(),
			ConvertTime: elapsed,
		},
		CacheInfo: CacheInfo{ConvertHit: hit},
	}

	opts.Logger.Info("converted playbook",
		"format", result.Format,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", hit,
		"duration", elapsed)

	return result, nil
}

func (r *Runner) lookupGraph(ctx context.Context, key string, opts Options) (cachedGraph, bool) {
	if opts.Refresh {
		return cachedGraph{}, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return cachedGraph{}, false
	}

	var entry cachedGraph
	if err := json.Unmarshal(data, &entry); err != nil || entry.Graph.Validate() != nil {
		// Unreadable entries are treated as misses and overwritten.
		observability.Cache().OnCacheMiss(ctx, "graph")
		return cachedGraph{}, false
	}
	if checkLimits(entry.Graph, opts) != nil {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return cachedGraph{}, false
	}
	observability.Cache().OnCacheHit(ctx, "graph")
	return entry, true
}

func (r *Runner) storeGraph(ctx context.Context, key string, entry cachedGraph) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLGraph)); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "graph", len(data))
}

// RenderWithCacheInfo exports g with caching and reports whether every
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Convert()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	hash := graphHash(g)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, g, renderOpts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// graphHash returns the hash of the graph JSON, or "" if it cannot be
// encoded.
func graphHash(g graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
