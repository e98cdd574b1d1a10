package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importviz/pkg/cache"
	"github.com/matzehuels/importviz/pkg/fetch"
	"github.com/matzehuels/importviz/pkg/module"
	"github.com/matzehuels/importviz/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its loader, cache and logger, so
// multiple goroutines can share one Runner with different options.
type Runner struct {
	Loader *fetch.Loader
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner fetching through loader.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (artifact caching disabled).
func NewRunner(loader *fetch.Loader, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Loader: loader,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultArtifactTTL,
	}
}

// Execute runs the complete fetch → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Refresh {
		r.Loader.Invalidate(ctx, opts.Source)
	}

	result := &Result{Artifacts: make(map[render.Format][]byte)}

	// Stage 1: Fetch
	fetchStart := time.Now()
	data, err := r.Loader.Bytes(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.DatasetHash = cache.Hash(data)

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, result.DatasetHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Debug("artifacts served from cache", "source", opts.Source, "formats", opts.Formats)
			return result, nil
		}
	}

	ds, err := r.Loader.Fetch(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Dataset = ds
	result.Stats.ModuleCount = ds.Len()
	result.Stats.FetchTime = time.Since(fetchStart)

	r.Logger.Info("loaded dataset",
		"modules", ds.Len(),
		"entrypoints", len(ds.Entrypoints()),
		"edges", len(ds.Edges()),
		"duration", result.Stats.FetchTime)

	// Stages 2 and 3: Layout and Render
	renderStart := time.Now()
	out, err := RenderDataset(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = out.Artifacts
	result.Clicks = out.Clicks
	result.Stats.BoxCount = out.Boxes
	result.Stats.ConnectorCount = out.Conns
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"boxes", out.Boxes,
		"connectors", out.Conns,
		"duration", result.Stats.RenderTime)

	for f, data := range out.Artifacts {
		key := r.Keyer.ArtifactKey(result.DatasetHash, opts.ArtifactKeyOpts(f))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", f, "err", err)
		}
	}
	return result, nil
}

// cached returns every requested artifact if all are in the cache.
func (r *Runner) cached(ctx context.Context, datasetHash string, opts Options) (map[render.Format][]byte, bool) {
	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(f)))
		if err != nil || !hit {
			return nil, false
		}
		artifacts[f] = data
	}
	return artifacts, true
}

// Dataset fetches and parses a dataset without rendering it.
func (r *Runner) Dataset(ctx context.Context, source string) (*module.Dataset, error) {
	return r.Loader.Fetch(ctx, source)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
