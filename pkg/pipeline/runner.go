package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forecastviz/pkg/cache"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/observability"
	"github.com/matzehuels/forecastviz/pkg/source"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent runs.
type Runner struct {
	Source source.Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil source serves synthetic datasets, a nil
// cache disables caching and a nil keyer uses the default key layout.
func NewRunner(src source.Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if src == nil {
		src = source.Synthetic{}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Source: src, Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load, render and encode for one ticker.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)
	result := &Result{Artifacts: make(map[string][]byte)}

	loadStart := time.Now()
	ds, err := r.Load(ctx, opts.Ticker)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Ticker, err)
	}
	result.Dataset = ds
	result.Stats.LoadTime = time.Since(loadStart)
	result.Issues = forecast.Check(ds)
	for _, issue := range result.Issues {
		logger.Warn("dataset issue", "ticker", opts.Ticker, "issue", issue.String())
	}
	logger.Debug("loaded dataset",
		"ticker", opts.Ticker,
		"source", r.Source.Name(),
		"steps", ds.Len(),
		"duration", result.Stats.LoadTime)

	data, err := forecast.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("hash dataset: %w", err)
	}
	result.DatasetHash = cache.Hash(data)

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Ticker, opts.Formats)
	renderStart := time.Now()
	err = r.render(ctx, result, &opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Ticker, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Ticker, err)
	}

	for _, a := range result.Artifacts {
		result.Stats.Bytes += len(a)
	}
	logger.Info("rendered chart",
		"ticker", opts.Ticker,
		"formats", opts.Formats,
		"bytes", result.Stats.Bytes,
		"cached", result.CacheInfo.RenderHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Load resolves a ticker through the runner's source.
func (r *Runner) Load(ctx context.Context, ticker string) (*forecast.Dataset, error) {
	return r.Source.Dataset(ctx, ticker)
}

func (r *Runner) render(ctx context.Context, result *Result, opts *Options) error {
	configHash, err := cache.HashJSON(opts.Chart)
	if err != nil {
		return fmt.Errorf("hash config: %w", err)
	}

	// The scene is cheap and always recomputed; it feeds the JSON sink and
	// callers that report placement.
	Compose(result, opts)
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(result.DatasetHash, cache.ArtifactKeyOpts{
			Format: format,
			At:     opts.At,
			Scale:  opts.Scale,
			Config: configHash,
		})
	}

	var missing []string
	for _, format := range opts.Formats {
		key := keyFor(format)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	result.CacheInfo.RenderHit = len(missing) == 0

	for _, format := range missing {
		data, err := Encode(ctx, result, opts, format)
		if err != nil {
			return err
		}
		result.Artifacts[format] = data

		key := keyFor(format)
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.logger(*opts).Debug("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
