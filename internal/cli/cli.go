package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forecastviz/pkg/buildinfo"
	"github.com/matzehuels/forecastviz/pkg/cache"
	"github.com/matzehuels/forecastviz/pkg/pipeline"
	"github.com/matzehuels/forecastviz/pkg/render/sink"
)

const (
	appName = "forecastviz"

	// renderConcurrency bounds how many tickers render at once.
	renderConcurrency = 4
)

// Environment variables that provide flag defaults.
const (
	EnvAPIURL     = "FORECASTVIZ_API_URL"
	EnvRedisAddr  = "FORECASTVIZ_REDIS_ADDR"
	EnvMongoURI   = "FORECASTVIZ_MONGO_URI"
	EnvCacheScope = "FORECASTVIZ_CACHE_SCOPE"
)

// Levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI carries the logger shared by every subcommand.
type CLI struct {
	Logger *log.Logger
}

// New returns a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand assembles the forecastviz command tree.
// The logger is attached to each command's context before it runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Forecastviz renders animated stock forecast charts",
		Long:          `Forecastviz draws actual prices, the active forecast and superseded forecasts as a single chart, stitches the forecast onto the last known value, places the annotation where it covers the least data and exports SVG, PDF, PNG or the raw display list.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner opens the cache and the dataset source described by opts and
// returns a runner over them. Close the runner and call the returned
// cleanup when done.
func (c *CLI) newRunner(ctx context.Context, opts *sourceOpts) (*pipeline.Runner, func(), error) {
	store, err := newCache(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	src, closeSrc, err := c.newSource(ctx, opts, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return pipeline.NewRunner(src, store, opts.keyer(), c.Logger), closeSrc, nil
}

// newCache picks the redis cache when an address is configured, the file
// cache otherwise, and the null cache when caching is disabled or the cache
// directory is unavailable.
func newCache(ctx context.Context, opts *sourceOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, opts.redisAddr)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// parseFormats splits "svg, PNG" into {"svg", "png"}; empty input means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{sink.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
