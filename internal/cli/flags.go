package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forecastviz/pkg/cache"
	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/source"
	"github.com/matzehuels/forecastviz/pkg/source/api"
	"github.com/matzehuels/forecastviz/pkg/source/mongo"
)

const defaultMongoDB = "forecastviz"

// sourceOpts selects where datasets come from and how they are cached.
type sourceOpts struct {
	input     string // dataset file or directory of <TICKER>.json
	apiURL    string // forecast backend base URL
	mongoURI  string // MongoDB connection string
	mongoDB   string // MongoDB database name
	redisAddr string // redis cache address
	scope     string // cache key prefix shared by every key this process writes
	noCache   bool   // disable all caching
	refresh   bool   // bypass cached entries but still write them
	strict    bool   // fail instead of falling back to synthetic data
}

func (o *sourceOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", "", "dataset JSON file or directory of <TICKER>.json files")
	f.StringVar(&o.apiURL, "api", envOr(EnvAPIURL, ""), "forecast backend base URL (env "+EnvAPIURL+")")
	f.StringVar(&o.mongoURI, "mongo", envOr(EnvMongoURI, ""), "MongoDB URI (env "+EnvMongoURI+")")
	f.StringVar(&o.mongoDB, "mongo-db", defaultMongoDB, "MongoDB database")
	f.StringVar(&o.redisAddr, "redis", envOr(EnvRedisAddr, ""), "redis address for the cache (env "+EnvRedisAddr+")")
	f.StringVar(&o.scope, "cache-scope", envOr(EnvCacheScope, ""), "prefix for cache keys, e.g. staging: (env "+EnvCacheScope+")")
	f.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&o.refresh, "refresh", false, "ignore cached entries")
	f.BoolVar(&o.strict, "strict", false, "fail instead of using synthetic data when the source errors")
}

// keyer returns the default key layout, prefixed when a scope is set.
func (o *sourceOpts) keyer() cache.Keyer {
	if o.scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, o.scope)
}

func (o *sourceOpts) validate() error {
	set := 0
	for _, v := range []string{o.input, o.apiURL, o.mongoURI} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("--input, --api and --mongo are mutually exclusive")
	}
	return nil
}

// newSource builds the primary source and wraps it in the synthetic
// fallback unless strict is set. With no primary configured every ticker is
// served synthetically.
func (c *CLI) newSource(ctx context.Context, o *sourceOpts, store cache.Cache) (source.Source, func(), error) {
	if err := o.validate(); err != nil {
		return nil, nil, err
	}
	cleanup := func() {}

	var primary source.Source
	switch {
	case o.input != "":
		primary = source.File{Path: o.input}
	case o.apiURL != "":
		client, err := api.NewClient(o.apiURL,
			api.WithCache(store, cache.TTLDataset),
			api.WithKeyer(o.keyer()),
			api.WithRefresh(o.refresh))
		if err != nil {
			return nil, nil, err
		}
		primary = client
	case o.mongoURI != "":
		st, err := mongo.Connect(ctx, o.mongoURI, o.mongoDB)
		if err != nil {
			return nil, nil, err
		}
		primary = st
		cleanup = func() { _ = st.Close(context.Background()) }
	}

	if o.strict {
		if primary == nil {
			return source.Synthetic{}, cleanup, nil
		}
		return primary, cleanup, nil
	}
	return source.NewFallback(primary, c.Logger), cleanup, nil
}

// chartOpts are the chart.Config overrides exposed as flags.
type chartOpts struct {
	config       string
	width        float64
	height       float64
	noAnimation  bool
	noContinuity bool
	noHistorical bool
	noSplit      bool
	connector    bool
	glow         bool
}

func (o *chartOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.config, "config", "c", "", "chart config file (TOML)")
	f.Float64Var(&o.width, "width", chart.DefaultWidth, "chart width")
	f.Float64Var(&o.height, "height", chart.DefaultHeight, "chart height")
	f.BoolVar(&o.noAnimation, "no-animation", false, "disable the reveal animation")
	f.BoolVar(&o.noContinuity, "no-continuity", false, "do not stitch the forecast onto the last actual value")
	f.BoolVar(&o.noHistorical, "no-historical", false, "hide superseded forecasts")
	f.BoolVar(&o.noSplit, "no-split", false, "hide the forecast start marker")
	f.BoolVar(&o.connector, "connector", false, "draw a dashed connector from the last actual value")
	f.BoolVar(&o.glow, "glow", false, "draw a glow under the forecast line")
}

// build loads the config file, if any, and applies the flags the user set.
// Unset flags leave file values alone.
func (o *chartOpts) build(cmd *cobra.Command) (chart.Config, error) {
	cfg := chart.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = chart.LoadConfig(o.config); err != nil {
			return cfg, err
		}
	}
	changed := cmd.Flags().Changed
	if changed("width") {
		cfg.Width = o.width
	}
	if changed("height") {
		cfg.Height = o.height
	}
	if changed("no-animation") {
		cfg.Animation.Enabled = !o.noAnimation
	}
	if changed("no-continuity") {
		cfg.Continuity = !o.noContinuity
	}
	if changed("no-historical") {
		cfg.ShowHistorical = !o.noHistorical
	}
	if changed("no-split") {
		cfg.SplitMarker = !o.noSplit
	}
	if changed("connector") {
		cfg.Connector = o.connector
	}
	if changed("glow") {
		cfg.Glow = o.glow
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
