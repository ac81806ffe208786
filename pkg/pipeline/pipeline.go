// Package pipeline loads a forecast dataset and renders it into artifacts.
//
// The CLI and the preview server share this package so that caching,
// defaults and logging behave the same everywhere:
//
//  1. Load: resolve the ticker through a [source.Source]
//  2. Render: compose the chart and draw it at the requested reveal frame
//  3. Encode: produce each requested format, reading and writing the
//     artifact cache
//
// # Usage
//
//	runner := pipeline.NewRunner(src, fileCache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Ticker:  "AAPL",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// [source.Source]: github.com/matzehuels/forecastviz/pkg/source#Source
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/chart/placement"
	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/render/sink"
)

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Options configures one pipeline run.
type Options struct {
	Ticker  string   `json:"ticker"`
	Formats []string `json:"formats,omitempty"`

	// Chart is the chart configuration. Only the zero Config (Width, Height
	// and YTicks all zero) is replaced by chart.DefaultConfig. Any other
	// value is completed by SetDefaults, which fills zero numbers but leaves
	// booleans as given: Continuity, Annotation.Enabled, ShowHistorical and
	// SplitMarker stay false unless set. Start from chart.DefaultConfig to
	// change a single field.
	Chart chart.Config `json:"-"`

	// At selects the reveal frame: zero renders the finished chart, a
	// positive duration renders the frame at that elapsed time.
	At    time.Duration `json:"at,omitempty"`
	Scale float64       `json:"scale,omitempty"`
	Font  string        `json:"font,omitempty"`

	// Refresh bypasses cached artifacts (fresh ones are still stored).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateTicker(o.Ticker); err != nil {
		return err
	}
	o.Ticker = strings.ToUpper(o.Ticker)

	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatSVG}
	}
	seen := make(map[string]bool, len(o.Formats))
	formats := o.Formats[:0:0]
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if err := errors.ValidateFormat(f, sink.Formats...); err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	o.Formats = formats

	if o.At < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at must not be negative, got %s", o.At)
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}

	if isZeroChart(o.Chart) {
		o.Chart = chart.DefaultConfig()
	}
	o.Chart.SetDefaults()
	if err := o.Chart.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

func isZeroChart(c chart.Config) bool {
	return c.Width == 0 && c.Height == 0 && c.YTicks == 0
}

// Snapshot returns the reveal frame selected by At.
func (o *Options) Snapshot() reveal.Snapshot {
	if o.At <= 0 {
		return reveal.Full()
	}
	return reveal.At(o.Chart.Animation, o.At)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Dataset     *forecast.Dataset
	DatasetHash string
	Issues      []forecast.Issue

	Scene     *chart.Scene
	Figure    *draw.Figure
	Snapshot  reveal.Snapshot
	Placement *placement.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime   time.Duration
	RenderTime time.Duration
	Bytes      int
}

// CacheInfo tracks artifact cache hits.
type CacheInfo struct {
	// Hits lists the formats served from the cache.
	Hits []string
	// RenderHit is true when every artifact came from the cache.
	RenderHit bool
}
