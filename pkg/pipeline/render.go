package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/render/sink"
)

// Compose fills the scene, snapshot and figure of result from its dataset.
func Compose(result *Result, opts *Options) {
	result.Snapshot = opts.Snapshot()
	result.Scene = chart.Compose(result.Dataset, opts.Chart)
	result.Placement = result.Scene.Placement
	result.Figure = chart.Render(result.Dataset, opts.Chart, result.Snapshot)
}

// Encode produces one artifact from a composed result.
func Encode(ctx context.Context, result *Result, opts *Options, format string) ([]byte, error) {
	data, err := sink.Render(ctx, format, result.Figure, sink.Options{
		Font:  opts.Font,
		Scale: opts.Scale,
		JSON: []sink.JSONOption{
			sink.WithJSONTicker(opts.Ticker),
			sink.WithJSONScene(result.Scene),
			sink.WithJSONSnapshot(result.Snapshot),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}
	return data, nil
}
