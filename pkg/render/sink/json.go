package sink

import (
	"encoding/json"

	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/draw"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	ticker string
	scene  *chart.Scene
	snap   *reveal.Snapshot
}

// WithJSONTicker records the ticker symbol in the output.
func WithJSONTicker(t string) JSONOption { return func(r *jsonRenderer) { r.ticker = t } }

// WithJSONScene includes the computed scene: plot geometry, stitched
// forecast, axis ticks and annotation placement.
func WithJSONScene(sc *chart.Scene) JSONOption { return func(r *jsonRenderer) { r.scene = sc } }

// WithJSONSnapshot records the reveal snapshot the figure was drawn at.
func WithJSONSnapshot(s reveal.Snapshot) JSONOption {
	return func(r *jsonRenderer) { r.snap = &s }
}

type jsonOutput struct {
	Ticker   string           `json:"ticker,omitempty"`
	Snapshot *reveal.Snapshot `json:"snapshot,omitempty"`
	Scene    *chart.Scene     `json:"scene,omitempty"`
	Figure   *draw.Figure     `json:"figure"`
}

// RenderJSON encodes the figure's display list as indented JSON.
func RenderJSON(f *draw.Figure, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return json.MarshalIndent(jsonOutput{
		Ticker:   r.ticker,
		Snapshot: r.snap,
		Scene:    r.scene,
		Figure:   f,
	}, "", "  ")
}
