package chart

import (
	"math"

	"github.com/matzehuels/forecastviz/pkg/chart/line"
	"github.com/matzehuels/forecastviz/pkg/chart/placement"
	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/chart/stitch"
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/series"
)

// Layer names used in recorded figures.
const (
	LayerGrid       = "grid"
	LayerAxis       = "axis"
	LayerSplit      = "split"
	LayerHistorical = "historical"
	LayerActual     = "actual"
	LayerConnector  = "connector"
	LayerForecast   = "forecast"
	LayerAnnotation = "annotation"
)

const (
	lineWidth       = 2.25
	historicalWidth = 1.25
	historicalAlpha = 0.55
	axisFontSize    = 11
	calloutPadding  = 12
	calloutRadius   = 8
	caretSize       = 8
)

// Scene is the fully computed, time-independent content of a chart. Draw
// paints it for one reveal snapshot.
type Scene struct {
	Config   Config   `json:"-"`
	Geometry Geometry `json:"geometry"`

	// Stitched is the forecast after continuity synthesis.
	Stitched   series.Series    `json:"stitched"`
	Actual     [][]draw.Point   `json:"actual"`
	Forecast   [][]draw.Point   `json:"forecast"`
	Historical [][][]draw.Point `json:"historical,omitempty"`
	Connector  []draw.Point     `json:"connector,omitempty"`
	Segments   []line.Segment   `json:"-"`

	// ForecastLeft is the left edge of the forecast clip: SplitX, or the
	// stitched point when continuity moved the forecast start left of it.
	ForecastLeft float64 `json:"forecast_left"`

	YTicks []Tick `json:"y_ticks"`
	XTicks []Tick `json:"x_ticks"`

	Placement *placement.Result `json:"placement,omitempty"`
	Lines     []string          `json:"lines,omitempty"`
	ShowSplit bool              `json:"show_split"`
}

// Suppressed reports whether the scene draws nothing.
func (s *Scene) Suppressed() bool { return s.Geometry.Suppressed() }

// Compose computes the scene for a dataset. It never fails: malformed
// datasets produce fewer or empty lines, and a zero-size canvas produces a
// suppressed scene.
func Compose(ds *forecast.Dataset, cfg Config) *Scene {
	if ds == nil {
		ds = &forecast.Dataset{}
	}
	n := ds.Len()
	start := ds.PredictStartIndex

	predicted := ds.Predicted
	if cfg.Continuity {
		predicted = stitch.Continuity(ds.Actual, ds.Predicted, start)
	}

	drawn := []series.Series{ds.Actual, predicted}
	if cfg.ShowHistorical {
		drawn = append(drawn, ds.HistoricalSeries()...)
	}
	// The domain covers only points that can be drawn.
	for i := range drawn {
		drawn[i] = clip(drawn[i], n)
	}

	g := NewGeometry(cfg, n, start, drawn...)
	sc := &Scene{Config: cfg, Geometry: g, Stitched: predicted, ForecastLeft: g.SplitX}
	if g.Suppressed() {
		return sc
	}

	x := func(i int) float64 { return g.XAt(i) }
	sc.Actual = line.Runs(clip(ds.Actual, n), x, g.YAt)
	sc.Forecast = line.Runs(clip(predicted, n), x, g.YAt)
	if cfg.ShowHistorical {
		for _, h := range ds.HistoricalSeries() {
			if runs := line.Runs(clip(h, n), x, g.YAt); len(runs) > 0 {
				sc.Historical = append(sc.Historical, runs)
			}
		}
	}
	if first := stitch.FirstDefinedFrom(clip(predicted, n), 0); first >= 0 && first < start {
		sc.ForecastLeft = max(g.Plot.Left, min(sc.ForecastLeft, g.XAt(first)))
	}

	if !cfg.Continuity && cfg.Connector {
		if from, to, ok := stitch.Connector(clip(ds.Actual, n), clip(ds.Predicted, n), start); ok {
			sc.Connector = []draw.Point{
				{X: g.XAt(from.Index), Y: g.YAt(from.Value)},
				{X: g.XAt(to.Index), Y: g.YAt(to.Value)},
			}
		}
	}

	sc.Segments = line.Segments(sc.Actual)
	sc.Segments = append(sc.Segments, line.Segments(sc.Forecast)...)
	for _, h := range sc.Historical {
		sc.Segments = append(sc.Segments, line.Segments(h)...)
	}
	if sc.Connector != nil {
		sc.Segments = append(sc.Segments, line.Segment{A: sc.Connector[0], B: sc.Connector[1]})
	}

	sc.YTicks = g.YTicks(cfg.YTicks)
	sc.XTicks = g.XTicks(ds.Labels, cfg.XTicks)
	sc.ShowSplit = cfg.SplitMarker && start > 0 && start < n

	if cfg.Annotation.Enabled && ds.Annotation != "" {
		opts := cfg.Annotation.Placement
		opts.SetDefaults()
		r := placement.Place(sc.Segments, g.Plot, g.SplitX, opts)
		sc.Placement = &r

		fs := cfg.Annotation.FontSize
		lh := LineHeight(fs)
		maxLines := max(1, int(math.Floor((opts.Height-2*calloutPadding+lh-fs)/lh)))
		sc.Lines = Wrap(ds.Annotation, opts.Width-2*calloutPadding, fs, maxLines)
	}
	return sc
}

// clip limits s to the label count so over-long series never draw outside
// the time axis.
func clip(s series.Series, n int) series.Series {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Render composes and draws a chart in one step. This is the pure
// render(state, config) entry point: the returned figure depends only on
// its arguments.
func Render(ds *forecast.Dataset, cfg Config, snap reveal.Snapshot) *draw.Figure {
	f := draw.NewFigure(max(cfg.Width, 0), max(cfg.Height, 0))
	sc := Compose(ds, cfg)
	if sc.Suppressed() {
		return f
	}
	f.Background = cfg.Colors.Background
	sc.Draw(f, snap)
	return f
}

// Draw paints the scene for one reveal snapshot, back to front.
func (s *Scene) Draw(surf draw.Surface, snap reveal.Snapshot) {
	if s.Suppressed() {
		return
	}
	layer := func(name string) {
		if l, ok := surf.(interface{ SetLayer(string) }); ok {
			l.SetLayer(name)
		}
	}
	g := s.Geometry
	plot := g.Plot
	colors := s.Config.Colors
	boundary := snap.Boundary(plot)

	layer(LayerGrid)
	grid := draw.Stroke{Color: colors.Grid, Width: 1, Opacity: 1}
	for _, t := range s.YTicks {
		surf.Polyline([]draw.Point{{X: plot.Left, Y: t.Pos}, {X: plot.Right, Y: t.Pos}}, grid)
	}

	layer(LayerAxis)
	surf.Polyline([]draw.Point{{X: plot.Left, Y: plot.Bottom}, {X: plot.Right, Y: plot.Bottom}},
		draw.Stroke{Color: colors.Axis, Width: 1, Opacity: 1})
	for _, t := range s.YTicks {
		surf.Text(draw.Point{X: plot.Left - 8, Y: t.Pos + 4}, t.Label,
			draw.TextStyle{Color: colors.Axis, Size: axisFontSize, Anchor: draw.AnchorEnd, Opacity: 1})
	}
	for _, t := range s.XTicks {
		surf.Text(draw.Point{X: t.Pos, Y: plot.Bottom + 18}, t.Label,
			draw.TextStyle{Color: colors.Axis, Size: axisFontSize, Anchor: draw.AnchorMiddle, Opacity: 1})
	}

	if s.ShowSplit {
		layer(LayerSplit)
		surf.Polyline([]draw.Point{{X: g.SplitX, Y: plot.Top}, {X: g.SplitX, Y: plot.Bottom}},
			draw.Stroke{Color: colors.Split, Width: 1, Opacity: 1, Dash: []float64{4, 4}})
	}

	if op := snap.HistoricalOpacity; op > 0 && len(s.Historical) > 0 {
		layer(LayerHistorical)
		st := line.Style{Stroke: draw.Stroke{Color: colors.Historical, Width: historicalWidth, Opacity: historicalAlpha * op, Dash: []float64{3, 3}}}
		for _, runs := range s.Historical {
			line.Draw(surf, runs, plot, st)
		}
	}

	revealed := draw.Rect{Left: plot.Left, Top: plot.Top, Right: boundary, Bottom: plot.Bottom}.Intersect(plot)

	layer(LayerActual)
	line.Draw(surf, s.Actual, revealed, line.Style{
		Stroke: draw.Stroke{Color: colors.Actual, Width: lineWidth, Opacity: 1},
		Glow:   s.Config.Glow,
	})

	if s.Connector != nil {
		layer(LayerConnector)
		line.Draw(surf, [][]draw.Point{s.Connector}, revealed,
			line.Style{Stroke: draw.Stroke{Color: colors.Connector, Width: 1.5, Opacity: 1, Dash: []float64{2, 3}}})
	}

	layer(LayerForecast)
	fclip := draw.Rect{Left: s.ForecastLeft, Top: plot.Top, Right: max(s.ForecastLeft, boundary), Bottom: plot.Bottom}.Intersect(plot)
	line.Draw(surf, s.Forecast, fclip, line.Style{
		Stroke: draw.Stroke{Color: colors.Forecast, Width: lineWidth, Opacity: 1, Dash: []float64{6, 4}},
		Glow:   s.Config.Glow,
	})

	if op := snap.AnnotationOpacity; op > 0 && s.Placement != nil {
		layer(LayerAnnotation)
		s.drawCallout(surf, op)
	}
}

func (s *Scene) drawCallout(surf draw.Surface, opacity float64) {
	opts := s.Config.Annotation.Placement
	opts.SetDefaults()
	colors := s.Config.Colors
	box := s.Placement.Box(opts.Width, opts.Height)
	border := draw.Stroke{Color: colors.AnnotationBorder, Width: 1, Opacity: opacity}

	surf.Rect(box, draw.Fill{Color: colors.AnnotationFill, Opacity: 0.96 * opacity, Stroke: &border, Radius: calloutRadius})
	surf.Polyline(caret(box, s.Placement.Side), border)

	fs := s.Config.Annotation.FontSize
	lh := LineHeight(fs)
	for i, text := range s.Lines {
		surf.Text(draw.Point{X: box.Left + calloutPadding, Y: box.Top + calloutPadding + fs + float64(i)*lh}, text,
			draw.TextStyle{Color: colors.Text, Size: fs, Opacity: opacity})
	}
}

// caret returns the pointer triangle on the edge of box facing side.
func caret(box draw.Rect, side placement.Side) []draw.Point {
	const inset = 2 * calloutPadding
	switch side {
	case placement.SideDown:
		x := box.Left + inset
		return []draw.Point{{X: x, Y: box.Bottom}, {X: x + caretSize, Y: box.Bottom + caretSize}, {X: x + 2*caretSize, Y: box.Bottom}}
	case placement.SideLeft:
		y := box.Top + inset
		return []draw.Point{{X: box.Left, Y: y}, {X: box.Left - caretSize, Y: y + caretSize}, {X: box.Left, Y: y + 2*caretSize}}
	case placement.SideRight:
		y := box.Top + inset
		return []draw.Point{{X: box.Right, Y: y}, {X: box.Right + caretSize, Y: y + caretSize}, {X: box.Right, Y: y + 2*caretSize}}
	default:
		x := box.Left + inset
		return []draw.Point{{X: x, Y: box.Top}, {X: x + caretSize, Y: box.Top - caretSize}, {X: x + 2*caretSize, Y: box.Top}}
	}
}
