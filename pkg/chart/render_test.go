package chart

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/series"
)

var gap = series.Gap

func monthLabels(year, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%d-%02d", year+i/12, i%12+1)
	}
	return out
}

func twelveSteps() *forecast.Dataset {
	return &forecast.Dataset{
		Ticker:            "TEST",
		Labels:            monthLabels(2024, 12),
		Actual:            series.Series{10, 11, 12, 13, 14, 15, gap, gap, gap, gap, gap, gap},
		Predicted:         series.Series{gap, gap, gap, gap, gap, gap, 16, 17, 18, 19, 20, 21},
		PredictStartIndex: 6,
		Annotation:        "Model expects +40% over the next six months",
	}
}

func TestComposeEndToEnd(t *testing.T) {
	ds := twelveSteps()
	sc := Compose(ds, DefaultConfig())
	g := sc.Geometry

	if sc.Stitched[5] != 15 {
		t.Errorf("stitched[5] = %v, want 15", sc.Stitched[5])
	}
	if ds.Predicted.Defined(5) {
		t.Error("dataset predicted series was mutated")
	}
	if len(sc.Forecast) != 1 {
		t.Fatalf("forecast runs = %d, want 1", len(sc.Forecast))
	}
	run := sc.Forecast[0]
	if first := run[0]; first != (draw.Point{X: g.XAt(5), Y: g.YAt(15)}) {
		t.Errorf("forecast starts at %+v, want step 5 value 15", first)
	}
	if last := run[len(run)-1]; last != (draw.Point{X: g.XAt(11), Y: g.YAt(21)}) {
		t.Errorf("forecast ends at %+v, want step 11 value 21", last)
	}
	if sc.ForecastLeft != g.XAt(5) {
		t.Errorf("ForecastLeft = %v, want x(5) = %v", sc.ForecastLeft, g.XAt(5))
	}
	if g.Domain[0] > 10 || g.Domain[1] < 21 {
		t.Errorf("domain %v does not contain [10, 21]", g.Domain)
	}
}

func TestRenderFull(t *testing.T) {
	fig := Render(twelveSteps(), DefaultConfig(), reveal.Full())

	if got := len(fig.Polylines(LayerActual)); got != 1 {
		t.Errorf("actual polylines = %d, want 1", got)
	}
	fc := fig.Polylines(LayerForecast)
	if len(fc) != 1 {
		t.Fatalf("forecast polylines = %d, want 1", len(fc))
	}
	if n := len(fc[0].Points); n != 7 {
		t.Errorf("forecast points = %d, want 7 (steps 5..11)", n)
	}
	if got := len(fig.Layer(LayerSplit)); got != 1 {
		t.Errorf("split marker ops = %d, want 1", got)
	}

	var rects, texts int
	for _, op := range fig.Layer(LayerAnnotation) {
		switch op.Kind {
		case draw.OpRect:
			rects++
		case draw.OpText:
			texts++
		}
	}
	if rects != 1 || texts == 0 {
		t.Errorf("annotation drew %d rects and %d texts", rects, texts)
	}
}

func TestRenderRevealClipping(t *testing.T) {
	ds := twelveSteps()
	cfg := DefaultConfig()
	plot := Compose(ds, cfg).Geometry.Plot

	t.Run("idle draws no data", func(t *testing.T) {
		fig := Render(ds, cfg, reveal.Snapshot{State: reveal.Idle})
		if len(fig.Polylines(LayerActual)) != 0 || len(fig.Polylines(LayerForecast)) != 0 {
			t.Error("idle snapshot should not reveal any line")
		}
		if len(fig.Layer(LayerAnnotation)) != 0 || len(fig.Layer(LayerHistorical)) != 0 {
			t.Error("idle snapshot should not show faded layers")
		}
		if len(fig.Layer(LayerGrid)) == 0 {
			t.Error("grid should be drawn regardless of reveal")
		}
	})

	t.Run("boundary before forecast", func(t *testing.T) {
		snap := reveal.Snapshot{State: reveal.Animating, Progress: 0.1, Eased: 0.3}
		fig := Render(ds, cfg, snap)
		if len(fig.Polylines(LayerForecast)) != 0 {
			t.Error("forecast should stay hidden until the boundary passes the split")
		}
		var clipRight float64
		for _, op := range fig.Layer(LayerActual) {
			if op.Kind == draw.OpPushClip {
				clipRight = op.Rect.Right
			}
		}
		if want := snap.Boundary(plot); clipRight != want {
			t.Errorf("actual clip right = %v, want boundary %v", clipRight, want)
		}
	})

	t.Run("boundary past forecast start", func(t *testing.T) {
		snap := reveal.Snapshot{State: reveal.Animating, Progress: 0.5, Eased: 0.8}
		fig := Render(ds, cfg, snap)
		for _, op := range fig.Layer(LayerForecast) {
			if op.Kind == draw.OpPushClip && op.Rect.Right != snap.Boundary(plot) {
				t.Errorf("forecast clip right = %v, want %v", op.Rect.Right, snap.Boundary(plot))
			}
		}
		if len(fig.Polylines(LayerForecast)) != 1 {
			t.Error("forecast should be partially revealed")
		}
	})
}

func TestRenderSuppressed(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero height", func(c *Config) { c.Height = 0 }},
		{"padding swallows plot", func(c *Config) { c.Width = 60 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)
			fig := Render(twelveSteps(), cfg, reveal.Full())
			if len(fig.Ops) != 0 {
				t.Errorf("suppressed chart drew %d ops", len(fig.Ops))
			}
		})
	}
}

func TestConnectorMode(t *testing.T) {
	ds := twelveSteps()
	cfg := DefaultConfig()
	cfg.Continuity = false
	cfg.Connector = true

	sc := Compose(ds, cfg)
	if sc.Connector == nil {
		t.Fatal("connector missing with continuity off")
	}
	g := sc.Geometry
	if sc.Connector[0] != (draw.Point{X: g.XAt(5), Y: g.YAt(15)}) || sc.Connector[1] != (draw.Point{X: g.XAt(6), Y: g.YAt(16)}) {
		t.Errorf("connector = %v", sc.Connector)
	}
	if sc.Stitched.Defined(5) {
		t.Error("continuity off should not stitch")
	}
	if got := len(Render(ds, cfg, reveal.Full()).Polylines(LayerConnector)); got != 1 {
		t.Errorf("connector polylines = %d, want 1", got)
	}

	cfg.Continuity = true
	if Compose(ds, cfg).Connector != nil {
		t.Error("connector must not be drawn while continuity is on")
	}
}

func TestComposeMalformed(t *testing.T) {
	tests := []struct {
		name string
		ds   *forecast.Dataset
	}{
		{"nil dataset", nil},
		{"empty", &forecast.Dataset{}},
		{"length mismatch", &forecast.Dataset{
			Labels:    monthLabels(2024, 4),
			Actual:    series.Series{1, 2, 3, 4, 5, 6, 7},
			Predicted: series.Series{gap},
		}},
		{"start out of range", &forecast.Dataset{
			Labels:            monthLabels(2024, 3),
			Actual:            series.Series{1, 2, 3},
			Predicted:         series.Series{gap, gap, 4},
			PredictStartIndex: 99,
		}},
		{"negative start", &forecast.Dataset{
			Labels:            monthLabels(2024, 3),
			Actual:            series.Series{1, 2, 3},
			Predicted:         series.Series{4, 5, 6},
			PredictStartIndex: -2,
		}},
		{"single step", &forecast.Dataset{
			Labels:     []string{"2024-01"},
			Actual:     series.Series{5},
			Predicted:  series.Series{gap},
			Annotation: "lonely",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig := Render(tt.ds, DefaultConfig(), reveal.Full())
			for _, op := range fig.Ops {
				for _, p := range op.Points {
					if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
						t.Fatalf("op %s has non-finite point %+v", op.Kind, p)
					}
				}
			}
		})
	}
}

func TestRenderNeverBridgesGaps(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	cfg := DefaultConfig()
	cfg.Continuity = false
	for trial := range 100 {
		n := 2 + rng.IntN(30)
		ds := &forecast.Dataset{Labels: monthLabels(2020, n), PredictStartIndex: n}
		ds.Actual = make(series.Series, n)
		ds.Predicted = make(series.Series, n)
		for i := range n {
			ds.Actual[i] = gap
			ds.Predicted[i] = gap
			if rng.IntN(3) > 0 {
				ds.Actual[i] = rng.Float64() * 50
			}
		}

		sc := Compose(ds, cfg)
		g := sc.Geometry
		step := g.Plot.Width() / float64(max(n-1, 1))
		for _, run := range sc.Actual {
			prev := -1
			for _, p := range run {
				i := int(math.Round((p.X - g.Plot.Left) / step))
				if !ds.Actual.Defined(i) {
					t.Fatalf("trial %d: point %+v maps to gap index %d", trial, p, i)
				}
				if prev >= 0 && i != prev+1 {
					t.Fatalf("trial %d: run jumps from %d to %d", trial, prev, i)
				}
				prev = i
			}
		}
	}
}

func TestPlacementDeterministicAcrossRenders(t *testing.T) {
	ds := forecast.Synthetic("AAPL", forecast.SyntheticOptions{})
	a := Compose(ds, DefaultConfig()).Placement
	b := Compose(ds, DefaultConfig()).Placement
	if a == nil || b == nil {
		t.Fatal("expected a placement for an annotated dataset")
	}
	if *a != *b {
		t.Errorf("placements differ: %+v vs %+v", *a, *b)
	}
}

func TestDomainIgnoresPointsPastLabels(t *testing.T) {
	ds := &forecast.Dataset{
		Labels:            monthLabels(2024, 4),
		Actual:            series.Series{10, 11, gap, gap, 100000},
		Predicted:         series.Series{gap, 12, 13, 13, -50000},
		PredictStartIndex: 2,
		Historical:        []forecast.HistoricalPrediction{{AsOfIndex: 1, Values: series.Series{11, 12, 12, 12, 12, 90000}}},
	}
	d := Compose(ds, DefaultConfig()).Geometry.Domain
	if d[0] < -10 || d[1] > 100 {
		t.Errorf("domain %v stretched by values beyond the last label", d)
	}
	if d[0] > 10 || d[1] < 13 {
		t.Errorf("domain %v does not cover the drawn values [10, 13]", d)
	}
}

func TestHistoricalInDomain(t *testing.T) {
	ds := twelveSteps()
	ds.Historical = []forecast.HistoricalPrediction{{
		AsOfIndex: 3,
		Values:    series.Series{gap, gap, gap, 13, 40, 41, 42, gap, gap, gap, gap, gap},
	}}

	cfg := DefaultConfig()
	if d := Compose(ds, cfg).Geometry.Domain; d[1] < 42 {
		t.Errorf("domain %v should include historical values", d)
	}
	cfg.ShowHistorical = false
	if d := Compose(ds, cfg).Geometry.Domain; d[1] >= 40 {
		t.Errorf("hidden historical values should not widen the domain: %v", d)
	}
}
