package line

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/series"
)

var (
	gap = series.Gap
	ix  = func(i int) float64 { return float64(i) }
	iy  = func(v float64) float64 { return v }
)

func TestIndexRuns(t *testing.T) {
	tests := []struct {
		name string
		in   series.Series
		want []IndexRun
	}{
		{"empty", nil, nil},
		{"all gaps", series.Series{gap, gap}, nil},
		{"single point dropped", series.Series{1, gap, 2}, nil},
		{"one run", series.Series{1, 2, 3}, []IndexRun{{0, 2}}},
		{"split by gap", series.Series{1, 2, gap, 3, 4, 5}, []IndexRun{{0, 1}, {3, 5}}},
		{"leading and trailing gaps", series.Series{gap, 1, 2, gap}, []IndexRun{{1, 2}}},
		{"non-finite is a gap", series.Series{1, 2, math.Inf(1), 3, 4}, []IndexRun{{0, 1}, {3, 4}}},
		{"isolated tail dropped", series.Series{1, 2, gap, 9}, []IndexRun{{0, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IndexRuns(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("IndexRuns() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("run %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRunsMapsPoints(t *testing.T) {
	runs := Runs(series.Series{5, 6, gap, 7, 8},
		func(i int) float64 { return float64(i) * 10 },
		func(v float64) float64 { return 100 - v })
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[1][0] != (draw.Point{X: 30, Y: 93}) {
		t.Errorf("second run starts at %+v, want {30 93}", runs[1][0])
	}
}

func TestSegmentsNeverTouchGaps(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := range 500 {
		n := 1 + rng.IntN(30)
		s := make(series.Series, n)
		for i := range s {
			if rng.IntN(3) == 0 {
				s[i] = gap
			} else {
				s[i] = rng.Float64() * 100
			}
		}
		for _, seg := range Segments(Runs(s, ix, iy)) {
			a, b := int(seg.A.X), int(seg.B.X)
			if b != a+1 {
				t.Fatalf("trial %d: segment %v bridges indices %d..%d", trial, seg, a, b)
			}
			if series.IsGap(s[a]) || series.IsGap(s[b]) {
				t.Fatalf("trial %d: segment %v touches a gap", trial, seg)
			}
		}
	}
}

func TestGlowStroke(t *testing.T) {
	st := Style{Stroke: draw.Stroke{Color: "#f00", Width: 2, Opacity: 0.8, Dash: []float64{4, 2}}, Glow: true}
	g := st.GlowStroke()
	if g.Width != 6 || math.Abs(g.Opacity-0.2) > 1e-12 || g.Dash != nil || g.Color != "#f00" {
		t.Errorf("GlowStroke() = %+v", g)
	}
	if st.Stroke.Width != 2 {
		t.Error("GlowStroke mutated the style")
	}
}

func TestDraw(t *testing.T) {
	clip := draw.Rect{Left: 0, Top: 0, Right: 50, Bottom: 50}
	runs := Runs(series.Series{1, 2, gap, 3, 4}, ix, iy)

	t.Run("plain", func(t *testing.T) {
		f := draw.NewFigure(100, 100)
		Draw(f, runs, clip, Style{Stroke: draw.Stroke{Width: 2, Opacity: 1}})
		kinds := opKinds(f)
		want := []draw.OpKind{draw.OpPushClip, draw.OpPolyline, draw.OpPolyline, draw.OpPopClip}
		if !equalKinds(kinds, want) {
			t.Errorf("ops = %v, want %v", kinds, want)
		}
	})

	t.Run("glow beneath", func(t *testing.T) {
		f := draw.NewFigure(100, 100)
		Draw(f, runs, clip, Style{Stroke: draw.Stroke{Width: 2, Opacity: 1}, Glow: true})
		if len(f.Ops) != 6 {
			t.Fatalf("got %d ops, want 6", len(f.Ops))
		}
		if f.Ops[1].Stroke.Width != 6 || f.Ops[3].Stroke.Width != 2 {
			t.Errorf("glow should precede the main stroke: widths %v, %v", f.Ops[1].Stroke.Width, f.Ops[3].Stroke.Width)
		}
	})

	t.Run("empty clip", func(t *testing.T) {
		f := draw.NewFigure(100, 100)
		Draw(f, runs, draw.Rect{Left: 10, Right: 10, Bottom: 50}, Style{})
		if len(f.Ops) != 0 {
			t.Errorf("empty clip drew %d ops", len(f.Ops))
		}
	})
}

func opKinds(f *draw.Figure) []draw.OpKind {
	out := make([]draw.OpKind, len(f.Ops))
	for i, op := range f.Ops {
		out[i] = op.Kind
	}
	return out
}

func equalKinds(a, b []draw.OpKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
