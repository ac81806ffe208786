// Package line turns gapped series into polylines.
//
// A run is a maximal stretch of consecutive defined values. Runs never
// connect across a gap, and a run with fewer than two points is dropped
// because it cannot form a line. [Runs] returns the pixel polylines,
// [Segments] flattens them into individual line segments for geometry
// queries, and [Draw] paints them onto a clipped surface.
package line

import (
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/series"
)

// Segment is a straight piece of a drawn line.
type Segment struct {
	A, B draw.Point
}

// IndexRun is a run expressed as series indices [Start, End] inclusive.
type IndexRun struct {
	Start, End int
}

// IndexRuns returns the runs of s with at least two defined points.
func IndexRuns(s series.Series) []IndexRun {
	var out []IndexRun
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= 1 {
			out = append(out, IndexRun{Start: start, End: end})
		}
		start = -1
	}
	for i, v := range s {
		if series.IsGap(v) {
			flush(i - 1)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(s) - 1)
	return out
}

// Runs maps each run of s to pixel space. x converts an index, y a value.
func Runs(s series.Series, x func(int) float64, y func(float64) float64) [][]draw.Point {
	idx := IndexRuns(s)
	out := make([][]draw.Point, 0, len(idx))
	for _, r := range idx {
		pts := make([]draw.Point, 0, r.End-r.Start+1)
		for i := r.Start; i <= r.End; i++ {
			pts = append(pts, draw.Point{X: x(i), Y: y(s[i])})
		}
		out = append(out, pts)
	}
	return out
}

// Segments flattens polylines into their consecutive point pairs.
func Segments(runs [][]draw.Point) []Segment {
	var out []Segment
	for _, pts := range runs {
		for i := 1; i < len(pts); i++ {
			out = append(out, Segment{A: pts[i-1], B: pts[i]})
		}
	}
	return out
}

// Style is how a series is drawn. A zero Glow disables the glow pass.
type Style struct {
	Stroke draw.Stroke
	Glow   bool
}

const (
	glowWidth   = 3.0
	glowOpacity = 0.25
)

// GlowStroke returns the wider, fainter stroke painted beneath the main one.
func (st Style) GlowStroke() draw.Stroke {
	g := st.Stroke
	g.Width *= glowWidth
	g.Opacity *= glowOpacity
	g.Dash = nil
	return g
}

// Draw paints runs onto s inside clip. Nothing is emitted when there are no
// runs or the clip is empty.
func Draw(s draw.Surface, runs [][]draw.Point, clip draw.Rect, st Style) {
	if len(runs) == 0 || clip.Empty() {
		return
	}
	draw.WithClip(s, clip, func() {
		if st.Glow {
			g := st.GlowStroke()
			for _, pts := range runs {
				s.Polyline(pts, g)
			}
		}
		for _, pts := range runs {
			s.Polyline(pts, st.Stroke)
		}
	})
}

// DrawSeries is Runs followed by Draw.
func DrawSeries(s draw.Surface, data series.Series, x func(int) float64, y func(float64) float64, clip draw.Rect, st Style) [][]draw.Point {
	runs := Runs(data, x, y)
	Draw(s, runs, clip, st)
	return runs
}
