// Package placement positions the chart's annotation callout.
//
// The engine lays a grid of candidate points over the plot rectangle and
// picks the one farthest from every drawn line segment, with a mild
// preference for the forecast side of the split. The callout is then
// anchored next to the winning point and clamped inside the plot; which edge
// the clamp hit decides where the callout's pointer faces.
//
// [Place] is a pure function: identical segments, geometry and options
// always produce a bit-identical [Result].
package placement

import (
	"math"

	"github.com/matzehuels/forecastviz/pkg/chart/line"
	"github.com/matzehuels/forecastviz/pkg/draw"
)

// Side is the direction the callout's pointer faces.
type Side string

const (
	SideUp    Side = "up"
	SideDown  Side = "down"
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Options controls the grid search and callout geometry.
type Options struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
	Cols   int     `toml:"cols" json:"cols"`
	Rows   int     `toml:"rows" json:"rows"`
	Bias   float64 `toml:"bias" json:"bias"`
	Inset  float64 `toml:"inset" json:"inset"`
	Offset float64 `toml:"offset" json:"offset"`
}

const (
	DefaultWidth  = 320
	DefaultHeight = 76
	DefaultCols   = 8
	DefaultRows   = 4
	DefaultBias   = 1.1
	DefaultInset  = 8
	DefaultOffset = 8
)

// DefaultOptions returns a 320x76 callout searched on an 8x4 grid.
func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Cols:   DefaultCols,
		Rows:   DefaultRows,
		Bias:   DefaultBias,
		Inset:  DefaultInset,
		Offset: DefaultOffset,
	}
}

// SetDefaults fills zero or negative fields.
func (o *Options) SetDefaults() {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Cols <= 0 {
		o.Cols = d.Cols
	}
	if o.Rows <= 0 {
		o.Rows = d.Rows
	}
	if o.Bias <= 0 {
		o.Bias = d.Bias
	}
	if o.Inset <= 0 {
		o.Inset = d.Inset
	}
	if o.Offset <= 0 {
		o.Offset = d.Offset
	}
}

// Result is the chosen callout position. At is the winning candidate and
// Score its biased distance; both are informational and Score is zero for
// the centered fallback.
type Result struct {
	Left  float64    `json:"left"`
	Top   float64    `json:"top"`
	Side  Side       `json:"side"`
	Score float64    `json:"score"`
	At    draw.Point `json:"at"`
}

// Box returns the callout rectangle for a result of the given size.
func (r Result) Box(width, height float64) draw.Rect {
	return draw.Rect{Left: r.Left, Top: r.Top, Right: r.Left + width, Bottom: r.Top + height}
}

// Candidates returns the grid cell centers in row-major order.
func Candidates(plot draw.Rect, cols, rows int) []draw.Point {
	cols, rows = max(cols, 1), max(rows, 1)
	cw := plot.Width() / float64(cols)
	ch := plot.Height() / float64(rows)
	out := make([]draw.Point, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			out = append(out, draw.Point{
				X: plot.Left + (float64(c)+0.5)*cw,
				Y: plot.Top + (float64(r)+0.5)*ch,
			})
		}
	}
	return out
}

// Place chooses where to draw the callout. splitX is the pixel x of the
// forecast start; candidates at or right of it get their score multiplied
// by opts.Bias. Ties go to the first candidate in row-major order.
//
// With no segments the callout is centered in plot with its pointer up.
func Place(segs []line.Segment, plot draw.Rect, splitX float64, opts Options) Result {
	opts.SetDefaults()

	if len(segs) == 0 {
		return Result{
			Left: plot.CenterX() - opts.Width/2,
			Top:  plot.CenterY() - opts.Height/2,
			Side: SideUp,
			At:   draw.Point{X: plot.CenterX(), Y: plot.CenterY()},
		}
	}

	best, bestScore := draw.Point{}, -1.0
	for _, p := range Candidates(plot, opts.Cols, opts.Rows) {
		score := MinDistance(p, segs)
		if p.X >= splitX {
			score *= opts.Bias
		}
		if score > bestScore {
			best, bestScore = p, score
		}
	}

	left := best.X + opts.Offset
	top := best.Y - opts.Height - opts.Offset

	minLeft := plot.Left + opts.Inset
	maxLeft := plot.Right - opts.Inset - opts.Width
	minTop := plot.Top + opts.Inset
	maxTop := plot.Bottom - opts.Inset - opts.Height

	hitTop := top < minTop
	hitLeft := left < minLeft
	hitRight := left > maxLeft

	left = clamp(left, minLeft, maxLeft)
	top = clamp(top, minTop, maxTop)

	side := SideUp
	switch {
	case hitTop:
		side = SideDown
	case hitLeft:
		side = SideRight
	case hitRight:
		side = SideLeft
	}

	return Result{Left: left, Top: top, Side: side, Score: bestScore, At: best}
}

// clamp prefers lo when the interval is inverted (callout larger than plot).
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// MinDistance returns the distance from p to the nearest segment, or +Inf
// when segs is empty.
func MinDistance(p draw.Point, segs []line.Segment) float64 {
	best := math.Inf(1)
	for _, s := range segs {
		best = min(best, SegmentDistance(p, s))
	}
	return best
}

// SegmentDistance is the Euclidean distance from p to segment s. The
// projection parameter is clamped to [0,1], so beyond either end the
// distance to that endpoint is used.
func SegmentDistance(p draw.Point, s line.Segment) float64 {
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return math.Hypot(p.X-s.A.X, p.Y-s.A.Y)
	}
	t := ((p.X-s.A.X)*dx + (p.Y-s.A.Y)*dy) / len2
	t = max(0, min(1, t))
	return math.Hypot(p.X-(s.A.X+t*dx), p.Y-(s.A.Y+t*dy))
}
