package chart

import (
	"github.com/matzehuels/forecastviz/pkg/chart/scale"
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/series"
)

// PlotRect returns the drawable area of a width x height canvas after
// padding. A canvas too small for its padding yields an empty rectangle.
func PlotRect(width, height float64, p Padding) draw.Rect {
	r := draw.Rect{Left: p.Left, Top: p.Top, Right: width - p.Right, Bottom: height - p.Bottom}
	if r.Right < r.Left {
		r.Right = r.Left
	}
	if r.Bottom < r.Top {
		r.Bottom = r.Top
	}
	return r
}

// Geometry holds the plot rectangle and scales of one render pass. SplitX
// is the pixel x of the forecast start, clamped to the plot.
type Geometry struct {
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Plot   draw.Rect  `json:"plot"`
	Domain [2]float64 `json:"domain"`
	Steps  int        `json:"steps"`
	SplitX float64    `json:"split_x"`

	X scale.Linear `json:"-"`
	Y scale.Linear `json:"-"`
}

// NewGeometry computes the plot rectangle and the shared scales. drawn lists
// every series that will be drawn; the y domain is their nice-rounded union
// extent.
func NewGeometry(cfg Config, steps, start int, drawn ...series.Series) Geometry {
	plot := PlotRect(cfg.Width, cfg.Height, cfg.Padding)
	domain := scale.NiceDomain(scale.ExtentOfMany(drawn...), max(cfg.YTicks-1, 1))
	g := Geometry{
		Width:  cfg.Width,
		Height: cfg.Height,
		Plot:   plot,
		Domain: domain,
		Steps:  steps,
		X:      scale.Index(steps, plot.Left, plot.Right),
		Y:      scale.NewLinear(domain, [2]float64{plot.Bottom, plot.Top}),
	}
	g.SplitX = max(plot.Left, min(plot.Right, g.X.Map(float64(start))))
	return g
}

// XAt returns the pixel x of step i.
func (g Geometry) XAt(i int) float64 { return g.X.Map(float64(i)) }

// YAt returns the pixel y of value v.
func (g Geometry) YAt(v float64) float64 { return g.Y.Map(v) }

// Suppressed reports whether nothing should be drawn.
func (g Geometry) Suppressed() bool {
	return g.Width <= 0 || g.Height <= 0 || g.Plot.Empty()
}
