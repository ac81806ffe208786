package sink

import (
	"context"

	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/render"
)

// RasterOption configures [RenderPNG] and [RenderPDF]. Both draw the SVG
// first and hand it to rsvg-convert.
type RasterOption func(*raster)

type raster struct {
	svg   []SVGOption
	scale float64 // PNG only
}

// WithSVG forwards options to the intermediate SVG.
func WithSVG(opts ...SVGOption) RasterOption {
	return func(r *raster) { r.svg = append(r.svg, opts...) }
}

// WithScale sets the PNG zoom factor. The default is 2.
func WithScale(s float64) RasterOption {
	return func(r *raster) {
		if s > 0 {
			r.scale = s
		}
	}
}

func newRaster(opts []RasterOption) raster {
	r := raster{scale: 2}
	for _, o := range opts {
		o(&r)
	}
	return r
}

func RenderPNG(ctx context.Context, f *draw.Figure, opts ...RasterOption) ([]byte, error) {
	r := newRaster(opts)
	return render.ToPNG(ctx, RenderSVG(f, r.svg...), r.scale)
}

func RenderPDF(ctx context.Context, f *draw.Figure, opts ...RasterOption) ([]byte, error) {
	r := newRaster(opts)
	return render.ToPDF(ctx, RenderSVG(f, r.svg...))
}
