package sink

import (
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/draw/svg"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	font   string
	prefix string
}

// WithFont sets the CSS font-family of the document.
func WithFont(family string) SVGOption { return func(r *svgRenderer) { r.font = family } }

// WithIDPrefix overrides the clip-path id prefix, which otherwise derives
// from the figure ID.
func WithIDPrefix(p string) SVGOption { return func(r *svgRenderer) { r.prefix = p } }

// RenderSVG renders the figure as a standalone SVG document.
func RenderSVG(f *draw.Figure, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	var so []svg.Option
	if r.font != "" {
		so = append(so, svg.WithFont(r.font))
	}
	if r.prefix != "" {
		so = append(so, svg.WithIDPrefix(r.prefix))
	}
	return svg.Render(f, so...)
}
