// Package render converts rendered charts between output formats.
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The [sink] subpackage builds
// on them to turn a recorded [draw.Figure] into bytes.
//
//	svg := svg.Render(fig)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is missing both functions return an UNSUPPORTED error;
// [Available] lets callers check up front.
//
// [sink]: github.com/matzehuels/forecastviz/pkg/render/sink
// [draw.Figure]: github.com/matzehuels/forecastviz/pkg/draw#Figure
package render
