package sink

import (
	"context"

	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatPNG, FormatPDF}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Options collects the per-format options used by [Render].
type Options struct {
	Font  string
	Scale float64
	JSON  []JSONOption
}

// Render produces the figure in the named format.
func Render(ctx context.Context, format string, f *draw.Figure, opts Options) ([]byte, error) {
	var svgOpts []SVGOption
	if opts.Font != "" {
		svgOpts = append(svgOpts, WithFont(opts.Font))
	}
	switch format {
	case FormatSVG:
		return RenderSVG(f, svgOpts...), nil
	case FormatJSON:
		return RenderJSON(f, opts.JSON...)
	case FormatPDF:
		return RenderPDF(ctx, f, WithSVG(svgOpts...))
	case FormatPNG:
		return RenderPNG(ctx, f, WithSVG(svgOpts...), WithScale(opts.Scale))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}
