// Package svg implements [draw.Surface] as an SVG document writer.
//
// Clip regions become nested <g clip-path> groups whose <clipPath> ids are
// derived from a per-document prefix, so several charts can be inlined into
// one HTML page without id collisions.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/forecastviz/pkg/draw"
)

const defaultFont = "system-ui, -apple-system, Segoe UI, Roboto, sans-serif"

// Option configures a [Surface].
type Option func(*Surface)

// WithIDPrefix sets the prefix for generated element ids.
func WithIDPrefix(p string) Option { return func(s *Surface) { s.prefix = p } }

// WithBackground fills the whole canvas with the given color.
func WithBackground(color string) Option { return func(s *Surface) { s.background = color } }

// WithFont sets the font-family used for text.
func WithFont(family string) Option { return func(s *Surface) { s.font = family } }

var _ draw.Surface = (*Surface)(nil)

// Surface accumulates SVG markup. The zero value is not usable; create one
// with [New].
type Surface struct {
	buf        bytes.Buffer
	width      float64
	height     float64
	prefix     string
	background string
	font       string
	clips      int
	depth      int
}

// New starts an SVG document of the given pixel size.
func New(width, height float64, opts ...Option) *Surface {
	s := &Surface{width: width, height: height, prefix: "fv", font: defaultFont}
	for _, opt := range opts {
		opt(s)
	}
	fmt.Fprintf(&s.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		width, height, width, height, escape(s.font))
	if s.background != "" {
		fmt.Fprintf(&s.buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			width, height, escape(s.background))
	}
	return s
}

func (s *Surface) indent() string { return strings.Repeat("  ", s.depth+1) }

func (s *Surface) Polyline(pts []draw.Point, st draw.Stroke) {
	if len(pts) < 2 {
		return
	}
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(&s.buf, `%s<polyline points="%s" fill="none" stroke-linejoin="round" stroke-linecap="round"%s/>`+"\n",
		s.indent(), b.String(), strokeAttrs(st))
}

func (s *Surface) Rect(r draw.Rect, f draw.Fill) {
	fmt.Fprintf(&s.buf, `%s<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"`,
		s.indent(), r.Left, r.Top, r.Width(), r.Height())
	if f.Radius > 0 {
		fmt.Fprintf(&s.buf, ` rx="%.1f"`, f.Radius)
	}
	fill := f.Color
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(&s.buf, ` fill="%s"`, escape(fill))
	if f.Opacity < 1 {
		fmt.Fprintf(&s.buf, ` fill-opacity="%.3f"`, max(f.Opacity, 0))
	}
	if f.Stroke != nil {
		s.buf.WriteString(strokeAttrs(*f.Stroke))
	}
	s.buf.WriteString("/>\n")
}

func (s *Surface) Text(p draw.Point, text string, t draw.TextStyle) {
	fmt.Fprintf(&s.buf, `%s<text x="%.2f" y="%.2f" font-size="%.1f" fill="%s"`,
		s.indent(), p.X, p.Y, t.Size, escape(t.Color))
	if t.Anchor != "" && t.Anchor != draw.AnchorStart {
		fmt.Fprintf(&s.buf, ` text-anchor="%s"`, t.Anchor)
	}
	if t.Weight != "" {
		fmt.Fprintf(&s.buf, ` font-weight="%s"`, escape(t.Weight))
	}
	if t.Opacity < 1 {
		fmt.Fprintf(&s.buf, ` opacity="%.3f"`, max(t.Opacity, 0))
	}
	fmt.Fprintf(&s.buf, ">%s</text>\n", escape(text))
}

func (s *Surface) PushClip(r draw.Rect) {
	id := fmt.Sprintf("%s-clip-%d", s.prefix, s.clips)
	s.clips++
	fmt.Fprintf(&s.buf, `%s<clipPath id="%s"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>`+"\n",
		s.indent(), id, r.Left, r.Top, max(r.Width(), 0), max(r.Height(), 0))
	fmt.Fprintf(&s.buf, `%s<g clip-path="url(#%s)">`+"\n", s.indent(), id)
	s.depth++
}

func (s *Surface) PopClip() {
	if s.depth == 0 {
		return
	}
	s.depth--
	fmt.Fprintf(&s.buf, "%s</g>\n", s.indent())
}

// Bytes closes any open clip groups and the document and returns the markup.
// The surface must not be drawn on afterwards.
func (s *Surface) Bytes() []byte {
	for s.depth > 0 {
		s.PopClip()
	}
	s.buf.WriteString("</svg>\n")
	return s.buf.Bytes()
}

// Render replays a recorded figure into a new SVG document. The figure ID is
// used as the id prefix unless an option overrides it. A suppressed figure
// yields an empty document.
func Render(f *draw.Figure, opts ...Option) []byte {
	base := []Option{WithIDPrefix("fv-" + shortID(f.ID))}
	if f.Background != "" {
		base = append(base, WithBackground(f.Background))
	}
	s := New(max(f.Width, 0), max(f.Height, 0), append(base, opts...)...)
	if !f.Suppressed() {
		f.Replay(s)
	}
	return s.Bytes()
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func strokeAttrs(st draw.Stroke) string {
	var b strings.Builder
	color := st.Color
	if color == "" {
		color = "currentColor"
	}
	fmt.Fprintf(&b, ` stroke="%s" stroke-width="%.2f"`, escape(color), st.Width)
	if st.Opacity < 1 {
		fmt.Fprintf(&b, ` stroke-opacity="%.3f"`, max(st.Opacity, 0))
	}
	if len(st.Dash) > 0 {
		parts := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			parts[i] = fmt.Sprintf("%.1f", d)
		}
		fmt.Fprintf(&b, ` stroke-dasharray="%s"`, strings.Join(parts, " "))
	}
	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
