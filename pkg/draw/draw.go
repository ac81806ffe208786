// Package draw defines the generic 2D drawing surface the chart renders onto.
//
// A [Surface] exposes the four primitives a forecast chart needs: polylines,
// rectangles, positioned text and rectangular clip regions. Concrete
// surfaces (see the svg subpackage) translate them into an output format.
// [Figure] is a recording surface: the chart composer draws into a Figure and
// the resulting display list can be replayed onto any other surface or
// exported as JSON.
package draw

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned pixel rectangle. Top < Bottom in screen space.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Intersect returns the overlap of r and o. The result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.Right < out.Left {
		out.Right = out.Left
	}
	if out.Bottom < out.Top {
		out.Bottom = out.Top
	}
	return out
}

// Stroke describes how a line is drawn.
type Stroke struct {
	Color   string    `json:"color"`
	Width   float64   `json:"width"`
	Opacity float64   `json:"opacity"`
	Dash    []float64 `json:"dash,omitempty"`
}

// Fill describes a filled and optionally outlined shape.
type Fill struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Stroke  *Stroke `json:"stroke,omitempty"`
	Radius  float64 `json:"radius,omitempty"`
}

// Anchor is the horizontal text alignment relative to the text position.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// TextStyle describes positioned text.
type TextStyle struct {
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
	Anchor  Anchor  `json:"anchor,omitempty"`
	Weight  string  `json:"weight,omitempty"`
	Opacity float64 `json:"opacity"`
}

// Surface is a retained-mode 2D drawing target.
//
// Clip regions nest: every PushClip must be matched by a PopClip, and
// drawing between them is only visible inside the intersection of all
// active clips.
type Surface interface {
	Polyline(pts []Point, s Stroke)
	Rect(r Rect, f Fill)
	Text(p Point, text string, t TextStyle)
	PushClip(r Rect)
	PopClip()
}

// WithClip draws fn inside clip region r.
func WithClip(s Surface, r Rect, fn func()) {
	s.PushClip(r)
	fn()
	s.PopClip()
}
