package draw

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
)

// OpKind identifies a recorded drawing operation.
type OpKind string

const (
	OpPolyline OpKind = "polyline"
	OpRect     OpKind = "rect"
	OpText     OpKind = "text"
	OpPushClip OpKind = "push_clip"
	OpPopClip  OpKind = "pop_clip"
)

// Op is one recorded drawing operation. Only the fields relevant to Kind are set.
type Op struct {
	Kind      OpKind     `json:"kind"`
	Layer     string     `json:"layer,omitempty"`
	Points    []Point    `json:"points,omitempty"`
	Rect      *Rect      `json:"rect,omitempty"`
	Text      string     `json:"text,omitempty"`
	Stroke    *Stroke    `json:"stroke,omitempty"`
	Fill      *Fill      `json:"fill,omitempty"`
	TextStyle *TextStyle `json:"text_style,omitempty"`
}

// Figure records drawing operations in order. It implements [Surface].
//
// A Figure with zero width or height is "suppressed": it holds no operations
// and renders as nothing.
type Figure struct {
	ID         string  `json:"id"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background,omitempty"`
	Ops        []Op    `json:"ops"`

	layer string
}

// NewFigure creates an empty figure of the given size with a unique ID.
// The ID keeps clip-path identifiers distinct when several figures share a
// document.
func NewFigure(width, height float64) *Figure {
	return &Figure{
		ID:     uuid.NewString(),
		Width:  width,
		Height: height,
		Ops:    []Op{},
	}
}

// Suppressed reports whether the figure draws nothing.
func (f *Figure) Suppressed() bool { return f.Width <= 0 || f.Height <= 0 }

// SetLayer tags subsequently recorded operations with a layer name
// ("grid", "actual", "forecast", ...). Layers are informational.
func (f *Figure) SetLayer(name string) { f.layer = name }

func (f *Figure) Polyline(pts []Point, s Stroke) {
	f.Ops = append(f.Ops, Op{Kind: OpPolyline, Layer: f.layer, Points: slices.Clone(pts), Stroke: &s})
}

func (f *Figure) Rect(r Rect, fl Fill) {
	f.Ops = append(f.Ops, Op{Kind: OpRect, Layer: f.layer, Rect: &r, Fill: &fl})
}

func (f *Figure) Text(p Point, text string, t TextStyle) {
	f.Ops = append(f.Ops, Op{Kind: OpText, Layer: f.layer, Points: []Point{p}, Text: text, TextStyle: &t})
}

func (f *Figure) PushClip(r Rect) {
	f.Ops = append(f.Ops, Op{Kind: OpPushClip, Layer: f.layer, Rect: &r})
}

func (f *Figure) PopClip() {
	f.Ops = append(f.Ops, Op{Kind: OpPopClip, Layer: f.layer})
}

// Replay draws every recorded operation onto s in order.
func (f *Figure) Replay(s Surface) {
	for _, op := range f.Ops {
		switch op.Kind {
		case OpPolyline:
			s.Polyline(op.Points, *op.Stroke)
		case OpRect:
			s.Rect(*op.Rect, *op.Fill)
		case OpText:
			s.Text(op.Points[0], op.Text, *op.TextStyle)
		case OpPushClip:
			s.PushClip(*op.Rect)
		case OpPopClip:
			s.PopClip()
		}
	}
}

// Layer returns the operations recorded under the given layer name.
func (f *Figure) Layer(name string) []Op {
	var out []Op
	for _, op := range f.Ops {
		if op.Layer == name {
			out = append(out, op)
		}
	}
	return out
}

// Polylines returns the polyline operations of a layer.
func (f *Figure) Polylines(layer string) []Op {
	var out []Op
	for _, op := range f.Layer(layer) {
		if op.Kind == OpPolyline {
			out = append(out, op)
		}
	}
	return out
}

// MarshalIndent encodes the figure as indented JSON.
func (f *Figure) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
