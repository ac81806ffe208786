package chart

import (
	"fmt"
	"sync"

	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
)

// Bounds derives a chart height from the container width.
type Bounds struct {
	AspectRatio float64 `toml:"aspect_ratio" json:"aspect_ratio"`
	MinHeight   float64 `toml:"min_height" json:"min_height"`
	MaxHeight   float64 `toml:"max_height" json:"max_height"`
}

// DefaultBounds returns a 2:1 chart between 240 and 520 pixels tall.
func DefaultBounds() Bounds {
	return Bounds{AspectRatio: 2, MinHeight: 240, MaxHeight: 520}
}

func (b *Bounds) setDefaults() {
	d := DefaultBounds()
	if b.AspectRatio == 0 {
		b.AspectRatio = d.AspectRatio
	}
	if b.MinHeight == 0 && b.MaxHeight == 0 {
		b.MinHeight, b.MaxHeight = d.MinHeight, d.MaxHeight
	}
}

// Validate rejects inverted or non-positive bounds.
func (b Bounds) Validate() error {
	if !finite(b.AspectRatio, b.MinHeight, b.MaxHeight) {
		return errors.New(errors.ErrCodeInvalidConfig, "responsive bounds must be finite numbers")
	}
	if b.AspectRatio <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "responsive.aspect_ratio must be positive")
	}
	if b.MinHeight < 0 || b.MaxHeight < 0 || b.MinHeight > b.MaxHeight {
		return errors.New(errors.ErrCodeInvalidConfig, "responsive height bounds [%v, %v] are invalid", b.MinHeight, b.MaxHeight)
	}
	return nil
}

// SizeFor returns the canvas size for a container of the given width. A
// non-positive width yields a zero size, which suppresses drawing.
func (b Bounds) SizeFor(width float64) (w, h float64) {
	if width <= 0 {
		return 0, 0
	}
	h = width / b.AspectRatio
	h = max(b.MinHeight, min(b.MaxHeight, h))
	return width, h
}

// Observer reports container width changes. Subscribe returns the function
// that ends the subscription.
type Observer interface {
	Subscribe(fn func(width float64)) (unsubscribe func())
}

// Container is an [Observer] whose width is set by the host.
type Container struct {
	mu    sync.Mutex
	width float64
	next  int
	subs  map[int]func(float64)
}

// NewContainer creates a container with an initial width.
func NewContainer(width float64) *Container {
	return &Container{width: width, subs: make(map[int]func(float64))}
}

// Subscribe registers fn and immediately reports the current width.
func (c *Container) Subscribe(fn func(width float64)) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	w := c.width
	c.mu.Unlock()

	fn(w)
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Resize sets the width and notifies subscribers if it changed.
func (c *Container) Resize(width float64) {
	c.mu.Lock()
	if width == c.width {
		c.mu.Unlock()
		return
	}
	c.width = width
	fns := make([]func(float64), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(width)
	}
}

// Subscribers returns the number of live subscriptions.
func (c *Container) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// View is a responsive, animated chart instance. It re-renders whenever the
// observed width, the dataset or the reveal snapshot changes and hands each
// new figure to onRender. Like [reveal.Controller] it must be driven from a
// single goroutine.
type View struct {
	cfg      Config
	ds       *forecast.Dataset
	onRender func(*draw.Figure)

	ctrl     *reveal.Controller
	unsub    func()
	width    float64
	height   float64
	figure   *draw.Figure
	animated bool
}

// NewView subscribes to obs and starts the reveal on frames.
func NewView(ds *forecast.Dataset, cfg Config, obs Observer, frames reveal.FrameSource, onRender func(*draw.Figure)) *View {
	v := &View{cfg: cfg, ds: ds, onRender: onRender, animated: cfg.Animation.Enabled}
	v.ctrl = reveal.NewController(frames, cfg.Animation, func(reveal.Snapshot) { v.render() })
	v.unsub = obs.Subscribe(v.resize)
	return v
}

func (v *View) resize(width float64) {
	v.width, v.height = v.cfg.Responsive.SizeFor(width)
	v.update()
}

func (v *View) update() {
	v.ctrl.Update(reveal.Key{
		Dataset: datasetKey(v.ds),
		Width:   v.width,
		Height:  v.height,
		Enabled: v.animated,
	})
}

func datasetKey(ds *forecast.Dataset) string {
	if ds == nil {
		return ""
	}
	return fmt.Sprintf("%s@%p", ds.Ticker, ds)
}

// SetDataset swaps the dataset and restarts the reveal.
func (v *View) SetDataset(ds *forecast.Dataset) {
	v.ds = ds
	v.update()
}

// SetAnimated toggles the reveal animation.
func (v *View) SetAnimated(on bool) {
	v.animated = on
	v.update()
}

// Replay restarts the reveal for the current inputs.
func (v *View) Replay() { v.ctrl.Restart() }

// Size returns the current canvas size.
func (v *View) Size() (w, h float64) { return v.width, v.height }

// Snapshot returns the current reveal snapshot.
func (v *View) Snapshot() reveal.Snapshot { return v.ctrl.Snapshot() }

// Figure returns the most recent figure.
func (v *View) Figure() *draw.Figure { return v.figure }

// Close stops observing the container and cancels pending frames.
func (v *View) Close() {
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
	v.ctrl.Close()
}

func (v *View) render() {
	cfg := v.cfg
	cfg.Width, cfg.Height = v.width, v.height
	v.figure = Render(v.ds, cfg, v.ctrl.Snapshot())
	if v.onRender != nil {
		v.onRender(v.figure)
	}
}
