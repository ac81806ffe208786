package reveal

import "time"

// Key identifies what is being revealed. Any change restarts the animation.
type Key struct {
	Dataset string
	Width   float64
	Height  float64
	Enabled bool
}

// Controller runs one chart's reveal. It is not safe for concurrent use: all
// methods and frame callbacks must run on the host's rendering goroutine,
// which every [FrameSource] in this package guarantees.
type Controller struct {
	frames  FrameSource
	opts    Options
	onFrame func(Snapshot)

	key     Key
	snap    Snapshot
	start   time.Time
	started bool
	cancel  func()
	gen     uint64
	closed  bool
}

// NewController creates a controller. onFrame, if non-nil, is called with
// every new snapshot. Nothing happens until [Controller.Update].
func NewController(frames FrameSource, opts Options, onFrame func(Snapshot)) *Controller {
	return &Controller{frames: frames, opts: opts, onFrame: onFrame, snap: Snapshot{State: Idle}}
}

// Update sets the current inputs. The first call, and any call with a
// different key, restarts the reveal from Idle. key.Enabled overrides the
// Enabled flag of the controller's options.
func (c *Controller) Update(key Key) {
	if c.closed {
		return
	}
	if c.gen > 0 && key == c.key {
		return
	}
	c.key = key
	c.restart()
}

// Restart replays the reveal for the current key.
func (c *Controller) Restart() {
	if c.closed || c.gen == 0 {
		return
	}
	c.restart()
}

func (c *Controller) restart() {
	c.stop()
	c.gen++
	c.started = false

	if !c.key.Enabled {
		c.emit(Full())
		return
	}
	c.emit(Snapshot{State: Idle})
	c.schedule()
}

// Snapshot returns the most recent snapshot.
func (c *Controller) Snapshot() Snapshot { return c.snap }

// Pending reports whether a frame request is outstanding.
func (c *Controller) Pending() bool { return c.cancel != nil }

// Close cancels any pending frame. Later callbacks and updates are ignored.
func (c *Controller) Close() {
	c.stop()
	c.closed = true
}

func (c *Controller) stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) schedule() {
	if c.cancel != nil {
		return
	}
	gen := c.gen
	c.cancel = c.frames.RequestFrame(func(now time.Time) { c.tick(gen, now) })
}

func (c *Controller) tick(gen uint64, now time.Time) {
	if c.closed || gen != c.gen {
		return
	}
	c.cancel = nil
	if !c.started {
		c.start, c.started = now, true
	}
	opts := c.opts
	opts.Enabled = true
	snap := At(opts, now.Sub(c.start))
	c.emit(snap)
	if !snap.Done() {
		c.schedule()
	}
}

func (c *Controller) emit(s Snapshot) {
	c.snap = s
	if c.onFrame != nil {
		c.onFrame(s)
	}
}
