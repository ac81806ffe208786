package reveal

import (
	"context"
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestControllerAnimates(t *testing.T) {
	var frames ManualFrames
	var got []Snapshot
	c := NewController(&frames, DefaultOptions(), func(s Snapshot) { got = append(got, s) })
	c.Update(Key{Dataset: "AAPL", Width: 800, Height: 400, Enabled: true})

	if c.Snapshot().State != Idle {
		t.Fatalf("state after Update = %s, want idle", c.Snapshot().State)
	}
	if frames.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", frames.Pending())
	}

	for ms := 0; ms <= 2000; ms += 16 {
		frames.Fire(t0.Add(time.Duration(ms) * time.Millisecond))
		if frames.Pending() > 1 {
			t.Fatalf("more than one frame pending at %dms", ms)
		}
	}

	if !c.Snapshot().Done() {
		t.Errorf("final snapshot = %+v, want done", c.Snapshot())
	}
	if frames.Pending() != 0 || c.Pending() {
		t.Error("controller should stop requesting frames once done")
	}
	for i := 1; i < len(got); i++ {
		if got[i].Progress < got[i-1].Progress {
			t.Fatalf("progress decreased: %v -> %v", got[i-1].Progress, got[i].Progress)
		}
	}
}

func TestControllerFirstFrameStartsClock(t *testing.T) {
	var frames ManualFrames
	c := NewController(&frames, DefaultOptions(), nil)
	c.Update(Key{Dataset: "X", Width: 1, Height: 1, Enabled: true})

	frames.Fire(t0.Add(time.Hour))
	if s := c.Snapshot(); s.State != Animating || s.Progress != 0 {
		t.Errorf("first frame = %+v, want animating at 0", s)
	}
	frames.Fire(t0.Add(time.Hour + DefaultDuration))
	if s := c.Snapshot(); s.Progress != 1 {
		t.Errorf("progress after duration = %v, want 1", s.Progress)
	}
}

func TestControllerDisabled(t *testing.T) {
	var frames ManualFrames
	c := NewController(&frames, DefaultOptions(), nil)
	c.Update(Key{Dataset: "X", Width: 1, Height: 1, Enabled: false})

	if c.Snapshot() != Full() {
		t.Errorf("disabled snapshot = %+v, want Full()", c.Snapshot())
	}
	if frames.Pending() != 0 {
		t.Error("disabled reveal should not request frames")
	}
}

func TestControllerResetsOnKeyChange(t *testing.T) {
	var frames ManualFrames
	c := NewController(&frames, DefaultOptions(), nil)
	key := Key{Dataset: "AAPL", Width: 800, Height: 400, Enabled: true}
	c.Update(key)
	frames.Fire(t0)
	frames.Fire(t0.Add(600 * time.Millisecond))
	if c.Snapshot().Progress == 0 {
		t.Fatal("expected progress after 600ms")
	}

	c.Update(key)
	if c.Snapshot().Progress == 0 {
		t.Error("identical key should not reset")
	}

	key.Width = 640
	c.Update(key)
	if s := c.Snapshot(); s.State != Idle || s.Progress != 0 {
		t.Errorf("after resize = %+v, want idle at 0", s)
	}
	if frames.Pending() != 1 {
		t.Errorf("pending after reset = %d, want 1", frames.Pending())
	}

	// The clock restarts at the next frame, not at the original start.
	frames.Fire(t0.Add(10 * time.Second))
	if s := c.Snapshot(); s.Progress != 0 {
		t.Errorf("first frame after reset progress = %v, want 0", s.Progress)
	}
}

func TestControllerIgnoresStaleCallbacks(t *testing.T) {
	var requested []func(time.Time)
	src := frameSourceFunc(func(fn func(time.Time)) func() {
		requested = append(requested, fn)
		return func() {}
	})
	calls := 0
	c := NewController(src, DefaultOptions(), func(Snapshot) { calls++ })
	c.Update(Key{Dataset: "A", Enabled: true})
	c.Update(Key{Dataset: "B", Enabled: true})
	if len(requested) != 2 || calls != 2 {
		t.Fatalf("requests = %d, emits = %d; want 2 and 2", len(requested), calls)
	}

	requested[0](t0)
	if calls != 2 {
		t.Error("callback from before the reset should be ignored")
	}
	requested[1](t0)
	if calls != 3 {
		t.Errorf("live callback emitted %d times, want 1", calls-2)
	}

	c.Close()
	requested[len(requested)-1](t0.Add(time.Second))
	if calls != 3 {
		t.Error("callback after Close should be ignored")
	}
}

func TestControllerCloseCancels(t *testing.T) {
	var frames ManualFrames
	c := NewController(&frames, DefaultOptions(), nil)
	c.Update(Key{Dataset: "A", Enabled: true})
	c.Close()
	if frames.Pending() != 0 {
		t.Errorf("pending after Close = %d, want 0", frames.Pending())
	}
	c.Update(Key{Dataset: "B", Enabled: true})
	if frames.Pending() != 0 {
		t.Error("Update after Close should not request frames")
	}
}

func TestTickerFramesRunUntilIdle(t *testing.T) {
	frames := NewTickerFrames(1000)
	opts := Options{Enabled: true, Duration: 20 * time.Millisecond}
	c := NewController(frames, opts, nil)
	c.Update(Key{Dataset: "A", Enabled: true})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := frames.Run(ctx, true); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !c.Snapshot().Done() {
		t.Errorf("snapshot after run = %+v, want done", c.Snapshot())
	}
}

type frameSourceFunc func(fn func(time.Time)) func()

func (f frameSourceFunc) RequestFrame(fn func(time.Time)) func() { return f(fn) }
