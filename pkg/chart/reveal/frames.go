package reveal

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// FrameSource schedules a callback for the next display frame. The returned
// function cancels the request if it has not fired yet.
type FrameSource interface {
	RequestFrame(fn func(now time.Time)) (cancel func())
}

// frameQueue holds pending callbacks keyed by request order.
type frameQueue struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]func(time.Time)
}

func (q *frameQueue) add(fn func(time.Time)) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[uint64]func(time.Time))
	}
	id := q.next
	q.next++
	q.pending[id] = fn
	return func() {
		q.mu.Lock()
		delete(q.pending, id)
		q.mu.Unlock()
	}
}

// take removes and returns the pending callbacks in request order.
func (q *frameQueue) take() []func(time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := slices.Sorted(maps.Keys(q.pending))
	out := make([]func(time.Time), 0, len(ids))
	for _, id := range ids {
		out = append(out, q.pending[id])
	}
	clear(q.pending)
	return out
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualFrames fires frames only when told to. Used for deterministic
// simulation.
type ManualFrames struct {
	q frameQueue
}

func (m *ManualFrames) RequestFrame(fn func(now time.Time)) func() { return m.q.add(fn) }

// Fire runs every callback pending at the time of the call with now.
// Requests made by those callbacks wait for the next Fire.
func (m *ManualFrames) Fire(now time.Time) int {
	fns := m.q.take()
	for _, fn := range fns {
		fn(now)
	}
	return len(fns)
}

// Pending returns the number of outstanding requests.
func (m *ManualFrames) Pending() int { return m.q.len() }

// TickerFrames paces frames with a wall-clock ticker. Callbacks run on the
// goroutine that calls [TickerFrames.Run].
type TickerFrames struct {
	interval time.Duration
	q        frameQueue
}

// NewTickerFrames returns a source ticking fps times per second (60 if fps
// is not positive).
func NewTickerFrames(fps int) *TickerFrames {
	if fps <= 0 {
		fps = 60
	}
	return &TickerFrames{interval: time.Second / time.Duration(fps)}
}

func (t *TickerFrames) RequestFrame(fn func(now time.Time)) func() { return t.q.add(fn) }

// Run delivers frames until ctx is done or, when untilIdle is set, until a
// tick finds nothing pending.
func (t *TickerFrames) Run(ctx context.Context, untilIdle bool) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			fns := t.q.take()
			if len(fns) == 0 && untilIdle {
				return nil
			}
			for _, fn := range fns {
				fn(now)
			}
		}
	}
}
