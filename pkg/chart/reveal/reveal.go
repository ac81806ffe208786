// Package reveal drives the left-to-right disclosure animation of a chart.
//
// The animation is a pure function of elapsed time: [At] maps an elapsed
// duration to a [Snapshot] holding the eased progress and the fade-in
// opacities of the secondary layers. [Controller] feeds [At] from a
// per-frame [FrameSource], keeps exactly one frame request pending while
// animating and restarts from zero whenever its [Key] changes.
package reveal

import (
	"time"

	"github.com/matzehuels/forecastviz/pkg/draw"
)

// State is the lifecycle phase of a reveal.
type State string

const (
	Idle      State = "idle"
	Animating State = "animating"
	Complete  State = "complete"
)

// Options configures the reveal. Durations decode from TOML strings such as
// "900ms".
type Options struct {
	Enabled      bool          `toml:"enabled" json:"enabled"`
	Duration     time.Duration `toml:"duration" json:"duration"`
	FadeDelay    time.Duration `toml:"fade_delay" json:"fade_delay"`
	FadeDuration time.Duration `toml:"fade_duration" json:"fade_duration"`
}

const (
	DefaultDuration     = 1200 * time.Millisecond
	DefaultFadeDelay    = 150 * time.Millisecond
	DefaultFadeDuration = 400 * time.Millisecond
)

// DefaultOptions returns an enabled reveal with the default timings.
func DefaultOptions() Options {
	return Options{
		Enabled:      true,
		Duration:     DefaultDuration,
		FadeDelay:    DefaultFadeDelay,
		FadeDuration: DefaultFadeDuration,
	}
}

// Total is the time from the first frame until every layer is fully shown.
func (o Options) Total() time.Duration {
	if !o.Enabled {
		return 0
	}
	return max(o.Duration, 0) + max(o.FadeDelay, 0) + max(o.FadeDuration, 0)
}

// EaseOutCubic is 1-(1-t)^3 for t clamped to [0,1].
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// Snapshot is the reveal at one instant.
type Snapshot struct {
	State             State   `json:"state"`
	Progress          float64 `json:"progress"`
	Eased             float64 `json:"eased"`
	HistoricalOpacity float64 `json:"historical_opacity"`
	AnnotationOpacity float64 `json:"annotation_opacity"`
}

// Full is the snapshot of a finished (or disabled) reveal.
func Full() Snapshot {
	return Snapshot{State: Complete, Progress: 1, Eased: 1, HistoricalOpacity: 1, AnnotationOpacity: 1}
}

// Done reports whether nothing will change in later frames.
func (s Snapshot) Done() bool {
	return s.State == Complete && s.HistoricalOpacity >= 1 && s.AnnotationOpacity >= 1
}

// Boundary returns the reveal x coordinate inside plot.
func (s Snapshot) Boundary(plot draw.Rect) float64 {
	return plot.Left + plot.Width()*s.Eased
}

// At computes the reveal after elapsed time. Negative elapsed time is Idle.
// A disabled reveal is always [Full].
func At(o Options, elapsed time.Duration) Snapshot {
	if !o.Enabled {
		return Full()
	}
	if elapsed < 0 {
		return Snapshot{State: Idle}
	}
	if o.Duration > 0 && elapsed < o.Duration {
		p := float64(elapsed) / float64(o.Duration)
		return Snapshot{State: Animating, Progress: p, Eased: EaseOutCubic(p)}
	}

	since := elapsed - max(o.Duration, 0) - max(o.FadeDelay, 0)
	var fade float64
	switch {
	case since < 0:
		fade = 0
	case o.FadeDuration <= 0:
		fade = 1
	default:
		fade = clamp01(float64(since) / float64(o.FadeDuration))
	}
	return Snapshot{State: Complete, Progress: 1, Eased: 1, HistoricalOpacity: fade, AnnotationOpacity: fade}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
