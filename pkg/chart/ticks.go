package chart

import (
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/matzehuels/forecastviz/pkg/chart/scale"
)

// Tick is one labeled axis position.
type Tick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// YTicks returns count evenly spaced value ticks across the y domain.
func (g Geometry) YTicks(count int) []Tick {
	vals := scale.Ticks(g.Domain, count)
	step := 0.0
	if len(vals) > 1 {
		step = vals[1] - vals[0]
	}
	out := make([]Tick, len(vals))
	for i, v := range vals {
		out[i] = Tick{Value: v, Pos: g.YAt(v), Label: FormatValue(v, step)}
	}
	return out
}

// XTicks returns the labeled time steps.
func (g Geometry) XTicks(labels []string, cfg XTicks) []Tick {
	idx := XTickIndices(labels, cfg)
	out := make([]Tick, len(idx))
	for i, k := range idx {
		out[i] = Tick{Value: float64(k), Pos: g.XAt(k), Label: labels[k]}
	}
	return out
}

// XTickIndices selects label indices per cfg. A month filter that matches no
// label falls back to even subsampling.
func XTickIndices(labels []string, cfg XTicks) []int {
	if len(cfg.Months) > 0 {
		var out []int
		for i, l := range labels {
			if m, ok := labelMonth(l); ok && slices.Contains(cfg.Months, m) {
				out = append(out, i)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return EvenIndices(len(labels), cfg.Max)
}

// EvenIndices picks at most limit evenly spaced indices out of n, always
// including n-1.
func EvenIndices(n, limit int) []int {
	if n <= 0 {
		return nil
	}
	limit = max(limit, 1)
	if n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if limit == 1 {
		return []int{n - 1}
	}
	step := (n - 1 + limit - 2) / (limit - 1)
	var out []int
	for i := 0; i < n-1; i += step {
		out = append(out, i)
	}
	if len(out) >= limit {
		out[len(out)-1] = n - 1
	} else {
		out = append(out, n-1)
	}
	return out
}

var labelLayouts = []string{"2006-01", "2006-01-02", "2006/01", "Jan 2006", "January 2006"}

func labelMonth(label string) (int, bool) {
	for _, layout := range labelLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return int(t.Month()), true
		}
	}
	return 0, false
}

// FormatValue formats v with just enough decimals to distinguish ticks that
// are step apart.
func FormatValue(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
	}
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
