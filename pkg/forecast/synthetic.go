package forecast

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/matzehuels/forecastviz/pkg/series"
)

// SyntheticOptions shapes the generated dataset. Zero fields take defaults.
type SyntheticOptions struct {
	End        time.Time // last labelled month (default December 2025)
	Months     int       // total timeline length (default 24)
	Horizon    int       // forecast months (default 12)
	Historical int       // superseded forecasts (default 3)
}

var defaultSynthetic = SyntheticOptions{
	End:        time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
	Months:     24,
	Horizon:    12,
	Historical: 3,
}

func (o SyntheticOptions) withDefaults() SyntheticOptions {
	if o.End.IsZero() {
		o.End = defaultSynthetic.End
	}
	if o.Months <= 0 {
		o.Months = defaultSynthetic.Months
	}
	// One observed month and one forecast month at least.
	o.Months = max(o.Months, 2)
	if o.Horizon <= 0 {
		o.Horizon = defaultSynthetic.Horizon
	}
	o.Horizon = min(o.Horizon, o.Months-1)
	if o.Historical < 0 {
		o.Historical = 0
	} else if o.Historical == 0 {
		o.Historical = defaultSynthetic.Historical
	}
	return o
}

// Synthetic builds a deterministic stand-in dataset for ticker. The same
// ticker and options always produce the same values, so charts rendered from
// the fallback are reproducible.
func Synthetic(ticker string, opts SyntheticOptions) *Dataset {
	o := opts.withDefaults()
	seed := tickerSeed(ticker)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	n := o.Months
	start := n - o.Horizon

	labels := make([]string, n)
	first := o.End.AddDate(0, -(n - 1), 0)
	for i := range labels {
		labels[i] = first.AddDate(0, i, 0).Format("2006-01")
	}

	actual := make(series.Series, n)
	price := 50 + rng.Float64()*400
	for i := range actual {
		if i >= start {
			actual[i] = series.Gap
			continue
		}
		price *= 1 + 0.008 + rng.NormFloat64()*0.06
		actual[i] = round2(price)
	}

	last := actual[start-1]
	drift := 0.004 + rng.NormFloat64()*0.01
	predicted := walk(rng, n, start, last, drift, 0.01)

	var historical []HistoricalPrediction
	for k := 1; k <= o.Historical; k++ {
		asOf := start - 3*k
		if asOf < 1 {
			break
		}
		values := walk(rng, n, asOf, actual[asOf-1], drift+rng.NormFloat64()*0.01, 0.015)
		for i := asOf + o.Horizon; i < n; i++ {
			values[i] = series.Gap
		}
		historical = append(historical, HistoricalPrediction{AsOfIndex: asOf, Values: values})
	}

	end := predicted[n-1]
	change := (end - last) / last * 100

	return &Dataset{
		Ticker:            strings.ToUpper(ticker),
		Labels:            labels,
		Actual:            actual,
		Predicted:         predicted,
		Historical:        historical,
		PredictStartIndex: start,
		Annotation: fmt.Sprintf("%s: model expects %+.1f%% over the next %d months (%.2f -> %.2f)",
			strings.ToUpper(ticker), change, o.Horizon, last, end),
	}
}

// walk fills a series of length n with a drifting path that starts at index
// from, anchored on the value preceding it. Earlier indices are gaps.
func walk(rng *rand.Rand, n, from int, anchor, drift, noise float64) series.Series {
	out := make(series.Series, n)
	v := anchor
	for i := range out {
		if i < from {
			out[i] = series.Gap
			continue
		}
		v *= 1 + drift + rng.NormFloat64()*noise
		out[i] = round2(v)
	}
	return out
}

func tickerSeed(ticker string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(ticker)))
	return h.Sum64()
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
