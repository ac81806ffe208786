// Package scale maps data values to pixel coordinates.
//
// [Linear] is an affine domain->range map; [Index] builds one for the time
// axis. [Extent] and [ExtentOfMany] measure series while skipping gaps, and
// [NiceDomain] rounds a value range outward to human-friendly tick
// boundaries so all lines of a chart share one readable vertical scale.
package scale

import (
	"math"

	"github.com/matzehuels/forecastviz/pkg/series"
)

// Linear maps the domain [D0,D1] onto the range [R0,R1].
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear creates a linear scale.
func NewLinear(domain, rng [2]float64) Linear {
	return Linear{D0: domain[0], D1: domain[1], R0: rng[0], R1: rng[1]}
}

// Map converts a domain value to a range value. A degenerate domain
// (D0 == D1) behaves as if its span were 1.
func (l Linear) Map(v float64) float64 {
	span := l.D1 - l.D0
	if span == 0 {
		span = 1
	}
	return l.R0 + (v-l.D0)*(l.R1-l.R0)/span
}

// Func returns Map as a function value.
func (l Linear) Func() func(float64) float64 { return l.Map }

// Index returns a scale for time-step indices 0..n-1 spread over [r0,r1].
func Index(n int, r0, r1 float64) Linear {
	return Linear{D0: 0, D1: float64(max(n-1, 0)), R0: r0, R1: r1}
}

// IndexFunc adapts an index scale to an int->pixel function.
func IndexFunc(l Linear) func(int) float64 {
	return func(i int) float64 { return l.Map(float64(i)) }
}

// Extent returns [min,max] over the defined values of s, or [0,1] when s has
// none.
func Extent(s series.Series) [2]float64 {
	return ExtentOfMany(s)
}

// ExtentOfMany returns the union extent of several series.
func ExtentOfMany(list ...series.Series) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range list {
		for _, v := range s {
			if series.IsGap(v) {
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return [2]float64{0, 1}
	}
	return [2]float64{lo, hi}
}

// NiceDomain rounds ext outward to multiples of a "nice" step (1, 2, 5 or 10
// times a power of ten) sized for roughly tickHint intervals. The result
// always contains ext; a single-value extent widens by one on each side.
func NiceDomain(ext [2]float64, tickHint int) [2]float64 {
	lo, hi := ext[0], ext[1]
	if lo == hi {
		return [2]float64{lo - 1, hi + 1}
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	step := NiceStep((hi - lo) / float64(max(tickHint, 1)))
	nlo := math.Floor(lo/step) * step
	nhi := math.Ceil(hi/step) * step
	// Float rounding in k*step can land just inside the extent.
	if nlo > lo {
		nlo -= step
	}
	if nhi < hi {
		nhi += step
	}
	return [2]float64{nlo, nhi}
}

// NiceStep rounds a raw step to 1, 2, 5 or 10 times its power of ten, using
// the leading-digit thresholds 1.5, 3.5 and 7.5.
func NiceStep(raw float64) float64 {
	if raw <= 0 || series.IsGap(raw) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	lead := raw / mag
	var nice float64
	switch {
	case lead < 1.5:
		nice = 1
	case lead < 3.5:
		nice = 2
	case lead < 7.5:
		nice = 5
	default:
		nice = 10
	}
	return nice * mag
}

// Ticks returns count evenly spaced values from domain[0] to domain[1]
// inclusive. A count below 2 yields the two domain ends.
func Ticks(domain [2]float64, count int) []float64 {
	count = max(count, 2)
	out := make([]float64, count)
	step := (domain[1] - domain[0]) / float64(count-1)
	for i := range out {
		out[i] = domain[0] + float64(i)*step
	}
	out[count-1] = domain[1]
	return out
}
