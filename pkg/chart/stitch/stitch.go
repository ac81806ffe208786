// Package stitch joins the end of the actual series to the start of the
// forecast so the two lines meet visually.
//
// With continuity enabled, [Continuity] copies the last actual value before
// the forecast start into the forecast at the same index. With continuity
// disabled, [Connector] yields a single segment bridging the two lines
// instead. Neither function modifies its inputs.
package stitch

import "github.com/matzehuels/forecastviz/pkg/series"

// LastDefinedBefore returns the greatest index < idx where s is defined,
// or -1.
func LastDefinedBefore(s series.Series, idx int) int {
	for i := min(idx, len(s)) - 1; i >= 0; i-- {
		if !series.IsGap(s[i]) {
			return i
		}
	}
	return -1
}

// FirstDefinedFrom returns the smallest index >= idx where s is defined,
// or -1.
func FirstDefinedFrom(s series.Series, idx int) int {
	for i := max(idx, 0); i < len(s); i++ {
		if !series.IsGap(s[i]) {
			return i
		}
	}
	return -1
}

// Continuity returns predicted with actual[k] copied into index k, where k is
// the last index before start at which actual is defined. The result is a
// new slice whenever a value is added; predicted itself is returned when
// there is nothing to add (no actual value before start, or predicted[k]
// already defined). A predicted series shorter than k+1 is extended with gaps.
func Continuity(actual, predicted series.Series, start int) series.Series {
	k := LastDefinedBefore(actual, start)
	if k < 0 {
		return predicted
	}
	if _, ok := predicted.At(k); ok {
		return predicted
	}
	out := predicted.Resized(max(len(predicted), k+1))
	out[k] = actual[k]
	return out
}

// Point is a (step, value) pair.
type Point struct {
	Index int
	Value float64
}

// Connector returns the endpoints of the segment between the last actual
// value before start and the first predicted value at or after start.
// ok is false when either end is missing.
func Connector(actual, predicted series.Series, start int) (from, to Point, ok bool) {
	a := LastDefinedBefore(actual, start)
	p := FirstDefinedFrom(predicted, start)
	if a < 0 || p < 0 {
		return Point{}, Point{}, false
	}
	return Point{a, actual[a]}, Point{p, predicted[p]}, true
}
