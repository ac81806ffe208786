// Package series provides the per-time-step value sequence used by every
// chart line.
//
// A [Series] stores one float64 per time step. A gap (no known value) is
// encoded as NaN; infinities are treated the same way. Lookups beyond the end
// of a series are gaps too, so callers never need bounds checks:
//
//	s := series.Series{100, 102, series.Gap, 110}
//	v, ok := s.At(2)  // 0, false
//	v, ok = s.At(9)   // 0, false
//
// In JSON a gap is written as null, matching the backend wire format.
package series

import (
	"encoding/json"
	"math"
)

// Gap marks an absent value. Compare with [IsGap], never with ==.
var Gap = math.NaN()

// Series is an ordered sequence of values, one per time step.
type Series []float64

// IsGap reports whether v is absent (NaN) or non-finite.
func IsGap(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// At returns the value at index i and whether it is defined.
// Out-of-range indices are reported as gaps.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return 0, false
	}
	v := s[i]
	if IsGap(v) {
		return 0, false
	}
	return v, true
}

// Defined reports whether index i holds a finite value.
func (s Series) Defined(i int) bool {
	_, ok := s.At(i)
	return ok
}

// Count returns the number of defined values.
func (s Series) Count() int {
	n := 0
	for _, v := range s {
		if !IsGap(v) {
			n++
		}
	}
	return n
}

// Clone returns a copy backed by a new array.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Resized returns a copy of length n, padding with gaps or truncating.
func (s Series) Resized(n int) Series {
	out := make(Series, max(n, 0))
	for i := range out {
		if i < len(s) {
			out[i] = s[i]
		} else {
			out[i] = Gap
		}
	}
	return out
}

// MarshalJSON writes gaps as null.
func (s Series) MarshalJSON() ([]byte, error) {
	vals := make([]*float64, len(s))
	for i := range s {
		if v, ok := s.At(i); ok {
			vals[i] = &v
		}
	}
	return json.Marshal(vals)
}

// UnmarshalJSON reads null entries as gaps.
func (s *Series) UnmarshalJSON(data []byte) error {
	var vals []*float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	if vals == nil {
		*s = nil
		return nil
	}
	out := make(Series, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = Gap
		} else {
			out[i] = *v
		}
	}
	*s = out
	return nil
}

// FromPointers converts a nullable slice (as stored by document databases)
// into a Series.
func FromPointers(vals []*float64) Series {
	if vals == nil {
		return nil
	}
	out := make(Series, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = Gap
		} else {
			out[i] = *v
		}
	}
	return out
}

// Pointers is the inverse of [FromPointers].
func (s Series) Pointers() []*float64 {
	if s == nil {
		return nil
	}
	out := make([]*float64, len(s))
	for i := range s {
		if v, ok := s.At(i); ok {
			out[i] = &v
		}
	}
	return out
}
