package forecast

import "fmt"

// Issue describes one violated dataset convention.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string { return i.Field + ": " + i.Message }

// Check reports the dataset invariants that do not hold. An empty result
// means the dataset is well formed. Rendering never depends on the result:
// malformed datasets still render, with fewer or empty lines.
func Check(d *Dataset) []Issue {
	if d == nil {
		return []Issue{{Field: "dataset", Message: "nil"}}
	}
	var issues []Issue
	n := d.Len()

	if n == 0 {
		issues = append(issues, Issue{"labels", "empty"})
	}
	if len(d.Actual) != n {
		issues = append(issues, Issue{"actual", fmt.Sprintf("length %d, want %d", len(d.Actual), n)})
	}
	if len(d.Predicted) != n {
		issues = append(issues, Issue{"predicted", fmt.Sprintf("length %d, want %d", len(d.Predicted), n)})
	}
	for i, h := range d.Historical {
		if len(h.Values) != n {
			issues = append(issues, Issue{
				fmt.Sprintf("historical[%d]", i),
				fmt.Sprintf("length %d, want %d", len(h.Values), n),
			})
		}
	}
	if d.PredictStartIndex < 0 || d.PredictStartIndex >= max(n, 1) {
		issues = append(issues, Issue{"predict_start_index", fmt.Sprintf("%d out of range [0,%d)", d.PredictStartIndex, n)})
	}

	for i := d.PredictStartIndex; i < len(d.Actual); i++ {
		if d.Actual.Defined(i) {
			issues = append(issues, Issue{"actual", fmt.Sprintf("defined at %d, at or after the forecast start", i)})
			break
		}
	}
	for i := 0; i < min(d.PredictStartIndex, len(d.Predicted)); i++ {
		if d.Predicted.Defined(i) {
			issues = append(issues, Issue{"predicted", fmt.Sprintf("defined at %d, before the forecast start", i)})
			break
		}
	}
	return issues
}
