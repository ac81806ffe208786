// Package forecast defines the immutable input of a forecast chart.
//
// A [Dataset] bundles the period labels, the historical (actual) series, the
// active forecast, superseded forecasts and an optional annotation. It is the
// JSON document returned by the backend's GET /stocks/{ticker}/forecast
// endpoint:
//
//	{
//	  "ticker": "AAPL",
//	  "labels": ["2024-01", "2024-02", ...],
//	  "actual": [187.2, 184.4, ..., null],
//	  "predicted": [null, ..., 201.3],
//	  "historical": [{"as_of_index": 9, "values": [...]}],
//	  "predict_start_index": 12,
//	  "annotation": "Model expects +7.4% over 12 months"
//	}
//
// Datasets are never mutated by the chart packages. Invariant violations are
// tolerated by the renderer; [Check] lists them for callers that want to log.
package forecast

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/forecastviz/pkg/series"
)

// Dataset is the full input of one chart.
type Dataset struct {
	Ticker            string                 `json:"ticker"`
	Labels            []string               `json:"labels"`
	Actual            series.Series          `json:"actual"`
	Predicted         series.Series          `json:"predicted"`
	Historical        []HistoricalPrediction `json:"historical,omitempty"`
	PredictStartIndex int                    `json:"predict_start_index"`
	Annotation        string                 `json:"annotation,omitempty"`
}

// HistoricalPrediction is a superseded forecast produced at step AsOfIndex.
// Values spans the full timeline.
type HistoricalPrediction struct {
	AsOfIndex int           `json:"as_of_index"`
	Values    series.Series `json:"values"`
}

// Len returns the number of time steps (the label count).
func (d *Dataset) Len() int { return len(d.Labels) }

// Label returns the label at index i, or "" when out of range.
func (d *Dataset) Label(i int) string {
	if i < 0 || i >= len(d.Labels) {
		return ""
	}
	return d.Labels[i]
}

// HistoricalSeries returns the values of every historical prediction.
func (d *Dataset) HistoricalSeries() []series.Series {
	out := make([]series.Series, len(d.Historical))
	for i, h := range d.Historical {
		out[i] = h.Values
	}
	return out
}

// Decode reads a dataset from JSON.
func Decode(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &d, nil
}

// Load reads a dataset from a JSON file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Marshal encodes the dataset as indented JSON.
func Marshal(d *Dataset) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
