// Package source loads forecast datasets.
//
// A [Source] resolves a ticker to a [forecast.Dataset]. Implementations:
//
//   - [File]: a JSON file, or a directory of <TICKER>.json files
//   - [Synthetic]: the deterministic stand-in dataset
//   - [Fallback]: wraps another source and substitutes the synthetic
//     dataset when it fails
//   - [api.Client]: the forecast HTTP API
//   - [mongo.Store]: a MongoDB collection
//
// The chart core never touches a source; callers load a dataset once and
// hand the immutable value to the renderer.
//
// [api.Client]: github.com/matzehuels/forecastviz/pkg/source/api#Client
// [mongo.Store]: github.com/matzehuels/forecastviz/pkg/source/mongo#Store
package source

import (
	"context"

	"github.com/matzehuels/forecastviz/pkg/forecast"
)

// Source resolves tickers to datasets.
type Source interface {
	// Name identifies the source in cache keys, logs and metrics.
	Name() string
	Dataset(ctx context.Context, ticker string) (*forecast.Dataset, error)
}

// Synthetic always returns [forecast.Synthetic] for the ticker.
type Synthetic struct {
	Options forecast.SyntheticOptions
}

func (Synthetic) Name() string { return "synthetic" }

func (s Synthetic) Dataset(ctx context.Context, ticker string) (*forecast.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return forecast.Synthetic(ticker, s.Options), nil
}
