package source

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/observability"
)

// Fallback serves datasets from Primary and substitutes the synthetic
// dataset when Primary fails. Invalid tickers and cancelled contexts are
// returned as errors rather than replaced.
type Fallback struct {
	Primary Source
	Options forecast.SyntheticOptions
	Logger  *log.Logger
}

// NewFallback wraps primary. A nil logger discards output.
func NewFallback(primary Source, logger *log.Logger) *Fallback {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fallback{Primary: primary, Logger: logger}
}

func (f *Fallback) Name() string {
	if f.Primary == nil {
		return "synthetic"
	}
	return f.Primary.Name()
}

func (f *Fallback) Dataset(ctx context.Context, ticker string) (*forecast.Dataset, error) {
	if err := errors.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	if f.Primary == nil {
		return Synthetic{Options: f.Options}.Dataset(ctx, ticker)
	}

	hooks := observability.Render()
	hooks.OnLoadStart(ctx, f.Primary.Name(), ticker)
	start := time.Now()
	ds, err := f.Primary.Dataset(ctx, ticker)
	hooks.OnLoadComplete(ctx, f.Primary.Name(), ticker, time.Since(start), err)
	if err == nil {
		return ds, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if f.Logger != nil {
		f.Logger.Warn("using synthetic dataset", "ticker", ticker, "source", f.Primary.Name(), "err", err)
	}
	observability.Source().OnFallback(ctx, ticker, err)
	return forecast.Synthetic(ticker, f.Options), nil
}
