// Package cli implements the forecastviz command-line interface.
//
// Commands load forecast datasets from a file, the forecast backend, MongoDB
// or the synthetic generator, and render them through the shared pipeline.
// The CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
//   - render: Write charts as SVG, JSON, PDF or PNG
//   - place: Report the plot rectangle and annotation placement
//   - animate: Preview the reveal animation in the terminal
//   - serve: Run the HTTP preview server
//   - cache: Manage the dataset and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to each command's context and read back with loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled, timestamped lines ("15:04:05.00") to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a step together with how long it took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs e.g. "Loaded AAPL (12ms)".
func (p *progress) done(msg string) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, "took", elapsed)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when no logger is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}
