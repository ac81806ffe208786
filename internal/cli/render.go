package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	fverrors "github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/pipeline"
	"github.com/matzehuels/forecastviz/pkg/render/sink"
)

// stdoutPath writes a single artifact to standard output.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	src     sourceOpts
	chart   chartOpts
	formats string        // comma-separated output formats
	output  string        // output file, base path or directory
	at      time.Duration // reveal frame to export; zero is the finished chart
	scale   float64       // PNG scale factor
	font    string        // SVG font family
}

// renderCommand creates the render command.
//
// Each ticker is loaded from the configured source and written to
// <TICKER>.<format> in the working directory unless --output says otherwise.
// Tickers render concurrently.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render TICKER...",
		Short: "Render forecast charts to SVG, JSON, PDF or PNG",
		Example: `  forecastviz render AAPL
  forecastviz render AAPL MSFT --format svg,png --output charts/
  forecastviz render AAPL --input data/ --at 300ms -o frame.svg
  forecastviz render AAPL --api https://forecast.example.com --glow`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.chart.build(cmd)
			if err != nil {
				return err
			}
			formats := parseFormats(opts.formats)
			for _, f := range formats {
				if err := fverrors.ValidateFormat(f, sink.Formats...); err != nil {
					return err
				}
			}
			if opts.output == stdoutPath && (len(args) > 1 || len(formats) > 1) {
				return fmt.Errorf("--output - needs exactly one ticker and one format")
			}
			base := pipeline.Options{
				Formats: formats,
				Chart:   cfg,
				At:      opts.at,
				Scale:   opts.scale,
				Font:    opts.font,
				Refresh: opts.src.refresh,
				Logger:  c.Logger,
			}
			return c.runRender(cmd.Context(), args, base, &opts)
		},
	}

	opts.src.register(cmd)
	opts.chart.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path (several formats) or directory (several tickers); - for stdout")
	cmd.Flags().DurationVar(&opts.at, "at", 0, "export the reveal frame at this elapsed time (e.g. 300ms)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.font, "font", "", "SVG font family")

	return cmd
}

// runRender renders every ticker with bounded concurrency, then writes the
// artifacts in argument order.
func (c *CLI) runRender(ctx context.Context, tickers []string, base pipeline.Options, opts *renderOpts) error {
	runner, cleanup, err := c.newRunner(ctx, &opts.src)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()
	defer runner.Close()

	quiet := opts.output == stdoutPath
	var spinner *Spinner
	if !quiet {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(tickers, ", ")))
		spinner.Start()
	}

	results := make([]*pipeline.Result, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			o := base
			o.Ticker = ticker
			res, err := runner.Execute(gctx, o)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	if quiet {
		_, err := stdout.Write(results[0].Artifacts[base.Formats[0]])
		return err
	}

	multiTicker := len(tickers) > 1
	multiFormat := len(base.Formats) > 1
	if multiTicker && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	for _, res := range results {
		ticker := res.Dataset.Ticker
		printSuccess("Rendered %s", StyleHighlight.Render(ticker))
		for _, format := range base.Formats {
			path := outputPath(opts.output, ticker, format, multiTicker, multiFormat)
			if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printFile(path)
		}
		printStats(res.Dataset.Len(), res.Stats.Bytes, res.Stats.LoadTime+res.Stats.RenderTime, res.CacheInfo.RenderHit)
		for _, issue := range res.Issues {
			printWarning("%s", issue.String())
		}
	}
	if !multiTicker && base.Chart.Animation.Enabled {
		printNewline()
		printNextStep("Preview the reveal", appName+" animate "+results[0].Dataset.Ticker)
	}
	return nil
}

// outputPath derives the file an artifact is written to.
func outputPath(output, ticker, format string, multiTicker, multiFormat bool) string {
	name := strings.ToUpper(ticker) + "." + format
	switch {
	case output == "":
		return name
	case multiTicker:
		return filepath.Join(output, name)
	case multiFormat:
		return basePath(output) + "." + format
	}
	return output
}

// basePath strips a known format extension from path.
func basePath(path string) string {
	ext := filepath.Ext(path)
	for _, f := range sink.Formats {
		if strings.EqualFold(ext, "."+f) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}
