package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/observability"
	"github.com/matzehuels/forecastviz/pkg/server"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command, which runs the HTTP preview
// server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		src       sourceOpts
		chopts    chartOpts
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered charts and datasets over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := chopts.build(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), addr, cfg, &src, !noMetrics)
		},
	}

	src.register(cmd)
	chopts.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, cfg chart.Config, src *sourceOpts, metrics bool) error {
	runner, cleanup, err := c.newRunner(ctx, src)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()
	defer runner.Close()

	var prom *observability.Prometheus
	if metrics {
		prom = observability.NewPrometheus()
		observability.Register(prom)
		defer observability.Reset()
	}

	printSuccess("Serving %s charts", runner.Source.Name())
	printKeyValue("Address", StyleLink.Render(displayURL(addr)))
	printKeyValue("Chart", StyleDim.Render("/stocks/{ticker}/chart.{svg,json,png,pdf}"))
	printNewline()

	return server.New(runner, cfg, prom, c.Logger).ListenAndServe(ctx, addr)
}

func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
