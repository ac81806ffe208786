package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/chart/placement"
	"github.com/matzehuels/forecastviz/pkg/draw"
)

// placeReport is the machine-readable output of the place command.
type placeReport struct {
	Ticker    string            `json:"ticker"`
	Plot      draw.Rect         `json:"plot"`
	SplitX    float64           `json:"split_x"`
	Domain    [2]float64        `json:"domain"`
	Segments  int               `json:"segments"`
	Placement *placement.Result `json:"placement,omitempty"`
	Callout   *draw.Rect        `json:"callout,omitempty"`
	Lines     []string          `json:"lines,omitempty"`
}

// placeCommand creates the place command, which reports where the
// annotation callout lands without rendering anything.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		src    sourceOpts
		chopts chartOpts
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "place TICKER",
		Short: "Show the plot rectangle, forecast split and annotation placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := chopts.build(cmd)
			if err != nil {
				return err
			}
			report, err := c.runPlace(cmd.Context(), args[0], cfg, &src)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printPlace(report)
			return nil
		},
	}

	src.register(cmd)
	chopts.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) runPlace(ctx context.Context, ticker string, cfg chart.Config, src *sourceOpts) (*placeReport, error) {
	runner, cleanup, err := c.newRunner(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	ds, err := runner.Load(ctx, ticker)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %s from %s", ds.Ticker, runner.Source.Name()))
	scene := chart.Compose(ds, cfg)
	return newPlaceReport(ds.Ticker, scene), nil
}

func newPlaceReport(ticker string, scene *chart.Scene) *placeReport {
	r := &placeReport{
		Ticker:    ticker,
		Plot:      scene.Geometry.Plot,
		SplitX:    scene.Geometry.SplitX,
		Domain:    scene.Geometry.Domain,
		Segments:  len(scene.Segments),
		Placement: scene.Placement,
		Lines:     scene.Lines,
	}
	if scene.Placement != nil {
		p := scene.Config.Annotation.Placement
		p.SetDefaults()
		box := scene.Placement.Box(p.Width, p.Height)
		r.Callout = &box
	}
	return r
}

func printPlace(r *placeReport) {
	fmt.Println(StyleTitle.Render(r.Ticker))
	printKeyValue("Plot", fmt.Sprintf("%s..%s x %s..%s",
		num(r.Plot.Left), num(r.Plot.Right), num(r.Plot.Top), num(r.Plot.Bottom)))
	printKeyValue("Split x", num(r.SplitX))
	printKeyValue("Y domain", fmt.Sprintf("%s..%s", num(r.Domain[0]), num(r.Domain[1])))
	printKeyValue("Segments", StyleNumber.Render(fmt.Sprint(r.Segments)))
	if r.Placement == nil {
		printKeyValue("Callout", StyleDim.Render("none"))
		return
	}
	printKeyValue("Callout", fmt.Sprintf("left %s top %s (%s side)",
		num(r.Placement.Left), num(r.Placement.Top), r.Placement.Side))
	if r.Placement.Score > 0 {
		printKeyValue("Clearance", num(r.Placement.Score))
	} else {
		printKeyValue("Clearance", StyleDim.Render("centered fallback"))
	}
	for _, l := range r.Lines {
		printDetail("%s", l)
	}
}

func num(v float64) string {
	return StyleNumber.Render(fmt.Sprintf("%.1f", v))
}
