package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/chart/stitch"
	"github.com/matzehuels/forecastviz/pkg/draw"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/series"
)

const (
	// pxPerColumn converts terminal columns to container pixels.
	pxPerColumn = 10

	defaultFPS    = 30
	maxSparkWidth = 96
	barWidth      = 40
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

var (
	styleActual   = lipgloss.NewStyle().Foreground(colorBlue)
	styleForecast = lipgloss.NewStyle().Foreground(colorYellow)
	styleBoundary = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// animateCommand creates the animate command: a terminal preview of the
// reveal driven by the same controller and responsive view as the renderer.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		src    sourceOpts
		chopts chartOpts
		fps    int
	)

	cmd := &cobra.Command{
		Use:   "animate TICKER",
		Short: "Preview the reveal animation in the terminal",
		Long: `Preview the reveal animation in the terminal.

The terminal width drives the chart width (10 px per column). Keys:
  r      replay the reveal
  a      toggle the animation
  q      quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := chopts.build(cmd)
			if err != nil {
				return err
			}
			return c.runAnimate(cmd.Context(), args[0], cfg, &src, fps)
		},
	}

	src.register(cmd)
	chopts.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", defaultFPS, "frames per second")
	return cmd
}

func (c *CLI) runAnimate(ctx context.Context, ticker string, cfg chart.Config, src *sourceOpts, fps int) error {
	runner, cleanup, err := c.newRunner(ctx, src)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer cleanup()
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	ds, err := runner.Load(ctx, ticker)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %s", ds.Ticker))

	m := newAnimateModel(ds, cfg, fps)
	defer m.close()
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// animateModel - bubbletea model around chart.View
// =============================================================================

type frameMsg time.Time

// animateModel owns a chart.View. Frames are fired from Update, so the view
// and its controller only ever run on the bubbletea event loop.
type animateModel struct {
	ds        *forecast.Dataset
	cfg       chart.Config
	interval  time.Duration
	frames    *reveal.ManualFrames
	container *chart.Container
	view      *chart.View

	values   series.Series
	cols     int
	rendered int
	figure   *draw.Figure
	animated bool
}

func newAnimateModel(ds *forecast.Dataset, cfg chart.Config, fps int) *animateModel {
	if fps <= 0 {
		fps = defaultFPS
	}
	m := &animateModel{
		ds:        ds,
		cfg:       cfg,
		interval:  time.Second / time.Duration(fps),
		frames:    &reveal.ManualFrames{},
		container: chart.NewContainer(cfg.Width),
		values:    visibleSeries(ds, cfg.Continuity),
		cols:      int(cfg.Width) / pxPerColumn,
		animated:  cfg.Animation.Enabled,
	}
	m.view = chart.NewView(ds, cfg, m.container, m.frames, func(f *draw.Figure) {
		m.figure = f
		m.rendered++
	})
	return m
}

func (m *animateModel) close() { m.view.Close() }

func (m *animateModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *animateModel) Init() tea.Cmd {
	return m.tick()
}

func (m *animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.view.Replay()
		case "a":
			m.animated = !m.animated
			m.view.SetAnimated(m.animated)
		}
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.container.Resize(float64(msg.Width * pxPerColumn))
	case frameMsg:
		m.frames.Fire(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *animateModel) View() string {
	var b strings.Builder
	snap := m.view.Snapshot()
	w, h := m.view.Size()

	b.WriteString(StyleTitle.Render(m.ds.Ticker))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %.0fx%.0f px", w, h)))
	b.WriteString("\n\n")

	plot := chart.PlotRect(w, h, m.cfg.Padding)
	rows := [][2]string{
		{"State", string(snap.State)},
		{"Progress", progressBar(snap.Eased, barWidth) + fmt.Sprintf(" %3.0f%%", snap.Eased*100)},
		{"Boundary", fmt.Sprintf("x = %.1f", snap.Boundary(plot))},
		{"Historical", fmt.Sprintf("%.2f", snap.HistoricalOpacity)},
		{"Annotation", fmt.Sprintf("%.2f", snap.AnnotationOpacity)},
		{"Frames", fmt.Sprintf("%d rendered, %d pending", m.rendered, m.frames.Pending())},
	}
	if m.figure != nil {
		rows = append(rows, [2]string{"Ops", fmt.Sprint(len(m.figure.Ops))})
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	for _, r := range rows {
		b.WriteString(keyStyle.Render(r[0]) + " " + StyleValue.Render(r[1]) + "\n")
	}

	b.WriteString("\n")
	width := min(max(m.cols-4, 8), maxSparkWidth)
	b.WriteString("  " + m.sparkline(width, snap.Eased) + "\n\n")

	animation := "on"
	if !m.animated {
		animation = "off"
	}
	b.WriteString(StyleDim.Render("r replay  a animation (" + animation + ")  q quit"))
	return b.String()
}

// sparkline renders the revealed part of the chart. Columns right of the
// reveal boundary are blank.
func (m *animateModel) sparkline(width int, eased float64) string {
	runes, split := sparkRunes(m.values, m.ds.PredictStartIndex, width)
	visible := int(math.Round(eased * float64(len(runes))))

	var b strings.Builder
	for i, r := range runes {
		switch {
		case i >= visible:
			b.WriteString(StyleDim.Render("·"))
		case i == visible-1 && visible < len(runes):
			b.WriteString(styleBoundary.Render(string(r)))
		case i >= split:
			b.WriteString(styleForecast.Render(string(r)))
		default:
			b.WriteString(styleActual.Render(string(r)))
		}
	}
	return b.String()
}

// visibleSeries is the actual series with the forecast filling every step
// the actuals leave undefined.
func visibleSeries(ds *forecast.Dataset, continuity bool) series.Series {
	predicted := ds.Predicted
	if continuity {
		predicted = stitch.Continuity(ds.Actual, ds.Predicted, ds.PredictStartIndex)
	}
	out := make(series.Series, ds.Len())
	for i := range out {
		if v, ok := ds.Actual.At(i); ok {
			out[i] = v
		} else if v, ok := predicted.At(i); ok {
			out[i] = v
		} else {
			out[i] = series.Gap
		}
	}
	return out
}

// sparkRunes samples values into width block characters and returns the
// first column at or after step split. Gaps are spaces.
func sparkRunes(values series.Series, split, width int) ([]rune, int) {
	n := len(values)
	if n == 0 || width <= 0 {
		return nil, 0
	}
	width = min(width, n*4)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !series.IsGap(v) {
			lo, hi = min(lo, v), max(hi, v)
		}
	}

	out := make([]rune, width)
	splitCol := width
	for col := range out {
		i := col * n / width
		if i >= split && splitCol == width {
			splitCol = col
		}
		v, ok := values.At(i)
		switch {
		case !ok:
			out[col] = ' '
		case hi == lo:
			out[col] = sparkLevels[len(sparkLevels)/2]
		default:
			lvl := int((v - lo) / (hi - lo) * float64(len(sparkLevels)-1))
			out[col] = sparkLevels[lvl]
		}
	}
	return out, splitCol
}

func progressBar(p float64, width int) string {
	filled := int(math.Round(max(0, min(1, p)) * float64(width)))
	return StyleHighlight.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}
