package chart

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forecastviz/pkg/chart/placement"
	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/errors"
)

// Padding reserves space around the plot rectangle for axis labels.
type Padding struct {
	Top    float64 `toml:"top" json:"top"`
	Right  float64 `toml:"right" json:"right"`
	Bottom float64 `toml:"bottom" json:"bottom"`
	Left   float64 `toml:"left" json:"left"`
}

// XTicks selects which time steps get an x-axis label. When Months is set,
// only steps whose label falls in one of those calendar months (1-12) are
// labeled; otherwise at most Max evenly spaced steps are, always including
// the last.
type XTicks struct {
	Months []int `toml:"months" json:"months,omitempty"`
	Max    int   `toml:"max" json:"max"`
}

// Annotation configures the callout.
type Annotation struct {
	Enabled   bool              `toml:"enabled" json:"enabled"`
	FontSize  float64           `toml:"font_size" json:"font_size"`
	Placement placement.Options `toml:"placement" json:"placement"`
}

// Colors is the palette of a chart.
type Colors struct {
	Actual           string `toml:"actual" json:"actual"`
	Forecast         string `toml:"forecast" json:"forecast"`
	Historical       string `toml:"historical" json:"historical"`
	Connector        string `toml:"connector" json:"connector"`
	Split            string `toml:"split" json:"split"`
	Grid             string `toml:"grid" json:"grid"`
	Axis             string `toml:"axis" json:"axis"`
	Text             string `toml:"text" json:"text"`
	Background       string `toml:"background" json:"background"`
	AnnotationFill   string `toml:"annotation_fill" json:"annotation_fill"`
	AnnotationBorder string `toml:"annotation_border" json:"annotation_border"`
}

// Config is everything the composer needs besides the dataset.
type Config struct {
	Width          float64        `toml:"width" json:"width"`
	Height         float64        `toml:"height" json:"height"`
	Padding        Padding        `toml:"padding" json:"padding"`
	YTicks         int            `toml:"y_ticks" json:"y_ticks"`
	XTicks         XTicks         `toml:"x_ticks" json:"x_ticks"`
	Annotation     Annotation     `toml:"annotation" json:"annotation"`
	Continuity     bool           `toml:"continuity" json:"continuity"`
	Connector      bool           `toml:"connector" json:"connector"`
	ShowHistorical bool           `toml:"show_historical" json:"show_historical"`
	SplitMarker    bool           `toml:"split_marker" json:"split_marker"`
	Glow           bool           `toml:"glow" json:"glow"`
	Animation      reveal.Options `toml:"animation" json:"animation"`
	Colors         Colors         `toml:"colors" json:"colors"`
	Responsive     Bounds         `toml:"responsive" json:"responsive"`
}

const (
	DefaultWidth    = 800
	DefaultHeight   = 400
	DefaultYTicks   = 5
	DefaultXTickMax = 8
	DefaultFontSize = 13
)

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Padding:        Padding{Top: 16, Right: 24, Bottom: 36, Left: 56},
		YTicks:         DefaultYTicks,
		XTicks:         XTicks{Max: DefaultXTickMax},
		Annotation:     Annotation{Enabled: true, FontSize: DefaultFontSize, Placement: placement.DefaultOptions()},
		Continuity:     true,
		ShowHistorical: true,
		SplitMarker:    true,
		Animation:      reveal.DefaultOptions(),
		Colors:         DefaultColors(),
		Responsive:     DefaultBounds(),
	}
}

// DefaultColors returns the stock palette.
func DefaultColors() Colors {
	return Colors{
		Actual:           "#2563eb",
		Forecast:         "#f97316",
		Historical:       "#94a3b8",
		Connector:        "#64748b",
		Split:            "#9ca3af",
		Grid:             "#e5e7eb",
		Axis:             "#6b7280",
		Text:             "#111827",
		Background:       "#ffffff",
		AnnotationFill:   "#ffffff",
		AnnotationBorder: "#d1d5db",
	}
}

// SetDefaults fills unset numeric fields and empty colors. Booleans are left
// alone; start from [DefaultConfig] to get their defaults.
func (c *Config) SetDefaults() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.YTicks == 0 {
		c.YTicks = DefaultYTicks
	}
	if c.XTicks.Max == 0 {
		c.XTicks.Max = DefaultXTickMax
	}
	if c.Annotation.FontSize == 0 {
		c.Annotation.FontSize = DefaultFontSize
	}
	c.Annotation.Placement.SetDefaults()
	if c.Animation.Duration == 0 {
		c.Animation.Duration = reveal.DefaultDuration
	}
	c.Responsive.setDefaults()

	d := DefaultColors()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.Colors.Actual, d.Actual)
	fill(&c.Colors.Forecast, d.Forecast)
	fill(&c.Colors.Historical, d.Historical)
	fill(&c.Colors.Connector, d.Connector)
	fill(&c.Colors.Split, d.Split)
	fill(&c.Colors.Grid, d.Grid)
	fill(&c.Colors.Axis, d.Axis)
	fill(&c.Colors.Text, d.Text)
	fill(&c.Colors.Background, d.Background)
	fill(&c.Colors.AnnotationFill, d.AnnotationFill)
	fill(&c.Colors.AnnotationBorder, d.AnnotationBorder)
}

// Validate rejects configurations that cannot describe a chart. A zero
// width or height is valid and suppresses drawing.
func (c Config) Validate() error {
	p := c.Annotation.Placement
	switch {
	case !finite(c.Width, c.Height, c.Padding.Top, c.Padding.Right, c.Padding.Bottom, c.Padding.Left, c.Annotation.FontSize):
		return errors.New(errors.ErrCodeInvalidConfig, "sizes, padding and font size must be finite numbers")
	case !finite(p.Width, p.Height, p.Bias, p.Inset, p.Offset):
		return errors.New(errors.ErrCodeInvalidConfig, "annotation.placement values must be finite numbers")
	case c.Width < 0 || c.Height < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must not be negative (got %vx%v)", c.Width, c.Height)
	case c.Padding.Top < 0 || c.Padding.Right < 0 || c.Padding.Bottom < 0 || c.Padding.Left < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative")
	case c.YTicks < 2:
		return errors.New(errors.ErrCodeInvalidConfig, "y_ticks must be at least 2 (got %d)", c.YTicks)
	case c.XTicks.Max < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "x_ticks.max must be at least 1 (got %d)", c.XTicks.Max)
	case c.Annotation.FontSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "annotation.font_size must be positive")
	case c.Animation.Duration < 0 || c.Animation.FadeDelay < 0 || c.Animation.FadeDuration < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "animation durations must not be negative")
	}
	for _, m := range c.XTicks.Months {
		if m < 1 || m > 12 {
			return errors.New(errors.ErrCodeInvalidConfig, "x_ticks.months: %d is not a calendar month", m)
		}
	}
	if p.Width < 0 || p.Height < 0 || p.Cols < 0 || p.Rows < 0 || p.Bias < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "annotation.placement values must not be negative")
	}
	return c.Responsive.Validate()
}

// finite reports whether every value is neither NaN nor infinite.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LoadConfig decodes a TOML file on top of [DefaultConfig]. Keys missing
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := DecodeConfig(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DecodeConfig decodes TOML text into cfg, rejecting unknown keys.
func DecodeConfig(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undec[0].String())
	}
	cfg.SetDefaults()
	return cfg.Validate()
}
