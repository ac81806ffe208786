package chart

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/forecastviz/pkg/errors"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"negative padding", func(c *Config) { c.Padding.Left = -4 }},
		{"one y tick", func(c *Config) { c.YTicks = 1 }},
		{"zero x ticks", func(c *Config) { c.XTicks.Max = 0 }},
		{"bad month", func(c *Config) { c.XTicks.Months = []int{13} }},
		{"negative duration", func(c *Config) { c.Animation.FadeDelay = -time.Second }},
		{"inverted bounds", func(c *Config) { c.Responsive.MinHeight = 600 }},
		{"zero font", func(c *Config) { c.Annotation.FontSize = 0 }},
		{"NaN width", func(c *Config) { c.Width = math.NaN() }},
		{"infinite height", func(c *Config) { c.Height = math.Inf(1) }},
		{"NaN padding", func(c *Config) { c.Padding.Top = math.NaN() }},
		{"NaN font", func(c *Config) { c.Annotation.FontSize = math.NaN() }},
		{"NaN callout width", func(c *Config) { c.Annotation.Placement.Width = math.NaN() }},
		{"infinite callout height", func(c *Config) { c.Annotation.Placement.Height = math.Inf(-1) }},
		{"NaN bias", func(c *Config) { c.Annotation.Placement.Bias = math.NaN() }},
		{"NaN aspect ratio", func(c *Config) { c.Responsive.AspectRatio = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestZeroSizeIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero width should be valid (suppressed), got %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.Width != DefaultWidth || cfg.YTicks != DefaultYTicks || cfg.Colors.Actual == "" {
		t.Errorf("SetDefaults() left zero values: %+v", cfg)
	}
	if cfg.Annotation.Placement.Cols != 8 || cfg.Annotation.Placement.Rows != 4 {
		t.Errorf("placement grid = %dx%d, want 8x4", cfg.Annotation.Placement.Cols, cfg.Annotation.Placement.Rows)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaulted config invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.toml")
	data := `
width = 960
continuity = false
connector = true

[animation]
duration = "900ms"

[annotation.placement]
cols = 10

[x_ticks]
months = [1, 7]

[colors]
forecast = "#ff0000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 960 || cfg.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want 960x%d", cfg.Width, cfg.Height, DefaultHeight)
	}
	if cfg.Continuity || !cfg.Connector {
		t.Error("continuity/connector flags not applied")
	}
	if !cfg.ShowHistorical || !cfg.Animation.Enabled {
		t.Error("absent booleans should keep their defaults")
	}
	if cfg.Animation.Duration != 900*time.Millisecond {
		t.Errorf("duration = %v, want 900ms", cfg.Animation.Duration)
	}
	if cfg.Annotation.Placement.Cols != 10 || cfg.Annotation.Placement.Rows != 4 {
		t.Errorf("placement grid = %dx%d, want 10x4", cfg.Annotation.Placement.Cols, cfg.Annotation.Placement.Rows)
	}
	if !slices.Equal(cfg.XTicks.Months, []int{1, 7}) {
		t.Errorf("months = %v", cfg.XTicks.Months)
	}
	if cfg.Colors.Forecast != "#ff0000" || cfg.Colors.Actual != DefaultColors().Actual {
		t.Errorf("colors = %+v", cfg.Colors)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "width = ="},
		{"unknown key", "colour = 'red'"},
		{"invalid value", "y_ticks = 1"},
		{"nan width", "width = nan"},
		{"infinite bias", "[annotation.placement]\nbias = inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := DecodeConfig(tt.text, &cfg); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("DecodeConfig(%q) = %v, want INVALID_CONFIG", tt.text, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
