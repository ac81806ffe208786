package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/matzehuels/forecastviz/pkg/chart"
	"github.com/matzehuels/forecastviz/pkg/chart/reveal"
	"github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/render"
)

func testFigure(t *testing.T) (*chart.Scene, reveal.Snapshot, []byte) {
	t.Helper()
	ds := forecast.Synthetic("ACME", forecast.SyntheticOptions{})
	cfg := chart.DefaultConfig()
	snap := reveal.Full()
	f := chart.Render(ds, cfg, snap)
	return chart.Compose(ds, cfg), snap, RenderSVG(f)
}

func TestRenderSVG(t *testing.T) {
	_, _, data := testFigure(t)
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Errorf("output does not start with <svg: %q", data[:min(len(data), 40)])
	}
	if !bytes.Contains(data, []byte("clipPath")) {
		t.Error("expected clip paths in output")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	f := chart.Render(forecast.Synthetic("ACME", forecast.SyntheticOptions{}), chart.DefaultConfig(), reveal.Full())
	data := RenderSVG(f, WithFont("Inter"), WithIDPrefix("custom"))
	if !bytes.Contains(data, []byte("Inter")) {
		t.Error("font family missing")
	}
	if !bytes.Contains(data, []byte(`id="custom-clip-`)) {
		t.Error("clip id prefix not applied")
	}
}

func TestRenderJSON(t *testing.T) {
	ds := forecast.Synthetic("ACME", forecast.SyntheticOptions{})
	cfg := chart.DefaultConfig()
	snap := reveal.At(cfg.Animation, 0)
	f := chart.Render(ds, cfg, snap)

	data, err := RenderJSON(f, WithJSONTicker("ACME"), WithJSONScene(chart.Compose(ds, cfg)), WithJSONSnapshot(snap))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		Ticker   string          `json:"ticker"`
		Snapshot reveal.Snapshot `json:"snapshot"`
		Scene    struct {
			Geometry chart.Geometry `json:"geometry"`
		} `json:"scene"`
		Figure struct {
			ID  string            `json:"id"`
			Ops []json.RawMessage `json:"ops"`
		} `json:"figure"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Ticker != "ACME" {
		t.Errorf("Ticker = %q, want ACME", out.Ticker)
	}
	if out.Snapshot.State != reveal.Idle {
		t.Errorf("Snapshot.State = %q, want %q", out.Snapshot.State, reveal.Idle)
	}
	if out.Scene.Geometry.Width != cfg.Width {
		t.Errorf("Geometry.Width = %v, want %v", out.Scene.Geometry.Width, cfg.Width)
	}
	if out.Figure.ID != f.ID || len(out.Figure.Ops) != len(f.Ops) {
		t.Errorf("figure mismatch: id %q ops %d, want %q ops %d", out.Figure.ID, len(out.Figure.Ops), f.ID, len(f.Ops))
	}
}

func TestRenderJSONMinimal(t *testing.T) {
	f := chart.Render(nil, chart.Config{}, reveal.Full())
	data, err := RenderJSON(f)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	for _, key := range []string{"ticker", "scene", "snapshot"} {
		if _, ok := out[key]; ok {
			t.Errorf("unexpected key %q in minimal output", key)
		}
	}
}

func TestRenderDispatch(t *testing.T) {
	f := chart.Render(forecast.Synthetic("ACME", forecast.SyntheticOptions{}), chart.DefaultConfig(), reveal.Full())
	ctx := context.Background()

	for _, format := range []string{FormatSVG, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			data, err := Render(ctx, format, f, Options{})
			if err != nil {
				t.Fatalf("Render(%s) error: %v", format, err)
			}
			if len(data) == 0 {
				t.Error("empty output")
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := Render(ctx, "gif", f, Options{})
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
		}
	})
}

func TestRenderRaster(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	f := chart.Render(forecast.Synthetic("ACME", forecast.SyntheticOptions{}), chart.DefaultConfig(), reveal.Full())
	ctx := context.Background()

	png, err := RenderPNG(ctx, f, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("PNG signature missing")
	}

	pdf, err := RenderPDF(ctx, f)
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("PDF signature missing")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatSVG:  "image/svg+xml",
		FormatJSON: "application/json",
		FormatPNG:  "image/png",
		FormatPDF:  "application/pdf",
		"bin":      "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}
