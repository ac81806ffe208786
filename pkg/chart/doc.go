// Package chart composes a forecast chart from a dataset and a configuration.
//
// # Overview
//
// [Compose] computes everything that does not depend on time: the plot
// rectangle, the shared y scale, axis ticks, the gap-aware polylines of the
// actual, forecast and superseded forecast series, the continuity stitch and
// the annotation placement. [Scene.Draw] paints a scene onto any
// [draw.Surface] for one [reveal.Snapshot], clipping the actual line to the
// reveal boundary and the forecast to the part right of the split.
//
// [Render] combines both and records the result in a [draw.Figure]:
//
//	fig := chart.Render(ds, chart.DefaultConfig(), reveal.Full())
//	svgBytes := svg.Render(fig)
//
// # Configuration
//
// [Config] covers canvas size, padding, tick counts, the annotation callout,
// continuity and connector modes, the reveal animation and the color
// palette. [LoadConfig] reads TOML on top of [DefaultConfig]:
//
//	width = 960
//	continuity = false
//	connector = true
//
//	[animation]
//	duration = "900ms"
//
//	[x_ticks]
//	months = [1, 7]
//
// # Responsive Sizing
//
// [View] observes a container width through an [Observer], derives the
// height from [Bounds] and re-renders on every resize and animation frame.
// A zero width suppresses drawing entirely.
//
// [draw.Surface]: github.com/matzehuels/forecastviz/pkg/draw.Surface
// [draw.Figure]: github.com/matzehuels/forecastviz/pkg/draw.Figure
// [reveal.Snapshot]: github.com/matzehuels/forecastviz/pkg/chart/reveal.Snapshot
package chart
