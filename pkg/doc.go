// Package pkg provides the libraries behind forecastviz, an animated stock
// forecast chart renderer.
//
// # Overview
//
// A chart shows a stock's actual prices, the active forecast and optionally
// superseded forecasts on one time axis. The forecast is stitched onto the
// last known price, an annotation callout is placed where it covers the
// least data, and a left-to-right reveal animates the lines in. The pkg
// directory is organized into four areas:
//
//  1. Data model ([series], [forecast])
//  2. Chart core ([chart] and its subpackages, [draw])
//  3. Output ([render], [render/sink])
//  4. Infrastructure ([source], [cache], [pipeline], [server], [observability])
//
// # Architecture
//
// The typical data flow:
//
//	Forecast backend / file / MongoDB / synthetic
//	         ↓
//	    [source] package (Dataset by ticker, synthetic fallback)
//	         ↓
//	    [chart] package (Compose scene, Render figure at a reveal snapshot)
//	         ↓
//	    [render/sink] package (SVG, JSON display list, PDF, PNG)
//
// [pipeline] ties these together with artifact caching and is shared by the
// CLI and the HTTP server.
//
// # Quick Start
//
//	ds := forecast.Synthetic("AAPL", forecast.SyntheticOptions{})
//	fig := chart.Render(ds, chart.DefaultConfig(), reveal.Full())
//	svg := sink.RenderSVG(fig)
//
// # Main Packages
//
// [chart/scale] - Linear scales, extents and nice domains.
//
// [chart/line] - Splits series into drawable runs at gaps.
//
// [chart/stitch] - Continuity between the last actual value and the forecast.
//
// [chart/placement] - Grid search for the annotation position that keeps the
// callout furthest from every drawn line.
//
// [chart/reveal] - Reveal timing, easing and the frame-driven controller.
//
// [chart] - Configuration, geometry, axis ticks and the pure Render function.
//
// [source/api] - Client for GET /stocks/{ticker}/forecast with caching, retry
// and rate limiting.
//
// [source/mongo] - Datasets stored one document per ticker.
//
// [series]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/series
// [forecast]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/forecast
// [chart]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/chart
// [chart/scale]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/chart/scale
// [chart/line]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/chart/line
// [chart/stitch]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/chart/stitch
// [chart/placement]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/chart/placement
// [chart/reveal]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/chart/reveal
// [draw]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/draw
// [render]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/render/sink
// [source]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/source
// [source/api]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/source/api
// [source/mongo]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/source/mongo
// [cache]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/forecastviz/pkg/observability
package pkg
