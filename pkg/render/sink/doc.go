// Package sink turns a recorded chart figure into output bytes.
//
// Each format has a Render function with functional options:
//
//   - [RenderSVG]: standalone SVG document
//   - [RenderJSON]: the display list plus optional chart metadata
//   - [RenderPDF], [RenderPNG]: SVG converted with rsvg-convert
//
// [Render] dispatches on a format name and is what the pipeline and the
// preview server call.
package sink
