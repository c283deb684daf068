// Package render holds the heat map's output stage.
//
// Drawing produces a [surface.Surface]; the [sink] subpackage turns that
// surface into SVG, PNG, PDF or JSON artifacts.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert SVG to other formats using the
// external rsvg-convert tool (from librsvg). PDF output always goes
// through rsvg-convert; PNG output is rasterised natively by default and
// uses rsvg-convert only when asked to.
//
//	svg := sink.RenderSVG(surf)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [surface.Surface]: github.com/matzehuels/tableheatmap/pkg/surface.Surface
// [sink]: github.com/matzehuels/tableheatmap/pkg/render/sink
package render
