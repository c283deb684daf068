// Package sink turns a drawn heat map into output artifacts.
//
// A sink reads the element tree of a [surface.Surface] after
// [heatmap.Renderer.Render] and produces:
//
//   - SVG: one element per surface element, cell tooltips as <title>, and
//     cell color transitions as SMIL <animate> elements
//   - PNG: the settled (final) state rasterised with rasterx and the Go
//     Mono faces, or converted by rsvg-convert with [WithRSVG]
//   - PDF: the settled SVG converted by rsvg-convert
//   - JSON: the computed [heatmap.Layout], optionally with the element tree
//
// Basic usage:
//
//	surf := surface.New()
//	layout := heatmap.NewRenderer().Render(model, vp, s, surf)
//	svg := sink.RenderSVG(surf, sink.WithAnimations())
//	png, err := sink.RenderPNG(surf, sink.WithScale(2))
//	js, err := sink.RenderJSON(layout, surf)
//
// Sinks never modify the surface.
//
// [surface.Surface]: github.com/matzehuels/tableheatmap/pkg/surface.Surface
// [heatmap.Renderer.Render]: github.com/matzehuels/tableheatmap/pkg/heatmap.Renderer.Render
// [heatmap.Layout]: github.com/matzehuels/tableheatmap/pkg/heatmap.Layout
package sink
