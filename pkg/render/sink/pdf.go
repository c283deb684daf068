package sink

import (
	"github.com/matzehuels/tableheatmap/pkg/render"
	"github.com/matzehuels/tableheatmap/pkg/surface"
)

// RenderPDF renders the final state of surf as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(surf *surface.Surface, opts ...SVGOption) ([]byte, error) {
	svg := RenderSVG(surf, opts...)
	return render.ToPDF(svg)
}
