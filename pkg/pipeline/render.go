package pipeline

import (
	"fmt"

	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/render/sink"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/surface"
)

// Render lays m out on a fresh surface and writes every requested
// format. The layout is nil for the empty chart.
func Render(m *chart.Model, s settings.Settings, opts Options) (*heatmap.Layout, map[string][]byte, error) {
	surf := surface.New()
	layout := heatmap.NewRenderer(rendererOptions(opts)...).Render(m, opts.Viewport(), s, surf)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(surf, svgOptions(opts, opts.Animate)...)
		case FormatPNG:
			data, err = sink.RenderPNG(surf, pngOptions(opts)...)
		case FormatPDF:
			data, err = sink.RenderPDF(surf, svgOptions(opts, false)...)
		case FormatJSON:
			data, err = sink.RenderJSON(layout, surf, sink.WithJSONSettings(s))
		default:
			return nil, nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return layout, artifacts, nil
}

func rendererOptions(opts Options) []heatmap.Option {
	var ro []heatmap.Option
	if opts.Margin != nil {
		ro = append(ro, heatmap.WithMargin(*opts.Margin))
	}
	if !opts.Animate {
		ro = append(ro, heatmap.WithSuppressAnimations())
	}
	return ro
}

func pngOptions(opts Options) []sink.PNGOption {
	po := []sink.PNGOption{sink.WithScale(opts.Scale)}
	if opts.Background != "" {
		po = append(po, sink.WithPNGBackground(opts.Background))
	}
	if opts.RSVG {
		po = append(po, sink.WithRSVG(svgOptions(opts, false)...))
	}
	return po
}

func svgOptions(opts Options, animate bool) []sink.SVGOption {
	var so []sink.SVGOption
	if animate {
		so = append(so, sink.WithAnimations())
	}
	if opts.EmbedFont {
		so = append(so, sink.WithEmbeddedFont())
	}
	return so
}
