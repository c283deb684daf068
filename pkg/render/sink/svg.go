package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/tableheatmap/pkg/fonts"
	"github.com/matzehuels/tableheatmap/pkg/surface"
)

const baseCSS = `
    .mono { font-family: %s; }
    .axis { fill: #666666; font-size: %spx; }
    .groupLabel { fill: #333333; }
    rect.bordered:hover { stroke-width: 3px; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	animate    bool
	embedFont  bool
	background string
	css        bool
}

// WithAnimations emits SMIL animations for pending cell transitions.
// Without it the final colors are written directly.
func WithAnimations() SVGOption { return func(r *svgRenderer) { r.animate = true } }

// WithEmbeddedFont embeds the label font as a data URL.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithBackground fills the canvas with color before drawing.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithoutStyleSheet omits the default class style sheet.
func WithoutStyleSheet() SVGOption { return func(r *svgRenderer) { r.css = false } }

// RenderSVG writes surf as a standalone SVG document.
func RenderSVG(surf *surface.Surface, opts ...SVGOption) []byte {
	r := svgRenderer{css: true}
	for _, opt := range opts {
		opt(&r)
	}

	root := surf.Root()
	w, h := surf.Size()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg"%s width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		classAttr(root), surface.FormatNum(w), surface.FormatNum(h), surface.FormatNum(w), surface.FormatNum(h))

	if r.css || r.embedFont {
		r.renderStyle(&buf, surf.FontSize())
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	for _, c := range root.Children {
		r.renderElement(&buf, c, 1)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderStyle(buf *bytes.Buffer, fontSize float64) {
	buf.WriteString("  <style>")
	if r.embedFont {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.MonoTTFBase64())
	}
	if r.css {
		fmt.Fprintf(buf, baseCSS, fonts.FallbackFontFamily, surface.FormatNum(fontSize))
	}
	buf.WriteString("\n  </style>\n")
}

func (r *svgRenderer) renderElement(buf *bytes.Buffer, el *surface.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, "%s<%s%s", indent, el.Tag, classAttr(el))
	for _, a := range el.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, escapeXML(a.Value))
	}

	style := el.Style
	tr := el.Transition
	if tr != nil && !r.animate {
		style = settled(style, tr)
	}
	if len(style) > 0 {
		parts := make([]string, len(style))
		for i, s := range style {
			parts[i] = s.Name + ": " + s.Value
		}
		fmt.Fprintf(buf, ` style="%s"`, escapeXML(strings.Join(parts, "; ")))
	}

	hasAnim := tr != nil && r.animate
	if el.Text == "" && len(el.Children) == 0 && !hasAnim {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteString(">")
	if el.Text != "" {
		buf.WriteString(escapeXML(el.Text))
	}
	if len(el.Children) > 0 || hasAnim {
		buf.WriteString("\n")
		if hasAnim {
			fmt.Fprintf(buf, `%s  <animate attributeName="%s" attributeType="CSS" from="%s" to="%s" dur="%dms" fill="freeze"/>`+"\n",
				indent, tr.Property, escapeXML(tr.From), escapeXML(tr.To), tr.Duration.Milliseconds())
		}
		for _, c := range el.Children {
			r.renderElement(buf, c, depth+1)
		}
		buf.WriteString(indent)
	}
	fmt.Fprintf(buf, "</%s>\n", el.Tag)
}

// settled returns style with the transition's end value applied.
func settled(style []surface.Attr, tr *surface.Transition) []surface.Attr {
	out := make([]surface.Attr, 0, len(style)+1)
	found := false
	for _, s := range style {
		if s.Name == tr.Property {
			s.Value = tr.To
			found = true
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, surface.Attr{Name: tr.Property, Value: tr.To})
	}
	return out
}

func classAttr(el *surface.Element) string {
	if len(el.Classes) == 0 {
		return ""
	}
	return ` class="` + escapeXML(strings.Join(el.Classes, " ")) + `"`
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
