package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/fonts"
	"github.com/matzehuels/tableheatmap/pkg/render"
	"github.com/matzehuels/tableheatmap/pkg/surface"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background color.Color
	rsvg       bool
	svgOpts    []SVGOption
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGBackground sets the canvas color. Invalid colors are ignored.
func WithPNGBackground(hex string) PNGOption {
	return func(r *pngRenderer) {
		if c, ok := parseColor(hex); ok {
			r.background = c
		}
	}
}

// WithRSVG converts the SVG output with rsvg-convert instead of the
// built-in rasteriser. Requires librsvg: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
func WithRSVG(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.rsvg = true; r.svgOpts = opts }
}

// RenderPNG rasterises the final state of surf. Pending transitions are
// drawn at their end color; surf itself is not modified. An empty surface
// produces a 1x1 image of the background color.
func RenderPNG(surf *surface.Surface, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: color.White}
	for _, opt := range opts {
		opt(&r)
	}
	if r.rsvg {
		return render.ToPNG(RenderSVG(surf, r.svgOpts...), r.scale)
	}

	w, h := surf.Size()
	pw, ph := int(math.Ceil(w*r.scale)), int(math.Ceil(h*r.scale))
	// The empty chart still yields a valid image.
	pw, ph = max(pw, 1), max(ph, 1)

	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	c := &canvas{img: img, scale: r.scale, surf: surf}
	c.scanner = rasterx.NewScannerGV(pw, ph, img, img.Bounds())
	for _, el := range surf.Root().Children {
		el.Walk(c.draw)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

type canvas struct {
	img     *image.RGBA
	scale   float64
	surf    *surface.Surface
	scanner *rasterx.ScannerGV
}

func (c *canvas) draw(el *surface.Element) {
	switch el.Tag {
	case surface.TagRect:
		c.rect(el)
	case surface.TagLine:
		c.line(el)
	case surface.TagText:
		c.text(el)
	}
}

func (c *canvas) rect(el *surface.Element) {
	s := c.scale
	x, y := el.Num("x")*s, el.Num("y")*s
	w, h := el.Num("width")*s, el.Num("height")*s
	bounds := c.img.Bounds()

	if fill, ok := parseColor(finalStyle(el, "fill")); ok {
		f := rasterx.NewFiller(bounds.Dx(), bounds.Dy(), c.scanner)
		f.SetColor(fill)
		rasterx.AddRect(x, y, x+w, y+h, 0, f)
		f.Draw()
		f.Clear()
	}

	stroke, ok := parseColor(finalStyle(el, "stroke"))
	if !ok {
		return
	}
	width := 1.0
	if v, ok := el.StyleValue("stroke-width"); ok {
		width = parseLength(v, width)
	}
	st := rasterx.NewStroker(bounds.Dx(), bounds.Dy(), c.scanner)
	st.SetStroke(fixed.Int26_6(width*s*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter)
	st.SetColor(stroke)
	rasterx.AddRect(x, y, x+w, y+h, 0, st)
	st.Draw()
	st.Clear()
}

func (c *canvas) line(el *surface.Element) {
	s := c.scale
	stroke, ok := parseColor(attrOrStyle(el, "stroke"))
	if !ok {
		return
	}
	width := parseLength(attrOrStyle(el, "stroke-width"), 1)
	var dashes []float64
	for _, d := range strings.Split(attrOrStyle(el, "stroke-dasharray"), ",") {
		if v := parseLength(d, 0); v > 0 {
			dashes = append(dashes, v*s)
		}
	}

	bounds := c.img.Bounds()
	d := rasterx.NewDasher(bounds.Dx(), bounds.Dy(), c.scanner)
	d.SetStroke(fixed.Int26_6(width*s*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, dashes, 0)
	d.SetColor(stroke)
	d.Start(rasterx.ToFixedP(el.Num("x1")*s, el.Num("y1")*s))
	d.Line(rasterx.ToFixedP(el.Num("x2")*s, el.Num("y2")*s))
	d.Stop(false)
	d.Draw()
	d.Clear()
}

func (c *canvas) text(el *surface.Element) {
	if el.Text == "" {
		return
	}
	size, bold := c.surf.TextStyle(el)
	face, err := fonts.NewFace(size*c.scale, bold)
	if err != nil {
		return
	}
	defer face.Close()

	col, ok := parseColor(finalStyle(el, "fill"))
	if !ok {
		col = defaultTextColor(el)
	}

	w, _ := fonts.Measure(el.Text, size, bold)
	ascent, descent := fonts.Metrics(size, bold)
	x, y := el.Num("x"), el.Num("y")
	switch anchor, _ := el.StyleValue("text-anchor"); anchor {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}
	if b, _ := el.Attr("alignment-baseline"); b == "central" {
		y += (ascent - descent) / 2
	}

	dr := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(int(math.Round(x*c.scale)), int(math.Round(y*c.scale))),
	}
	dr.DrawString(el.Text)
}

// defaultTextColor mirrors the style sheet emitted with SVG output.
func defaultTextColor(el *surface.Element) color.Color {
	switch {
	case el.HasClass("groupLabel"):
		return color.RGBA{0x33, 0x33, 0x33, 0xff}
	case el.HasClass("axis"):
		return color.RGBA{0x66, 0x66, 0x66, 0xff}
	default:
		return color.Black
	}
}

// finalStyle returns a style property, taking the end value of a pending
// transition on that property.
func finalStyle(el *surface.Element, prop string) string {
	if tr := el.Transition; tr != nil && tr.Property == prop {
		return tr.To
	}
	v, _ := el.StyleValue(prop)
	return v
}

func attrOrStyle(el *surface.Element, name string) string {
	if v, ok := el.StyleValue(name); ok {
		return v
	}
	v, _ := el.Attr(name)
	return v
}

func parseLength(v string, fallback float64) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// parseColor accepts #rgb, #rrggbb and the few names settings use.
func parseColor(s string) (color.Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "transparent":
		return nil, false
	case "white":
		return color.White, true
	case "black":
		return color.Black, true
	}
	if len(s) == 4 && s[0] == '#' {
		s = "#" + string([]byte{s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}, true
}
