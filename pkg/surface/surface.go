// Package surface is the drawing surface the heat map renders onto.
//
// A [Surface] holds a tree of [Element] values that mirror SVG elements:
// tag, classes, attributes, style properties, text and children. It also
// provides the capabilities the renderer needs from a live drawing
// surface:
//
//   - measuring text ([Surface.MeasureText], [Surface.Truncate])
//   - animated style transitions ([Element.Animate])
//   - the bounding box of everything drawn ([Surface.Bounds]) and resizing
//     the root to it ([Surface.FitContent])
//
// Sinks turn the tree into SVG, PNG or JSON.
package surface

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/tableheatmap/pkg/fonts"
)

// Ellipsis is appended to truncated labels.
const Ellipsis = "…"

// Measurer reports the advance width and line height of text.
type Measurer interface {
	Measure(text string, size float64, bold bool) (width, height float64)
	Metrics(size float64, bold bool) (ascent, descent float64)
}

type fontMeasurer struct{}

func (fontMeasurer) Measure(text string, size float64, bold bool) (float64, float64) {
	return fonts.Measure(text, size, bold)
}

func (fontMeasurer) Metrics(size float64, bold bool) (float64, float64) {
	return fonts.Metrics(size, bold)
}

// Option configures a [Surface].
type Option func(*Surface)

// WithMeasurer replaces the font based text measurer.
func WithMeasurer(m Measurer) Option {
	return func(s *Surface) { s.measurer = m }
}

// WithFontSize sets the font size used for text without an explicit
// font-size style. The default is 12.
func WithFontSize(size float64) Option {
	return func(s *Surface) { s.fontSize = size }
}

// Surface is a drawing surface backed by an element tree.
type Surface struct {
	root     *Element
	measurer Measurer
	fontSize float64
}

// New returns an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{measurer: fontMeasurer{}, fontSize: 12}
	for _, o := range opts {
		o(s)
	}
	s.Clear()
	return s
}

// Root returns the root svg element.
func (s *Surface) Root() *Element { return s.root }

// FontSize returns the default font size.
func (s *Surface) FontSize() float64 { return s.fontSize }

// Clear removes every element and resets the size.
func (s *Surface) Clear() {
	s.root = &Element{Tag: TagSVG}
	s.root.AddClass("svgTableHeatMap")
}

// Size returns the width and height set by [Surface.SetSize].
func (s *Surface) Size() (w, h float64) {
	return s.root.Num("width"), s.root.Num("height")
}

// SetSize sets the width and height of the root.
func (s *Surface) SetSize(w, h float64) {
	s.root.SetNum("width", w)
	s.root.SetNum("height", h)
}

// MeasureText returns the advance width of text at size.
func (s *Surface) MeasureText(text string, size float64, bold bool) float64 {
	w, _ := s.measurer.Measure(text, size, bold)
	return w
}

// Truncate shortens text so that it, with a trailing ellipsis, fits in
// width. Text that already fits is returned unchanged. When not even the
// first character fits, the ellipsis alone is returned.
func (s *Surface) Truncate(text string, width, size float64, bold bool) string {
	if s.MeasureText(text, size, bold) <= width {
		return text
	}
	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.MeasureText(string(runes[:mid])+Ellipsis, size, bold) <= width {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + Ellipsis
}

// Rect is an axis aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r encloses nothing.
func (r Rect) Empty() bool { return r.W == 0 && r.H == 0 && r.X == 0 && r.Y == 0 }

func (r Rect) union(o Rect, first bool) Rect {
	if first {
		return o
	}
	x0, y0 := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	x1, y1 := math.Max(r.X+r.W, o.X+o.W), math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Bounds returns the bounding box of all drawn geometry, ignoring
// strokes. An empty surface has a zero box.
func (s *Surface) Bounds() Rect {
	var r Rect
	first := true
	for _, c := range s.root.Children {
		c.Walk(func(el *Element) {
			b, ok := s.bounds(el)
			if !ok {
				return
			}
			r = r.union(b, first)
			first = false
		})
	}
	return r
}

// FitContent resizes the root to the bounding box's far corner so that
// everything drawn is visible from the origin.
func (s *Surface) FitContent() Rect {
	b := s.Bounds()
	s.SetSize(b.X+b.W, b.Y+b.H)
	return b
}

func (s *Surface) bounds(el *Element) (Rect, bool) {
	switch el.Tag {
	case TagRect:
		return Rect{X: el.Num("x"), Y: el.Num("y"), W: el.Num("width"), H: el.Num("height")}, true
	case TagLine:
		x1, y1, x2, y2 := el.Num("x1"), el.Num("y1"), el.Num("x2"), el.Num("y2")
		return Rect{X: math.Min(x1, x2), Y: math.Min(y1, y2), W: math.Abs(x2 - x1), H: math.Abs(y2 - y1)}, true
	case TagText:
		return s.textBounds(el), true
	}
	return Rect{}, false
}

// TextStyle returns the font size and weight an element is drawn with.
func (s *Surface) TextStyle(el *Element) (size float64, bold bool) {
	size = s.fontSize
	if v, ok := el.StyleValue("font-size"); ok {
		if f := parseSize(v); f > 0 {
			size = f
		}
	}
	w, _ := el.Attr("font-weight")
	return size, w == "bold"
}

func (s *Surface) textBounds(el *Element) Rect {
	size, bold := s.TextStyle(el)
	w, _ := s.measurer.Measure(el.Text, size, bold)
	ascent, descent := s.measurer.Metrics(size, bold)

	x, y := el.Num("x"), el.Num("y")
	switch anchor, _ := el.StyleValue("text-anchor"); anchor {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}
	top := y - ascent
	if b, _ := el.Attr("alignment-baseline"); b == "central" {
		top = y - (ascent+descent)/2
	}
	return Rect{X: x, Y: top, W: w, H: ascent + descent}
}

func parseSize(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0
	}
	return f
}
