package heatmap

import (
	"strconv"
	"time"

	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/format"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/surface"
)

// DefaultAnimationDuration is how long cells take to reach their color.
const DefaultAnimationDuration = time.Second

// Element classes.
const (
	ClsCategoryX         = "categoryX"
	ClsBordered          = "bordered"
	ClsMono              = "mono"
	ClsAxis              = "axis"
	ClsGroupLabel        = "groupLabel"
	ClsCategoryYLabel    = "categoryYLabel"
	ClsCategoryXLabel    = "categoryXLabel"
	ClsHeatMapDataLabels = "heatMapDataLabels"
	ClsSeparator         = "separator"
)

// Separator style.
const (
	SeparatorStroke    = "#aaa"
	SeparatorDashArray = "5, 5"
	SeparatorWidth     = 2.0
	CellStrokeWidth    = 2.0
)

// Option configures a [Renderer].
type Option func(*Renderer)

// WithSuppressAnimations applies cell colors immediately.
func WithSuppressAnimations() Option {
	return func(r *Renderer) { r.duration = 0 }
}

// WithAnimationDuration sets the cell color transition time.
func WithAnimationDuration(d time.Duration) Option {
	return func(r *Renderer) { r.duration = d }
}

// WithMargin replaces [DefaultMargin].
func WithMargin(m Margin) Option {
	return func(r *Renderer) { r.margin = m }
}

// Renderer lays out a chart model and draws it onto a surface.
type Renderer struct {
	margin   Margin
	duration time.Duration
}

// NewRenderer returns a renderer with the default margin and animation.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{margin: DefaultMargin, duration: DefaultAnimationDuration}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Margin returns the renderer's margin.
func (r *Renderer) Margin() Margin { return r.margin }

// Render replaces everything on surf with the chart for m and resizes surf
// to its content. It returns the computed layout, or nil for the empty
// model, in which case surf is left empty.
func (r *Renderer) Render(m *chart.Model, vp Viewport, s settings.Settings, surf *surface.Surface) *Layout {
	surf.Clear()
	if m.IsEmpty() {
		surf.FitContent()
		return nil
	}
	l := r.Plan(m, vp, s, surf)
	r.Draw(l, s, surf)
	l.Bounds = surf.FitContent()
	return l
}

// Layout is the target visual state of one render.
type Layout struct {
	Geometry
	Margin     Margin        `json:"margin"`
	YLabels    []Label       `json:"yLabels"`
	Groups     []GroupLayout `json:"groups"`
	Separators []Line        `json:"separators"`
	ShowLabels bool          `json:"showLabels"`
	Bounds     surface.Rect  `json:"bounds"`
}

// Label is one positioned text.
type Label struct {
	Text string  `json:"text"`
	Full string  `json:"full"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// GroupLayout is one group's column block.
type GroupLayout struct {
	Name    string   `json:"name"`
	Label   Label    `json:"label"`
	XLabels []Label  `json:"xLabels"`
	Colors  []string `json:"colors"`
	Initial string   `json:"initial"`
	Cells   []Cell   `json:"cells"`
}

// Cell is one colored rectangle.
type Cell struct {
	CategoryX string  `json:"categoryX"`
	CategoryY string  `json:"categoryY"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Color     string  `json:"color"`
	Bucket    int     `json:"bucket"`
	Tooltip   string  `json:"tooltip"`
	Text      string  `json:"text"`
}

// Line is a group separator.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Plan computes positions, colors, and truncated label texts for a
// non-empty model. Text is measured with surf.
func (r *Renderer) Plan(m *chart.Model, vp Viewport, s settings.Settings, surf *surface.Surface) *Layout {
	g := ComputeGeometry(m, vp, r.margin)
	fontSize := surf.FontSize()
	l := &Layout{Geometry: g, Margin: r.margin, ShowLabels: s.Labels.Show}

	for i, y := range m.CategoryY {
		l.YLabels = append(l.YLabels, Label{
			Text: surf.Truncate(y, CategoryXWidth, fontSize, false),
			Full: y,
			X:    g.CategoryXOffset,
			Y:    float64(i)*g.GridSizeHeight + g.GridOffsetY + g.GridSizeHeight/2,
		})
	}

	for gi, grp := range m.Groups {
		xPos := g.GroupX[gi]
		gs := NewGroupScale(grp, s)
		gl := GroupLayout{
			Name:    grp.Name,
			Colors:  gs.Colors,
			Initial: gs.Initial(),
		}
		name := m.FormatCategory(grp.Name)
		gl.Label = Label{
			Text: name,
			Full: name,
			X:    float64(len(grp.CategoryX))*g.GridSizeWidth/2 + xPos,
			Y:    r.margin.Top,
		}
		for i, x := range grp.CategoryX {
			text := m.FormatCategory(x)
			gl.XLabels = append(gl.XLabels, Label{
				Text: surf.Truncate(text, g.GridSizeWidth, fontSize, false),
				Full: text,
				X:    float64(i)*g.GridSizeWidth + xPos + g.GridSizeWidth/2,
				Y:    g.CategoryYOffset,
			})
		}
		for _, p := range grp.DataPoints {
			xi, yi := grp.IndexX(p.CategoryX), m.IndexY(p.CategoryY)
			gl.Cells = append(gl.Cells, Cell{
				CategoryX: p.CategoryX,
				CategoryY: p.CategoryY,
				X:         float64(xi)*g.GridSizeWidth + xPos,
				Y:         float64(yi)*g.GridSizeHeight + g.GridOffsetY,
				Width:     g.GridSizeWidth,
				Height:    g.GridSizeHeight,
				Color:     gs.Color(xi),
				Bucket:    gs.Index(xi),
				Tooltip:   p.Tooltip(),
				Text:      dataLabel(p, s.Labels.LabelPrecision),
			})
		}
		l.Groups = append(l.Groups, gl)

		if gi < len(m.Groups)-1 {
			sepX := g.GroupX[gi] + float64(len(grp.CategoryX))*g.GridSizeWidth + g.Gap/2
			l.Separators = append(l.Separators, Line{
				X1: sepX, Y1: 0,
				X2: sepX, Y2: g.GridHeight(len(m.CategoryY)) + g.GridOffsetY,
			})
		}
	}
	return l
}

// dataLabel is the raw value's string form, or the value with precision
// decimals when precision is not negative.
func dataLabel(p chart.DataPoint, precision int) string {
	if precision >= 0 && p.Value != nil {
		return strconv.FormatFloat(*p.Value, 'f', precision, 64)
	}
	return format.Stringify(p.Raw)
}

// Draw emits the elements of l onto surf in two steps per cell: the cell
// is created with the palette's first color, then a transition to its
// target color is requested (or applied at once when animations are
// suppressed).
func (r *Renderer) Draw(l *Layout, s settings.Settings, surf *surface.Surface) {
	main := surf.Root().Append(surface.TagG)

	for _, lbl := range l.YLabels {
		main.Append(surface.TagText).
			SetText(lbl.Text).
			SetNum("x", lbl.X).
			SetNum("y", lbl.Y).
			SetAttr("alignment-baseline", "central").
			SetStyle("text-anchor", "end").
			AddClass(ClsCategoryYLabel + " " + ClsMono + " " + ClsAxis)
	}

	for gi, gl := range l.Groups {
		main.Append(surface.TagText).
			SetText(gl.Label.Text).
			SetNum("x", gl.Label.X).
			SetNum("y", gl.Label.Y).
			SetAttr("dy", "0em").
			SetAttr("font-weight", "bold").
			SetStyle("text-anchor", "middle").
			AddClass(ClsGroupLabel + " " + ClsMono + " " + ClsAxis)

		for _, lbl := range gl.XLabels {
			main.Append(surface.TagText).
				SetText(lbl.Text).
				SetNum("x", lbl.X).
				SetNum("y", lbl.Y).
				SetAttr("dy", "0em").
				SetStyle("text-anchor", "middle").
				AddClass(ClsCategoryXLabel + " " + ClsMono + " " + ClsAxis)
		}

		for _, c := range gl.Cells {
			rect := main.Append(surface.TagRect).
				SetNum("x", c.X).
				SetNum("y", c.Y).
				AddClass(ClsCategoryX+" "+ClsBordered).
				SetNum("width", c.Width).
				SetNum("height", c.Height).
				SetStyle("fill", gl.Initial).
				SetStyle("stroke", s.DataPoint.Fill).
				SetStyle("stroke-width", surface.FormatNum(CellStrokeWidth)+"px")
			rect.Animate("fill", c.Color, r.duration)
			rect.Append(surface.TagTitle).SetText(c.Tooltip)
		}

		if l.ShowLabels {
			for _, c := range gl.Cells {
				main.Append(surface.TagText).
					AddClass(ClsHeatMapDataLabels).
					SetNum("x", c.X+c.Width/2).
					SetNum("y", c.Y+c.Height/2).
					SetAttr("alignment-baseline", "central").
					SetStyle("text-anchor", "middle").
					SetStyle("font-size", surface.FormatNum(s.Labels.FontSize)+"px").
					SetStyle("fill", s.Labels.Fill).
					SetText(c.Text)
			}
		}

		if gi < len(l.Separators) {
			sep := l.Separators[gi]
			main.Append(surface.TagLine).
				AddClass(ClsSeparator).
				SetNum("x1", sep.X1).
				SetNum("y1", sep.Y1).
				SetNum("x2", sep.X2).
				SetNum("y2", sep.Y2).
				SetAttr("stroke", SeparatorStroke).
				SetAttr("stroke-dasharray", SeparatorDashArray).
				SetNum("stroke-width", SeparatorWidth)
		}
	}
}
