package heatmap

import (
	"math"

	"github.com/matzehuels/tableheatmap/pkg/chart"
)

// Layout constants, in surface units.
const (
	CategoryXWidth       = 60.0 // left gutter reserved for Y labels
	GridSizeWidthLimit   = 80.0
	GridHeightWidthRatio = 0.5
	GroupOffset          = 20.0 // group labels sit this far above X labels
	GridInset            = 5.0
	GapWidthRatio        = 2.0 // gap between groups, in cell widths
)

// Margin is the space kept free around the chart.
type Margin struct {
	Left   float64 `json:"left" mapstructure:"left"`
	Right  float64 `json:"right" mapstructure:"right"`
	Top    float64 `json:"top" mapstructure:"top"`
	Bottom float64 `json:"bottom" mapstructure:"bottom"`
}

// DefaultMargin is the margin used unless the renderer is given another.
var DefaultMargin = Margin{Left: 10, Right: 10, Top: 15, Bottom: 15}

// Viewport is the size the host offers the chart.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry is the grid derived from a model and a viewport.
type Geometry struct {
	GridSizeWidth   float64 `json:"gridSizeWidth"`
	GridSizeHeight  float64 `json:"gridSizeHeight"`
	CategoryXOffset float64 `json:"categoryXOffset"`
	CategoryYOffset float64 `json:"categoryYOffset"`
	GridOffsetX     float64 `json:"gridOffsetX"`
	GridOffsetY     float64 `json:"gridOffsetY"`
	Gap             float64 `json:"gap"`
	// GroupX is the left edge of every group's column block.
	GroupX []float64 `json:"groupX"`
}

// ComputeGeometry derives the grid for m. The cell width is the viewport
// width left after margins and the gutter, divided by the number of X
// categories plus two cells of gap per group, floored and capped at
// [GridSizeWidthLimit]. It is not clamped below: tiny viewports produce
// zero or negative cells.
func ComputeGeometry(m *chart.Model, vp Viewport, margin Margin) Geometry {
	columns := float64(m.CategoryXCount() + len(m.Groups)*2)
	gw := math.Floor((vp.Width - margin.Left - margin.Right - CategoryXWidth) / columns)
	if gw > GridSizeWidthLimit {
		gw = GridSizeWidthLimit
	}

	g := Geometry{
		GridSizeWidth:   gw,
		GridSizeHeight:  gw * GridHeightWidthRatio,
		CategoryXOffset: CategoryXWidth + margin.Left,
		CategoryYOffset: margin.Top + GroupOffset,
		Gap:             gw * GapWidthRatio,
	}
	g.GridOffsetX = g.CategoryXOffset + GridInset
	g.GridOffsetY = g.CategoryYOffset + GridInset

	x := g.GridOffsetX
	g.GroupX = make([]float64, len(m.Groups))
	for i, grp := range m.Groups {
		g.GroupX[i] = x
		x += float64(len(grp.CategoryX))*gw + g.Gap
	}
	return g
}

// GridHeight returns the height of the cell rows below the grid offset.
func (g Geometry) GridHeight(rows int) float64 {
	return float64(rows) * g.GridSizeHeight
}
