package heatmap

import (
	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/palette"
	"github.com/matzehuels/tableheatmap/pkg/scale"
	"github.com/matzehuels/tableheatmap/pkg/settings"
)

// GroupScale colors the cells of one group.
type GroupScale struct {
	Colors []string
	n      int
	q      *scale.Quantile[string]
}

// NewGroupScale builds the quantile scale of g: domain [1, len(X)], range
// the configured palette.
func NewGroupScale(g *chart.Group, s settings.Settings) *GroupScale {
	colors := palette.Colors(s.General.Colorbrewer, s.General.Buckets)
	n := len(g.CategoryX)
	return &GroupScale{
		Colors: colors,
		n:      n,
		q:      scale.NewQuantile([]float64{1, float64(n)}, colors),
	}
}

// Initial returns the fill cells start from before transitioning.
func (gs *GroupScale) Initial() string {
	if len(gs.Colors) == 0 {
		return ""
	}
	return gs.Colors[0]
}

// Index returns the palette index of the X category at position xIdx.
// Positions are reversed before scaling, so the first category lands in
// the highest bucket and the last in the lowest.
func (gs *GroupScale) Index(xIdx int) int {
	return gs.q.Index(float64(gs.n - 1 - xIdx))
}

// Color returns the cell color of the X category at position xIdx.
func (gs *GroupScale) Color(xIdx int) string {
	return gs.q.Scale(float64(gs.n - 1 - xIdx))
}
