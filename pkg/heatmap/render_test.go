package heatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/palette"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/surface"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// charMeasurer gives every rune 0.6em of advance.
type charMeasurer struct{}

func (charMeasurer) Measure(text string, size float64, bold bool) (float64, float64) {
	return float64(len([]rune(text))) * 0.6 * size, size
}

func (charMeasurer) Metrics(size float64, bold bool) (float64, float64) {
	return 0.8 * size, 0.2 * size
}

func newSurface() *surface.Surface {
	return surface.New(surface.WithMeasurer(charMeasurer{}), surface.WithFontSize(10))
}

func twoGroupTable() *table.Table {
	return &table.Table{
		Columns: []table.Column{
			{Name: "x", Roles: []table.Role{table.RoleCategoryX}},
			{Name: "y", Roles: []table.Role{table.RoleCategoryY}},
			{Name: "g", Roles: []table.Role{table.RoleGroup}},
			{Name: "v", Roles: []table.Role{table.RoleValue}},
		},
		Rows: [][]any{
			{"1", "A", "g1", 1.0}, {"2", "A", "g1", 2.0},
			{"1", "B", "g1", 3.0}, {"2", "B", "g1", 4.0},
			{"1", "A", "g2", 5.0}, {"2", "A", "g2", 6.0},
			{"1", "B", "g2", 7.0}, {"2", "B", "g2", 8.5},
		},
	}
}

func TestComputeGeometry(t *testing.T) {
	m := chart.Shape(twoGroupTable())
	g := ComputeGeometry(m, Viewport{Width: 400, Height: 300}, DefaultMargin)

	assert.Equal(t, 40.0, g.GridSizeWidth)
	assert.Equal(t, 20.0, g.GridSizeHeight)
	assert.Equal(t, 70.0, g.CategoryXOffset)
	assert.Equal(t, 35.0, g.CategoryYOffset)
	assert.Equal(t, 75.0, g.GridOffsetX)
	assert.Equal(t, 40.0, g.GridOffsetY)
	assert.Equal(t, 80.0, g.Gap)
	assert.Equal(t, []float64{75, 235}, g.GroupX)
}

func TestComputeGeometryCapped(t *testing.T) {
	m := chart.Shape(twoGroupTable())
	g := ComputeGeometry(m, Viewport{Width: 5000}, DefaultMargin)
	assert.Equal(t, GridSizeWidthLimit, g.GridSizeWidth)
	assert.Equal(t, GridSizeWidthLimit/2, g.GridSizeHeight)
}

func TestGridSizeMonotonic(t *testing.T) {
	m := chart.Shape(twoGroupTable())
	prev := ComputeGeometry(m, Viewport{Width: 0}, DefaultMargin)
	for w := 1.0; w < 2000; w += 7 {
		g := ComputeGeometry(m, Viewport{Width: w}, DefaultMargin)
		require.GreaterOrEqual(t, g.GridSizeWidth, prev.GridSizeWidth, "width %v", w)
		require.LessOrEqual(t, g.GridSizeWidth, GridSizeWidthLimit)
		require.Equal(t, g.GridSizeWidth/2, g.GridSizeHeight)
		prev = g
	}
}

func TestRenderTwoGroups(t *testing.T) {
	surf := newSurface()
	m := chart.Shape(twoGroupTable())
	l := NewRenderer().Render(m, Viewport{Width: 400, Height: 300}, settings.Default(), surf)
	require.NotNil(t, l)

	root := surf.Root()
	assert.Len(t, root.FindTag(surface.TagRect), 8)
	assert.Len(t, root.Find(ClsCategoryX), 8)
	assert.Len(t, root.Find(ClsCategoryYLabel), 2)
	assert.Len(t, root.Find(ClsGroupLabel), 2)
	assert.Len(t, root.Find(ClsCategoryXLabel), 4)

	seps := root.FindTag(surface.TagLine)
	require.Len(t, seps, 1, "one separator between the groups, none after the last")
	sep := seps[0]
	assert.Equal(t, 195.0, sep.Num("x1"))
	assert.Equal(t, 195.0, sep.Num("x2"))
	assert.Equal(t, 0.0, sep.Num("y1"))
	assert.Equal(t, 80.0, sep.Num("y2"))
	dash, _ := sep.Attr("stroke-dasharray")
	assert.Equal(t, "5, 5", dash)

	first := root.FindTag(surface.TagRect)[0]
	assert.Equal(t, 75.0, first.Num("x"))
	assert.Equal(t, 40.0, first.Num("y"))
	assert.Equal(t, 40.0, first.Num("width"))
	assert.Equal(t, 20.0, first.Num("height"))

	titles := first.FindTag(surface.TagTitle)
	require.Len(t, titles, 1)
	assert.Equal(t, "1: 1", titles[0].Text)

	last := root.FindTag(surface.TagRect)[7]
	assert.Equal(t, 235.0+40, last.Num("x"))
	assert.Equal(t, "2: 8.5", last.FindTag(surface.TagTitle)[0].Text)

	w, h := surf.Size()
	assert.Greater(t, w, 0.0)
	assert.Greater(t, h, 0.0)
	assert.Equal(t, l.Bounds.X+l.Bounds.W, w)
}

func TestRenderEmptyModel(t *testing.T) {
	surf := newSurface()
	surf.Root().Append(surface.TagText).SetText("stale")

	l := NewRenderer().Render(chart.Empty(), Viewport{Width: 400, Height: 300}, settings.Default(), surf)
	assert.Nil(t, l)
	assert.Empty(t, surf.Root().Children)
	w, h := surf.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestRenderDataLabels(t *testing.T) {
	m := chart.Shape(twoGroupTable())
	vp := Viewport{Width: 400, Height: 300}

	hidden := newSurface()
	NewRenderer().Render(m, vp, settings.Default(), hidden)
	assert.Empty(t, hidden.Root().Find(ClsHeatMapDataLabels))
	assert.NotEmpty(t, hidden.Root().FindTag(surface.TagRect))
	assert.NotEmpty(t, hidden.Root().Find(ClsAxis))

	s := settings.Default()
	s.Labels.Show = true
	s.Labels.FontSize = 9
	s.Labels.Fill = "#333333"
	shown := newSurface()
	NewRenderer().Render(m, vp, s, shown)
	labels := shown.Root().Find(ClsHeatMapDataLabels)
	require.Len(t, labels, 8)
	assert.Equal(t, "1", labels[0].Text)
	assert.Equal(t, "8.5", labels[7].Text)
	assert.Equal(t, 95.0, labels[0].Num("x"))
	assert.Equal(t, 50.0, labels[0].Num("y"))
	size, _ := labels[0].StyleValue("font-size")
	assert.Equal(t, "9px", size)
	fill, _ := labels[0].StyleValue("fill")
	assert.Equal(t, "#333333", fill)

	s.Labels.LabelPrecision = 2
	precise := newSurface()
	NewRenderer().Render(m, vp, s, precise)
	assert.Equal(t, "8.50", precise.Root().Find(ClsHeatMapDataLabels)[7].Text)
}

func TestColorReversal(t *testing.T) {
	g := chart.NewGroup("g")
	for _, x := range []string{"a", "b", "c"} {
		g.AddCategoryX(x)
	}
	for _, buckets := range []int{3, 4, 5, 7, 9, 11} {
		s := settings.Default()
		s.General.Buckets = buckets
		gs := NewGroupScale(g, s)

		a, b, c := gs.Index(0), gs.Index(1), gs.Index(2)
		assert.Greater(t, a, c, "buckets=%d", buckets)
		assert.GreaterOrEqual(t, a, b, "buckets=%d", buckets)
		assert.GreaterOrEqual(t, b, c, "buckets=%d", buckets)
		assert.Equal(t, 0, c, "last category lands in the lowest bucket")
	}
}

func TestCellColorsAndAnimation(t *testing.T) {
	m := chart.Shape(twoGroupTable())
	s := settings.Default()
	s.General.Colorbrewer = "Blues"
	s.General.Buckets = 3
	blues, _ := palette.Lookup("Blues", 3)

	animated := newSurface()
	NewRenderer().Render(m, Viewport{Width: 400}, s, animated)
	rects := animated.Root().FindTag(surface.TagRect)
	for _, r := range rects {
		fill, _ := r.StyleValue("fill")
		assert.Equal(t, blues[0], fill, "cells start at the first palette color")
		require.NotNil(t, r.Transition)
		assert.Equal(t, time.Second, r.Transition.Duration)
		assert.Equal(t, "fill", r.Transition.Property)
	}
	// Two X categories: domain [1, 2] with thresholds 1.333 and 1.667.
	// The first X maps from 1 to bucket 0, the second from 0 to bucket 0.
	assert.Equal(t, blues[0], rects[0].Transition.To)

	still := newSurface()
	NewRenderer(WithSuppressAnimations()).Render(m, Viewport{Width: 400}, s, still)
	for _, r := range still.Root().FindTag(surface.TagRect) {
		assert.Nil(t, r.Transition)
	}

	quick := newSurface()
	NewRenderer(WithAnimationDuration(250*time.Millisecond)).Render(m, Viewport{Width: 400}, s, quick)
	for _, r := range quick.Root().FindTag(surface.TagRect) {
		require.NotNil(t, r.Transition)
		assert.Equal(t, 250*time.Millisecond, r.Transition.Duration)
	}
}

func TestThreeCategoryColors(t *testing.T) {
	tbl := &table.Table{
		Columns: twoGroupTable().Columns,
		Rows: [][]any{
			{"a", "A", "g", 1.0}, {"b", "A", "g", 1.0}, {"c", "A", "g", 1.0},
		},
	}
	s := settings.Default()
	s.General.Colorbrewer = "Greys"
	s.General.Buckets = 5
	greys, _ := palette.Lookup("Greys", 5)

	surf := newSurface()
	NewRenderer(WithSuppressAnimations()).Render(chart.Shape(tbl), Viewport{Width: 600}, s, surf)
	rects := surf.Root().FindTag(surface.TagRect)
	require.Len(t, rects, 3)
	want := []string{greys[2], greys[0], greys[0]}
	for i, r := range rects {
		fill, _ := r.StyleValue("fill")
		assert.Equal(t, want[i], fill, "cell %d", i)
	}
}

func TestRenderIdempotent(t *testing.T) {
	m := chart.Shape(twoGroupTable())
	vp := Viewport{Width: 520, Height: 300}
	s := settings.Default()
	s.Labels.Show = true

	surf := newSurface()
	r := NewRenderer()
	l1 := r.Render(m, vp, s, surf)
	first := surf.Root()
	l2 := r.Render(m, vp, s, surf)

	assert.Equal(t, l1, l2)
	assert.Equal(t, first, surf.Root())
}

func TestLabelTruncation(t *testing.T) {
	tbl := &table.Table{
		Columns: twoGroupTable().Columns,
		Rows: [][]any{
			{"a rather long category", "a very long row name", "g", 1.0},
		},
	}
	surf := newSurface()
	l := NewRenderer().Render(chart.Shape(tbl), Viewport{Width: 200}, settings.Default(), surf)
	require.NotNil(t, l)

	// 60 units at 6 units per rune leaves nine runes plus the ellipsis.
	assert.Equal(t, "a very lo…", l.YLabels[0].Text)
	assert.Equal(t, "a very long row name", l.YLabels[0].Full)

	// One X category and one group: floor(120 / 3) = 40, five runes fit.
	assert.Equal(t, 40.0, l.GridSizeWidth)
	assert.Equal(t, "a rat…", l.Groups[0].XLabels[0].Text)
	assert.Equal(t, "g", l.Groups[0].Label.Text, "group labels are not truncated")
}

func TestDegenerateGeometry(t *testing.T) {
	surf := newSurface()
	l := NewRenderer().Render(chart.Shape(twoGroupTable()), Viewport{Width: 20}, settings.Default(), surf)
	require.NotNil(t, l)
	assert.Less(t, l.GridSizeWidth, 0.0)
	assert.Len(t, surf.Root().FindTag(surface.TagRect), 8)
}
