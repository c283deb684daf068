package sink

import (
	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/surface"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

func sampleTable() *table.Table {
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
		},
	}
}

// drawn renders the sample table and returns the layout and surface.
func drawn(opts ...heatmap.Option) (*heatmap.Layout, *surface.Surface) {
	s := settings.Default()
	s.Labels.Show = false
	surf := surface.New()
	l := heatmap.NewRenderer(opts...).Render(chart.Shape(sampleTable()), heatmap.Viewport{Width: 400, Height: 300}, s, surf)
	return l, surf
}
