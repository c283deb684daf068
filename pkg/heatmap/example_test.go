package heatmap_test

import (
	"fmt"

	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/surface"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

func ExampleRenderer_Render() {
	t := &table.Table{
		Columns: []table.Column{
			{Name: "x", Roles: []table.Role{table.RoleCategoryX}},
			{Name: "y", Roles: []table.Role{table.RoleCategoryY}},
			{Name: "v", Roles: []table.Role{table.RoleValue}},
		},
		Rows: [][]any{{"a", "r1", 1.0}, {"b", "r1", 2.0}, {"a", "r2", 3.0}},
	}

	surf := surface.New()
	r := heatmap.NewRenderer(heatmap.WithSuppressAnimations())
	l := r.Render(chart.Shape(t), heatmap.Viewport{Width: 300, Height: 200}, settings.Default(), surf)

	fmt.Println(l.GridSizeWidth, l.GridSizeHeight)
	fmt.Println(len(surf.Root().FindTag(surface.TagRect)), "cells")
	// Output:
	// 55 27.5
	// 3 cells
}
