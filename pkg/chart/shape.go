package chart

import (
	"github.com/matzehuels/tableheatmap/pkg/format"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// Shape converts a table into a chart model. It returns the empty model
// when the table has no CategoryX, CategoryY or Value data.
//
// Rows are read in order. Each row is scanned once into an accumulator
// that starts empty for every row: a row without a cell for a category
// role uses the empty string for it. Every Value column of a row yields
// one data point; a row without Value columns registers its categories
// only.
func Shape(t *table.Table) *Model {
	if t == nil {
		return Empty()
	}
	xCols := t.ColumnsWithRole(table.RoleCategoryX)
	yCols := t.ColumnsWithRole(table.RoleCategoryY)
	vCols := t.ColumnsWithRole(table.RoleValue)
	if !hasData(t, xCols) || !hasData(t, yCols) || !hasData(t, vCols) {
		return Empty()
	}

	m := &Model{
		CategoryY: []string{},
		Groups:    []*Group{},
		yIndex:    map[string]int{},
	}
	sample, _ := t.FirstValue(xCols[0])
	m.CategoryValueFormatter = format.New(t.Columns[xCols[0]].Format, sample)
	sample, _ = t.FirstValue(vCols[0])
	m.ValueFormatter = format.New(t.Columns[vCols[0]].Format, sample)

	// Per-column formatters for value cells, only where a format is declared.
	valueFormats := make(map[int]format.Formatter, len(vCols))
	for _, c := range vCols {
		if f := t.Columns[c].Format; f != "" {
			s, _ := t.FirstValue(c)
			valueFormats[c] = format.New(f, s)
		}
	}

	groups := make(map[string]*Group)
	for i := range t.Rows {
		acc := scanRow(t, i, valueFormats)

		if _, ok := m.yIndex[acc.y]; !ok {
			m.yIndex[acc.y] = len(m.CategoryY)
			m.CategoryY = append(m.CategoryY, acc.y)
		}

		g, ok := groups[acc.group]
		if !ok {
			g = NewGroup(acc.group)
			groups[acc.group] = g
			m.Groups = append(m.Groups, g)
		}
		g.AddCategoryX(acc.x)

		for _, v := range acc.values {
			v.CategoryX, v.CategoryY, v.Group = acc.x, acc.y, acc.group
			g.DataPoints = append(g.DataPoints, v)
		}
	}
	return m
}

// rowAccumulator collects one row's role cells.
type rowAccumulator struct {
	x, y, group string
	values      []DataPoint
}

func scanRow(t *table.Table, row int, valueFormats map[int]format.Formatter) rowAccumulator {
	var acc rowAccumulator
	for j, col := range t.Columns {
		cell := t.Cell(row, j)
		if col.HasRole(table.RoleCategoryX) {
			acc.x = table.String(cell)
		}
		if col.HasRole(table.RoleCategoryY) {
			acc.y = table.String(cell)
		}
		if col.HasRole(table.RoleGroup) {
			acc.group = table.String(cell)
		}
		if col.HasRole(table.RoleValue) {
			p := DataPoint{Raw: cell}
			if f, ok := table.Number(cell); ok {
				p.Value = &f
			}
			if vf, ok := valueFormats[j]; ok && cell != nil {
				p.ValueStr, p.HasValueStr = vf.Format(cell), true
			}
			acc.values = append(acc.values, p)
		}
	}
	return acc
}

func hasData(t *table.Table, cols []int) bool {
	for _, c := range cols {
		if _, ok := t.FirstValue(c); ok {
			return true
		}
	}
	return false
}
