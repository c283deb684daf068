// Package chart shapes a role-tagged [table.Table] into the heat map's
// chart model.
//
// The model has a single global Y axis and a list of groups, each with its
// own X axis and data points:
//
//	categoryY: [A, B]
//	groups:
//	  g1  categoryX: [1, 2]  points: (1,A) (2,A) (1,B)
//	  g2  categoryX: [2, 1]  points: ...
//
// Y categories are de-duplicated globally in first-seen order. X
// categories are de-duplicated per group in first-seen order within that
// group, so two groups may order the same X values differently.
//
// A model whose Groups is nil is the empty model: there is not enough
// data to draw anything.
package chart

import (
	"slices"

	"github.com/matzehuels/tableheatmap/pkg/format"
)

// DataPoint is one observation drawn as one cell.
type DataPoint struct {
	CategoryX string   `json:"categoryX"`
	CategoryY string   `json:"categoryY"`
	Group     string   `json:"group"`
	Value     *float64 `json:"value"`
	// Raw is the cell as read, used for the default string form.
	Raw any `json:"raw,omitempty"`
	// ValueStr is the value formatted with its column format. It is set
	// only when HasValueStr is true.
	ValueStr    string `json:"valueStr,omitempty"`
	HasValueStr bool   `json:"-"`
}

// Text returns the formatted value when there is one and the raw value's
// default string form otherwise.
func (p DataPoint) Text() string {
	if p.HasValueStr {
		return p.ValueStr
	}
	return format.Stringify(p.Raw)
}

// Tooltip returns the hover text of the point's cell. A nil value leaves
// the part after the colon empty.
func (p DataPoint) Tooltip() string {
	return p.CategoryX + ": " + p.Text()
}

// Group is a block of X categories with its own color scale.
type Group struct {
	Name       string      `json:"name"`
	CategoryX  []string    `json:"categoryX"`
	DataPoints []DataPoint `json:"dataPoints"`

	xIndex map[string]int
}

// NewGroup returns an empty group.
func NewGroup(name string) *Group {
	return &Group{Name: name, CategoryX: []string{}, DataPoints: []DataPoint{}, xIndex: map[string]int{}}
}

// AddCategoryX appends x unless the group already has it.
func (g *Group) AddCategoryX(x string) {
	if g.xIndex == nil {
		g.xIndex = make(map[string]int, len(g.CategoryX))
		for i, c := range g.CategoryX {
			g.xIndex[c] = i
		}
	}
	if _, ok := g.xIndex[x]; ok {
		return
	}
	g.xIndex[x] = len(g.CategoryX)
	g.CategoryX = append(g.CategoryX, x)
}

// IndexX returns the position of x in the group's X axis, or -1.
func (g *Group) IndexX(x string) int {
	if g.xIndex != nil {
		if i, ok := g.xIndex[x]; ok {
			return i
		}
		return -1
	}
	return slices.Index(g.CategoryX, x)
}

// Model is the shaped chart.
type Model struct {
	CategoryY []string `json:"categoryY"`
	Groups    []*Group `json:"groups"`

	// CategoryValueFormatter formats group names and X labels.
	CategoryValueFormatter format.Formatter `json:"-"`
	// ValueFormatter is derived from the first value column.
	ValueFormatter format.Formatter `json:"-"`

	yIndex map[string]int
}

// Empty returns the empty model.
func Empty() *Model {
	return &Model{CategoryValueFormatter: format.Default(), ValueFormatter: format.Default()}
}

// IsEmpty reports whether m is the empty model.
func (m *Model) IsEmpty() bool {
	return m == nil || m.Groups == nil
}

// IndexY returns the position of y in the global Y axis, or -1.
func (m *Model) IndexY(y string) int {
	if m.yIndex != nil {
		if i, ok := m.yIndex[y]; ok {
			return i
		}
		return -1
	}
	return slices.Index(m.CategoryY, y)
}

// CategoryXCount returns the total number of X categories over all groups.
func (m *Model) CategoryXCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.CategoryX)
	}
	return n
}

// PointCount returns the total number of data points.
func (m *Model) PointCount() int {
	n := 0
	for _, g := range m.Groups {
		n += len(g.DataPoints)
	}
	return n
}

// FormatCategory formats a category with the model's category formatter.
func (m *Model) FormatCategory(s string) string {
	if m.CategoryValueFormatter == nil {
		return s
	}
	return m.CategoryValueFormatter.Format(s)
}
