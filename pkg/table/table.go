// Package table holds the tabular input consumed by the heat map.
//
// A [Table] is what the host hands the visual on every data update: an
// ordered list of [Column] descriptors (name, roles, optional display
// format) and the rows themselves. Aggregation has already happened
// upstream; the table is taken as-is.
//
// Tables come from several places:
//
//   - [ReadCSV] and [ReadXLSX] map headers to roles through a [Schema]
//   - [ReadJSON] decodes the host's table shape, where roles travel with
//     the columns
//   - [Read] dispatches on the file extension
//
// Cells are string, float64, int64, bool, time.Time or nil. Cells of
// Value columns are parsed into numbers by the readers; every other cell
// keeps its textual form so that categories like "007" survive intact.
package table

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/format"
)

// Role is the part a column plays in the chart.
type Role string

// Column roles recognised by the data shaper.
const (
	RoleCategoryX Role = "CategoryX"
	RoleCategoryY Role = "CategoryY"
	RoleGroup     Role = "Group"
	RoleValue     Role = "Value"
)

// Roles lists every recognised role in declaration order.
var Roles = []Role{RoleCategoryX, RoleCategoryY, RoleGroup, RoleValue}

// ParseRole resolves a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidRole, "unknown role %q (must be one of: CategoryX, CategoryY, Group, Value)", s)
}

// Column describes one input column.
type Column struct {
	Name   string `json:"name"`
	Roles  []Role `json:"roles,omitempty"`
	Format string `json:"format,omitempty"`
}

// HasRole reports whether the column carries role r.
func (c Column) HasRole(r Role) bool {
	return slices.Contains(c.Roles, r)
}

// Table is a list of rows with per-column role metadata.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Cell returns the value at (row, col), or nil when the row is shorter
// than the column list.
func (t *Table) Cell(row, col int) any {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// ColumnsWithRole returns the indices of all columns carrying role r,
// in column order.
func (t *Table) ColumnsWithRole(r Role) []int {
	var idx []int
	for i, c := range t.Columns {
		if c.HasRole(r) {
			idx = append(idx, i)
		}
	}
	return idx
}

// FirstValue returns the first non-nil cell of column col and whether one
// exists.
func (t *Table) FirstValue(col int) (any, bool) {
	for i := range t.Rows {
		if v := t.Cell(i, col); v != nil {
			return v, true
		}
	}
	return nil, false
}

// Validate checks that no row is wider than the column list and that
// every role is known. Role names are normalised to their canonical
// spelling in place, so "value" becomes [RoleValue].
func (t *Table) Validate() error {
	for i, c := range t.Columns {
		for j, r := range c.Roles {
			role, err := ParseRole(string(r))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidRole, err, "column %d (%s)", i, c.Name)
			}
			t.Columns[i].Roles[j] = role
		}
	}
	for i, row := range t.Rows {
		if len(row) > len(t.Columns) {
			return errors.New(errors.ErrCodeInvalidInput, "row %d has %d cells, table has %d columns", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// String returns the display form of a cell. Numbers use the shortest
// representation that round-trips, nil becomes the empty string.
func String(v any) string {
	return format.Stringify(v)
}

// Number converts a cell to a float64. Strings are parsed; anything that
// is not numeric reports false.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// parseMeasure parses a raw textual cell of a Value column. Empty text is
// a missing value; text that is not a number is kept verbatim.
func parseMeasure(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// parseCategory keeps a category cell as text; empty text is nil.
func parseCategory(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
