package table

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tableheatmap/pkg/errors"
)

// Schema maps input headers to roles and display formats.
//
// A schema file looks like:
//
//	[[columns]]
//	name = "Region"
//	role = "CategoryX"
//
//	[[columns]]
//	name   = "Revenue"
//	role   = "Value"
//	format = "#,0.00"
//
// Headers not mentioned in the schema are kept as role-less columns and
// ignored by the shaper.
type Schema struct {
	Columns []ColumnSpec `toml:"columns" json:"columns"`
}

// ColumnSpec assigns roles and a format to one named column.
type ColumnSpec struct {
	Name   string   `toml:"name" json:"name"`
	Role   string   `toml:"role,omitempty" json:"role,omitempty"`
	Roles  []string `toml:"roles,omitempty" json:"roles,omitempty"`
	Format string   `toml:"format,omitempty" json:"format,omitempty"`
}

// LoadSchema reads a TOML schema file.
func LoadSchema(path string) (*Schema, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "schema %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return DecodeSchema(f)
}

// DecodeSchema decodes a TOML schema and validates it.
func DecodeSchema(r io.Reader) (*Schema, error) {
	var s Schema
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode schema")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// NewSchema builds a schema from the role flags of the CLI. Empty names
// are skipped; every entry in values becomes a Value column.
func NewSchema(x, y, group string, values []string, valueFormat string) *Schema {
	s := &Schema{}
	add := func(name string, role Role, format string) {
		if name == "" {
			return
		}
		s.Columns = append(s.Columns, ColumnSpec{Name: name, Role: string(role), Format: format})
	}
	add(x, RoleCategoryX, "")
	add(y, RoleCategoryY, "")
	add(group, RoleGroup, "")
	for _, v := range values {
		add(v, RoleValue, valueFormat)
	}
	return s
}

// Validate checks column names and role names.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if err := errors.ValidateColumnName(c.Name); err != nil {
			return err
		}
		key := normalizeHeader(c.Name)
		if seen[key] {
			return errors.New(errors.ErrCodeInvalidInput, "column %q listed twice in schema", c.Name)
		}
		seen[key] = true
		if _, err := c.roles(); err != nil {
			return err
		}
	}
	return nil
}

func (c ColumnSpec) roles() ([]Role, error) {
	names := c.Roles
	if c.Role != "" {
		names = append([]string{c.Role}, names...)
	}
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// Resolve resolves headers against the schema. Every schema entry must
// match a header.
func (s *Schema) Resolve(headers []string) ([]Column, error) {
	byName := make(map[string]ColumnSpec, len(s.Columns))
	for _, c := range s.Columns {
		byName[normalizeHeader(c.Name)] = c
	}

	cols := make([]Column, len(headers))
	matched := make(map[string]bool, len(s.Columns))
	for i, h := range headers {
		cols[i] = Column{Name: strings.TrimSpace(h)}
		spec, ok := byName[normalizeHeader(h)]
		if !ok {
			continue
		}
		roles, err := spec.roles()
		if err != nil {
			return nil, err
		}
		cols[i].Roles = roles
		cols[i].Format = spec.Format
		matched[normalizeHeader(h)] = true
	}

	for _, c := range s.Columns {
		if !matched[normalizeHeader(c.Name)] {
			return nil, errors.New(errors.ErrCodeInvalidRole, "column %q not found in input", c.Name)
		}
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
