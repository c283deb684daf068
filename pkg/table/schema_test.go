package table

import (
	"strings"
	"testing"

	"github.com/matzehuels/tableheatmap/pkg/errors"
)

func TestDecodeSchema(t *testing.T) {
	in := `
[[columns]]
name = "Month"
role = "CategoryX"

[[columns]]
name  = "Region"
roles = ["categoryy"]

[[columns]]
name   = "Revenue"
role   = "Value"
format = "0.0%"
`
	s, err := DecodeSchema(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeSchema: %v", err)
	}
	cols, err := s.Resolve([]string{" month ", "REGION", "Revenue", "Other"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !cols[0].HasRole(RoleCategoryX) || !cols[1].HasRole(RoleCategoryY) {
		t.Errorf("header matching should be case and space insensitive: %+v", cols)
	}
	if cols[0].Name != "month" {
		t.Errorf("name = %q, want trimmed header", cols[0].Name)
	}
	if cols[2].Format != "0.0%" {
		t.Errorf("format = %q", cols[2].Format)
	}
	if len(cols[3].Roles) != 0 {
		t.Errorf("unmapped header got roles %v", cols[3].Roles)
	}
}

func TestDecodeSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"bad toml", "[[columns]\nname=", errors.ErrCodeInvalidInput},
		{"unknown role", "[[columns]]\nname = \"a\"\nrole = \"Size\"\n", errors.ErrCodeInvalidRole},
		{"empty name", "[[columns]]\nname = \"\"\nrole = \"Value\"\n", errors.ErrCodeInvalidInput},
		{"duplicate", "[[columns]]\nname = \"a\"\n[[columns]]\nname = \"A\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSchema(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestNewSchemaSkipsEmpty(t *testing.T) {
	s := NewSchema("x", "y", "", []string{"v1", "v2"}, "0")
	if len(s.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(s.Columns))
	}
	if s.Columns[3].Format != "0" || s.Columns[3].Role != string(RoleValue) {
		t.Errorf("value spec = %+v", s.Columns[3])
	}
}
