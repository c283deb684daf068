package settings

import (
	"testing"

	"github.com/matzehuels/tableheatmap/pkg/errors"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.General.Buckets != 5 || s.General.Colorbrewer != "" {
		t.Errorf("general = %+v", s.General)
	}
	if s.Labels.Show || s.Labels.FontSize != 12 || s.Labels.Fill != "#000000" || s.Labels.LabelPrecision != -1 {
		t.Errorf("labels = %+v", s.Labels)
	}
	if s.DataPoint.Fill != "#e6e6e6" {
		t.Errorf("dataPoint = %+v", s.DataPoint)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	s, err := Parse(Objects{
		"general": {"buckets": 7.0, "colorbrewer": "Blues"},
		"labels":  {"show": true, "fill": map[string]any{"solid": map[string]any{"color": "#FF0000"}}},
		"legend":  {"show": true},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.General.Buckets != 7 || s.General.Colorbrewer != "Blues" {
		t.Errorf("general = %+v", s.General)
	}
	if !s.Labels.Show || s.Labels.Fill != "#ff0000" {
		t.Errorf("labels = %+v", s.Labels)
	}
	if s.Labels.FontSize != 12 {
		t.Errorf("absent fontSize should keep default, got %v", s.Labels.FontSize)
	}
}

func TestParseNil(t *testing.T) {
	s, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Errorf("Parse(nil) = %+v, want defaults", s)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		objs Objects
	}{
		{"fractional buckets", Objects{"general": {"buckets": 2.5}}},
		{"bool as string", Objects{"labels": {"show": "maybe"}}},
		{"bad color", Objects{"labels": {"fill": "red-ish"}}},
		{"zero buckets", Objects{"general": {"buckets": 0}}},
		{"negative font", Objects{"labels": {"fontSize": -1.0}}},
		{"wrong type", Objects{"general": {"colorbrewer": 3.0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.objs)
			if !errors.Is(err, errors.ErrCodeInvalidSettings) {
				t.Errorf("err = %v, want INVALID_SETTINGS", err)
			}
		})
	}
}

func TestParseAssignments(t *testing.T) {
	s, err := ParseAssignments([]string{"labels.show=true", "labels.fontSize=14px", "general.colorbrewer = Greens", "Labels.LabelPrecision=2"})
	if err != nil {
		t.Fatalf("ParseAssignments: %v", err)
	}
	if !s.Labels.Show || s.Labels.FontSize != 14 || s.General.Colorbrewer != "Greens" || s.Labels.LabelPrecision != 2 {
		t.Errorf("settings = %+v", s)
	}

	for _, bad := range []string{"labels.show", "show=true", "labels.size=3"} {
		if _, err := ParseAssignments([]string{bad}); !errors.Is(err, errors.ErrCodeInvalidSettings) {
			t.Errorf("%q: err = %v, want INVALID_SETTINGS", bad, err)
		}
	}
}

func TestEnumerate(t *testing.T) {
	s := Default()
	s.Labels.Show = true

	got := Enumerate(s, "labels")
	if len(got) != 1 {
		t.Fatalf("instances = %d, want 1", len(got))
	}
	inst := got[0]
	if inst.ObjectName != "labels" || inst.Properties["show"] != true || inst.Properties["labelPrecision"] != -1 {
		t.Errorf("instance = %+v", inst)
	}
	if len(inst.Properties) != 4 {
		t.Errorf("labels properties = %d, want 4", len(inst.Properties))
	}

	if dp := Enumerate(s, "dataPoint"); len(dp) != 1 || dp[0].Properties["fill"] != "#e6e6e6" {
		t.Errorf("dataPoint = %+v", dp)
	}
	// Object names match the way Parse and Set match them.
	if dp := Enumerate(s, "datapoint"); len(dp) != 1 || dp[0].ObjectName != "dataPoint" {
		t.Errorf("datapoint = %+v, want the dataPoint instance", dp)
	}
	if Enumerate(s, "legend") != nil {
		t.Error("unknown object should enumerate to nil")
	}
}

func TestObjectsRoundTrip(t *testing.T) {
	s := Default()
	s.General.Colorbrewer = "Reds"
	s.Labels.FontSize = 9

	back, err := Parse(s.Objects())
	if err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("round trip = %+v, want %+v", back, s)
	}
}

func TestProperties(t *testing.T) {
	props := Properties()
	if len(props) != 7 {
		t.Fatalf("properties = %d, want 7", len(props))
	}
	if props[0].Key() != "general.buckets" || props[0].Default != 5 {
		t.Errorf("first property = %+v", props[0])
	}
}
