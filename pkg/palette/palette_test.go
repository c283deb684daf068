package palette

import (
	"regexp"
	"testing"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestCatalogueIsWellFormed(t *testing.T) {
	if len(names) != len(brewer) || len(names) != len(kinds) {
		t.Fatalf("names=%d brewer=%d kinds=%d", len(names), len(brewer), len(kinds))
	}
	for _, n := range names {
		classes, ok := brewer[n]
		if !ok {
			t.Errorf("%s listed but not defined", n)
			continue
		}
		for k, colors := range classes {
			if len(colors) != k {
				t.Errorf("%s[%d] has %d colors", n, k, len(colors))
			}
			for _, c := range colors {
				if !hexColor.MatchString(c) {
					t.Errorf("%s[%d] bad color %q", n, k, c)
				}
			}
		}
		if lo, _ := Range(n); lo != 3 {
			t.Errorf("%s smallest class = %d, want 3", n, lo)
		}
	}
}

func TestColors(t *testing.T) {
	tests := []struct {
		name    string
		scheme  string
		buckets int
		want    []string
	}{
		{"exact", "Blues", 3, []string{"#deebf7", "#9ecae1", "#3182bd"}},
		{"empty name", "", 3, []string{"#fc8d59", "#ffffbf", "#91bfdb"}},
		{"unknown name", "Rainbow", 3, []string{"#fc8d59", "#ffffbf", "#91bfdb"}},
		{"count missing in scheme", "Blues", 11, brewer["RdYlBu"][11]},
		{"count too small", "Blues", 1, brewer["RdYlBu"][3]},
		{"count too large", "Set3", 40, brewer["RdYlBu"][11]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Colors(tt.scheme, tt.buckets)
			if len(got) != len(tt.want) {
				t.Fatalf("Colors(%q, %d) = %v, want %v", tt.scheme, tt.buckets, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Colors(%q, %d)[%d] = %s, want %s", tt.scheme, tt.buckets, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c, ok := Lookup("Greys", 3)
	if !ok {
		t.Fatal("Greys/3 missing")
	}
	c[0] = "#000000"
	if brewer["Greys"][3][0] == "#000000" {
		t.Error("Lookup leaked the catalogue slice")
	}
}

func TestResolve(t *testing.T) {
	if n, b := Resolve("Paired", 12); n != "Paired" || b != 12 {
		t.Errorf("Resolve(Paired,12) = %s,%d", n, b)
	}
	if n, b := Resolve("Accent", 9); n != Default || b != 9 {
		t.Errorf("Resolve(Accent,9) = %s,%d", n, b)
	}
	if n, b := Resolve("x", 2); n != Default || b != 3 {
		t.Errorf("Resolve(x,2) = %s,%d", n, b)
	}
}

func TestCatalogue(t *testing.T) {
	cat := Catalogue()
	if cat[0].Name != "YlGn" || cat[0].Kind != Sequential || cat[0].Max != 9 {
		t.Errorf("first entry = %+v", cat[0])
	}
	if KindOf("Set3") != Qualitative || KindOf("nope") != "" {
		t.Error("KindOf mismatch")
	}
}
