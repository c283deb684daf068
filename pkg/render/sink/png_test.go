package sink

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/matzehuels/tableheatmap/pkg/surface"
)

func TestRenderPNG(t *testing.T) {
	l, surf := drawn()
	data, err := RenderPNG(surf, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}

	w, h := surf.Size()
	if got := img.Bounds().Dx(); got != int(math.Ceil(w)) {
		t.Errorf("width = %d, want %v", got, math.Ceil(w))
	}
	if got := img.Bounds().Dy(); got != int(math.Ceil(h)) {
		t.Errorf("height = %d, want %v", got, math.Ceil(h))
	}

	// Cells are drawn at their final color.
	cell := l.Groups[0].Cells[0]
	want, _ := parseColor(cell.Color)
	got := img.At(int(cell.X+cell.Width/2), int(cell.Y+cell.Height/2))
	wr, wg, wb, _ := want.RGBA()
	gr, gg, gb, _ := got.RGBA()
	if wr>>8 != gr>>8 || wg>>8 != gg>>8 || wb>>8 != gb>>8 {
		t.Errorf("cell center = %v, want %s", got, cell.Color)
	}
}

func TestRenderPNGScale(t *testing.T) {
	_, surf := drawn()
	data, err := RenderPNG(surf, WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.DecodeConfig() error: %v", err)
	}
	w, _ := surf.Size()
	if cfg.Width != int(math.Ceil(w*2)) {
		t.Errorf("width = %d, want %v", cfg.Width, math.Ceil(w*2))
	}
}

func TestRenderPNGEmpty(t *testing.T) {
	data, err := RenderPNG(surface.New())
	if err != nil {
		t.Fatalf("RenderPNG(empty) error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.DecodeConfig() error: %v", err)
	}
	if cfg.Width != 1 || cfg.Height != 1 {
		t.Errorf("empty image = %dx%d, want 1x1", cfg.Width, cfg.Height)
	}
}

func TestRenderPNGBackground(t *testing.T) {
	data, err := RenderPNG(surface.New(), WithPNGBackground("#000000"))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r|g|b != 0 {
		t.Errorf("background = %v, want black", img.At(0, 0))
	}

	// An invalid color keeps the white default.
	data, err = RenderPNG(surface.New(), WithPNGBackground("not-a-color"))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, _ = png.Decode(bytes.NewReader(data))
	if r, _, _, _ := img.At(0, 0).RGBA(); r>>8 != 0xff {
		t.Errorf("background = %v, want white", img.At(0, 0))
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"#aaa", true},
		{"#a50026", true},
		{"white", true},
		{"none", false},
		{"", false},
		{"#zz", false},
	}
	for _, tt := range tests {
		if _, ok := parseColor(tt.in); ok != tt.ok {
			t.Errorf("parseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
	c, _ := parseColor("#aaa")
	r, g, b, _ := c.RGBA()
	if r>>8 != 0xaa || g>>8 != 0xaa || b>>8 != 0xaa {
		t.Errorf("parseColor(#aaa) = %v", c)
	}
}
