package sink

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/surface"
)

func TestRenderSVGWellFormed(t *testing.T) {
	_, surf := drawn()
	out := RenderSVG(surf, WithAnimations(), WithEmbeddedFont(), WithBackground("#ffffff"))

	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v", err)
		}
	}
}

func TestRenderSVGAnimations(t *testing.T) {
	l, surf := drawn()
	first := l.Groups[0].Cells[0]

	animated := string(RenderSVG(surf, WithAnimations()))
	if n := strings.Count(animated, "<animate "); n != 6 {
		t.Errorf("animate elements = %d, want 6", n)
	}
	if !strings.Contains(animated, `to="`+first.Color+`"`) {
		t.Errorf("missing transition to %s", first.Color)
	}
	if !strings.Contains(animated, "fill: "+l.Groups[0].Initial) {
		t.Errorf("cells should start at %s", l.Groups[0].Initial)
	}

	static := string(RenderSVG(surf))
	if strings.Contains(static, "<animate") {
		t.Error("static output should not animate")
	}
	if !strings.Contains(static, "fill: "+first.Color) {
		t.Errorf("static output missing final fill %s", first.Color)
	}
	if surf.Root().FindTag(surface.TagRect)[0].Transition == nil {
		t.Error("RenderSVG must not settle the surface")
	}
}

func TestRenderSVGTooltipsAndEscaping(t *testing.T) {
	surf := surface.New()
	surf.SetSize(10, 10)
	rect := surf.Root().Append(surface.TagRect)
	rect.Append(surface.TagTitle).SetText("a<b & c")

	out := string(RenderSVG(surf, WithoutStyleSheet()))
	if !strings.Contains(out, "<title>a&lt;b &amp; c</title>") {
		t.Errorf("title not escaped:\n%s", out)
	}
	if strings.Contains(out, "<style>") {
		t.Error("style sheet should be omitted")
	}
}

func TestRenderSVGSuppressedAnimations(t *testing.T) {
	_, surf := drawn(heatmap.WithSuppressAnimations())
	out := string(RenderSVG(surf, WithAnimations()))
	if strings.Contains(out, "<animate") {
		t.Error("no transitions are pending, nothing should animate")
	}
}

func TestRenderSVGSize(t *testing.T) {
	_, surf := drawn()
	w, h := surf.Size()
	out := string(RenderSVG(surf))
	want := `width="` + surface.FormatNum(w) + `" height="` + surface.FormatNum(h) + `"`
	if !strings.Contains(out, want) {
		t.Errorf("missing %s", want)
	}
	if !strings.Contains(out, `class="svgTableHeatMap"`) {
		t.Error("missing root class")
	}
}
