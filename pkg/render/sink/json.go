package sink

import (
	"encoding/json"

	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/surface"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	elements bool
	settings any
	id       string
}

// WithJSONElements includes the full element tree in the output.
func WithJSONElements() JSONOption { return func(r *jsonRenderer) { r.elements = true } }

// WithJSONSettings records the settings the chart was rendered with.
func WithJSONSettings(s any) JSONOption { return func(r *jsonRenderer) { r.settings = s } }

// WithJSONRenderID records an identifier for the render.
func WithJSONRenderID(id string) JSONOption { return func(r *jsonRenderer) { r.id = id } }

type jsonOutput struct {
	ID       string           `json:"id,omitempty"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Empty    bool             `json:"empty,omitempty"`
	Layout   *heatmap.Layout  `json:"layout,omitempty"`
	Settings any              `json:"settings,omitempty"`
	Elements *surface.Element `json:"elements,omitempty"`
}

// RenderJSON encodes the computed layout and surface size. A nil layout
// (the empty chart) is reported with "empty": true.
func RenderJSON(l *heatmap.Layout, surf *surface.Surface, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	w, h := surf.Size()
	out := jsonOutput{
		ID:       r.id,
		Width:    w,
		Height:   h,
		Empty:    l == nil,
		Layout:   l,
		Settings: r.settings,
	}
	if r.elements {
		out.Elements = surf.Root()
	}
	return json.MarshalIndent(out, "", "  ")
}
