package heatmap

import (
	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/surface"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// Visual drives the heat map through host updates. It keeps only the
// settings and model of the last update. A Visual is not safe for
// concurrent use.
type Visual struct {
	renderer *Renderer
	surface  *surface.Surface

	settings *settings.Settings
	model    *chart.Model
	layout   *Layout
}

// NewVisual returns a visual drawing onto surf.
func NewVisual(surf *surface.Surface, opts ...Option) *Visual {
	return &Visual{renderer: NewRenderer(opts...), surface: surf}
}

// Update reshapes t, re-parses objs and redraws the whole surface. A nil
// table is ignored. Invalid settings are reported and leave the surface
// untouched.
func (v *Visual) Update(t *table.Table, vp Viewport, objs settings.Objects) (*Layout, error) {
	if t == nil {
		return v.layout, nil
	}
	s, err := settings.Parse(objs)
	if err != nil {
		return nil, err
	}
	v.settings = &s
	v.model = chart.Shape(t)
	v.layout = v.renderer.Render(v.model, vp, s, v.surface)
	return v.layout, nil
}

// Enumerate returns the editable instances of object from the last
// applied settings, or from the defaults before the first update.
func (v *Visual) Enumerate(object string) []settings.Instance {
	s := settings.Default()
	if v.settings != nil {
		s = *v.settings
	}
	return settings.Enumerate(s, object)
}

// Settings returns the last applied settings and whether there are any.
func (v *Visual) Settings() (settings.Settings, bool) {
	if v.settings == nil {
		return settings.Default(), false
	}
	return *v.settings, true
}

// Model returns the model of the last update, or nil.
func (v *Visual) Model() *chart.Model { return v.model }

// Surface returns the surface the visual draws onto.
func (v *Visual) Surface() *surface.Surface { return v.surface }
