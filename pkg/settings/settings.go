// Package settings holds the user-facing options of the heat map.
//
// Settings are grouped into objects the way a host property pane shows
// them:
//
//	general.buckets         int     number of palette classes (default 5)
//	general.colorbrewer     string  palette name ("" = default palette)
//	labels.show             bool    draw data labels (default false)
//	labels.fontSize         number  data label size in px (default 12)
//	labels.fill             color   data label color (default #000000)
//	labels.labelPrecision   int     decimals for data labels, -1 = as is
//	dataPoint.fill          color   cell border color (default #e6e6e6)
//
// [Parse] reads host objects, falling back to the default of every
// property that is absent. [Enumerate] turns settings back into the
// editable instances of one object.
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tableheatmap/pkg/errors"
)

// Object names.
const (
	ObjectGeneral   = "general"
	ObjectLabels    = "labels"
	ObjectDataPoint = "dataPoint"
)

// Settings is the full option set.
type Settings struct {
	General   General   `json:"general" mapstructure:"general"`
	Labels    Labels    `json:"labels" mapstructure:"labels"`
	DataPoint DataPoint `json:"dataPoint" mapstructure:"datapoint"`
}

// General selects the palette.
type General struct {
	Buckets     int    `json:"buckets" mapstructure:"buckets"`
	Colorbrewer string `json:"colorbrewer" mapstructure:"colorbrewer"`
}

// Labels controls the per-cell data labels.
type Labels struct {
	Show           bool    `json:"show" mapstructure:"show"`
	FontSize       float64 `json:"fontSize" mapstructure:"fontsize"`
	Fill           string  `json:"fill" mapstructure:"fill"`
	LabelPrecision int     `json:"labelPrecision" mapstructure:"labelprecision"`
}

// DataPoint styles the cells.
type DataPoint struct {
	Fill string `json:"fill" mapstructure:"fill"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		General:   General{Buckets: 5},
		Labels:    Labels{FontSize: 12, Fill: "#000000", LabelPrecision: -1},
		DataPoint: DataPoint{Fill: "#e6e6e6"},
	}
}

// Validate checks value ranges and colors.
func (s Settings) Validate() error {
	if s.General.Buckets < 1 {
		return errors.New(errors.ErrCodeInvalidSettings, "general.buckets must be at least 1, got %d", s.General.Buckets)
	}
	if s.Labels.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "labels.fontSize must be positive, got %v", s.Labels.FontSize)
	}
	if s.Labels.LabelPrecision < -1 {
		return errors.New(errors.ErrCodeInvalidSettings, "labels.labelPrecision must be -1 or more, got %d", s.Labels.LabelPrecision)
	}
	for key, c := range map[string]string{"labels.fill": s.Labels.Fill, "dataPoint.fill": s.DataPoint.Fill} {
		if _, err := colorful.Hex(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSettings, err, "%s: %q is not a hex color", key, c)
		}
	}
	return nil
}

// Objects is the host's settings payload: object name to property name
// to value. Color properties may be given either as a plain string or in
// the {"solid": {"color": "#rrggbb"}} fill shape.
type Objects map[string]map[string]any

// Kind is the value type of a property.
type Kind string

const (
	KindInt    Kind = "int"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindString Kind = "string"
	KindColor  Kind = "color"
)

// Property describes one setting.
type Property struct {
	Object  string `json:"object"`
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Default any    `json:"default"`

	get func(*Settings) any
	set func(*Settings, any)
}

// Key returns "object.name".
func (p Property) Key() string { return p.Object + "." + p.Name }

var properties = []Property{
	{Object: ObjectGeneral, Name: "buckets", Kind: KindInt,
		get: func(s *Settings) any { return s.General.Buckets },
		set: func(s *Settings, v any) { s.General.Buckets = v.(int) }},
	{Object: ObjectGeneral, Name: "colorbrewer", Kind: KindString,
		get: func(s *Settings) any { return s.General.Colorbrewer },
		set: func(s *Settings, v any) { s.General.Colorbrewer = v.(string) }},
	{Object: ObjectLabels, Name: "show", Kind: KindBool,
		get: func(s *Settings) any { return s.Labels.Show },
		set: func(s *Settings, v any) { s.Labels.Show = v.(bool) }},
	{Object: ObjectLabels, Name: "fontSize", Kind: KindNumber,
		get: func(s *Settings) any { return s.Labels.FontSize },
		set: func(s *Settings, v any) { s.Labels.FontSize = v.(float64) }},
	{Object: ObjectLabels, Name: "fill", Kind: KindColor,
		get: func(s *Settings) any { return s.Labels.Fill },
		set: func(s *Settings, v any) { s.Labels.Fill = v.(string) }},
	{Object: ObjectLabels, Name: "labelPrecision", Kind: KindInt,
		get: func(s *Settings) any { return s.Labels.LabelPrecision },
		set: func(s *Settings, v any) { s.Labels.LabelPrecision = v.(int) }},
	{Object: ObjectDataPoint, Name: "fill", Kind: KindColor,
		get: func(s *Settings) any { return s.DataPoint.Fill },
		set: func(s *Settings, v any) { s.DataPoint.Fill = v.(string) }},
}

func init() {
	d := Default()
	for i := range properties {
		properties[i].Default = properties[i].get(&d)
	}
}

// Properties lists every setting in display order.
func Properties() []Property {
	out := make([]Property, len(properties))
	copy(out, properties)
	return out
}

// ObjectNames lists the settings objects in display order.
func ObjectNames() []string {
	return []string{ObjectGeneral, ObjectLabels, ObjectDataPoint}
}

func lookup(object, name string) (Property, bool) {
	for _, p := range properties {
		if strings.EqualFold(p.Object, object) && strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Property{}, false
}

// Parse builds settings from host objects. Absent properties keep their
// default; unknown objects and properties are ignored. A value of the
// wrong type is an INVALID_SETTINGS error.
func Parse(objs Objects) (Settings, error) {
	s := Default()
	if err := s.Apply(objs); err != nil {
		return Default(), err
	}
	return s, nil
}

// Apply overlays objs onto s.
func (s *Settings) Apply(objs Objects) error {
	// Sorted for deterministic error reporting.
	objects := make([]string, 0, len(objs))
	for o := range objs {
		objects = append(objects, o)
	}
	sort.Strings(objects)

	for _, o := range objects {
		names := make([]string, 0, len(objs[o]))
		for n := range objs[o] {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			p, ok := lookup(o, n)
			if !ok {
				continue
			}
			v, err := coerce(p.Kind, objs[o][n])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSettings, err, "%s", p.Key())
			}
			p.set(s, v)
		}
	}
	return s.Validate()
}

// Set assigns one property from its textual form, as given on the
// command line ("labels.show=true").
func (s *Settings) Set(key, value string) error {
	object, name, ok := strings.Cut(key, ".")
	if !ok {
		return errors.New(errors.ErrCodeInvalidSettings, "setting %q must be object.property", key)
	}
	p, ok := lookup(object, name)
	if !ok {
		return errors.New(errors.ErrCodeInvalidSettings, "unknown setting %q", key)
	}
	v, err := coerce(p.Kind, value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "%s", p.Key())
	}
	p.set(s, v)
	return s.Validate()
}

// ParseAssignments applies "object.property=value" pairs on top of the
// defaults.
func ParseAssignments(pairs []string) (Settings, error) {
	s := Default()
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return Default(), errors.New(errors.ErrCodeInvalidSettings, "setting %q must be object.property=value", kv)
		}
		if err := s.Set(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
			return Default(), err
		}
	}
	return s, nil
}

// Objects converts s back into host objects.
func (s Settings) Objects() Objects {
	out := Objects{}
	for _, p := range properties {
		if out[p.Object] == nil {
			out[p.Object] = map[string]any{}
		}
		out[p.Object][p.Name] = p.get(&s)
	}
	return out
}

// Instance is one editable object instance for a property pane.
type Instance struct {
	ObjectName string         `json:"objectName"`
	Selector   any            `json:"selector"`
	Properties map[string]any `json:"properties"`
}

// Enumerate returns the instances of object, or nil when the object is
// unknown. Object names are matched case-insensitively.
func Enumerate(s Settings, object string) []Instance {
	var name string
	var props map[string]any
	for _, p := range properties {
		if !strings.EqualFold(p.Object, object) {
			continue
		}
		if props == nil {
			name, props = p.Object, map[string]any{}
		}
		props[p.Name] = p.get(&s)
	}
	if props == nil {
		return nil
	}
	return []Instance{{ObjectName: name, Properties: props}}
}

func coerce(kind Kind, v any) (any, error) {
	switch kind {
	case KindInt:
		switch x := v.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case float64:
			if x != float64(int(x)) {
				return nil, fmt.Errorf("%v is not an integer", x)
			}
			return int(x), nil
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(x))
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", x)
			}
			return i, nil
		}
	case KindNumber:
		switch x := v.(type) {
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case float64:
			return x, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(x, "px")), 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", x)
			}
			return f, nil
		}
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return nil, fmt.Errorf("%q is not a boolean", x)
			}
			return b, nil
		}
	case KindString:
		if x, ok := v.(string); ok {
			return x, nil
		}
	case KindColor:
		switch x := v.(type) {
		case string:
			return strings.ToLower(strings.TrimSpace(x)), nil
		case map[string]any:
			if solid, ok := x["solid"].(map[string]any); ok {
				if c, ok := solid["color"].(string); ok {
					return strings.ToLower(strings.TrimSpace(c)), nil
				}
			}
			return nil, fmt.Errorf("fill object must look like {\"solid\": {\"color\": \"#rrggbb\"}}")
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, v)
}
