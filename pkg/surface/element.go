package surface

import (
	"slices"
	"strconv"
	"strings"
)

// Element tags used by the heat map.
const (
	TagSVG   = "svg"
	TagG     = "g"
	TagText  = "text"
	TagRect  = "rect"
	TagLine  = "line"
	TagTitle = "title"
)

// Attr is one attribute or style property.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Element is a node of the drawing tree. Attributes and styles keep their
// insertion order so that output is deterministic.
type Element struct {
	Tag        string      `json:"tag"`
	Classes    []string    `json:"classes,omitempty"`
	Attrs      []Attr      `json:"attrs,omitempty"`
	Style      []Attr      `json:"style,omitempty"`
	Text       string      `json:"text,omitempty"`
	Children   []*Element  `json:"children,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
}

// Append adds a child with the given tag and returns it.
func (e *Element) Append(tag string) *Element {
	c := &Element{Tag: tag}
	e.Children = append(e.Children, c)
	return c
}

// SetAttr sets an attribute, replacing any previous value.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attrs = set(e.Attrs, name, value)
	return e
}

// SetNum sets a numeric attribute.
func (e *Element) SetNum(name string, v float64) *Element {
	return e.SetAttr(name, FormatNum(v))
}

// SetStyle sets a style property, replacing any previous value.
func (e *Element) SetStyle(name, value string) *Element {
	e.Style = set(e.Style, name, value)
	return e
}

// AddClass adds space separated classes.
func (e *Element) AddClass(classes string) *Element {
	for _, c := range strings.Fields(classes) {
		if !slices.Contains(e.Classes, c) {
			e.Classes = append(e.Classes, c)
		}
	}
	return e
}

// HasClass reports whether e carries class c.
func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.Classes, c)
}

// SetText sets the text content.
func (e *Element) SetText(s string) *Element {
	e.Text = s
	return e
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	return get(e.Attrs, name)
}

// StyleValue returns a style property value.
func (e *Element) StyleValue(name string) (string, bool) {
	return get(e.Style, name)
}

// Num returns a numeric attribute, or 0 when absent or not a number.
func (e *Element) Num(name string) float64 {
	v, ok := e.Attr(name)
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

// Find returns all descendants (including e) that carry class c, in
// document order.
func (e *Element) Find(c string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) {
		if el.HasClass(c) {
			out = append(out, el)
		}
	})
	return out
}

// FindTag returns all descendants (including e) with the given tag.
func (e *Element) FindTag(tag string) []*Element {
	var out []*Element
	e.Walk(func(el *Element) {
		if el.Tag == tag {
			out = append(out, el)
		}
	})
	return out
}

// Walk visits e and its descendants depth first.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// FormatNum prints a coordinate with at most three decimals.
func FormatNum(v float64) string {
	return strconv.FormatFloat(roundTo(v, 3), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	p := 1.0
	for range places {
		p *= 10
	}
	if v < 0 {
		return -float64(int64(-v*p+0.5)) / p
	}
	return float64(int64(v*p+0.5)) / p
}

func set(attrs []Attr, name, value string) []Attr {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Name: name, Value: value})
}

func get(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
