package surface

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Transition animates one color style property from From to To.
type Transition struct {
	Property string        `json:"property"`
	From     string        `json:"from"`
	To       string        `json:"to"`
	Duration time.Duration `json:"duration"`
}

// At returns the color at progress t in [0, 1], interpolated in RGB.
// Colors that cannot be parsed snap from From to To at the midpoint.
func (tr Transition) At(t float64) string {
	t = min(max(t, 0), 1)
	from, err1 := colorful.Hex(tr.From)
	to, err2 := colorful.Hex(tr.To)
	if err1 != nil || err2 != nil {
		if t < 0.5 {
			return tr.From
		}
		return tr.To
	}
	return from.BlendRgb(to, t).Clamped().Hex()
}

// Animate requests that style property prop move from its current
// value to target over d. A zero or negative duration applies target
// immediately. The style always holds the current, pre-transition value
// until [Element.Settle] is called.
func (e *Element) Animate(prop, target string, d time.Duration) *Element {
	if d <= 0 {
		e.Transition = nil
		return e.SetStyle(prop, target)
	}
	from, _ := e.StyleValue(prop)
	e.Transition = &Transition{Property: prop, From: from, To: target, Duration: d}
	return e
}

// Settle applies the end state of every pending transition in the tree
// and drops the transitions.
func (e *Element) Settle() {
	e.Walk(func(el *Element) {
		if el.Transition != nil {
			el.SetStyle(el.Transition.Property, el.Transition.To)
			el.Transition = nil
		}
	})
}
