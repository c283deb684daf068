// Package palette provides the ColorBrewer color schemes used for cell
// colors.
//
// A scheme is addressed by name and class count:
//
//	colors, ok := palette.Lookup("Blues", 5)
//
// [Colors] never fails. An unknown name, or a class count the named
// scheme does not define, falls back to the [Default] scheme; a class
// count outside what the default defines is clamped to its nearest
// defined count.
package palette

import "slices"

// Default is the scheme used when no valid scheme is configured.
const Default = "RdYlBu"

// Kind classifies a scheme.
type Kind string

const (
	Sequential  Kind = "sequential"
	Diverging   Kind = "diverging"
	Qualitative Kind = "qualitative"
)

// names lists every scheme in catalogue order.
var names = []string{
	"YlGn", "YlGnBu", "GnBu", "BuGn", "PuBuGn", "PuBu", "BuPu", "RdPu", "PuRd",
	"OrRd", "YlOrRd", "YlOrBr", "Purples", "Blues", "Greens", "Oranges", "Reds",
	"Greys", "PuOr", "BrBG", "PRGn", "PiYG", "RdBu", "RdGy", "RdYlBu", "Spectral",
	"RdYlGn", "Accent", "Dark2", "Paired", "Pastel1", "Pastel2", "Set1", "Set2",
	"Set3",
}

// Names returns all scheme names in catalogue order.
func Names() []string {
	return slices.Clone(names)
}

// Info describes one scheme.
type Info struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

// Catalogue describes every scheme in catalogue order.
func Catalogue() []Info {
	out := make([]Info, 0, len(names))
	for _, n := range names {
		lo, hi := Range(n)
		out = append(out, Info{Name: n, Kind: kinds[n], Min: lo, Max: hi})
	}
	return out
}

// KindOf returns the kind of the named scheme, or "" if it is unknown.
func KindOf(name string) Kind {
	return kinds[name]
}

// Range returns the smallest and largest class counts the scheme defines.
// Both are zero for an unknown scheme.
func Range(name string) (lo, hi int) {
	for n := range brewer[name] {
		if lo == 0 || n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi
}

// Lookup returns the exact colors of scheme name with the given class
// count. The returned slice is a copy.
func Lookup(name string, buckets int) ([]string, bool) {
	c, ok := brewer[name][buckets]
	if !ok {
		return nil, false
	}
	return slices.Clone(c), true
}

// Colors returns the colors for name and buckets, falling back to the
// default scheme as described in the package documentation.
func Colors(name string, buckets int) []string {
	if c, ok := Lookup(name, buckets); ok {
		return c
	}
	if c, ok := Lookup(Default, buckets); ok {
		return c
	}
	lo, hi := Range(Default)
	c, _ := Lookup(Default, min(max(buckets, lo), hi))
	return c
}

// Resolve reports which scheme and class count [Colors] would use.
func Resolve(name string, buckets int) (string, int) {
	if _, ok := brewer[name][buckets]; ok {
		return name, buckets
	}
	if _, ok := brewer[Default][buckets]; ok {
		return Default, buckets
	}
	lo, hi := Range(Default)
	return Default, min(max(buckets, lo), hi)
}
