// Package scale implements the quantile scale used to color heat map
// cells.
//
// A quantile scale divides a sorted numeric domain into as many
// equal-count buckets as its range has entries. Thresholds are computed
// with linear interpolation between closest ranks (the R-7 method), and
// an input maps to the range entry of the first threshold strictly
// greater than it.
package scale

import (
	"math"
	"slices"
	"sort"
)

// Quantile maps numbers onto a discrete range by quantile thresholds.
type Quantile[T any] struct {
	domain     []float64
	rng        []T
	thresholds []float64
}

// NewQuantile builds a scale. NaN domain values are dropped and the rest
// are sorted; the range is used in order.
func NewQuantile[T any](domain []float64, rng []T) *Quantile[T] {
	d := make([]float64, 0, len(domain))
	for _, v := range domain {
		if !math.IsNaN(v) {
			d = append(d, v)
		}
	}
	slices.Sort(d)

	q := &Quantile[T]{domain: d, rng: slices.Clone(rng)}
	for k := 1; k < len(q.rng); k++ {
		q.thresholds = append(q.thresholds, Quantile7(d, float64(k)/float64(len(q.rng))))
	}
	return q
}

// Index returns the range index x maps to, or -1 when the scale has no
// range or x is NaN.
func (q *Quantile[T]) Index(x float64) int {
	if len(q.rng) == 0 || math.IsNaN(x) {
		return -1
	}
	return sort.Search(len(q.thresholds), func(i int) bool { return q.thresholds[i] > x })
}

// Scale returns the range entry for x, or the zero value when
// [Quantile.Index] is -1.
func (q *Quantile[T]) Scale(x float64) T {
	var zero T
	i := q.Index(x)
	if i < 0 {
		return zero
	}
	return q.rng[i]
}

// Thresholds returns a copy of the computed bucket boundaries.
func (q *Quantile[T]) Thresholds() []float64 {
	return slices.Clone(q.thresholds)
}

// Range returns a copy of the range.
func (q *Quantile[T]) Range() []T {
	return slices.Clone(q.rng)
}

// Quantile7 returns the p-quantile of the sorted values using linear
// interpolation between closest ranks. It returns NaN for empty input.
func Quantile7(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1)*p + 1
	i := int(math.Floor(h))
	if i < 1 {
		return sorted[0]
	}
	if i >= n {
		return sorted[n-1]
	}
	v := sorted[i-1]
	if e := h - float64(i); e != 0 {
		return v + e*(sorted[i]-v)
	}
	return v
}
