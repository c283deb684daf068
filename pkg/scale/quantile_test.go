package scale

import (
	"math"
	"testing"
)

func TestQuantile7(t *testing.T) {
	tests := []struct {
		values []float64
		p      float64
		want   float64
	}{
		{[]float64{1, 3}, 0.2, 1.4},
		{[]float64{1, 3}, 0.5, 2},
		{[]float64{1, 2, 3, 4}, 0.25, 1.75},
		{[]float64{1, 2, 3, 4}, 1, 4},
		{[]float64{5}, 0.7, 5},
	}
	for _, tt := range tests {
		if got := Quantile7(tt.values, tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Quantile7(%v, %v) = %v, want %v", tt.values, tt.p, got, tt.want)
		}
	}
	if !math.IsNaN(Quantile7(nil, 0.5)) {
		t.Error("empty input should be NaN")
	}
}

func TestThresholds(t *testing.T) {
	q := NewQuantile([]float64{3, 1}, []string{"a", "b", "c", "d", "e"})
	want := []float64{1.4, 1.8, 2.2, 2.6}
	got := q.Thresholds()
	if len(got) != len(want) {
		t.Fatalf("thresholds = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("threshold %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScale(t *testing.T) {
	q := NewQuantile([]float64{1, 3}, []string{"a", "b", "c", "d", "e"})
	tests := []struct {
		x    float64
		want string
	}{
		{0, "a"},
		{1, "a"},
		{1.4, "b"},
		{2, "c"},
		{2.6, "e"},
		{3, "e"},
		{100, "e"},
	}
	for _, tt := range tests {
		if got := q.Scale(tt.x); got != tt.want {
			t.Errorf("Scale(%v) = %q, want %q", tt.x, got, tt.want)
		}
	}
}

func TestScaleDegenerate(t *testing.T) {
	empty := NewQuantile[string]([]float64{1, 2}, nil)
	if got := empty.Index(1); got != -1 {
		t.Errorf("empty range index = %d, want -1", got)
	}
	if got := empty.Scale(1); got != "" {
		t.Errorf("empty range scale = %q, want zero value", got)
	}

	single := NewQuantile([]float64{1, 1}, []int{10, 20, 30})
	if got := single.Scale(0); got != 10 {
		t.Errorf("below single-point domain = %d, want 10", got)
	}
	if got := single.Scale(1); got != 30 {
		t.Errorf("at single-point domain = %d, want 30", got)
	}

	if got := single.Index(math.NaN()); got != -1 {
		t.Errorf("NaN index = %d, want -1", got)
	}
}
