package rng

import (
	"math"
	"testing"
)

func TestGaussianDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		x, y := a.Sample(), b.Sample()
		if x != y {
			t.Fatalf("sample %d diverged: %f vs %f", i, x, y)
		}
	}
}

func TestGaussianMeanAndVariance(t *testing.T) {
	g := New(7)
	const n = 200000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := float64(g.Sample())
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	if math.Abs(mean) > 0.02 {
		t.Errorf("expected mean near 0, got %f", mean)
	}
	if math.Abs(variance-1) > 0.05 {
		t.Errorf("expected variance near 1, got %f", variance)
	}
}
