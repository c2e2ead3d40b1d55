package diag

import "testing"

func TestPhaseSpacePacksAxesIntoBits(t *testing.T) {
	rt := PhaseSpace(X1, U2)
	if !rt.IsPhaseSpace() {
		t.Fatal("expected IsPhaseSpace() true")
	}
	a, b := rt.Axes()
	if a != X1 || b != U2 {
		t.Fatalf("expected (X1, U2), got (%v, %v)", a, b)
	}
}

func TestKindsAreDistinct(t *testing.T) {
	if Charge().Kind() == Particles().Kind() {
		t.Fatal("Charge and Particles must have distinct kinds")
	}
	if Charge().Kind() == PhaseSpace(X1, U1).Kind() {
		t.Fatal("Charge and PhaseSpace must have distinct kinds")
	}
}

func TestAxisUnits(t *testing.T) {
	if X1.Units() == U1.Units() {
		t.Fatal("position and momentum axes should report different units")
	}
	if U1.Units() != U2.Units() || U2.Units() != U3.Units() {
		t.Fatal("all momentum axes should share units")
	}
}

func TestHistogramDepositsAtCenterBin(t *testing.T) {
	nx := [2]int{4, 4}
	rng := [2][2]float32{{0, 4}, {0, 4}}
	samples := []Sample{{X1: 2, U1: 2}}
	buf := make([]float32, nx[0]*nx[1])

	Histogram(PhaseSpace(X1, U1), nx, rng, samples, 1.0, buf)

	var total float32
	for _, v := range buf {
		total += v
	}
	if total < 0.99 || total > 1.01 {
		t.Fatalf("expected total deposited charge ~1.0, got %f", total)
	}
}

func TestHistogramIgnoresOutOfRangeSamples(t *testing.T) {
	nx := [2]int{4, 4}
	rng := [2][2]float32{{0, 4}, {0, 4}}
	samples := []Sample{{X1: 100, U1: 100}}
	buf := make([]float32, nx[0]*nx[1])

	Histogram(PhaseSpace(X1, U1), nx, rng, samples, 1.0, buf)

	for _, v := range buf {
		if v != 0 {
			t.Fatalf("expected no deposit for out-of-range sample, got %f", v)
		}
	}
}
