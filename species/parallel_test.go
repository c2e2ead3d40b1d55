package species

import (
	"math"
	"testing"

	"github.com/zpic-go/species/field"
)

func TestAdvanceParallelMatchesSerialCharge(t *testing.T) {
	nx := 32
	mkCfg := func() Config {
		return Config{Nx: nx, PPC: 8, Box: float32(nx), Dt: 0.05, MQ: -1, Uth: [3]float32{0.2, 0.2, 0.2}, Seed: 5}
	}

	serial := newTestSpecies(t, mkCfg())
	parallel := newTestSpecies(t, mkCfg())

	f := field.NewEMFields(nx)
	for i := range f.E.X {
		f.E.X[i] = 0.01
		f.B.Z[i] = 0.02
	}

	rhoS := field.NewChargeGrid(nx)
	jS := field.NewCurrentGrid(nx)
	rhoP := field.NewChargeGrid(nx)
	jP := field.NewCurrentGrid(nx)

	serial.Advance(f, rhoS, jS)
	parallel.AdvanceParallel(f, rhoP, jP)

	var total float64
	for i := range rhoS.Rho {
		total += math.Abs(float64(rhoS.Rho[i] - rhoP.Rho[i]))
	}
	if total > 1e-2 {
		t.Errorf("serial/parallel charge grids diverged: total abs diff=%f", total)
	}
}

func TestAdvanceParallelTracksPushCount(t *testing.T) {
	nx := 16
	cfg := Config{Nx: nx, PPC: 4, Box: float32(nx), Dt: 0.1, MQ: -1}
	s := newTestSpecies(t, cfg)

	f := field.NewEMFields(nx)
	rho := field.NewChargeGrid(nx)
	j := field.NewCurrentGrid(nx)

	n := uint64(s.Len())
	s.AdvanceParallel(f, rho, j)

	if s.NPush() != n {
		t.Errorf("expected NPush=%d, got %d", n, s.NPush())
	}
}
