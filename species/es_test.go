package species

import (
	"math"
	"testing"

	"github.com/zpic-go/species/density"
	"github.com/zpic-go/species/field"
	"github.com/zpic-go/species/particle"
)

func TestNewESInjectsUniformDistribution(t *testing.T) {
	cfg := ESConfig{Nx: 8, PPC: 10, Box: 8, Dt: 0.1, MQ: -1}
	s, err := NewES(cfg)
	if err != nil {
		t.Fatalf("NewES: %v", err)
	}
	if s.Len() != 80 {
		t.Fatalf("expected 80 particles, got %d", s.Len())
	}
}

func TestESAdvanceKeepsParticlesInBounds(t *testing.T) {
	nx := 16
	cfg := ESConfig{Nx: nx, PPC: 4, Box: float32(nx), Dt: 0.05, MQ: -1, Vth: 0.1, Seed: 3}
	s, err := NewES(cfg)
	if err != nil {
		t.Fatalf("NewES: %v", err)
	}

	f := field.NewEField(nx)
	rho := field.NewChargeGrid(nx)

	for step := 0; step < 20; step++ {
		rho.Zero()
		s.Advance(f, rho)
	}

	for _, p := range s.buf.Slice() {
		if p.Ix < 0 || p.Ix >= int32(nx) {
			t.Fatalf("particle left valid cell range: ix=%d", p.Ix)
		}
		if p.X < -0.5 || p.X >= 0.5 {
			t.Fatalf("particle offset left [-0.5, 0.5): x=%f", p.X)
		}
	}
}

// TestESAdvanceDepositsAcrossPeriodicBoundary mirrors the electromagnetic
// variant's periodic-boundary regression test: one particle crosses the
// lower boundary (ix=0 -> -1 -> wraps to nx-1), one crosses the upper
// boundary (ix=nx-1 -> nx -> wraps to 0), with zero field so displacement
// is exact.
func TestESAdvanceDepositsAcrossPeriodicBoundary(t *testing.T) {
	nx := 4
	cfg := ESConfig{Nx: nx, PPC: 1, Box: float32(nx), Dt: 1.0, MQ: -1, Density: density.Profile{Kind: density.Empty}}
	s, err := NewES(cfg)
	if err != nil {
		t.Fatalf("NewES: %v", err)
	}

	s.buf.Append(particle.ParticleES{Ix: 0, X: -0.4, Vx: -0.15})
	s.buf.Append(particle.ParticleES{Ix: int32(nx - 1), X: 0.4, Vx: 0.15})

	f := field.NewEField(nx)
	rho := field.NewChargeGrid(nx)

	s.Advance(f, rho)

	buf := s.buf.Slice()
	for i, p := range buf {
		if p.Ix < 0 || p.Ix >= int32(nx) {
			t.Fatalf("particle %d left valid cell range after crossing boundary: ix=%d", i, p.Ix)
		}
	}
	if buf[0].Ix != int32(nx-1) {
		t.Errorf("lower-boundary particle expected to wrap to ix=%d, got ix=%d", nx-1, buf[0].Ix)
	}
	if buf[1].Ix != 0 {
		t.Errorf("upper-boundary particle expected to wrap to ix=0, got ix=%d", buf[1].Ix)
	}

	var total float32
	for _, v := range rho.Rho[:nx] {
		total += v
	}
	expected := 2 * s.q
	if math.Abs(float64(total-expected)) > 1e-3 {
		t.Errorf("charge not conserved across periodic boundary: total=%f expected=%f", total, expected)
	}
}

func TestESCloseInvalidatesHandle(t *testing.T) {
	cfg := ESConfig{Nx: 4, PPC: 2, Box: 4, Dt: 0.1, MQ: -1}
	s, err := NewES(cfg)
	if err != nil {
		t.Fatalf("NewES: %v", err)
	}
	s.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic using ESSpecies after Close")
		}
	}()
	s.Len()
}

func TestESNPushTracksAdvance(t *testing.T) {
	nx := 8
	cfg := ESConfig{Nx: nx, PPC: 4, Box: float32(nx), Dt: 0.1, MQ: -1}
	s, err := NewES(cfg)
	if err != nil {
		t.Fatalf("NewES: %v", err)
	}

	f := field.NewEField(nx)
	rho := field.NewChargeGrid(nx)
	n := uint64(s.Len())

	s.Advance(f, rho)

	if s.NPush() != n {
		t.Errorf("expected NPush=%d, got %d", n, s.NPush())
	}
}
