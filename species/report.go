package species

import (
	"fmt"

	"github.com/zpic-go/species/diag"
)

// DepositPha deposits a 2-D phase-space histogram for the given axes into
// buf (row-major, nx[0] columns by nx[1] rows), matching spec_deposit_pha.
func (s *Species) DepositPha(rt diag.ReportType, nx [2]int, rng [2][2]float32, buf []float32) {
	s.checkOpen()
	if !rt.IsPhaseSpace() {
		panic("species: DepositPha requires a phase-space ReportType")
	}

	buflen := s.buf.Slice()
	samples := make([]diag.Sample, len(buflen))
	for i, p := range buflen {
		samples[i] = diag.Sample{
			X1: (float32(p.Ix) + p.X + 0.5) * s.dx,
			U1: p.Ux,
			U2: p.Uy,
			U3: p.Uz,
		}
	}

	diag.Histogram(rt, nx, rng, samples, s.q, buf)
}

// particleRow is one row of a raw particle dump, matching the fields
// spec_rep_particles writes: physical position and the three momentum
// components.
type particleRow struct {
	X  float64 `csv:"x"`
	Ux float64 `csv:"ux"`
	Uy float64 `csv:"uy"`
	Uz float64 `csv:"uz"`
}

// Report renders a diagnostic report and writes it through sink, matching
// spec_report's dispatch on the report kind.
func (s *Species) Report(rt diag.ReportType, nx [2]int, rng [2][2]float32, sink diag.Sink) error {
	s.checkOpen()

	switch rt.Kind() {
	case diag.Charge():
		out := make([]float32, s.cfg.Nx+1)
		s.DepositCharge(out)
		out[0] += out[s.cfg.Nx]
		return sink.WriteGrid(fmt.Sprintf("%s-charge", s.cfg.Name), [2]int{s.cfg.Nx, 1}, out[:s.cfg.Nx])

	case diag.PhaseSpaceKind():
		buf := make([]float32, nx[0]*nx[1])
		s.DepositPha(rt, nx, rng, buf)
		return sink.WriteGrid(fmt.Sprintf("%s-pha", s.cfg.Name), nx, buf)

	case diag.Particles():
		rows := make([]*particleRow, s.buf.Len())
		for i, p := range s.buf.Slice() {
			rows[i] = &particleRow{
				X:  float64((float32(p.Ix) + p.X + 0.5) * s.dx),
				Ux: float64(p.Ux),
				Uy: float64(p.Uy),
				Uz: float64(p.Uz),
			}
		}
		return sink.WriteRecords(s.cfg.Name, rows)

	default:
		return fmt.Errorf("species: unknown report kind %x", rt.Kind())
	}
}
