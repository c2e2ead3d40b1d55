// Package density implements the injection density profiles used to seed a
// particle species: Uniform, Empty, Step, Slab, Ramp, and Custom.
package density

import (
	"log/slog"
	"math"
)

// Kind tags which placement rule a Profile follows.
type Kind uint8

const (
	Uniform Kind = iota
	Empty
	Step
	Slab
	Ramp
	Custom
)

// Profile is a tagged-variant density profile. Only the fields relevant to
// Kind are read. Ramp and Custom carry running state (totalNpInj,
// customQInj) that must persist across repeated InjectPositions calls so
// that total injected charge is independent of how injection is sliced —
// this is what makes moving-window re-injection exact.
type Profile struct {
	Kind Kind

	// N is the reference density multiplier; 0 is coerced to 1 by the
	// owning species at construction time (see species.New).
	N float64

	// Start/End bound Step (Start only), Slab, and Ramp (simulation units).
	Start, End float64

	// Ramp0/Ramp1 are the density values at Start/End for the Ramp profile.
	Ramp0, Ramp1 float64

	// CustomFn is the user-supplied density function. It must be pure and
	// finite on [0, box]; returning NaN or a negative value is a
	// programmer error and is undefined behavior (spec §7).
	CustomFn func(x float64) float64

	totalNpInj uint64
	customQInj float64
}

// TotalInjected returns the running count of particles injected by this
// profile across all calls to InjectPositions.
func (p *Profile) TotalInjected() uint64 { return p.totalNpInj }

// CellPositions returns the canonical sub-cell positions p_k = (1+2k-ppc)/(2*ppc)
// for k in [0, ppc), used by Uniform, Step, and Slab.
func CellPositions(ppc int) []float32 {
	pos := make([]float32, ppc)
	for k := 0; k < ppc; k++ {
		pos[k] = float32((1 + 2*k - ppc)) / float32(2*ppc)
	}
	return pos
}

// PredictCount returns an upper bound on the number of particles that would
// be injected for cell range [lo, hi] (inclusive) at the given ppc/dx. It is
// used to pre-grow the particle buffer; the exact count is determined by
// InjectPositions.
func (p *Profile) PredictCount(lo, hi, ppc int, dx float64) int {
	if ppc <= 0 {
		return 0
	}
	switch p.Kind {
	case Empty:
		return 0
	case Step:
		i0 := int(p.Start / dx)
		if i0 > hi {
			return 0
		}
		if i0 < lo {
			i0 = lo
		}
		return (hi - i0 + 1) * ppc
	case Slab:
		i0 := int(p.Start / dx)
		i1 := int(p.End / dx)
		if i0 > hi || i1 < lo {
			return 0
		}
		if i0 < lo {
			i0 = lo
		}
		if i1 > hi {
			i1 = hi
		}
		return (i1 - i0 + 1) * ppc
	case Ramp:
		x0, x1 := p.Start, p.End
		a := float64(lo) * dx
		b := float64(hi+1) * dx
		if x1 <= x0 || a > x1 || b < x0 {
			return 0
		}
		if a < x0 {
			a = x0
		}
		if b > x1 {
			b = x1
		}
		n0, n1 := p.Ramp0, p.Ramp1
		q := (b - a) * (n0 + 0.5*(a+b-2*x0)*(n1-n0)/(x1-x0))
		return int(math.Ceil(q * float64(ppc) / dx))
	case Custom:
		if p.CustomFn == nil {
			return 0
		}
		q := 0.5 * (p.CustomFn(float64(lo)*dx) + p.CustomFn(float64(hi+1)*dx))
		for i := lo + 1; i <= hi; i++ {
			q += p.CustomFn(float64(i) * dx)
		}
		return int(math.Ceil(q * float64(ppc)))
	default: // Uniform
		return (hi - lo + 1) * ppc
	}
}

// InjectPositions appends particle (ix, x) pairs for cell range [lo, hi]
// (inclusive) via emit, and advances the profile's running injection state.
func (p *Profile) InjectPositions(lo, hi, ppc int, dx float64, emit func(ix int32, x float32)) {
	if ppc <= 0 {
		return
	}
	start := p.totalNpInj
	count := uint64(0)

	switch p.Kind {
	case Empty:
		// no particles

	case Step:
		poscell := CellPositions(ppc)
		startCell := float32(p.Start/dx - 0.5)
		for i := lo; i <= hi; i++ {
			for _, pc := range poscell {
				if float32(i)+pc > startCell {
					emit(int32(i), pc)
					count++
				}
			}
		}

	case Slab:
		poscell := CellPositions(ppc)
		startCell := float32(p.Start/dx - 0.5)
		endCell := float32(p.End/dx - 0.5)
		for i := lo; i <= hi; i++ {
			for _, pc := range poscell {
				xi := float32(i) + pc
				if xi > startCell && xi < endCell {
					emit(int32(i), pc)
					count++
				}
			}
		}

	case Ramp:
		count = p.injectRamp(lo, hi, ppc, dx, emit)

	case Custom:
		count = p.injectCustom(lo, hi, ppc, dx, emit)

	default: // Uniform
		poscell := CellPositions(ppc)
		for i := lo; i <= hi; i++ {
			for _, pc := range poscell {
				emit(int32(i), pc)
				count++
			}
		}
	}

	p.totalNpInj = start + count
}

// injectRamp performs the closed-form cumulative-inversion sampling for the
// Ramp profile. See spec.md §4.1: the inversion is stable as n0 -> n1
// because it avoids a division by (n1-n0).
func (p *Profile) injectRamp(lo, hi, ppc int, dx float64, emit func(ix int32, x float32)) uint64 {
	r0 := p.Start / dx
	r1 := p.End / dx

	if float64(lo) > r1 || float64(hi) < r0 {
		return 0
	}

	n0, n1 := p.Ramp0, p.Ramp1

	// Negative-start trim: shift the ramp's left edge to 0, adjusting n0 to
	// the value the same line takes at x=0. This preserves total injected
	// charge over [0, r1] rather than the original [r0, r1] interval.
	if r0 < 0 {
		n0 = n0 - r0*(n1-n0)/(r1-r0)
		r0 = 0
	}

	cpp := 1.0 / float64(ppc)
	var injected uint64

	for k := p.totalNpInj; ; k++ {
		Rs := (float64(k) + 0.5) * cpp / (r1 - r0)
		pos := 2 * Rs / (math.Sqrt(n0*n0+2*(n1-n0)*Rs) + n0)

		if pos > 1 {
			break
		}
		pos = r0 + (r1-r0)*pos
		ix := int(pos)

		if ix < lo {
			slog.Error("density: ramp injection attempted outside valid range", "ix", ix, "lo", lo)
			break
		}
		if ix > hi {
			break
		}

		emit(int32(ix), float32(pos-float64(ix)-0.5))
		injected++
	}

	return injected
}

// injectCustom performs trapezoidal cumulative accumulation across cell
// edges for the Custom profile, carrying customQInj across calls.
func (p *Profile) injectCustom(lo, hi, ppc int, dx float64, emit func(ix int32, x float32)) uint64 {
	if p.CustomFn == nil {
		return 0
	}

	cpp := 1.0 / float64(ppc)
	k := p.totalNpInj
	ix := lo

	n1 := p.CustomFn(float64(ix) * dx)
	d1 := p.customQInj

	for ix <= hi {
		n0 := n1
		n1 = p.CustomFn(float64(ix+1) * dx)

		d0 := d1
		d1 += 0.5 * (n0 + n1)

		for {
			Rs := (float64(k) + 0.5) * cpp
			if !(Rs < d1) {
				break
			}
			pos := 2 * (Rs - d0) / (math.Sqrt(n0*n0+2*(n1-n0)*(Rs-d0)) + n0)
			emit(int32(ix), float32(pos-0.5))
			k++
		}

		ix++
	}

	p.customQInj = d1
	return k - p.totalNpInj
}
