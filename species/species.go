// Package species implements one electromagnetic particle species for a
// 1-D PIC simulation: macroparticle injection from a density profile,
// relativistic Boris advance with charge/current deposition, periodic
// boundary wrap, and periodic buffer re-sort for cache locality.
package species

import (
	"fmt"
	"math"
	"time"

	"github.com/zpic-go/species/density"
	"github.com/zpic-go/species/field"
	"github.com/zpic-go/species/particle"
	"github.com/zpic-go/species/perf"
	"github.com/zpic-go/species/rng"
	"github.com/zpic-go/species/sortbuf"
)

// Species is one electromagnetic particle species. The zero value is not
// usable; construct with New.
type Species struct {
	cfg Config

	q  float32
	mq float32
	dx float32

	buf *particle.Buffer[particle.Particle]

	density density.Profile
	gauss   *rng.Gaussian

	iter   uint64
	energy float64

	counters perf.Counters

	parallel *parallelState

	closed bool
}

// New constructs a Species and injects its initial particle distribution
// over the full box, matching spec_new's unconditional range={0, nx-1}
// injection at construction time.
func New(cfg Config) (*Species, error) {
	if cfg.Nx <= 0 {
		return nil, fmt.Errorf("species: Nx must be positive, got %d", cfg.Nx)
	}
	if cfg.PPC <= 0 {
		return nil, fmt.Errorf("species: PPC must be positive, got %d", cfg.PPC)
	}
	if cfg.Box <= 0 {
		return nil, fmt.Errorf("species: Box must be positive, got %v", cfg.Box)
	}
	cfg.normalize()

	s := &Species{
		cfg:     cfg,
		q:       cfg.charge(),
		mq:      cfg.MQ,
		dx:      cfg.Box / float32(cfg.Nx),
		buf:     particle.NewBuffer[particle.Particle](0),
		density: cfg.Density,
		gauss:   rng.New(cfg.Seed),
	}

	s.Inject(0, cfg.Nx-1)

	return s, nil
}

// Close marks the species unusable. Any method called after Close panics,
// except NPush, PushTime and Perf, which keep reporting the counters;
// this replaces the reference implementation's np=-1 sentinel with a handle
// that is unusable by construction.
func (s *Species) Close() {
	s.checkOpen()
	s.closed = true
	s.buf = nil
}

func (s *Species) checkOpen() {
	if s.closed {
		panic("species: use of Species after Close")
	}
}

// Len returns the current number of live particles.
func (s *Species) Len() int {
	s.checkOpen()
	return s.buf.Len()
}

// Name returns the species' configured name.
func (s *Species) Name() string {
	s.checkOpen()
	return s.cfg.Name
}

// GrowBuffer ensures the backing particle buffer can hold at least size
// particles without reallocating, matching spec_grow_buffer.
func (s *Species) GrowBuffer(size int) {
	s.checkOpen()
	s.buf.Grow(size)
}

// Inject seeds new particles into cell range [lo, hi] (inclusive) from the
// species' density profile, pre-growing the buffer, then draws their
// thermal/fluid momentum. Matches spec_inject_particles.
func (s *Species) Inject(lo, hi int) {
	s.checkOpen()

	start := s.buf.Len()
	predicted := s.density.PredictCount(lo, hi, s.cfg.PPC, float64(s.dx))
	s.buf.Grow(start + predicted)

	s.density.InjectPositions(lo, hi, s.cfg.PPC, float64(s.dx), func(ix int32, x float32) {
		s.buf.Append(particle.Particle{Ix: ix, X: x})
	})

	s.setMomentum(start, s.buf.Len())
}

// setMomentum draws thermal momentum for particles in [start, end) and
// subtracts each cell's net thermal momentum before adding the fluid
// component, matching spec_set_u's two-pass noise-reduction scheme.
func (s *Species) setMomentum(start, end int) {
	if end <= start {
		return
	}

	buf := s.buf.Slice()
	for i := start; i < end; i++ {
		p := &buf[i]
		p.Ux = s.cfg.Uth[0] * s.gauss.Sample()
		p.Uy = s.cfg.Uth[1] * s.gauss.Sample()
		p.Uz = s.cfg.Uth[2] * s.gauss.Sample()
	}

	type accum struct {
		x, y, z float32
		n       int
	}
	net := make(map[int32]*accum)
	for i := start; i < end; i++ {
		p := buf[i]
		a := net[p.Ix]
		if a == nil {
			a = &accum{}
			net[p.Ix] = a
		}
		a.x += p.Ux
		a.y += p.Uy
		a.z += p.Uz
		a.n++
	}
	for _, a := range net {
		if a.n > 0 {
			norm := 1.0 / float32(a.n)
			a.x *= norm
			a.y *= norm
			a.z *= norm
		}
	}

	for i := start; i < end; i++ {
		p := &buf[i]
		a := net[p.Ix]
		p.Ux += s.cfg.Ufl[0] - a.x
		p.Uy += s.cfg.Ufl[1] - a.y
		p.Uz += s.cfg.Ufl[2] - a.z
	}
}

// ltrim returns how many whole cells x has crossed, in {-1, 0, 1}; x is at
// most one cell away from its cell's center by construction of the push.
func ltrim(x float32) int32 {
	var hi, lo int32
	if x >= 0.5 {
		hi = 1
	}
	if x < -0.5 {
		lo = 1
	}
	return hi - lo
}

// Advance pushes every particle one time step using the relativistic
// Boris scheme, interpolating E/B from f, depositing current into j at
// the trajectory midpoint and charge into rho at the endpoint, applies
// periodic boundary wrap, and re-sorts the buffer every NSort iterations.
// Matches spec_advance.
func (s *Species) Advance(f *field.EMFields, rho *field.ChargeGrid, j *field.CurrentGrid) {
	s.checkOpen()

	t0 := time.Now()

	tem := 0.5 * s.cfg.Dt / s.mq
	dtDx := s.cfg.Dt / s.dx
	nx0 := int32(s.cfg.Nx)

	buf := s.buf.Slice()

	energy := pushRange(buf, f, rho, j, s.q, tem, dtDx, nx0)

	s.energy = s.q * s.mq * energy * float64(s.dx)
	s.iter++

	for i := range buf {
		if buf[i].Ix < 0 {
			buf[i].Ix += nx0
		} else if buf[i].Ix >= nx0 {
			buf[i].Ix -= nx0
		}
	}

	if s.cfg.NSort > 0 && s.iter%uint64(s.cfg.NSort) == 0 {
		sortbuf.ByCell(buf, s.cfg.Nx)
	}

	s.counters.Add(uint64(len(buf)), time.Since(t0))
}

// pushRange advances buf in place using the relativistic Boris scheme,
// depositing current and charge into j/rho, and returns the accumulated
// time-centered kinetic energy term (before the q*m_q*dx scaling Advance
// applies). Factored out of Advance so AdvanceParallel's workers can run
// it independently over disjoint slices into private scratch grids.
func pushRange(buf []particle.Particle, f *field.EMFields, rho *field.ChargeGrid, j *field.CurrentGrid, q, tem, dtDx float32, nx int32) float64 {
	var energy float64

	for i := range buf {
		p := &buf[i]

		ix := p.Ix
		s0 := 0.5 - p.X
		s1 := 0.5 + p.X

		epx := f.E.X[ix]*s0 + f.E.X[ix+1]*s1
		epy := f.E.Y[ix]*s0 + f.E.Y[ix+1]*s1
		epz := f.E.Z[ix]*s0 + f.E.Z[ix+1]*s1
		bpx := f.B.X[ix]*s0 + f.B.X[ix+1]*s1
		bpy := f.B.Y[ix]*s0 + f.B.Y[ix+1]*s1
		bpz := f.B.Z[ix]*s0 + f.B.Z[ix+1]*s1

		epx *= tem
		epy *= tem
		epz *= tem

		utx := p.Ux + epx
		uty := p.Uy + epy
		utz := p.Uz + epz

		u2 := utx*utx + uty*uty + utz*utz
		gamma := sqrt32(1 + u2)

		energy += float64(u2) / float64(1+gamma)

		gtem := tem / gamma
		bpx *= gtem
		bpy *= gtem
		bpz *= gtem

		otsq := 2.0 / (1.0 + bpx*bpx + bpy*bpy + bpz*bpz)

		ux := utx + uty*bpz - utz*bpy
		uy := uty + utz*bpx - utx*bpz
		uz := utz + utx*bpy - uty*bpx

		bpx *= otsq
		bpy *= otsq
		bpz *= otsq

		utx += uy*bpz - uz*bpy
		uty += uz*bpx - ux*bpz
		utz += ux*bpy - uy*bpx

		ux = utx + epx
		uy = uty + epy
		uz = utz + epz

		p.Ux, p.Uy, p.Uz = ux, uy, uz

		rg := 1.0 / sqrt32(1+ux*ux+uy*uy+uz*uz)
		dx := dtDx * rg * ux

		depositCurrent(j, *p, q, rg, dx, nx)

		x1 := p.X + dx
		di := ltrim(x1)

		p.X = x1 - float32(di)
		p.Ix = ix + di

		depositCharge(rho, *p, q, nx)
	}

	return energy
}

// depositCurrent deposits one particle's current at the time-centered
// position (offset half a cell-crossing step from its cell), matching
// deposit_current. i/i+1 are folded through field.WrapCell since the
// half-step offset can carry the deposition index one cell past either
// edge of the domain before the particle's own Ix field is wrapped.
func depositCurrent(j *field.CurrentGrid, p particle.Particle, q, rg, dx float32, nx int32) {
	i := p.Ix
	x := p.X + 0.5*dx

	di := ltrim(x)
	i += di
	x -= float32(di)

	s0 := 0.5 - x
	s1 := 0.5 + x

	jx := q * p.Ux * rg
	jy := q * p.Uy * rg
	jz := q * p.Uz * rg

	i0 := field.WrapCell(i, nx)
	i1 := field.WrapCell(i+1, nx)

	j.J.X[i0] += s0 * jx
	j.J.Y[i0] += s0 * jy
	j.J.Z[i0] += s0 * jz
	j.J.X[i1] += s1 * jx
	j.J.Y[i1] += s1 * jy
	j.J.Z[i1] += s1 * jz
}

// depositCharge deposits one particle's charge at its (already advanced,
// still pre-wrap) position, matching deposit_charge. i/i+1 are folded
// through field.WrapCell so a particle that just crossed cell 0 or cell
// nx-1 still deposits into real cells instead of indexing out of bounds.
func depositCharge(rho *field.ChargeGrid, p particle.Particle, q float32, nx int32) {
	i := p.Ix
	s0 := 0.5 - p.X
	s1 := 0.5 + p.X

	i0 := field.WrapCell(i, nx)
	i1 := field.WrapCell(i+1, nx)

	rho.Rho[i0] += s0 * q
	rho.Rho[i1] += s1 * q
}

// DepositCharge deposits the species' current charge density into out,
// which must have at least Nx+1 elements (the last being the upper guard
// cell). Used for diagnostics only; matches spec_deposit_charge.
func (s *Species) DepositCharge(out []float32) {
	s.checkOpen()
	for _, p := range s.buf.Slice() {
		i := p.Ix
		s0 := 0.5 - p.X
		s1 := 0.5 + p.X
		out[i] += s0 * s.q
		out[i+1] += s1 * s.q
	}
}

// Energy returns the time-centered kinetic energy accumulated by the most
// recent Advance call.
func (s *Species) Energy() float64 {
	s.checkOpen()
	return s.energy
}

// Iter returns the number of completed Advance calls.
func (s *Species) Iter() uint64 {
	s.checkOpen()
	return s.iter
}

// NPush returns the total number of particle pushes this species has
// performed.
func (s *Species) NPush() uint64 { return s.counters.NPush() }

// PushTime returns the total wall-clock time spent in Advance for this
// species.
func (s *Species) PushTime() time.Duration { return s.counters.PushTime() }

// Perf returns the average time per particle push, or -1 if no particle
// has been pushed yet.
func (s *Species) Perf() time.Duration { return s.counters.Perf() }

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
