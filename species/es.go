package species

import (
	"fmt"
	"time"

	"github.com/zpic-go/species/density"
	"github.com/zpic-go/species/field"
	"github.com/zpic-go/species/particle"
	"github.com/zpic-go/species/perf"
	"github.com/zpic-go/species/rng"
	"github.com/zpic-go/species/sortbuf"
)

// ESConfig describes one electrostatic (es1d) particle species: same
// grid/density machinery as the electromagnetic Config, but with a
// scalar fluid/thermal velocity instead of a 3-vector momentum.
type ESConfig struct {
	Name string

	MQ  float32
	PPC int

	Nx  int
	Box float32
	Dt  float32

	Vfl, Vth float32

	Density density.Profile
	NSort   int
	Seed    int64
}

func (c *ESConfig) normalize() {
	if c.NSort == 0 {
		c.NSort = 16
	}
	if c.Density.N == 0 {
		c.Density.N = 1
	}
}

func (c *ESConfig) charge() float32 {
	q := float32(1) / float32(c.PPC)
	if c.MQ < 0 {
		q = -q
	}
	n := float32(c.Density.N)
	if n < 0 {
		n = -n
	}
	return q * n
}

// ESSpecies is the electrostatic (es1d) generalization of Species: a
// non-relativistic leap-frog push driven by a scalar field, with no
// magnetic rotation and no current deposition — only charge deposition
// at the advanced position. The injection, buffer, and sort machinery is
// shared with the electromagnetic variant via the density/particle/
// sortbuf packages.
type ESSpecies struct {
	cfg ESConfig

	q  float32
	mq float32
	dx float32

	buf *particle.Buffer[particle.ParticleES]

	density density.Profile
	gauss   *rng.Gaussian

	iter   uint64
	energy float64

	counters perf.Counters

	closed bool
}

// NewES constructs an ESSpecies and injects its initial particle
// distribution over the full box.
func NewES(cfg ESConfig) (*ESSpecies, error) {
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

	s := &ESSpecies{
		cfg:     cfg,
		q:       cfg.charge(),
		mq:      cfg.MQ,
		dx:      cfg.Box / float32(cfg.Nx),
		buf:     particle.NewBuffer[particle.ParticleES](0),
		density: cfg.Density,
		gauss:   rng.New(cfg.Seed),
	}

	s.Inject(0, cfg.Nx-1)

	return s, nil
}

// Close marks the species unusable, like Species.Close.
func (s *ESSpecies) Close() {
	s.checkOpen()
	s.closed = true
	s.buf = nil
}

func (s *ESSpecies) checkOpen() {
	if s.closed {
		panic("species: use of ESSpecies after Close")
	}
}

// Len returns the current number of live particles.
func (s *ESSpecies) Len() int {
	s.checkOpen()
	return s.buf.Len()
}

// GrowBuffer ensures the backing particle buffer can hold at least size
// particles without reallocating.
func (s *ESSpecies) GrowBuffer(size int) {
	s.checkOpen()
	s.buf.Grow(size)
}

// Inject seeds new particles into cell range [lo, hi] from the species'
// density profile and draws their thermal/fluid velocity.
func (s *ESSpecies) Inject(lo, hi int) {
	s.checkOpen()

	start := s.buf.Len()
	predicted := s.density.PredictCount(lo, hi, s.cfg.PPC, float64(s.dx))
	s.buf.Grow(start + predicted)

	s.density.InjectPositions(lo, hi, s.cfg.PPC, float64(s.dx), func(ix int32, x float32) {
		s.buf.Append(particle.ParticleES{Ix: ix, X: x})
	})

	s.setVelocity(start, s.buf.Len())
}

// setVelocity draws thermal velocity for particles in [start, end) and
// subtracts each cell's net thermal velocity before adding the fluid
// component, the scalar-velocity analog of spec_set_u's noise reduction.
func (s *ESSpecies) setVelocity(start, end int) {
	if end <= start {
		return
	}

	buf := s.buf.Slice()
	for i := start; i < end; i++ {
		buf[i].Vx = s.cfg.Vth * s.gauss.Sample()
	}

	sums := make(map[int32]float32)
	counts := make(map[int32]int)
	for i := start; i < end; i++ {
		sums[buf[i].Ix] += buf[i].Vx
		counts[buf[i].Ix]++
	}
	means := make(map[int32]float32, len(sums))
	for ix, sum := range sums {
		means[ix] = sum / float32(counts[ix])
	}

	for i := start; i < end; i++ {
		p := &buf[i]
		p.Vx += s.cfg.Vfl - means[p.Ix]
	}
}

// Advance pushes every particle one time step using a non-relativistic
// leap-frog scheme: the scalar field accelerates the particle's velocity
// directly (no magnetic rotation), the particle moves, and charge is
// deposited at the new position. Matches the es1d spec_advance contract:
// time-centered kinetic energy accumulation, periodic wrap, periodic sort.
func (s *ESSpecies) Advance(f *field.EField, rho *field.ChargeGrid) {
	s.checkOpen()

	t0 := time.Now()

	accel := s.cfg.Dt / s.mq
	dtDx := s.cfg.Dt / s.dx
	nx0 := int32(s.cfg.Nx)

	buf := s.buf.Slice()
	var energy float64

	for i := range buf {
		p := &buf[i]

		ix := p.Ix
		s0 := 0.5 - p.X
		s1 := 0.5 + p.X

		ep := f.E[ix]*s0 + f.E[ix+1]*s1

		vx := p.Vx + accel*ep
		energy += float64(vx) * float64(vx)

		p.Vx = vx

		x1 := p.X + dtDx*vx
		di := ltrim(x1)

		p.X = x1 - float32(di)
		p.Ix = ix + di

		rs0 := 0.5 - p.X
		rs1 := 0.5 + p.X
		ri0 := field.WrapCell(p.Ix, nx0)
		ri1 := field.WrapCell(p.Ix+1, nx0)
		rho.Rho[ri0] += rs0 * s.q
		rho.Rho[ri1] += rs1 * s.q
	}

	s.energy = 0.5 * s.q * s.mq * energy * float64(s.dx)
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

// DepositCharge deposits the species' current charge density into out,
// which must have at least Nx+1 elements.
func (s *ESSpecies) DepositCharge(out []float32) {
	s.checkOpen()
	for _, p := range s.buf.Slice() {
		i := p.Ix
		s0 := 0.5 - p.X
		s1 := 0.5 + p.X
		out[i] += s0 * s.q
		out[i+1] += s1 * s.q
	}
}

// NPush returns the total number of particle pushes this species has
// performed.
func (s *ESSpecies) NPush() uint64 { return s.counters.NPush() }

// PushTime returns the total wall-clock time spent in Advance.
func (s *ESSpecies) PushTime() time.Duration { return s.counters.PushTime() }

// Perf returns the average time per particle push, or -1 if no particle
// has been pushed yet.
func (s *ESSpecies) Perf() time.Duration { return s.counters.Perf() }
