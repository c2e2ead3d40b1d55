package species

import "github.com/zpic-go/species/density"

// Config describes one particle species: its mass-to-charge ratio, grid
// geometry, initial fluid/thermal momentum, and seeding density profile.
type Config struct {
	Name string

	// MQ is the mass-to-charge ratio m_q; the per-particle charge is
	// copysign(1, MQ) * |N| / ppc, matching spec_new.
	MQ  float32
	PPC int

	Nx  int
	Box float32
	Dt  float32

	// Ufl/Uth are the initial fluid and thermal momentum components
	// (ux, uy, uz). A zero Config gives cold, stationary particles.
	Ufl, Uth [3]float32

	// Density selects the seeding profile. The zero value is Uniform
	// with N=1.
	Density density.Profile

	// NSort is the particle-buffer re-sort interval in iterations; 0
	// disables periodic sorting. Defaults to 16, matching spec_new.
	NSort int

	// Seed drives the thermal-momentum Gaussian sampler.
	Seed int64
}

func (c *Config) normalize() {
	if c.NSort == 0 {
		c.NSort = 16
	}
	if c.Density.N == 0 {
		c.Density.N = 1
	}
}

// charge returns the per-particle charge: sign(MQ) * |density.N| / ppc,
// matching spec_new's `q = copysign(1.0f, m_q) / npc` followed by the
// density-multiplier scaling `q *= fabsf(density.n)`.
func (c *Config) charge() float32 {
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
