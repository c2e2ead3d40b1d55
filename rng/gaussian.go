// Package rng provides the seedable standard-normal sampler used to draw
// thermal particle momenta.
package rng

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian draws standard-normal samples for thermal momentum
// initialization. It is not safe for concurrent use by multiple
// goroutines; each species (or worker, in a parallel injector) should own
// its own instance.
type Gaussian struct {
	dist distuv.Normal
}

// New returns a Gaussian sampler seeded deterministically from seed.
func New(seed int64) *Gaussian {
	return &Gaussian{
		dist: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.New(rand.NewSource(seed)),
		},
	}
}

// Sample draws one standard-normal value.
func (g *Gaussian) Sample() float32 {
	return float32(g.dist.Rand())
}
