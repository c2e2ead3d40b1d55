// Package sortbuf implements the cache-coherence sort a species runs on
// its particle buffer every n_sort iterations: a counting sort by cell
// index followed by an in-place cyclic permutation, so no second buffer
// the size of the particle array is ever allocated.
package sortbuf

import "github.com/zpic-go/species/particle"

// ByCell reorders buf in place so particles are grouped by increasing
// cell index, for cell indices in [0, ncell). It is a stable counting
// sort: particles within the same cell keep their relative order.
//
// Grounded directly on spec_sort (em1ds/particles.c): build a per-particle
// target index via a running per-cell offset (counting sort), then realize
// the permutation with an in-place cyclic-swap pass that visits each cycle
// exactly once by marking visited slots with -1.
func ByCell[T particle.Cellular](buf []T, ncell int) {
	n := len(buf)
	if n == 0 {
		return
	}

	idx := make([]int, n)
	npic := make([]int, ncell)

	for i, p := range buf {
		c := int(p.Cell())
		idx[i] = c
		npic[c]++
	}

	isum := 0
	for i := 0; i < ncell; i++ {
		j := npic[i]
		npic[i] = isum
		isum += j
	}

	for i := 0; i < n; i++ {
		j := idx[i]
		idx[i] = npic[j]
		npic[j]++
	}

	// In-place realization of the permutation described by idx: idx[i] is
	// the final slot for the particle currently at i. Follow each cycle
	// forward, marking each slot -1 once placed so it's never revisited.
	for i := 0; i < n; i++ {
		k := idx[i]
		for k > i {
			buf[k], buf[i] = buf[i], buf[k]
			t := idx[k]
			idx[k] = -1
			k = t
		}
	}
}
