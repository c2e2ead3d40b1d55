package species

import (
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/zpic-go/species/field"
	"github.com/zpic-go/species/sortbuf"
)

// workerScratch holds one goroutine's private deposition grids, so
// AdvanceParallel's push loop needs no per-cell locking: each worker
// accumulates into its own rho/J and the results are merged afterward.
type workerScratch struct {
	rho *field.ChargeGrid
	j   *field.CurrentGrid
}

// parallelState caches the worker pool's scratch grids across calls,
// following the teacher's parallelState/workerScratch split in
// game/parallel.go: reuse, don't reallocate, every step.
type parallelState struct {
	scratch []workerScratch
}

func (s *Species) ensureParallel(nx int) *parallelState {
	if s.parallel != nil && len(s.parallel.scratch) == runtime.GOMAXPROCS(0) {
		return s.parallel
	}
	n := runtime.GOMAXPROCS(0)
	ps := &parallelState{scratch: make([]workerScratch, n)}
	for i := range ps.scratch {
		ps.scratch[i] = workerScratch{
			rho: field.NewChargeGrid(nx),
			j:   field.NewCurrentGrid(nx),
		}
	}
	s.parallel = ps
	return ps
}

// AdvanceParallel is a data-parallel variant of Advance: the particle
// buffer is split into contiguous chunks, one per worker goroutine, each
// depositing into private scratch grids, which are then merged into rho
// and j using gonum's blas32 vector ops. The per-particle Boris push and
// boundary wrap are identical to Advance; only the deposition target and
// merge step differ. Periodic sort still runs single-threaded afterward,
// matching spec_advance's own ordering (push everything, then sort once).
func (s *Species) AdvanceParallel(f *field.EMFields, rho *field.ChargeGrid, j *field.CurrentGrid) {
	s.checkOpen()

	t0 := time.Now()

	ps := s.ensureParallel(s.cfg.Nx)
	numWorkers := len(ps.scratch)

	buf := s.buf.Slice()
	n := len(buf)
	if n == 0 {
		s.iter++
		return
	}

	for _, w := range ps.scratch {
		w.rho.Zero()
		w.j.Zero()
	}

	tem := 0.5 * s.cfg.Dt / s.mq
	dtDx := s.cfg.Dt / s.dx
	nx0 := int32(s.cfg.Nx)

	chunk := (n + numWorkers - 1) / numWorkers
	energies := make([]float64, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(workerID, lo, hi int) {
			defer wg.Done()
			scratch := &ps.scratch[workerID]
			energies[workerID] = pushRange(buf[lo:hi], f, scratch.rho, scratch.j, s.q, tem, dtDx, nx0)
		}(w, start, end)
	}
	wg.Wait()

	var totalEnergy float64
	for _, e := range energies {
		totalEnergy += e
	}
	s.energy = s.q * s.mq * totalEnergy * float64(s.dx)
	s.iter++

	mergeCharge(rho, ps.scratch)
	mergeCurrent(j, ps.scratch)

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

	s.counters.Add(uint64(n), time.Since(t0))
}

// mergeCharge sums every worker's private charge grid into dst using
// blas32.Axpy, grounded on systems/simd_bench_test.go's blas32 flow-blend
// benchmark.
func mergeCharge(dst *field.ChargeGrid, scratch []workerScratch) {
	dstVec := blas32.Vector{N: len(dst.Rho), Inc: 1, Data: dst.Rho}
	for _, w := range scratch {
		src := blas32.Vector{N: len(w.rho.Rho), Inc: 1, Data: w.rho.Rho}
		blas32.Axpy(1, src, dstVec)
	}
}

// mergeCurrent sums every worker's private current grid into dst,
// component by component.
func mergeCurrent(dst *field.CurrentGrid, scratch []workerScratch) {
	mergeComponent(dst.J.X, scratch, func(w workerScratch) []float32 { return w.j.J.X })
	mergeComponent(dst.J.Y, scratch, func(w workerScratch) []float32 { return w.j.J.Y })
	mergeComponent(dst.J.Z, scratch, func(w workerScratch) []float32 { return w.j.J.Z })
}

func mergeComponent(dst []float32, scratch []workerScratch, pick func(workerScratch) []float32) {
	dstVec := blas32.Vector{N: len(dst), Inc: 1, Data: dst}
	for _, w := range scratch {
		src := pick(w)
		blas32.Axpy(1, blas32.Vector{N: len(src), Inc: 1, Data: src}, dstVec)
	}
}
