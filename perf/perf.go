// Package perf tracks process-wide particle push performance counters,
// mirroring the reference implementation's global _spec_npush/_spec_time
// accumulators but made concurrency-safe via sync/atomic instead of
// relying on single-threaded accumulation.
package perf

import (
	"sync/atomic"
	"time"
)

// Counters accumulates push counts and elapsed push time across any number
// of species and goroutines. The zero value is ready to use.
type Counters struct {
	npush   uint64
	nanos   uint64
	hasPush uint32
}

// Global is a process-wide counter set, analogous to the reference
// implementation's static _spec_npush/_spec_time globals. Species keep
// their own Counters and do not add to Global.
var Global Counters

// Add records that n particles were pushed in elapsed wall time d.
func (c *Counters) Add(n uint64, d time.Duration) {
	atomic.AddUint64(&c.npush, n)
	atomic.AddUint64(&c.nanos, uint64(d.Nanoseconds()))
	atomic.StoreUint32(&c.hasPush, 1)
}

// NPush returns the total number of particle pushes recorded.
func (c *Counters) NPush() uint64 {
	return atomic.LoadUint64(&c.npush)
}

// PushTime returns the total wall-clock time spent pushing particles.
func (c *Counters) PushTime() time.Duration {
	return time.Duration(atomic.LoadUint64(&c.nanos))
}

// Perf returns the average time per particle push, or -1 if nothing has
// been pushed yet.
func (c *Counters) Perf() time.Duration {
	if atomic.LoadUint32(&c.hasPush) == 0 {
		return -1
	}
	n := c.NPush()
	if n == 0 {
		return -1
	}
	return c.PushTime() / time.Duration(n)
}

// Reset zeroes the counters. Intended for test isolation and benchmark
// harnesses, not for use during a live simulation.
func (c *Counters) Reset() {
	atomic.StoreUint64(&c.npush, 0)
	atomic.StoreUint64(&c.nanos, 0)
	atomic.StoreUint32(&c.hasPush, 0)
}
