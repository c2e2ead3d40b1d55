package diag

// Sample is one particle's four candidate phase-space axis values,
// precomputed by the caller (species.DepositPha) so this package stays
// decoupled from the particle representation.
type Sample struct {
	X1, U1, U2, U3 float32
}

func (s Sample) axis(a Axis) float32 {
	switch a {
	case U1:
		return s.U1
	case U2:
		return s.U2
	case U3:
		return s.U3
	default:
		return s.X1
	}
}

// chunkSize matches the reference implementation's BUF_SIZE: samples are
// processed in fixed-size batches purely as a texture/performance detail
// inherited from the C axis-extraction buffers; Go doesn't need the
// batching for correctness but the chunking is kept so large reports
// don't pin one huge temporary slice.
const chunkSize = 1024

// Histogram deposits samples into buf (row-major, nx[0] columns by nx[1]
// rows) using cloud-in-cell bilinear weighting, matching
// spec_deposit_pha exactly including its truncation-toward-zero rounding
// for the bin index (int)(nx+0.5f), which differs from round-to-nearest
// for negative nx.
func Histogram(rt ReportType, nx [2]int, rng [2][2]float32, samples []Sample, q float32, buf []float32) {
	a, b := rt.Axes()

	nrow := nx[0]
	x1min, x2min := rng[0][0], rng[1][0]
	rdx1 := float32(nx[0]) / (rng[0][1] - rng[0][0])
	rdx2 := float32(nx[1]) / (rng[1][1] - rng[1][0])

	for start := 0; start < len(samples); start += chunkSize {
		end := start + chunkSize
		if end > len(samples) {
			end = len(samples)
		}

		for _, s := range samples[start:end] {
			nx1 := (s.axis(a) - x1min) * rdx1
			nx2 := (s.axis(b) - x2min) * rdx2

			i1 := truncC(nx1 + 0.5)
			i2 := truncC(nx2 + 0.5)

			w1 := nx1 - float32(i1) + 0.5
			w2 := nx2 - float32(i2) + 0.5

			idx := i1 + nrow*i2

			if i2 >= 0 && i2 < nx[1] {
				if i1 >= 0 && i1 < nx[0] {
					buf[idx] += (1 - w1) * (1 - w2) * q
				}
				if i1+1 >= 0 && i1+1 < nx[0] {
					buf[idx+1] += w1 * (1 - w2) * q
				}
			}

			idx += nrow
			if i2+1 >= 0 && i2+1 < nx[1] {
				if i1 >= 0 && i1 < nx[0] {
					buf[idx] += (1 - w1) * w2 * q
				}
				if i1+1 >= 0 && i1+1 < nx[0] {
					buf[idx+1] += w1 * w2 * q
				}
			}
		}
	}
}

// truncC replicates C's (int) cast from float: truncation toward zero,
// not round-to-nearest or floor. For x >= 0 this equals int(x); for
// negative x Go's int() conversion already truncates toward zero just
// like C, so this is a thin, explicitly-named wrapper documenting that
// the rounding semantics here are load-bearing (spec's Open Question on
// negative-bin truncation).
func truncC(x float32) int {
	return int(x)
}
