package sortbuf

import (
	"math/rand"
	"testing"

	"github.com/zpic-go/species/particle"
)

func TestByCellGroupsByCell(t *testing.T) {
	buf := []particle.Particle{
		{Ix: 3, Ux: 1},
		{Ix: 0, Ux: 2},
		{Ix: 2, Ux: 3},
		{Ix: 0, Ux: 4},
		{Ix: 1, Ux: 5},
	}
	ByCell(buf, 4)

	for i := 1; i < len(buf); i++ {
		if buf[i].Ix < buf[i-1].Ix {
			t.Fatalf("not sorted: %+v", buf)
		}
	}
}

func TestByCellIsStableWithinCell(t *testing.T) {
	buf := []particle.Particle{
		{Ix: 0, Ux: 100},
		{Ix: 1, Ux: 1},
		{Ix: 0, Ux: 200},
		{Ix: 1, Ux: 2},
		{Ix: 0, Ux: 300},
	}
	ByCell(buf, 2)

	var cell0 []float32
	for _, p := range buf {
		if p.Ix == 0 {
			cell0 = append(cell0, p.Ux)
		}
	}
	want := []float32{100, 200, 300}
	for i := range want {
		if cell0[i] != want[i] {
			t.Errorf("cell 0 order mismatch: got %v, want %v", cell0, want)
		}
	}
}

func TestByCellPreservesMultiset(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 500
	buf := make([]particle.Particle, n)
	before := map[float32]int{}
	for i := range buf {
		buf[i] = particle.Particle{Ix: int32(rng.Intn(16)), Ux: float32(i)}
		before[buf[i].Ux]++
	}

	ByCell(buf, 16)

	after := map[float32]int{}
	for _, p := range buf {
		after[p.Ux]++
	}
	if len(before) != len(after) {
		t.Fatalf("multiset size changed: %d vs %d", len(before), len(after))
	}
	for k, v := range before {
		if after[k] != v {
			t.Fatalf("particle with Ux=%v lost or duplicated during sort", k)
		}
	}
}

func TestByCellIdempotent(t *testing.T) {
	buf := []particle.Particle{
		{Ix: 5}, {Ix: 1}, {Ix: 3}, {Ix: 3}, {Ix: 0}, {Ix: 7},
	}
	ByCell(buf, 8)
	first := append([]particle.Particle(nil), buf...)
	ByCell(buf, 8)
	for i := range buf {
		if buf[i] != first[i] {
			t.Fatalf("second sort pass changed an already-sorted buffer")
		}
	}
}

func TestByCellEmptyAndSingle(t *testing.T) {
	var empty []particle.Particle
	ByCell(empty, 4) // must not panic

	single := []particle.Particle{{Ix: 2}}
	ByCell(single, 4)
	if single[0].Ix != 2 {
		t.Fatal("single-element sort mutated the particle")
	}
}
