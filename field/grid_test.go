package field

import "testing"

func TestNewVec3HasGuardCell(t *testing.T) {
	v := NewVec3(10)
	if len(v.X) != 11 || len(v.Y) != 11 || len(v.Z) != 11 {
		t.Fatalf("expected 11 elements (10 + guard), got X=%d Y=%d Z=%d", len(v.X), len(v.Y), len(v.Z))
	}
}

func TestChargeGridFoldGuard(t *testing.T) {
	c := NewChargeGrid(4)
	c.Rho[0] = 1.0
	c.Rho[4] = 0.5
	c.FoldGuard()
	if c.Rho[0] != 1.5 {
		t.Errorf("expected cell 0 = 1.5, got %f", c.Rho[0])
	}
	if c.Rho[4] != 1.5 {
		t.Errorf("expected guard cell mirrored to 1.5, got %f", c.Rho[4])
	}
}

func TestCurrentGridFoldGuard(t *testing.T) {
	c := NewCurrentGrid(4)
	c.J.X[0], c.J.X[4] = 1.0, 2.0
	c.FoldGuard()
	if c.J.X[0] != 3.0 || c.J.X[4] != 3.0 {
		t.Errorf("expected folded X = 3.0 at both ends, got [0]=%f [4]=%f", c.J.X[0], c.J.X[4])
	}
}

func TestWrapCellFoldsOneCellPastEitherEdge(t *testing.T) {
	cases := []struct{ i, nx, want int32 }{
		{-1, 4, 3},
		{0, 4, 0},
		{3, 4, 3},
		{4, 4, 0},
		{5, 4, 1},
	}
	for _, c := range cases {
		if got := WrapCell(c.i, c.nx); got != c.want {
			t.Errorf("WrapCell(%d, %d) = %d, want %d", c.i, c.nx, got, c.want)
		}
	}
}

func TestVec3Zero(t *testing.T) {
	v := NewVec3(3)
	for i := range v.X {
		v.X[i], v.Y[i], v.Z[i] = 1, 2, 3
	}
	v.Zero()
	for i := range v.X {
		if v.X[i] != 0 || v.Y[i] != 0 || v.Z[i] != 0 {
			t.Fatalf("Zero() left nonzero values at %d", i)
		}
	}
}
