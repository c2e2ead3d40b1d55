// Package field holds the grid types a species reads fields from and
// deposits charge/current into. Grids carry a guard cell at the upper
// boundary so field interpolation never needs a boundary branch in the
// hot loop. Deposition indices are folded back into range per-particle
// with WrapCell, since a particle's deposition target can land one cell
// outside [0, nx) before its own cell index is periodically wrapped;
// ChargeGrid/CurrentGrid's FoldGuard offers an alternative fold-after-
// the-fact path for callers that deposit directly into the guard cell.
package field

// Vec3 holds the scalar grid backing one 3-component field (E, B, or J).
type Vec3 struct {
	X, Y, Z []float32
}

// NewVec3 allocates a 3-component grid with nx cells plus one upper guard
// cell, matching the layout spec_deposit_charge and deposit_current expect.
func NewVec3(nx int) Vec3 {
	return Vec3{
		X: make([]float32, nx+1),
		Y: make([]float32, nx+1),
		Z: make([]float32, nx+1),
	}
}

// WrapCell folds a pre-wrap deposition index back into the periodic domain
// [0, nx). A single push step can carry a particle's deposition index one
// cell past either edge before the particle's own Ix field is wrapped
// (current is deposited at a shifted half-step midpoint, charge at the
// shifted end-of-step position), so i only ever needs at most one fold in
// either direction.
func WrapCell(i, nx int32) int32 {
	switch {
	case i < 0:
		return i + nx
	case i >= nx:
		return i - nx
	default:
		return i
	}
}

// Zero clears all three components.
func (v Vec3) Zero() {
	for i := range v.X {
		v.X[i] = 0
		v.Y[i] = 0
		v.Z[i] = 0
	}
}

// EMFields is the E/B field pair particles interpolate from. Fields are
// expected to be defined at the lower boundary of each cell (cell-centered
// in cell-index space, not staggered Yee components) — the species package
// treats both as already-collocated per the spec's linear-interpolation
// contract.
type EMFields struct {
	E, B Vec3
}

// NewEMFields allocates field grids for a box of nx cells.
func NewEMFields(nx int) *EMFields {
	return &EMFields{E: NewVec3(nx), B: NewVec3(nx)}
}

// ChargeGrid is the scalar charge density grid species deposit into
// during Advance.
type ChargeGrid struct {
	Rho []float32
}

// NewChargeGrid allocates a charge grid with nx cells plus one upper guard
// cell.
func NewChargeGrid(nx int) *ChargeGrid {
	return &ChargeGrid{Rho: make([]float32, nx+1)}
}

// Zero clears the grid.
func (c *ChargeGrid) Zero() {
	for i := range c.Rho {
		c.Rho[i] = 0
	}
}

// FoldGuard adds the upper guard cell's accumulated deposit back into cell
// 0, implementing the periodic boundary for a deposited scalar quantity,
// and mirrors the folded value back into the guard cell. It is for grids
// deposited directly into the guard cell and is called once per pass,
// after all particles have been deposited; Species.Advance wraps its
// deposition indices with WrapCell and leaves the guard cell untouched.
func (c *ChargeGrid) FoldGuard() {
	nx := len(c.Rho) - 1
	c.Rho[0] += c.Rho[nx]
	c.Rho[nx] = c.Rho[0]
}

// EField is the scalar electric field grid the electrostatic (es1d)
// species variant interpolates from; unlike the em1ds EMFields, es1d has
// no magnetic field and no current deposition.
type EField struct {
	E []float32
}

// NewEField allocates a scalar field grid with nx cells plus one upper
// guard cell.
func NewEField(nx int) *EField {
	return &EField{E: make([]float32, nx+1)}
}

// Zero clears the grid.
func (e *EField) Zero() {
	for i := range e.E {
		e.E[i] = 0
	}
}

// CurrentGrid is the 3-component current density grid species deposit
// into during Advance.
type CurrentGrid struct {
	J Vec3
}

// NewCurrentGrid allocates a current grid with nx cells plus one upper
// guard cell.
func NewCurrentGrid(nx int) *CurrentGrid {
	return &CurrentGrid{J: NewVec3(nx)}
}

// Zero clears the grid.
func (c *CurrentGrid) Zero() { c.J.Zero() }

// FoldGuard folds the upper guard cell back into cell 0 for all three
// current components, implementing the periodic boundary.
func (c *CurrentGrid) FoldGuard() {
	nx := len(c.J.X) - 1
	c.J.X[0] += c.J.X[nx]
	c.J.Y[0] += c.J.Y[nx]
	c.J.Z[0] += c.J.Z[nx]
	c.J.X[nx] = c.J.X[0]
	c.J.Y[nx] = c.J.Y[0]
	c.J.Z[nx] = c.J.Z[0]
}
