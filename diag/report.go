// Package diag implements the species diagnostic reports: packed report
// type codes, 2-D phase-space histogram deposition with CIC weighting, and
// sink types particle/grid data can be written to.
package diag

// Axis identifies a phase-space axis quantity.
type Axis uint32

const (
	X1 Axis = iota + 1
	U1
	U2
	U3
)

// ReportType packs a diagnostic kind and, for phase-space reports, its two
// axes into a single integer the way the reference implementation's
// REPORT/PHASESPACE macros do: the high nibble group selects CHARGE / PHA
// / PARTICLES, and for PHA the low byte packs axis1 in bits 0-3 and axis2
// in bits 4-7.
type ReportType uint32

const (
	kindCharge    ReportType = 0x1000
	kindPha       ReportType = 0x2000
	kindParticles ReportType = 0x3000
	kindMask      ReportType = 0xF000
)

// Charge requests a charge-density report.
func Charge() ReportType { return kindCharge }

// Particles requests a raw particle-dump report.
func Particles() ReportType { return kindParticles }

// PhaseSpaceKind is the report kind shared by every PhaseSpace(a, b)
// ReportType, for dispatch via Kind().
func PhaseSpaceKind() ReportType { return kindPha }

// PhaseSpace requests a 2-D phase-space histogram report over axes a, b.
func PhaseSpace(a, b Axis) ReportType {
	return kindPha | ReportType(a) | ReportType(b)<<4
}

// Kind reports whether this is a charge, phase-space, or particle report.
func (r ReportType) Kind() ReportType { return r & kindMask }

// IsPhaseSpace reports whether r was built with PhaseSpace.
func (r ReportType) IsPhaseSpace() bool { return r.Kind() == kindPha }

// Axes decodes the two phase-space axes packed into r. Only meaningful
// when IsPhaseSpace() is true.
func (r ReportType) Axes() (a, b Axis) {
	return Axis(r & 0x000F), Axis((r & 0x00F0) >> 4)
}

// Units mirrors spec_pha_axis_units: positions are in c/omega_p,
// momenta in m_e*c.
func (a Axis) Units() string {
	if a == X1 {
		return "c/\\omega_p"
	}
	return "m_e c"
}
