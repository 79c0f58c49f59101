// Package mgrb evolves the metagalactic radiation background produced by
// redshift-distributed source populations through an absorbing, expanding
// medium, yielding photo-ionization and photo-heating rates for a
// reionization simulation.
//
// The engine works on matched logarithmic grids in x = 1+z and photon
// energy sharing one multiplicative step R, so that a photon emitted on the
// grid lands exactly on the grid one redshift bin later (Haardt & Madau
// 1996, Appendix C). Optical depth is tabulated over the grid by
// data-parallel workers; the flux history is then produced by a strictly
// sequential backward recursion over redshift.
package mgrb

const nearzero = 1e-10

// HeliumMode selects how helium opacity enters the optical depth.
type HeliumMode int

const (
	HeliumOff    HeliumMode = iota // hydrogen only
	HeliumApprox                   // nHeI tied to nHI by the cosmic He/H ratio
	HeliumFull                     // per-species ionized fractions required
)

func (m HeliumMode) speciesTag() string {
	if m == HeliumOff {
		return "H"
	}
	return "He"
}

// RateMode selects the units of the reduced rates: per absorbing atom, or
// per unit volume (the same quantity times the absorber's neutral density).
type RateMode int

const (
	PerAtom RateMode = iota
	Volumetric
)
