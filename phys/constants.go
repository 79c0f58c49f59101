// Package phys holds physical constants and atomic data for the radiation
// background calculation: photo-ionization cross-sections, Lyman-series
// energies and the recycling fractions of Lyman-n photons.
package phys

// cgs units throughout
const (
	C        = 2.99792458e10 // speed of light [cm/s]
	G        = 6.673e-8      // gravitational constant [cm3/g/s2]
	SigmaSB  = 5.6704e-5     // Stefan-Boltzmann [erg/cm2/s/K4]
	MH       = 1.6735325e-24 // hydrogen mass [g]
	MHe      = 6.6464764e-24 // helium-4 mass [g]
	KmPerMpc = 3.08568e19
	CmPerMpc = 3.08568e24
	GPerMsun = 1.98892e33

	ErgPerEV = 1.60217653e-12 // [erg/eV]
	HPlanck  = 6.626068e-27   // [erg s]
	EvPerHz  = HPlanck / ErgPerEV

	ELyA = 10.1988 // Lyman-alpha [eV]
	ELL  = 13.5984 // hydrogen Lyman limit [eV]; ELyn(2) == ELyA exactly

	FourPi = 4. * 3.14159265358979323846
	Ln10   = 2.302585092994046

	// J21: reference flux normalization used to condition rate integrals
	J21 = 1e-21
)

// Species indexes the absorbers tracked by the optical depth and rate
// calculations.
type Species int

const (
	HI Species = iota
	HeI
	HeII
)

// Eth are the ionization threshold energies [eV], indexed by Species.
var Eth = [3]float64{13.6, 24.4, 54.4}

func (s Species) String() string {
	switch s {
	case HI:
		return "h_1"
	case HeI:
		return "he_1"
	case HeII:
		return "he_2"
	}
	return "unknown"
}
