package phys

import "math"

// Verner et al. (1996) analytic fits to the bound-free photo-ionization
// cross-sections of HI, HeI and HeII, indexed by Species.
var (
	vE0 = [3]float64{4.298e-1, 1.361e1, 1.720}
	vS0 = [3]float64{5.475e4, 9.492e2, 1.369e4} // [Mb]
	vYa = [3]float64{3.288e1, 1.469, 3.288e1}
	vP  = [3]float64{2.963, 3.188, 2.963}
	vYw = [3]float64{0., 2.039, 0.}
	vY0 = [3]float64{0., 4.434e-1, 0.}
	vY1 = [3]float64{0., 2.136, 0.}
)

const mbarn = 1e-18 // [cm2]

// Sigma0 is the hydrogen cross-section at its ionization threshold,
// used to normalize optical-depth and rate integrands.
var Sigma0 = PhotoIonizationCrossSection(Eth[HI], HI)

// PhotoIonizationCrossSection returns the bound-free cross-section [cm2]
// of species sp at photon energy E [eV]. Zero below threshold.
func PhotoIonizationCrossSection(E float64, sp Species) float64 {
	if E < Eth[sp] {
		return 0.
	}
	x := E/vE0[sp] - vY0[sp]
	y := math.Sqrt(x*x + vY1[sp]*vY1[sp])
	fy := ((x-1.)*(x-1.) + vYw[sp]*vYw[sp]) *
		math.Pow(y, 0.5*vP[sp]-5.5) *
		math.Pow(1.+math.Sqrt(y/vYa[sp]), -vP[sp])
	return vS0[sp] * fy * mbarn
}

var (
	aS0  = [3]float64{6.346e-18, 7.126e-18, 1.575e-18}
	aEth = [3]float64{13.6, 24.6, 54.4}
)

// ApproximatePhotoIonizationCrossSection is the hydrogenic E^-3 power-law
// approximation, cheaper than the Verner fits.
func ApproximatePhotoIonizationCrossSection(E float64, sp Species) float64 {
	if E < aEth[sp] {
		return 0.
	}
	r := aEth[sp] / E
	return aS0[sp] * r * r * r
}
