// Package source describes redshift-distributed source populations: a
// luminosity density history and a normalized spectral shape over a fixed
// energy band.
package source

import (
	"fmt"
	"math"

	"github.com/astrohm/mgrb/phys"
)

// Population is one class of emitters. LuminosityDensity returns the
// comoving luminosity density [erg/s/cm3] at redshift z within
// [EminNorm, EmaxNorm]; the spectral shape redistributes it over energy.
type Population struct {
	Zform, Zdead       float64 // formation (high) and death (low) redshifts
	Emin, Emax         float64 // emitted band [eV]
	EminNorm, EmaxNorm float64 // normalization band [eV]
	Alpha              float64 // power-law spectral index
	LuminosityDensity  func(z float64) float64

	norm float64
}

// NewPowerLaw builds a population with spectrum S(E) ~ E^alpha, normalized
// so that the integral of S over [EminNorm, EmaxNorm] is unity.
func NewPowerLaw(zform, zdead, emin, emax, eminNorm, emaxNorm, alpha float64,
	lum func(z float64) float64) (*Population, error) {

	if zform <= zdead {
		return nil, fmt.Errorf(" source.NewPowerLaw: zform %g <= zdead %g", zform, zdead)
	}
	if emin >= emax || eminNorm >= emaxNorm {
		return nil, fmt.Errorf(" source.NewPowerLaw: empty energy band")
	}
	if lum == nil {
		return nil, fmt.Errorf(" source.NewPowerLaw: nil luminosity density")
	}

	p := &Population{
		Zform: zform, Zdead: zdead,
		Emin: emin, Emax: emax,
		EminNorm: eminNorm, EmaxNorm: emaxNorm,
		Alpha:             alpha,
		LuminosityDensity: lum,
	}

	// analytic normalization of the E^alpha shape
	if alpha == -1. {
		p.norm = 1. / math.Log(emaxNorm/eminNorm)
	} else {
		a1 := alpha + 1.
		p.norm = a1 / (math.Pow(emaxNorm, a1) - math.Pow(eminNorm, a1))
	}
	return p, nil
}

// Spectrum is the normalized spectral shape [1/eV] at energy E, zero
// outside the emitted band.
func (p *Population) Spectrum(E float64) float64 {
	if E < p.Emin || E > p.Emax {
		return 0.
	}
	return p.norm * math.Pow(E, p.Alpha)
}

// Alive reports whether the population emits at redshift z.
func (p *Population) Alive(z float64) bool {
	return z <= p.Zform && z >= p.Zdead
}

// IsLymanSource reports whether the emitted band reaches the Lyman series.
func (p *Population) IsLymanSource() bool {
	return p.Emin <= phys.ELyA && p.Emax >= phys.ELyA
}
