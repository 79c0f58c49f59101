// Package cosmo supplies the expansion model consumed by the radiation
// background engine: Hubble rate, line elements and mean species number
// densities as functions of redshift.
package cosmo

import (
	"math"

	"github.com/astrohm/mgrb/phys"
)

// Cosmology is a flat matter + lambda expansion model. Derived quantities
// are computed once at construction.
type Cosmology struct {
	OmegaM, OmegaB, OmegaL float64
	H100                   float64 // dimensionless Hubble parameter (H0/100)
	CMBTemp0               float64
	Y, Yn                  float64 // helium by mass, by number
	ApproxHighZ            bool    // matter-dominated shortcut

	H0        float64 // [1/s]
	RhoCrit0  float64 // [g/cm3]
	NH0, NHe0 float64 // mean densities today [1/cm3]
}

// New returns a Cosmology with Planck-like defaults.
func New() *Cosmology {
	return NewCosmology(0.3089, 0.0486, 0.6911, 0.6774, 0.2453, 2.725, false)
}

func NewCosmology(omegaM, omegaB, omegaL, h100, heliumByMass, cmbTemp0 float64, approxHighZ bool) *Cosmology {
	c := &Cosmology{
		OmegaM:      omegaM,
		OmegaB:      omegaB,
		OmegaL:      omegaL,
		H100:        h100,
		CMBTemp0:    cmbTemp0,
		Y:           heliumByMass,
		ApproxHighZ: approxHighZ,
	}
	c.Yn = 1. / (1./c.Y - 1.) / 4. // helium by number
	c.H0 = h100 * 100. / phys.KmPerMpc
	c.RhoCrit0 = 3. * c.H0 * c.H0 / (8. * math.Pi * phys.G)

	rhoB0 := omegaB * c.RhoCrit0
	c.NH0 = (1. - c.Y) * rhoB0 / phys.MH
	c.NHe0 = c.Yn * c.NH0
	return c
}

func (c *Cosmology) evolution(z float64) float64 {
	zp := 1. + z
	return c.OmegaM*zp*zp*zp + c.OmegaL
}

// HubbleParameter returns H(z) [1/s].
func (c *Cosmology) HubbleParameter(z float64) float64 {
	if c.ApproxHighZ {
		return c.H0 * math.Sqrt(c.OmegaM) * math.Pow(1.+z, 1.5)
	}
	return c.H0 * math.Sqrt(c.evolution(z))
}

// NH returns the mean (comoving-expanded) hydrogen number density [1/cm3].
func (c *Cosmology) NH(z float64) float64 {
	zp := 1. + z
	return c.NH0 * zp * zp * zp
}

// NHe returns the mean helium number density [1/cm3].
func (c *Cosmology) NHe(z float64) float64 {
	zp := 1. + z
	return c.NHe0 * zp * zp * zp
}

// Dldz is the proper differential line element dl/dz [cm].
func (c *Cosmology) Dldz(z float64) float64 {
	return phys.C / c.HubbleParameter(z) / (1. + z)
}

// Dtdz is dt/dz [s].
func (c *Cosmology) Dtdz(z float64) float64 {
	return 1. / c.HubbleParameter(z) / (1. + z)
}

// HubbleLength returns c/H(z) [cm].
func (c *Cosmology) HubbleLength(z float64) float64 {
	return phys.C / c.HubbleParameter(z)
}

// TCMB returns the CMB temperature [K] at z.
func (c *Cosmology) TCMB(z float64) float64 {
	return c.CMBTemp0 * (1. + z)
}

// TimeToRedshift advances z by an interval dt [s] under the high-z
// (matter-dominated) approximation.
func (c *Cosmology) TimeToRedshift(dt, z float64) float64 {
	return math.Pow(math.Pow(1.+z, -1.5)+
		1.5*c.H0*math.Sqrt(c.OmegaM)*dt, -2./3.) - 1.
}
