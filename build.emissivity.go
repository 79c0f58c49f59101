package mgrb

import (
	"github.com/astrohm/mgrb/cosmo"
	"github.com/astrohm/mgrb/phys"
	"github.com/astrohm/mgrb/source"
)

// TabulateEmissivity fills the comoving photon-number emissivity over the
// grid, cell [l][n] in [photons/s/cm3/Hz] per unit H(z): the population's
// luminosity density at z[l] redistributed by its spectral shape, divided
// by E to count photons, with the Hubble rate folded in so the recursion's
// redshift integral needs no further cosmology. Bins outside the
// population's active redshift interval are zero.
func TabulateEmissivity(g *Grid, c *cosmo.Cosmology, p *source.Population) [][]float64 {
	ehat := make([][]float64, g.L)
	for l := 0; l < g.L; l++ {
		row := make([]float64, g.N)
		ehat[l] = row
		if !p.Alive(g.Z[l]) {
			continue
		}
		lum := p.LuminosityDensity(g.Z[l])
		if lum == 0. {
			continue
		}
		hz := c.HubbleParameter(g.Z[l])
		for n, E := range g.E {
			row[n] = p.Spectrum(E) / E * lum * phys.EvPerHz / phys.ErgPerEV / hz
		}
	}
	return ehat
}
