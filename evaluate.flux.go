package mgrb

import (
	"fmt"
	"math"

	"github.com/astrohm/mgrb/phys"
)

// FluxIterator produces the background intensity history by the backward
// recursion over redshift: at each step the flux observed at z[l] is the
// locally emitted half-step plus the previous step's flux, shifted one
// energy bin (a photon redshifts exactly one bin per step), attenuated by
// the step's optical depth and diluted by R^2. Strictly sequential; the
// step order is the algorithm.
type FluxIterator struct {
	g    *Grid
	tau  [][]float64 // nil for an optically thin band
	ehat [][]float64

	flux, scratch []float64
	l             int
	started       bool
}

// NewFluxIterator prepares a recursion over g. tau may be nil for bands
// below the ionization thresholds; flux0 seeds the boundary at the highest
// redshift (nil means zero).
func NewFluxIterator(g *Grid, tau *TauTable, ehat [][]float64, flux0 []float64) (*FluxIterator, error) {
	var tt [][]float64
	if tau != nil {
		if len(tau.Tau) != g.L || len(tau.Tau[0]) != g.N {
			return nil, fmt.Errorf(" flux: tau table %dx%d does not fit grid %dx%d",
				len(tau.Tau), len(tau.Tau[0]), g.L, g.N)
		}
		tt = tau.Tau
	}
	if len(ehat) != g.L {
		return nil, fmt.Errorf(" flux: emissivity has %d redshift rows, grid has %d", len(ehat), g.L)
	}
	for l, row := range ehat {
		if len(row) != g.N {
			return nil, fmt.Errorf(" flux: emissivity row %d has %d bins, grid has %d", l, len(row), g.N)
		}
	}
	if flux0 != nil && len(flux0) != g.N {
		return nil, fmt.Errorf(" flux: boundary flux has %d bins, grid has %d", len(flux0), g.N)
	}

	it := &FluxIterator{
		g: g, tau: tt, ehat: ehat,
		flux:    make([]float64, g.N),
		scratch: make([]float64, g.N),
		l:       g.L - 1,
	}
	copy(it.flux, flux0)
	it.flux[g.N-1] = 0. // the top bin is pinned at every step, boundary included
	return it, nil
}

// Z returns the redshift of the step the iterator will yield next, or the
// last yielded one once exhausted.
func (it *FluxIterator) Z() float64 { return it.g.Z[it.l] }

// Next advances one redshift step toward the present and returns the
// redshift, a snapshot of the flux vector [photons/s/cm2/Hz/sr], and
// whether a step was produced. The first call yields the boundary vector
// at the highest redshift unmodified.
func (it *FluxIterator) Next() (float64, []float64, bool) {
	if !it.started {
		it.started = true
		return it.g.Z[it.l], it.snapshot(), true
	}
	if it.l == 0 {
		return 0., nil, false
	}
	l := it.l - 1

	g := it.g
	c4p := phys.C / phys.FourPi * g.Xsq[l+1] * 0.5 * (g.Z[l+1] - g.Z[l])
	for n := 0; n < g.N-1; n++ {
		// one-bin shift: bin n at z[l] was bin n+1 at z[l+1]
		prev := c4p*it.ehat[l+1][n+1] + it.flux[n+1]/g.Rsq
		if it.tau != nil {
			prev *= math.Exp(-it.tau[l][n+1])
		}
		it.scratch[n] = c4p*it.ehat[l][n] + prev
	}
	it.scratch[g.N-1] = 0.

	it.flux, it.scratch = it.scratch, it.flux
	it.l = l
	for n, v := range it.flux {
		if math.IsNaN(v) || v < 0. {
			panic(fmt.Sprintf("flux: bad value %g at z=%.4f bin %d", v, g.Z[l], n))
		}
	}
	return g.Z[l], it.snapshot(), true
}

func (it *FluxIterator) snapshot() []float64 {
	o := make([]float64, len(it.flux))
	copy(o, it.flux)
	return o
}
