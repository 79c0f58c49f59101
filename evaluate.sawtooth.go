package mgrb

import (
	"fmt"

	"github.com/astrohm/mgrb/phys"
)

// SawtoothIterator steps one recursion per Lyman-resonance sub-grid in
// lock-step over the shared redshift axis. Photons crossing a resonance
// are destroyed (each sub-grid is optically thin inside its band and
// truncated at its upper edge), and a recycled share re-emerges as
// Lyman-alpha, summed here with the recycling fraction of each resonance.
type SawtoothIterator struct {
	grids []*Grid
	its   []*FluxIterator

	// continuum gates the n=2 band, injected the n>2 cascades
	continuum, injected bool
}

// NewSawtoothIterator builds lock-step recursions over the resonance
// sub-grids; ehats holds one emissivity table per sub-grid, in order.
func NewSawtoothIterator(grids []*Grid, ehats [][][]float64, continuum, injected bool) (*SawtoothIterator, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf(" sawtooth: no resonance sub-grids")
	}
	if len(ehats) != len(grids) {
		return nil, fmt.Errorf(" sawtooth: %d emissivity tables for %d sub-grids", len(ehats), len(grids))
	}
	s := &SawtoothIterator{grids: grids, continuum: continuum, injected: injected}
	for i, g := range grids {
		if g.Band != Sawtooth {
			return nil, fmt.Errorf(" sawtooth: sub-grid %d is not a resonance band", i)
		}
		it, err := NewFluxIterator(g, nil, ehats[i], nil)
		if err != nil {
			return nil, fmt.Errorf(" sawtooth (n=%d): %v", g.Nres, err)
		}
		s.its = append(s.its, it)
	}
	return s, nil
}

// Next advances every sub-grid one redshift step and returns the shared
// redshift, the per-resonance flux snapshots, and the Lyman-alpha
// background J_alpha(z) = sum over n of frec(n) * flux_n at the band
// bottom.
func (s *SawtoothIterator) Next() (float64, [][]float64, float64, bool) {
	z, fluxes := 0., make([][]float64, len(s.its))
	for i, it := range s.its {
		zi, f, ok := it.Next()
		if !ok {
			return 0., nil, 0., false
		}
		if i == 0 {
			z = zi
		} else if zi != z {
			panic(fmt.Sprintf("sawtooth: sub-grids out of step at z=%.4f vs %.4f", zi, z))
		}
		fluxes[i] = f
	}

	jlya := 0.
	for i, g := range s.grids {
		if g.Nres == 2 && !s.continuum {
			continue
		}
		if g.Nres > 2 && !s.injected {
			continue
		}
		jlya += phys.Frec(g.Nres) * fluxes[i][0]
	}
	return z, fluxes, jlya, true
}
