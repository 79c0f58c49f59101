package mgrb

import (
	"fmt"
	"math"

	"github.com/astrohm/mgrb/phys"
)

const tinyDlogx = 1e-8

// Band classifies the photon-energy interval a Grid spans.
type Band int

const (
	Continuum Band = iota
	Sawtooth
)

// Grid holds matched logarithmic grids in x = 1+z and photon energy. The
// two share the ratio R = x[l+1]/x[l], so stepping one redshift bin shifts
// a photon exactly one energy bin. All derived fields are filled once at
// construction.
type Grid struct {
	Band Band
	Nres int // Lyman-n of a sawtooth sub-grid, 0 for continuum

	X, Z, LogX []float64 // x = 1+z, ascending
	E, LogE    []float64 // E[n] = E0 * R^n
	Xsq        []float64
	R, Rsq     float64
	L, N       int
	E0, E1     float64 // requested energy bounds [eV]
}

// NewGrid builds the grid for zi > zf with L redshift bins over [E0, E1].
// N is the number of ratio-steps of R needed to reach E1 from E0.
func NewGrid(zi, zf float64, L int, E0, E1 float64) (*Grid, error) {
	if zi <= zf {
		return nil, fmt.Errorf(" grid.NewGrid: zi %g <= zf %g", zi, zf)
	}
	if L < 2 {
		return nil, fmt.Errorf(" grid.NewGrid: need at least 2 redshift bins, got %d", L)
	}
	if E0 <= 0. || E1 <= E0 {
		return nil, fmt.Errorf(" grid.NewGrid: bad energy bounds [%g,%g]", E0, E1)
	}

	g := &Grid{L: L, E0: E0, E1: E1}
	g.X = logspace(math.Log10(1.+zf), math.Log10(1.+zi), L)
	g.Z = make([]float64, L)
	g.LogX = make([]float64, L)
	g.Xsq = make([]float64, L)
	for i, x := range g.X {
		g.Z[i] = x - 1.
		g.LogX[i] = math.Log10(x)
		g.Xsq[i] = x * x
	}
	g.R = g.X[1] / g.X[0]
	g.Rsq = g.R * g.R

	if err := g.checkLogSpacing(); err != nil {
		return nil, err
	}

	g.N = numFreqBins(g.R, E0, E1)
	g.E = make([]float64, g.N)
	g.LogE = make([]float64, g.N)
	for n := 0; n < g.N; n++ {
		g.E[n] = E0 * math.Pow(g.R, float64(n))
		g.LogE[n] = math.Log10(g.E[n])
	}
	return g, nil
}

// NewSawtoothGrids builds one independent sub-grid per Lyman-n resonance,
// n in [2, nmax), each spanning [ELyn(n), ELyn(n+1)). The sub-grids share
// the redshift axis but are never merged into one energy axis.
func NewSawtoothGrids(zi, zf float64, L, nmax int) ([]*Grid, error) {
	if nmax < 3 || nmax > phys.NLyMax {
		return nil, fmt.Errorf(" grid.NewSawtoothGrids: nmax %d out of range [3,%d]", nmax, phys.NLyMax)
	}
	grids := make([]*Grid, 0, nmax-2)
	for n := 2; n < nmax; n++ {
		g, err := NewGrid(zi, zf, L, phys.ELyn(n), phys.ELyn(n+1))
		if err != nil {
			return nil, fmt.Errorf(" grid.NewSawtoothGrids (n=%d): %v", n, err)
		}
		g.Band = Sawtooth
		g.Nres = n
		grids = append(grids, g)
	}
	return grids, nil
}

// checkLogSpacing verifies the log10(x) spacing is uniform; the recursion
// depends on a single constant ratio R.
func (g *Grid) checkLogSpacing() error {
	d0 := g.LogX[1] - g.LogX[0]
	for i := 1; i < g.L-1; i++ {
		if math.Abs((g.LogX[i+1]-g.LogX[i])-d0) > tinyDlogx {
			return fmt.Errorf(" grid: non-uniform log spacing at bin %d", i)
		}
	}
	return nil
}

// numFreqBins counts the ratio-steps of R from E0 up to (and including the
// first at or above) E1.
func numFreqBins(R, E0, E1 float64) int {
	n := 1
	for E := E0; E < E1 && math.Abs(E-E1) > nearzero*E1; n++ {
		E = E0 * math.Pow(R, float64(n))
	}
	return n
}

func logspace(lo, hi float64, n int) []float64 {
	o := make([]float64, n)
	d := (hi - lo) / float64(n-1)
	for i := range o {
		o[i] = math.Pow(10., lo+float64(i)*d)
	}
	o[n-1] = math.Pow(10., hi)
	return o
}
