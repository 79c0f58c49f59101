package mgrb

import (
	"fmt"
	"math"
	"sync"

	"github.com/astrohm/mgrb/cosmo"
	"github.com/astrohm/mgrb/phys"
	"github.com/gosuri/uiprogress"
)

// quadrature settings for the segment integrals
const (
	tauQuadRtol = 1e-8
	tauQuadAtol = 1e-15
	tauDivMax   = 12
)

// Tabulator computes absorption optical depths through the mean
// intergalactic medium. The ionization histories set how much of each
// species remains neutral; under HeliumApprox the helium fractions are
// tied to hydrogen's, under HeliumFull XHeII/XHeIII are used directly.
type Tabulator struct {
	Cos    *cosmo.Cosmology
	Helium HeliumMode

	XHII, XHeII, XHeIII IonizedFraction

	quad quadIntegrator
}

// NewTabulator builds a Tabulator using the named unsampled quadrature
// method ("quad" or "romb") for the segment integrals.
func NewTabulator(c *cosmo.Cosmology, mode HeliumMode, xHII IonizedFraction, method string) (*Tabulator, error) {
	q, err := newQuadIntegrator(method, tauQuadRtol, tauQuadAtol, tauDivMax)
	if err != nil {
		return nil, fmt.Errorf(" tau.NewTabulator: %v", err)
	}
	return &Tabulator{Cos: c, Helium: mode, XHII: xHII, quad: q}, nil
}

// Segment returns the optical depth accumulated by a photon observed at
// redshift z1 with energy E [eV], emitted at z2 > z1. The integrand is
// conditioned by its value at the near end so the adaptive quadrature
// works near unity.
func (tb *Tabulator) Segment(z1, z2, E float64) float64 {
	if z2 <= z1 {
		return 0.
	}
	norm := phys.Sigma0 * tb.Cos.NH(z1) * tb.Cos.Dldz(z1)
	zp1 := 1. + z1
	tau := norm * tb.quad(func(z float64) float64 {
		return tb.opacity(z, E*(1.+z)/zp1) / norm
	}, z1, z2)
	if math.IsNaN(tau) {
		panic(fmt.Sprintf("tau.Segment: NaN at z1=%.4f z2=%.4f E=%.4g eV", z1, z2, E))
	}
	if tau < 0. {
		if tau < -nearzero {
			panic(fmt.Sprintf("tau.Segment: negative depth %g at z1=%.4f z2=%.4f E=%.4g eV", tau, z1, z2, E))
		}
		tau = 0.
	}
	return tau
}

// opacity is dtau/dz at redshift z for local photon energy E: the proper
// line element times the summed neutral (and, for HeII, singly ionized)
// column per unit redshift.
func (tb *Tabulator) opacity(z, E float64) float64 {
	xh := tb.XHII.At(z)
	sum := tb.Cos.NH(z) * (1. - xh) * phys.PhotoIonizationCrossSection(E, phys.HI)
	switch tb.Helium {
	case HeliumApprox:
		sum += tb.Cos.NHe(z) * (1. - xh) * phys.PhotoIonizationCrossSection(E, phys.HeI)
	case HeliumFull:
		xhe2, xhe3 := tb.XHeII.At(z), tb.XHeIII.At(z)
		nhe := tb.Cos.NHe(z)
		sum += nhe * (1. - xhe2 - xhe3) * phys.PhotoIonizationCrossSection(E, phys.HeI)
		sum += nhe * xhe2 * phys.PhotoIonizationCrossSection(E, phys.HeII)
	}
	return sum * tb.Cos.Dldz(z)
}

// Tabulate fills the L x N table of single-step optical depths, cell
// [l][n] holding the depth between z[l] and z[l+1] at observed energy
// E[n]. Cell l*N+n is owned by worker (l*N+n) % nwrkrs; each worker fills
// its own zeroed table and the tables are summed, so the result is
// independent of worker count. The top row stays zero.
func (tb *Tabulator) Tabulate(g *Grid, nwrkrs int) *TauTable {
	if nwrkrs < 1 {
		nwrkrs = 1
	}
	ncells := (g.L - 1) * g.N

	// a fresh progress instance per call; the shared one cannot be
	// restarted once stopped
	prog := uiprogress.New()
	bar := prog.AddBar(ncells).AppendCompleted().PrependElapsed()
	prog.Start()

	tbls := make([][][]float64, nwrkrs)
	var wg sync.WaitGroup
	wg.Add(nwrkrs)
	for w := 0; w < nwrkrs; w++ {
		go func(w int) {
			defer wg.Done()
			tbl := make([][]float64, g.L)
			for l := range tbl {
				tbl[l] = make([]float64, g.N)
			}
			for m := w; m < ncells; m += nwrkrs {
				l, n := m/g.N, m%g.N
				tbl[l][n] = tb.Segment(g.Z[l], g.Z[l+1], g.E[n])
				bar.Incr()
			}
			tbls[w] = tbl
		}(w)
	}
	wg.Wait()
	prog.Stop()

	t := &TauTable{
		Z:    g.Z,
		E:    g.E,
		Tau:  tbls[0],
		Meta: metaOf(g.Z, g.E, tb.Helium.speciesTag(), "gob"),
	}
	for w := 1; w < nwrkrs; w++ {
		for l := 0; l < g.L; l++ {
			for n := 0; n < g.N; n++ {
				t.Tau[l][n] += tbls[w][l][n]
			}
		}
	}
	return t
}
