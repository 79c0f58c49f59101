package mgrb

import (
	"fmt"

	"github.com/astrohm/mgrb/cosmo"
	"github.com/astrohm/mgrb/esec"
	"github.com/astrohm/mgrb/phys"
)

// State carries the instantaneous medium properties a rate reduction
// depends on: the redshift and the ionized fractions there.
type State struct {
	Z           float64
	XHII, XHeII float64
}

// RateSet is one species' reduced coefficients: photo-ionization,
// secondary ionization by fast photo-electrons, and photo-heating.
// Ephemeral; recomputed every step.
type RateSet struct {
	Ionization float64 // [1/s] or [1/s/cm3]
	Secondary  float64
	Heating    float64 // [erg/s] or [erg/s/cm3]
}

// RateCalculator reduces a flux vector over the grid to rate coefficients.
// Cross-sections are precomputed per energy bin; the integrals run in log
// energy (dE = ln10 E dlogE) conditioned by J21*sigma0 so the sampled
// quadrature works near unity.
type RateCalculator struct {
	g   *Grid
	cos *cosmo.Cosmology

	helium HeliumMode
	mode   RateMode
	dep    *esec.Model

	sampled sampledIntegrator
	quad    quadIntegrator

	sigma [3][]float64
	f     []float64 // integrand scratch
}

// NewRateCalculator prepares a reducer over g. sampledMethod names the
// quadrature for tabulated fluxes ("simps", "trapz", "romb");
// unsampledMethod the one for functional fluxes ("quad", "romb").
func NewRateCalculator(g *Grid, c *cosmo.Cosmology, helium HeliumMode, mode RateMode,
	dep *esec.Model, sampledMethod, unsampledMethod string) (*RateCalculator, error) {

	si, err := newSampledIntegrator(sampledMethod)
	if err != nil {
		return nil, fmt.Errorf(" rates: %v", err)
	}
	qi, err := newQuadIntegrator(unsampledMethod, tauQuadRtol, tauQuadAtol, tauDivMax)
	if err != nil {
		return nil, fmt.Errorf(" rates: %v", err)
	}
	rc := &RateCalculator{
		g: g, cos: c,
		helium: helium, mode: mode, dep: dep,
		sampled: si, quad: qi,
		f: make([]float64, g.N),
	}
	for _, sp := range []phys.Species{phys.HI, phys.HeI, phys.HeII} {
		rc.sigma[sp] = make([]float64, g.N)
		for n, E := range g.E {
			rc.sigma[sp][n] = phys.PhotoIonizationCrossSection(E, sp)
		}
	}
	return rc, nil
}

// rateNorm matches the natural scale of the integrands (sigma*J ~ 1e-38)
// so the conditioned samples sit near unity, where both the sampled and the
// adaptive quadratures hold their tolerances.
var rateNorm = phys.J21 * phys.Sigma0

// reduce integrates the scratch integrand f [per eV, conditioned] over the
// grid's log-energy axis and undoes the conditioning.
func (rc *RateCalculator) reduce() (float64, error) {
	v, err := rc.sampled(rc.g.LogE, rc.f)
	if err != nil {
		return 0., err
	}
	return phys.FourPi * rateNorm * phys.Ln10 * v / phys.EvPerHz, nil
}

func (rc *RateCalculator) checkFlux(flux []float64) error {
	if len(flux) != rc.g.N {
		return fmt.Errorf(" rates: flux has %d bins, grid has %d", len(flux), rc.g.N)
	}
	return nil
}

// IonizationRate reduces the photo-ionization rate of species sp.
func (rc *RateCalculator) IonizationRate(sp phys.Species, flux []float64, st State) (float64, error) {
	if err := rc.checkFlux(flux); err != nil {
		return 0., err
	}
	for n, E := range rc.g.E {
		rc.f[n] = rc.sigma[sp][n] * flux[n] * E / rateNorm
	}
	v, err := rc.reduce()
	if err != nil {
		return 0., err
	}
	return v * rc.volumeFactor(sp, st), nil
}

// SecondaryIonizationRate reduces the rate at which fast photo-electrons
// freed from donor ionize species sp. Zero when the deposition model is
// off, and zero for any helium donor or target under the approximate
// helium mode, whose opacity rides on hydrogen's.
func (rc *RateCalculator) SecondaryIonizationRate(sp, donor phys.Species, flux []float64, st State) (float64, error) {
	if err := rc.checkFlux(flux); err != nil {
		return 0., err
	}
	if !rc.dep.Enabled() {
		return 0., nil
	}
	if rc.helium != HeliumFull && (sp != phys.HI || donor != phys.HI) {
		return 0., nil
	}
	ch, err := ionChannel(sp)
	if err != nil {
		return 0., err
	}
	eth := phys.Eth[donor]
	for n, E := range rc.g.E {
		if E <= eth {
			rc.f[n] = 0.
			continue
		}
		fion := rc.dep.DepositionFraction(st.XHII, E-eth, ch)
		rc.f[n] = fion * (E - eth) / phys.Eth[sp] * rc.sigma[donor][n] * flux[n] * E / rateNorm
	}
	v, err := rc.reduce()
	if err != nil {
		return 0., err
	}
	return v * rc.volumeFactor(donor, st), nil
}

// HeatingRate reduces the photo-heating rate from photo-electrons freed
// from species sp. Under the approximate helium mode the helium channel is
// folded into hydrogen's integral weighted by the He/H number ratio.
func (rc *RateCalculator) HeatingRate(sp phys.Species, flux []float64, st State) (float64, error) {
	if err := rc.checkFlux(flux); err != nil {
		return 0., err
	}
	if rc.helium != HeliumFull && sp != phys.HI {
		return 0., nil
	}
	eth := phys.Eth[sp]
	approxHe := rc.helium == HeliumApprox && sp == phys.HI
	for n, E := range rc.g.E {
		w := 0.
		if E > eth {
			w = (E - eth) * rc.sigma[sp][n]
		}
		if approxHe && E > phys.Eth[phys.HeI] {
			w += rc.cos.Yn * (E - phys.Eth[phys.HeI]) * rc.sigma[phys.HeI][n]
		}
		if w == 0. {
			rc.f[n] = 0.
			continue
		}
		fheat := rc.dep.DepositionFraction(st.XHII, E-eth, esec.Heat)
		rc.f[n] = fheat * w * flux[n] * E / rateNorm
	}
	v, err := rc.reduce()
	if err != nil {
		return 0., err
	}
	return v * phys.ErgPerEV * rc.volumeFactor(sp, st), nil
}

// IonizationRateFunc is the unsampled path: the flux is a function of
// energy [eV] and the integral runs by the configured adaptive method over
// the grid's energy bounds.
func (rc *RateCalculator) IonizationRateFunc(sp phys.Species, flux func(E float64) float64, st State) float64 {
	lo := phys.Eth[sp]
	if lo < rc.g.E0 {
		lo = rc.g.E0
	}
	v := rc.quad(func(E float64) float64 {
		return phys.PhotoIonizationCrossSection(E, sp) * flux(E) / rateNorm
	}, lo, rc.g.E1)
	return phys.FourPi * rateNorm * v / phys.EvPerHz * rc.volumeFactor(sp, st)
}

// volumeFactor converts a per-atom rate to a volumetric one when so
// configured, using the absorber's neutral density at st.Z.
func (rc *RateCalculator) volumeFactor(sp phys.Species, st State) float64 {
	if rc.mode == PerAtom {
		return 1.
	}
	switch sp {
	case phys.HI:
		return rc.cos.NH(st.Z) * (1. - st.XHII)
	case phys.HeI:
		return rc.cos.NHe(st.Z) * (1. - st.XHeII)
	case phys.HeII:
		return rc.cos.NHe(st.Z) * st.XHeII
	}
	return 1.
}

func ionChannel(sp phys.Species) (esec.Channel, error) {
	switch sp {
	case phys.HI:
		return esec.IonHI, nil
	case phys.HeI:
		return esec.IonHeI, nil
	case phys.HeII:
		return esec.IonHeII, nil
	}
	return 0, fmt.Errorf(" rates: unknown species %d", sp)
}
