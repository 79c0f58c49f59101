package mgrb

import (
	"testing"

	"github.com/astrohm/mgrb/cosmo"
	"github.com/astrohm/mgrb/esec"
	"github.com/astrohm/mgrb/phys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRateCalc(t *testing.T, helium HeliumMode, mode RateMode, dep string) (*RateCalculator, *Grid) {
	t.Helper()
	g, err := NewGrid(40., 10., 16, 200., 3e4)
	require.NoError(t, err)
	m, err := esec.New(dep)
	require.NoError(t, err)
	rc, err := NewRateCalculator(g, cosmo.New(), helium, mode, m, "simps", "quad")
	require.NoError(t, err)
	return rc, g
}

func flatFlux(g *Grid, v float64) []float64 {
	f := make([]float64, g.N)
	for n := range f {
		f[n] = v
	}
	return f
}

func TestRateConstruction(t *testing.T) {
	g, err := NewGrid(40., 10., 16, 200., 3e4)
	require.NoError(t, err)
	m, _ := esec.New("off")

	_, err = NewRateCalculator(g, cosmo.New(), HeliumOff, PerAtom, m, "gauss", "quad")
	assert.Error(t, err)
	_, err = NewRateCalculator(g, cosmo.New(), HeliumOff, PerAtom, m, "simps", "gauss")
	assert.Error(t, err)

	_, err = newSampledIntegrator("simps")
	assert.NoError(t, err)
	_, err = newSampledIntegrator("trapz")
	assert.NoError(t, err)
	_, err = newSampledIntegrator("romb")
	assert.NoError(t, err)
}

func TestRombergSampleCount(t *testing.T) {
	romb, err := newSampledIntegrator("romb")
	require.NoError(t, err)
	x := []float64{0., 1., 2., 3., 4.}
	_, err = romb(x, []float64{0., 1., 4., 9., 16.}) // 2^2+1 samples
	assert.NoError(t, err)
	_, err = romb(x[:4], []float64{0., 1., 4., 9.})
	assert.Error(t, err)
}

func TestIonizationRate(t *testing.T) {
	rc, g := testRateCalc(t, HeliumOff, PerAtom, "off")
	st := State{Z: 15.}

	gam, err := rc.IonizationRate(phys.HI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	assert.Greater(t, gam, 0.)

	// linear in the flux
	gam2, err := rc.IonizationRate(phys.HI, flatFlux(g, 2e-20), st)
	require.NoError(t, err)
	assert.InEpsilon(t, 2.*gam, gam2, 1e-10)

	// shape mismatch is a hard error
	_, err = rc.IonizationRate(phys.HI, make([]float64, g.N-1), st)
	assert.Error(t, err)
}

func TestVolumetricMode(t *testing.T) {
	pa, g := testRateCalc(t, HeliumOff, PerAtom, "off")
	vol, _ := testRateCalc(t, HeliumOff, Volumetric, "off")
	st := State{Z: 15., XHII: 0.25}
	flux := flatFlux(g, 1e-20)

	a, err := pa.IonizationRate(phys.HI, flux, st)
	require.NoError(t, err)
	v, err := vol.IonizationRate(phys.HI, flux, st)
	require.NoError(t, err)
	assert.InEpsilon(t, a*pa.cos.NH(st.Z)*0.75, v, 1e-12)
}

func TestSecondaryIonization(t *testing.T) {
	st := State{Z: 15., XHII: 0.01}

	// off model: exactly zero
	off, g := testRateCalc(t, HeliumOff, PerAtom, "off")
	s, err := off.SecondaryIonizationRate(phys.HI, phys.HI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	assert.Zero(t, s)

	sv, _ := testRateCalc(t, HeliumOff, PerAtom, "shull-vansteenberg")
	s, err = sv.SecondaryIonizationRate(phys.HI, phys.HI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	assert.Greater(t, s, 0.)

	// helium rides on hydrogen under the approximate mode
	app, _ := testRateCalc(t, HeliumApprox, PerAtom, "shull-vansteenberg")
	s, err = app.SecondaryIonizationRate(phys.HeI, phys.HI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	assert.Zero(t, s)
}

func TestHeatingRate(t *testing.T) {
	st := State{Z: 15., XHII: 0.01}
	rc, g := testRateCalc(t, HeliumOff, PerAtom, "off")

	h, err := rc.HeatingRate(phys.HI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	assert.Greater(t, h, 0.)

	// nothing heats through helium when helium is off
	h, err = rc.HeatingRate(phys.HeI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	assert.Zero(t, h)

	// the tied helium channel adds heat
	app, _ := testRateCalc(t, HeliumApprox, PerAtom, "off")
	ha, err := app.HeatingRate(phys.HI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	hh, err := rc.HeatingRate(phys.HI, flatFlux(g, 1e-20), st)
	require.NoError(t, err)
	assert.Greater(t, ha, hh)

	// an ionized medium soaks up more of the electron energy as heat
	svLo, _ := testRateCalc(t, HeliumOff, PerAtom, "shull-vansteenberg")
	lo, err := svLo.HeatingRate(phys.HI, flatFlux(g, 1e-20), State{Z: 15., XHII: 1e-4})
	require.NoError(t, err)
	hi, err := svLo.HeatingRate(phys.HI, flatFlux(g, 1e-20), State{Z: 15., XHII: 0.9})
	require.NoError(t, err)
	assert.Greater(t, hi, lo)
}

func TestIonizationRateFunc(t *testing.T) {
	rc, g := testRateCalc(t, HeliumOff, PerAtom, "off")
	st := State{Z: 15.}
	const j = 1e-20

	// independent fine-trapezoid reference in linear energy
	const m = 200000
	lo, hi := g.E[0], g.E[g.N-1]
	h := (hi - lo) / m
	f := func(E float64) float64 { return phys.PhotoIonizationCrossSection(E, phys.HI) * j }
	ref := 0.5 * (f(lo) + f(hi))
	for i := 1; i < m; i++ {
		ref += f(lo + float64(i)*h)
	}
	ref *= phys.FourPi * h / phys.EvPerHz

	// both quadrature paths must land on the reference
	sampled, err := rc.IonizationRate(phys.HI, flatFlux(g, j), st)
	require.NoError(t, err)
	assert.InEpsilon(t, ref, sampled, 0.01)

	direct := rc.IonizationRateFunc(phys.HI, func(float64) float64 { return j }, st)
	assert.InEpsilon(t, ref, direct, 0.01)
	assert.InEpsilon(t, sampled, direct, 0.01)
}
