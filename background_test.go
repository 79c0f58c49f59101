package mgrb

import (
	"testing"

	"github.com/astrohm/mgrb/cosmo"
	"github.com/astrohm/mgrb/phys"
	"github.com/astrohm/mgrb/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackground(t *testing.T, dir string) *Background {
	t.Helper()
	pop, err := source.NewPowerLaw(60., 5., 5., 4e4, 200., 3e4, -1.5,
		func(z float64) float64 { return 1e-32 })
	require.NoError(t, err)

	b, err := NewBackground(Config{
		Zi: 12., Zf: 10., L: 6,
		Emin: 2000., Emax: 4000.,
		NLyMax:         5,
		TauDirs:        []string{dir},
		Nwrkrs:         2,
		LymanContinuum: true, LymanInjected: true,
	}, cosmo.New(), pop)
	require.NoError(t, err)
	return b
}

func TestBackgroundBuild(t *testing.T) {
	dir := t.TempDir()
	b := testBackground(t, dir)

	require.NotNil(t, b.Tau)
	require.NoError(t, b.Tau.validate())
	assert.Len(t, b.Saw, 3) // n = 2..4
	require.Len(t, b.Ehat, 1)

	// the freshly tabulated table was persisted and is found on a rebuild
	fp, ok := FindTau([]string{dir}, b.Tau.Meta)
	require.True(t, ok)
	assert.Equal(t, dir+"/"+b.Tau.Meta.Name(), fp)
	b2 := testBackground(t, dir)
	assert.Equal(t, b.Tau.Tau, b2.Tau.Tau)
}

func TestBackgroundGenerators(t *testing.T) {
	b := testBackground(t, t.TempDir())

	it, err := b.FluxGenerator(0)
	require.NoError(t, err)
	var z float64
	var flux []float64
	for {
		zz, f, ok := it.Next()
		if !ok {
			break
		}
		z, flux = zz, f
	}
	require.Len(t, flux, b.Grid.N)
	assert.Greater(t, flux[0], 0.)

	rs, err := b.UpdateRateCoefficients(State{Z: z}, flux)
	require.NoError(t, err)
	assert.Greater(t, rs[phys.HI].Ionization, 0.)
	assert.Greater(t, rs[phys.HI].Heating, 0.)
	assert.Zero(t, rs[phys.HeI].Ionization) // helium off

	st, err := b.SawtoothGenerator(0)
	require.NoError(t, err)
	n := 0
	for {
		_, _, _, ok := st.Next()
		if !ok {
			break
		}
		n++
	}
	assert.Equal(t, b.Grid.L, n)

	_, err = b.FluxGenerator(1)
	assert.Error(t, err)
	_, err = b.SawtoothGenerator(1)
	assert.Error(t, err)
}

func TestBackgroundDynamicTau(t *testing.T) {
	b := testBackground(t, t.TempDir())
	require.Greater(t, b.Tau.Tau[0][0], 0.)

	// a fully ionized history leaves nothing to absorb
	require.NoError(t, b.SetIonizationHistory(ConstantX(1.), 2))
	for l := 0; l < b.Grid.L; l++ {
		for n := 0; n < b.Grid.N; n++ {
			require.Zero(t, b.Tau.Tau[l][n])
		}
	}
}

func TestBackgroundUnloadableTableFallback(t *testing.T) {
	dir := t.TempDir()
	g, err := NewGrid(12., 10., 6, 2000., 4000.)
	require.NoError(t, err)

	// a candidate whose name claims to cover the run but whose redshift
	// axis cannot align: found by the scan, rejected by the loader
	bad := testTable(t, g)
	zoff := make([]float64, g.L)
	copy(zoff, g.Z)
	zoff[0], zoff[g.L-1] = 9.5, 12.5
	bad.Z = zoff
	bad.Meta = metaOf(zoff, g.E, "H", "gob")
	require.NoError(t, bad.Save(dir+"/"+bad.Meta.Name()))

	// the build must fall back to tabulating rather than abort
	b := testBackground(t, dir)
	require.NoError(t, b.Tau.validate())
	assert.Greater(t, b.Tau.Tau[0][0], 0.)
	assert.Equal(t, g.Z, b.Tau.Z)
}

func TestBackgroundConfigErrors(t *testing.T) {
	_, err := NewBackground(Config{Zi: 12., Zf: 10., L: 6, Emin: 2000., Emax: 4000.}, cosmo.New())
	assert.Error(t, err) // no populations

	pop, err := source.NewPowerLaw(60., 5., 200., 4e4, 200., 3e4, -1.5,
		func(z float64) float64 { return 1e-32 })
	require.NoError(t, err)

	_, err = NewBackground(Config{Zi: 10., Zf: 12., L: 6, Emin: 2000., Emax: 4000.},
		cosmo.New(), pop)
	assert.Error(t, err) // inverted redshift interval

	_, err = NewBackground(Config{Zi: 12., Zf: 10., L: 6, Emin: 2000., Emax: 4000.,
		SecondaryElectrons: "furlanetto"}, cosmo.New(), pop)
	assert.Error(t, err) // unknown deposition model

	_, err = NewBackground(Config{Zi: 12., Zf: 10., L: 6, Emin: 2000., Emax: 4000.,
		SampledIntegrator: "gauss"}, cosmo.New(), pop)
	assert.Error(t, err) // unknown quadrature
}
