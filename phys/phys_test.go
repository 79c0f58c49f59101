package phys

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossSectionThreshold(t *testing.T) {
	for _, sp := range []Species{HI, HeI, HeII} {
		assert.Zero(t, PhotoIonizationCrossSection(Eth[sp]-0.1, sp))
		assert.Greater(t, PhotoIonizationCrossSection(Eth[sp]+0.1, sp), 0.)
	}
	// threshold value of hydrogen, the usual sigma0
	assert.InEpsilon(t, 6.3e-18, Sigma0, 0.03)
}

func TestCrossSectionFalloff(t *testing.T) {
	// roughly E^-3 well above threshold
	s1 := PhotoIonizationCrossSection(100., HI)
	s2 := PhotoIonizationCrossSection(200., HI)
	assert.InEpsilon(t, 8., s1/s2, 0.15)

	a1 := ApproximatePhotoIonizationCrossSection(100., HI)
	a2 := ApproximatePhotoIonizationCrossSection(200., HI)
	assert.InEpsilon(t, 8., a1/a2, 1e-12)
}

func TestLymanSeries(t *testing.T) {
	// the series is anchored so Lyman-n=2 is exactly Lyman-alpha
	assert.InDelta(t, ELyA, ELyn(2), 1e-9)
	assert.Less(t, ELyn(2), ELyn(3))
	// series limit
	assert.InDelta(t, ELL, ELyn(1000), 1e-4)
}

func TestFrec(t *testing.T) {
	assert.Equal(t, 1.0, Frec(2))
	assert.Equal(t, 0.0, Frec(3)) // Lyman-beta never cascades through 2p
	assert.InDelta(t, 0.2609, Frec(4), 1e-12)
	// monotone approach to the high-n limit
	for n := 4; n < NLyMax; n++ {
		require.LessOrEqual(t, Frec(n), Frec(n+1))
	}
	assert.Panics(t, func() { Frec(1) })
	assert.Panics(t, func() { Frec(NLyMax + 1) })
}

func TestEvPerHz(t *testing.T) {
	// h in eV s
	assert.InEpsilon(t, 4.136e-15, EvPerHz, 1e-3)
	assert.InEpsilon(t, 4.*math.Pi, FourPi, 1e-12)
}
