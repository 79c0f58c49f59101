package mgrb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIonizedFractionVariants(t *testing.T) {
	assert.Zero(t, NeutralIGM.At(7.))
	assert.Zero(t, IonizedFraction{}.At(7.)) // zero value is neutral

	c := ConstantX(0.3)
	assert.Equal(t, 0.3, c.At(5.))
	assert.Equal(t, 0.3, c.At(50.))

	fn := FuncX(func(z float64) float64 { return 1. / (1. + z) })
	assert.InEpsilon(t, 0.1, fn.At(9.), 1e-12)

	// the three variants agree when they encode the same history
	z := []float64{5., 10., 15., 20.}
	x := []float64{1. / 6., 1. / 11., 1. / 16., 1. / 21.}
	s, err := SampledX(z, x)
	require.NoError(t, err)
	for _, zz := range z {
		assert.InEpsilon(t, fn.At(zz), s.At(zz), 1e-12, "z=%g", zz)
	}
}

func TestSampledXInterpolation(t *testing.T) {
	s, err := SampledX([]float64{10., 20.}, []float64{0., 1.})
	require.NoError(t, err)

	// piecewise linear between the samples
	assert.InEpsilon(t, 0.5, s.At(15.), 1e-12)
	assert.InEpsilon(t, 0.25, s.At(12.5), 1e-12)

	// clamped, never extrapolated, outside the sampled range
	assert.Zero(t, s.At(5.))
	assert.Equal(t, 1., s.At(30.))
}

func TestSampledXErrors(t *testing.T) {
	_, err := SampledX([]float64{10., 20.}, []float64{0.})
	assert.Error(t, err)
	_, err = SampledX([]float64{10.}, []float64{0.})
	assert.Error(t, err)
	// unsorted abscissae are rejected by the fit
	_, err = SampledX([]float64{20., 10.}, []float64{0., 1.})
	assert.Error(t, err)
}
