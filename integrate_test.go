package mgrb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadIntegrators(t *testing.T) {
	for _, name := range []string{"quad", "romb"} {
		q, err := newQuadIntegrator(name, 1e-10, 1e-14, 14)
		require.NoError(t, err)

		assert.InEpsilon(t, 1./3., q(func(x float64) float64 { return x * x }, 0., 1.), 1e-9, name)
		assert.InEpsilon(t, math.E-1., q(math.Exp, 0., 1.), 1e-9, name)
		// a steep power law, the shape of the opacity integrands
		assert.InEpsilon(t, 0.5-0.5e-2,
			q(func(x float64) float64 { return math.Pow(x, -3.) }, 1., 10.), 1e-6, name)
	}

	_, err := newQuadIntegrator("gauss", 1e-10, 1e-14, 14)
	assert.Error(t, err)
}

func TestSampledIntegrators(t *testing.T) {
	n := 257 // 2^8+1 so romb is happy too
	x := make([]float64, n)
	f := make([]float64, n)
	for i := range x {
		x[i] = float64(i) / float64(n-1)
		f[i] = math.Exp(x[i])
	}
	for _, name := range []string{"simps", "trapz", "romb"} {
		s, err := newSampledIntegrator(name)
		require.NoError(t, err)
		v, err := s(x, f)
		require.NoError(t, err)
		assert.InEpsilon(t, math.E-1., v, 1e-4, name)

		_, err = s(x[:10], f)
		assert.Error(t, err, name)
	}
}
