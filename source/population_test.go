package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatLum(float64) float64 { return 1e-32 }

func TestNewPowerLaw(t *testing.T) {
	_, err := NewPowerLaw(10., 40., 200., 3e4, 200., 3e4, -1.5, flatLum)
	assert.Error(t, err) // zform below zdead
	_, err = NewPowerLaw(40., 10., 3e4, 200., 200., 3e4, -1.5, flatLum)
	assert.Error(t, err) // empty band
	_, err = NewPowerLaw(40., 10., 200., 3e4, 200., 3e4, -1.5, nil)
	assert.Error(t, err)
}

func TestSpectrumNormalization(t *testing.T) {
	for _, alpha := range []float64{-2.5, -1.5, -1., 0.} {
		p, err := NewPowerLaw(40., 10., 200., 3e4, 200., 3e4, alpha, flatLum)
		require.NoError(t, err)

		// trapezoid over a fine grid should integrate the shape to ~1
		const n = 200000
		lo, hi := 200., 3e4
		h := (hi - lo) / n
		sum := 0.5 * (p.Spectrum(lo) + p.Spectrum(hi))
		for i := 1; i < n; i++ {
			sum += p.Spectrum(lo + float64(i)*h)
		}
		assert.InEpsilon(t, 1., sum*h, 1e-4, "alpha=%g", alpha)
	}
}

func TestSpectrumBand(t *testing.T) {
	p, err := NewPowerLaw(40., 10., 200., 3e4, 200., 3e4, -1.5, flatLum)
	require.NoError(t, err)
	assert.Zero(t, p.Spectrum(100.))
	assert.Zero(t, p.Spectrum(4e4))
	assert.Greater(t, p.Spectrum(500.), p.Spectrum(1000.))
}

func TestAlive(t *testing.T) {
	p, err := NewPowerLaw(40., 10., 200., 3e4, 200., 3e4, -1.5, flatLum)
	require.NoError(t, err)
	assert.True(t, p.Alive(10.))
	assert.True(t, p.Alive(40.))
	assert.True(t, p.Alive(25.))
	assert.False(t, p.Alive(41.))
	assert.False(t, p.Alive(9.9))
	assert.False(t, p.IsLymanSource())

	lw, err := NewPowerLaw(40., 10., 9.5, 13.6, 9.5, 13.6, 0., flatLum)
	require.NoError(t, err)
	assert.True(t, lw.IsLymanSource())
}
