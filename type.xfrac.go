package mgrb

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// IonizedFraction is the ionization history fed to the optical depth
// integrand. It is a tagged variant - a constant, a function of redshift,
// or a sampled series - resolved once at setup rather than branched on at
// every evaluation.
type IonizedFraction struct {
	at func(z float64) float64
}

// NeutralIGM is the default history: fully neutral at all redshifts.
var NeutralIGM = ConstantX(0.)

// ConstantX wraps a redshift-independent ionized fraction.
func ConstantX(v float64) IonizedFraction {
	return IonizedFraction{at: func(float64) float64 { return v }}
}

// FuncX wraps an arbitrary ionization history x(z).
func FuncX(f func(z float64) float64) IonizedFraction {
	return IonizedFraction{at: f}
}

// SampledX wraps a sampled series (z ascending) interpolated piecewise
// linearly; evaluations outside the sampled range clamp to the endpoints.
func SampledX(z, x []float64) (IonizedFraction, error) {
	if len(z) != len(x) || len(z) < 2 {
		return IonizedFraction{}, fmt.Errorf(" mgrb.SampledX: need matching series of >=2 points")
	}
	for i := 1; i < len(z); i++ {
		if z[i] <= z[i-1] {
			return IonizedFraction{}, fmt.Errorf(" mgrb.SampledX: redshifts not strictly ascending at %d", i)
		}
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(z, x); err != nil {
		return IonizedFraction{}, fmt.Errorf(" mgrb.SampledX: %v", err)
	}
	lo, hi := z[0], z[len(z)-1]
	return IonizedFraction{at: func(zz float64) float64 {
		if zz <= lo {
			return x[0]
		}
		if zz >= hi {
			return x[len(x)-1]
		}
		return pl.Predict(zz)
	}}, nil
}

// At evaluates the history at redshift z.
func (xf IonizedFraction) At(z float64) float64 {
	if xf.at == nil {
		return 0.
	}
	return xf.at(z)
}
