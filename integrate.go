package mgrb

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
)

// sampledIntegrator integrates f sampled at abscissae x.
type sampledIntegrator func(x, f []float64) (float64, error)

// newSampledIntegrator resolves a sampled-quadrature method by name:
// "simps", "trapz" or "romb". Unknown names are configuration errors.
func newSampledIntegrator(name string) (sampledIntegrator, error) {
	switch name {
	case "simps":
		return func(x, f []float64) (float64, error) {
			if len(x) != len(f) {
				return 0, fmt.Errorf(" integrate: %d abscissae vs %d samples", len(x), len(f))
			}
			return integrate.Simpsons(x, f), nil
		}, nil
	case "trapz":
		return func(x, f []float64) (float64, error) {
			if len(x) != len(f) {
				return 0, fmt.Errorf(" integrate: %d abscissae vs %d samples", len(x), len(f))
			}
			return integrate.Trapezoidal(x, f), nil
		}, nil
	case "romb":
		return func(x, f []float64) (float64, error) {
			if len(x) != len(f) {
				return 0, fmt.Errorf(" integrate: %d abscissae vs %d samples", len(x), len(f))
			}
			if k := len(f) - 1; k&(k-1) != 0 {
				return 0, fmt.Errorf(" integrate: romb needs 2^k+1 samples, got %d", len(f))
			}
			return integrate.Romberg(f, x[1]-x[0]), nil
		}, nil
	}
	return nil, fmt.Errorf(" integrate: unrecognized sampled integrator %q", name)
}

// quadIntegrator integrates a function of one variable over [a,b].
type quadIntegrator func(f func(float64) float64, a, b float64) float64

// newQuadIntegrator resolves an unsampled-quadrature method by name:
// "quad" (adaptive Simpson) or "romb" (Romberg).
func newQuadIntegrator(name string, rtol, atol float64, divmax int) (quadIntegrator, error) {
	switch name {
	case "quad":
		return func(f func(float64) float64, a, b float64) float64 {
			return adaptiveSimpson(f, a, b, rtol, atol, divmax)
		}, nil
	case "romb":
		return func(f func(float64) float64, a, b float64) float64 {
			return romberg(f, a, b, atol, divmax)
		}, nil
	}
	return nil, fmt.Errorf(" integrate: unrecognized integrator %q", name)
}

func adaptiveSimpson(f func(float64) float64, a, b, rtol, atol float64, depth int) float64 {
	m := 0.5 * (a + b)
	fa, fm, fb := f(a), f(m), f(b)
	whole := (b - a) / 6. * (fa + 4.*fm + fb)
	return adaptStep(f, a, b, fa, fm, fb, whole, rtol, atol, depth)
}

func adaptStep(f func(float64) float64, a, b, fa, fm, fb, whole, rtol, atol float64, depth int) float64 {
	m := 0.5 * (a + b)
	lm, rm := 0.5*(a+m), 0.5*(m+b)
	flm, frm := f(lm), f(rm)
	left := (m - a) / 6. * (fa + 4.*flm + fm)
	right := (b - m) / 6. * (fm + 4.*frm + fb)
	if depth <= 0 || math.Abs(left+right-whole) <= 15.*(atol+rtol*math.Abs(left+right)) {
		return left + right + (left+right-whole)/15.
	}
	return adaptStep(f, a, m, fa, flm, fm, left, rtol, 0.5*atol, depth-1) +
		adaptStep(f, m, b, fm, frm, fb, right, rtol, 0.5*atol, depth-1)
}

func romberg(f func(float64) float64, a, b, tol float64, divmax int) float64 {
	r := make([][]float64, divmax+1)
	h := b - a
	r[0] = []float64{0.5 * h * (f(a) + f(b))}
	for i := 1; i <= divmax; i++ {
		h *= 0.5
		sum := 0.
		for k := 1; k <= 1<<(i-1); k++ {
			sum += f(a + float64(2*k-1)*h)
		}
		r[i] = make([]float64, i+1)
		r[i][0] = 0.5*r[i-1][0] + h*sum
		p := 4.
		for j := 1; j <= i; j++ {
			r[i][j] = r[i][j-1] + (r[i][j-1]-r[i-1][j-1])/(p-1.)
			p *= 4.
		}
		if i > 2 && math.Abs(r[i][i]-r[i-1][i-1]) < tol {
			return r[i][i]
		}
	}
	return r[divmax][divmax]
}
