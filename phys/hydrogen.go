package phys

// NLyMax bounds the Lyman-series resonances treated by the sawtooth bands.
const NLyMax = 30

// ELyn returns the energy [eV] of the Lyman-n resonance (1s -> np).
func ELyn(n int) float64 {
	fn := float64(n)
	return ELL * (1. - 1./(fn*fn))
}

// frec[n] is the fraction of Lyman-n photons recycled into Lyman-alpha
// through radiative cascades, after Pritchard & Furlanetto (2006).
// Index 0 and 1 unused.
var frec = [NLyMax + 1]float64{
	0, 0,
	1.0, 0.0, 0.2609, 0.3078, 0.3259, 0.3353, 0.3410, 0.3448,
	0.3476, 0.3496, 0.3512, 0.3524, 0.3535, 0.3543, 0.3550, 0.3556,
	0.3561, 0.3565, 0.3569, 0.3572, 0.3575, 0.3578, 0.3580, 0.3582,
	0.3584, 0.3586, 0.3587, 0.3589, 0.3590,
}

// Frec returns the Lyman-alpha recycling fraction for the Lyman-n photon.
func Frec(n int) float64 {
	if n < 2 || n > NLyMax {
		panic("phys.Frec: n out of range")
	}
	return frec[n]
}
