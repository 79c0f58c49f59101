// Package esec models the fate of fast photo-electrons: the fractions of
// their energy deposited as heat, further ionization or Lyman-alpha
// excitation, as functions of the background ionized fraction.
package esec

import (
	"fmt"
	"math"
)

// Channel selects the deposition channel queried from a Model.
type Channel int

const (
	Heat Channel = iota
	IonHI
	IonHeI
	IonHeII
	LyA
)

const tiny = 1e-20

// Model evaluates deposition fractions by one of the analytic prescriptions.
type Model struct {
	method int
}

// New returns a deposition model selected by name:
//
//	"off"                - all photo-electron energy becomes heat
//	"shull-vansteenberg" - fits of Shull & van Steenberg (1985)
//	"ricotti"            - fits of Ricotti, Gnedin & Shull (2002)
//
// An unrecognized name is a configuration error.
func New(method string) (*Model, error) {
	switch method {
	case "off":
		return &Model{0}, nil
	case "shull-vansteenberg":
		return &Model{1}, nil
	case "ricotti":
		return &Model{2}, nil
	}
	return nil, fmt.Errorf(" esec.New: unrecognized method %q", method)
}

// Enabled reports whether any energy is routed away from heat.
func (m *Model) Enabled() bool { return m.method > 0 }

// DepositionFraction returns the fraction of a photo-electron's energy
// deposited in the given channel. x is the ionized fraction of the medium
// and E the electron energy [eV] (only the Ricotti fits use E).
func (m *Model) DepositionFraction(x, E float64, ch Channel) float64 {
	switch m.method {
	case 0:
		if ch == Heat {
			return 1.
		}
		return 0.
	case 1:
		return shullVanSteenberg(x, ch)
	case 2:
		return ricotti(x, E, ch)
	}
	panic("esec: bad method")
}

func shullVanSteenberg(x float64, ch Channel) float64 {
	switch ch {
	case Heat:
		if x <= 1e-4 {
			return 0.15
		}
		return 0.9971 * (1. - math.Pow(1.-math.Pow(x, 0.2663), 1.3163))
	case IonHI:
		return 0.3908 * math.Pow(1.-math.Pow(x, 0.4092), 1.7592)
	case IonHeI:
		return 0.0554 * math.Pow(1.-math.Pow(x, 0.4614), 1.6660)
	case IonHeII:
		return tiny
	case LyA: // assumes every excitation yields a Lyman-alpha photon
		return 0.4766 * math.Pow(1.-math.Pow(x, 0.2735), 1.5221)
	}
	return 0.
}

func ricotti(x, E float64, ch Channel) float64 {
	switch ch {
	case Heat:
		if x <= 1e-4 {
			return 0.15
		}
		if E < 11. {
			return 1. - tiny
		}
		return 3.9811*math.Pow(11./E, 0.7)*math.Pow(x, 0.4)*
			math.Pow(1.-math.Pow(x, 0.34), 2.) +
			(1. - math.Pow(1.-math.Pow(x, 0.2663), 1.3163))
	case IonHI:
		if E < 28. {
			return tiny
		}
		return math.Max(-0.6941*math.Pow(28./E, 0.4)*math.Pow(x, 0.2)*
			math.Pow(1.-math.Pow(x, 0.38), 2.)+
			0.3908*math.Pow(1.-math.Pow(x, 0.4092), 1.7592), tiny)
	case IonHeI:
		if E < 28. {
			return tiny
		}
		return math.Max(-0.0984*math.Pow(28./E, 0.4)*math.Pow(x, 0.2)*
			math.Pow(1.-math.Pow(x, 0.38), 2.)+
			0.0554*math.Pow(1.-math.Pow(x, 0.4614), 1.6660), tiny)
	case IonHeII:
		return tiny
	case LyA:
		return tiny
	}
	return 0.
}
