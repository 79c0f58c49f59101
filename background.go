package mgrb

import (
	"fmt"
	"runtime"

	"github.com/astrohm/mgrb/cosmo"
	"github.com/astrohm/mgrb/esec"
	"github.com/astrohm/mgrb/phys"
	"github.com/astrohm/mgrb/source"
)

// Config collects the run controls for a Background.
type Config struct {
	Zi, Zf     float64 // redshift interval, Zi > Zf
	L          int     // redshift bins
	Emin, Emax float64 // continuum band [eV]
	NLyMax     int     // highest Lyman resonance of the sawtooth bands (0 disables)

	Helium             HeliumMode
	Rate               RateMode
	SecondaryElectrons string // esec method name

	SampledIntegrator   string // "simps", "trapz", "romb"
	UnsampledIntegrator string // "quad", "romb"

	TauDirs []string // searched for persisted tables; first dir receives new ones
	Nwrkrs  int
	Flux0   []float64 // boundary flux at Zi, nil for zero

	LymanContinuum, LymanInjected bool
}

func (cfg *Config) setDefaults() {
	if cfg.SecondaryElectrons == "" {
		cfg.SecondaryElectrons = "off"
	}
	if cfg.SampledIntegrator == "" {
		cfg.SampledIntegrator = "simps"
	}
	if cfg.UnsampledIntegrator == "" {
		cfg.UnsampledIntegrator = "quad"
	}
	if cfg.Nwrkrs < 1 {
		cfg.Nwrkrs = runtime.NumCPU()
	}
}

// Background owns everything one run needs: the expansion model, the
// source populations, the matched grids, the optical-depth table and the
// per-population emissivities, plus the rate reducer.
type Background struct {
	Cfg  Config
	Cos  *cosmo.Cosmology
	Pops []*source.Population

	Grid *Grid   // continuum band
	Saw  []*Grid // one per Lyman resonance, nil when disabled
	Tau  *TauTable

	Ehat    [][][]float64   // [pop][l][n], continuum
	SawEhat [][][][]float64 // [pop][sub-grid][l][n]

	Rates *RateCalculator

	tab *Tabulator
}

// NewBackground builds the grids, finds or tabulates the optical depth,
// and tabulates emissivities for every population.
func NewBackground(cfg Config, c *cosmo.Cosmology, pops ...*source.Population) (*Background, error) {
	cfg.setDefaults()
	if len(pops) == 0 {
		return nil, fmt.Errorf(" mgrb.NewBackground: no source populations")
	}

	g, err := NewGrid(cfg.Zi, cfg.Zf, cfg.L, cfg.Emin, cfg.Emax)
	if err != nil {
		return nil, fmt.Errorf(" mgrb.NewBackground: %v", err)
	}
	b := &Background{Cfg: cfg, Cos: c, Pops: pops, Grid: g}

	if cfg.NLyMax >= 3 {
		for _, p := range pops {
			if p.IsLymanSource() {
				if b.Saw, err = NewSawtoothGrids(cfg.Zi, cfg.Zf, cfg.L, cfg.NLyMax); err != nil {
					return nil, fmt.Errorf(" mgrb.NewBackground: %v", err)
				}
				break
			}
		}
	}

	if b.tab, err = NewTabulator(c, cfg.Helium, NeutralIGM, cfg.UnsampledIntegrator); err != nil {
		return nil, fmt.Errorf(" mgrb.NewBackground: %v", err)
	}
	if err = b.acquireTau(); err != nil {
		return nil, fmt.Errorf(" mgrb.NewBackground: %v", err)
	}

	b.Ehat = make([][][]float64, len(pops))
	b.SawEhat = make([][][][]float64, len(pops))
	for i, p := range pops {
		b.Ehat[i] = TabulateEmissivity(g, c, p)
		if b.Saw != nil && p.IsLymanSource() {
			b.SawEhat[i] = make([][][]float64, len(b.Saw))
			for j, sg := range b.Saw {
				b.SawEhat[i][j] = TabulateEmissivity(sg, c, p)
			}
		}
	}

	dep, err := esec.New(cfg.SecondaryElectrons)
	if err != nil {
		return nil, fmt.Errorf(" mgrb.NewBackground: %v", err)
	}
	if b.Rates, err = NewRateCalculator(g, c, cfg.Helium, cfg.Rate, dep,
		cfg.SampledIntegrator, cfg.UnsampledIntegrator); err != nil {
		return nil, fmt.Errorf(" mgrb.NewBackground: %v", err)
	}
	return b, nil
}

// acquireTau loads a compatible persisted table, or tabulates one and
// persists it to the first search directory.
func (b *Background) acquireTau() error {
	want := metaOf(b.Grid.Z, b.Grid.E, b.Cfg.Helium.speciesTag(), "gob")
	if fp, ok := FindTau(b.Cfg.TauDirs, want); ok {
		fmt.Printf(" loading optical depth table %s\n", fp)
		t, err := LoadTau(fp, b.Grid)
		if err == nil {
			b.Tau = t
			return nil
		}
		// a near-match that will not align is no worse than no table
		fmt.Printf(" %v\n", err)
	}

	println(" no usable optical depth table found, tabulating..")
	b.Tau = b.tab.Tabulate(b.Grid, b.Cfg.Nwrkrs)
	if len(b.Cfg.TauDirs) > 0 {
		fp := b.Cfg.TauDirs[0] + "/" + b.Tau.Meta.Name()
		if err := b.Tau.Save(fp); err != nil {
			return err
		}
		fmt.Printf(" saved %s\n", fp)
	}
	return nil
}

// FluxGenerator returns a fresh continuum recursion for population popid.
func (b *Background) FluxGenerator(popid int) (*FluxIterator, error) {
	if popid < 0 || popid >= len(b.Pops) {
		return nil, fmt.Errorf(" mgrb.FluxGenerator: no population %d", popid)
	}
	return NewFluxIterator(b.Grid, b.Tau, b.Ehat[popid], b.Cfg.Flux0)
}

// SawtoothGenerator returns a fresh lock-step Lyman-band recursion for
// population popid.
func (b *Background) SawtoothGenerator(popid int) (*SawtoothIterator, error) {
	if popid < 0 || popid >= len(b.Pops) {
		return nil, fmt.Errorf(" mgrb.SawtoothGenerator: no population %d", popid)
	}
	if b.Saw == nil || b.SawEhat[popid] == nil {
		return nil, fmt.Errorf(" mgrb.SawtoothGenerator: population %d has no Lyman bands", popid)
	}
	return NewSawtoothIterator(b.Saw, b.SawEhat[popid], b.Cfg.LymanContinuum, b.Cfg.LymanInjected)
}

// UpdateRateCoefficients reduces a flux snapshot to per-species rate
// coefficients. The result is ephemeral: valid for the step it was
// computed at, indexed by phys.Species.
func (b *Background) UpdateRateCoefficients(st State, flux []float64) ([3]RateSet, error) {
	var out [3]RateSet
	for _, sp := range []phys.Species{phys.HI, phys.HeI, phys.HeII} {
		if sp != phys.HI && b.Cfg.Helium == HeliumOff {
			continue
		}
		var rs RateSet
		var err error
		if rs.Ionization, err = b.Rates.IonizationRate(sp, flux, st); err != nil {
			return out, err
		}
		if rs.Secondary, err = b.Rates.SecondaryIonizationRate(sp, phys.HI, flux, st); err != nil {
			return out, err
		}
		if rs.Heating, err = b.Rates.HeatingRate(sp, flux, st); err != nil {
			return out, err
		}
		out[sp] = rs
	}
	return out, nil
}

// SetIonizationHistory swaps the ionization history behind the optical
// depth and retabulates in place, for runs that couple the background to
// an evolving medium.
func (b *Background) SetIonizationHistory(xf IonizedFraction, nwrkrs int) error {
	if nwrkrs < 1 {
		nwrkrs = b.Cfg.Nwrkrs
	}
	b.tab.XHII = xf
	if b.Cfg.Helium == HeliumFull {
		b.tab.XHeII, b.tab.XHeIII = xf, NeutralIGM
	}
	b.Tau = b.tab.Tabulate(b.Grid, nwrkrs)
	return nil
}
