package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/astrohm/mgrb"
	"github.com/astrohm/mgrb/cosmo"
	"github.com/astrohm/mgrb/phys"
	"github.com/astrohm/mgrb/source"
	"github.com/maseology/mmio"
)

const defaultControlFP = "mgrb.mgrb"

func main() {

	controlFP := defaultControlFP
	if len(os.Args) > 1 {
		controlFP = os.Args[1]
	}

	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap(fmt.Sprintf("\nRun complete. n processes: %v", runtime.GOMAXPROCS(0)))

	cfg, pop, outprfx := readControl(controlFP)

	bkg, err := mgrb.NewBackground(cfg, cosmo.New(), pop)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	tt.Print("Background build complete\n")

	// continuum recursion
	it, err := bkg.FluxGenerator(0)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	var zs, gamma, heat []float64
	var fluxes [][]float64
	for {
		z, flux, ok := it.Next()
		if !ok {
			break
		}
		rs, err := bkg.UpdateRateCoefficients(mgrb.State{Z: z}, flux)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		zs = append(zs, z)
		gamma = append(gamma, rs[phys.HI].Ionization)
		heat = append(heat, rs[phys.HI].Heating)
		fluxes = append(fluxes, flux)
	}
	tt.Print("Flux recursion complete\n")

	if dir := filepath.Dir(outprfx); dir != "." {
		check(os.MkdirAll(dir, 0755))
	}
	check(mgrb.WriteFloats(outprfx+"z.bin", zs))
	check(mgrb.WriteFloats(outprfx+"gammaHI.bin", gamma))
	check(mgrb.WriteFloats(outprfx+"heatHI.bin", heat))
	check(mgrb.WriteGrid(outprfx+"flux.bin", fluxes))

	// Lyman bands
	if cfg.NLyMax >= 3 {
		st, err := bkg.SawtoothGenerator(0)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		var jlya []float64
		for {
			_, _, ja, ok := st.Next()
			if !ok {
				break
			}
			jlya = append(jlya, ja)
		}
		check(mgrb.WriteFloats(outprfx+"jlya.bin", jlya))
		tt.Print("Lyman band recursion complete\n")
	}
}

// readControl parses the key/value instruct file into the run
// configuration, a source population and the output prefix.
func readControl(fp string) (mgrb.Config, *source.Population, string) {
	ins := mmio.NewInstruct(fp)
	getf := func(k string, def float64) float64 {
		if v, ok := ins.Param[k]; ok {
			f, err := strconv.ParseFloat(v[0], 64)
			if err != nil {
				panic(err)
			}
			return f
		}
		return def
	}
	geti := func(k string, def int) int {
		if v, ok := ins.Param[k]; ok {
			i, err := strconv.Atoi(v[0])
			if err != nil {
				panic(err)
			}
			return i
		}
		return def
	}
	gets := func(k, def string) string {
		if v, ok := ins.Param[k]; ok {
			return v[0]
		}
		return def
	}

	cfg := mgrb.Config{
		Zi:                  getf("zi", 40.),
		Zf:                  getf("zf", 10.),
		L:                   geti("nz", 400),
		Emin:                getf("emin", 200.),
		Emax:                getf("emax", 3e4),
		NLyMax:              geti("nlymax", 0),
		SecondaryElectrons:  gets("esec", "off"),
		SampledIntegrator:   gets("sampled", "simps"),
		UnsampledIntegrator: gets("unsampled", "quad"),
		Nwrkrs:              geti("nwrkrs", runtime.NumCPU()),
		LymanContinuum:      geti("lycontinuum", 1) != 0,
		LymanInjected:       geti("lyinjected", 1) != 0,
	}
	switch gets("helium", "off") {
	case "off":
		cfg.Helium = mgrb.HeliumOff
	case "approx":
		cfg.Helium = mgrb.HeliumApprox
	case "full":
		cfg.Helium = mgrb.HeliumFull
	default:
		panic("unrecognized helium mode")
	}
	if gets("rates", "peratom") == "volumetric" {
		cfg.Rate = mgrb.Volumetric
	}
	if d, ok := ins.Param["taudir"]; ok {
		cfg.TauDirs = d
	}

	// a power-law population with luminosity density rho*(1+z)^beta
	rho, beta := getf("lum", 1e-32), getf("lumbeta", 0.)
	pop, err := source.NewPowerLaw(
		getf("zform", 60.), getf("zdead", 5.),
		getf("popemin", cfg.Emin), getf("popemax", cfg.Emax),
		getf("eminnorm", 200.), getf("emaxnorm", 3e4),
		getf("alpha", -1.5),
		func(z float64) float64 { return rho * math.Pow(1.+z, beta) })
	if err != nil {
		panic(err)
	}

	return cfg, pop, gets("outprfx", "out/mgrb.")
}

func check(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
