package mgrb

import (
	"fmt"
	"math"
	"strings"

	"github.com/maseology/mmio"
)

// table-matching tolerances: a candidate's energy bound may deviate from
// the request by 1% relative or 100 eV absolute; redshift bounds must
// cover the request to within ztol.
const (
	egyTolRel = 1e-2
	egyTolAbs = 100.
	ztol      = 1e-2
)

var tauFormats = [...]string{"gob", "db", "tsv"}

// FindTau locates a persisted optical-depth table compatible with the
// requested metadata, searching dirs in order. It first probes the exact
// canonical name per format, then scans each directory for tables whose
// parsed metadata is close enough. An exact-dimension match in a preferred
// format wins over a merely tolerable one.
func FindTau(dirs []string, want TauMeta) (string, bool) {
	for _, dir := range dirs {
		dir = strings.TrimSuffix(dir, "/") + "/"
		for _, f := range tauFormats {
			m := want
			m.Format = f
			if _, ok := mmio.FileExists(dir + m.Name()); ok {
				return dir + m.Name(), true
			}
		}
	}

	var perfect, tolerable string
	rankP, rankT := len(tauFormats), len(tauFormats)
	for _, dir := range dirs {
		dir = strings.TrimSuffix(dir, "/") + "/"
		fps, err := mmio.FileList(dir)
		if err != nil {
			continue
		}
		for _, fp := range fps {
			m, ok := parseTauName(mmio.FileName(fp, true))
			if !ok {
				continue
			}
			exact, ok := compatibleTau(m, want)
			if !ok {
				continue
			}
			r := formatRank(m.Format)
			if exact && r < rankP {
				perfect, rankP = dir+mmio.FileName(fp, true), r
			} else if !exact && r < rankT {
				tolerable, rankT = dir+mmio.FileName(fp, true), r
			}
		}
	}
	if perfect != "" {
		return perfect, true
	}
	if tolerable != "" {
		return tolerable, true
	}
	return "", false
}

// compatibleTau reports whether a candidate table can serve the request,
// and whether the fit is exact. Species and redshift-bin count are
// dealbreakers, as is a table that stops short of the requested zmax; the
// energy bounds may deviate within tolerance.
func compatibleTau(m, want TauMeta) (exact, ok bool) {
	if m.Species != want.Species || m.L != want.L {
		return false, false
	}
	if m.Zmax < want.Zmax-ztol || m.Zmin > want.Zmin+ztol {
		return false, false
	}
	e0, we0 := math.Pow(10., m.LogE0), math.Pow(10., want.LogE0)
	e1, we1 := math.Pow(10., m.LogE1), math.Pow(10., want.LogE1)
	if !energyClose(e0, we0) || !energyClose(e1, we1) {
		return false, false
	}
	return m.N == want.N && m.LogE0 == want.LogE0 && m.LogE1 == want.LogE1, true
}

func energyClose(a, b float64) bool {
	d := math.Abs(a - b)
	return d <= egyTolAbs || d <= egyTolRel*math.Max(a, b)
}

func formatRank(f string) int {
	for i, ff := range tauFormats {
		if f == ff {
			return i
		}
	}
	return len(tauFormats)
}

// LoadTau reads a table and aligns it to the grid. The table's redshift
// axis must match bin for bin; energy columns are matched to the nearest
// table column, and grid bins falling off the table's energy range within
// tolerance are patched to +Inf (fully absorbed) rather than extrapolated.
func LoadTau(fp string, g *Grid) (*TauTable, error) {
	t, err := loadTauFile(fp)
	if err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf(" tau.LoadTau %s: %v", fp, err)
	}
	if len(t.Z) != g.L {
		return nil, fmt.Errorf(" tau.LoadTau %s: %d redshift bins, grid has %d", fp, len(t.Z), g.L)
	}
	if math.Abs(t.Z[0]-g.Z[0]) > ztol || math.Abs(t.Z[g.L-1]-g.Z[g.L-1]) > ztol {
		return nil, fmt.Errorf(" tau.LoadTau %s: redshift bounds [%.3f,%.3f] do not cover [%.3f,%.3f]",
			fp, t.Z[0], t.Z[g.L-1], g.Z[0], g.Z[g.L-1])
	}

	out := &TauTable{
		Z:    g.Z,
		E:    g.E,
		Tau:  make([][]float64, g.L),
		Meta: metaOf(g.Z, g.E, t.Meta.Species, t.Meta.Format),
	}
	patched := 0
	cols := make([]int, g.N) // grid bin -> table column, -1 for patched
	for n, E := range g.E {
		j := nearestLog(t.E, E)
		if energyClose(t.E[j], E) {
			cols[n] = j
			continue
		}
		if E < t.E[0] || E > t.E[len(t.E)-1] {
			cols[n] = -1
			patched++
			continue
		}
		return nil, fmt.Errorf(" tau.LoadTau %s: grid energy %.4g eV has no table column within tolerance", fp, E)
	}
	if patched > 0 {
		if patched > g.N/10 {
			return nil, fmt.Errorf(" tau.LoadTau %s: %d of %d energy bins off-table", fp, patched, g.N)
		}
		fmt.Printf("  tau: %d boundary energy bins off-table, patched to full absorption\n", patched)
	}

	for l := 0; l < g.L; l++ {
		row := make([]float64, g.N)
		for n, j := range cols {
			if j < 0 {
				row[n] = math.Inf(1)
			} else {
				row[n] = t.Tau[l][j]
			}
		}
		out.Tau[l] = row
	}
	return out, nil
}

// nearestLog returns the index of the sample in ascending e closest to
// target in log space.
func nearestLog(e []float64, target float64) int {
	lt := math.Log10(target)
	best, bd := 0, math.Inf(1)
	for i, v := range e {
		if d := math.Abs(math.Log10(v) - lt); d < bd {
			best, bd = i, d
		}
	}
	return best
}
