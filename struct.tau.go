package mgrb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TauMeta is the metadata contract a persisted optical-depth table must
// satisfy to be matched against a run: species composition, grid
// dimensions, and redshift/energy bounds. Format is the container suffix
// ("gob", "tsv" or "db").
type TauMeta struct {
	Species      string // "H" or "He"
	L, N         int
	Zmin, Zmax   float64
	LogE0, LogE1 float64 // log10 of the energy bounds [eV]
	Format       string
}

// TauTable is the 2-D absorption optical depth over the grid, frozen for
// the duration of a flux recursion unless retabulated by a dynamic
// ionization-history update.
type TauTable struct {
	Z, E []float64
	Tau  [][]float64 // [L][N]
	Meta TauMeta
}

// Name encodes the metadata into the canonical table file name, e.g.
// optical_depth_H_400x862_z_10-40_logE_2.3-4.5.gob
func (m TauMeta) Name() string {
	return fmt.Sprintf("optical_depth_%s_%dx%d_z_%d-%d_logE_%.2g-%.2g.%s",
		m.Species, m.L, m.N, int(math.Round(m.Zmin)), int(math.Round(m.Zmax)),
		m.LogE0, m.LogE1, m.Format)
}

// parseTauName inverts Name. Candidate files that do not follow the naming
// contract are reported with ok=false and skipped by the finder.
func parseTauName(fn string) (m TauMeta, ok bool) {
	const prefix = "optical_depth_"
	if !strings.HasPrefix(fn, prefix) {
		return m, false
	}
	rest := fn[len(prefix):]

	dot := strings.LastIndex(rest, ".")
	if dot < 0 {
		return m, false
	}
	m.Format = rest[dot+1:]
	rest = rest[:dot]

	parts := strings.Split(rest, "_")
	// species, LxN, "z", zmin-zmax, "logE", lo-hi
	if len(parts) != 6 || parts[2] != "z" || parts[4] != "logE" {
		return m, false
	}
	m.Species = parts[0]

	var err error
	if m.L, m.N, err = parseShape(parts[1]); err != nil {
		return m, false
	}
	if m.Zmin, m.Zmax, err = parsePair(parts[3]); err != nil {
		return m, false
	}
	if m.LogE0, m.LogE1, err = parsePair(parts[5]); err != nil {
		return m, false
	}
	return m, true
}

func parseShape(s string) (l, n int, err error) {
	i := strings.Index(s, "x")
	if i < 0 {
		return 0, 0, fmt.Errorf("no shape separator")
	}
	if l, err = strconv.Atoi(s[:i]); err != nil {
		return
	}
	n, err = strconv.Atoi(s[i+1:])
	return
}

func parsePair(s string) (lo, hi float64, err error) {
	i := strings.Index(s[1:], "-") // skip a leading sign
	if i < 0 {
		return 0, 0, fmt.Errorf("no bound separator")
	}
	i++
	if lo, err = strconv.ParseFloat(s[:i], 64); err != nil {
		return
	}
	hi, err = strconv.ParseFloat(s[i+1:], 64)
	return
}

// metaOf derives the metadata implied by a loaded table's axes.
func metaOf(z, E []float64, species, format string) TauMeta {
	return TauMeta{
		Species: species,
		L:       len(z), N: len(E),
		Zmin: z[0], Zmax: z[len(z)-1],
		LogE0:  math.Log10(E[0]),
		LogE1:  math.Log10(E[len(E)-1]),
		Format: format,
	}
}

// validate rejects tables carrying non-finite or negative entries; these
// indicate upstream numerical breakdown, never something to clamp.
func (t *TauTable) validate() error {
	if len(t.Z) != len(t.Tau) {
		return fmt.Errorf(" tau: %d redshifts vs %d table rows", len(t.Z), len(t.Tau))
	}
	for l, row := range t.Tau {
		if len(row) != len(t.E) {
			return fmt.Errorf(" tau: row %d has %d columns, want %d", l, len(row), len(t.E))
		}
		for n, v := range row {
			if math.IsNaN(v) || v < 0. {
				return fmt.Errorf(" tau: bad value %g at [%d,%d]", v, l, n)
			}
		}
	}
	return nil
}
