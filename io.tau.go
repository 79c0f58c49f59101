package mgrb

import (
	"bufio"
	"database/sql"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// Save writes the table to fp in the container format implied by the
// extension. The formats are semantically interchangeable to Load.
func (t *TauTable) Save(fp string) error {
	switch format(fp) {
	case "gob":
		return t.saveGob(fp)
	case "tsv":
		return t.saveTSV(fp)
	case "db":
		return t.saveDB(fp)
	}
	return fmt.Errorf(" tau.Save: unrecognized format %q", format(fp))
}

func loadTauFile(fp string) (*TauTable, error) {
	switch format(fp) {
	case "gob":
		return loadGobTau(fp)
	case "tsv":
		return loadTSVTau(fp)
	case "db":
		return loadDBTau(fp)
	}
	return nil, fmt.Errorf(" tau.load: unrecognized format %q", format(fp))
}

func format(fp string) string {
	i := strings.LastIndex(fp, ".")
	if i < 0 {
		return ""
	}
	return fp[i+1:]
}

func (t *TauTable) saveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" tau.saveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(t); err != nil {
		f.Close()
		return fmt.Errorf(" tau.saveGob %v", err)
	}
	return f.Close()
}

func loadGobTau(fp string) (*TauTable, error) {
	var t TauTable
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	if err := gob.NewDecoder(f).Decode(&t); err != nil {
		f.Close()
		return nil, fmt.Errorf(" tau.loadGob %v", err)
	}
	f.Close()
	return &t, nil
}

// saveTSV writes a headered text container: a comment line with the bounds,
// explicit z and E axis rows, then the L tau rows. Values are %.17g so the
// round trip is exact.
func (t *TauTable) saveTSV(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" tau.saveTSV %v", err)
	}
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# species=%s zmin=%.4g zmax=%.4g Emin=%.8e Emax=%.8e\n",
		t.Meta.Species, t.Z[0], t.Z[len(t.Z)-1], t.E[0], t.E[len(t.E)-1])
	writeRow(w, "z", t.Z)
	writeRow(w, "E", t.E)
	for _, row := range t.Tau {
		writeRow(w, "tau", row)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf(" tau.saveTSV %v", err)
	}
	return f.Close()
}

func writeRow(w *bufio.Writer, tag string, v []float64) {
	w.WriteString(tag)
	for _, x := range v {
		w.WriteByte('\t')
		if math.IsInf(x, 1) {
			w.WriteString("inf")
		} else {
			w.WriteString(strconv.FormatFloat(x, 'g', 17, 64))
		}
	}
	w.WriteByte('\n')
}

func loadTSVTau(fp string) (*TauTable, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	t := &TauTable{}
	species := "H"
	for sc.Scan() {
		ln := sc.Text()
		if strings.HasPrefix(ln, "#") {
			for _, kv := range strings.Fields(ln[1:]) {
				if strings.HasPrefix(kv, "species=") {
					species = kv[len("species="):]
				}
			}
			continue
		}
		tag, vals, err := parseRow(ln)
		if err != nil {
			return nil, fmt.Errorf(" tau.loadTSV %v", err)
		}
		switch tag {
		case "z":
			t.Z = vals
		case "E":
			t.E = vals
		case "tau":
			t.Tau = append(t.Tau, vals)
		default:
			return nil, fmt.Errorf(" tau.loadTSV: unknown row tag %q", tag)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf(" tau.loadTSV %v", err)
	}
	if len(t.Z) == 0 || len(t.E) == 0 {
		return nil, fmt.Errorf(" tau.loadTSV: missing axis rows")
	}
	t.Meta = metaOf(t.Z, t.E, species, "tsv")
	return t, nil
}

func parseRow(ln string) (string, []float64, error) {
	fields := strings.Split(ln, "\t")
	if len(fields) < 2 {
		return "", nil, fmt.Errorf("short row")
	}
	vals := make([]float64, len(fields)-1)
	for i, s := range fields[1:] {
		if s == "inf" {
			vals[i] = math.Inf(1)
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", nil, err
		}
		vals[i] = v
	}
	return fields[0], vals, nil
}

// saveDB writes the table into a sqlite container: an axis table for the
// two grids and one row per tau cell.
func (t *TauTable) saveDB(fp string) error {
	db, err := sql.Open("sqlite", fp)
	if err != nil {
		return fmt.Errorf(" tau.saveDB %v", err)
	}
	defer db.Close()

	schema := `
	CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
	CREATE TABLE IF NOT EXISTS axis (name TEXT, idx INTEGER, val REAL, PRIMARY KEY (name, idx));
	CREATE TABLE IF NOT EXISTS tau (l INTEGER, n INTEGER, val REAL, PRIMARY KEY (l, n));`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf(" tau.saveDB %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf(" tau.saveDB %v", err)
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('species', ?)`,
		t.Meta.Species); err != nil {
		tx.Rollback()
		return fmt.Errorf(" tau.saveDB %v", err)
	}
	axis, err := tx.Prepare(`INSERT OR REPLACE INTO axis (name, idx, val) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf(" tau.saveDB %v", err)
	}
	for i, v := range t.Z {
		if _, err := axis.Exec("z", i, v); err != nil {
			tx.Rollback()
			return fmt.Errorf(" tau.saveDB %v", err)
		}
	}
	for i, v := range t.E {
		if _, err := axis.Exec("E", i, v); err != nil {
			tx.Rollback()
			return fmt.Errorf(" tau.saveDB %v", err)
		}
	}
	cell, err := tx.Prepare(`INSERT OR REPLACE INTO tau (l, n, val) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf(" tau.saveDB %v", err)
	}
	for l, row := range t.Tau {
		for n, v := range row {
			if math.IsInf(v, 1) {
				v = math.MaxFloat64 // sqlite REAL cannot hold +Inf
			}
			if _, err := cell.Exec(l, n, v); err != nil {
				tx.Rollback()
				return fmt.Errorf(" tau.saveDB %v", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf(" tau.saveDB %v", err)
	}
	return nil
}

func loadDBTau(fp string) (*TauTable, error) {
	db, err := sql.Open("sqlite", fp)
	if err != nil {
		return nil, fmt.Errorf(" tau.loadDB %v", err)
	}
	defer db.Close()

	species := "H"
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'species'`).
		Scan(&species); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf(" tau.loadDB %v", err)
	}

	readAxis := func(name string) ([]float64, error) {
		rows, err := db.Query(`SELECT val FROM axis WHERE name = ? ORDER BY idx`, name)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var o []float64
		for rows.Next() {
			var v float64
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			o = append(o, v)
		}
		return o, rows.Err()
	}

	t := &TauTable{}
	if t.Z, err = readAxis("z"); err != nil {
		return nil, fmt.Errorf(" tau.loadDB %v", err)
	}
	if t.E, err = readAxis("E"); err != nil {
		return nil, fmt.Errorf(" tau.loadDB %v", err)
	}
	if len(t.Z) == 0 || len(t.E) == 0 {
		return nil, fmt.Errorf(" tau.loadDB: missing axes in %s", fp)
	}

	t.Tau = make([][]float64, len(t.Z))
	for l := range t.Tau {
		t.Tau[l] = make([]float64, len(t.E))
	}
	rows, err := db.Query(`SELECT l, n, val FROM tau`)
	if err != nil {
		return nil, fmt.Errorf(" tau.loadDB %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l, n int
		var v float64
		if err := rows.Scan(&l, &n, &v); err != nil {
			return nil, fmt.Errorf(" tau.loadDB %v", err)
		}
		if l < 0 || l >= len(t.Z) || n < 0 || n >= len(t.E) {
			return nil, fmt.Errorf(" tau.loadDB: cell [%d,%d] outside %dx%d", l, n, len(t.Z), len(t.E))
		}
		if v == math.MaxFloat64 {
			v = math.Inf(1)
		}
		t.Tau[l][n] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(" tau.loadDB %v", err)
	}
	t.Meta = metaOf(t.Z, t.E, species, "db")
	return t, nil
}
