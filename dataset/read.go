package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ravaghi/PDT/fu"
	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/zorros"
)

/*
ReadTable loads a persisted tabular dataset. Relative paths resolve
against the PDT dataset cache directory. The format is chosen by
extension: `.db`/`.sqlite` files are read as SQLite databases, anything
else as tab-separated text, transparently decompressed when the name
ends in `.xz`.

Required columns are sequence, label, len and bin; pair and tissue are
read when present. Sequences are comma-separated integer codes, labels
comma-separated floats.
*/
func ReadTable(path string) (Table, error) {
	p := fu.DatasetPath(path)
	if strings.HasSuffix(p, ".db") || strings.HasSuffix(p, ".sqlite") {
		return readSQLite(p)
	}
	return readText(p)
}

func readText(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer f.Close()
	var rd io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		if rd, err = xz.NewReader(f); err != nil {
			return nil, zorros.Wrapf(err, "decompress %v: %v", path, err.Error())
		}
	}
	cr := csv.NewReader(rd)
	cr.Comma = '\t'
	header, err := cr.Read()
	if err != nil {
		return nil, zorros.Wrapf(err, "read header of %v: %v", path, err.Error())
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"sequence", "label", "len", "bin"} {
		if _, ok := col[name]; !ok {
			return nil, zorros.Errorf("%v: missing required column `%v`", path, name)
		}
	}
	var t Table
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, zorros.Wrapf(err, "%v:%d: %v", path, line, err.Error())
		}
		r, err := parseRecord(func(name string) (string, bool) {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return "", false
			}
			return row[i], true
		})
		if err != nil {
			return nil, zorros.Wrapf(err, "%v:%d: %v", path, line, err.Error())
		}
		t = append(t, r)
	}
	return t, nil
}

// parseRecord builds a record from textual column values; field reports
// whether the named column exists for this row.
func parseRecord(field func(string) (string, bool)) (Record, error) {
	var r Record
	var err error
	s, _ := field("sequence")
	if r.Sequence, err = parseInts(s); err != nil {
		return r, zorros.Wrapf(err, "column sequence: %v", err.Error())
	}
	s, _ = field("label")
	if r.Label, err = parseFloats(s); err != nil {
		return r, zorros.Wrapf(err, "column label: %v", err.Error())
	}
	s, _ = field("len")
	if r.Len, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return r, zorros.Wrapf(err, "column len: %v", err.Error())
	}
	s, _ = field("bin")
	if r.Bin, err = strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return r, zorros.Wrapf(err, "column bin: %v", err.Error())
	}
	if s, ok := field("pair"); ok && s != "" {
		if r.Pair, err = parseInts(s); err != nil {
			return r, zorros.Wrapf(err, "column pair: %v", err.Error())
		}
	}
	if s, ok := field("tissue"); ok && s != "" {
		if r.Tissue, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
			return r, zorros.Wrapf(err, "column tissue: %v", err.Error())
		}
	}
	return r, nil
}

func parseInts(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	a := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		a[i] = v
	}
	return a, nil
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	a := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		a[i] = v
	}
	return a, nil
}
