package dataset

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"go-ml.dev/pkg/zorros"
)

// readSQLite loads the `records` table of a SQLite dataset file. The
// textual encodings of sequence and label columns match the TSV format.
func readSQLite(path string) (Table, error) {
	// the driver would create an empty database at a typoed path
	if _, err := os.Stat(path); err != nil {
		return nil, zorros.Trace(err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	defer db.Close()
	rows, err := db.Query(`SELECT * FROM records`)
	if err != nil {
		return nil, zorros.Wrapf(err, "query %v: %v", path, err.Error())
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, zorros.Trace(err)
	}
	for _, name := range []string{"sequence", "label", "len", "bin"} {
		found := false
		for _, c := range cols {
			if c == name {
				found = true
			}
		}
		if !found {
			return nil, zorros.Errorf("%v: missing required column `%v`", path, name)
		}
	}
	var t Table
	for n := 1; rows.Next(); n++ {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err = rows.Scan(ptrs...); err != nil {
			return nil, zorros.Wrapf(err, "%v: record %d: %v", path, n, err.Error())
		}
		r, err := parseRecord(func(name string) (string, bool) {
			for i, c := range cols {
				if c == name && vals[i].Valid {
					return vals[i].String, true
				}
			}
			return "", false
		})
		if err != nil {
			return nil, zorros.Wrapf(err, "%v: record %d: %v", path, n, err.Error())
		}
		t = append(t, r)
	}
	if err = rows.Err(); err != nil {
		return nil, zorros.Trace(err)
	}
	return t, nil
}
