package dataset

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
	"gotest.tools/assert"
)

const tsvFixture = "sequence\tlabel\tlen\tbin\n" +
	"0,1,2\t1\t3\t0\n" +
	"3,0\t0\t2\t0\n" +
	"1,1,1,1\t0,1,0\t4\t1\n"

func Test_ReadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.tsv")
	assert.NilError(t, os.WriteFile(path, []byte(tsvFixture), 0o644))
	q, err := ReadTable(path)
	assert.NilError(t, err)
	assert.Equal(t, len(q), 3)
	assert.DeepEqual(t, q[0].Sequence, []int64{0, 1, 2})
	assert.DeepEqual(t, q[0].Label, []float64{1})
	assert.Equal(t, q[0].Len, 3)
	assert.Equal(t, q[0].Bin, 0)
	assert.DeepEqual(t, q[2].Label, []float64{0, 1, 0})
	assert.Equal(t, q[2].Bin, 1)
}

func Test_ReadTSVXZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.tsv.xz")
	f, err := os.Create(path)
	assert.NilError(t, err)
	w, err := xz.NewWriter(f)
	assert.NilError(t, err)
	_, err = w.Write([]byte(tsvFixture))
	assert.NilError(t, err)
	assert.NilError(t, w.Close())
	assert.NilError(t, f.Close())

	q, err := ReadTable(path)
	assert.NilError(t, err)
	assert.Equal(t, len(q), 3)
	assert.DeepEqual(t, q[1].Sequence, []int64{3, 0})
}

func Test_ReadTSVMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.tsv")
	assert.NilError(t, os.WriteFile(path, []byte("sequence\tlabel\tlen\n0\t1\t1\n"), 0o644))
	_, err := ReadTable(path)
	assert.ErrorContains(t, err, "bin")
}

func Test_ReadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.db")
	db, err := sql.Open("sqlite3", path)
	assert.NilError(t, err)
	_, err = db.Exec(`CREATE TABLE records (
		sequence TEXT, label TEXT, len INTEGER, bin INTEGER, pair TEXT, tissue INTEGER)`)
	assert.NilError(t, err)
	_, err = db.Exec(`INSERT INTO records VALUES
		('0,1,2', '1', 3, 0, '2,1,0', 4),
		('3,0', '0', 2, 0, NULL, NULL)`)
	assert.NilError(t, err)
	assert.NilError(t, db.Close())

	q, err := ReadTable(path)
	assert.NilError(t, err)
	assert.Equal(t, len(q), 2)
	assert.DeepEqual(t, q[0].Sequence, []int64{0, 1, 2})
	assert.DeepEqual(t, q[0].Pair, []int64{2, 1, 0})
	assert.Equal(t, q[0].Tissue, int64(4))
	assert.Equal(t, q[1].Len, 2)
	assert.Assert(t, q[1].Pair == nil)
}

func Test_ReadSQLiteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")
	_, err := ReadTable(path)
	assert.Assert(t, err != nil)
	// a bad path must not leave an empty database behind
	_, err = os.Stat(path)
	assert.Assert(t, os.IsNotExist(err))
}

func Test_ReadSQLiteMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.db")
	db, err := sql.Open("sqlite3", path)
	assert.NilError(t, err)
	_, err = db.Exec(`CREATE TABLE records (sequence TEXT, label TEXT, len INTEGER)`)
	assert.NilError(t, err)
	assert.NilError(t, db.Close())
	_, err = ReadTable(path)
	assert.ErrorContains(t, err, "bin")
}
