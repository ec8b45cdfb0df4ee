package dataset

import (
	"testing"

	"golang.org/x/xerrors"
	"gotest.tools/assert"
)

func Test_CreatorPassthrough(t *testing.T) {
	q := makeTable(map[int]int{0: 3})
	d, err := NewDatasetCreator(q, 2, false, nil)
	assert.NilError(t, err)
	assert.Equal(t, d.Len(), 3)
	r, err := d.At(2)
	assert.NilError(t, err)
	assert.Equal(t, r.Sequence[0], int64(2))
}

func Test_CreatorVarLen(t *testing.T) {
	d, err := NewDatasetCreator(makeTable(map[int]int{0: 3}), 2, true, nil)
	assert.NilError(t, err)
	assert.Equal(t, d.Len(), 4)
}

func Test_CreatorIndexRange(t *testing.T) {
	d, err := NewDatasetCreator(makeTable(map[int]int{0: 3}), 2, false, nil)
	assert.NilError(t, err)
	for _, i := range []int{-1, 3, 100} {
		_, err = d.At(i)
		assert.Assert(t, xerrors.Is(err, ErrIndex), "index %d", i)
	}
}

func Test_CreatorBadBatchSize(t *testing.T) {
	_, err := NewDatasetCreator(nil, 0, true, nil)
	assert.Assert(t, err != nil)
}
