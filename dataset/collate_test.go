package dataset

import (
	"testing"

	"gotest.tools/assert"
)

func Test_Collate(t *testing.T) {
	recs := []Record{
		{Sequence: []int64{1, 2}, Label: []float64{0}, Len: 2, Bin: 3},
		{Sequence: []int64{3, 4, 5}, Label: []float64{1}, Len: 3, Bin: 3},
		{Sequence: []int64{6}, Label: []float64{0}, Len: 1, Bin: 3},
	}
	b := Collate(recs)
	assert.DeepEqual(t, b.Seq, []int64{1, 2, 3, 4, 5, 6})
	assert.DeepEqual(t, b.Lens, []int{2, 3, 1})
	assert.DeepEqual(t, b.Bins, []int{3, 3, 3})
	assert.Equal(t, len(b.Labels), 3)
	sum := 0
	for _, l := range b.Lens {
		sum += l
	}
	assert.Equal(t, len(b.Seq), sum)
}

func Test_CollatePairs(t *testing.T) {
	recs := []Record{
		{Sequence: []int64{1, 2}, Pair: []int64{7, 8}, Tissue: 1, Label: []float64{1}, Len: 2},
		{Sequence: []int64{3, 4}, Pair: []int64{9, 0}, Tissue: 2, Label: []float64{0}, Len: 2},
	}
	b := Collate(recs)
	assert.DeepEqual(t, b.Pair, []int64{7, 8, 9, 0})
	assert.DeepEqual(t, b.Tissue, []int64{1, 2})
}
