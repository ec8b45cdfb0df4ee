package dataset

import (
	"math/rand"

	"go-ml.dev/pkg/zorros"
	"golang.org/x/xerrors"
)

// ErrIndex is reported by DatasetCreator.At for an out-of-range index.
var ErrIndex = xerrors.New("dataset index out of range")

/*
DatasetCreator wraps a table as an indexable, randomly-accessible
collection. In variable-length mode the table is completed and shuffled
once at construction; otherwise it is passed through unchanged.
*/
type DatasetCreator struct {
	recs Table
}

func NewDatasetCreator(t Table, batchSize int, varLen bool, rng *rand.Rand) (*DatasetCreator, error) {
	if batchSize < 1 {
		return nil, zorros.Errorf("batch size must be positive, got %v", batchSize)
	}
	if varLen {
		t = Shuffle(Complete(t, batchSize), rng)
	}
	return &DatasetCreator{recs: t}, nil
}

func (d *DatasetCreator) Len() int { return len(d.recs) }

func (d *DatasetCreator) At(i int) (Record, error) {
	if i < 0 || i >= len(d.recs) {
		return Record{}, xerrors.Errorf("index %d of %d records: %w", i, len(d.recs), ErrIndex)
	}
	return d.recs[i], nil
}
