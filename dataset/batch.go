package dataset

import (
	"fmt"
	"math/rand"
	"sort"
)

/*
Complete makes the number of records divisible by batchSize within each
length bin by appending copies of the bin's first record, then assigns a
BatchID to every contiguous group of batchSize records.

Bins are processed in ascending order of their bin value. A bin smaller
than batchSize is padded entirely from its single first record. An empty
table yields an empty table.
*/
func Complete(t Table, batchSize int) Table {
	groups := map[int]Table{}
	var bins []int
	for _, r := range t {
		if _, ok := groups[r.Bin]; !ok {
			bins = append(bins, r.Bin)
		}
		groups[r.Bin] = append(groups[r.Bin], r)
	}
	sort.Ints(bins)
	out := make(Table, 0, len(t))
	for g, bin := range bins {
		recs := groups[bin]
		if rem := len(recs) % batchSize; rem != 0 {
			first := recs[0]
			for i := 0; i < batchSize-rem; i++ {
				recs = append(recs, first)
			}
		}
		for i := range recs {
			recs[i].BatchID = fmt.Sprintf("%d_bin%d", i/batchSize, g)
		}
		out = append(out, recs...)
	}
	return out
}

/*
Shuffle randomizes the order of batches so a training epoch mixes
sequences from different length bins. Records are grouped by BatchID in
first-appearance order, the group order is permuted and the groups are
concatenated back, preserving record order within each batch. The caller
controls determinism through rng; nil uses the shared source.
*/
func Shuffle(t Table, rng *rand.Rand) Table {
	groups := map[string]Table{}
	var ids []string
	for _, r := range t {
		if _, ok := groups[r.BatchID]; !ok {
			ids = append(ids, r.BatchID)
		}
		groups[r.BatchID] = append(groups[r.BatchID], r)
	}
	swap := func(i, j int) { ids[i], ids[j] = ids[j], ids[i] }
	if rng != nil {
		rng.Shuffle(len(ids), swap)
	} else {
		rand.Shuffle(len(ids), swap)
	}
	out := make(Table, 0, len(t))
	for _, id := range ids {
		out = append(out, groups[id]...)
	}
	return out
}
