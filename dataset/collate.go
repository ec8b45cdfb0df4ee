package dataset

/*
Batch packs the variable-length sequences of one batch into a single
flat sequence instead of padding them to a common length. Seq is the
element-wise concatenation of the records' sequences, Lens the original
length of every record in concatenation order and Bins the parallel list
of bin ids. Pair is the same packing of the second allele sequences when
the records carry them.

Invariants: len(Seq) == sum(Lens), len(Lens) == len(Bins) == len(Labels).
*/
type Batch struct {
	Seq    []int64
	Pair   []int64
	Tissue []int64
	Labels [][]float64
	Lens   []int
	Bins   []int
}

/*
Collate merges the records of one batch into a Batch. The records are
expected to be grouped by BatchID already, so they share a bin.
*/
func Collate(recs []Record) Batch {
	b := Batch{
		Labels: make([][]float64, 0, len(recs)),
		Lens:   make([]int, 0, len(recs)),
		Bins:   make([]int, 0, len(recs)),
	}
	for _, r := range recs {
		b.Seq = append(b.Seq, r.Sequence...)
		b.Pair = append(b.Pair, r.Pair...)
		b.Tissue = append(b.Tissue, r.Tissue)
		b.Labels = append(b.Labels, r.Label)
		b.Lens = append(b.Lens, r.Len)
		b.Bins = append(b.Bins, r.Bin)
	}
	return b
}
