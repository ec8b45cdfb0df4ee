package dataset

/*
Record is one sequence sample of a persisted tabular dataset.

Sequence holds the integer-encoded symbols of the un-padded sequence,
Len its length and Bin the discretized length bucket it belongs to.
Label is a 1-element vector for scalar targets or an n-element vector
for multi-label targets. Pair and Tissue are populated only by
variant-effect datasets, where every record carries a second allele
sequence and a tissue context id.
*/
type Record struct {
	Sequence []int64
	Pair     []int64
	Tissue   int64
	Label    []float64
	Len      int
	Bin      int
	BatchID  string // assigned by Complete, empty before
}

/*
Table is an ordered collection of records. Pipeline stages never modify
a table in place, they return a new one.
*/
type Table []Record
