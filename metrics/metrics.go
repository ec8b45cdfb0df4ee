package metrics

// Phase tags emitted with every metrics entry.
const (
	PhaseTrain = "train"
	PhaseVal   = "val"
	PhaseTest  = "test"
)

// TestEpoch marks entries of the test phase, which has no epoch concept.
const TestEpoch = -1

/*
Epoch accumulates the scalars of a single train/evaluate/test pass:
running loss, correct-prediction count, example count and the raw
predictions and targets of every batch. It is created at the start of a
pass, read once at the end and then discarded.
*/
type Epoch struct {
	running float64
	batches int
	correct float64
	total   int
	preds   [][]float64
	targets [][]float64
}

// Batch folds the scalars of one processed batch into the pass.
func (e *Epoch) Batch(loss, correct float64, total int) {
	e.running += loss
	e.batches++
	e.correct += correct
	e.total += total
}

// Collect appends the raw targets and predictions of one batch for the
// final AUC computation.
func (e *Epoch) Collect(targets, preds [][]float64) {
	e.targets = append(e.targets, targets...)
	e.preds = append(e.preds, preds...)
}

// Loss is the running loss averaged over the number of batches, not the
// number of examples. The convention is historical but observable, so
// it stays.
func (e *Epoch) Loss() float64 { return e.running / float64(e.batches) }

func (e *Epoch) Accuracy() float64 { return e.correct / float64(e.total) }

func (e *Epoch) AUC() float64 { return AUC(e.targets, e.preds) }
