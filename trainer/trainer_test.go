package trainer

import (
	"context"
	"math"
	"testing"

	"github.com/ravaghi/PDT/dataset"
	"github.com/ravaghi/PDT/metrics"
	"github.com/ravaghi/PDT/model"
	"golang.org/x/xerrors"
	"gotest.tools/assert"
)

// stubModel predicts the class of the first symbol of every packed
// segment, so the correctness of a pass is known in advance.
type stubModel struct{}

func (stubModel) Mode(bool) {}

func (stubModel) Apply(in model.Input) ([][]float64, error) {
	out := make([][]float64, 0, len(in.SeqLens))
	off := 0
	for _, l := range in.SeqLens {
		if in.X[off] == 0 {
			out = append(out, []float64{1, 0})
		} else {
			out = append(out, []float64{0, 1})
		}
		off += l
	}
	return out, nil
}

func (stubModel) Backward([][]float64) {}

type stubOpt struct{ steps, zeros int }

func (o *stubOpt) Step()     { o.steps++ }
func (o *stubOpt) ZeroGrad() { o.zeros++ }

// stubCriterion reports a fixed loss per batch.
type stubCriterion struct{ loss float64 }

func (c stubCriterion) Loss(yhat, y [][]float64) float64 { return c.loss }
func (c stubCriterion) Grad(yhat, y [][]float64) [][]float64 {
	g := make([][]float64, len(yhat))
	for i := range g {
		g[i] = make([]float64, len(yhat[i]))
	}
	return g
}

type captureSink struct{ entries []metrics.Entry }

func (s *captureSink) Log(e metrics.Entry) { s.entries = append(s.entries, e) }

// four records in one bin: predictions 0,0,1,1 against labels 0,1,1,1,
// so three of four are correct
func stubLoader(t *testing.T) *dataset.DataLoader {
	t.Helper()
	table := dataset.Table{
		{Sequence: []int64{0}, Label: []float64{0}, Len: 1, Bin: 0},
		{Sequence: []int64{0}, Label: []float64{1}, Len: 1, Bin: 0},
		{Sequence: []int64{1}, Label: []float64{1}, Len: 1, Bin: 0},
		{Sequence: []int64{1}, Label: []float64{1}, Len: 1, Bin: 0},
	}
	l, err := dataset.FromTable(table, 2, dataset.WithSeed(5), dataset.WithWorkers(2))
	assert.NilError(t, err)
	return l
}

func newStubTrainer(t *testing.T, sink metrics.Sink) (*Trainer, *stubOpt) {
	t.Helper()
	opt := &stubOpt{}
	l := stubLoader(t)
	tr, err := New(Config{
		Task:      "TaxonomyClassification",
		Model:     stubModel{},
		Optimizer: opt,
		Criterion: stubCriterion{loss: 2.5},
		Train:     l,
		Val:       l,
		Test:      l,
		Sink:      sink,
	})
	assert.NilError(t, err)
	return tr, opt
}

func Test_TrainEpochMetrics(t *testing.T) {
	sink := &captureSink{}
	tr, opt := newStubTrainer(t, sink)
	assert.NilError(t, tr.TrainEpoch(context.Background(), 3))

	assert.Equal(t, len(sink.entries), 1)
	e := sink.entries[0]
	assert.Equal(t, e.Phase, metrics.PhaseTrain)
	assert.Equal(t, e.Epoch, 3)
	// accuracy is exactly correct/total, loss is averaged per batch
	assert.Equal(t, e.Accuracy, 0.75)
	assert.Equal(t, e.Loss, 2.5)
	// targets 0,1,1,1 vs predictions 0,0,1,1: two concordant pairs and
	// one tie of three
	assert.Assert(t, math.Abs(e.AUC-5.0/6.0) < 1e-9, "auc %v", e.AUC)
	// one optimizer step per batch
	assert.Equal(t, opt.steps, 2)
	assert.Equal(t, opt.zeros, 2)
}

func Test_EvaluateAndTest(t *testing.T) {
	sink := &captureSink{}
	tr, opt := newStubTrainer(t, sink)
	assert.NilError(t, tr.Evaluate(context.Background(), 7))
	assert.NilError(t, tr.Test(context.Background()))

	assert.Equal(t, len(sink.entries), 2)
	assert.Equal(t, sink.entries[0].Phase, metrics.PhaseVal)
	assert.Equal(t, sink.entries[0].Epoch, 7)
	assert.Equal(t, sink.entries[1].Phase, metrics.PhaseTest)
	assert.Equal(t, sink.entries[1].Epoch, metrics.TestEpoch)
	// evaluate and test never touch the optimizer
	assert.Equal(t, opt.steps, 0)
}

func Test_RunDrivesAllPhases(t *testing.T) {
	sink := &captureSink{}
	tr, _ := newStubTrainer(t, sink)
	assert.NilError(t, tr.Run(context.Background(), 2))
	phases := []string{}
	for _, e := range sink.entries {
		phases = append(phases, e.Phase)
	}
	assert.DeepEqual(t, phases, []string{"train", "val", "train", "val", "test"})
}

func Test_UnknownTask(t *testing.T) {
	_, err := TaskByName("MysteryTask")
	assert.Assert(t, xerrors.Is(err, ErrUnknownTask))

	// the trainer refuses the configuration before touching any batch
	_, err = New(Config{Task: "MysteryTask", Model: stubModel{}, Criterion: stubCriterion{}})
	assert.Assert(t, xerrors.Is(err, ErrUnknownTask))
}

func Test_NotTrainableModel(t *testing.T) {
	type inferenceOnly struct{ model.Model }
	l := stubLoader(t)
	tr, err := New(Config{
		Task:      "TaxonomyClassification",
		Model:     inferenceOnly{stubModel{}},
		Criterion: stubCriterion{},
		Train:     l,
		Sink:      &captureSink{},
	})
	assert.NilError(t, err)
	err = tr.TrainEpoch(context.Background(), 1)
	assert.ErrorContains(t, err, "not trainable")
}
