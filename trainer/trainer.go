package trainer

import (
	"context"

	"github.com/ravaghi/PDT/dataset"
	"github.com/ravaghi/PDT/metrics"
	"github.com/ravaghi/PDT/model"
	"go-ml.dev/pkg/zorros"
)

/*
Config wires a training run together. The trainer holds references, not
copies: model, optimizer, criterion and the three loaders are shared for
the life of the run.
*/
type Config struct {
	Task      string
	Model     model.Model
	Optimizer model.Optimizer
	Criterion model.Criterion
	Train     *dataset.DataLoader
	Val       *dataset.DataLoader
	Test      *dataset.DataLoader
	Sink      metrics.Sink
}

/*
Trainer drives train, evaluate and test passes over a model. The phases
are strictly sequential; only the train phase mutates parameters, batch
preparation is the only concurrent part of a pass.
*/
type Trainer struct {
	task  Task
	model model.Model
	opt   model.Optimizer
	crit  model.Criterion
	train *dataset.DataLoader
	val   *dataset.DataLoader
	test  *dataset.DataLoader
	sink  metrics.Sink
}

func New(cfg Config) (*Trainer, error) {
	task, err := TaskByName(cfg.Task)
	if err != nil {
		return nil, err
	}
	if cfg.Model == nil || cfg.Criterion == nil {
		return nil, zorros.Errorf("trainer needs a model and a criterion")
	}
	if cfg.Sink == nil {
		cfg.Sink = metrics.LogSink{}
	}
	return &Trainer{
		task:  task,
		model: cfg.Model,
		opt:   cfg.Optimizer,
		crit:  cfg.Criterion,
		train: cfg.Train,
		val:   cfg.Val,
		test:  cfg.Test,
		sink:  cfg.Sink,
	}, nil
}

// TrainEpoch runs one training pass over the train loader.
func (t *Trainer) TrainEpoch(ctx context.Context, epoch int) error {
	return t.run(ctx, t.train, metrics.PhaseTrain, epoch, true)
}

// Evaluate runs one evaluation pass over the validation loader.
func (t *Trainer) Evaluate(ctx context.Context, epoch int) error {
	return t.run(ctx, t.val, metrics.PhaseVal, epoch, false)
}

// Test runs the final pass over the test loader; its metrics entry
// carries the TestEpoch marker instead of an epoch number.
func (t *Trainer) Test(ctx context.Context) error {
	return t.run(ctx, t.test, metrics.PhaseTest, metrics.TestEpoch, false)
}

// Run trains for the given number of epochs, evaluating after every
// epoch, and finishes with the test pass.
func (t *Trainer) Run(ctx context.Context, epochs int) error {
	for epoch := 1; epoch <= epochs; epoch++ {
		if err := t.TrainEpoch(ctx, epoch); err != nil {
			return err
		}
		if err := t.Evaluate(ctx, epoch); err != nil {
			return err
		}
	}
	return t.Test(ctx)
}

func (t *Trainer) run(ctx context.Context, l *dataset.DataLoader, phase string, epoch int, train bool) error {
	if l == nil {
		return zorros.Errorf("no loader for phase `%v`", phase)
	}
	var trainable model.Trainable
	if train {
		var ok bool
		if trainable, ok = t.model.(model.Trainable); !ok {
			return zorros.Errorf("model of phase `%v` is not trainable", phase)
		}
		if t.opt == nil {
			return zorros.Errorf("no optimizer for phase `%v`", phase)
		}
	}
	t.model.Mode(train)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ep metrics.Epoch
	batches, errc := l.Batches(ctx)
	for b := range batches {
		y, yhat, err := t.task.Forward(t.model, b)
		if err != nil {
			return zorros.Trace(err)
		}
		loss := t.crit.Loss(yhat, y)
		if train {
			trainable.Backward(t.crit.Grad(yhat, y))
			t.opt.Step()
			t.opt.ZeroGrad()
		}
		preds, correct := t.task.Predictions(y, yhat)
		ep.Batch(loss, correct, len(y))
		ep.Collect(y, preds)
	}
	if err := <-errc; err != nil {
		return zorros.Trace(err)
	}
	// either the full metrics set is emitted or nothing at all
	t.sink.Log(metrics.Entry{
		AUC:      ep.AUC(),
		Accuracy: ep.Accuracy(),
		Loss:     ep.Loss(),
		Epoch:    epoch,
		Phase:    phase,
	})
	return nil
}
