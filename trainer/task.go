package trainer

import (
	"math"

	"github.com/ravaghi/PDT/dataset"
	"github.com/ravaghi/PDT/fu"
	"github.com/ravaghi/PDT/model"
	"golang.org/x/xerrors"
)

// ErrUnknownTask is reported for a task tag outside the closed set.
var ErrUnknownTask = xerrors.New("unknown task")

/*
Task is one of the closed set of experiment tasks. Every variant knows
which fields of a batch feed the model and how predictions and
correctness are derived from the model output.
*/
type Task interface {
	Name() string
	// Forward dispatches one batch to the model and returns the targets
	// alongside the predictions.
	Forward(m model.Model, b dataset.Batch) (y, yhat [][]float64, err error)
	// Predictions derives the raw prediction rows accumulated for the
	// AUC and the number of correct predictions in the batch.
	Predictions(y, yhat [][]float64) (preds [][]float64, correct float64)
}

/*
TaskByName resolves a configured task tag. An unrecognized tag is a
configuration error, reported before any batch is processed.
*/
func TaskByName(name string) (Task, error) {
	switch name {
	case "TaxonomyClassification":
		return TaxonomyClassification{}, nil
	case "VariantEffectPrediction":
		return VariantEffectPrediction{}, nil
	case "PlantDeepSEA":
		return PlantDeepSEA{}, nil
	}
	return nil, xerrors.Errorf("task `%s`: %w", name, ErrUnknownTask)
}

/*
TaxonomyClassification feeds the packed sequence with its per-record
lengths; the prediction is the argmax over the class logits and a
prediction is correct when it equals the target class.
*/
type TaxonomyClassification struct{}

func (TaxonomyClassification) Name() string { return "TaxonomyClassification" }

func (TaxonomyClassification) Forward(m model.Model, b dataset.Batch) ([][]float64, [][]float64, error) {
	yhat, err := m.Apply(model.Input{Task: model.TaskTaxonomy, X: b.Seq, SeqLens: b.Lens})
	return b.Labels, yhat, err
}

func (TaxonomyClassification) Predictions(y, yhat [][]float64) ([][]float64, float64) {
	preds := make([][]float64, len(yhat))
	var correct float64
	for i, row := range yhat {
		p := float64(fu.ArgMax(row))
		preds[i] = []float64{p}
		if p == y[i][0] {
			correct++
		}
	}
	return preds, correct
}

/*
VariantEffectPrediction feeds the two allele sequences with the tissue
context; the prediction is the raw sigmoid output and it is correct when
its rounding equals the target.
*/
type VariantEffectPrediction struct{}

func (VariantEffectPrediction) Name() string { return "VariantEffectPrediction" }

func (VariantEffectPrediction) Forward(m model.Model, b dataset.Batch) ([][]float64, [][]float64, error) {
	yhat, err := m.Apply(model.Input{Task: model.TaskVariantEffect, X: b.Seq, X2: b.Pair, Tissue: b.Tissue})
	return b.Labels, yhat, err
}

func (VariantEffectPrediction) Predictions(y, yhat [][]float64) ([][]float64, float64) {
	var correct float64
	for i, row := range yhat {
		if math.Round(row[0]) == y[i][0] {
			correct++
		}
	}
	return yhat, correct
}

/*
PlantDeepSEA feeds the sequence alone; the prediction is the raw
multi-label output and correctness is the mean over the label dimensions
of rounded-output-equals-target.
*/
type PlantDeepSEA struct{}

func (PlantDeepSEA) Name() string { return "PlantDeepSEA" }

func (PlantDeepSEA) Forward(m model.Model, b dataset.Batch) ([][]float64, [][]float64, error) {
	yhat, err := m.Apply(model.Input{Task: model.TaskPlantDeepSEA, X: b.Seq})
	return b.Labels, yhat, err
}

func (PlantDeepSEA) Predictions(y, yhat [][]float64) ([][]float64, float64) {
	var correct float64
	for i, row := range yhat {
		for j, p := range row {
			if math.Round(p) == y[i][j] {
				correct += 1 / float64(len(row))
			}
		}
	}
	return yhat, correct
}
