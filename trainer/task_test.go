package trainer

import (
	"math"
	"testing"

	"gotest.tools/assert"
)

func Test_TaxonomyPredictions(t *testing.T) {
	y := [][]float64{{0}, {1}, {2}}
	yhat := [][]float64{{3, 1, 2}, {0, 5, 1}, {1, 2, 0}}
	preds, correct := TaxonomyClassification{}.Predictions(y, yhat)
	assert.DeepEqual(t, preds, [][]float64{{0}, {1}, {1}})
	assert.Equal(t, correct, 2.0)
}

func Test_VariantEffectPredictions(t *testing.T) {
	y := [][]float64{{1}, {0}, {1}}
	yhat := [][]float64{{0.6}, {0.4}, {0.2}}
	preds, correct := VariantEffectPrediction{}.Predictions(y, yhat)
	// raw sigmoid outputs are kept as predictions
	assert.DeepEqual(t, preds, yhat)
	assert.Equal(t, correct, 2.0)
}

func Test_PlantDeepSEAPredictions(t *testing.T) {
	y := [][]float64{{1, 0}, {0, 0}}
	yhat := [][]float64{{0.9, 0.2}, {0.6, 0.1}}
	preds, correct := PlantDeepSEA{}.Predictions(y, yhat)
	assert.DeepEqual(t, preds, yhat)
	// correctness is averaged over the label dimensions
	assert.Assert(t, math.Abs(correct-1.5) < 1e-9)
}

func Test_TaskNames(t *testing.T) {
	for _, name := range []string{"TaxonomyClassification", "VariantEffectPrediction", "PlantDeepSEA"} {
		task, err := TaskByName(name)
		assert.NilError(t, err)
		assert.Equal(t, task.Name(), name)
	}
}
