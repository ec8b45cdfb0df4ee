package model

// Task tags carried by Input, mirroring the persisted experiment configs.
const (
	TaskTaxonomy      = "taxonomy_classification"
	TaskVariantEffect = "variant_effect_prediction"
	TaskPlantDeepSEA  = "plantdeepsea"
)

/*
Input is the structured input of a forward pass. Which fields are
populated depends on the task: taxonomy classification passes the packed
sequence X with the per-record SeqLens, variant effect prediction passes
the two allele sequences X and X2 with the per-record Tissue ids, and
plant regulatory element prediction passes X alone.
*/
type Input struct {
	Task    string
	X       []int64
	X2      []int64
	Tissue  []int64
	SeqLens []int
}

/*
Model is a callable producing one prediction row per record: a
class-logit vector, a 1-element sigmoid output or a multi-label vector,
depending on the task. Mode switches between training (gradient
tracking, regularization side effects) and inference behaviour.
*/
type Model interface {
	Apply(in Input) ([][]float64, error)
	Mode(training bool)
}

/*
Trainable is a model able to accumulate parameter gradients from the
error signal of a criterion.
*/
type Trainable interface {
	Model
	Backward(grad [][]float64)
}

/*
Optimizer applies accumulated gradients to the parameters it was
constructed over. The trainer only calls Step and ZeroGrad.
*/
type Optimizer interface {
	Step()
	ZeroGrad()
}

/*
Criterion computes the scalar loss of a prediction against its target
and the error signal fed to Trainable.Backward: the gradient of the
loss with respect to the model's pre-activation outputs.
*/
type Criterion interface {
	Loss(yhat, y [][]float64) float64
	Grad(yhat, y [][]float64) [][]float64
}
