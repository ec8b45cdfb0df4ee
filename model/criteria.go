package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

/*
CrossEntropy is the softmax cross-entropy over class logits. Targets are
1-element vectors holding the class index. Loss is averaged over the
batch; Grad is the softmax minus the one-hot target, scaled by 1/batch.
*/
type CrossEntropy struct{}

func (CrossEntropy) Loss(yhat, y [][]float64) float64 {
	var s float64
	for i, row := range yhat {
		s += floats.LogSumExp(row) - row[int(y[i][0])]
	}
	return s / float64(len(yhat))
}

func (CrossEntropy) Grad(yhat, y [][]float64) [][]float64 {
	n := float64(len(yhat))
	g := make([][]float64, len(yhat))
	for i, row := range yhat {
		lse := floats.LogSumExp(row)
		gi := make([]float64, len(row))
		for j, v := range row {
			gi[j] = math.Exp(v-lse) / n
		}
		gi[int(y[i][0])] -= 1 / n
		g[i] = gi
	}
	return g
}

/*
BCE is the binary cross-entropy over sigmoid outputs, element-wise over
possibly multi-label rows, averaged over all elements. Grad exploits the
sigmoid cancellation: the error signal is prediction minus target.
*/
type BCE struct{}

const bceEps = 1e-7

func (BCE) Loss(yhat, y [][]float64) float64 {
	var s float64
	n := 0
	for i, row := range yhat {
		for j, p := range row {
			p = math.Min(math.Max(p, bceEps), 1-bceEps)
			s -= y[i][j]*math.Log(p) + (1-y[i][j])*math.Log(1-p)
			n++
		}
	}
	return s / float64(n)
}

func (BCE) Grad(yhat, y [][]float64) [][]float64 {
	n := 0
	for _, row := range yhat {
		n += len(row)
	}
	g := make([][]float64, len(yhat))
	for i, row := range yhat {
		gi := make([]float64, len(row))
		for j, p := range row {
			gi[j] = (p - y[i][j]) / float64(n)
		}
		g[i] = gi
	}
	return g
}
