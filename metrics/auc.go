package metrics

import (
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

/*
AUC is the area under the ROC curve of the accumulated predictions
against their targets. Binary targets use the exact ROC curve; ordinal
targets fall back to the pairwise ranking form, which coincides with the
ROC area in the binary case. Vector targets are macro-averaged over the
label dimensions, skipping degenerate dimensions with a single class.
Returns NaN when no dimension has both classes present.
*/
func AUC(targets, preds [][]float64) float64 {
	if len(targets) == 0 || len(targets[0]) == 0 {
		return math.NaN()
	}
	w := len(targets[0])
	if w == 1 {
		return columnAUC(column(targets, 0), column(preds, 0))
	}
	sum, n := 0.0, 0
	for j := 0; j < w; j++ {
		if a := columnAUC(column(targets, j), column(preds, j)); !math.IsNaN(a) {
			sum += a
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func columnAUC(t, p []float64) float64 {
	binary, hasPos, hasNeg := true, false, false
	for _, v := range t {
		switch v {
		case 0:
			hasNeg = true
		case 1:
			hasPos = true
		default:
			binary = false
		}
	}
	if !binary {
		return rankAUC(t, p)
	}
	if !hasPos || !hasNeg {
		return math.NaN()
	}
	y := append([]float64(nil), p...)
	classes := make([]bool, len(t))
	for i, v := range t {
		classes[i] = v == 1
	}
	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// rankAUC is the Mann-Whitney generalization: the probability that a
// randomly chosen pair with different targets is ranked concordantly,
// counting prediction ties as half.
func rankAUC(t, p []float64) float64 {
	var conc, ties float64
	pairs := 0
	for i := 0; i < len(t); i++ {
		for j := i + 1; j < len(t); j++ {
			if t[i] == t[j] {
				continue
			}
			pairs++
			switch d := (p[i] - p[j]) * (t[i] - t[j]); {
			case d > 0:
				conc++
			case d == 0:
				ties++
			}
		}
	}
	if pairs == 0 {
		return math.NaN()
	}
	return (conc + ties/2) / float64(pairs)
}

func column(rows [][]float64, j int) []float64 {
	c := make([]float64, len(rows))
	for i, r := range rows {
		if j < len(r) {
			c[i] = r[j]
		}
	}
	return c
}
