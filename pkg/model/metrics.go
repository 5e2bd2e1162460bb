package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarises predictions against held-out values.
type Metrics struct {
	N    int
	R2   float64
	RMSE float64
	MAE  float64
}

// Evaluate computes regression metrics. Lengths must match and be non-zero;
// every value must be finite.
func Evaluate(yTrue, yPred []float64) (Metrics, error) {
	if len(yTrue) != len(yPred) {
		return Metrics{}, errors.Errorf("%d actual values for %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Metrics{}, ErrEmpty
	}
	for i := range yTrue {
		if !finite(yTrue[i]) || !finite(yPred[i]) {
			return Metrics{}, errors.Errorf("non-finite value at %d", i)
		}
	}
	return Metrics{
		N:    len(yTrue),
		R2:   R2(yTrue, yPred),
		RMSE: RMSE(yTrue, yPred),
		MAE:  MAE(yTrue, yPred),
	}, nil
}

func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

func MAE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		s += math.Abs(yPred[i] - yTrue[i])
	}
	return s / n
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// R2 is the coefficient of determination 1 - SSres/SStot. It is NaN when the
// actual values are constant.
func R2(yTrue, yPred []float64) float64 {
	for _, v := range yTrue[min(1, len(yTrue)):] {
		if v != yTrue[0] {
			return stat.RSquaredFrom(yPred, yTrue, nil)
		}
	}
	return math.NaN()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
