package model

import "houseprice/pkg/core"

// Regressor is a supervised model with a scalar target.
type Regressor interface {
	Fit(X *core.FeatureMatrix, y []float64) error
	Predict(X *core.FeatureMatrix) ([]float64, error)
}

// Prediction pairs a model output with the held-out value it estimates.
type Prediction struct {
	Actual    float64
	Predicted float64
}

// Pair zips actual and predicted values.
func Pair(actual, predicted []float64) []Prediction {
	n := min(len(actual), len(predicted))
	out := make([]Prediction, n)
	for i := range n {
		out[i] = Prediction{Actual: actual[i], Predicted: predicted[i]}
	}
	return out
}
