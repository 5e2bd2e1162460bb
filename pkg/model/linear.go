package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"houseprice/pkg/core"
)

// rcond is the relative cutoff below which singular values are treated as zero.
const rcond = 1e-10

var (
	ErrNotFitted = errors.New("model is not fitted")
	ErrEmpty     = errors.New("no observations")
)

// LinearRegression is an ordinary least squares model with an intercept.
// It is solved through a thin SVD of the design matrix, so rank-deficient
// designs (for instance indicator columns that always co-occur) get the
// minimum-norm solution instead of failing.
type LinearRegression struct {
	names     []string
	coef      []float64
	intercept float64
	rank      int
	fitted    bool
}

func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

// Fit minimises the sum of squared residuals of y against X. A fitted model
// cannot be refitted.
func (m *LinearRegression) Fit(X *core.FeatureMatrix, y []float64) error {
	if m.fitted {
		return errors.New("model is already fitted")
	}
	n, p := X.Dims()
	if n == 0 {
		return ErrEmpty
	}
	if len(y) != n {
		return errors.Errorf("%d targets for %d rows", len(y), n)
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("target %d is %v", i, v)
		}
	}

	design := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return errors.New("singular value decomposition failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// beta = V * diag(1/s) * U^T * y, ignoring singular values below tol
	var uty mat.VecDense
	uty.MulVec(u.T(), mat.NewVecDense(n, append([]float64(nil), y...)))
	tol := s[0] * rcond
	rank := 0
	for i, sv := range s {
		if sv > tol {
			uty.SetVec(i, uty.AtVec(i)/sv)
			rank++
		} else {
			uty.SetVec(i, 0)
		}
	}
	var beta mat.VecDense
	beta.MulVec(&v, &uty)

	m.names = X.Names()
	m.intercept = beta.AtVec(0)
	m.coef = make([]float64, p)
	for j := range m.coef {
		m.coef[j] = beta.AtVec(j + 1)
	}
	m.rank = rank
	m.fitted = true
	return nil
}

// Predict returns one value per row of X. X must carry the training schema.
func (m *LinearRegression) Predict(X *core.FeatureMatrix) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := core.CheckNames(m.names, X.Names()); err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	if n == 0 {
		return []float64{}, nil
	}
	if len(m.coef) == 0 {
		pred := make([]float64, n)
		for i := range pred {
			pred[i] = m.intercept
		}
		return pred, nil
	}
	var out mat.VecDense
	out.MulVec(X.Dense(), mat.NewVecDense(len(m.coef), append([]float64(nil), m.coef...)))
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = out.AtVec(i) + m.intercept
	}
	return pred, nil
}

func (m *LinearRegression) Intercept() float64 { return m.intercept }

// Coefficients maps each feature name to its weight.
func (m *LinearRegression) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(m.coef))
	for j, n := range m.names {
		out[n] = m.coef[j]
	}
	return out
}

func (m *LinearRegression) Features() []string { return append([]string(nil), m.names...) }

// Rank is the effective rank of the design matrix, intercept included.
func (m *LinearRegression) Rank() int { return m.rank }
