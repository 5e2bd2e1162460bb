package model

import (
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"houseprice/pkg/core"
	"houseprice/pkg/stats"
)

// KNNRegressor predicts the mean target of the K nearest training rows,
// measured on features standardized with training statistics. It is the
// baseline the linear model is compared against.
type KNNRegressor struct {
	K int

	names  []string
	scaler stats.Standardizer
	x      [][]float64
	y      []float64
}

func NewKNNRegressor(k int) *KNNRegressor { return &KNNRegressor{K: k} }

// Fit stores the standardized training rows.
func (m *KNNRegressor) Fit(X *core.FeatureMatrix, y []float64) error {
	if m.K < 1 {
		return errors.Errorf("k must be positive, got %d", m.K)
	}
	n, p := X.Dims()
	if n == 0 {
		return ErrEmpty
	}
	if len(y) != n {
		return errors.Errorf("%d targets for %d rows", len(y), n)
	}
	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = mat.Col(nil, j, X.Dense())
	}
	m.scaler = stats.FitStandardizer(cols)
	m.x = make([][]float64, n)
	row := make([]float64, p)
	for i := range m.x {
		for j := range row {
			row[j] = X.At(i, j)
		}
		m.x[i] = m.scaler.Row(nil, row)
	}
	m.names = X.Names()
	m.y = append([]float64(nil), y...)
	return nil
}

// Predict scores rows in parallel, one block of rows per worker.
func (m *KNNRegressor) Predict(X *core.FeatureMatrix) ([]float64, error) {
	if m.y == nil {
		return nil, ErrNotFitted
	}
	if err := core.CheckNames(m.names, X.Names()); err != nil {
		return nil, err
	}
	n, p := X.Dims()
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += rowsPerWorker {
		end := min(start+rowsPerWorker, n)
		g.Go(func() error {
			raw := make([]float64, p)
			scaled := make([]float64, p)
			for i := start; i < end; i++ {
				for j := range raw {
					raw[j] = X.At(i, j)
				}
				out[i] = m.predictRow(m.scaler.Row(scaled, raw))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *KNNRegressor) predictRow(xi []float64) float64 {
	type neighbor struct {
		d float64
		v float64
	}
	k := min(m.K, len(m.x))
	nbrs := make([]neighbor, 0, k+1)
	for j, xj := range m.x {
		d := floats.Distance(xi, xj, 2)
		if len(nbrs) < k {
			nbrs = append(nbrs, neighbor{d: d, v: m.y[j]})
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if d < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = neighbor{d: d, v: m.y[j]}
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}
	sum := 0.0
	for _, nb := range nbrs {
		sum += nb.v
	}
	return sum / float64(len(nbrs))
}
