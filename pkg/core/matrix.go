package core

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var ErrSchemaMismatch = errors.New("feature schema mismatch")

// FeatureMatrix is a dense numeric design matrix with one named column per feature.
type FeatureMatrix struct {
	names []string
	rows  int
	x     *mat.Dense
}

// NewFeatureMatrix copies columns (one slice per name, all of length rows)
// into a row-major matrix.
func NewFeatureMatrix(names []string, columns [][]float64, rows int) (*FeatureMatrix, error) {
	if len(names) != len(columns) {
		return nil, errors.Errorf("%d names for %d columns", len(names), len(columns))
	}
	fm := &FeatureMatrix{names: append([]string(nil), names...), rows: rows}
	if rows == 0 || len(names) == 0 {
		return fm, nil
	}
	m := mat.NewDense(rows, len(names), nil)
	for j, col := range columns {
		if len(col) != rows {
			return nil, errors.Errorf("column %s has %d rows, want %d", names[j], len(col), rows)
		}
		m.SetCol(j, col)
	}
	fm.x = m
	return fm, nil
}

// FromRows builds a FeatureMatrix from row slices.
func FromRows(names []string, rows [][]float64) (*FeatureMatrix, error) {
	fm := &FeatureMatrix{names: append([]string(nil), names...), rows: len(rows)}
	if len(rows) == 0 || len(names) == 0 {
		return fm, nil
	}
	m := mat.NewDense(len(rows), len(names), nil)
	for i, r := range rows {
		if len(r) != len(names) {
			return nil, errors.Errorf("row %d has %d values, want %d", i, len(r), len(names))
		}
		m.SetRow(i, r)
	}
	fm.x = m
	return fm, nil
}

// Dims returns the number of rows and features.
func (f *FeatureMatrix) Dims() (int, int) {
	return f.rows, len(f.names)
}

func (f *FeatureMatrix) Names() []string { return append([]string(nil), f.names...) }

// Dense exposes the matrix for read-only use. It is nil when there are no rows.
func (f *FeatureMatrix) Dense() mat.Matrix {
	if f.x == nil {
		return nil
	}
	return f.x
}

func (f *FeatureMatrix) At(i, j int) float64 { return f.x.At(i, j) }

// Col returns a copy of the named feature column.
func (f *FeatureMatrix) Col(name string) ([]float64, error) {
	for j, n := range f.names {
		if n == name {
			if f.x == nil {
				return []float64{}, nil
			}
			return mat.Col(nil, j, f.x), nil
		}
	}
	return nil, errors.Errorf("no feature %s", name)
}

// CheckNames fails with ErrSchemaMismatch unless got lists exactly the names
// of want, in the same order.
func CheckNames(want, got []string) error {
	if len(want) != len(got) {
		return errors.Wrapf(ErrSchemaMismatch, "%d features, want %d", len(got), len(want))
	}
	for i := range want {
		if want[i] != got[i] {
			return errors.Wrapf(ErrSchemaMismatch, "feature %d is %q, want %q", i, got[i], want[i])
		}
	}
	return nil
}
