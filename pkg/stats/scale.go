package stats

import "gonum.org/v1/gonum/stat"

// Standardizer centres and scales columns with statistics learned from a
// training set. Constant columns keep a scale of 1.
type Standardizer struct {
	Mean []float64
	Std  []float64
}

// FitStandardizer learns one mean and population standard deviation per column.
func FitStandardizer(cols [][]float64) Standardizer {
	s := Standardizer{Mean: make([]float64, len(cols)), Std: make([]float64, len(cols))}
	for j, col := range cols {
		if len(col) == 0 {
			s.Std[j] = 1
			continue
		}
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(col, nil)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return s
}

// Row standardizes one observation into dst, which is allocated when nil.
func (s Standardizer) Row(dst, row []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(row))
	}
	for j, v := range row {
		dst[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return dst
}
