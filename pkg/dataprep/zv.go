package dataprep

import (
	"houseprice/pkg/data"
	"houseprice/pkg/pipeline"
)

// ZeroVarianceStep drops numeric columns that hold a single value on the
// training set. Excluded columns, typically the outcome, are never dropped.
type ZeroVarianceStep struct {
	Exclude []string
}

func NewZeroVarianceStep(exclude ...string) ZeroVarianceStep {
	return ZeroVarianceStep{Exclude: exclude}
}

func (s ZeroVarianceStep) Name() string { return "zv" }

func (s ZeroVarianceStep) Prep(train *data.Dataset) (pipeline.PreparedStep, error) {
	skip := make(map[string]bool, len(s.Exclude))
	for _, e := range s.Exclude {
		skip[e] = true
	}
	var drop []string
	for _, c := range train.Schema().NamesOf(data.Numeric) {
		if skip[c] {
			continue
		}
		values, err := train.Float(c)
		if err != nil {
			return nil, err
		}
		if constant(values) {
			drop = append(drop, c)
		}
	}
	return preparedZV{drop: drop}, nil
}

type preparedZV struct {
	drop []string
}

func (p preparedZV) Name() string { return "zv" }

// Dropped lists the columns removed by Bake.
func (p preparedZV) Dropped() []string { return append([]string(nil), p.drop...) }

func (p preparedZV) Bake(ds *data.Dataset) (*data.Dataset, error) {
	if len(p.drop) == 0 {
		return ds, nil
	}
	return ds.Drop(p.drop...)
}

func constant(values []float64) bool {
	for _, v := range values[min(1, len(values)):] {
		if v != values[0] {
			return false
		}
	}
	return true
}
