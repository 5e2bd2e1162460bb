package dataprep

import (
	"math"

	"github.com/pkg/errors"

	"houseprice/pkg/data"
	"houseprice/pkg/pipeline"
)

var ErrNonPositive = errors.New("log transform of a non-positive value")

// Log returns log_base(v). v must be strictly positive.
func Log(v, base float64) (float64, error) {
	if !(v > 0) {
		return 0, errors.Wrapf(ErrNonPositive, "%v", v)
	}
	return math.Log(v) / math.Log(base), nil
}

// Exp inverts Log: it returns base^x.
func Exp(x, base float64) float64 { return math.Pow(base, x) }

// LogStep replaces each listed numeric column v with log_base(v).
type LogStep struct {
	Columns []string
	Base    float64
}

func NewLogStep(base float64, columns ...string) LogStep {
	return LogStep{Columns: columns, Base: base}
}

func (s LogStep) Name() string { return "log" }

func (s LogStep) Prep(train *data.Dataset) (pipeline.PreparedStep, error) {
	if !(s.Base > 0) || s.Base == 1 {
		return nil, errors.Errorf("invalid log base %v", s.Base)
	}
	for _, c := range s.Columns {
		col, err := train.Schema().Lookup(c)
		if err != nil {
			return nil, err
		}
		if col.Kind != data.Numeric {
			return nil, errors.Wrapf(data.ErrColumnKind, "log of %s", c)
		}
	}
	return preparedLog{columns: append([]string(nil), s.Columns...), base: s.Base}, nil
}

type preparedLog struct {
	columns []string
	base    float64
}

func (p preparedLog) Name() string { return "log" }

// Bake fails on the first non-positive value instead of producing NaN or -Inf.
func (p preparedLog) Bake(ds *data.Dataset) (*data.Dataset, error) {
	out := ds
	for _, c := range p.columns {
		values, err := out.Float(c)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			if values[i], err = Log(v, p.base); err != nil {
				return nil, errors.Wrapf(err, "column %s row %d", c, i)
			}
		}
		if out, err = out.WithFloat(c, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
