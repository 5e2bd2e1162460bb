package dataprep

import (
	"sort"

	"github.com/pkg/errors"

	"houseprice/pkg/data"
	"houseprice/pkg/pipeline"
	"houseprice/pkg/stats"
)

// OtherLevel is the label rare categories are merged into.
const OtherLevel = "other"

// OtherStep collapses categories whose training-set share is below Threshold
// into a single Other level. Columns defaults to every nominal column.
type OtherStep struct {
	Columns   []string
	Threshold float64
	Other     string
}

func NewOtherStep(threshold float64, columns ...string) OtherStep {
	return OtherStep{Columns: columns, Threshold: threshold, Other: OtherLevel}
}

func (s OtherStep) Name() string { return "other" }

func (s OtherStep) Prep(train *data.Dataset) (pipeline.PreparedStep, error) {
	if s.Threshold < 0 || s.Threshold >= 1 {
		return nil, errors.Errorf("rarity threshold %v outside [0,1)", s.Threshold)
	}
	label := s.Other
	if label == "" {
		label = OtherLevel
	}
	cols, err := nominalColumns(train, s.Columns)
	if err != nil {
		return nil, err
	}
	p := preparedOther{other: label, retained: make(map[string]map[string]bool, len(cols)), columns: cols}
	n := float64(train.Len())
	for _, c := range cols {
		values, err := train.Strings(c)
		if err != nil {
			return nil, err
		}
		counts, _ := stats.Frequencies(values)
		keep := make(map[string]bool, len(counts))
		for level, k := range counts {
			if float64(k)/n >= s.Threshold {
				keep[level] = true
			}
		}
		p.retained[c] = keep
	}
	return p, nil
}

type preparedOther struct {
	columns  []string
	retained map[string]map[string]bool
	other    string
}

func (p preparedOther) Name() string { return "other" }

// Retained lists the levels of column kept as-is, sorted.
func (p preparedOther) Retained(column string) []string {
	var out []string
	for l := range p.retained[column] {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Bake maps every level outside the retained set, including levels never seen
// in training, to the other label.
func (p preparedOther) Bake(ds *data.Dataset) (*data.Dataset, error) {
	out := ds
	for _, c := range p.columns {
		values, err := out.Strings(c)
		if err != nil {
			return nil, err
		}
		keep := p.retained[c]
		for i, v := range values {
			if !keep[v] {
				values[i] = p.other
			}
		}
		if out, err = out.WithStrings(c, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func nominalColumns(ds *data.Dataset, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return ds.Schema().NamesOf(data.Nominal), nil
	}
	for _, c := range requested {
		col, err := ds.Schema().Lookup(c)
		if err != nil {
			return nil, err
		}
		if col.Kind != data.Nominal {
			return nil, errors.Wrapf(data.ErrColumnKind, "%s is not nominal", c)
		}
	}
	return append([]string(nil), requested...), nil
}
