package dataprep

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"houseprice/pkg/data"
	"houseprice/pkg/pipeline"
)

// DummyStep one-hot encodes nominal columns. Each column becomes one indicator
// per training level except the first (sorted) level, which is the reference.
// Columns defaults to every nominal column.
type DummyStep struct {
	Columns []string
}

func NewDummyStep(columns ...string) DummyStep { return DummyStep{Columns: columns} }

func (s DummyStep) Name() string { return "dummy" }

func (s DummyStep) Prep(train *data.Dataset) (pipeline.PreparedStep, error) {
	cols, err := nominalColumns(train, s.Columns)
	if err != nil {
		return nil, err
	}
	p := preparedDummy{columns: cols, encodings: make(map[string]encoding, len(cols))}
	taken := make(map[string]bool, train.Schema().Len())
	for _, n := range train.Schema().Names() {
		taken[n] = true
	}
	for _, c := range cols {
		values, err := train.Strings(c)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		var levels []string
		for _, v := range values {
			if !seen[v] {
				seen[v] = true
				levels = append(levels, v)
			}
		}
		sort.Strings(levels)
		enc := encoding{index: make(map[string]int, len(levels))}
		if len(levels) > 0 {
			enc.reference = levels[0]
		}
		for _, l := range levels[min(1, len(levels)):] {
			enc.index[l] = len(enc.names)
			enc.names = append(enc.names, uniqueName(DummyName(c, l), taken))
		}
		p.encodings[c] = enc
	}
	return p, nil
}

type encoding struct {
	reference string
	names     []string
	index     map[string]int
}

type preparedDummy struct {
	columns   []string
	encodings map[string]encoding
}

func (p preparedDummy) Name() string { return "dummy" }

// Indicators lists the indicator columns column expands into.
func (p preparedDummy) Indicators(column string) []string {
	return append([]string(nil), p.encodings[column].names...)
}

// Bake replaces each encoded column with its indicators in place. A level
// absent from training, the reference level included, yields all zeros.
func (p preparedDummy) Bake(ds *data.Dataset) (*data.Dataset, error) {
	out := ds
	for _, c := range p.columns {
		values, err := out.Strings(c)
		if err != nil {
			return nil, err
		}
		enc := p.encodings[c]
		ind := make(map[string][]float64, len(enc.names))
		for _, n := range enc.names {
			ind[n] = make([]float64, len(values))
		}
		for i, v := range values {
			if j, ok := enc.index[v]; ok {
				ind[enc.names[j]][i] = 1
			}
		}
		if out, err = out.Replace(c, enc.names, ind); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// uniqueName returns name, or name_2, name_3, ... when it is already taken,
// and marks the result taken.
func uniqueName(name string, taken map[string]bool) string {
	out := name
	for k := 2; taken[out]; k++ {
		out = fmt.Sprintf("%s_%d", name, k)
	}
	taken[out] = true
	return out
}

// DummyName is the indicator column name for level of column, with every
// character that is not a letter or digit replaced by an underscore.
func DummyName(column, level string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, level)
	return column + "_" + clean
}
