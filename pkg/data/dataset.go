package data

import (
	"github.com/pkg/errors"
)

// Dataset is an ordered, immutable collection of sale records sharing one schema.
// Values are stored per column; every accessor hands out copies and every
// derivation returns a new Dataset.
type Dataset struct {
	schema  *Schema
	numeric map[string][]float64
	nominal map[string][]string
	n       int
}

// FromColumns assembles a Dataset. Every schema column must be supplied with the
// matching kind and the same length.
func FromColumns(schema *Schema, numeric map[string][]float64, nominal map[string][]string) (*Dataset, error) {
	d := &Dataset{
		schema:  schema,
		numeric: make(map[string][]float64),
		nominal: make(map[string][]string),
		n:       -1,
	}
	for _, c := range schema.cols {
		var n int
		switch c.Kind {
		case Numeric:
			v, ok := numeric[c.Name]
			if !ok {
				return nil, errors.Wrapf(ErrColumnKind, "numeric values missing for %s", c.Name)
			}
			d.numeric[c.Name] = append([]float64(nil), v...)
			n = len(v)
		case Nominal:
			v, ok := nominal[c.Name]
			if !ok {
				return nil, errors.Wrapf(ErrColumnKind, "nominal values missing for %s", c.Name)
			}
			d.nominal[c.Name] = append([]string(nil), v...)
			n = len(v)
		}
		if d.n >= 0 && n != d.n {
			return nil, errors.Wrapf(ErrLengthMismatch, "%s has %d rows, want %d", c.Name, n, d.n)
		}
		d.n = n
	}
	if d.n < 0 {
		d.n = 0
	}
	return d, nil
}

func (d *Dataset) Len() int        { return d.n }
func (d *Dataset) Schema() *Schema { return d.schema }

// Float returns a copy of a numeric column.
func (d *Dataset) Float(name string) ([]float64, error) {
	c, err := d.schema.Lookup(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != Numeric {
		return nil, errors.Wrapf(ErrColumnKind, "%s is %s", name, c.Kind)
	}
	return append([]float64(nil), d.numeric[name]...), nil
}

// Strings returns a copy of a nominal column.
func (d *Dataset) Strings(name string) ([]string, error) {
	c, err := d.schema.Lookup(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != Nominal {
		return nil, errors.Wrapf(ErrColumnKind, "%s is %s", name, c.Kind)
	}
	return append([]string(nil), d.nominal[name]...), nil
}

// Subset returns the records at the given row positions, in that order.
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	num := make(map[string][]float64, len(d.numeric))
	nom := make(map[string][]string, len(d.nominal))
	for name, col := range d.numeric {
		out := make([]float64, len(rows))
		for i, r := range rows {
			if r < 0 || r >= d.n {
				return nil, errors.Errorf("row %d out of range [0,%d)", r, d.n)
			}
			out[i] = col[r]
		}
		num[name] = out
	}
	for name, col := range d.nominal {
		out := make([]string, len(rows))
		for i, r := range rows {
			if r < 0 || r >= d.n {
				return nil, errors.Errorf("row %d out of range [0,%d)", r, d.n)
			}
			out[i] = col[r]
		}
		nom[name] = out
	}
	return FromColumns(d.schema, num, nom)
}

// WithFloat returns a copy of the dataset where the numeric column name holds
// values. The column is appended to the schema if it did not exist.
func (d *Dataset) WithFloat(name string, values []float64) (*Dataset, error) {
	if len(values) != d.n {
		return nil, errors.Wrapf(ErrLengthMismatch, "%s has %d rows, want %d", name, len(values), d.n)
	}
	cols := d.schema.Columns()
	if i, ok := d.schema.index[name]; ok {
		cols[i].Kind = Numeric
	} else {
		cols = append(cols, Column{Name: name, Kind: Numeric})
	}
	return d.rebuild(cols, map[string][]float64{name: values}, nil)
}

// WithStrings is the nominal counterpart of WithFloat.
func (d *Dataset) WithStrings(name string, values []string) (*Dataset, error) {
	if len(values) != d.n {
		return nil, errors.Wrapf(ErrLengthMismatch, "%s has %d rows, want %d", name, len(values), d.n)
	}
	cols := d.schema.Columns()
	if i, ok := d.schema.index[name]; ok {
		cols[i].Kind = Nominal
	} else {
		cols = append(cols, Column{Name: name, Kind: Nominal})
	}
	return d.rebuild(cols, nil, map[string][]string{name: values})
}

// Replace swaps column name for the numeric columns in repl, inserted at the
// position name occupied. An empty repl simply drops the column.
func (d *Dataset) Replace(name string, replNames []string, repl map[string][]float64) (*Dataset, error) {
	at, ok := d.schema.index[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownColumn, name)
	}
	cols := make([]Column, 0, d.schema.Len()+len(replNames))
	cols = append(cols, d.schema.cols[:at]...)
	for _, r := range replNames {
		cols = append(cols, Column{Name: r, Kind: Numeric})
	}
	cols = append(cols, d.schema.cols[at+1:]...)
	return d.rebuild(cols, repl, nil)
}

// Drop returns the dataset without the named columns.
func (d *Dataset) Drop(names ...string) (*Dataset, error) {
	gone := make(map[string]bool, len(names))
	for _, n := range names {
		if !d.schema.Has(n) {
			return nil, errors.Wrap(ErrUnknownColumn, n)
		}
		gone[n] = true
	}
	var cols []Column
	for _, c := range d.schema.cols {
		if !gone[c.Name] {
			cols = append(cols, c)
		}
	}
	return d.rebuild(cols, nil, nil)
}

func (d *Dataset) rebuild(cols []Column, num map[string][]float64, nom map[string][]string) (*Dataset, error) {
	schema, err := NewSchema(cols...)
	if err != nil {
		return nil, err
	}
	allNum := make(map[string][]float64)
	allNom := make(map[string][]string)
	for _, c := range cols {
		switch c.Kind {
		case Numeric:
			if v, ok := num[c.Name]; ok {
				allNum[c.Name] = v
			} else {
				allNum[c.Name] = d.numeric[c.Name]
			}
		case Nominal:
			if v, ok := nom[c.Name]; ok {
				allNom[c.Name] = v
			} else {
				allNom[c.Name] = d.nominal[c.Name]
			}
		}
	}
	out, err := FromColumns(schema, allNum, allNom)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		out.n = d.n
	}
	return out, nil
}
