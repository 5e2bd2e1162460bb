package data

import (
	"github.com/pkg/errors"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrColumnKind      = errors.New("column has the wrong kind")
	ErrLengthMismatch  = errors.New("column length mismatch")
)

// Kind tells whether a column holds numbers or category labels.
type Kind int

const (
	Numeric Kind = iota
	Nominal
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	default:
		return "unknown"
	}
}

// Column describes one attribute of a sale record.
type Column struct {
	Name string
	Kind Kind
}

// Schema is the ordered, fixed set of columns shared by every record of a Dataset.
type Schema struct {
	cols  []Column
	index map[string]int
}

// NewSchema builds a schema, rejecting empty or repeated column names.
func NewSchema(cols ...Column) (*Schema, error) {
	s := &Schema{cols: make([]Column, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c.Name == "" {
			return nil, errors.Errorf("column %d has no name", i)
		}
		if _, ok := s.index[c.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateColumn, c.Name)
		}
		s.cols[i] = c
		s.index[c.Name] = i
	}
	return s, nil
}

func (s *Schema) Len() int { return len(s.cols) }

// Columns returns a copy of the schema's columns in order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.cols))
	copy(out, s.cols)
	return out
}

func (s *Schema) Names() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Name
	}
	return out
}

// Lookup returns the named column.
func (s *Schema) Lookup(name string) (Column, error) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, errors.Wrap(ErrUnknownColumn, name)
	}
	return s.cols[i], nil
}

func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// NamesOf lists the columns of kind k, in schema order.
func (s *Schema) NamesOf(k Kind) []string {
	var out []string
	for _, c := range s.cols {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}
