package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// LoadCSV reads a dataset with the given schema from a CSV file whose header
// names every schema column. Extra columns are ignored.
func LoadCSV(path string, schema *Schema) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset")
	}
	defer file.Close()
	return ReadCSV(file, schema)
}

// ReadCSV parses CSV records into a Dataset. Numeric cells must parse as
// floats; a malformed cell aborts the read with the offending line.
func ReadCSV(r io.Reader, schema *Schema) (*Dataset, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("dataset has no header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	for _, c := range schema.cols {
		if _, ok := pos[c.Name]; !ok {
			return nil, errors.Wrapf(ErrUnknownColumn, "header lacks %s", c.Name)
		}
	}

	numeric := make(map[string][]float64)
	nominal := make(map[string][]string)
	for _, c := range schema.cols {
		if c.Kind == Numeric {
			numeric[c.Name] = nil
		} else {
			nominal[c.Name] = nil
		}
	}

	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		for _, c := range schema.cols {
			cell := rec[pos[c.Name]]
			if c.Kind == Nominal {
				nominal[c.Name] = append(nominal[c.Name], cell)
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %s", line, c.Name)
			}
			numeric[c.Name] = append(numeric[c.Name], v)
		}
	}
	return FromColumns(schema, numeric, nominal)
}

// WriteCSV writes the dataset with a header row, columns in schema order.
func WriteCSV(w io.Writer, d *Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(d.schema.Names()); err != nil {
		return errors.Wrap(err, "write header")
	}
	row := make([]string, d.schema.Len())
	for i := 0; i < d.n; i++ {
		for j, c := range d.schema.cols {
			if c.Kind == Nominal {
				row[j] = d.nominal[c.Name][i]
				continue
			}
			v := d.numeric[c.Name][i]
			if v == math.Trunc(v) && math.Abs(v) < 1e15 {
				row[j] = strconv.FormatFloat(v, 'f', 0, 64)
			} else {
				row[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	writer.Flush()
	return writer.Error()
}
