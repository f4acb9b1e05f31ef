package ml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Frame is a tabular batch of named columns. Cells are kept as text; each
// transform decides how to interpret its own column.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (f Frame) ColumnIndex(name string) int {
	for i, column := range f.Columns {
		if column == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's cells.
func (f Frame) Column(name string) ([]string, error) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	cells := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		if idx >= len(row) {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidValue, i, len(row))
		}
		cells[i] = row[idx]
	}
	return cells, nil
}

// Same set pandas.read_csv treats as missing by default.
var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
}

func parseNumber(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if _, ok := missingMarkers[cell]; ok {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidValue, cell)
	}
	return v, nil
}
