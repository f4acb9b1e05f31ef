package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"slicealloc/ml"
)

// ResultFilename is the name offered for downloaded results.
const ResultFilename = "resource_allocation_output.csv"

// ReadFrame parses a CSV with a header row. UTF-8 and BOM-prefixed UTF-16
// input are accepted. Short rows are padded with empty (missing) cells,
// long rows are rejected. Duplicate header names get a ".N" suffix.
func ReadFrame(r io.Reader) (ml.Frame, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ml.Frame{}, fmt.Errorf("%w: no columns to parse", ErrMalformedCSV)
	}
	if err != nil {
		return ml.Frame{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	frame := ml.Frame{Columns: dedupeColumns(header), Rows: make([][]string, 0)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ml.Frame{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return ml.Frame{}, fmt.Errorf("%w: expected %d fields in line %d, saw %d", ErrMalformedCSV, len(header), line, len(record))
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		frame.Rows = append(frame.Rows, record)
	}
	return frame, nil
}

func dedupeColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			columns[i] = name + "." + strconv.Itoa(n+1)
			continue
		}
		seen[name] = 0
		columns[i] = name
	}
	return columns
}

// WriteCSV renders results as a header plus one line per result, without an
// index column.
func WriteCSV(w io.Writer, results []AllocationResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(OutputColumns()); err != nil {
		return err
	}
	record := make([]string, len(OutputColumns()))
	for _, result := range results {
		for i, v := range result.Values() {
			record[i] = FormatFloat(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFrame renders a frame back to CSV.
func WriteFrame(w io.Writer, frame ml.Frame) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(frame.Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(frame.Rows); err != nil {
		return err
	}
	return writer.Error()
}

// FormatFloat renders v the way a float64 column is written by pandas: the
// shortest repr that round-trips, a trailing ".0" on integral values,
// exponent notation outside [1e-4, 1e16), and an empty cell for NaN.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if v != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	fixed := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}
