// Package pipeline turns uploaded slice metrics into resource allocations.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"slicealloc/ml"
)

var (
	ErrEmptyInput   = errors.New("input has no rows")
	ErrShape        = errors.New("unexpected output shape")
	ErrMalformedCSV = errors.New("malformed csv")
)

// AllocationResult is one predicted allocation, aligned with the input row
// it was computed from.
type AllocationResult struct {
	Bandwidth float64 `json:"Allocated_Bandwidth"`
	CPU       float64 `json:"Allocated_CPU"`
	Memory    float64 `json:"Allocated_Memory"`
}

// OutputColumns are the column names of the result table, in order.
func OutputColumns() []string {
	return []string{"Allocated_Bandwidth", "Allocated_CPU", "Allocated_Memory"}
}

// Values returns the result in OutputColumns order.
func (a AllocationResult) Values() []float64 {
	return []float64{a.Bandwidth, a.CPU, a.Memory}
}

// MarshalJSON writes non-finite allocations as null, which JSON can carry
// where inf and NaN cannot.
func (a AllocationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bandwidth *float64 `json:"Allocated_Bandwidth"`
		CPU       *float64 `json:"Allocated_CPU"`
		Memory    *float64 `json:"Allocated_Memory"`
	}{finite(a.Bandwidth), finite(a.CPU), finite(a.Memory)})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Transformer converts a frame into a feature matrix.
type Transformer interface {
	Transform(frame ml.Frame) ([][]float64, error)
}

// Predictor maps a feature matrix to an output matrix.
type Predictor interface {
	Predict(features [][]float64) ([][]float64, error)
}

// Allocate runs the whole frame through the preprocessor and the model as a
// single batch. Row i of the result belongs to row i of the input. Either
// every row gets a result or an error is returned.
func Allocate(frame ml.Frame, preprocessor Transformer, model Predictor) ([]AllocationResult, error) {
	if frame.Len() == 0 {
		return nil, ErrEmptyInput
	}

	features, err := preprocessor.Transform(frame)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	if len(features) != frame.Len() {
		return nil, fmt.Errorf("%w: preprocessor returned %d rows for %d inputs", ErrShape, len(features), frame.Len())
	}

	predictions, err := model.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(predictions) != frame.Len() {
		return nil, fmt.Errorf("%w: model returned %d rows for %d inputs", ErrShape, len(predictions), frame.Len())
	}

	width := len(OutputColumns())
	results := make([]AllocationResult, len(predictions))
	for i, row := range predictions {
		if len(row) != width {
			return nil, fmt.Errorf("%w: model returned %d values for row %d, want %d", ErrShape, len(row), i, width)
		}
		results[i] = AllocationResult{Bandwidth: row[0], CPU: row[1], Memory: row[2]}
	}
	return results, nil
}
