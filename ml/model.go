package ml

import "fmt"

// Regressor is a fitted model mapping feature vectors to fixed-width output
// vectors. Implementations are immutable once decoded and safe for
// concurrent use.
type Regressor interface {
	Predict(features [][]float64) ([][]float64, error)
	Outputs() int
}

// ConstantModel predicts the same vector for every row.
type ConstantModel struct {
	Values []float64 `json:"values"`
}

func (m *ConstantModel) Predict(features [][]float64) ([][]float64, error) {
	out := make([][]float64, len(features))
	for i := range features {
		out[i] = append([]float64(nil), m.Values...)
	}
	return out, nil
}

func (m *ConstantModel) Outputs() int {
	return len(m.Values)
}

// MultiOutputModel fits one single-output estimator per target and stacks
// their predictions column-wise.
type MultiOutputModel struct {
	Estimators []Regressor
}

func (m *MultiOutputModel) Predict(features [][]float64) ([][]float64, error) {
	out := make([][]float64, len(features))
	for i := range out {
		out[i] = make([]float64, 0, m.Outputs())
	}
	for e, estimator := range m.Estimators {
		predictions, err := estimator.Predict(features)
		if err != nil {
			return nil, fmt.Errorf("estimator %d: %w", e, err)
		}
		if len(predictions) != len(features) {
			return nil, fmt.Errorf("estimator %d returned %d rows for %d inputs", e, len(predictions), len(features))
		}
		for i, row := range predictions {
			out[i] = append(out[i], row...)
		}
	}
	return out, nil
}

func (m *MultiOutputModel) Outputs() int {
	total := 0
	for _, estimator := range m.Estimators {
		total += estimator.Outputs()
	}
	return total
}

// checkInput mirrors the guards a fitted estimator applies before predicting.
func checkInput(features [][]float64, nFeatures int) error {
	for i, row := range features {
		if nFeatures > 0 && len(row) != nFeatures {
			return fmt.Errorf("%w: row %d has %d features, model expects %d", ErrFeatureCount, i, len(row), nFeatures)
		}
		if hasNaN(row) {
			return fmt.Errorf("%w: row %d", ErrNaNInput, i)
		}
		if hasInf(row) {
			return fmt.Errorf("%w: row %d", ErrInfInput, i)
		}
	}
	return nil
}
