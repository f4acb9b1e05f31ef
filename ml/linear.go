package ml

import "fmt"

// LinearModel is a multi-target linear regression: one coefficient row and
// one intercept per target.
type LinearModel struct {
	NFeatures int         `json:"n_features"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

func (m *LinearModel) validate() error {
	if len(m.Coef) == 0 {
		return fmt.Errorf("linear model: %w", ErrNotFitted)
	}
	if len(m.Intercept) == 0 {
		m.Intercept = make([]float64, len(m.Coef))
	}
	if len(m.Intercept) != len(m.Coef) {
		return fmt.Errorf("linear model: %d intercepts for %d targets", len(m.Intercept), len(m.Coef))
	}
	if m.NFeatures == 0 {
		m.NFeatures = len(m.Coef[0])
	}
	for t, row := range m.Coef {
		if len(row) != m.NFeatures {
			return fmt.Errorf("linear model: target %d has %d coefficients, want %d", t, len(row), m.NFeatures)
		}
	}
	return nil
}

func (m *LinearModel) Predict(features [][]float64) ([][]float64, error) {
	if err := checkInput(features, m.NFeatures); err != nil {
		return nil, err
	}
	out := make([][]float64, len(features))
	for i, row := range features {
		prediction := make([]float64, len(m.Coef))
		for t, coef := range m.Coef {
			sum := m.Intercept[t]
			for j, w := range coef {
				sum += w * row[j]
			}
			prediction[t] = sum
		}
		out[i] = prediction
	}
	return out, nil
}

func (m *LinearModel) Outputs() int {
	return len(m.Coef)
}
