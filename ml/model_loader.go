package ml

import (
	"encoding/json"
	"fmt"
)

const (
	ModelConstant    = "constant"
	ModelLinear      = "linear"
	ModelTree        = "tree"
	ModelForest      = "forest"
	ModelMultiOutput = "multi_output"
)

type modelEnvelope struct {
	Type       string            `json:"type"`
	Estimators []json.RawMessage `json:"estimators,omitempty"`
}

// DecodeModel parses a model artifact. The "type" field selects the
// estimator; everything else is estimator specific.
func DecodeModel(payload []byte) (Regressor, error) {
	var envelope modelEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	switch envelope.Type {
	case ModelConstant:
		model := &ConstantModel{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("decode constant model: %w", err)
		}
		if len(model.Values) == 0 {
			return nil, fmt.Errorf("constant model: %w", ErrNotFitted)
		}
		return model, nil
	case ModelLinear:
		model := &LinearModel{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("decode linear model: %w", err)
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	case ModelTree:
		model := &RegressionTree{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("decode tree model: %w", err)
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	case ModelForest:
		model := &ForestModel{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("decode forest model: %w", err)
		}
		if err := model.validate(); err != nil {
			return nil, err
		}
		return model, nil
	case ModelMultiOutput:
		if len(envelope.Estimators) == 0 {
			return nil, fmt.Errorf("multi_output model: %w", ErrNotFitted)
		}
		model := &MultiOutputModel{Estimators: make([]Regressor, 0, len(envelope.Estimators))}
		for i, raw := range envelope.Estimators {
			estimator, err := DecodeModel(raw)
			if err != nil {
				return nil, fmt.Errorf("multi_output estimator %d: %w", i, err)
			}
			model.Estimators = append(model.Estimators, estimator)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, envelope.Type)
	}
}
