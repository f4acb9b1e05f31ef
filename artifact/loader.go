package artifact

import (
	"context"
	"fmt"

	"slicealloc/ml"
)

// Names identifies the two artifacts inside a source.
type Names struct {
	Model        string
	Preprocessor string
}

func DefaultNames() Names {
	return Names{Model: "model.json", Preprocessor: "preprocessor.json"}
}

// Bundle is the loaded pair. It is read-only after Load returns.
type Bundle struct {
	Preprocessor *ml.Preprocessor
	Model        ml.Regressor
	Names        Names
}

// Load reads and decodes both artifacts. Any failure is returned as is; the
// caller decides whether it is fatal.
func Load(ctx context.Context, src Source, names Names) (*Bundle, error) {
	payload, err := src.Read(ctx, names.Preprocessor)
	if err != nil {
		return nil, fmt.Errorf("load preprocessor %s: %w", names.Preprocessor, err)
	}
	preprocessor, err := ml.DecodePreprocessor(payload)
	if err != nil {
		return nil, fmt.Errorf("load preprocessor %s: %w", names.Preprocessor, err)
	}

	payload, err = src.Read(ctx, names.Model)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", names.Model, err)
	}
	model, err := ml.DecodeModel(payload)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", names.Model, err)
	}

	return &Bundle{Preprocessor: preprocessor, Model: model, Names: names}, nil
}
