package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	KindStandard    = "standard"
	KindMinMax      = "minmax"
	KindPassthrough = "passthrough"
	KindOneHot      = "onehot"

	HandleUnknownError  = "error"
	HandleUnknownIgnore = "ignore"
)

// ColumnTransform maps one named input column onto one or more features.
type ColumnTransform struct {
	Name string `json:"name"`
	Kind string `json:"kind"`

	// standard
	Mean  float64 `json:"mean,omitempty"`
	Scale float64 `json:"scale,omitempty"`

	// minmax
	DataMin      float64    `json:"data_min,omitempty"`
	DataMax      float64    `json:"data_max,omitempty"`
	FeatureRange [2]float64 `json:"feature_range,omitempty"`

	// onehot
	Categories    []string `json:"categories,omitempty"`
	HandleUnknown string   `json:"handle_unknown,omitempty"`
}

// Width is the number of features the transform emits per row.
func (c ColumnTransform) Width() int {
	if c.Kind == KindOneHot {
		return len(c.Categories)
	}
	return 1
}

// Preprocessor turns a frame into a dense feature matrix. Columns are emitted
// in declaration order; input columns it does not declare are dropped.
type Preprocessor struct {
	Columns []ColumnTransform `json:"columns"`
}

// DecodePreprocessor parses a preprocessor artifact.
func DecodePreprocessor(payload []byte) (*Preprocessor, error) {
	var p Preprocessor
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode preprocessor: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Preprocessor) validate() error {
	if len(p.Columns) == 0 {
		return fmt.Errorf("preprocessor: %w", ErrNotFitted)
	}
	for i := range p.Columns {
		c := &p.Columns[i]
		if c.Name == "" {
			return fmt.Errorf("preprocessor column %d: name is required", i)
		}
		switch c.Kind {
		case KindStandard, KindPassthrough, KindMinMax:
		case KindOneHot:
			if len(c.Categories) == 0 {
				return fmt.Errorf("preprocessor column %s: onehot needs categories", c.Name)
			}
			if c.HandleUnknown == "" {
				c.HandleUnknown = HandleUnknownError
			}
			if c.HandleUnknown != HandleUnknownError && c.HandleUnknown != HandleUnknownIgnore {
				return fmt.Errorf("preprocessor column %s: handle_unknown %q", c.Name, c.HandleUnknown)
			}
		default:
			return fmt.Errorf("preprocessor column %s: %w: %q", c.Name, ErrUnsupportedTransform, c.Kind)
		}
	}
	return nil
}

// InputColumns lists the column names the preprocessor reads.
func (p *Preprocessor) InputColumns() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// FeatureNames lists the emitted features, one-hot columns expanded as
// name_category.
func (p *Preprocessor) FeatureNames() []string {
	names := make([]string, 0, p.Width())
	for _, c := range p.Columns {
		if c.Kind == KindOneHot {
			for _, category := range c.Categories {
				names = append(names, c.Name+"_"+category)
			}
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// Width is the length of every transformed feature vector.
func (p *Preprocessor) Width() int {
	width := 0
	for _, c := range p.Columns {
		width += c.Width()
	}
	return width
}

// Transform converts every row of frame into a feature vector. Either every
// row is converted or an error is returned.
func (p *Preprocessor) Transform(frame Frame) ([][]float64, error) {
	if p == nil || len(p.Columns) == 0 {
		return nil, fmt.Errorf("preprocessor: %w", ErrNotFitted)
	}

	columns := make([][]string, len(p.Columns))
	for i, c := range p.Columns {
		cells, err := frame.Column(c.Name)
		if err != nil {
			return nil, err
		}
		columns[i] = cells
	}

	width := p.Width()
	matrix := make([][]float64, frame.Len())
	for r := range matrix {
		vector := make([]float64, 0, width)
		for i, c := range p.Columns {
			features, err := c.apply(columns[i][r])
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r, c.Name, err)
			}
			vector = append(vector, features...)
		}
		matrix[r] = vector
	}
	return matrix, nil
}

// featureRange is the minmax target interval; an unset range means [0, 1].
func (c ColumnTransform) featureRange() (float64, float64) {
	if c.FeatureRange == [2]float64{} {
		return 0, 1
	}
	return c.FeatureRange[0], c.FeatureRange[1]
}

func (c ColumnTransform) apply(cell string) ([]float64, error) {
	if c.Kind == KindOneHot {
		vector, ok := OneHot(cell, c.Categories)
		if !ok && c.HandleUnknown == HandleUnknownError {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, cell)
		}
		return vector, nil
	}

	value, err := parseNumber(cell)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(value) {
		return []float64{value}, nil
	}
	switch c.Kind {
	case KindStandard:
		return []float64{StandardScale(value, c.Mean, c.Scale)}, nil
	case KindMinMax:
		lo, hi := c.featureRange()
		return []float64{MinMaxScale(value, c.DataMin, c.DataMax, lo, hi)}, nil
	case KindPassthrough:
		return []float64{value}, nil
	}
	return nil, errors.New("unreachable transform kind " + c.Kind)
}
