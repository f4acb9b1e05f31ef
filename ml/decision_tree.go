package ml

import (
	"errors"
	"fmt"
)

// RegressionTree is a fitted tree flattened into a node array. Node 0 is the
// root; rows with feature <= threshold go left.
type RegressionTree struct {
	NFeatures int        `json:"n_features"`
	Nodes     []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	Value      []float64 `json:"value,omitempty"`
	IsLeaf     bool      `json:"is_leaf"`
}

func (dt *RegressionTree) validate() error {
	if len(dt.Nodes) == 0 {
		return fmt.Errorf("tree: %w", ErrNotFitted)
	}
	outputs := -1
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			if len(node.Value) == 0 {
				return fmt.Errorf("tree: leaf %d has no value", i)
			}
			if outputs >= 0 && len(node.Value) != outputs {
				return fmt.Errorf("tree: leaf %d has %d outputs, want %d", i, len(node.Value), outputs)
			}
			outputs = len(node.Value)
			continue
		}
		if node.LeftChild <= i || node.LeftChild >= len(dt.Nodes) ||
			node.RightChild <= i || node.RightChild >= len(dt.Nodes) {
			return fmt.Errorf("tree: node %d has invalid children", i)
		}
		if node.FeatureIdx < 0 || (dt.NFeatures > 0 && node.FeatureIdx >= dt.NFeatures) {
			return fmt.Errorf("tree: node %d splits on feature %d", i, node.FeatureIdx)
		}
	}
	if outputs < 0 {
		return errors.New("tree: no leaves")
	}
	return nil
}

func (dt *RegressionTree) Predict(features [][]float64) ([][]float64, error) {
	if err := checkInput(features, dt.NFeatures); err != nil {
		return nil, err
	}
	out := make([][]float64, len(features))
	for i, row := range features {
		value, err := dt.predictRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = append([]float64(nil), value...)
	}
	return out, nil
}

func (dt *RegressionTree) Outputs() int {
	for _, node := range dt.Nodes {
		if node.IsLeaf {
			return len(node.Value)
		}
	}
	return 0
}

func (dt *RegressionTree) predictRow(features []float64) ([]float64, error) {
	if len(dt.Nodes) == 0 {
		return nil, ErrNotFitted
	}
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return nil, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.Nodes) {
			return nil, errors.New("invalid tree state")
		}
	}
}

// ForestModel 随机森林，取各棵树预测的平均值
type ForestModel struct {
	NFeatures int              `json:"n_features"`
	Trees     []RegressionTree `json:"trees"`
}

func (f *ForestModel) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest: %w", ErrNotFitted)
	}
	outputs := -1
	for i := range f.Trees {
		tree := &f.Trees[i]
		if tree.NFeatures == 0 {
			tree.NFeatures = f.NFeatures
		}
		if err := tree.validate(); err != nil {
			return fmt.Errorf("forest tree %d: %w", i, err)
		}
		if outputs >= 0 && tree.Outputs() != outputs {
			return fmt.Errorf("forest tree %d has %d outputs, want %d", i, tree.Outputs(), outputs)
		}
		outputs = tree.Outputs()
	}
	return nil
}

func (f *ForestModel) Predict(features [][]float64) ([][]float64, error) {
	if err := checkInput(features, f.NFeatures); err != nil {
		return nil, err
	}
	outputs := f.Outputs()
	out := make([][]float64, len(features))
	for i, row := range features {
		sum := make([]float64, outputs)
		for t := range f.Trees {
			value, err := f.Trees[t].predictRow(row)
			if err != nil {
				return nil, fmt.Errorf("row %d tree %d: %w", i, t, err)
			}
			for k, v := range value {
				sum[k] += v
			}
		}
		for k := range sum {
			sum[k] /= float64(len(f.Trees))
		}
		out[i] = sum
	}
	return out, nil
}

func (f *ForestModel) Outputs() int {
	if len(f.Trees) == 0 {
		return 0
	}
	return f.Trees[0].Outputs()
}
