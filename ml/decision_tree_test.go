package ml

import "testing"

func TestRegressionTreePredict(t *testing.T) {
	tree := &RegressionTree{
		NFeatures: 2,
		Nodes: []TreeNode{
			{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
			{IsLeaf: true, Value: []float64{10, 1, 256}},
			{IsLeaf: true, Value: []float64{40, 4, 1024}},
		},
	}
	if err := tree.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := tree.Predict([][]float64{{0.2, 9}, {0.5, 0}, {0.9, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(out))
	}
	if out[0][0] != 10 || out[1][0] != 10 || out[2][0] != 40 {
		t.Fatalf("unexpected predictions: %v", out)
	}
	if tree.Outputs() != 3 {
		t.Fatalf("expected 3 outputs, got %d", tree.Outputs())
	}
}

func TestRegressionTreeRejectsWrongWidth(t *testing.T) {
	tree := &RegressionTree{
		NFeatures: 2,
		Nodes:     []TreeNode{{IsLeaf: true, Value: []float64{1}}},
	}
	if _, err := tree.Predict([][]float64{{1, 2, 3}}); err == nil {
		t.Fatal("expected feature count error")
	}
}

func TestRegressionTreeValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []TreeNode
	}{
		{name: "empty"},
		{name: "child points backwards", nodes: []TreeNode{
			{FeatureIdx: 0, LeftChild: 0, RightChild: 1},
			{IsLeaf: true, Value: []float64{1}},
		}},
		{name: "leaf without value", nodes: []TreeNode{{IsLeaf: true}}},
		{name: "ragged leaves", nodes: []TreeNode{
			{FeatureIdx: 0, LeftChild: 1, RightChild: 2},
			{IsLeaf: true, Value: []float64{1}},
			{IsLeaf: true, Value: []float64{1, 2}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &RegressionTree{Nodes: tt.nodes}
			if err := tree.validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestForestAveragesTrees(t *testing.T) {
	forest := &ForestModel{
		NFeatures: 1,
		Trees: []RegressionTree{
			{Nodes: []TreeNode{{IsLeaf: true, Value: []float64{10, 2, 500}}}},
			{Nodes: []TreeNode{{IsLeaf: true, Value: []float64{20, 4, 700}}}},
		},
	}
	if err := forest.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := forest.Predict([][]float64{{0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{15, 3, 600}
	for i := range want {
		if out[0][i] != want[i] {
			t.Fatalf("expected %v, got %v", want, out[0])
		}
	}
}
