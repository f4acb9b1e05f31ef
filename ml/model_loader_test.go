package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeModel(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		input   [][]float64
		want    [][]float64
	}{
		{
			name:    "constant",
			payload: `{"type": "constant", "values": [10.5, 2.0, 512.0]}`,
			input:   [][]float64{{1, 2}, {3, 4}},
			want:    [][]float64{{10.5, 2, 512}, {10.5, 2, 512}},
		},
		{
			name: "linear",
			payload: `{"type": "linear", "n_features": 2,
				"coef": [[1, 0], [0, 1], [2, 2]], "intercept": [0.5, 1, 100]}`,
			input: [][]float64{{1, 2}},
			want:  [][]float64{{1.5, 3, 106}},
		},
		{
			name: "tree",
			payload: `{"type": "tree", "n_features": 1, "nodes": [
				{"feature_idx": 0, "threshold": 0, "left_child": 1, "right_child": 2},
				{"is_leaf": true, "value": [1, 1, 1]},
				{"is_leaf": true, "value": [2, 2, 2]}]}`,
			input: [][]float64{{-1}, {1}},
			want:  [][]float64{{1, 1, 1}, {2, 2, 2}},
		},
		{
			name: "multi output",
			payload: `{"type": "multi_output", "estimators": [
				{"type": "linear", "coef": [[1]], "intercept": [0]},
				{"type": "constant", "values": [4]},
				{"type": "forest", "n_features": 1, "trees": [
					{"nodes": [{"is_leaf": true, "value": [100]}]},
					{"nodes": [{"is_leaf": true, "value": [300]}]}]}]}`,
			input: [][]float64{{7}},
			want:  [][]float64{{7, 4, 200}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := DecodeModel([]byte(tt.payload))
			require.NoError(t, err)
			require.Equal(t, 3, model.Outputs())
			got, err := model.Predict(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeModelErrors(t *testing.T) {
	_, err := DecodeModel([]byte(`{"type": "pickle"}`))
	require.ErrorIs(t, err, ErrUnsupportedModel)

	_, err = DecodeModel([]byte(`{"type": "constant", "values": []}`))
	require.ErrorIs(t, err, ErrNotFitted)

	_, err = DecodeModel([]byte(`{"type": "linear", "coef": [[1, 2], [3]]}`))
	require.Error(t, err)

	_, err = DecodeModel([]byte(`not json`))
	require.Error(t, err)
}

func TestLinearModelGuards(t *testing.T) {
	model, err := DecodeModel([]byte(`{"type": "linear", "n_features": 2, "coef": [[1, 1]]}`))
	require.NoError(t, err)

	_, err = model.Predict([][]float64{{1, 2, 3}})
	require.ErrorIs(t, err, ErrFeatureCount)

	_, err = model.Predict([][]float64{{1, math.NaN()}})
	require.ErrorIs(t, err, ErrNaNInput)

	for _, v := range []float64{math.Inf(1), math.Inf(-1)} {
		_, err = model.Predict([][]float64{{1, 2}, {v, 2}})
		require.ErrorIs(t, err, ErrInfInput)
	}
}
