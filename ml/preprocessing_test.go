package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const slicePreprocessorJSON = `{
  "columns": [
    {"name": "Traffic_Volume", "kind": "standard", "mean": 500, "scale": 250},
    {"name": "Latency_Requirement", "kind": "minmax", "data_min": 3, "data_max": 103},
    {"name": "Num_Active_Users", "kind": "passthrough"},
    {"name": "Slice_Type", "kind": "onehot", "categories": ["URLLC", "eMBB", "mMTC"]}
  ]
}`

func TestPreprocessorTransform(t *testing.T) {
	p, err := DecodePreprocessor([]byte(slicePreprocessorJSON))
	require.NoError(t, err)
	require.Equal(t, 6, p.Width())
	require.Equal(t, []string{
		"Traffic_Volume", "Latency_Requirement", "Num_Active_Users",
		"Slice_Type_URLLC", "Slice_Type_eMBB", "Slice_Type_mMTC",
	}, p.FeatureNames())

	frame := Frame{
		Columns: []string{"Slice_Type", "Num_Active_Users", "Latency_Requirement", "Traffic_Volume", "Extra"},
		Rows: [][]string{
			{"eMBB", "12", "53", "750", "ignored"},
			{"mMTC", "3", "3", "500", "ignored"},
		},
	}
	matrix, err := p.Transform(frame)
	require.NoError(t, err)
	require.Len(t, matrix, 2)
	require.InDeltaSlice(t, []float64{1, 0.5, 12, 0, 1, 0}, matrix[0], 1e-12)
	require.InDeltaSlice(t, []float64{0, 0, 3, 0, 0, 1}, matrix[1], 1e-12)
}

func TestPreprocessorTransformErrors(t *testing.T) {
	p, err := DecodePreprocessor([]byte(slicePreprocessorJSON))
	require.NoError(t, err)

	full := []string{"Traffic_Volume", "Latency_Requirement", "Num_Active_Users", "Slice_Type"}
	tests := []struct {
		name  string
		frame Frame
		want  error
	}{
		{
			name:  "missing column",
			frame: Frame{Columns: full[:3], Rows: [][]string{{"1", "2", "3"}}},
			want:  ErrMissingColumn,
		},
		{
			name:  "non numeric",
			frame: Frame{Columns: full, Rows: [][]string{{"lots", "2", "3", "eMBB"}}},
			want:  ErrInvalidValue,
		},
		{
			name:  "unknown slice type",
			frame: Frame{Columns: full, Rows: [][]string{{"1", "2", "3", "V2X"}}},
			want:  ErrUnknownCategory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Transform(tt.frame)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMinMaxDefaultsRangeWithoutDecode(t *testing.T) {
	p := &Preprocessor{Columns: []ColumnTransform{
		{Name: "Latency_Requirement", Kind: KindMinMax, DataMin: 3, DataMax: 103},
	}}
	matrix, err := p.Transform(Frame{
		Columns: []string{"Latency_Requirement"},
		Rows:    [][]string{{"3"}, {"53"}, {"103"}},
	})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0.5, 1}, []float64{matrix[0][0], matrix[1][0], matrix[2][0]}, 1e-12)
}

func TestInfiniteCellsReachModelGuard(t *testing.T) {
	p, err := DecodePreprocessor([]byte(`{"columns": [{"name": "Traffic_Volume", "kind": "passthrough"}]}`))
	require.NoError(t, err)
	model, err := DecodeModel([]byte(`{"type": "linear", "coef": [[1], [1], [1]]}`))
	require.NoError(t, err)

	for _, cell := range []string{"inf", "-inf", "Infinity"} {
		matrix, err := p.Transform(Frame{Columns: []string{"Traffic_Volume"}, Rows: [][]string{{cell}}})
		require.NoError(t, err)
		_, err = model.Predict(matrix)
		require.ErrorIs(t, err, ErrInfInput, cell)
	}
}

func TestPreprocessorIgnoreUnknownAndMissingValues(t *testing.T) {
	p, err := DecodePreprocessor([]byte(`{"columns": [
		{"name": "CPU_Utilization", "kind": "standard", "mean": 50, "scale": 0},
		{"name": "Slice_Type", "kind": "onehot", "categories": ["eMBB"], "handle_unknown": "ignore"}
	]}`))
	require.NoError(t, err)

	matrix, err := p.Transform(Frame{
		Columns: []string{"CPU_Utilization", "Slice_Type"},
		Rows:    [][]string{{"60", "V2X"}, {"", "eMBB"}},
	})
	require.NoError(t, err)
	require.Equal(t, []float64{10, 0}, matrix[0])
	require.True(t, math.IsNaN(matrix[1][0]))
	require.Equal(t, 1.0, matrix[1][1])
}

func TestDecodePreprocessorRejectsBadArtifacts(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":        `{`,
		"no columns":      `{"columns": []}`,
		"unknown kind":    `{"columns": [{"name": "a", "kind": "pca"}]}`,
		"onehot no cats":  `{"columns": [{"name": "a", "kind": "onehot"}]}`,
		"bad unknown opt": `{"columns": [{"name": "a", "kind": "onehot", "categories": ["x"], "handle_unknown": "drop"}]}`,
		"unnamed":         `{"columns": [{"kind": "standard"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePreprocessor([]byte(payload))
			require.Error(t, err)
		})
	}
}
