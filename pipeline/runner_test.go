package pipeline

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slicealloc/artifact"
	"slicealloc/monitoring"
)

func newTestRunner(t *testing.T, size int) (*Runner, *monitoring.Metrics) {
	t.Helper()
	pre, model := loadArtifacts(t)
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	runner, err := NewRunner(&artifact.Bundle{Preprocessor: pre, Model: model}, size, metrics, zap.NewNop())
	require.NoError(t, err)
	return runner, metrics
}

func csvInput(t *testing.T, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, sliceFrame(n)))
	return buf.Bytes()
}

func TestRunnerRun(t *testing.T) {
	runner, metrics := newTestRunner(t, 4)
	input := csvInput(t, 5)

	run, err := runner.Run(input)
	require.NoError(t, err)
	require.Equal(t, Digest(input), run.ID)
	require.Len(t, run.Results, 5)
	require.Equal(t, 5, run.Input.Len())
	require.True(t, bytes.HasPrefix(run.CSV, []byte("Allocated_Bandwidth,Allocated_CPU,Allocated_Memory\n")))
	require.Equal(t, 6, bytes.Count(run.CSV, []byte("\n")))

	again, err := runner.Run(input)
	require.NoError(t, err)
	require.Same(t, run, again)

	found, ok := runner.Lookup(run.ID)
	require.True(t, ok)
	require.Same(t, run, found)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(monitoring.OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(monitoring.OutcomeCached)))
}

func TestRunnerFailureIsNotCached(t *testing.T) {
	runner, metrics := newTestRunner(t, 4)
	input := []byte("Traffic_Volume\n1\n")

	_, err := runner.Run(input)
	require.Error(t, err)
	_, ok := runner.Lookup(Digest(input))
	require.False(t, ok)

	run, err := runner.Run(csvInput(t, 1))
	require.NoError(t, err)
	require.Len(t, run.Results, 1)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues(monitoring.OutcomeError)))
}

func TestRunnerEvictsOldRuns(t *testing.T) {
	runner, _ := newTestRunner(t, 1)
	first, err := runner.Run(csvInput(t, 1))
	require.NoError(t, err)
	_, err = runner.Run(csvInput(t, 2))
	require.NoError(t, err)

	_, ok := runner.Lookup(first.ID)
	require.False(t, ok)
}
