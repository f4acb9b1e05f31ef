package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingDefaultFile(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), DefaultPath), false)
	require.NoError(t, err)
	require.Equal(t, Default(), config)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9000
  timeout: 5s
log:
  level: debug
  encoding: json
artifacts:
  source: sqlite
  sqlite_path: /var/lib/slicealloc/artifacts.db
  model: model.json.zst
cache:
  size: 8
`), 0o600))

	config, err := Load(path, true)
	require.NoError(t, err)
	require.Equal(t, 9000, config.HTTP.Port)
	require.Equal(t, 5*time.Second, config.HTTP.Timeout)
	require.Equal(t, int64(200<<20), config.HTTP.MaxUploadBytes)
	require.Equal(t, "debug", config.Log.Level)
	require.Equal(t, SourceSQLite, config.Artifacts.Source)
	require.Equal(t, "model.json.zst", config.Artifacts.Model)
	require.Equal(t, "preprocessor.json", config.Artifacts.Preprocessor)
	require.Equal(t, 8, config.Cache.Size)
	require.Equal(t, "slice_input_metrics.csv", config.Batch.Input)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"bad source": "artifacts:\n  source: s3\n",
		"bad port":   "http:\n  port: 70000\n",
		"not yaml":   "http: [",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path, true)
			require.Error(t, err)
		})
	}
}
