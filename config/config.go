// Package config loads the allocator's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"slicealloc/logging"
)

const DefaultPath = "config.yaml"

type Config struct {
	HTTP struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	} `yaml:"http"`
	Log       logging.Config `yaml:"log"`
	Artifacts struct {
		Source       string `yaml:"source"`
		Dir          string `yaml:"dir"`
		SQLitePath   string `yaml:"sqlite_path"`
		Model        string `yaml:"model"`
		Preprocessor string `yaml:"preprocessor"`
	} `yaml:"artifacts"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Batch struct {
		Input string `yaml:"input"`
	} `yaml:"batch"`
}

const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.HTTP.Port = 8501
	c.HTTP.Timeout = 30 * time.Second
	c.HTTP.MaxUploadBytes = 200 << 20
	c.Log.Level = "info"
	c.Log.Encoding = "console"
	c.Log.MaxSizeMB = 100
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 28
	c.Artifacts.Source = SourceFile
	c.Artifacts.Dir = "."
	c.Artifacts.SQLitePath = "artifacts.db"
	c.Artifacts.Model = "model.json"
	c.Artifacts.Preprocessor = "preprocessor.json"
	c.Cache.Size = 64
	c.Batch.Input = "slice_input_metrics.csv"
	return &c
}

// Load decodes path over the defaults. When explicit is false a missing file
// is not an error.
func Load(path string, explicit bool) (*Config, error) {
	config := Default()
	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	switch c.Artifacts.Source {
	case SourceFile, SourceSQLite:
	default:
		return fmt.Errorf("artifacts.source %q: want %s or %s", c.Artifacts.Source, SourceFile, SourceSQLite)
	}
	if c.Artifacts.Model == "" || c.Artifacts.Preprocessor == "" {
		return errors.New("artifacts.model and artifacts.preprocessor are required")
	}
	return nil
}
