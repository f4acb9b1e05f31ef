// Package cmd holds the slicealloc command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slicealloc/artifact"
	"slicealloc/config"
	"slicealloc/logging"
)

// app is the state shared by all subcommands once the root has initialised.
type app struct {
	configPath string
	config     *config.Config
	logger     *zap.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "slicealloc",
		Short: "5G network slice resource allocator",
		Long: `slicealloc loads a fitted preprocessor and model and turns CSV files of
network-slice metrics into allocated bandwidth, CPU and memory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "config file")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newPredictCmd(a))
	rootCmd.AddCommand(newArtifactsCmd(a))
	rootCmd.AddCommand(newSampleCmd(a))
	return rootCmd
}

// Execute runs the command line.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.config = cfg
	a.logger = logger
	return nil
}

func (a *app) openSource() (artifact.Source, error) {
	switch a.config.Artifacts.Source {
	case config.SourceSQLite:
		return artifact.OpenSQLite(a.config.Artifacts.SQLitePath)
	default:
		return artifact.NewFileSource(a.config.Artifacts.Dir), nil
	}
}

// loadBundle reads both artifacts from the configured source.
func (a *app) loadBundle(ctx context.Context) (*artifact.Bundle, error) {
	src, err := a.openSource()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	names := artifact.Names{
		Model:        a.config.Artifacts.Model,
		Preprocessor: a.config.Artifacts.Preprocessor,
	}
	bundle, err := artifact.Load(ctx, src, names)
	if err != nil {
		return nil, err
	}
	a.logger.Info("artifacts loaded",
		zap.String("source", a.config.Artifacts.Source),
		zap.String("model", names.Model),
		zap.String("preprocessor", names.Preprocessor),
		zap.Strings("features", bundle.Preprocessor.FeatureNames()))
	return bundle, nil
}
