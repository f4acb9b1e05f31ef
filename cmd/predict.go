package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slicealloc/pipeline"
)

func newPredictCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "predict [input.csv]",
		Short: "Allocate resources for a CSV of slice metrics and print the result",
		Long: `predict reads slice metrics (batch.input from the config, or the given file),
runs them through the loaded artifacts and prints the allocation CSV to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.config.Batch.Input
			if len(args) == 1 {
				input = args[0]
			}

			bundle, err := a.loadBundle(cmd.Context())
			if err != nil {
				a.logger.Error("failed to load artifacts", zap.Error(err))
				return err
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			runner, err := pipeline.NewRunner(bundle, 1, nil, a.logger)
			if err != nil {
				return err
			}
			run, err := runner.Run(data)
			if err != nil {
				return fmt.Errorf("prediction failed for %s: %w", input, err)
			}

			if _, err := cmd.OutOrStdout().Write(run.CSV); err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, run.CSV, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				a.logger.Info("results written", zap.String("path", output), zap.Int("rows", len(run.Results)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the result CSV to this file")
	return cmd
}
