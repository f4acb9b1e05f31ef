package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slicealloc/ml"
	"slicealloc/pipeline"
)

func newSampleCmd(a *app) *cobra.Command {
	var (
		rounds int
		seed   int64
		output string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate synthetic slice metrics in the simulator's input format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rounds <= 0 {
				return fmt.Errorf("rounds must be positive, got %d", rounds)
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			records := ml.GenerateSliceMetrics(rand.New(rand.NewSource(seed)), rounds)
			var buf bytes.Buffer
			if err := pipeline.WriteFrame(&buf, ml.NewSliceMetricsFrame(records)); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write sample: %w", err)
			}
			a.logger.Info("sample written",
				zap.String("path", output),
				zap.Int("rows", len(records)),
				zap.Int64("seed", seed))
			return nil
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 100, "simulator rounds; each round yields one row per slice type")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
