package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slicealloc/artifact"
)

func newArtifactsCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Manage the SQLite artifact registry",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "registry path (overrides artifacts.sqlite_path)")

	open := func() (*artifact.SQLiteSource, error) {
		path := a.config.Artifacts.SQLitePath
		if dbPath != "" {
			path = dbPath
		}
		return artifact.OpenSQLite(path)
	}

	importCmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Store artifact files in the registry under their base name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := open()
			if err != nil {
				return err
			}
			defer registry.Close()

			for _, path := range args {
				payload, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				// Compressed payloads are stored as is; the name keeps the
				// extension that selects the decoder on read.
				if _, err := artifact.Decompress(path, payload); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				name := filepath.Base(path)
				if err := registry.Put(cmd.Context(), name, payload); err != nil {
					return err
				}
				a.logger.Info("artifact imported", zap.String("name", name), zap.Int("bytes", len(payload)))
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the artifacts in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := open()
			if err != nil {
				return err
			}
			defer registry.Close()

			records, err := registry.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBYTES\tCREATED")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%d\t%s\n", r.Name, r.Size, r.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(importCmd, listCmd)
	return cmd
}
