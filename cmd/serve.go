package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	qhttp "slicealloc/http"
	"slicealloc/monitoring"
	"slicealloc/pipeline"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page and allocation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.config.HTTP.Port = port
			}

			bundle, err := a.loadBundle(cmd.Context())
			if err != nil {
				a.logger.Error("failed to load artifacts", zap.Error(err))
				return err
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := monitoring.NewMetrics(registry)

			runner, err := pipeline.NewRunner(bundle, a.config.Cache.Size, metrics, a.logger)
			if err != nil {
				return err
			}

			serverConfig := qhttp.ServerConfig{
				Port:           a.config.HTTP.Port,
				Timeout:        a.config.HTTP.Timeout,
				MaxUploadBytes: a.config.HTTP.MaxUploadBytes,
			}
			handlers := qhttp.NewHandlers(runner, registry, serverConfig.MaxUploadBytes, a.logger)
			server := qhttp.NewServer(serverConfig, handlers, metrics, a.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return err
			case sig := <-quit:
				a.logger.Info("signal received", zap.String("signal", sig.String()))
			}

			if err := server.Stop(); err != nil {
				a.logger.Error("shutdown failed", zap.Error(err))
				return err
			}
			a.logger.Info("exiting")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides http.port)")
	return cmd
}
