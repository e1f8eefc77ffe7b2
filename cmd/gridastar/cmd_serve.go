package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pdrpinto/gridastar/internal/config"
	"github.com/pdrpinto/gridastar/internal/metrics"
	"github.com/pdrpinto/gridastar/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser visualizer",
		Long: `Serve the browser visualizer and its JSON/WebSocket API.

Each browser tab gets its own search session. Prometheus metrics are
exposed at /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("addr") {
					cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
				}
			})
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)
			gin.SetMode(gin.ReleaseMode)

			srv := server.New(server.Options{
				Maze:           cfg.MazeConfig(),
				Search:         cfg.SearchOptions(),
				StreamInterval: cfg.Server.StreamInterval,
				MaxSessions:    cfg.Server.MaxSessions,
			SessionTTL:     cfg.Server.SessionTTL,
				Logger:         logger,
				Metrics:        metrics.New(prometheus.DefaultRegisterer),
				MetricsHandler: promhttp.Handler(),
			})
			httpSrv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			notifySignals(sigCh)
			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.ListenAndServe() }()
			logger.Info("serving visualizer", "addr", cfg.Server.Addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case sig := <-sigCh:
				logger.Info("shutting down", "signal", sig.String())
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	return cmd
}
