// Package cli: serve.go implements the "qv serve" command.
//
// The serve command runs the HTTP API until SIGINT or SIGTERM, then drains
// in-flight requests within server.shutdownTimeout.
//
// Orchestration steps:
//  1. Load configuration and apply --addr / --port overrides
//  2. Build the logger, metrics registry and API
//  3. Bind the preferred port, falling back to the configured range
//  4. Serve until a signal arrives, then shut down gracefully
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quantum-visualizer/internal/api"
	"github.com/shinji-kodama/quantum-visualizer/internal/config"
	"github.com/shinji-kodama/quantum-visualizer/internal/metrics"
	"github.com/shinji-kodama/quantum-visualizer/internal/model"
	"github.com/shinji-kodama/quantum-visualizer/internal/port"
)

type serveFlags struct {
	addr string // --addr: bind address
	port int    // --port: preferred port
}

// NewServeCommand creates the "serve" cobra command.
func NewServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quantum visualizer HTTP API",
		Long: `Run the HTTP API consumed by the quantum visualizer front end.

Endpoints:
  POST /simulate/test                    square a number
  POST /simulate/infinite-well           spectrum and optional wavefunction
  GET  /simulate/infinite-well/levels    spectrum from query parameters
  GET  /simulate/infinite-well/psi/{n}   wavefunction ψ_n
  POST /simulate/box2d                   2D box probability surface
  GET  /simulate/box3d                   3D box density at a point
  GET  /healthz                          liveness check
  GET  /metrics                          Prometheus metrics

Examples:
  qv serve
  qv serve --port 8080
  qv serve --config qv.yaml --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyServeFlags(cmd, flags, &cfg.Server)
			return runServe(cmd.Context(), cfg)
		},
	}

	d := config.Default().Server
	cmd.Flags().StringVar(&flags.addr, "addr", d.Address, "Bind address (default: all interfaces)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", d.Port, "Preferred listen port")
	return cmd
}

// applyServeFlags overrides config values with flags the user actually set.
func applyServeFlags(cmd *cobra.Command, flags *serveFlags, s *config.ServerConfig) {
	if cmd.Flags().Changed("addr") {
		s.Address = flags.addr
	}
	if cmd.Flags().Changed("port") {
		s.Port = flags.port
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	a := api.New(api.Options{Config: cfg, Logger: logger, Metrics: metrics.New()})

	ln, err := port.NewScanner(cfg.Server.Address).Listen(cfg.Server.Port, cfg.Server.FallbackPortRange)
	if err != nil {
		return model.WrapCLIError(model.ExitServerError,
			fmt.Sprintf("failed to bind HTTP listener on %s", cfg.Server.ListenAddr()), err)
	}
	// Port 0 asks the OS for any free port, which is not a fallback.
	if bound := port.ListenerPort(ln); cfg.Server.Port != 0 && bound != cfg.Server.Port {
		logger.WithFields(logrus.Fields{
			"preferred": cfg.Server.Port,
			"port":      bound,
		}).Warn("preferred port busy, using fallback")
	}

	srv := &http.Server{
		Handler:      a.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	defer close(done)
	a.StartMaintenance(done)

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", ln.Addr().String()).Info("server listening")
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return model.WrapCLIError(model.ExitServerError, "server terminated", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return model.WrapCLIError(model.ExitServerError, "graceful shutdown failed", err)
	}
	// Serve closes the listener on return.
	<-serveErr
	logger.Info("server stopped")
	return nil
}
