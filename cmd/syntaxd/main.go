// Syntaxd serves mini-syntax snippets over HTTP from the pre-built
// syntax_map.json.
//
// Usage:
//
//	# Start with defaults (localhost:8000, artifacts/syntax_map.json)
//	syntaxd
//
//	# Configure via environment
//	SERVER_PORT=9000 SYNTAX_MAP=/data/syntax_map.json syntaxd
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mcpmoose/internal/config"
	"github.com/fyrsmithlabs/mcpmoose/internal/logging"
	"github.com/fyrsmithlabs/mcpmoose/internal/server"
	"github.com/fyrsmithlabs/mcpmoose/internal/syntax"
)

var (
	configPath string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "syntaxd",
	Short:   "HTTP service serving MOOSE mini-syntax snippets",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run starts the service and blocks until a shutdown signal arrives.
func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := syntax.NewService(cfg.Artifacts.SyntaxMap, logger)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(svc, logger, &server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Rebuilds of the artifacts get picked up without a restart.
	go func() {
		if err := svc.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("syntax map watcher stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
