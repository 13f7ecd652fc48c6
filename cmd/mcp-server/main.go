// Command mcp-server exposes the gocas tools over HTTP for agent frameworks.
//
// Usage:
//
//	mcp-server --port 8080 [--config gocas.yaml] [--store-dir ./cache]
//
// Endpoints:
//
//	POST /tool     execute a tool call
//	GET  /schema   tool schema for agent registration
//	GET  /health   liveness check
//	GET  /metrics  Prometheus metrics
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gocas"
	"github.com/njchilds90/gocas/internal/logging"
)

var (
	flagPort     int
	flagConfig   string
	flagStoreDir string
	flagLogLevel string
	flagLogJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve gocas symbolic math tools over HTTP",
	Long: `Serves every gocas tool as a JSON endpoint.

Examples:
  mcp-server --port 8080
  mcp-server --config gocas.yaml --store-dir ./simplify-cache
  mcp-server --log-level debug --log-json`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.Flags().IntVarP(&flagPort, "port", "p", 8080, "port to listen on")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "YAML engine configuration")
	rootCmd.Flags().StringVar(&flagStoreDir, "store-dir", "", "directory for the persistent simplification cache")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.Flags().BoolVar(&flagLogJSON, "log-json", false, "log as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logging.New(logging.Config{
		Level:   logging.ParseLevel(flagLogLevel),
		JSON:    flagLogJSON,
		Service: "gocas-mcp",
	})
	gocas.SetLogger(log.Slog())

	if flagConfig != "" {
		cfg, err := gocas.LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		if err := gocas.Configure(cfg); err != nil {
			return err
		}
	}
	storeCfg := gocas.CurrentConfig().Store
	if flagStoreDir != "" {
		storeCfg.Dir = flagStoreDir
	}
	if storeCfg.Dir != "" || storeCfg.InMemory {
		pc, err := gocas.OpenPersistentCache(storeCfg)
		if err != nil {
			return fmt.Errorf("open simplification store: %w", err)
		}
		defer pc.Close()
		gocas.AttachPersistentCache(pc)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", flagPort),
		Handler:           newRouter(log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "tools", len(gocas.ToolNames()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
