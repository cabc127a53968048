/*
main.go - Application entry point

PURPOSE:
  Starts the labor-budget forecasting engine server and ships a small
  operator utility for inspecting period ranges.

COMMANDS:
  serve          Run the HTTP API (config via --config YAML, flag overrides)
  range          Print the date range for a preset and reference date

STARTUP SEQUENCE:
  1. Load YAML config (defaults when absent), apply flag overrides
  2. Initialize zap logger and the SQLite store
  3. Wire the handler and chi router
  4. Serve with graceful shutdown on SIGINT/SIGTERM

EXAMPLES:
  # Run with a file database
  ./server serve --db ./data/labor.db

  # Run with an in-memory database on another port
  ./server serve --db :memory: --port 3000

  # Inspect a range
  ./server range --preset semimonthly --date 2026-03-20
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/labor-engine/api"
	"github.com/warp/labor-engine/config"
	"github.com/warp/labor-engine/forecast"
	"github.com/warp/labor-engine/store/sqlite"
)

func main() {
	root := &cobra.Command{
		Use:   "labor-engine",
		Short: "Timeframe and labor-budget forecasting engine",
	}
	root.AddCommand(serveCmd(), rangeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}

			logger, err := newLogger(cfg.Development)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return serve(cfg, logger)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	cmd.Flags().StringVar(&dbPath, "db", "labor.db", "SQLite database path (\":memory:\" for in-memory)")
	return cmd
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, logger)
	handler.DefaultPreset = forecast.Preset(cfg.DefaultPreset)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("db", cfg.DBPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func rangeCmd() *cobra.Command {
	var (
		preset  string
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print the date range for a preset and reference date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := forecast.Today()
			if dateStr != "" {
				parsed, err := forecast.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				ref = parsed
			}

			p := forecast.Preset(preset)
			period := forecast.RangeFor(p, ref)
			fmt.Printf("%s  %s\n", period, forecast.FormatRange(p, period))
			fmt.Printf("prev ref: %s  next ref: %s\n",
				forecast.Step(p, ref, forecast.StepPrev),
				forecast.Step(p, ref, forecast.StepNext))
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "weekly", "period preset")
	cmd.Flags().StringVar(&dateStr, "date", "", "reference date (YYYY-MM-DD, default today)")
	return cmd
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
