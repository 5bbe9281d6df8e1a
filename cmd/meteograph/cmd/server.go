package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/api"
	"github.com/meteograph/meteograph/internal/logger"
	"github.com/meteograph/meteograph/internal/sampler"
	"github.com/meteograph/meteograph/internal/scheduler"
	"github.com/meteograph/meteograph/internal/storage"
)

var (
	noScheduler bool
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web server (Dashboard + API)",
	Long: `Start the Meteograph web server with optional scheduler.

The server provides:
  • Web Dashboard with per-station trend charts
  • REST API for querying observations
  • Prometheus metrics endpoint (/api/v1/metrics)
  • Optional scheduled weather sampling

Examples:
  # Start server with scheduler (if enabled in config)
  meteograph server

  # Start server without scheduler
  meteograph server --no-scheduler`,
	RunE: runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	if !cfg.Webserver.Enabled {
		return fmt.Errorf("webserver is disabled in configuration (set webserver.enabled: true)")
	}

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	if err := store.Init(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	// Create sampler runner
	var runner *sampler.Runner
	stations := cfg.GetEnabledStations()
	if len(stations) > 0 {
		runner, err = sampler.NewRunner(stations, &cfg.Sampler, logger.Log)
		if err != nil {
			logger.Warn("Failed to create sampler runner", zap.Error(err))
		}
	}

	// Create web server
	server, err := api.NewServer(cfg, store, runner, logger.Log)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	// Initialize Prometheus metrics from stored observations
	initPrometheusMetrics(context.Background(), store)

	// Create scheduler if enabled
	var sched *scheduler.Scheduler
	schedulerEnabled := cfg.Scheduler.Enabled && !noScheduler && runner != nil
	if schedulerEnabled {
		sched, err = scheduler.NewScheduler(&cfg.Scheduler, runner, store, logger.Log)
		if err != nil {
			logger.Warn("Failed to create scheduler", zap.Error(err))
			schedulerEnabled = false
		}
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()

		// Stop scheduler first
		if sched != nil {
			sched.Stop()
		}

		// Give server time to shutdown gracefully
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
	}()

	// Print startup info
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════╗")
	fmt.Println("║       Meteograph Web Server               ║")
	fmt.Println("╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Listen:      http://%s\n", cfg.Webserver.Listen)
	fmt.Printf("  Storage:     %s\n", cfg.Storage.Type)
	fmt.Printf("  Stations:    %d configured\n", len(cfg.Stations))
	if cfg.Webserver.Auth != nil && cfg.Webserver.Auth.Username != "" {
		fmt.Printf("  Auth:        Basic Auth enabled\n")
	} else {
		fmt.Printf("  Auth:        None\n")
	}

	// Start scheduler if enabled
	if schedulerEnabled && sched != nil {
		if err := sched.Start(); err != nil {
			logger.Error("Failed to start scheduler", zap.Error(err))
		} else {
			fmt.Printf("  Scheduler:   ✅ enabled (%s)\n", cfg.Scheduler.Schedule)
			fmt.Printf("  Next run:    %s\n", sched.NextRun())
		}
	} else {
		fmt.Printf("  Scheduler:   disabled\n")
	}

	fmt.Println()
	fmt.Println("  Dashboard:")
	fmt.Println("    GET  /                    - Web Dashboard")
	fmt.Println("    GET  /dashboard/station/{name}/chart    - Chart data")
	fmt.Println("    POST /dashboard/station/{name}/filter   - Quick-filter selection")
	fmt.Println("    POST /dashboard/station/{name}/rendered - Redraw report")
	fmt.Println()
	fmt.Println("  API Endpoints:")
	fmt.Println("    GET  /api/                - API Documentation")
	fmt.Println("    GET  /health              - Health check")
	fmt.Println("    GET  /api/v1/observations - List observations")
	fmt.Println("    GET  /api/v1/observations/latest - Latest observations")
	fmt.Println("    GET  /api/v1/stations     - List stations")
	fmt.Println("    GET  /api/v1/stations/{name}/stats - Station stats")
	fmt.Println("    POST /api/v1/sample       - Trigger sampling round")
	fmt.Println("    GET  /api/v1/metrics      - Prometheus metrics")
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		// Check if we're shutting down
		select {
		case <-ctx.Done():
			return nil
		default:
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false,
		"disable scheduler even if enabled in config")
}

// initPrometheusMetrics loads the latest observations from storage and
// seeds the Prometheus gauges.
func initPrometheusMetrics(ctx context.Context, store storage.Storage) {
	observations, err := store.GetLatestObservations(ctx)
	if err != nil {
		logger.Warn("Failed to load observations for Prometheus metrics initialization", zap.Error(err))
		return
	}

	if len(observations) == 0 {
		logger.Debug("No stored observations to initialize Prometheus metrics")
		return
	}

	for _, obs := range observations {
		sample := obs.ToSample()
		api.UpdateMetricsForSample(sample)
	}

	logger.Info("Prometheus metrics initialized from stored observations",
		zap.Int("stations", len(observations)),
	)
}
