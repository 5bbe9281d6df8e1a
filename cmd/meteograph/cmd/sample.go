package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/logger"
	"github.com/meteograph/meteograph/internal/sampler"
	"github.com/meteograph/meteograph/internal/storage"
)

var (
	sampleStation string
	sampleJSON    bool
	sampleNoSave  bool
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Take a weather sample",
	Long: `Take a weather sample for one or all configured stations.

Examples:
  # Sample all enabled stations
  meteograph sample

  # Sample a specific station
  meteograph sample --station Downtown

  # Output observations as JSON
  meteograph sample --json

  # Take a sample without saving to database
  meteograph sample --no-save`,
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	// Get stations to sample
	stations := cfg.GetEnabledStations()
	if len(stations) == 0 {
		return fmt.Errorf("no enabled stations found in configuration")
	}

	// Filter to specific station if requested
	if sampleStation != "" {
		st := cfg.GetStationByName(sampleStation)
		if st == nil {
			return fmt.Errorf("station %q not found", sampleStation)
		}
		if !st.Enabled {
			return fmt.Errorf("station %q is disabled", sampleStation)
		}
		stations = stations[:0]
		stations = append(stations, *st)
	}

	// Create runner
	runner, err := sampler.NewRunner(stations, &cfg.Sampler, logger.Log)
	if err != nil {
		return fmt.Errorf("failed to create sampler runner: %w", err)
	}

	// Initialize storage if saving observations
	var store storage.Storage
	if !sampleNoSave {
		store, err = storage.NewStorage(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		if err := store.Init(context.Background()); err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Received interrupt, cancelling sampling...")
		cancel()
	}()

	// Print header
	if !sampleJSON {
		fmt.Println()
		fmt.Println("Meteograph Sampling")
		fmt.Println("===================")
		fmt.Printf("Sampling %d station(s)...\n\n", len(stations))
	}

	// Take samples
	logger.Info("Starting sampling round", zap.Int("stations", len(stations)))
	samples, err := runner.RunAll(ctx)
	if err != nil {
		return fmt.Errorf("sampling failed: %w", err)
	}

	// Save observations to storage
	if store != nil {
		for _, sample := range samples {
			obs := storage.FromSample(&sample)
			if err := store.SaveObservation(ctx, obs); err != nil {
				logger.Warn("Failed to save observation",
					zap.String("station", sample.Station),
					zap.Error(err),
				)
			} else {
				logger.Debug("Observation saved",
					zap.String("station", sample.Station),
					zap.Int64("id", obs.ID),
				)
			}
		}
	}

	// Output samples
	if sampleJSON {
		fmt.Println(sampler.Samples(samples).ToJSON())
	} else {
		fmt.Println(sampler.Samples(samples).PrintTable())
		fmt.Println()

		// Summary
		ss := sampler.Samples(samples)
		fmt.Printf("Summary: %d station(s) sampled\n", len(samples))
		if len(samples) > 0 {
			fmt.Printf("Average temperature: %.1f °C\n", ss.AverageTemperature())
		}

		if store != nil {
			fmt.Printf("\n✅ Observations saved to database\n")
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&sampleStation, "station", "s", "",
		"sample only a specific station by name")
	sampleCmd.Flags().BoolVar(&sampleJSON, "json", false,
		"output observations as JSON")
	sampleCmd.Flags().BoolVar(&sampleNoSave, "no-save", false,
		"don't save observations to database")
}
