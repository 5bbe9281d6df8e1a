package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meteograph/meteograph/internal/storage"
)

var (
	obsStation     string
	obsLimit       int
	obsJSON        bool
	obsSince       string
	obsStats       bool
	obsStatsPeriod string
)

// observationsCmd represents the observations command
var observationsCmd = &cobra.Command{
	Use:   "observations",
	Short: "Show weather observations",
	Long: `Display stored weather observations.

Examples:
  # Show recent observations
  meteograph observations

  # Show observations for a specific station
  meteograph observations --station Downtown

  # Show last 10 observations as JSON
  meteograph observations --limit 10 --json

  # Show observations from the last 24 hours
  meteograph observations --since 24h

  # Show statistics for a station
  meteograph observations --stats --station Downtown --period 168h`,
	RunE: runObservations,
}

func runObservations(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	if err := store.Init(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	// Show statistics if requested
	if obsStats {
		return showStats(ctx, store)
	}

	// Build filter
	filter := storage.ObservationFilter{
		Station: obsStation,
		Limit:   obsLimit,
	}

	// Parse since duration
	if obsSince != "" {
		duration, err := time.ParseDuration(obsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format for --since: %w", err)
		}
		filter.Since = time.Now().Add(-duration)
	}

	// Get observations
	observations, err := store.GetObservations(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get observations: %w", err)
	}

	if len(observations) == 0 {
		fmt.Println("No observations found.")
		return nil
	}

	// Output observations
	if obsJSON {
		data, err := json.MarshalIndent(observations, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal observations: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printObservationsTable(observations)
	}

	return nil
}

func showStats(ctx context.Context, store storage.Storage) error {
	// Parse period
	period := 24 * time.Hour // Default 24h
	if obsStatsPeriod != "" {
		var err error
		period, err = time.ParseDuration(obsStatsPeriod)
		if err != nil {
			return fmt.Errorf("invalid duration format for --period: %w", err)
		}
	}

	if obsStation == "" {
		return fmt.Errorf("--station is required when using --stats")
	}

	stats, err := store.GetStats(ctx, obsStation, period)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if obsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printStats(stats)
	}

	return nil
}

func printObservationsTable(observations []storage.Observation) {
	fmt.Println()
	fmt.Println("Weather Observations")
	fmt.Println("====================")
	fmt.Println()

	// Header
	fmt.Printf("%-5s | %-20s | %8s | %6s | %9s | %9s | %7s | %s\n",
		"ID", "Station", "Temp", "Hum", "Pressure", "Wind", "Precip", "Time")
	fmt.Println("------+----------------------+----------+--------+-----------+-----------+---------+---------------------")

	for _, o := range observations {
		timeStr := o.CreatedAt.Local().Format("2006-01-02 15:04:05")

		fmt.Printf("%-5d | %-20s | %5.1f °C | %4.0f %% | %5.1f hPa | %5.1f kph | %4.1f mm | %s\n",
			o.ID, truncate(o.Station, 20), o.TemperatureC, o.HumidityPct,
			o.PressureHpa, o.WindKph, o.PrecipMM, timeStr)
	}

	fmt.Println()
	fmt.Printf("Total: %d observations\n", len(observations))
}

func printStats(stats *storage.Stats) {
	fmt.Println()
	fmt.Printf("Statistics for: %s\n", stats.Station)
	fmt.Printf("Period: %s (from %s to %s)\n",
		stats.Period,
		stats.Since.Local().Format("2006-01-02 15:04"),
		stats.Until.Local().Format("2006-01-02 15:04"))
	fmt.Println("==========================================")
	fmt.Println()

	fmt.Printf("Observations: %d\n", stats.ObservationCount)
	fmt.Println()

	if stats.ObservationCount > 0 {
		fmt.Println("Temperature (°C):")
		fmt.Printf("  Average: %.1f | Min: %.1f | Max: %.1f\n",
			stats.AvgTemperatureC, stats.MinTemperatureC, stats.MaxTemperatureC)
		fmt.Println()

		fmt.Printf("Humidity:      %.0f %% average\n", stats.AvgHumidityPct)
		fmt.Printf("Pressure:      %.1f hPa average\n", stats.AvgPressureHpa)
		fmt.Printf("Wind:          %.1f km/h max\n", stats.MaxWindKph)
		fmt.Printf("Precipitation: %.1f mm total\n", stats.TotalPrecipMM)
	} else {
		fmt.Println("No observations in this period.")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	rootCmd.AddCommand(observationsCmd)

	observationsCmd.Flags().StringVarP(&obsStation, "station", "s", "",
		"filter observations by station name")
	observationsCmd.Flags().IntVarP(&obsLimit, "limit", "n", 10,
		"maximum number of observations to show")
	observationsCmd.Flags().BoolVar(&obsJSON, "json", false,
		"output observations as JSON")
	observationsCmd.Flags().StringVar(&obsSince, "since", "",
		"show observations since duration (e.g., 24h, 168h)")
	observationsCmd.Flags().BoolVar(&obsStats, "stats", false,
		"show statistics instead of individual observations")
	observationsCmd.Flags().StringVar(&obsStatsPeriod, "period", "24h",
		"time period for statistics (e.g., 24h, 168h, 720h)")
}
