package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meteograph/meteograph/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for managing Meteograph configuration.`,
}

// configValidateCmd validates the configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Check the configuration file for errors.

Examples:
  meteograph config validate
  meteograph config validate --config /path/to/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}

		fmt.Println("✅ Configuration is valid!")
		fmt.Printf("   Stations: %d configured, %d enabled\n",
			len(cfg.Stations), len(cfg.GetEnabledStations()))
		fmt.Printf("   Storage: %s\n", cfg.Storage.Type)
		fmt.Printf("   Webserver: %s (enabled: %t)\n", cfg.Webserver.Listen, cfg.Webserver.Enabled)
		fmt.Printf("   Scheduler: %s (enabled: %t)\n", cfg.Scheduler.Schedule, cfg.Scheduler.Enabled)

		return nil
	},
}

// configShowCmd shows the current configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Long: `Display the current configuration with all defaults applied.

Examples:
  meteograph config show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		fmt.Println("# Current Meteograph Configuration")
		fmt.Println("# (with defaults applied)")
		fmt.Println()
		fmt.Print(string(data))

		return nil
	},
}

var configInitOutput string

// configInitCmd generates an example configuration
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an example configuration",
	Long: `Generate an example configuration file to stdout.

Examples:
  # Print example config to stdout
  meteograph config init

  # Save example config to file
  meteograph config init --output /etc/meteograph/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configInitOutput != "" {
			if err := config.WriteExample(configInitOutput); err != nil {
				return err
			}
			fmt.Printf("✅ Example configuration written to %s\n", configInitOutput)
			return nil
		}

		// Read the example config file
		examplePath := "configs/meteograph.example.yaml"

		data, err := os.ReadFile(examplePath)
		if err != nil {
			// If example file not found, generate from defaults
			cfg := config.NewDefault()
			cfg.Stations = []config.StationConfig{
				{
					Name:             "Downtown",
					BaseTemperatureC: 14.5,
					BaseHumidityPct:  62,
					Color:            "#36a2eb",
					Enabled:          true,
				},
				{
					Name:             "Airport",
					BaseTemperatureC: 12.0,
					BaseHumidityPct:  70,
					Color:            "#ff6384",
					Enabled:          true,
				},
			}

			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}

			fmt.Println("# Meteograph Configuration")
			fmt.Println("# Generated from defaults")
			fmt.Println()
			fmt.Print(string(yamlData))
			return nil
		}

		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "",
		"write the example configuration to a file instead of stdout")
}

