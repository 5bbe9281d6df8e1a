// Package config provides configuration structures and loading for Meteograph.
package config

// Config is the main configuration structure for Meteograph.
type Config struct {
	General   GeneralConfig   `yaml:"general"`
	Storage   StorageConfig   `yaml:"storage"`
	Webserver WebserverConfig `yaml:"webserver"`
	Stations  []StationConfig `yaml:"stations"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Locale    LocaleConfig    `yaml:"locale"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	// LogLevel sets the logging verbosity: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// DataDir is the directory for storing application data
	DataDir string `yaml:"data_dir"`
}

// StorageConfig defines the storage backend settings.
type StorageConfig struct {
	// Type is the storage backend: sqlite or postgres
	Type     string         `yaml:"type"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite-specific settings.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database
	Path string `yaml:"path"`
}

// PostgresConfig contains PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

// WebserverConfig defines the web server settings (Dashboard + API).
type WebserverConfig struct {
	// Enabled controls whether the web server is started
	Enabled bool `yaml:"enabled"`
	// Listen is the address and port to bind to (e.g., "0.0.0.0:8080")
	Listen string `yaml:"listen"`
	// Auth contains optional authentication settings
	Auth *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig contains optional Basic Auth settings for the API.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// StationConfig defines a weather station to sample.
type StationConfig struct {
	// Name is the display name for this station
	Name string `yaml:"name"`
	// BaseTemperatureC anchors the station's diurnal temperature model
	BaseTemperatureC float64 `yaml:"base_temperature_c"`
	// BaseHumidityPct anchors the station's humidity model (0-100)
	BaseHumidityPct float64 `yaml:"base_humidity_pct"`
	// Color optionally overrides the chart color for this station
	Color string `yaml:"color,omitempty"`
	// Enabled controls whether this station is sampled
	Enabled bool `yaml:"enabled"`
}

// SchedulerConfig defines the automatic sampling schedule.
type SchedulerConfig struct {
	// Enabled controls whether scheduled sampling runs automatically
	Enabled bool `yaml:"enabled"`
	// Schedule is a cron expression (e.g., "*/10 * * * *" for every 10 minutes)
	Schedule string `yaml:"schedule"`
	// RetentionDays controls how long observations are kept (0 = forever)
	RetentionDays int `yaml:"retention_days"`
}

// SamplerConfig contains weather-model settings.
type SamplerConfig struct {
	// Seed makes the synthetic weather model deterministic (0 = random)
	Seed int64 `yaml:"seed"`
}

// LocaleConfig holds the display strings rendered on the dashboard.
type LocaleConfig struct {
	// Quick-filter button labels
	Hourly  string `yaml:"hourly"`
	Daily   string `yaml:"daily"`
	Monthly string `yaml:"monthly"`
	// Loading is the overlay text shown while a chart refreshes
	Loading string `yaml:"loading"`
	// TitleFormat is the chart title; %s is replaced with the timeline grouping
	TitleFormat string `yaml:"title_format"`
}

// GetEnabledStations returns only the stations that are enabled.
func (c *Config) GetEnabledStations() []StationConfig {
	var enabled []StationConfig
	for _, st := range c.Stations {
		if st.Enabled {
			enabled = append(enabled, st)
		}
	}
	return enabled
}

// GetStationByName returns a station by its name, or nil if not found.
func (c *Config) GetStationByName(name string) *StationConfig {
	for i := range c.Stations {
		if c.Stations[i].Name == name {
			return &c.Stations[i]
		}
	}
	return nil
}
