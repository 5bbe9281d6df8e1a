package config

// Default values for configuration
const (
	DefaultLogLevel        = "info"
	DefaultDataDir         = "/var/lib/meteograph"
	DefaultStorageType     = "sqlite"
	DefaultSQLitePath      = "/var/lib/meteograph/observations.db"
	DefaultWebserverListen = "127.0.0.1:8080"
	DefaultSchedule        = "*/10 * * * *" // Every 10 minutes
	DefaultPostgresPort    = 5432
	DefaultPostgresSSL     = "disable"

	DefaultLabelHourly  = "Hourly"
	DefaultLabelDaily   = "Daily"
	DefaultLabelMonthly = "Monthly"
	DefaultLabelLoading = "Loading…"
	DefaultTitleFormat  = "Weather trends (%s)"
)

// NewDefault creates a new Config with all default values applied.
func NewDefault() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: DefaultLogLevel,
			DataDir:  DefaultDataDir,
		},
		Storage: StorageConfig{
			Type: DefaultStorageType,
			SQLite: SQLiteConfig{
				Path: DefaultSQLitePath,
			},
			Postgres: PostgresConfig{
				Port:    DefaultPostgresPort,
				SSLMode: DefaultPostgresSSL,
			},
		},
		Webserver: WebserverConfig{
			Enabled: true,
			Listen:  DefaultWebserverListen,
		},
		Stations: []StationConfig{},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: DefaultSchedule,
		},
		Sampler: SamplerConfig{},
		Locale: LocaleConfig{
			Hourly:      DefaultLabelHourly,
			Daily:       DefaultLabelDaily,
			Monthly:     DefaultLabelMonthly,
			Loading:     DefaultLabelLoading,
			TitleFormat: DefaultTitleFormat,
		},
	}
}

// ApplyDefaults fills in default values for any unset configuration options.
func ApplyDefaults(cfg *Config) {
	// General defaults
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = DefaultLogLevel
	}
	if cfg.General.DataDir == "" {
		cfg.General.DataDir = DefaultDataDir
	}

	// Storage defaults
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = DefaultStorageType
	}
	if cfg.Storage.Type == "sqlite" && cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.Postgres.Port == 0 {
		cfg.Storage.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = DefaultPostgresSSL
	}

	// Webserver defaults
	if cfg.Webserver.Listen == "" {
		cfg.Webserver.Listen = DefaultWebserverListen
	}

	// Scheduler defaults
	if cfg.Scheduler.Schedule == "" {
		cfg.Scheduler.Schedule = DefaultSchedule
	}

	// Locale defaults
	if cfg.Locale.Hourly == "" {
		cfg.Locale.Hourly = DefaultLabelHourly
	}
	if cfg.Locale.Daily == "" {
		cfg.Locale.Daily = DefaultLabelDaily
	}
	if cfg.Locale.Monthly == "" {
		cfg.Locale.Monthly = DefaultLabelMonthly
	}
	if cfg.Locale.Loading == "" {
		cfg.Locale.Loading = DefaultLabelLoading
	}
	if cfg.Locale.TitleFormat == "" {
		cfg.Locale.TitleFormat = DefaultTitleFormat
	}

	// Note: YAML unmarshal sets bool to false by default for stations,
	// so we can't distinguish between "enabled: false" and unset.
	// Users must explicitly set "enabled: true" for active stations.
}
