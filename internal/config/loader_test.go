package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	cfg := NewDefault()
	cfg.Stations = []StationConfig{
		{Name: "Downtown", BaseTemperatureC: 15, BaseHumidityPct: 60, Enabled: true},
	}
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("default config with one station must validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.General.LogLevel = "loud" }},
		{"bad storage type", func(c *Config) { c.Storage.Type = "etcd" }},
		{"postgres without host", func(c *Config) {
			c.Storage.Type = "postgres"
			c.Storage.Postgres.Host = ""
		}},
		{"bad listen address", func(c *Config) { c.Webserver.Listen = "no-port" }},
		{"no stations", func(c *Config) { c.Stations = nil }},
		{"unnamed station", func(c *Config) { c.Stations[0].Name = "" }},
		{"duplicate station", func(c *Config) {
			c.Stations = append(c.Stations, c.Stations[0])
		}},
		{"humidity out of range", func(c *Config) { c.Stations[0].BaseHumidityPct = 140 }},
		{"negative retention", func(c *Config) { c.Scheduler.RetentionDays = -1 }},
		{"title format without placeholder", func(c *Config) { c.Locale.TitleFormat = "Weather" }},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
storage:
  type: sqlite
  sqlite:
    path: ` + filepath.Join(dir, "obs.db") + `
stations:
  - name: Downtown
    base_temperature_c: 15
    base_humidity_pct: 60
    enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.General.LogLevel != DefaultLogLevel {
		t.Errorf("expected default log level, got %q", cfg.General.LogLevel)
	}
	if cfg.Webserver.Listen != DefaultWebserverListen {
		t.Errorf("expected default listen address, got %q", cfg.Webserver.Listen)
	}
	if cfg.Locale.Hourly != DefaultLabelHourly {
		t.Errorf("expected default hourly label, got %q", cfg.Locale.Hourly)
	}
	if cfg.Locale.TitleFormat != DefaultTitleFormat {
		t.Errorf("expected default title format, got %q", cfg.Locale.TitleFormat)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestGetStationByName(t *testing.T) {
	cfg := validConfig()

	if st := cfg.GetStationByName("Downtown"); st == nil {
		t.Error("expected to find Downtown")
	}
	if st := cfg.GetStationByName("Nowhere"); st != nil {
		t.Errorf("expected nil for unknown station, got %+v", st)
	}
}

func TestGetEnabledStations(t *testing.T) {
	cfg := validConfig()
	cfg.Stations = append(cfg.Stations, StationConfig{Name: "Harbour", Enabled: false})

	enabled := cfg.GetEnabledStations()
	if len(enabled) != 1 || enabled[0].Name != "Downtown" {
		t.Errorf("expected only Downtown enabled, got %+v", enabled)
	}
}
