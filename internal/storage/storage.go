// Package storage provides database storage for weather observations.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/meteograph/meteograph/internal/config"
)

// Storage defines the interface for storing and retrieving observations.
type Storage interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Observations
	SaveObservation(ctx context.Context, obs *Observation) error
	GetObservation(ctx context.Context, id int64) (*Observation, error)
	GetObservations(ctx context.Context, filter ObservationFilter) ([]Observation, error)
	GetLatestObservations(ctx context.Context) ([]Observation, error)

	// Stats
	GetStats(ctx context.Context, station string, period time.Duration) (*Stats, error)

	// Cleanup
	DeleteOldObservations(ctx context.Context, olderThan time.Time) (int64, error)
}

// ObservationFilter defines criteria for filtering observations.
type ObservationFilter struct {
	Station string
	Since   time.Time
	Until   time.Time
	Limit   int
	Offset  int
}

// Stats contains aggregated statistics for a station.
type Stats struct {
	Station          string        `json:"station"`
	AvgTemperatureC  float64       `json:"avg_temperature_c"`
	MinTemperatureC  float64       `json:"min_temperature_c"`
	MaxTemperatureC  float64       `json:"max_temperature_c"`
	AvgHumidityPct   float64       `json:"avg_humidity_pct"`
	AvgPressureHpa   float64       `json:"avg_pressure_hpa"`
	MaxWindKph       float64       `json:"max_wind_kph"`
	TotalPrecipMM    float64       `json:"total_precip_mm"`
	ObservationCount int           `json:"observation_count"`
	Period           time.Duration `json:"period"`
	Since            time.Time     `json:"since"`
	Until            time.Time     `json:"until"`
}

// NewStorage creates a new Storage instance based on the configuration.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLiteStorage(cfg.SQLite)
	case "postgres":
		return NewPostgresStorage(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
