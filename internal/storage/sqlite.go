package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meteograph/meteograph/internal/config"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(cfg config.SQLiteConfig) (*SQLiteStorage, error) {
	return &SQLiteStorage{
		path: cfg.Path,
	}, nil
}

// Init initializes the SQLite database connection and schema.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Enable WAL mode for better concurrency
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Create schema
	if err := s.createSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStorage) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station TEXT NOT NULL,
		temperature_c REAL,
		humidity_pct REAL,
		pressure_hpa REAL,
		wind_kph REAL,
		precip_mm REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_observations_station ON observations(station);
	CREATE INDEX IF NOT EXISTS idx_observations_created ON observations(created_at);
	CREATE INDEX IF NOT EXISTS idx_observations_station_created ON observations(station, created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveObservation saves a weather observation to the database.
func (s *SQLiteStorage) SaveObservation(ctx context.Context, obs *Observation) error {
	query := `
	INSERT INTO observations (
		station, temperature_c, humidity_pct, pressure_hpa, wind_kph, precip_mm, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		obs.Station,
		obs.TemperatureC,
		obs.HumidityPct,
		obs.PressureHpa,
		obs.WindKph,
		obs.PrecipMM,
		obs.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert observation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	obs.ID = id

	return nil
}

// GetObservation retrieves a single observation by ID.
func (s *SQLiteStorage) GetObservation(ctx context.Context, id int64) (*Observation, error) {
	query := `
	SELECT id, station, temperature_c, humidity_pct, pressure_hpa, wind_kph, precip_mm, created_at
	FROM observations
	WHERE id = ?
	`

	obs := &Observation{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&obs.ID,
		&obs.Station,
		&obs.TemperatureC,
		&obs.HumidityPct,
		&obs.PressureHpa,
		&obs.WindKph,
		&obs.PrecipMM,
		&obs.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("observation not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}

	return obs, nil
}

// GetObservations retrieves observations based on filter criteria.
func (s *SQLiteStorage) GetObservations(ctx context.Context, filter ObservationFilter) ([]Observation, error) {
	query := `
	SELECT id, station, temperature_c, humidity_pct, pressure_hpa, wind_kph, precip_mm, created_at
	FROM observations
	WHERE 1=1
	`
	args := []interface{}{}

	if filter.Station != "" {
		query += " AND station = ?"
		args = append(args, filter.Station)
	}

	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since)
	}

	if !filter.Until.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, filter.Until)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var observations []Observation
	for rows.Next() {
		var o Observation
		err := rows.Scan(
			&o.ID,
			&o.Station,
			&o.TemperatureC,
			&o.HumidityPct,
			&o.PressureHpa,
			&o.WindKph,
			&o.PrecipMM,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}

	return observations, nil
}

// GetLatestObservations retrieves the most recent observation for each station.
func (s *SQLiteStorage) GetLatestObservations(ctx context.Context) ([]Observation, error) {
	query := `
	SELECT o.id, o.station, o.temperature_c, o.humidity_pct, o.pressure_hpa, o.wind_kph, o.precip_mm, o.created_at
	FROM observations o
	INNER JOIN (
		SELECT station, MAX(created_at) as max_created
		FROM observations
		GROUP BY station
	) latest ON o.station = latest.station AND o.created_at = latest.max_created
	ORDER BY o.station
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest observations: %w", err)
	}
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var o Observation
		err := rows.Scan(
			&o.ID,
			&o.Station,
			&o.TemperatureC,
			&o.HumidityPct,
			&o.PressureHpa,
			&o.WindKph,
			&o.PrecipMM,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, o)
	}

	return observations, nil
}

// GetStats calculates statistics for a station over a time period.
func (s *SQLiteStorage) GetStats(ctx context.Context, station string, period time.Duration) (*Stats, error) {
	since := time.Now().Add(-period)
	until := time.Now()

	query := `
	SELECT
		COUNT(*) as observation_count,
		AVG(temperature_c) as avg_temperature,
		MIN(temperature_c) as min_temperature,
		MAX(temperature_c) as max_temperature,
		AVG(humidity_pct) as avg_humidity,
		AVG(pressure_hpa) as avg_pressure,
		MAX(wind_kph) as max_wind,
		SUM(precip_mm) as total_precip
	FROM observations
	WHERE station = ? AND created_at >= ? AND created_at <= ?
	`

	stats := &Stats{
		Station: station,
		Period:  period,
		Since:   since,
		Until:   until,
	}

	var avgTemp, minTemp, maxTemp, avgHumidity, avgPressure, maxWind, totalPrecip sql.NullFloat64

	err := s.db.QueryRowContext(ctx, query, station, since, until).Scan(
		&stats.ObservationCount,
		&avgTemp,
		&minTemp,
		&maxTemp,
		&avgHumidity,
		&avgPressure,
		&maxWind,
		&totalPrecip,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if avgTemp.Valid {
		stats.AvgTemperatureC = avgTemp.Float64
	}
	if minTemp.Valid {
		stats.MinTemperatureC = minTemp.Float64
	}
	if maxTemp.Valid {
		stats.MaxTemperatureC = maxTemp.Float64
	}
	if avgHumidity.Valid {
		stats.AvgHumidityPct = avgHumidity.Float64
	}
	if avgPressure.Valid {
		stats.AvgPressureHpa = avgPressure.Float64
	}
	if maxWind.Valid {
		stats.MaxWindKph = maxWind.Float64
	}
	if totalPrecip.Valid {
		stats.TotalPrecipMM = totalPrecip.Float64
	}

	return stats, nil
}

// DeleteOldObservations removes observations older than the specified time.
func (s *SQLiteStorage) DeleteOldObservations(ctx context.Context, olderThan time.Time) (int64, error) {
	query := "DELETE FROM observations WHERE created_at < ?"

	result, err := s.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old observations: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return count, nil
}
