package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/meteograph/meteograph/internal/config"
)

// PostgresStorage implements the Storage interface using PostgreSQL.
type PostgresStorage struct {
	db  *sql.DB
	cfg config.PostgresConfig
}

// NewPostgresStorage creates a new PostgreSQL storage instance.
func NewPostgresStorage(cfg config.PostgresConfig) (*PostgresStorage, error) {
	return &PostgresStorage{
		cfg: cfg,
	}, nil
}

// buildDSN creates the PostgreSQL connection string.
func (s *PostgresStorage) buildDSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s sslmode=%s",
		s.cfg.Host,
		s.cfg.Port,
		s.cfg.Database,
		s.cfg.User,
		s.cfg.SSLMode,
	)

	if s.cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", s.cfg.Password)
	}

	return dsn
}

// Init initializes the PostgreSQL database connection and schema.
func (s *PostgresStorage) Init(ctx context.Context) error {
	dsn := s.buildDSN()

	// Open database connection using pgx stdlib driver
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Configure connection pool
	s.db.SetMaxOpenConns(25)
	s.db.SetMaxIdleConns(5)
	s.db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create schema
	if err := s.createSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// createSchema creates the database tables if they don't exist.
func (s *PostgresStorage) createSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS observations (
		id BIGSERIAL PRIMARY KEY,
		station TEXT NOT NULL,
		temperature_c DOUBLE PRECISION,
		humidity_pct DOUBLE PRECISION,
		pressure_hpa DOUBLE PRECISION,
		wind_kph DOUBLE PRECISION,
		precip_mm DOUBLE PRECISION,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_observations_station ON observations(station);
	CREATE INDEX IF NOT EXISTS idx_observations_created ON observations(created_at);
	CREATE INDEX IF NOT EXISTS idx_observations_station_created ON observations(station, created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveObservation saves a weather observation to the database.
func (s *PostgresStorage) SaveObservation(ctx context.Context, obs *Observation) error {
	query := `
	INSERT INTO observations (
		station, temperature_c, humidity_pct, pressure_hpa, wind_kph, precip_mm, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		obs.Station,
		obs.TemperatureC,
		obs.HumidityPct,
		obs.PressureHpa,
		obs.WindKph,
		obs.PrecipMM,
		obs.CreatedAt,
	).Scan(&obs.ID)

	if err != nil {
		return fmt.Errorf("failed to insert observation: %w", err)
	}

	return nil
}

// GetObservation retrieves a single observation by ID.
func (s *PostgresStorage) GetObservation(ctx context.Context, id int64) (*Observation, error) {
	query := `
	SELECT id, station, temperature_c, humidity_pct, pressure_hpa, wind_kph, precip_mm, created_at
	FROM observations
	WHERE id = $1
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
func (s *PostgresStorage) GetObservations(ctx context.Context, filter ObservationFilter) ([]Observation, error) {
	query := `
	SELECT id, station, temperature_c, humidity_pct, pressure_hpa, wind_kph, precip_mm, created_at
	FROM observations
	WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Station != "" {
		query += fmt.Sprintf(" AND station = $%d", argNum)
		args = append(args, filter.Station)
		argNum++
	}

	if !filter.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argNum)
		args = append(args, filter.Since)
		argNum++
	}

	if !filter.Until.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argNum)
		args = append(args, filter.Until)
		argNum++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
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

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}

	return observations, nil
}

// GetLatestObservations retrieves the most recent observation for each station.
func (s *PostgresStorage) GetLatestObservations(ctx context.Context) ([]Observation, error) {
	// PostgreSQL DISTINCT ON is more efficient than self-join
	query := `
	SELECT DISTINCT ON (station)
		id, station, temperature_c, humidity_pct, pressure_hpa, wind_kph, precip_mm, created_at
	FROM observations
	ORDER BY station, created_at DESC
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
func (s *PostgresStorage) GetStats(ctx context.Context, station string, period time.Duration) (*Stats, error) {
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
	WHERE station = $1 AND created_at >= $2 AND created_at <= $3
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
func (s *PostgresStorage) DeleteOldObservations(ctx context.Context, olderThan time.Time) (int64, error) {
	query := "DELETE FROM observations WHERE created_at < $1"

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
