package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/api"
	"github.com/meteograph/meteograph/internal/sampler"
	"github.com/meteograph/meteograph/internal/storage"
)

// SampleJob samples all stations on a schedule.
type SampleJob struct {
	runner        *sampler.Runner
	storage       storage.Storage
	retentionDays int
	logger        *zap.Logger
}

// NewSampleJob creates a new sampling job.
func NewSampleJob(runner *sampler.Runner, store storage.Storage, retentionDays int, logger *zap.Logger) *SampleJob {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SampleJob{
		runner:        runner,
		storage:       store,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Run executes the sampling job (implements cron.Job interface).
func (j *SampleJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.RunWithContext(ctx); err != nil {
		j.logger.Error("Scheduled sampling failed", zap.Error(err))
	}
}

// RunWithContext executes the sampling job with a context.
func (j *SampleJob) RunWithContext(ctx context.Context) error {
	startTime := time.Now()
	j.logger.Info("Starting scheduled sampling run")

	stations := j.runner.GetStations()
	j.logger.Info("Sampling stations",
		zap.Int("count", len(stations)),
	)

	samples, err := j.runner.RunAll(ctx)
	if err != nil {
		return err
	}

	// Save samples to storage and update Prometheus metrics
	var savedCount, errorCount int
	for _, sample := range samples {
		// Update Prometheus metrics
		api.UpdateMetricsForSample(&sample)

		obs := storage.FromSample(&sample)

		if err := j.storage.SaveObservation(ctx, obs); err != nil {
			j.logger.Error("Failed to save observation",
				zap.String("station", sample.Station),
				zap.Error(err),
			)
			errorCount++
			continue
		}

		savedCount++

		j.logger.Info("Observation saved",
			zap.String("station", sample.Station),
			zap.Float64("temperature_c", sample.TemperatureC),
			zap.Float64("humidity_pct", sample.HumidityPct),
			zap.Float64("pressure_hpa", sample.PressureHpa),
		)
	}

	// Enforce retention
	if j.retentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
		deleted, err := j.storage.DeleteOldObservations(ctx, cutoff)
		if err != nil {
			j.logger.Error("Failed to delete old observations", zap.Error(err))
		} else if deleted > 0 {
			j.logger.Info("Old observations deleted",
				zap.Int64("count", deleted),
				zap.Time("cutoff", cutoff),
			)
		}
	}

	duration := time.Since(startTime)
	j.logger.Info("Scheduled sampling completed",
		zap.Int("total", len(samples)),
		zap.Int("saved", savedCount),
		zap.Int("errors", errorCount),
		zap.Duration("duration", duration),
	)

	return nil
}
