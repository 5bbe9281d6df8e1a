package sampler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/config"
)

// Station holds the model parameters for one configured station.
type Station struct {
	Name             string
	BaseTemperatureC float64
	BaseHumidityPct  float64
	Enabled          bool
}

// StationFromConfig converts a config.StationConfig to a Station.
func StationFromConfig(cfg config.StationConfig) Station {
	return Station{
		Name:             cfg.Name,
		BaseTemperatureC: cfg.BaseTemperatureC,
		BaseHumidityPct:  cfg.BaseHumidityPct,
		Enabled:          cfg.Enabled,
	}
}

// Runner produces samples for a set of stations.
type Runner struct {
	mu       sync.Mutex
	stations []Station
	rng      *rand.Rand
	now      func() time.Time
	logger   *zap.Logger
}

// NewRunner creates a Runner from configuration. Disabled stations are
// skipped; at least one enabled station is required.
func NewRunner(stations []config.StationConfig, cfg *config.SamplerConfig, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	enabled := make([]Station, 0, len(stations))
	for _, st := range stations {
		if !st.Enabled {
			continue
		}
		enabled = append(enabled, StationFromConfig(st))
	}

	if len(enabled) == 0 {
		return nil, fmt.Errorf("no enabled stations found")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Runner{
		stations: enabled,
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
		logger:   logger,
	}, nil
}

// SetClock overrides the time source (tests).
func (r *Runner) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// RunAll produces one sample per enabled station.
func (r *Runner) RunAll(ctx context.Context) ([]Sample, error) {
	samples := make([]Sample, 0, len(r.stations))

	for _, st := range r.stations {
		select {
		case <-ctx.Done():
			return samples, ctx.Err()
		default:
		}

		sample := r.sample(st)
		r.logger.Debug("Sampled station",
			zap.String("station", st.Name),
			zap.Float64("temperature_c", sample.TemperatureC),
			zap.Float64("humidity_pct", sample.HumidityPct),
		)
		samples = append(samples, sample)
	}

	return samples, nil
}

// RunStation produces a sample for a specific station by name.
func (r *Runner) RunStation(ctx context.Context, name string) (*Sample, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	for _, st := range r.stations {
		if st.Name == name {
			sample := r.sample(st)
			return &sample, nil
		}
	}
	return nil, fmt.Errorf("station %q not found", name)
}

// GetStations returns all enabled stations.
func (r *Runner) GetStations() []Station {
	return r.stations
}

// sample evaluates the weather model for a station at the current time.
// Temperature follows a diurnal sine peaking mid-afternoon; humidity
// moves inversely to it; pressure drifts slowly; wind and precipitation
// are noise-driven.
func (r *Runner) sample(st Station) Sample {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	hour := float64(now.Hour()) + float64(now.Minute())/60

	// Peak at 15:00, trough at 03:00.
	diurnal := math.Sin((hour - 9) / 24 * 2 * math.Pi)

	temp := st.BaseTemperatureC + 6*diurnal + r.rng.NormFloat64()*0.8

	humidity := st.BaseHumidityPct - 12*diurnal + r.rng.NormFloat64()*3
	humidity = clamp(humidity, 5, 100)

	pressure := 1013.25 + 8*math.Sin(float64(now.YearDay())/5) + r.rng.NormFloat64()*1.5

	wind := math.Abs(r.rng.NormFloat64()) * 12

	precip := 0.0
	if humidity > 85 && r.rng.Float64() < 0.4 {
		precip = r.rng.Float64() * 4
	}

	return Sample{
		Station:      st.Name,
		TemperatureC: round1(temp),
		HumidityPct:  round1(humidity),
		PressureHpa:  round1(pressure),
		WindKph:      round1(wind),
		PrecipMM:     round1(precip),
		Timestamp:    now.UTC(),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
