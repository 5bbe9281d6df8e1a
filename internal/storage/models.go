package storage

import (
	"time"

	"github.com/meteograph/meteograph/internal/sampler"
)

// Observation represents one weather observation stored in the database.
type Observation struct {
	ID           int64     `json:"id"`
	Station      string    `json:"station"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	PressureHpa  float64   `json:"pressure_hpa"`
	WindKph      float64   `json:"wind_kph"`
	PrecipMM     float64   `json:"precip_mm"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromSample converts a sampler reading to a storage Observation.
func FromSample(s *sampler.Sample) *Observation {
	return &Observation{
		Station:      s.Station,
		TemperatureC: s.TemperatureC,
		HumidityPct:  s.HumidityPct,
		PressureHpa:  s.PressureHpa,
		WindKph:      s.WindKph,
		PrecipMM:     s.PrecipMM,
		CreatedAt:    s.Timestamp,
	}
}

// ToSample converts a stored Observation back to a sampler reading.
func (o *Observation) ToSample() *sampler.Sample {
	return &sampler.Sample{
		Station:      o.Station,
		TemperatureC: o.TemperatureC,
		HumidityPct:  o.HumidityPct,
		PressureHpa:  o.PressureHpa,
		WindKph:      o.WindKph,
		PrecipMM:     o.PrecipMM,
		Timestamp:    o.CreatedAt,
	}
}
