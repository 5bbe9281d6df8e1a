// Package sampler produces weather observations from a synthetic local
// weather model. No network access is involved: each configured station
// is backed by a deterministic diurnal model plus seeded noise.
package sampler

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sample represents one reading produced for a station.
type Sample struct {
	Station      string    `json:"station"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	PressureHpa  float64   `json:"pressure_hpa"`
	WindKph      float64   `json:"wind_kph"`
	PrecipMM     float64   `json:"precip_mm"`
	Timestamp    time.Time `json:"timestamp"`
}

// JSON returns the sample as an indented JSON string.
func (s *Sample) JSON() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal sample: %v"}`, err)
	}
	return string(data)
}

// FormatTable returns a formatted table row for CLI output.
func (s *Sample) FormatTable() string {
	return fmt.Sprintf("%-20s | %7.1f °C | %6.1f %% | %8.1f hPa | %6.1f km/h | %6.1f mm",
		s.Station,
		s.TemperatureC,
		s.HumidityPct,
		s.PressureHpa,
		s.WindKph,
		s.PrecipMM,
	)
}

// TableHeader returns the header for table-formatted output.
func TableHeader() string {
	return fmt.Sprintf("%-20s | %10s | %8s | %12s | %11s | %9s",
		"Station", "Temp", "Humidity", "Pressure", "Wind", "Precip")
}

// TableSeparator returns a separator line for table-formatted output.
func TableSeparator() string {
	return "---------------------+------------+----------+--------------+-------------+----------"
}

// Samples is a collection of Sample objects with helper methods.
type Samples []Sample

// ToJSON converts all samples to JSON.
func (ss Samples) ToJSON() string {
	data, err := json.MarshalIndent(ss, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal samples: %v"}`, err)
	}
	return string(data)
}

// PrintTable renders samples as a formatted table.
func (ss Samples) PrintTable() string {
	if len(ss) == 0 {
		return "No samples"
	}

	output := TableHeader() + "\n" + TableSeparator() + "\n"
	for _, s := range ss {
		output += s.FormatTable() + "\n"
	}
	return output
}

// AverageTemperature calculates the mean temperature across samples.
func (ss Samples) AverageTemperature() float64 {
	if len(ss) == 0 {
		return 0
	}
	var sum float64
	for _, s := range ss {
		sum += s.TemperatureC
	}
	return sum / float64(len(ss))
}
