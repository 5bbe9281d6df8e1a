package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meteograph/meteograph/internal/sampler"
)

var (
	// Weather metrics
	temperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "meteograph",
			Name:      "temperature_celsius",
			Help:      "Last observed temperature in degrees Celsius",
		},
		[]string{"station"},
	)

	humidity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "meteograph",
			Name:      "humidity_percent",
			Help:      "Last observed relative humidity in percent",
		},
		[]string{"station"},
	)

	pressure = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "meteograph",
			Name:      "pressure_hpa",
			Help:      "Last observed barometric pressure in hPa",
		},
		[]string{"station"},
	)

	windSpeed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "meteograph",
			Name:      "wind_speed_kph",
			Help:      "Last observed wind speed in km/h",
		},
		[]string{"station"},
	)

	precipitation = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "meteograph",
			Name:      "precipitation_mm",
			Help:      "Last observed precipitation in millimetres",
		},
		[]string{"station"},
	)

	sampleTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "meteograph",
			Name:      "last_sample_timestamp",
			Help:      "Timestamp of the last sample (Unix timestamp)",
		},
		[]string{"station"},
	)

	samplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meteograph",
			Name:      "samples_total",
			Help:      "Total number of weather samples taken",
		},
		[]string{"station"},
	)

	filterSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meteograph",
			Name:      "filter_selections_total",
			Help:      "Total number of dashboard quick-filter selections",
		},
		[]string{"filter"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(
		temperature,
		humidity,
		pressure,
		windSpeed,
		precipitation,
		sampleTimestamp,
		samplesTotal,
		filterSelections,
	)
}

// handlePrometheusMetrics exposes Prometheus metrics.
func (s *Server) handlePrometheusMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// UpdateMetrics updates Prometheus metrics for multiple samples.
// Exported so it can be called from the scheduler.
func UpdateMetrics(samples []sampler.Sample) {
	for _, sample := range samples {
		UpdateMetricsForSample(&sample)
	}
}

// UpdateMetricsForSample updates Prometheus metrics for a single sample.
// Exported so it can be called from the scheduler.
func UpdateMetricsForSample(sample *sampler.Sample) {
	labels := prometheus.Labels{
		"station": sample.Station,
	}

	samplesTotal.WithLabelValues(sample.Station).Inc()

	temperature.With(labels).Set(sample.TemperatureC)
	humidity.With(labels).Set(sample.HumidityPct)
	pressure.With(labels).Set(sample.PressureHpa)
	windSpeed.With(labels).Set(sample.WindKph)
	precipitation.With(labels).Set(sample.PrecipMM)

	sampleTimestamp.WithLabelValues(sample.Station).Set(float64(sample.Timestamp.Unix()))
}

// RecordFilterSelection counts a dashboard quick-filter selection.
func RecordFilterSelection(label string) {
	filterSelections.WithLabelValues(label).Inc()
}
