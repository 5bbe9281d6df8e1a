// Package chart builds Chart.js-compatible line chart input from raw
// time-series data.
package chart

import (
	"time"

	"go.uber.org/zap"
)

// InvalidTimestamp is rendered in place of labels that cannot be parsed.
const InvalidTimestamp = "Invalid Timestamp"

// Tension is the curve smoothing applied to every dataset.
const Tension = 0.4

// labelLayout is the display format for axis labels (MM-DD HH:MM).
const labelLayout = "01-02 15:04"

// timestampLayouts are tried in order when parsing incoming timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Dataset is one plotted series. Field names follow the Chart.js dataset
// shape so the struct can be handed to the frontend unchanged.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	Fill            bool      `json:"fill"`
	Tension         float64   `json:"tension"`
}

// ChartData is the complete Chart.js "data" value: shared X-axis labels
// plus one dataset per series.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Input carries the raw arrays a chart is built from. Series, Values and
// Colors are parallel by index; Times is the shared X axis.
type Input struct {
	Series []string
	Times  []string
	Values [][]float64
	Colors []ColorSpec
}

// Formatter transforms Input into ChartData. It never fails: malformed
// input degrades to an empty chart and a logged diagnostic.
type Formatter struct {
	logger  *zap.Logger
	loc     *time.Location
	palette []ColorSpec
}

// NewFormatter creates a Formatter using the default palette and the
// local timezone for label display.
func NewFormatter(logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{
		logger:  logger,
		loc:     time.Local,
		palette: DefaultPalette(),
	}
}

// WithLocation overrides the timezone used for label formatting.
func (f *Formatter) WithLocation(loc *time.Location) *Formatter {
	if loc != nil {
		f.loc = loc
	}
	return f
}

// FormatTimestamp formats one ISO-8601 timestamp as MM-DD HH:MM in the
// formatter's timezone. Unparseable input yields InvalidTimestamp.
func (f *Formatter) FormatTimestamp(ts string) string {
	if ts == "" {
		return InvalidTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.In(f.loc).Format(labelLayout)
		}
	}
	return InvalidTimestamp
}

// FormatTimestamps formats a timestamp list in input order. Nil or empty
// input returns an empty slice.
func (f *Formatter) FormatTimestamps(ts []string) []string {
	labels := make([]string, 0, len(ts))
	for _, t := range ts {
		labels = append(labels, f.FormatTimestamp(t))
	}
	return labels
}

// Build produces chart input from raw series data. One dataset is emitted
// per series name, in input order. A series with no matching value array
// gets empty data rather than misaligning its neighbours. Inputs with no
// series or no timestamps produce an empty chart.
func (f *Formatter) Build(in Input) ChartData {
	out := ChartData{
		Labels:   []string{},
		Datasets: []Dataset{},
	}

	if len(in.Series) == 0 || len(in.Times) == 0 {
		f.logger.Warn("Malformed chart input, rendering empty chart",
			zap.Int("series", len(in.Series)),
			zap.Int("timestamps", len(in.Times)),
		)
		return out
	}

	out.Labels = f.FormatTimestamps(in.Times)

	for i, name := range in.Series {
		data := []float64{}
		if i < len(in.Values) && in.Values[i] != nil {
			data = in.Values[i]
		} else {
			f.logger.Warn("Missing value array for series, rendering empty",
				zap.String("series", name),
				zap.Int("index", i),
			)
		}

		color := f.palette[i%len(f.palette)]
		if i < len(in.Colors) && !in.Colors[i].IsZero() {
			color = in.Colors[i]
		}

		out.Datasets = append(out.Datasets, Dataset{
			Label:           name,
			Data:            data,
			BorderColor:     color.Border,
			BackgroundColor: color.Fill,
			Fill:            false,
			Tension:         Tension,
		})
	}

	return out
}
