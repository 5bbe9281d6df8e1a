package chart

import (
	"reflect"
	"testing"
	"time"
)

func testFormatter(t *testing.T) *Formatter {
	t.Helper()
	return NewFormatter(nil).WithLocation(time.UTC)
}

func TestFormatTimestamp(t *testing.T) {
	f := testFormatter(t)

	got := f.FormatTimestamp("2024-01-01T00:00:00Z")
	if got != "01-01 00:00" {
		t.Errorf("expected %q, got %q", "01-01 00:00", got)
	}

	// Deterministic: same input, same output.
	if again := f.FormatTimestamp("2024-01-01T00:00:00Z"); again != got {
		t.Errorf("not deterministic: %q vs %q", got, again)
	}

	// Offset timestamps are converted to the display timezone.
	got = f.FormatTimestamp("2024-06-15T23:30:00+02:00")
	if got != "06-15 21:30" {
		t.Errorf("expected %q, got %q", "06-15 21:30", got)
	}
}

func TestFormatTimestampInvalid(t *testing.T) {
	f := testFormatter(t)

	for _, ts := range []string{"", "not-a-date", "2024-13-99T99:99:99Z"} {
		if got := f.FormatTimestamp(ts); got != InvalidTimestamp {
			t.Errorf("FormatTimestamp(%q) = %q, expected sentinel", ts, got)
		}
	}
}

func TestFormatTimestamps(t *testing.T) {
	f := testFormatter(t)

	if got := f.FormatTimestamps(nil); len(got) != 0 {
		t.Errorf("expected empty slice for nil input, got %v", got)
	}
	if got := f.FormatTimestamps([]string{}); len(got) != 0 {
		t.Errorf("expected empty slice for empty input, got %v", got)
	}

	got := f.FormatTimestamps([]string{"2024-01-01T12:00:00Z", "bogus"})
	want := []string{"01-01 12:00", InvalidTimestamp}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuildDefaultPalette(t *testing.T) {
	f := testFormatter(t)

	out := f.Build(Input{
		Series: []string{"Temp", "Humidity"},
		Times:  []string{"2024-01-01T00:00:00Z"},
		Values: [][]float64{{10}, {50}},
	})

	if !reflect.DeepEqual(out.Labels, []string{"01-01 00:00"}) {
		t.Fatalf("unexpected labels: %v", out.Labels)
	}
	if len(out.Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(out.Datasets))
	}

	palette := DefaultPalette()
	for i, ds := range out.Datasets {
		if ds.BorderColor != palette[i].Border {
			t.Errorf("dataset %d: expected border %q, got %q", i, palette[i].Border, ds.BorderColor)
		}
		if ds.BackgroundColor != palette[i].Fill {
			t.Errorf("dataset %d: expected fill %q, got %q", i, palette[i].Fill, ds.BackgroundColor)
		}
		if ds.Fill {
			t.Errorf("dataset %d: fill should be false", i)
		}
		if ds.Tension != Tension {
			t.Errorf("dataset %d: expected tension %v, got %v", i, Tension, ds.Tension)
		}
	}

	if out.Datasets[0].Label != "Temp" || out.Datasets[1].Label != "Humidity" {
		t.Errorf("dataset labels out of order: %q, %q", out.Datasets[0].Label, out.Datasets[1].Label)
	}
	if !reflect.DeepEqual(out.Datasets[0].Data, []float64{10}) {
		t.Errorf("unexpected data for first dataset: %v", out.Datasets[0].Data)
	}
	if !reflect.DeepEqual(out.Datasets[1].Data, []float64{50}) {
		t.Errorf("unexpected data for second dataset: %v", out.Datasets[1].Data)
	}
}

func TestBuildMissingSeriesValues(t *testing.T) {
	f := testFormatter(t)

	out := f.Build(Input{
		Series: []string{"Temp", "Humidity"},
		Times:  []string{"2024-01-01T00:00:00Z"},
		Values: [][]float64{{10}},
	})

	if len(out.Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(out.Datasets))
	}
	if len(out.Datasets[1].Data) != 0 {
		t.Errorf("missing series should render empty data, got %v", out.Datasets[1].Data)
	}
	if !reflect.DeepEqual(out.Datasets[0].Data, []float64{10}) {
		t.Errorf("present series must keep its data: %v", out.Datasets[0].Data)
	}
}

func TestBuildMalformedInput(t *testing.T) {
	f := testFormatter(t)

	for _, in := range []Input{
		{},
		{Series: []string{"Temp"}},
		{Times: []string{"2024-01-01T00:00:00Z"}},
	} {
		out := f.Build(in)
		if len(out.Labels) != 0 || len(out.Datasets) != 0 {
			t.Errorf("malformed input %+v should produce empty chart, got %+v", in, out)
		}
		if out.Labels == nil || out.Datasets == nil {
			t.Errorf("empty chart must marshal as [] not null")
		}
	}
}

func TestBuildExplicitColors(t *testing.T) {
	f := testFormatter(t)

	out := f.Build(Input{
		Series: []string{"Temp", "Humidity"},
		Times:  []string{"2024-01-01T00:00:00Z"},
		Values: [][]float64{{1}, {2}},
		Colors: []ColorSpec{Pair("red", "pink")},
	})

	if out.Datasets[0].BorderColor != "red" || out.Datasets[0].BackgroundColor != "pink" {
		t.Errorf("explicit color not applied: %+v", out.Datasets[0])
	}
	// Second series had no explicit color and falls back to the palette.
	if out.Datasets[1].BorderColor != DefaultPalette()[1].Border {
		t.Errorf("palette fallback not applied: %+v", out.Datasets[1])
	}
}

func TestBuildPaletteCycles(t *testing.T) {
	f := testFormatter(t)

	series := []string{"a", "b", "c", "d", "e"}
	values := make([][]float64, len(series))
	for i := range values {
		values[i] = []float64{float64(i)}
	}

	out := f.Build(Input{
		Series: series,
		Times:  []string{"2024-01-01T00:00:00Z"},
		Values: values,
	})

	// Fifth series wraps back to the first palette entry.
	if out.Datasets[4].BorderColor != out.Datasets[0].BorderColor {
		t.Errorf("palette should cycle every 4 series")
	}
}

func TestTranslucent(t *testing.T) {
	if got := Translucent("#ff6384"); got != "rgba(255, 99, 132, 0.2)" {
		t.Errorf("unexpected translucent color: %q", got)
	}
	// Non-hex tokens pass through unchanged.
	if got := Translucent("tomato"); got != "tomato" {
		t.Errorf("expected passthrough, got %q", got)
	}
	if got := Translucent("#xyzxyz"); got != "#xyzxyz" {
		t.Errorf("expected passthrough for invalid hex, got %q", got)
	}
}
