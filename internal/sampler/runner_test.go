package sampler

import (
	"context"
	"testing"
	"time"

	"github.com/meteograph/meteograph/internal/config"
)

func testStations() []config.StationConfig {
	return []config.StationConfig{
		{Name: "Downtown", BaseTemperatureC: 15, BaseHumidityPct: 60, Enabled: true},
		{Name: "Airport", BaseTemperatureC: 12, BaseHumidityPct: 70, Enabled: true},
		{Name: "Harbour", BaseTemperatureC: 10, BaseHumidityPct: 80, Enabled: false},
	}
}

func TestNewRunnerSkipsDisabledStations(t *testing.T) {
	r, err := NewRunner(testStations(), &config.SamplerConfig{Seed: 1}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.GetStations()) != 2 {
		t.Fatalf("expected 2 enabled stations, got %d", len(r.GetStations()))
	}
}

func TestNewRunnerRequiresEnabledStation(t *testing.T) {
	_, err := NewRunner([]config.StationConfig{
		{Name: "Harbour", Enabled: false},
	}, &config.SamplerConfig{}, nil)
	if err == nil {
		t.Fatal("expected error for no enabled stations")
	}
}

func TestRunAllDeterministicWithSeed(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

	run := func() []Sample {
		r, err := NewRunner(testStations(), &config.SamplerConfig{Seed: 42}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r.SetClock(func() time.Time { return now })
		samples, err := r.RunAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return samples
	}

	first := run()
	second := run()

	if len(first) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sample %d differs between seeded runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSampleRanges(t *testing.T) {
	r, err := NewRunner(testStations(), &config.SamplerConfig{Seed: 7}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 100; i++ {
		samples, err := r.RunAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, s := range samples {
			if s.HumidityPct < 5 || s.HumidityPct > 100 {
				t.Errorf("humidity out of range: %v", s.HumidityPct)
			}
			if s.WindKph < 0 {
				t.Errorf("negative wind: %v", s.WindKph)
			}
			if s.PrecipMM < 0 {
				t.Errorf("negative precipitation: %v", s.PrecipMM)
			}
			if s.Timestamp.IsZero() {
				t.Errorf("sample missing timestamp")
			}
		}
	}
}

func TestRunStation(t *testing.T) {
	r, err := NewRunner(testStations(), &config.SamplerConfig{Seed: 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := r.RunStation(context.Background(), "Airport")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Station != "Airport" {
		t.Errorf("expected Airport sample, got %q", s.Station)
	}

	if _, err := r.RunStation(context.Background(), "Nowhere"); err == nil {
		t.Error("expected error for unknown station")
	}
}

func TestRunAllHonorsContext(t *testing.T) {
	r, err := NewRunner(testStations(), &config.SamplerConfig{Seed: 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.RunAll(ctx); err == nil {
		t.Error("expected context error")
	}
}
