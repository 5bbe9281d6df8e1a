package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/config"
	"github.com/meteograph/meteograph/internal/storage"
)

// fakeStorage is an in-memory Storage for handler tests.
type fakeStorage struct {
	observations []storage.Observation
	saveErr      error
}

func (f *fakeStorage) Init(ctx context.Context) error { return nil }
func (f *fakeStorage) Close() error                   { return nil }

func (f *fakeStorage) SaveObservation(ctx context.Context, obs *storage.Observation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	obs.ID = int64(len(f.observations) + 1)
	f.observations = append(f.observations, *obs)
	return nil
}

func (f *fakeStorage) GetObservation(ctx context.Context, id int64) (*storage.Observation, error) {
	for i := range f.observations {
		if f.observations[i].ID == id {
			return &f.observations[i], nil
		}
	}
	return nil, fmt.Errorf("observation %d not found", id)
}

func (f *fakeStorage) GetObservations(ctx context.Context, filter storage.ObservationFilter) ([]storage.Observation, error) {
	var out []storage.Observation
	for _, o := range f.observations {
		if filter.Station != "" && o.Station != filter.Station {
			continue
		}
		if !filter.Since.IsZero() && o.CreatedAt.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && o.CreatedAt.After(filter.Until) {
			continue
		}
		out = append(out, o)
	}
	// Newest first, matching the real backends.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStorage) GetLatestObservations(ctx context.Context) ([]storage.Observation, error) {
	latest := make(map[string]storage.Observation)
	for _, o := range f.observations {
		if prev, ok := latest[o.Station]; !ok || o.CreatedAt.After(prev.CreatedAt) {
			latest[o.Station] = o
		}
	}
	var out []storage.Observation
	for _, o := range latest {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStorage) GetStats(ctx context.Context, station string, period time.Duration) (*storage.Stats, error) {
	return &storage.Stats{
		Station:          station,
		Period:           period,
		ObservationCount: len(f.observations),
	}, nil
}

func (f *fakeStorage) DeleteOldObservations(ctx context.Context, olderThan time.Time) (int64, error) {
	return 0, nil
}

func testConfig() *config.Config {
	cfg := config.NewDefault()
	cfg.Stations = []config.StationConfig{
		{Name: "Downtown", BaseTemperatureC: 15, BaseHumidityPct: 60, Color: "#123456", Enabled: true},
		{Name: "Airport", BaseTemperatureC: 12, BaseHumidityPct: 70, Enabled: true},
	}
	return cfg
}

func newTestServer(t *testing.T, store storage.Storage) *Server {
	t.Helper()
	srv, err := NewServer(testConfig(), store, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func seedObservations(n int, station string) []storage.Observation {
	base := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	obs := make([]storage.Observation, 0, n)
	for i := 0; i < n; i++ {
		obs = append(obs, storage.Observation{
			ID:           int64(i + 1),
			Station:      station,
			TemperatureC: 10 + float64(i),
			HumidityPct:  60,
			PressureHpa:  1013,
			WindKph:      5,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	return obs
}

func doRequest(srv *Server, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &fakeStorage{})

	rec := doRequest(srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want %q", resp.Status, "ok")
	}
}

func TestGetObservations(t *testing.T) {
	store := &fakeStorage{observations: seedObservations(5, "Downtown")}
	srv := newTestServer(t, store)

	rec := doRequest(srv, http.MethodGet, "/api/v1/observations?station=Downtown", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp observationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Meta.Total != 5 {
		t.Errorf("total = %d, want 5", resp.Meta.Total)
	}
	if resp.Observations[0].Station != "Downtown" {
		t.Errorf("station = %q, want Downtown", resp.Observations[0].Station)
	}
}

func TestGetObservationNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeStorage{})

	rec := doRequest(srv, http.MethodGet, "/api/v1/observations/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestGetStations(t *testing.T) {
	srv := newTestServer(t, &fakeStorage{})

	rec := doRequest(srv, http.MethodGet, "/api/v1/stations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Data []stationResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("stations = %d, want 2", len(resp.Data))
	}
}

func TestStationChartUnknownStation(t *testing.T) {
	srv := newTestServer(t, &fakeStorage{})

	rec := doRequest(srv, http.MethodGet, "/dashboard/station/Nowhere/chart", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStationChart(t *testing.T) {
	store := &fakeStorage{observations: seedObservations(3, "Downtown")}
	srv := newTestServer(t, store)

	// Widen the panel range so the seeded fixtures fall inside it.
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	to := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

	rec := doRequest(srv, http.MethodGet,
		"/dashboard/station/Downtown/chart?from="+url.QueryEscape(from)+"&to="+url.QueryEscape(to), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp panelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := string(resp.State.Active); got != "range" {
		t.Errorf("active = %q, want range", got)
	}
	if len(resp.Chart.Labels) != 3 {
		t.Errorf("labels = %d, want 3", len(resp.Chart.Labels))
	}
	if len(resp.Chart.Datasets) != 3 {
		t.Fatalf("datasets = %d, want 3", len(resp.Chart.Datasets))
	}
	if resp.Chart.Datasets[0].Label != "Temperature (°C)" {
		t.Errorf("first dataset = %q", resp.Chart.Datasets[0].Label)
	}
	// The configured station color overrides the palette for the first
	// dataset; #123456 is not a palette color.
	if resp.Chart.Datasets[0].BorderColor != "#123456" {
		t.Errorf("border = %q, want #123456", resp.Chart.Datasets[0].BorderColor)
	}
	// Storage returns newest first; chart labels must be chronological.
	for i := 0; i < 3; i++ {
		ts := time.Date(2026, 3, 10, 6+i, 0, 0, 0, time.UTC)
		want := ts.In(time.Local).Format("01-02 15:04")
		if resp.Chart.Labels[i] != want {
			t.Errorf("label %d = %q, want %q", i, resp.Chart.Labels[i], want)
		}
	}
}

func TestStationChartDefaultWindow(t *testing.T) {
	// Observations from the last few hours must show up on the very
	// first chart load, before any filter is clicked.
	now := time.Now()
	obs := make([]storage.Observation, 0, 6)
	for i := 0; i < 6; i++ {
		obs = append(obs, storage.Observation{
			ID:           int64(i + 1),
			Station:      "Downtown",
			TemperatureC: 10 + float64(i),
			HumidityPct:  60,
			WindKph:      5,
			CreatedAt:    now.Add(-time.Duration(i+1) * time.Hour),
		})
	}
	srv := newTestServer(t, &fakeStorage{observations: obs})

	rec := doRequest(srv, http.MethodGet, "/dashboard/station/Downtown/chart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp panelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := string(resp.State.Active); got != "hourly" {
		t.Errorf("active = %q, want hourly", got)
	}
	if len(resp.Chart.Labels) != 6 {
		t.Errorf("labels = %d, want 6: default view must cover the hourly window", len(resp.Chart.Labels))
	}
}

func TestStationChartBadRange(t *testing.T) {
	srv := newTestServer(t, &fakeStorage{})

	rec := doRequest(srv, http.MethodGet,
		"/dashboard/station/Downtown/chart?from=not-a-time&to=also-not", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestStationFilterFlow(t *testing.T) {
	store := &fakeStorage{observations: seedObservations(3, "Downtown")}
	srv := newTestServer(t, store)

	// Selecting a new filter starts a load and marks its button disabled.
	rec := doRequest(srv, http.MethodPost, "/dashboard/station/Downtown/filter",
		url.Values{"filter": {"daily"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp panelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := string(resp.State.Active); got != "daily" {
		t.Errorf("active = %q, want daily", got)
	}
	if !resp.State.Overlay {
		t.Error("overlay should be shown after a filter change")
	}
	if resp.Title != "Weather trends (Daily)" {
		t.Errorf("title = %q", resp.Title)
	}
	var dailyDisabled bool
	for _, b := range resp.State.Buttons {
		if string(b.Filter) == "daily" {
			dailyDisabled = b.Disabled
		}
	}
	if !dailyDisabled {
		t.Error("active filter button should be disabled")
	}

	// A redraw report with a changed label count clears the overlay.
	rec = doRequest(srv, http.MethodPost, "/dashboard/station/Downtown/rendered",
		url.Values{"labels": {"7"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("rendered status = %d, want %d", rec.Code, http.StatusOK)
	}

	var rendered struct {
		Data struct {
			Overlay bool `json:"overlay"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rendered); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rendered.Data.Overlay {
		t.Error("overlay should be cleared after the redraw report")
	}
}

func TestStationFilterUnknown(t *testing.T) {
	srv := newTestServer(t, &fakeStorage{})

	rec := doRequest(srv, http.MethodPost, "/dashboard/station/Downtown/filter",
		url.Values{"filter": {"weekly"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestStationFilterReselectKeepsState(t *testing.T) {
	srv := newTestServer(t, &fakeStorage{})

	// The default filter is hourly; re-selecting it is a no-op.
	rec := doRequest(srv, http.MethodPost, "/dashboard/station/Downtown/filter",
		url.Values{"filter": {"hourly"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp panelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.State.Overlay {
		t.Error("re-selecting the active filter must not start a load")
	}
}

func TestDashboardRenders(t *testing.T) {
	store := &fakeStorage{observations: seedObservations(2, "Downtown")}
	srv := newTestServer(t, store)

	rec := doRequest(srv, http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, want := range []string{"Downtown", "Airport", "Hourly", "Daily", "Monthly", "hoverGuide", "loading-overlay"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	// The initial chart payload is embedded in the page.
	for _, want := range []string{"initialPayloads", `"state"`, `"chart"`} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing embedded payload marker %q", want)
		}
	}
}

func TestBasicAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Webserver.Auth = &config.AuthConfig{Username: "admin", Password: "secret"}

	srv, err := NewServer(cfg, &fakeStorage{}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stations", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stations", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	// Health stays reachable without credentials.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", rec.Code, http.StatusOK)
	}
}
