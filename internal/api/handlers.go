package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/storage"
	"github.com/meteograph/meteograph/pkg/version"
)

// Response helpers

type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type successResponse struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type observationsResponse struct {
	Observations []storage.Observation `json:"observations"`
	Meta         struct {
		Total  int `json:"total"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	} `json:"meta"`
}

type stationResponse struct {
	Name             string  `json:"name"`
	BaseTemperatureC float64 `json:"base_temperature_c"`
	BaseHumidityPct  float64 `json:"base_humidity_pct"`
	Color            string  `json:"color,omitempty"`
	Enabled          bool    `json:"enabled"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Code:    status,
		Message: message,
	})
}

// Handlers

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.GetShortVersion(),
	})
}

// handleGetObservations returns stored observations with optional filtering.
func (s *Server) handleGetObservations(w http.ResponseWriter, r *http.Request) {
	filter := storage.ObservationFilter{}

	// Parse query parameters
	if station := r.URL.Query().Get("station"); station != "" {
		filter.Station = station
	}

	if since := r.URL.Query().Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = t
		} else if d, err := time.ParseDuration(since); err == nil {
			filter.Since = time.Now().Add(-d)
		}
	}

	if until := r.URL.Query().Get("until"); until != "" {
		if t, err := time.Parse(time.RFC3339, until); err == nil {
			filter.Until = t
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			filter.Limit = l
		}
	} else {
		filter.Limit = 100 // Default limit
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	observations, err := s.storage.GetObservations(r.Context(), filter)
	if err != nil {
		s.logger.Error("Failed to get observations", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to retrieve observations")
		return
	}

	response := observationsResponse{
		Observations: observations,
	}
	response.Meta.Total = len(observations)
	response.Meta.Limit = filter.Limit
	response.Meta.Offset = filter.Offset

	s.writeJSON(w, http.StatusOK, response)
}

// handleGetLatestObservations returns the most recent observation per station.
func (s *Server) handleGetLatestObservations(w http.ResponseWriter, r *http.Request) {
	observations, err := s.storage.GetLatestObservations(r.Context())
	if err != nil {
		s.logger.Error("Failed to get latest observations", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to retrieve latest observations")
		return
	}

	s.writeJSON(w, http.StatusOK, successResponse{
		Status: "ok",
		Data:   observations,
	})
}

// handleGetObservation returns a single observation by ID.
func (s *Server) handleGetObservation(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid observation ID")
		return
	}

	observation, err := s.storage.GetObservation(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Observation not found")
		return
	}

	s.writeJSON(w, http.StatusOK, successResponse{
		Status: "ok",
		Data:   observation,
	})
}

// handleGetStations returns all configured stations.
func (s *Server) handleGetStations(w http.ResponseWriter, r *http.Request) {
	stations := make([]stationResponse, 0, len(s.fullConfig.Stations))
	for _, st := range s.fullConfig.Stations {
		stations = append(stations, stationResponse{
			Name:             st.Name,
			BaseTemperatureC: st.BaseTemperatureC,
			BaseHumidityPct:  st.BaseHumidityPct,
			Color:            st.Color,
			Enabled:          st.Enabled,
		})
	}

	s.writeJSON(w, http.StatusOK, successResponse{
		Status: "ok",
		Data:   stations,
	})
}

// handleGetStationStats returns aggregate statistics for a specific station.
func (s *Server) handleGetStationStats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "Station name required")
		return
	}

	// Parse period (default 24h)
	period := 24 * time.Hour
	if p := r.URL.Query().Get("period"); p != "" {
		if d, err := time.ParseDuration(p); err == nil {
			period = d
		}
	}

	stats, err := s.storage.GetStats(r.Context(), name, period)
	if err != nil {
		s.logger.Error("Failed to get stats", zap.String("station", name), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	s.writeJSON(w, http.StatusOK, successResponse{
		Status: "ok",
		Data:   stats,
	})
}

// handleTriggerSample triggers a sampling round for all stations.
func (s *Server) handleTriggerSample(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Sampler not available")
		return
	}

	// Run sampling in background
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		s.logger.Info("API triggered sampling for all stations")
		samples, err := s.runner.RunAll(ctx)
		if err != nil {
			s.logger.Error("API triggered sampling failed", zap.Error(err))
			return
		}

		// Save observations
		for _, sample := range samples {
			obs := storage.FromSample(&sample)
			if err := s.storage.SaveObservation(ctx, obs); err != nil {
				s.logger.Error("Failed to save observation", zap.Error(err))
			}
		}

		// Update Prometheus metrics
		UpdateMetrics(samples)

		s.logger.Info("API triggered sampling completed", zap.Int("samples", len(samples)))
	}()

	s.writeJSON(w, http.StatusAccepted, successResponse{
		Status:  "started",
		Message: "Sampling started for all stations",
	})
}
