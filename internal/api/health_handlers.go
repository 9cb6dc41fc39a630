package api

import (
	"net/http"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/system"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "cloud-security-dashboard",
		"status":  "running",
		"docs":    "/health",
	})
}

type healthResponse struct {
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	Database      string          `json:"database"`
	EventBus      string          `json:"event_bus"`
	DetectorReady bool            `json:"detector_ready"`
	System        *system.Metrics `json:"system,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC(),
		Database:      "up",
		EventBus:      "connected",
		DetectorReady: s.detector.Ready(),
		System:        system.Collect(),
	}

	status := http.StatusOK
	if err := s.store.HealthCheck(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}
	if s.publisher == nil || !s.publisher.IsConnected() {
		resp.Status = "degraded"
		resp.EventBus = "disconnected"
	}

	writeJSON(w, status, resp)
}
