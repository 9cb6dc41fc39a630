package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
)

func intQuery(r *http.Request, name string, def, min, max int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}

type dashboardResponse struct {
	TotalLogs      int64              `json:"total_logs"`
	TotalThreats   int64              `json:"total_threats"`
	ThreatRate     float64            `json:"threat_rate"`
	OpenAlerts     int64              `json:"open_alerts"`
	CriticalAlerts int64              `json:"critical_alerts"`
	AvgThreatScore float64            `json:"avg_threat_score"`
	RecentLogs24h  int64              `json:"recent_logs_24h"`
	BySeverity     []storage.CountRow `json:"threats_by_severity"`
	ByType         []storage.CountRow `json:"threats_by_type"`
	TopSourceIPs   []storage.IPCount  `json:"top_source_ips"`
	DetectorReady  bool               `json:"detector_ready"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	since := time.Now().UTC().AddDate(0, 0, -7)

	totalLogs, err := s.store.CountLogs(ctx, false, time.Time{})
	if err != nil {
		log.Printf("Error counting logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	totalThreats, err := s.store.CountLogs(ctx, true, time.Time{})
	if err != nil {
		log.Printf("Error counting threats: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	recent, err := s.store.CountLogs(ctx, false, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		log.Printf("Error counting recent logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	openAlerts, err := s.store.CountAlerts(ctx, "", "open")
	if err != nil {
		log.Printf("Error counting open alerts: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	criticalAlerts, err := s.store.CountAlerts(ctx, "critical", "open")
	if err != nil {
		log.Printf("Error counting critical alerts: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	avgScore, err := s.store.AvgThreatScore(ctx)
	if err != nil {
		log.Printf("Error averaging threat scores: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	bySeverity, err := s.store.ThreatCountsBySeverity(ctx, since)
	if err != nil {
		log.Printf("Error grouping by severity: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	byType, err := s.store.ThreatCountsByType(ctx, since)
	if err != nil {
		log.Printf("Error grouping by type: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	topIPs, err := s.store.TopSourceIPs(ctx, since, 10)
	if err != nil {
		log.Printf("Error listing top source IPs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var rate float64
	if totalLogs > 0 {
		rate = float64(totalThreats) / float64(totalLogs)
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalLogs:      totalLogs,
		TotalThreats:   totalThreats,
		ThreatRate:     rate,
		OpenAlerts:     openAlerts,
		CriticalAlerts: criticalAlerts,
		AvgThreatScore: avgScore,
		RecentLogs24h:  recent,
		BySeverity:     bySeverity,
		ByType:         byType,
		TopSourceIPs:   topIPs,
		DetectorReady:  s.detector.Ready(),
	})
}

type scoreStatistics struct {
	Samples int64   `json:"samples"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
	P95     float64 `json:"p95"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type statisticsResponse struct {
	Days         int                     `json:"days"`
	ThreatScores scoreStatistics         `json:"threat_scores"`
	Timeline     []storage.TimelinePoint `json:"timeline"`
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	days, ok := intQuery(r, "days", 7, 1, 365)
	if !ok {
		writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -days)

	scores, err := s.store.ThreatScoresSince(r.Context(), since)
	if err != nil {
		log.Printf("Error loading threat scores: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	timeline, err := s.store.DailyTimeline(r.Context(), days)
	if err != nil {
		log.Printf("Error building timeline: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := statisticsResponse{Days: days, Timeline: timeline}
	resp.ThreatScores.Samples = int64(len(scores))

	// stats helpers error only on empty input, which leaves the zero values.
	if len(scores) > 0 {
		data := stats.Float64Data(scores)
		resp.ThreatScores.Mean, _ = stats.Mean(data)
		resp.ThreatScores.Median, _ = stats.Median(data)
		resp.ThreatScores.StdDev, _ = stats.StandardDeviation(data)
		resp.ThreatScores.P95, _ = stats.Percentile(data, 95)
		resp.ThreatScores.Min, _ = stats.Min(data)
		resp.ThreatScores.Max, _ = stats.Max(data)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	hours, ok := intQuery(r, "hours", 24, 1, 168)
	if !ok {
		writeError(w, http.StatusBadRequest, "hours must be between 1 and 168")
		return
	}

	trends, err := s.store.HourlyTrends(r.Context(), hours)
	if err != nil {
		log.Printf("Error building trends: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"hours":  hours,
		"trends": trends,
	})
}
