package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/threat"
)

const maxPageSize = 1000

func logFilterFromQuery(r *http.Request) (storage.LogFilter, error) {
	q := r.URL.Query()
	filter := storage.LogFilter{Limit: 100}

	if v := q.Get("severity"); v != "" {
		sev := models.Severity(v)
		if !sev.Valid() {
			return filter, fmt.Errorf("unknown severity %q", v)
		}
		filter.Severity = sev
	}
	if v := q.Get("event_type"); v != "" {
		et := models.EventType(v)
		if !et.Valid() {
			return filter, fmt.Errorf("unknown event type %q", v)
		}
		filter.EventType = et
	}
	if v := q.Get("is_threat"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid is_threat value %q", v)
		}
		filter.IsThreat = &b
	}
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date: %v", err)
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date: %v", err)
		}
		filter.EndDate = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return filter, fmt.Errorf("limit must be between 1 and %d", maxPageSize)
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("offset must be non-negative")
		}
		filter.Offset = n
	}

	return filter, nil
}

type logListResponse struct {
	Logs   []*models.SecurityLog `json:"logs"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := logFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, total, err := s.store.ListLogs(r.Context(), filter)
	if err != nil {
		log.Printf("Error listing logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if logs == nil {
		logs = []*models.SecurityLog{}
	}

	writeJSON(w, http.StatusOK, logListResponse{
		Logs:   logs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	entry, err := s.store.GetLog(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "log not found")
			return
		}
		log.Printf("Error fetching log %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

type createLogRequest struct {
	Timestamp     *time.Time       `json:"timestamp"`
	EventType     models.EventType `json:"event_type"`
	Severity      models.Severity  `json:"severity"`
	SourceIP      string           `json:"source_ip"`
	DestinationIP string           `json:"destination_ip"`
	UserAgent     string           `json:"user_agent"`
	Username      string           `json:"username"`
	Description   string           `json:"description"`
	RawLog        string           `json:"raw_log"`
	Country       string           `json:"country"`
	City          string           `json:"city"`
}

// handleCreateLog ingests a security event: it is scored by the threat
// detector, persisted, and broadcast on the event bus.
func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req createLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.EventType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown event type")
		return
	}
	if !req.Severity.Valid() {
		writeError(w, http.StatusBadRequest, "unknown severity")
		return
	}

	entry := &models.SecurityLog{
		EventType:     req.EventType,
		Severity:      req.Severity,
		SourceIP:      req.SourceIP,
		DestinationIP: req.DestinationIP,
		UserAgent:     req.UserAgent,
		Username:      req.Username,
		Description:   req.Description,
		RawLog:        req.RawLog,
		Country:       req.Country,
		City:          req.City,
	}
	if req.Timestamp != nil {
		entry.Timestamp = req.Timestamp.UTC()
	} else {
		entry.Timestamp = time.Now().UTC()
	}

	score := s.detector.Score(entry)
	entry.ThreatScore = score.ThreatScore
	entry.IsThreat = score.IsThreat
	entry.ConfidenceScore = score.Confidence
	entry.IsAnomaly = score.ThreatScore > threat.AnomalyThreshold

	if err := s.store.InsertLog(r.Context(), entry); err != nil {
		log.Printf("Error inserting log: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishLogCreated(entry); err != nil {
			log.Printf("Error publishing log %d: %v", entry.ID, err)
		}
	}

	s.recordAction(r, models.AuditCreate, "security_log", entry.ID)

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	if err := s.store.DeleteLog(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "log not found")
			return
		}
		log.Printf("Error deleting log %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.recordAction(r, models.AuditDelete, "security_log", id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "log deleted"})
}

var csvHeader = []string{
	"id", "timestamp", "event_type", "severity", "source_ip", "destination_ip",
	"username", "description", "threat_score", "is_threat", "confidence_score", "is_anomaly",
}

func (s *Server) handleExportLogsCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := logFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Limit = maxPageSize

	logs, _, err := s.store.ListLogs(r.Context(), filter)
	if err != nil {
		log.Printf("Error exporting logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="security_logs_%s.csv"`, time.Now().UTC().Format("20060102_150405")))

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		log.Printf("Error writing CSV header: %v", err)
		return
	}
	for _, entry := range logs {
		record := []string{
			strconv.FormatInt(entry.ID, 10),
			entry.Timestamp.UTC().Format(time.RFC3339),
			string(entry.EventType),
			string(entry.Severity),
			entry.SourceIP,
			entry.DestinationIP,
			entry.Username,
			entry.Description,
			strconv.FormatFloat(entry.ThreatScore, 'f', 3, 64),
			strconv.FormatBool(entry.IsThreat),
			strconv.FormatFloat(entry.ConfidenceScore, 'f', 3, 64),
			strconv.FormatBool(entry.IsAnomaly),
		}
		if err := cw.Write(record); err != nil {
			log.Printf("Error writing CSV row: %v", err)
			return
		}
	}

	s.recordAction(r, models.AuditRead, "security_log_export", 0)
}
