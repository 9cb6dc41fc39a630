package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
)

func validAlertStatus(status string) bool {
	switch status {
	case models.AlertStatusOpen, models.AlertStatusInvestigating,
		models.AlertStatusResolved, models.AlertStatusFalsePositive:
		return true
	}
	return false
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := q.Get("status")
	if status != "" && !validAlertStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown alert status")
		return
	}

	limit := 100
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	offset := 0
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	alerts, err := s.store.ListAlerts(r.Context(), status, limit, offset)
	if err != nil {
		log.Printf("Error listing alerts: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if alerts == nil {
		alerts = []*models.Alert{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	alert, err := s.store.GetAlert(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		log.Printf("Error fetching alert %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, alert)
}

type createAlertRequest struct {
	LogID       int64           `json:"log_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Severity    models.Severity `json:"severity"`
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.Severity.Valid() {
		writeError(w, http.StatusBadRequest, "unknown severity")
		return
	}
	if req.LogID > 0 {
		if _, err := s.store.GetLog(r.Context(), req.LogID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "referenced log does not exist")
				return
			}
			log.Printf("Error checking log %d: %v", req.LogID, err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	sess := sessionFrom(r.Context())

	alert := &models.Alert{
		LogID:       req.LogID,
		UserID:      sess.UserID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      models.AlertStatusOpen,
	}

	if err := s.store.InsertAlert(r.Context(), alert); err != nil {
		log.Printf("Error inserting alert: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAlertCreated(alert); err != nil {
			log.Printf("Error publishing alert %d: %v", alert.ID, err)
		}
	}

	s.recordAction(r, models.AuditCreate, "alert", alert.ID)

	writeJSON(w, http.StatusCreated, alert)
}

type updateAlertRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Severity    *models.Severity `json:"severity"`
	Status      *string          `json:"status"`
	Notes       *string          `json:"notes"`
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var req updateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Severity != nil && !req.Severity.Valid() {
		writeError(w, http.StatusBadRequest, "unknown severity")
		return
	}
	if req.Status != nil && !validAlertStatus(*req.Status) {
		writeError(w, http.StatusBadRequest, "unknown alert status")
		return
	}

	update := storage.AlertUpdate{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      req.Status,
		Notes:       req.Notes,
	}

	// Stamp the resolver when an alert transitions into resolved.
	if req.Status != nil && *req.Status == models.AlertStatusResolved {
		sess := sessionFrom(r.Context())
		update.ResolvedBy = &sess.Username
	}

	alert, err := s.store.UpdateAlert(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		log.Printf("Error updating alert %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.recordAction(r, models.AuditUpdate, "alert", id)

	writeJSON(w, http.StatusOK, alert)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	if err := s.store.DeleteAlert(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		log.Printf("Error deleting alert %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.recordAction(r, models.AuditDelete, "alert", id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "alert deleted"})
}
