package api

import (
	"log"
	"net/http"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(r, "limit", 100, 1, maxPageSize)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, ok := intQuery(r, "offset", 0, 0, 1<<30)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	entries, err := s.store.ListAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Printf("Error listing audit logs: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"audit_logs": entries})
}
