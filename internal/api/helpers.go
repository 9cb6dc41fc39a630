package api

import (
	"net/http"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/audit"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// recordAction writes an audit entry for a mutating request.
func (s *Server) recordAction(r *http.Request, action models.AuditAction, resourceType string, resourceID int64) {
	sess := sessionFrom(r.Context())
	if s.auditor == nil || sess == nil {
		return
	}

	id := resourceID
	s.auditor.Record(r.Context(), audit.Entry{
		UserID:       &sess.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   &id,
		IPAddress:    clientIP(r),
		UserAgent:    r.UserAgent(),
		Success:      true,
	})
}
