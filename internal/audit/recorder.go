package audit

import (
	"context"
	"encoding/json"
	"log"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// Writer persists audit entries; satisfied by storage.Store.
type Writer interface {
	InsertAuditLog(ctx context.Context, entry *models.AuditLog) error
}

// Recorder writes audit trail entries for compliance tracking. Audit failures
// are logged and swallowed: an audit outage must never fail the user request
// being audited.
type Recorder struct {
	store Writer
}

func NewRecorder(store Writer) *Recorder {
	return &Recorder{store: store}
}

// Entry describes one auditable action.
type Entry struct {
	UserID       *int64
	Action       models.AuditAction
	ResourceType string
	ResourceID   *int64
	IPAddress    string
	UserAgent    string
	Details      map[string]any
	Success      bool
}

// Record writes an audit entry.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	details := ""
	if e.Details != nil {
		if data, err := json.Marshal(e.Details); err == nil {
			details = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		Details:      details,
		Success:      e.Success,
	}

	if err := r.store.InsertAuditLog(ctx, entry); err != nil {
		log.Printf("Audit log write failed: %v", err)
	}
}

// RecordLogin writes a login attempt entry.
func (r *Recorder) RecordLogin(ctx context.Context, userID int64, ip, userAgent string, success bool) {
	r.Record(ctx, Entry{
		UserID:    &userID,
		Action:    models.AuditLogin,
		IPAddress: ip,
		UserAgent: userAgent,
		Details:   map[string]any{"event": "user_login"},
		Success:   success,
	})
}

// RecordLogout writes a logout entry.
func (r *Recorder) RecordLogout(ctx context.Context, userID int64, ip, userAgent string) {
	r.Record(ctx, Entry{
		UserID:    &userID,
		Action:    models.AuditLogout,
		IPAddress: ip,
		UserAgent: userAgent,
		Details:   map[string]any{"event": "user_logout"},
		Success:   true,
	})
}

// RecordAccessDenied writes an access denied entry.
func (r *Recorder) RecordAccessDenied(ctx context.Context, userID *int64, resourceType, reason, ip, userAgent string) {
	r.Record(ctx, Entry{
		UserID:       userID,
		Action:       models.AuditAccessDenied,
		ResourceType: resourceType,
		IPAddress:    ip,
		UserAgent:    userAgent,
		Details:      map[string]any{"reason": reason},
		Success:      false,
	})
}
