package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// InsertAuditLog persists an audit trail entry.
func (s *Store) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO audit_logs (user_id, action, resource_type, resource_id,
			ip_address, user_agent, timestamp, details, success)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING id`,
		entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.IPAddress, entry.UserAgent, entry.Timestamp, entry.Details, entry.Success,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns audit entries newest first.
func (s *Store) ListAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, action, resource_type, resource_id, ip_address,
			user_agent, timestamp, details, success
		 FROM audit_logs ORDER BY timestamp DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &entry.ResourceType, &entry.ResourceID,
			&entry.IPAddress, &entry.UserAgent, &entry.Timestamp, &entry.Details, &entry.Success,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
