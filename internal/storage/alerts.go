package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

const alertColumns = `id, log_id, user_id, title, description, severity, status,
	created_at, updated_at, resolved_at, resolved_by, notes`

// InsertAlert persists an alert and fills in its generated fields.
func (s *Store) InsertAlert(ctx context.Context, alert *models.Alert) error {
	now := time.Now().UTC()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	if alert.Status == "" {
		alert.Status = models.AlertStatusOpen
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO alerts (log_id, user_id, title, description, severity, status,
			created_at, updated_at, resolved_by, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id`,
		alert.LogID, alert.UserID, alert.Title, alert.Description, alert.Severity,
		alert.Status, alert.CreatedAt, alert.UpdatedAt, alert.ResolvedBy, alert.Notes,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// GetAlert fetches an alert by ID.
func (s *Store) GetAlert(ctx context.Context, id int64) (*models.Alert, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)

	alert, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return alert, nil
}

// ListAlerts returns alerts newest first, optionally filtered by status.
func (s *Store) ListAlerts(ctx context.Context, status string, limit, offset int) ([]*models.Alert, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + alertColumns + ` FROM alerts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// AlertUpdate carries the mutable alert fields; nil pointers leave the column
// untouched.
type AlertUpdate struct {
	Title       *string
	Description *string
	Severity    *models.Severity
	Status      *string
	ResolvedBy  *string
	Notes       *string
}

// UpdateAlert applies a partial update. Transitioning into the resolved status
// stamps resolved_at if it was not already set.
func (s *Store) UpdateAlert(ctx context.Context, id int64, update AlertUpdate) (*models.Alert, error) {
	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		alert.Title = *update.Title
	}
	if update.Description != nil {
		alert.Description = *update.Description
	}
	if update.Severity != nil {
		alert.Severity = *update.Severity
	}
	if update.Status != nil {
		alert.Status = *update.Status
	}
	if update.ResolvedBy != nil {
		alert.ResolvedBy = *update.ResolvedBy
	}
	if update.Notes != nil {
		alert.Notes = *update.Notes
	}

	if alert.Status == models.AlertStatusResolved && alert.ResolvedAt == nil {
		now := time.Now().UTC()
		alert.ResolvedAt = &now
	}
	alert.UpdatedAt = time.Now().UTC()

	_, err = s.pool.Exec(ctx,
		`UPDATE alerts SET title=$1, description=$2, severity=$3, status=$4,
			updated_at=$5, resolved_at=$6, resolved_by=$7, notes=$8
		 WHERE id=$9`,
		alert.Title, alert.Description, alert.Severity, alert.Status,
		alert.UpdatedAt, alert.ResolvedAt, alert.ResolvedBy, alert.Notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}

	return alert, nil
}

// DeleteAlert removes an alert.
func (s *Store) DeleteAlert(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAlert(row pgx.Row) (*models.Alert, error) {
	var alert models.Alert
	err := row.Scan(
		&alert.ID, &alert.LogID, &alert.UserID, &alert.Title, &alert.Description,
		&alert.Severity, &alert.Status, &alert.CreatedAt, &alert.UpdatedAt,
		&alert.ResolvedAt, &alert.ResolvedBy, &alert.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}
