package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const logColumns = `id, timestamp, event_type, severity, source_ip, destination_ip,
	user_agent, username, description, raw_log, country, city,
	threat_score, is_threat, confidence_score, is_anomaly`

// LogFilter narrows log listing queries. Nil/zero fields are ignored.
type LogFilter struct {
	Severity  models.Severity
	EventType models.EventType
	IsThreat  *bool
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func (f LogFilter) whereClause() (string, []any) {
	var conditions []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if f.Severity != "" {
		add("severity = $%d", string(f.Severity))
	}
	if f.EventType != "" {
		add("event_type = $%d", string(f.EventType))
	}
	if f.IsThreat != nil {
		add("is_threat = $%d", *f.IsThreat)
	}
	if f.StartDate != nil {
		add("timestamp >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("timestamp <= $%d", *f.EndDate)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// InsertLog persists a scored security log and fills in its generated ID and
// timestamp.
func (s *Store) InsertLog(ctx context.Context, entry *models.SecurityLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO security_logs (timestamp, event_type, severity, source_ip, destination_ip,
			user_agent, username, description, raw_log, country, city,
			threat_score, is_threat, confidence_score, is_anomaly)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 RETURNING id`,
		entry.Timestamp, entry.EventType, entry.Severity, entry.SourceIP, entry.DestinationIP,
		entry.UserAgent, entry.Username, entry.Description, entry.RawLog, entry.Country, entry.City,
		entry.ThreatScore, entry.IsThreat, entry.ConfidenceScore, entry.IsAnomaly,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}

	return nil
}

// GetLog fetches a single log entry by ID.
func (s *Store) GetLog(ctx context.Context, id int64) (*models.SecurityLog, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+logColumns+` FROM security_logs WHERE id = $1`, id)

	entry, err := scanLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	return entry, nil
}

// ListLogs returns logs matching the filter, newest first, plus the total
// matching count for pagination.
func (s *Store) ListLogs(ctx context.Context, filter LogFilter) ([]*models.SecurityLog, int, error) {
	where, args := filter.whereClause()

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM security_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM security_logs%s ORDER BY timestamp DESC LIMIT %d OFFSET %d`,
		logColumns, where, limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.SecurityLog
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, total, rows.Err()
}

// DeleteLog removes a log entry.
func (s *Store) DeleteLog(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM security_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLog(row pgx.Row) (*models.SecurityLog, error) {
	var entry models.SecurityLog
	err := row.Scan(
		&entry.ID, &entry.Timestamp, &entry.EventType, &entry.Severity,
		&entry.SourceIP, &entry.DestinationIP, &entry.UserAgent, &entry.Username,
		&entry.Description, &entry.RawLog, &entry.Country, &entry.City,
		&entry.ThreatScore, &entry.IsThreat, &entry.ConfidenceScore, &entry.IsAnomaly,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
