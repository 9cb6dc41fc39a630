package storage

import (
	"context"
	"fmt"
	"time"
)

// CountRow is a generic label/count pair for grouped analytics queries.
type CountRow struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// IPCount is a source IP with its event count.
type IPCount struct {
	IP    string `json:"ip"`
	Count int64  `json:"count"`
}

// TimelinePoint is the event count for one day.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// TrendPoint is the event and threat counts for one hour.
type TrendPoint struct {
	Hour    string `json:"hour"`
	Total   int64  `json:"total"`
	Threats int64  `json:"threats"`
}

// CountLogs returns the total number of security logs, optionally restricted
// to threats or to a start time (zero values disable each restriction).
func (s *Store) CountLogs(ctx context.Context, onlyThreats bool, since time.Time) (int64, error) {
	query := `SELECT count(*) FROM security_logs WHERE TRUE`
	args := []any{}
	if onlyThreats {
		query += ` AND is_threat`
	}
	if !since.IsZero() {
		args = append(args, since)
		query += fmt.Sprintf(` AND timestamp >= $%d`, len(args))
	}

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count logs: %w", err)
	}
	return count, nil
}

// CountAlerts returns the total alert count, optionally filtered by severity
// and status.
func (s *Store) CountAlerts(ctx context.Context, severity, status string) (int64, error) {
	query := `SELECT count(*) FROM alerts WHERE TRUE`
	args := []any{}
	if severity != "" {
		args = append(args, severity)
		query += fmt.Sprintf(` AND severity = $%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

// AvgThreatScore returns the mean threat score over all logs, 0 when empty.
func (s *Store) AvgThreatScore(ctx context.Context) (float64, error) {
	var avg float64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(avg(threat_score), 0) FROM security_logs`).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average threat score: %w", err)
	}
	return avg, nil
}

// ThreatCountsBySeverity groups detected threats since the given time by
// severity.
func (s *Store) ThreatCountsBySeverity(ctx context.Context, since time.Time) ([]CountRow, error) {
	return s.groupedThreatCounts(ctx, "severity", since)
}

// ThreatCountsByType groups detected threats since the given time by event
// type.
func (s *Store) ThreatCountsByType(ctx context.Context, since time.Time) ([]CountRow, error) {
	return s.groupedThreatCounts(ctx, "event_type", since)
}

func (s *Store) groupedThreatCounts(ctx context.Context, column string, since time.Time) ([]CountRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+column+`, count(*) FROM security_logs
		 WHERE is_threat AND timestamp >= $1
		 GROUP BY `+column, since)
	if err != nil {
		return nil, fmt.Errorf("failed to group threats by %s: %w", column, err)
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var row CountRow
		if err := rows.Scan(&row.Label, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopSourceIPs returns the most frequent source IPs since the given time.
func (s *Store) TopSourceIPs(ctx context.Context, since time.Time, limit int) ([]IPCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT source_ip, count(*) AS count FROM security_logs
		 WHERE timestamp >= $1 AND source_ip <> ''
		 GROUP BY source_ip ORDER BY count DESC LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank source IPs: %w", err)
	}
	defer rows.Close()

	var out []IPCount
	for rows.Next() {
		var row IPCount
		if err := rows.Scan(&row.IP, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan IP count: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DailyTimeline returns per-day event counts for the trailing number of days,
// including empty days.
func (s *Store) DailyTimeline(ctx context.Context, days int) ([]TimelinePoint, error) {
	start := time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	rows, err := s.pool.Query(ctx,
		`SELECT date_trunc('day', timestamp) AS day, count(*)
		 FROM security_logs WHERE timestamp >= $1
		 GROUP BY day ORDER BY day`, start)
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan timeline row: %w", err)
		}
		counts[day.UTC().Format("2006-01-02")] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	timeline := make([]TimelinePoint, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		timeline = append(timeline, TimelinePoint{Date: date, Count: counts[date]})
	}
	return timeline, nil
}

// HourlyTrends returns per-hour total and threat counts for the trailing
// number of hours, including empty hours.
func (s *Store) HourlyTrends(ctx context.Context, hours int) ([]TrendPoint, error) {
	start := time.Now().UTC().Add(-time.Duration(hours) * time.Hour).Truncate(time.Hour)

	rows, err := s.pool.Query(ctx,
		`SELECT date_trunc('hour', timestamp) AS hour, count(*),
			count(*) FILTER (WHERE is_threat)
		 FROM security_logs WHERE timestamp >= $1
		 GROUP BY hour ORDER BY hour`, start)
	if err != nil {
		return nil, fmt.Errorf("failed to build trends: %w", err)
	}
	defer rows.Close()

	type bucket struct{ total, threats int64 }
	counts := make(map[string]bucket)
	for rows.Next() {
		var hour time.Time
		var b bucket
		if err := rows.Scan(&hour, &b.total, &b.threats); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		counts[hour.UTC().Format("2006-01-02 15:00")] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trends := make([]TrendPoint, 0, hours)
	for i := 0; i < hours; i++ {
		key := start.Add(time.Duration(i) * time.Hour).Format("2006-01-02 15:00")
		b := counts[key]
		trends = append(trends, TrendPoint{Hour: key, Total: b.total, Threats: b.threats})
	}
	return trends, nil
}

// ThreatScoresSince returns the raw threat score series for descriptive
// statistics.
func (s *Store) ThreatScoresSince(ctx context.Context, since time.Time) ([]float64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT threat_score FROM security_logs WHERE timestamp >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threat scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("failed to scan threat score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
