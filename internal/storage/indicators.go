package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// UpsertIndicator inserts a threat indicator or refreshes last_seen on an
// existing one.
func (s *Store) UpsertIndicator(ctx context.Context, indicator *models.ThreatIndicator) error {
	now := time.Now().UTC()
	if indicator.FirstSeen.IsZero() {
		indicator.FirstSeen = now
	}
	if indicator.LastSeen.IsZero() {
		indicator.LastSeen = now
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO threat_indicators (indicator_type, value, threat_level,
			description, source, first_seen, last_seen, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (value) DO UPDATE SET last_seen = EXCLUDED.last_seen, is_active = TRUE
		 RETURNING id`,
		indicator.IndicatorType, indicator.Value, indicator.ThreatLevel,
		indicator.Description, indicator.Source, indicator.FirstSeen,
		indicator.LastSeen, indicator.IsActive,
	).Scan(&indicator.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert indicator: %w", err)
	}
	return nil
}

// ListActiveIndicators returns all active threat indicators.
func (s *Store) ListActiveIndicators(ctx context.Context) ([]*models.ThreatIndicator, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, indicator_type, value, threat_level, description, source,
			first_seen, last_seen, is_active
		 FROM threat_indicators WHERE is_active ORDER BY last_seen DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}
	defer rows.Close()

	var indicators []*models.ThreatIndicator
	for rows.Next() {
		var ind models.ThreatIndicator
		err := rows.Scan(
			&ind.ID, &ind.IndicatorType, &ind.Value, &ind.ThreatLevel,
			&ind.Description, &ind.Source, &ind.FirstSeen, &ind.LastSeen, &ind.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		indicators = append(indicators, &ind)
	}
	return indicators, rows.Err()
}
