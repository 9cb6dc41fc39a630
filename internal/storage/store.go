package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL persistence layer for logs, alerts, users, audit
// entries and threat indicators.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, connectionString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Connected to PostgreSQL")

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck verifies the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Migrate creates all tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			hashed_password VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS security_logs (
			id BIGSERIAL PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			event_type VARCHAR(50) NOT NULL,
			severity VARCHAR(20) NOT NULL DEFAULT 'low',
			source_ip VARCHAR(45) DEFAULT '',
			destination_ip VARCHAR(45) DEFAULT '',
			user_agent TEXT DEFAULT '',
			username VARCHAR(100) DEFAULT '',
			description TEXT DEFAULT '',
			raw_log TEXT DEFAULT '',
			country VARCHAR(100) DEFAULT '',
			city VARCHAR(100) DEFAULT '',
			threat_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_threat BOOLEAN NOT NULL DEFAULT FALSE,
			confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_anomaly BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_security_logs_timestamp ON security_logs (timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_security_logs_event_type ON security_logs (event_type)`,
		`CREATE INDEX IF NOT EXISTS idx_security_logs_severity ON security_logs (severity)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id BIGSERIAL PRIMARY KEY,
			log_id BIGINT REFERENCES security_logs(id) ON DELETE CASCADE,
			user_id BIGINT REFERENCES users(id),
			title VARCHAR(255) NOT NULL,
			description TEXT DEFAULT '',
			severity VARCHAR(20) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'open',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			resolved_at TIMESTAMPTZ,
			resolved_by VARCHAR(100) DEFAULT '',
			notes TEXT DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_severity ON alerts (severity)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT REFERENCES users(id),
			action VARCHAR(30) NOT NULL,
			resource_type VARCHAR(100) DEFAULT '',
			resource_id BIGINT,
			ip_address VARCHAR(45) DEFAULT '',
			user_agent TEXT DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			details TEXT DEFAULT '',
			success BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs (timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS threat_indicators (
			id BIGSERIAL PRIMARY KEY,
			indicator_type VARCHAR(50) NOT NULL,
			value VARCHAR(255) UNIQUE NOT NULL,
			threat_level VARCHAR(20) NOT NULL DEFAULT 'medium',
			description TEXT DEFAULT '',
			source VARCHAR(100) DEFAULT '',
			first_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_seen TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Printf("Database tables created/verified")
	return nil
}
