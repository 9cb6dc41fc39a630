package models

import "time"

// Severity levels for security events
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists all severity levels from least to most urgent.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Valid reports whether s is a known severity level.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// EventType categorises security events
type EventType string

const (
	EventLoginAttempt       EventType = "login_attempt"
	EventFailedLogin        EventType = "failed_login"
	EventBruteForce         EventType = "brute_force"
	EventMalwareDetected    EventType = "malware_detected"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventDataExfiltration   EventType = "data_exfiltration"
	EventSuspiciousActivity EventType = "suspicious_activity"
	EventPolicyViolation    EventType = "policy_violation"
	EventNetworkAnomaly     EventType = "network_anomaly"
	EventFileIntegrity      EventType = "file_integrity"
)

// EventTypes lists the closed set of event categories.
var EventTypes = []EventType{
	EventLoginAttempt,
	EventFailedLogin,
	EventBruteForce,
	EventMalwareDetected,
	EventUnauthorizedAccess,
	EventDataExfiltration,
	EventSuspiciousActivity,
	EventPolicyViolation,
	EventNetworkAnomaly,
	EventFileIntegrity,
}

// Valid reports whether e is a known event type.
func (e EventType) Valid() bool {
	for _, known := range EventTypes {
		if e == known {
			return true
		}
	}
	return false
}

// UserRole for RBAC
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleUser   UserRole = "user"
	RoleViewer UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleViewer:
		return true
	}
	return false
}

// AuditAction categorises audit trail entries
type AuditAction string

const (
	AuditCreate       AuditAction = "create"
	AuditRead         AuditAction = "read"
	AuditUpdate       AuditAction = "update"
	AuditDelete       AuditAction = "delete"
	AuditLogin        AuditAction = "login"
	AuditLogout       AuditAction = "logout"
	AuditAccessDenied AuditAction = "access_denied"
)

// Alert lifecycle states
const (
	AlertStatusOpen          = "open"
	AlertStatusInvestigating = "investigating"
	AlertStatusResolved      = "resolved"
	AlertStatusFalsePositive = "false_positive"
)

// SecurityLog is a persisted security event record.
type SecurityLog struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	EventType     EventType `json:"event_type"`
	Severity      Severity  `json:"severity"`
	SourceIP      string    `json:"source_ip,omitempty"`
	DestinationIP string    `json:"destination_ip,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	Username      string    `json:"username,omitempty"`
	Description   string    `json:"description,omitempty"`
	RawLog        string    `json:"raw_log,omitempty"`
	Country       string    `json:"country,omitempty"`
	City          string    `json:"city,omitempty"`

	// Scoring outputs
	ThreatScore     float64 `json:"threat_score"`
	IsThreat        bool    `json:"is_threat"`
	ConfidenceScore float64 `json:"confidence_score"`
	IsAnomaly       bool    `json:"is_anomaly"`
}

// Alert is a triaged security alert raised from a log entry.
type Alert struct {
	ID          int64      `json:"id"`
	LogID       int64      `json:"log_id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Severity    Severity   `json:"severity"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  string     `json:"resolved_by,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// User account with RBAC role.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	FullName       string     `json:"full_name,omitempty"`
	Role           UserRole   `json:"role"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuditLog records a user action for compliance tracking.
type AuditLog struct {
	ID           int64       `json:"id"`
	UserID       *int64      `json:"user_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type,omitempty"`
	ResourceID   *int64      `json:"resource_id,omitempty"`
	IPAddress    string      `json:"ip_address,omitempty"`
	UserAgent    string      `json:"user_agent,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Details      string      `json:"details,omitempty"`
	Success      bool        `json:"success"`
}

// ThreatIndicator is a known IOC (IP, domain, hash or email).
type ThreatIndicator struct {
	ID            int64     `json:"id"`
	IndicatorType string    `json:"indicator_type"`
	Value         string    `json:"value"`
	ThreatLevel   Severity  `json:"threat_level"`
	Description   string    `json:"description,omitempty"`
	Source        string    `json:"source,omitempty"`
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
	IsActive      bool      `json:"is_active"`
}
