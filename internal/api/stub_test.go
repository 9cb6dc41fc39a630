package api

import (
	"context"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/auth"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/ratelimit"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
)

// stubStore satisfies Store. Tests set only the function fields they need;
// unset fields return empty results or ErrNotFound.
type stubStore struct {
	healthCheck       func(ctx context.Context) error
	insertLog         func(ctx context.Context, entry *models.SecurityLog) error
	getLog            func(ctx context.Context, id int64) (*models.SecurityLog, error)
	listLogs          func(ctx context.Context, filter storage.LogFilter) ([]*models.SecurityLog, int, error)
	deleteLog         func(ctx context.Context, id int64) error
	insertAlert       func(ctx context.Context, alert *models.Alert) error
	getAlert          func(ctx context.Context, id int64) (*models.Alert, error)
	listAlerts        func(ctx context.Context, status string, limit, offset int) ([]*models.Alert, error)
	updateAlert       func(ctx context.Context, id int64, update storage.AlertUpdate) (*models.Alert, error)
	deleteAlert       func(ctx context.Context, id int64) error
	insertUser        func(ctx context.Context, user *models.User) error
	getUser           func(ctx context.Context, id int64) (*models.User, error)
	getUserByUsername func(ctx context.Context, username string) (*models.User, error)
}

func (s *stubStore) HealthCheck(ctx context.Context) error {
	if s.healthCheck != nil {
		return s.healthCheck(ctx)
	}
	return nil
}

func (s *stubStore) InsertLog(ctx context.Context, entry *models.SecurityLog) error {
	if s.insertLog != nil {
		return s.insertLog(ctx, entry)
	}
	entry.ID = 1
	return nil
}

func (s *stubStore) GetLog(ctx context.Context, id int64) (*models.SecurityLog, error) {
	if s.getLog != nil {
		return s.getLog(ctx, id)
	}
	return nil, storage.ErrNotFound
}

func (s *stubStore) ListLogs(ctx context.Context, filter storage.LogFilter) ([]*models.SecurityLog, int, error) {
	if s.listLogs != nil {
		return s.listLogs(ctx, filter)
	}
	return nil, 0, nil
}

func (s *stubStore) DeleteLog(ctx context.Context, id int64) error {
	if s.deleteLog != nil {
		return s.deleteLog(ctx, id)
	}
	return storage.ErrNotFound
}

func (s *stubStore) InsertAlert(ctx context.Context, alert *models.Alert) error {
	if s.insertAlert != nil {
		return s.insertAlert(ctx, alert)
	}
	alert.ID = 1
	return nil
}

func (s *stubStore) GetAlert(ctx context.Context, id int64) (*models.Alert, error) {
	if s.getAlert != nil {
		return s.getAlert(ctx, id)
	}
	return nil, storage.ErrNotFound
}

func (s *stubStore) ListAlerts(ctx context.Context, status string, limit, offset int) ([]*models.Alert, error) {
	if s.listAlerts != nil {
		return s.listAlerts(ctx, status, limit, offset)
	}
	return nil, nil
}

func (s *stubStore) UpdateAlert(ctx context.Context, id int64, update storage.AlertUpdate) (*models.Alert, error) {
	if s.updateAlert != nil {
		return s.updateAlert(ctx, id, update)
	}
	return nil, storage.ErrNotFound
}

func (s *stubStore) DeleteAlert(ctx context.Context, id int64) error {
	if s.deleteAlert != nil {
		return s.deleteAlert(ctx, id)
	}
	return storage.ErrNotFound
}

func (s *stubStore) InsertUser(ctx context.Context, user *models.User) error {
	if s.insertUser != nil {
		return s.insertUser(ctx, user)
	}
	user.ID = 1
	return nil
}

func (s *stubStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if s.getUser != nil {
		return s.getUser(ctx, id)
	}
	return nil, storage.ErrNotFound
}

func (s *stubStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getUserByUsername != nil {
		return s.getUserByUsername(ctx, username)
	}
	return nil, storage.ErrNotFound
}

func (s *stubStore) TouchLastLogin(ctx context.Context, id int64) error { return nil }

func (s *stubStore) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error { return nil }

func (s *stubStore) ListAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return nil, nil
}

func (s *stubStore) CountLogs(ctx context.Context, onlyThreats bool, since time.Time) (int64, error) {
	return 0, nil
}

func (s *stubStore) CountAlerts(ctx context.Context, severity, status string) (int64, error) {
	return 0, nil
}

func (s *stubStore) AvgThreatScore(ctx context.Context) (float64, error) { return 0, nil }

func (s *stubStore) ThreatCountsBySeverity(ctx context.Context, since time.Time) ([]storage.CountRow, error) {
	return nil, nil
}

func (s *stubStore) ThreatCountsByType(ctx context.Context, since time.Time) ([]storage.CountRow, error) {
	return nil, nil
}

func (s *stubStore) TopSourceIPs(ctx context.Context, since time.Time, limit int) ([]storage.IPCount, error) {
	return nil, nil
}

func (s *stubStore) DailyTimeline(ctx context.Context, days int) ([]storage.TimelinePoint, error) {
	return nil, nil
}

func (s *stubStore) HourlyTrends(ctx context.Context, hours int) ([]storage.TrendPoint, error) {
	return nil, nil
}

func (s *stubStore) ThreatScoresSince(ctx context.Context, since time.Time) ([]float64, error) {
	return nil, nil
}

// stubSessions keeps tokens in a map.
type stubSessions struct {
	tokens map[string]*auth.Session
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: make(map[string]*auth.Session)}
}

func (s *stubSessions) add(token string, sess *auth.Session) {
	s.tokens[token] = sess
}

func (s *stubSessions) Create(ctx context.Context, user *models.User) (string, error) {
	token := "token-" + user.Username
	s.tokens[token] = &auth.Session{UserID: user.ID, Username: user.Username, Role: user.Role}
	return token, nil
}

func (s *stubSessions) Get(ctx context.Context, token string) (*auth.Session, error) {
	sess, ok := s.tokens[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubSessions) Revoke(ctx context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

// stubPublisher records published events.
type stubPublisher struct {
	logs   []*models.SecurityLog
	alerts []*models.Alert
}

func (p *stubPublisher) PublishLogCreated(entry *models.SecurityLog) error {
	p.logs = append(p.logs, entry)
	return nil
}

func (p *stubPublisher) PublishAlertCreated(alert *models.Alert) error {
	p.alerts = append(p.alerts, alert)
	return nil
}

func (p *stubPublisher) IsConnected() bool { return true }

// stubLimiter allows or rejects everything.
type stubLimiter struct {
	allow bool
}

func (l *stubLimiter) Allow(ctx context.Context, clientIP, class string, limit ratelimit.Limit) bool {
	return l.allow
}
