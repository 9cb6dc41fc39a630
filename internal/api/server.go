package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/audit"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/auth"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/ratelimit"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/threat"
)

// Store is the persistence surface the API depends on; satisfied by
// *storage.Store and mocked in handler tests.
type Store interface {
	HealthCheck(ctx context.Context) error

	InsertLog(ctx context.Context, entry *models.SecurityLog) error
	GetLog(ctx context.Context, id int64) (*models.SecurityLog, error)
	ListLogs(ctx context.Context, filter storage.LogFilter) ([]*models.SecurityLog, int, error)
	DeleteLog(ctx context.Context, id int64) error

	InsertAlert(ctx context.Context, alert *models.Alert) error
	GetAlert(ctx context.Context, id int64) (*models.Alert, error)
	ListAlerts(ctx context.Context, status string, limit, offset int) ([]*models.Alert, error)
	UpdateAlert(ctx context.Context, id int64, update storage.AlertUpdate) (*models.Alert, error)
	DeleteAlert(ctx context.Context, id int64) error

	InsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64) error

	ListAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	CountLogs(ctx context.Context, onlyThreats bool, since time.Time) (int64, error)
	CountAlerts(ctx context.Context, severity, status string) (int64, error)
	AvgThreatScore(ctx context.Context) (float64, error)
	ThreatCountsBySeverity(ctx context.Context, since time.Time) ([]storage.CountRow, error)
	ThreatCountsByType(ctx context.Context, since time.Time) ([]storage.CountRow, error)
	TopSourceIPs(ctx context.Context, since time.Time, limit int) ([]storage.IPCount, error)
	DailyTimeline(ctx context.Context, days int) ([]storage.TimelinePoint, error)
	HourlyTrends(ctx context.Context, hours int) ([]storage.TrendPoint, error)
	ThreatScoresSince(ctx context.Context, since time.Time) ([]float64, error)
}

// Detector scores security events; satisfied by *threat.Detector.
type Detector interface {
	Score(entry *models.SecurityLog) threat.Score
	Ready() bool
}

// Publisher broadcasts real-time updates; satisfied by *eventbus.Publisher.
type Publisher interface {
	PublishLogCreated(entry *models.SecurityLog) error
	PublishAlertCreated(alert *models.Alert) error
	IsConnected() bool
}

// Sessions resolves bearer tokens; satisfied by *auth.SessionStore.
type Sessions interface {
	Create(ctx context.Context, user *models.User) (string, error)
	Get(ctx context.Context, token string) (*auth.Session, error)
	Revoke(ctx context.Context, token string) error
}

// RateLimiter gates requests per client; satisfied by *ratelimit.Limiter.
type RateLimiter interface {
	Allow(ctx context.Context, clientIP, class string, limit ratelimit.Limit) bool
}

// Server is the dashboard HTTP API.
type Server struct {
	store      Store
	detector   Detector
	publisher  Publisher
	sessions   Sessions
	limiter    RateLimiter
	auditor    *audit.Recorder
	corsOrigin map[string]bool

	httpServer *http.Server
}

// Options carries the server's collaborators.
type Options struct {
	Store       Store
	Detector    Detector
	Publisher   Publisher
	Sessions    Sessions
	RateLimiter RateLimiter
	Auditor     *audit.Recorder
	CORSOrigins []string
}

func NewServer(opts Options) *Server {
	origins := make(map[string]bool, len(opts.CORSOrigins))
	for _, o := range opts.CORSOrigins {
		origins[o] = true
	}

	return &Server{
		store:      opts.Store,
		detector:   opts.Detector,
		publisher:  opts.Publisher,
		sessions:   opts.Sessions,
		limiter:    opts.RateLimiter,
		auditor:    opts.Auditor,
		corsOrigin: origins,
	}
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Auth endpoints
	api.Handle("/auth/login",
		s.rateLimit("login", ratelimit.LimitLogin, http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	api.Handle("/auth/logout",
		s.requireAuth(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)
	api.Handle("/auth/me",
		s.requireAuth(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)
	api.Handle("/auth/register",
		s.rateLimit("register", ratelimit.LimitRegister,
			s.requirePermission(auth.PermManageUsers, http.HandlerFunc(s.handleRegister)))).Methods(http.MethodPost)

	// Log endpoints
	api.Handle("/logs",
		s.rateLimit("read", ratelimit.LimitAPIRead,
			s.requirePermission(auth.PermViewLogs, http.HandlerFunc(s.handleListLogs)))).Methods(http.MethodGet)
	api.Handle("/logs",
		s.rateLimit("write", ratelimit.LimitAPIWrite,
			s.requirePermission(auth.PermCreateLogs, http.HandlerFunc(s.handleCreateLog)))).Methods(http.MethodPost)
	api.Handle("/logs/export/csv",
		s.rateLimit("export", ratelimit.LimitExport,
			s.requirePermission(auth.PermExportData, http.HandlerFunc(s.handleExportLogsCSV)))).Methods(http.MethodGet)
	api.Handle("/logs/{id:[0-9]+}",
		s.rateLimit("read", ratelimit.LimitAPIRead,
			s.requirePermission(auth.PermViewLogs, http.HandlerFunc(s.handleGetLog)))).Methods(http.MethodGet)
	api.Handle("/logs/{id:[0-9]+}",
		s.rateLimit("write", ratelimit.LimitAPIWrite,
			s.requirePermission(auth.PermDeleteLogs, http.HandlerFunc(s.handleDeleteLog)))).Methods(http.MethodDelete)

	// Alert endpoints
	api.Handle("/alerts",
		s.rateLimit("read", ratelimit.LimitAPIRead,
			s.requirePermission(auth.PermViewAlerts, http.HandlerFunc(s.handleListAlerts)))).Methods(http.MethodGet)
	api.Handle("/alerts",
		s.rateLimit("write", ratelimit.LimitAPIWrite,
			s.requirePermission(auth.PermCreateAlerts, http.HandlerFunc(s.handleCreateAlert)))).Methods(http.MethodPost)
	api.Handle("/alerts/{id:[0-9]+}",
		s.rateLimit("read", ratelimit.LimitAPIRead,
			s.requirePermission(auth.PermViewAlerts, http.HandlerFunc(s.handleGetAlert)))).Methods(http.MethodGet)
	api.Handle("/alerts/{id:[0-9]+}",
		s.rateLimit("write", ratelimit.LimitAPIWrite,
			s.requirePermission(auth.PermUpdateAlerts, http.HandlerFunc(s.handleUpdateAlert)))).Methods(http.MethodPut)
	api.Handle("/alerts/{id:[0-9]+}",
		s.rateLimit("write", ratelimit.LimitAPIWrite,
			s.requirePermission(auth.PermUpdateAlerts, http.HandlerFunc(s.handleDeleteAlert)))).Methods(http.MethodDelete)

	// Analytics endpoints
	api.Handle("/analytics/dashboard",
		s.rateLimit("analytics", ratelimit.LimitAnalytics,
			s.requirePermission(auth.PermViewDashboard, http.HandlerFunc(s.handleDashboard)))).Methods(http.MethodGet)
	api.Handle("/analytics/statistics",
		s.rateLimit("analytics", ratelimit.LimitAnalytics,
			s.requirePermission(auth.PermViewAnalytics, http.HandlerFunc(s.handleStatistics)))).Methods(http.MethodGet)
	api.Handle("/analytics/trends",
		s.rateLimit("analytics", ratelimit.LimitAnalytics,
			s.requirePermission(auth.PermViewAnalytics, http.HandlerFunc(s.handleTrends)))).Methods(http.MethodGet)

	// Audit endpoints
	api.Handle("/audit",
		s.rateLimit("read", ratelimit.LimitAPIRead,
			s.requirePermission(auth.PermViewAuditLogs, http.HandlerFunc(s.handleListAudit)))).Methods(http.MethodGet)

	return s.enableCORS(r)
}

// Start runs the HTTP server until Stop is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	log.Printf("HTTP server listening on: %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	log.Printf("Stopping HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Printf("HTTP server stopped successfully")
	return nil
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.corsOrigin[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
