package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/auth"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/config"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/generator"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/threat"
)

func main() {
	seedDays := flag.Int("days", 7, "days of demo log history to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := storage.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Schema is up to date")

	if err := seedUsers(ctx, store); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	detector := threat.NewDetector(threat.DefaultWeights(), cfg.ModelPath)
	if err := seedLogs(ctx, store, detector, *seedDays); err != nil {
		log.Fatalf("Failed to seed logs: %v", err)
	}

	if err := seedIndicators(ctx, store); err != nil {
		log.Fatalf("Failed to seed threat indicators: %v", err)
	}

	log.Printf("Database initialised")
}

func seedUsers(ctx context.Context, store *storage.Store) error {
	seeds := []struct {
		username string
		email    string
		password string
		fullName string
		role     models.UserRole
	}{
		{"admin", "admin@example.com", "admin123", "System Administrator", models.RoleAdmin},
		{"analyst", "analyst@example.com", "analyst123", "Security Analyst", models.RoleUser},
		{"viewer", "viewer@example.com", "viewer123", "Dashboard Viewer", models.RoleViewer},
	}

	for _, seed := range seeds {
		_, err := store.GetUserByUsername(ctx, seed.username)
		if err == nil {
			log.Printf("User %s already exists, skipping", seed.username)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		hashed, err := auth.HashPassword(seed.password)
		if err != nil {
			return err
		}

		user := &models.User{
			Username:       seed.username,
			Email:          seed.email,
			HashedPassword: hashed,
			FullName:       seed.fullName,
			Role:           seed.role,
			IsActive:       true,
		}
		if err := store.InsertUser(ctx, user); err != nil {
			return err
		}
		log.Printf("Created %s user %q", seed.role, seed.username)
	}

	return nil
}

func seedLogs(ctx context.Context, store *storage.Store, detector *threat.Detector, days int) error {
	existing, err := store.CountLogs(ctx, false, time.Time{})
	if err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("Security logs already present (%d), skipping demo data", existing)
		return nil
	}

	gen := generator.New()
	logs := gen.GenerateTimeline(days)

	admin, err := store.GetUserByUsername(ctx, "admin")
	if err != nil {
		return err
	}

	alerts := 0
	for _, entry := range logs {
		score := detector.Score(entry)
		entry.ThreatScore = score.ThreatScore
		entry.IsThreat = score.IsThreat
		entry.ConfidenceScore = score.Confidence
		entry.IsAnomaly = score.ThreatScore > threat.AnomalyThreshold

		if err := store.InsertLog(ctx, entry); err != nil {
			return err
		}

		// Raise alerts for the most severe threats, capped to keep the
		// demo dashboard readable.
		if entry.IsThreat && entry.Severity == models.SeverityCritical && alerts < 10 {
			alert := &models.Alert{
				LogID:       entry.ID,
				UserID:      admin.ID,
				Title:       "Critical " + string(entry.EventType) + " detected",
				Description: entry.Description,
				Severity:    entry.Severity,
				Status:      models.AlertStatusOpen,
			}
			if err := store.InsertAlert(ctx, alert); err != nil {
				return err
			}
			alerts++
		}
	}

	log.Printf("Seeded %d demo logs and %d alerts over %d days", len(logs), alerts, days)
	return nil
}

func seedIndicators(ctx context.Context, store *storage.Store) error {
	now := time.Now().UTC()
	indicators := []*models.ThreatIndicator{
		{
			IndicatorType: "ip",
			Value:         "185.220.101.45",
			ThreatLevel:   models.SeverityHigh,
			Description:   "Known Tor exit node with brute force history",
			Source:        "internal",
		},
		{
			IndicatorType: "ip",
			Value:         "45.155.205.233",
			ThreatLevel:   models.SeverityCritical,
			Description:   "Command and control infrastructure",
			Source:        "threat feed",
		},
		{
			IndicatorType: "domain",
			Value:         "malware-delivery.example.net",
			ThreatLevel:   models.SeverityCritical,
			Description:   "Malware distribution domain",
			Source:        "threat feed",
		},
		{
			IndicatorType: "hash",
			Value:         "d41d8cd98f00b204e9800998ecf8427e",
			ThreatLevel:   models.SeverityMedium,
			Description:   "Suspicious binary observed in phishing campaign",
			Source:        "sandbox",
		},
	}

	for _, indicator := range indicators {
		indicator.FirstSeen = now
		indicator.LastSeen = now
		indicator.IsActive = true
		if err := store.UpsertIndicator(ctx, indicator); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d threat indicators", len(indicators))
	return nil
}
