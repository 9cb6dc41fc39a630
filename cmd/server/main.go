package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/api"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/audit"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/auth"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/config"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/eventbus"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/ratelimit"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/storage"
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/threat"
)

func main() {
	log.Printf("Starting security dashboard API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := storage.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	log.Printf("Connected to database")

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Migrate(migrateCtx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	cancel()
	log.Printf("Connected to Redis at %s", cfg.RedisAddr)

	publisher, err := eventbus.NewPublisher(cfg.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer publisher.Close()
	log.Printf("Connected to NATS at %s", cfg.NatsURL)

	detector := threat.NewDetector(threat.DefaultWeights(), cfg.ModelPath)
	if detector.Ready() {
		log.Printf("Threat detector loaded trained model from %s", cfg.ModelPath)
	} else {
		log.Printf("Threat detector running in heuristic mode")
	}

	var limiter api.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewLimiter(rdb)
	}

	server := api.NewServer(api.Options{
		Store:       store,
		Detector:    detector,
		Publisher:   publisher,
		Sessions:    auth.NewSessionStore(rdb, cfg.SessionTTL),
		RateLimiter: limiter,
		Auditor:     audit.NewRecorder(store),
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		if err := server.Start(":" + cfg.APIPort); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("Shutting down...")
	if err := server.Stop(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
