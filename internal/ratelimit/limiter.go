package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limit is a request budget over a fixed window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Route-class limits. Conservative on purpose: started more generous but had
// to tighten up after some abuse.
var (
	LimitLogin     = Limit{Requests: 5, Window: time.Minute}
	LimitRegister  = Limit{Requests: 3, Window: time.Hour}
	LimitAPIRead   = Limit{Requests: 100, Window: time.Minute}
	LimitAPIWrite  = Limit{Requests: 30, Window: time.Minute}
	LimitAnalytics = Limit{Requests: 60, Window: time.Minute}
	LimitExport    = Limit{Requests: 10, Window: time.Hour}
)

// Limiter implements fixed-window rate limiting on Redis counters. When Redis
// is unavailable it fails open: a broken limiter must not take the API down
// with it.
type Limiter struct {
	rdb *redis.Client
}

func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

// Allow consumes one request from the client's budget for the given route
// class and reports whether the request may proceed.
func (l *Limiter) Allow(ctx context.Context, clientIP, class string, limit Limit) bool {
	key := windowKey(clientIP, class, limit.Window, time.Now())

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("Rate limiter unavailable, failing open: %v", err)
		return true
	}

	if count == 1 {
		// First hit in this window owns setting the expiry.
		l.rdb.Expire(ctx, key, limit.Window)
	}

	return count <= int64(limit.Requests)
}

// windowKey buckets requests into fixed windows so all hits within the same
// window share one counter.
func windowKey(clientIP, class string, window time.Duration, now time.Time) string {
	bucket := now.Unix() / int64(window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", class, clientIP, bucket)
}
