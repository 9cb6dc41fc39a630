package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowKey_SameWindowSharesBucket(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 5, 0, time.UTC)

	first := windowKey("203.0.113.1", "login", time.Minute, base)
	second := windowKey("203.0.113.1", "login", time.Minute, base.Add(30*time.Second))

	assert.Equal(t, first, second)
}

func TestWindowKey_NextWindowRotates(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 5, 0, time.UTC)

	first := windowKey("203.0.113.1", "login", time.Minute, base)
	later := windowKey("203.0.113.1", "login", time.Minute, base.Add(2*time.Minute))

	assert.NotEqual(t, first, later)
}

func TestWindowKey_SeparatesClientsAndClasses(t *testing.T) {
	now := time.Now()

	a := windowKey("203.0.113.1", "login", time.Minute, now)
	b := windowKey("203.0.113.2", "login", time.Minute, now)
	c := windowKey("203.0.113.1", "export", time.Minute, now)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
