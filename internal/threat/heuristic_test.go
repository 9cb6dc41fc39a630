package threat

import (
	"testing"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestHeuristicScorer_Deterministic(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	for _, eventType := range models.EventTypes {
		for _, severity := range models.Severities {
			first := scorer.Score(eventType, severity, "8.8.8.8")
			second := scorer.Score(eventType, severity, "8.8.8.8")

			assert.Equal(t, first, second, "identical inputs must score identically")
		}
	}
}

func TestHeuristicScorer_CriticalMalwareFromPublicIP(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	// base=0.95, sev=1.0 -> 0.7*0.95+0.3*1.0 = 0.965, +0.2 public IP, clamped
	score := scorer.Score(models.EventMalwareDetected, models.SeverityCritical, "8.8.8.8")

	assert.True(t, score.IsThreat)
	assert.Equal(t, 1.0, score.ThreatScore)
	assert.Equal(t, 1.0, score.Confidence)
}

func TestHeuristicScorer_LowLoginFromPrivateIP(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	// base=0.1, sev=0.25 -> 0.145, no bonuses
	score := scorer.Score(models.EventLoginAttempt, models.SeverityLow, "192.168.1.5")

	assert.False(t, score.IsThreat)
	assert.Equal(t, 0.145, score.ThreatScore)
	assert.Equal(t, 0.855, score.Confidence)
}

func TestHeuristicScorer_FailedLoginBonusStacksWithIPBonus(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	// base=0.3, sev=0.25 -> 0.285, +0.2 public IP, +0.2 failed login = 0.685
	score := scorer.Score(models.EventFailedLogin, models.SeverityLow, "8.8.8.8")

	assert.Equal(t, 0.685, score.ThreatScore)
	assert.True(t, score.IsThreat)
	assert.Equal(t, 0.685, score.Confidence)
}

func TestHeuristicScorer_UnknownEventTypeDefaults(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	// unknown base defaults to 0.5 -> 0.7*0.5+0.3*0.25 = 0.425
	score := scorer.Score(models.EventType("zero_day"), models.SeverityLow, "")

	assert.Equal(t, 0.425, score.ThreatScore)
	assert.False(t, score.IsThreat)
}

func TestHeuristicScorer_SeverityMonotonic(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	for _, eventType := range models.EventTypes {
		previous := -1.0
		for _, severity := range models.Severities {
			score := scorer.Score(eventType, severity, "")

			assert.GreaterOrEqual(t, score.ThreatScore, previous,
				"raising severity must never lower the score for %s", eventType)
			previous = score.ThreatScore
		}
	}
}

func TestHeuristicScorer_PrivateIPNeverScoresHigherThanPublic(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	for _, eventType := range models.EventTypes {
		for _, severity := range models.Severities {
			private := scorer.Score(eventType, severity, "192.168.1.1")
			public := scorer.Score(eventType, severity, "8.8.8.8")

			assert.LessOrEqual(t, private.ThreatScore, public.ThreatScore)
		}
	}
}

func TestHeuristicScorer_ScoreBoundsAndThreshold(t *testing.T) {
	scorer := NewHeuristicScorer(DefaultWeights())

	inputs := []struct {
		eventType models.EventType
		severity  models.Severity
		sourceIP  string
	}{
		{models.EventBruteForce, models.SeverityCritical, "203.0.113.1"},
		{models.EventLoginAttempt, models.SeverityLow, ""},
		{models.EventType("unknown"), models.Severity("unknown"), "8.8.8.8"},
		{models.EventFailedLogin, models.SeverityCritical, "10.0.0.1"},
	}

	for _, in := range inputs {
		score := scorer.Score(in.eventType, in.severity, in.sourceIP)

		assert.GreaterOrEqual(t, score.ThreatScore, 0.0)
		assert.LessOrEqual(t, score.ThreatScore, 1.0)
		assert.GreaterOrEqual(t, score.Confidence, 0.0)
		assert.LessOrEqual(t, score.Confidence, 1.0)
		assert.Equal(t, score.ThreatScore > ThreatThreshold, score.IsThreat)
	}
}

func TestIsSuspiciousIP(t *testing.T) {
	assert.True(t, isSuspiciousIP("203.0.113.1"))
	assert.True(t, isSuspiciousIP("8.8.8.8"))

	assert.False(t, isSuspiciousIP("192.168.1.1"))
	assert.False(t, isSuspiciousIP("10.0.0.1"))
	assert.False(t, isSuspiciousIP("172.16.5.20"))
}
