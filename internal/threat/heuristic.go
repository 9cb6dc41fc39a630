package threat

import (
	"math"
	"strings"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// Score is the result of scoring a single security event.
type Score struct {
	IsThreat    bool    `json:"is_threat"`
	Confidence  float64 `json:"confidence"`
	ThreatScore float64 `json:"threat_score"`
}

// privatePrefixes are address ranges treated as internal. Anything outside
// them gets a suspicion bonus. This is a crude stand-in for IP reputation:
// it flags every public address, including our own load balancer. Known
// false-positive source, kept until a real reputation feed lands.
var privatePrefixes = []string{"192.168.", "10.", "172.16."}

// HeuristicScorer is the deterministic rule-based scorer. It is pure: identical
// inputs always produce identical scores, so it is safe as the always-available
// fallback path.
type HeuristicScorer struct {
	weights Weights
}

func NewHeuristicScorer(w Weights) *HeuristicScorer {
	return &HeuristicScorer{weights: w}
}

// Score computes a threat score from the event type, severity and source IP.
func (h *HeuristicScorer) Score(eventType models.EventType, severity models.Severity, sourceIP string) Score {
	base := h.weights.RuleWeight(eventType)
	sev := h.weights.SeverityWeight(severity)

	score := base*0.7 + sev*0.3

	if sourceIP != "" && isSuspiciousIP(sourceIP) {
		score += 0.2
	}

	// Failed logins get an extra bump on top of the IP bonus. Too many
	// false negatives without it.
	if eventType == models.EventFailedLogin {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}

	isThreat := score > ThreatThreshold
	confidence := score
	if !isThreat {
		confidence = 1 - score
	}

	return Score{
		IsThreat:    isThreat,
		Confidence:  round3(confidence),
		ThreatScore: round3(score),
	}
}

func isSuspiciousIP(ip string) bool {
	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return false
		}
	}
	return true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
