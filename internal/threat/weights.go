package threat

import "github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"

// ThreatThreshold is the score above which an event is flagged as a threat.
const ThreatThreshold = 0.6

// AnomalyThreshold is the score above which an event is marked anomalous
// by the persistence layer.
const AnomalyThreshold = 0.7

// Weights holds the rule and severity weight tables shared by the heuristic
// scorer and the synthetic data generator. Both must score from the same
// tables or the classifier trains against a different heuristic than the one
// it falls back to.
type Weights struct {
	rules      map[models.EventType]float64
	severities map[models.Severity]float64
}

// DefaultWeights returns the tuned production weight tables.
func DefaultWeights() Weights {
	return Weights{
		rules: map[models.EventType]float64{
			models.EventLoginAttempt:       0.1,
			models.EventFailedLogin:        0.3,
			models.EventBruteForce:         0.9,
			models.EventMalwareDetected:    0.95,
			models.EventUnauthorizedAccess: 0.85,
			models.EventDataExfiltration:   0.95,
			models.EventSuspiciousActivity: 0.6,
			models.EventPolicyViolation:    0.4,
			models.EventNetworkAnomaly:     0.7,
			models.EventFileIntegrity:      0.5,
		},
		severities: map[models.Severity]float64{
			models.SeverityLow:      0.25,
			models.SeverityMedium:   0.5,
			models.SeverityHigh:     0.75,
			models.SeverityCritical: 1.0,
		},
	}
}

// RuleWeight returns the base weight for an event type, 0.5 for unknown types.
func (w Weights) RuleWeight(e models.EventType) float64 {
	if v, ok := w.rules[e]; ok {
		return v
	}
	return 0.5
}

// SeverityWeight returns the weight for a severity level, 0.5 for unknown levels.
func (w Weights) SeverityWeight(s models.Severity) float64 {
	if v, ok := w.severities[s]; ok {
		return v
	}
	return 0.5
}
