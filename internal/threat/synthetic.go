package threat

import (
	"math/rand"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// SyntheticRow is one labelled training example. Rows are independent: there
// is no cross-row relationship.
type SyntheticRow struct {
	EventType   models.EventType
	Severity    models.Severity
	ThreatScore float64
	Hour        int
	DayOfWeek   int
	IsAnomaly   bool
	IsThreat    bool
}

// Generator produces labelled synthetic training data. The label assignment is
// deliberately biased per event category to encode prior belief about which
// categories are dangerous, and the continuous threat score is computed from
// the same weight tables the heuristic scorer uses, so the classifier mostly
// learns to approximate the heuristic plus the bucketed label noise.
type Generator struct {
	weights Weights
	rng     *rand.Rand
}

func NewGenerator(w Weights) *Generator {
	return &Generator{
		weights: w,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewGeneratorWithSeed returns a generator with a fixed random source.
func NewGeneratorWithSeed(w Weights, seed int64) *Generator {
	return &Generator{
		weights: w,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Generate returns exactly n independent rows.
func (g *Generator) Generate(n int) []SyntheticRow {
	rows := make([]SyntheticRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, g.generateRow())
	}
	return rows
}

func (g *Generator) generateRow() SyntheticRow {
	eventType := models.EventTypes[g.rng.Intn(len(models.EventTypes))]

	var severity models.Severity
	var isThreat bool

	switch eventType {
	case models.EventMalwareDetected, models.EventDataExfiltration, models.EventBruteForce:
		severity = g.pick(models.SeverityHigh, models.SeverityCritical)
		isThreat = true
	case models.EventUnauthorizedAccess, models.EventNetworkAnomaly:
		severity = g.pick(models.SeverityMedium, models.SeverityHigh)
		isThreat = g.rng.Float64() < 0.7
	case models.EventFailedLogin, models.EventSuspiciousActivity:
		severity = g.pick(models.SeverityLow, models.SeverityMedium)
		isThreat = g.rng.Float64() < 0.4
	default:
		severity = models.SeverityLow
		isThreat = g.rng.Float64() < 0.2
	}

	// Uniform timestamp in the trailing year; only hour and weekday survive
	// into the feature set.
	secondsBack := g.rng.Int63n(365 * 24 * 60 * 60)
	timestamp := time.Now().UTC().Add(-time.Duration(secondsBack) * time.Second)

	base := g.weights.RuleWeight(eventType)
	sev := g.weights.SeverityWeight(severity)
	score := base*0.7 + sev*0.3 + (g.rng.Float64()*0.2 - 0.1)
	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}

	return SyntheticRow{
		EventType:   eventType,
		Severity:    severity,
		ThreatScore: score,
		Hour:        timestamp.Hour(),
		DayOfWeek:   int(timestamp.Weekday()),
		IsAnomaly:   g.rng.Float64() < 0.1,
		IsThreat:    isThreat,
	}
}

func (g *Generator) pick(options ...models.Severity) models.Severity {
	return options[g.rng.Intn(len(options))]
}
