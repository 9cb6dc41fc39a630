package threat

import (
	"testing"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGenerator_RowCount(t *testing.T) {
	gen := NewGenerator(DefaultWeights())

	assert.Len(t, gen.Generate(0), 0)
	assert.Len(t, gen.Generate(1), 1)
	assert.Len(t, gen.Generate(1000), 1000)
}

func TestGenerator_RowsDrawFromClosedEnums(t *testing.T) {
	gen := NewGeneratorWithSeed(DefaultWeights(), 7)

	for _, row := range gen.Generate(500) {
		assert.True(t, row.EventType.Valid(), "unexpected event type %q", row.EventType)
		assert.True(t, row.Severity.Valid(), "unexpected severity %q", row.Severity)
		assert.GreaterOrEqual(t, row.ThreatScore, 0.0)
		assert.LessOrEqual(t, row.ThreatScore, 1.0)
		assert.GreaterOrEqual(t, row.Hour, 0)
		assert.LessOrEqual(t, row.Hour, 23)
		assert.GreaterOrEqual(t, row.DayOfWeek, 0)
		assert.LessOrEqual(t, row.DayOfWeek, 6)
	}
}

func TestGenerator_HighDangerCategoriesAlwaysLabelledThreat(t *testing.T) {
	gen := NewGeneratorWithSeed(DefaultWeights(), 11)

	for _, row := range gen.Generate(2000) {
		switch row.EventType {
		case models.EventMalwareDetected, models.EventDataExfiltration, models.EventBruteForce:
			assert.True(t, row.IsThreat, "%s rows must always be labelled threats", row.EventType)
			assert.Contains(t, []models.Severity{models.SeverityHigh, models.SeverityCritical}, row.Severity)
		case models.EventUnauthorizedAccess, models.EventNetworkAnomaly:
			assert.Contains(t, []models.Severity{models.SeverityMedium, models.SeverityHigh}, row.Severity)
		case models.EventFailedLogin, models.EventSuspiciousActivity:
			assert.Contains(t, []models.Severity{models.SeverityLow, models.SeverityMedium}, row.Severity)
		default:
			assert.Equal(t, models.SeverityLow, row.Severity)
		}
	}
}

func TestGenerator_LabelRatesFollowBucketPolicy(t *testing.T) {
	gen := NewGeneratorWithSeed(DefaultWeights(), 13)

	counts := map[models.EventType]int{}
	threats := map[models.EventType]int{}
	for _, row := range gen.Generate(20000) {
		counts[row.EventType]++
		if row.IsThreat {
			threats[row.EventType]++
		}
	}

	rate := func(e models.EventType) float64 {
		return float64(threats[e]) / float64(counts[e])
	}

	assert.InDelta(t, 0.7, rate(models.EventUnauthorizedAccess), 0.1)
	assert.InDelta(t, 0.4, rate(models.EventFailedLogin), 0.1)
	assert.InDelta(t, 0.2, rate(models.EventLoginAttempt), 0.1)
}
