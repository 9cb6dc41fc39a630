package threat

import (
	"testing"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedEncoders() map[string]*LabelEncoder {
	eventEnc := &LabelEncoder{}
	values := make([]string, len(models.EventTypes))
	for i, e := range models.EventTypes {
		values[i] = string(e)
	}
	eventEnc.Fit(values)

	severityEnc := &LabelEncoder{}
	severityEnc.Fit([]string{"low", "medium", "high", "critical"})

	return map[string]*LabelEncoder{
		"event_type": eventEnc,
		"severity":   severityEnc,
	}
}

func TestExtractFeatures_OrderAndValues(t *testing.T) {
	encoders := fittedEncoders()

	// Tuesday 14:00
	ts := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	entry := &models.SecurityLog{
		EventType:   models.EventBruteForce,
		Severity:    models.SeverityHigh,
		ThreatScore: 0.8,
		Timestamp:   ts,
		IsAnomaly:   true,
	}

	features := extractFeatures(entry, encoders)
	require.Len(t, features, len(FeatureColumns))

	eventCode, ok := encoders["event_type"].Transform("brute_force")
	require.True(t, ok)
	severityCode, ok := encoders["severity"].Transform("high")
	require.True(t, ok)

	assert.Equal(t, float64(eventCode), features[0])
	assert.Equal(t, float64(severityCode), features[1])
	assert.Equal(t, 0.8, features[2])
	assert.Equal(t, 14.0/24.0, features[3])
	assert.Equal(t, float64(int(ts.Weekday()))/7.0, features[4])
	assert.Equal(t, 1.0, features[5])
}

func TestExtractFeatures_UnseenCategoryEncodesAsZero(t *testing.T) {
	encoders := fittedEncoders()

	entry := &models.SecurityLog{
		EventType: models.EventType("brand_new_threat"),
		Severity:  models.Severity("apocalyptic"),
		Timestamp: time.Now(),
	}

	features := extractFeatures(entry, encoders)

	assert.Equal(t, 0.0, features[0])
	assert.Equal(t, 0.0, features[1])
}

func TestExtractFeatures_MissingFieldsDefault(t *testing.T) {
	entry := &models.SecurityLog{
		EventType: models.EventLoginAttempt,
		Severity:  models.SeverityLow,
	}

	// No encoders fitted at all and a zero timestamp: extraction must still
	// produce a full vector of defaults.
	features := extractFeatures(entry, map[string]*LabelEncoder{})

	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, features)
}

func TestLabelEncoder_SortedStableCodes(t *testing.T) {
	enc := &LabelEncoder{}
	enc.Fit([]string{"medium", "low", "high", "low", "medium"})

	assert.Equal(t, []string{"high", "low", "medium"}, enc.Classes)

	code, ok := enc.Transform("low")
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	_, ok = enc.Transform("critical")
	assert.False(t, ok)
}

func TestStandardScaler_FitTransform(t *testing.T) {
	scaler := &StandardScaler{}
	scaler.Fit([][]float64{{0, 10}, {2, 10}, {4, 10}})

	assert.InDelta(t, 2.0, scaler.Means[0], 1e-9)

	row := []float64{2, 10}
	scaler.Transform(row)

	assert.InDelta(t, 0.0, row[0], 1e-9)
	// Constant column: std is forced to 1 to avoid division by zero.
	assert.InDelta(t, 0.0, row[1], 1e-9)
}
