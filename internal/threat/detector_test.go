package threat

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_MissingBundleFallsBackToHeuristics(t *testing.T) {
	detector := NewDetector(DefaultWeights(), filepath.Join(t.TempDir(), "missing.gob"))

	assert.False(t, detector.Ready())

	score := detector.Score(&models.SecurityLog{
		EventType: models.EventMalwareDetected,
		Severity:  models.SeverityCritical,
		SourceIP:  "8.8.8.8",
		Timestamp: time.Now().UTC(),
	})

	// Exactly the heuristic path result.
	assert.True(t, score.IsThreat)
	assert.Equal(t, 1.0, score.ThreatScore)
	assert.Equal(t, 1.0, score.Confidence)
}

func TestDetector_CorruptBundleNeverRaises(t *testing.T) {
	bundlePath := filepath.Join(t.TempDir(), "threat_model.gob")
	require.NoError(t, os.WriteFile(bundlePath, []byte("garbage bytes, not a model"), 0o644))

	detector := NewDetector(DefaultWeights(), bundlePath)

	assert.False(t, detector.Ready())

	score := detector.Score(&models.SecurityLog{
		EventType: models.EventLoginAttempt,
		Severity:  models.SeverityLow,
		SourceIP:  "192.168.1.5",
	})

	assert.False(t, score.IsThreat)
	assert.Equal(t, 0.145, score.ThreatScore)
}

func TestDetector_TrainedBundleServesClassifierPath(t *testing.T) {
	bundlePath := filepath.Join(t.TempDir(), "threat_model.gob")
	trainer := NewTrainer(DefaultWeights(), bundlePath)
	_, err := trainer.Train(500)
	require.NoError(t, err)

	detector := NewDetector(DefaultWeights(), bundlePath)
	require.True(t, detector.Ready())

	score := detector.Score(&models.SecurityLog{
		EventType: models.EventBruteForce,
		Severity:  models.SeverityCritical,
		SourceIP:  "203.0.113.9",
		Timestamp: time.Now().UTC(),
	})

	assert.GreaterOrEqual(t, score.ThreatScore, 0.0)
	assert.LessOrEqual(t, score.ThreatScore, 1.0)
	assert.GreaterOrEqual(t, score.Confidence, 0.5)
	assert.LessOrEqual(t, score.Confidence, 1.0)
	assert.Equal(t, score.ThreatScore > ThreatThreshold, score.IsThreat)
}

func TestDetector_InferenceFailureDegradesSingleCall(t *testing.T) {
	bundlePath := filepath.Join(t.TempDir(), "threat_model.gob")
	trainer := NewTrainer(DefaultWeights(), bundlePath)
	_, err := trainer.Train(100)
	require.NoError(t, err)

	detector := NewDetector(DefaultWeights(), bundlePath)
	require.True(t, detector.Ready())

	// Sabotage the loaded forest so inference rejects every vector.
	detector.bundle.Forest.NumFeatures = 99

	score := detector.Score(&models.SecurityLog{
		EventType: models.EventLoginAttempt,
		Severity:  models.SeverityLow,
		SourceIP:  "192.168.1.5",
	})

	// Heuristic result, and the detector stays in the ready state: the
	// failure is treated as per-call degradation.
	assert.Equal(t, 0.145, score.ThreatScore)
	assert.True(t, detector.Ready())
}

func TestDetector_ThresholdInvariantOnBothPaths(t *testing.T) {
	bundlePath := filepath.Join(t.TempDir(), "threat_model.gob")
	trainer := NewTrainer(DefaultWeights(), bundlePath)
	_, err := trainer.Train(300)
	require.NoError(t, err)

	ready := NewDetector(DefaultWeights(), bundlePath)
	fallback := NewDetector(DefaultWeights(), filepath.Join(t.TempDir(), "missing.gob"))

	for _, eventType := range models.EventTypes {
		for _, severity := range models.Severities {
			entry := &models.SecurityLog{
				EventType: eventType,
				Severity:  severity,
				SourceIP:  "198.51.100.7",
				Timestamp: time.Now().UTC(),
			}

			for _, d := range []*Detector{ready, fallback} {
				score := d.Score(entry)
				assert.Equal(t, score.ThreatScore > ThreatThreshold, score.IsThreat)
				assert.GreaterOrEqual(t, score.ThreatScore, 0.0)
				assert.LessOrEqual(t, score.ThreatScore, 1.0)
			}
		}
	}
}
