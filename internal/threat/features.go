package threat

import (
	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// FeatureColumns fixes the feature vector layout. Training and inference both
// derive their ordering from this single constant; if they ever disagree the
// classifier's output is meaningless.
var FeatureColumns = []string{
	"event_type",
	"severity",
	"threat_score",
	"hour",
	"day_of_week",
	"is_anomaly",
}

// Columns that get the standard scaler applied at training time.
var scaledColumns = []string{"threat_score", "hour", "day_of_week"}

// extractFeatures converts an event record into the fixed-order numeric vector
// consumed by the classifier. It never fails: unseen categories encode as 0
// and a zero timestamp defaults the time features to 0.
func extractFeatures(entry *models.SecurityLog, encoders map[string]*LabelEncoder) []float64 {
	features := make([]float64, 0, len(FeatureColumns))

	eventCode := 0
	if enc, ok := encoders["event_type"]; ok {
		if code, known := enc.Transform(string(entry.EventType)); known {
			eventCode = code
		}
	}
	features = append(features, float64(eventCode))

	severityCode := 0
	if enc, ok := encoders["severity"]; ok {
		if code, known := enc.Transform(string(entry.Severity)); known {
			severityCode = code
		}
	}
	features = append(features, float64(severityCode))

	features = append(features, entry.ThreatScore)

	hour := 0
	dayOfWeek := 0
	if !entry.Timestamp.IsZero() {
		hour = entry.Timestamp.Hour()
		dayOfWeek = int(entry.Timestamp.Weekday())
	}
	features = append(features, float64(hour)/24.0)
	features = append(features, float64(dayOfWeek)/7.0)

	if entry.IsAnomaly {
		features = append(features, 1.0)
	} else {
		features = append(features, 0.0)
	}

	return features
}
