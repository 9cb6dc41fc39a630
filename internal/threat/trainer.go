package threat

import (
	"fmt"
	"log"
	"math/rand"
	"time"
)

// MinTrainingSamples is the smallest sample count that still yields a
// meaningful train/test split.
const MinTrainingSamples = 50

const (
	numTrees  = 100
	maxDepth  = 10
	splitSeed = 42
)

// Metrics are the holdout evaluation results of a training run.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Samples   int     `json:"samples"`
}

// Trainer fits the threat classifier on synthetic data and persists the
// resulting artifact bundle.
type Trainer struct {
	weights    Weights
	generator  *Generator
	bundlePath string
}

func NewTrainer(w Weights, bundlePath string) *Trainer {
	return &Trainer{
		weights:    w,
		generator:  NewGenerator(w),
		bundlePath: bundlePath,
	}
}

// Train generates numSamples synthetic rows, fits the encoders, scaler and
// forest, evaluates on a 20% holdout and saves the bundle. Errors are always
// surfaced: a silently-bad model would corrupt all subsequent serving.
func (t *Trainer) Train(numSamples int) (*Metrics, error) {
	if numSamples < MinTrainingSamples {
		return nil, fmt.Errorf("need at least %d samples to train, got %d", MinTrainingSamples, numSamples)
	}

	log.Printf("Generating %d synthetic training samples...", numSamples)
	rows := t.generator.Generate(numSamples)

	// Fit categorical encoders over the full generated set.
	eventValues := make([]string, len(rows))
	severityValues := make([]string, len(rows))
	for i, row := range rows {
		eventValues[i] = string(row.EventType)
		severityValues[i] = string(row.Severity)
	}
	encoders := map[string]*LabelEncoder{
		"event_type": {},
		"severity":   {},
	}
	encoders["event_type"].Fit(eventValues)
	encoders["severity"].Fit(severityValues)

	x := make([][]float64, len(rows))
	y := make([]int, len(rows))
	numeric := make([][]float64, len(rows))
	for i, row := range rows {
		eventCode, _ := encoders["event_type"].Transform(string(row.EventType))
		severityCode, _ := encoders["severity"].Transform(string(row.Severity))
		anomaly := 0.0
		if row.IsAnomaly {
			anomaly = 1.0
		}
		x[i] = []float64{
			float64(eventCode),
			float64(severityCode),
			row.ThreatScore,
			float64(row.Hour),
			float64(row.DayOfWeek),
			anomaly,
		}
		numeric[i] = []float64{row.ThreatScore, float64(row.Hour), float64(row.DayOfWeek)}
		if row.IsThreat {
			y[i] = 1
		}
	}

	scaler := &StandardScaler{}
	scaler.Fit(numeric)
	for i := range x {
		scaled := []float64{x[i][2], x[i][3], x[i][4]}
		scaler.Transform(scaled)
		x[i][2], x[i][3], x[i][4] = scaled[0], scaled[1], scaled[2]
	}

	// 80/20 split with a fixed seed so evaluation is reproducible.
	rng := rand.New(rand.NewSource(splitSeed))
	perm := rng.Perm(len(x))
	testSize := len(x) / 5
	trainX := make([][]float64, 0, len(x)-testSize)
	trainY := make([]int, 0, len(x)-testSize)
	testX := make([][]float64, 0, testSize)
	testY := make([]int, 0, testSize)
	for i, idx := range perm {
		if i < testSize {
			testX = append(testX, x[idx])
			testY = append(testY, y[idx])
		} else {
			trainX = append(trainX, x[idx])
			trainY = append(trainY, y[idx])
		}
	}

	log.Printf("Training random forest (%d trees, depth %d) on %d samples...", numTrees, maxDepth, len(trainX))
	forest := trainForest(trainX, trainY, numTrees, maxDepth, splitSeed)

	metrics, err := evaluate(forest, testX, testY)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	metrics.Samples = numSamples

	log.Printf("Model performance: accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f",
		metrics.Accuracy, metrics.Precision, metrics.Recall, metrics.F1)

	bundle := &Bundle{
		Version:   bundleVersion,
		TrainedAt: time.Now().UTC(),
		Columns:   FeatureColumns,
		Encoders:  encoders,
		Scaler:    scaler,
		Forest:    forest,
	}
	if err := SaveBundle(t.bundlePath, bundle); err != nil {
		return nil, err
	}
	log.Printf("Model bundle saved to %s", t.bundlePath)

	return metrics, nil
}

// evaluate computes accuracy, precision, recall and F1 on the holdout set.
func evaluate(forest *Forest, x [][]float64, y []int) (*Metrics, error) {
	var tp, fp, tn, fn int
	for i := range x {
		pred, err := forest.Predict(x[i])
		if err != nil {
			return nil, err
		}
		switch {
		case pred == 1 && y[i] == 1:
			tp++
		case pred == 1 && y[i] == 0:
			fp++
		case pred == 0 && y[i] == 0:
			tn++
		default:
			fn++
		}
	}

	total := tp + fp + tn + fn
	m := &Metrics{}
	if total > 0 {
		m.Accuracy = float64(tp+tn) / float64(total)
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m, nil
}
