package threat

import (
	"log"

	"github.com/marcusashmond/Cloud-Security-Dashboard/internal/models"
)

// detectorState makes the degradation contract explicit: a detector is either
// serving classifier predictions or running on the heuristic fallback. The
// only transition is fallback -> ready on a successful bundle load.
type detectorState int

const (
	stateFallback detectorState = iota
	stateReady
)

func (s detectorState) String() string {
	if s == stateReady {
		return "ready"
	}
	return "fallback"
}

// Detector scores security events. It prefers the trained classifier and
// degrades to the deterministic heuristic when no usable bundle is loaded or
// when a single inference fails. Score never returns an error and never
// panics: a scoring failure must not be visible to the end user.
type Detector struct {
	state     detectorState
	bundle    *Bundle
	heuristic *HeuristicScorer
}

// NewDetector builds a detector, attempting to load the persisted bundle at
// path. Any load or decode error leaves the detector in the fallback state;
// construction itself never fails.
func NewDetector(w Weights, bundlePath string) *Detector {
	d := &Detector{
		state:     stateFallback,
		heuristic: NewHeuristicScorer(w),
	}

	bundle, err := LoadBundle(bundlePath)
	if err != nil {
		log.Printf("Threat model not loaded, using heuristic scoring: %v", err)
		return d
	}

	d.bundle = bundle
	d.state = stateReady
	log.Printf("Threat model loaded (trained %s)", bundle.TrainedAt.Format("2006-01-02 15:04:05"))
	return d
}

// Ready reports whether the classifier path is active.
func (d *Detector) Ready() bool {
	return d.state == stateReady
}

// Score produces the (is_threat, confidence, threat_score) triple for an
// event. An inference failure degrades this call to the heuristic without
// changing the detector state.
func (d *Detector) Score(entry *models.SecurityLog) Score {
	if d.state == stateReady {
		features := extractFeatures(entry, d.bundle.Encoders)
		probs, err := d.bundle.Forest.PredictProba(features)
		if err != nil {
			log.Printf("Classifier inference failed, falling back to heuristics: %v", err)
		} else {
			threatScore := probs[1]
			confidence := probs[0]
			if probs[1] > probs[0] {
				confidence = probs[1]
			}
			return Score{
				IsThreat:    threatScore > ThreatThreshold,
				Confidence:  round3(confidence),
				ThreatScore: round3(threatScore),
			}
		}
	}

	return d.heuristic.Score(entry.EventType, entry.Severity, entry.SourceIP)
}
