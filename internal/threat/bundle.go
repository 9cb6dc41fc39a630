package threat

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// bundleVersion guards against loading artifacts written by an incompatible
// build.
const bundleVersion = 1

// Bundle is the trained artifact set: the classifier plus the encoders and
// scaler it was fitted with. The three pieces are versioned and persisted
// together as a single blob so a partial write can never produce a bundle
// whose feature encoding disagrees with its model.
type Bundle struct {
	Version   int
	TrainedAt time.Time
	Columns   []string
	Encoders  map[string]*LabelEncoder
	Scaler    *StandardScaler
	Forest    *Forest
}

// SaveBundle writes the bundle to path atomically: the blob is written to a
// temp file in the same directory and renamed over the target, so a failed
// save leaves any previous good bundle untouched.
func SaveBundle(path string, b *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bundle-*")
	if err != nil {
		return fmt.Errorf("failed to create temp bundle: %w", err)
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(b); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to install bundle: %w", err)
	}

	return nil
}

// LoadBundle reads and validates a persisted bundle.
func LoadBundle(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}

	if b.Version != bundleVersion {
		return nil, fmt.Errorf("bundle version %d is not supported", b.Version)
	}
	if b.Forest == nil || b.Scaler == nil || len(b.Encoders) == 0 {
		return nil, fmt.Errorf("bundle is incomplete")
	}
	if len(b.Columns) != len(FeatureColumns) {
		return nil, fmt.Errorf("bundle has %d feature columns, expected %d", len(b.Columns), len(FeatureColumns))
	}
	for i, col := range b.Columns {
		if col != FeatureColumns[i] {
			return nil, fmt.Errorf("bundle feature order mismatch at column %d: %s", i, col)
		}
	}

	return &b, nil
}
