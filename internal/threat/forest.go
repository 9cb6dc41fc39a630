package threat

import (
	"fmt"
	"math"
	"math/rand"
)

// Forest is a bagged ensemble of CART trees with majority-probability voting.
// Fields are exported for gob.
type Forest struct {
	Trees       []*TreeNode
	NumFeatures int
}

// trainForest fits numTrees trees, each on a bootstrap sample of the training
// set with sqrt(features) candidate features per split.
func trainForest(x [][]float64, y []int, numTrees, maxDepth int, seed int64) *Forest {
	rng := rand.New(rand.NewSource(seed))
	numFeatures := len(x[0])
	featuresPerSplit := int(math.Ceil(math.Sqrt(float64(numFeatures))))

	forest := &Forest{
		Trees:       make([]*TreeNode, 0, numTrees),
		NumFeatures: numFeatures,
	}

	indices := make([]int, len(x))
	for t := 0; t < numTrees; t++ {
		for i := range indices {
			indices[i] = rng.Intn(len(x))
		}
		forest.Trees = append(forest.Trees, growTree(x, y, indices, 0, maxDepth, featuresPerSplit, rng))
	}

	return forest
}

// PredictProba returns the class probabilities [P(benign), P(threat)] for a
// feature vector, averaged over all trees.
func (f *Forest) PredictProba(features []float64) ([2]float64, error) {
	if len(f.Trees) == 0 {
		return [2]float64{}, fmt.Errorf("forest has no trees")
	}
	if len(features) != f.NumFeatures {
		return [2]float64{}, fmt.Errorf("expected %d features, got %d", f.NumFeatures, len(features))
	}

	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.predict(features)
	}
	p1 := sum / float64(len(f.Trees))

	return [2]float64{1 - p1, p1}, nil
}

// Predict returns 1 when the threat probability exceeds 0.5.
func (f *Forest) Predict(features []float64) (int, error) {
	probs, err := f.PredictProba(features)
	if err != nil {
		return 0, err
	}
	if probs[1] > 0.5 {
		return 1, nil
	}
	return 0, nil
}
