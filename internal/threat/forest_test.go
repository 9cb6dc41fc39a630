package threat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForest_LearnsSeparableData(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// Two clusters: positives around (1,1), negatives around (0,0).
	var x [][]float64
	var y []int
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			x = append(x, []float64{1 + rng.Float64()*0.2, 1 + rng.Float64()*0.2})
			y = append(y, 1)
		} else {
			x = append(x, []float64{rng.Float64() * 0.2, rng.Float64() * 0.2})
			y = append(y, 0)
		}
	}

	forest := trainForest(x, y, 20, 5, 42)

	pred, err := forest.Predict([]float64{1.05, 1.1})
	require.NoError(t, err)
	assert.Equal(t, 1, pred)

	pred, err = forest.Predict([]float64{0.05, 0.1})
	require.NoError(t, err)
	assert.Equal(t, 0, pred)
}

func TestForest_ProbabilitiesSumToOne(t *testing.T) {
	x := [][]float64{{0, 0}, {1, 1}, {0, 1}, {1, 0}}
	y := []int{0, 1, 0, 1}

	forest := trainForest(x, y, 10, 3, 42)

	probs, err := forest.PredictProba([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
}

func TestForest_RejectsWrongFeatureCount(t *testing.T) {
	x := [][]float64{{0, 0}, {1, 1}, {0.1, 0.1}, {0.9, 0.9}}
	y := []int{0, 1, 0, 1}

	forest := trainForest(x, y, 5, 3, 42)

	_, err := forest.PredictProba([]float64{0.5})
	assert.Error(t, err)

	_, err = (&Forest{}).PredictProba([]float64{0.5, 0.5})
	assert.Error(t, err)
}
