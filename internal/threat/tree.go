package threat

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a binary classification tree. Fields are exported
// for gob; internal nodes carry a split, leaves carry the positive-class
// fraction of the training samples that reached them.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	IsLeaf    bool
	Prob      float64
}

const minSamplesSplit = 4

// growTree builds a CART tree on the given sample indices, choosing gini-optimal
// splits over a random subset of features at each node.
func growTree(x [][]float64, y []int, indices []int, depth, maxDepth, featuresPerSplit int, rng *rand.Rand) *TreeNode {
	positives := 0
	for _, i := range indices {
		positives += y[i]
	}

	prob := 0.0
	if len(indices) > 0 {
		prob = float64(positives) / float64(len(indices))
	}

	// Stop on purity, depth limit or too few samples.
	if depth >= maxDepth || len(indices) < minSamplesSplit || positives == 0 || positives == len(indices) {
		return &TreeNode{IsLeaf: true, Prob: prob}
	}

	feature, threshold, ok := bestSplit(x, y, indices, featuresPerSplit, rng)
	if !ok {
		return &TreeNode{IsLeaf: true, Prob: prob}
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{IsLeaf: true, Prob: prob}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(x, y, left, depth+1, maxDepth, featuresPerSplit, rng),
		Right:     growTree(x, y, right, depth+1, maxDepth, featuresPerSplit, rng),
	}
}

// bestSplit scans a random feature subset for the gini-optimal threshold.
func bestSplit(x [][]float64, y []int, indices []int, featuresPerSplit int, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(x[0])
	candidates := rng.Perm(numFeatures)
	if featuresPerSplit < numFeatures {
		candidates = candidates[:featuresPerSplit]
	}

	bestGini := 2.0
	bestFeature := -1
	bestThreshold := 0.0

	values := make([]float64, len(indices))
	for _, feature := range candidates {
		for i, idx := range indices {
			values[i] = x[idx][feature]
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			threshold := (values[i] + values[i-1]) / 2

			gini := splitGini(x, y, indices, feature, threshold)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// splitGini computes the weighted gini impurity of partitioning indices on
// feature <= threshold.
func splitGini(x [][]float64, y []int, indices []int, feature int, threshold float64) float64 {
	var leftN, leftPos, rightN, rightPos int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			leftN++
			leftPos += y[i]
		} else {
			rightN++
			rightPos += y[i]
		}
	}

	total := float64(leftN + rightN)
	return float64(leftN)/total*gini(leftPos, leftN) + float64(rightN)/total*gini(rightPos, rightN)
}

func gini(positives, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(positives) / float64(n)
	return 2 * p * (1 - p)
}

// predict walks the tree and returns the leaf positive-class probability.
func (t *TreeNode) predict(features []float64) float64 {
	node := t
	for !node.IsLeaf {
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob
}
