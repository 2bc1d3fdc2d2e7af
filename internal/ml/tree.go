package ml

import (
	"math"
	"math/rand"
)

// treeNode is a single node of a CART decision tree. Leaves carry the class-1
// fraction of the training samples that reached them.
type treeNode struct {
	FeatureIndex int       `json:"feature_index"`
	Threshold    float64   `json:"threshold"`
	Left         *treeNode `json:"left,omitempty"`
	Right        *treeNode `json:"right,omitempty"`
	Leaf         bool      `json:"leaf"`
	ClassProb    float64   `json:"class_prob"`
}

// decisionTree grows a CART tree on Gini impurity with a random feature
// subset considered at each split.
type decisionTree struct {
	Root            *treeNode `json:"root"`
	MaxDepth        int       `json:"max_depth"`
	MinSamplesSplit int       `json:"min_samples_split"`
	MinSamplesLeaf  int       `json:"min_samples_leaf"`
	FeatureSubset   int       `json:"feature_subset"`
}

func (dt *decisionTree) fit(X [][]float64, y []int, rng *rand.Rand) {
	indices := make([]int, len(X))
	for i := range indices {
		indices[i] = i
	}
	dt.Root = dt.grow(X, y, indices, 0, rng)
}

func (dt *decisionTree) grow(X [][]float64, y []int, indices []int, depth int, rng *rand.Rand) *treeNode {
	positives := 0
	for _, idx := range indices {
		positives += y[idx]
	}
	prob := float64(positives) / float64(len(indices))

	if depth >= dt.MaxDepth || len(indices) < dt.MinSamplesSplit || positives == 0 || positives == len(indices) {
		return &treeNode{Leaf: true, ClassProb: prob}
	}

	feature, threshold, ok := dt.bestSplit(X, y, indices, rng)
	if !ok {
		return &treeNode{Leaf: true, ClassProb: prob}
	}

	var left, right []int
	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	if len(left) < dt.MinSamplesLeaf || len(right) < dt.MinSamplesLeaf {
		return &treeNode{Leaf: true, ClassProb: prob}
	}

	return &treeNode{
		FeatureIndex: feature,
		Threshold:    threshold,
		Left:         dt.grow(X, y, left, depth+1, rng),
		Right:        dt.grow(X, y, right, depth+1, rng),
	}
}

// bestSplit searches a random subset of features for the split with the
// lowest weighted Gini impurity.
func (dt *decisionTree) bestSplit(X [][]float64, y []int, indices []int, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(X[indices[0]])
	subset := dt.FeatureSubset
	if subset <= 0 || subset > numFeatures {
		subset = numFeatures
	}

	candidates := rng.Perm(numFeatures)[:subset]

	bestGini := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	for _, feature := range candidates {
		values := make(map[float64]struct{})
		for _, idx := range indices {
			values[X[idx][feature]] = struct{}{}
		}
		for threshold := range values {
			gini := splitGini(X, y, indices, feature, threshold)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func splitGini(X [][]float64, y []int, indices []int, feature int, threshold float64) float64 {
	var leftTotal, leftPos, rightTotal, rightPos int
	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			leftTotal++
			leftPos += y[idx]
		} else {
			rightTotal++
			rightPos += y[idx]
		}
	}
	if leftTotal == 0 || rightTotal == 0 {
		return math.Inf(1)
	}

	total := float64(leftTotal + rightTotal)
	return float64(leftTotal)/total*gini(leftPos, leftTotal) +
		float64(rightTotal)/total*gini(rightPos, rightTotal)
}

func gini(positives, total int) float64 {
	p := float64(positives) / float64(total)
	return 2 * p * (1 - p)
}

// predictProb walks the tree for the class-1 probability of x.
func (dt *decisionTree) predictProb(x []float64) float64 {
	node := dt.Root
	for node != nil && !node.Leaf {
		if x[node.FeatureIndex] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0.5
	}
	return node.ClassProb
}
