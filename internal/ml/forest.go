package ml

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	forestTrees           = 100
	forestMaxDepth        = 10
	forestMinSamplesSplit = 5
	forestMinSamplesLeaf  = 2
)

// RandomForest averages the leaf class fractions of bootstrap-trained CART
// trees, each considering √d candidate features per split.
type RandomForest struct {
	Trees   []*decisionTree `json:"trees"`
	Trained bool            `json:"trained"`
	Seed    int64           `json:"seed"`
}

// NewRandomForest creates an untrained random forest.
func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{Seed: seed}
}

// Type returns the catalog model type.
func (rf *RandomForest) Type() string {
	return "random_forest"
}

// Fit trains the forest on a feature matrix and binary labels.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("%w: %d samples, %d labels", ErrInvalidTrainingData, len(X), len(y))
	}

	rng := rand.New(rand.NewSource(rf.Seed))
	numFeatures := len(X[0])
	subset := int(math.Ceil(math.Sqrt(float64(numFeatures))))

	rf.Trees = make([]*decisionTree, forestTrees)
	for t := 0; t < forestTrees; t++ {
		// Bootstrap sample with replacement
		bootX := make([][]float64, len(X))
		bootY := make([]int, len(y))
		for i := range bootX {
			idx := rng.Intn(len(X))
			bootX[i] = X[idx]
			bootY[i] = y[idx]
		}

		tree := &decisionTree{
			MaxDepth:        forestMaxDepth,
			MinSamplesSplit: forestMinSamplesSplit,
			MinSamplesLeaf:  forestMinSamplesLeaf,
			FeatureSubset:   subset,
		}
		tree.fit(bootX, bootY, rng)
		rf.Trees[t] = tree
	}

	rf.Trained = true
	return nil
}

// PredictProba returns the class-probability vector [P(team2), P(team1)]
// as the mean of per-tree leaf class fractions.
func (rf *RandomForest) PredictProba(x []float64) []float64 {
	if len(rf.Trees) == 0 {
		return []float64{0.5, 0.5}
	}

	sum := 0.0
	for _, tree := range rf.Trees {
		sum += tree.predictProb(x)
	}
	p := sum / float64(len(rf.Trees))
	return []float64{1 - p, p}
}
