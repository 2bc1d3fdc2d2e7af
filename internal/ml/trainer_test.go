package ml

import (
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/models"
)

func TestSyntheticDatasetDeterministic(t *testing.T) {
	x1, y1 := SyntheticDataset(50, 42)
	x2, y2 := SyntheticDataset(50, 42)

	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
	assert.Len(t, x1, 50)
	assert.Len(t, x1[0], len(FeatureNames))

	// Both classes must be present under the default seed
	positives := 0
	for _, label := range y1 {
		positives += label
	}
	assert.Greater(t, positives, 0)
	assert.Less(t, positives, len(y1))
}

func TestSyntheticDatasetDistribution(t *testing.T) {
	X, y := SyntheticDataset(2000, 7)

	var sum, sumSq float64
	for _, row := range X {
		sum += row[0]
		sumSq += row[0] * row[0]
	}
	n := float64(len(X))
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)

	// Rating gap is drawn from N(0, 20)
	assert.InDelta(t, 0, mean, 2.0)
	assert.InDelta(t, 20, std, 2.0)

	// The 0.3-weighted rating gap dwarfs the unit noise, so labels track
	// its sign most of the time
	agree := 0
	for i, row := range X {
		if (row[0] > 0) == (y[i] == 1) {
			agree++
		}
	}
	assert.Greater(t, float64(agree)/n, 0.8)
}

func TestStratifiedSplitPreservesBalance(t *testing.T) {
	y := make([]int, 100)
	for i := 60; i < 100; i++ {
		y[i] = 1
	}

	train, test := stratifiedSplit(y, 0.2, 42)

	assert.Len(t, test, 20)
	assert.Len(t, train, 80)

	testPos := 0
	for _, idx := range test {
		testPos += y[idx]
	}
	// 40% positives in the corpus: the 20-sample test set carries 8
	assert.Equal(t, 8, testPos)
}

func TestRocAUCPerfectClassifier(t *testing.T) {
	// A classifier scoring by the first feature separates this set perfectly
	X := [][]float64{{0.1}, {0.2}, {0.8}, {0.9}}
	y := []int{0, 0, 1, 1}

	model := &scoreByFirstFeature{}
	assert.InDelta(t, 1.0, rocAUC(model, X, y), 1e-9)

	// Inverted labels give zero
	assert.InDelta(t, 0.0, rocAUC(model, X, []int{1, 1, 0, 0}), 1e-9)
}

type scoreByFirstFeature struct{}

func (s *scoreByFirstFeature) Fit(X [][]float64, y []int) error { return nil }
func (s *scoreByFirstFeature) PredictProba(x []float64) []float64 {
	return []float64{1 - x[0], x[0]}
}
func (s *scoreByFirstFeature) Type() string { return "score" }

func TestTrainerTrainsOnSyntheticData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping forest training in short mode")
	}

	X, y := SyntheticDataset(300, 42)

	trainer := NewTrainer(TrainerConfig{
		TestSplit:  0.2,
		CVFolds:    5,
		MinSamples: 100,
		Seed:       42,
	}, nil)

	jobsBefore := map[string]float64{
		models.ModelTypeLogistic: testutil.ToFloat64(ModelTrainingJobsTotal.WithLabelValues(models.ModelTypeLogistic, "success")),
		models.ModelTypeForest:   testutil.ToFloat64(ModelTrainingJobsTotal.WithLabelValues(models.ModelTypeForest, "success")),
	}

	ensemble, report, err := trainer.Train(models.SportCS2, X, y, true)
	require.NoError(t, err)
	require.NotNil(t, ensemble)
	require.NotNil(t, report)

	assert.Len(t, ensemble.Models, 2)
	assert.True(t, ensemble.Scaler.Fitted)
	assert.NotEmpty(t, ensemble.Version)

	// The synthetic labels are driven by the features, so both models
	// should comfortably beat coin-flipping on the holdout.
	for _, modelType := range []string{models.ModelTypeLogistic, models.ModelTypeForest} {
		assert.Greater(t, report.HoldoutAccuracy[modelType], 0.55, "%s holdout accuracy", modelType)
		assert.Greater(t, report.HoldoutAUC[modelType], 0.55, "%s holdout AUC", modelType)
	}
	assert.True(t, report.Synthetic)
	assert.Equal(t, 300, report.Samples)

	for _, modelType := range []string{models.ModelTypeLogistic, models.ModelTypeForest} {
		after := testutil.ToFloat64(ModelTrainingJobsTotal.WithLabelValues(modelType, "success"))
		assert.Equal(t, jobsBefore[modelType]+1, after, "%s training job counter", modelType)
	}
}

func TestTrainerRejectsSmallDataset(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{MinSamples: 100, Seed: 42}, nil)

	X, y := SyntheticDataset(10, 42)
	_, _, err := trainer.Train(models.SportCS2, X, y, true)
	assert.ErrorIs(t, err, ErrInsufficientSamples)
}

func TestLogisticRegressionSeparableData(t *testing.T) {
	// Linearly separable toy problem
	var X [][]float64
	var y []int
	for i := 0; i < 40; i++ {
		v := float64(i%10) / 10
		X = append(X, []float64{v + 1, 0})
		y = append(y, 1)
		X = append(X, []float64{-v - 1, 0})
		y = append(y, 0)
	}

	lr := NewLogisticRegression(42)
	require.NoError(t, lr.Fit(X, y))
	assert.True(t, lr.Trained)

	probs := lr.PredictProba([]float64{2, 0})
	assert.Greater(t, probs[1], 0.9)

	probs = lr.PredictProba([]float64{-2, 0})
	assert.Less(t, probs[1], 0.1)
}

func TestLogisticRegressionSingleClass(t *testing.T) {
	lr := NewLogisticRegression(42)
	err := lr.Fit([][]float64{{1}, {2}}, []int{1, 1})
	assert.ErrorIs(t, err, ErrInvalidTrainingData)
}

func TestRandomForestSeparableData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping forest training in short mode")
	}

	var X [][]float64
	var y []int
	for i := 0; i < 60; i++ {
		v := float64(i) / 10
		X = append(X, []float64{v + 5, 1})
		y = append(y, 1)
		X = append(X, []float64{-v - 5, 1})
		y = append(y, 0)
	}

	rf := NewRandomForest(42)
	require.NoError(t, rf.Fit(X, y))
	assert.True(t, rf.Trained)
	assert.Len(t, rf.Trees, forestTrees)

	probs := rf.PredictProba([]float64{8, 1})
	assert.Greater(t, probs[1], 0.8)
}

func TestSaveLoadEnsembleRoundTrip(t *testing.T) {
	dir := t.TempDir()

	scaler := NewScaler(len(FeatureNames))
	data := make([][]float64, 20)
	for i := range data {
		row := make([]float64, len(FeatureNames))
		row[0] = float64(i)
		data[i] = row
	}
	scaler.Fit(data)

	lr := NewLogisticRegression(42)
	lr.Weights = make([]float64, len(FeatureNames))
	lr.Weights[0] = 1.5
	lr.Trained = true

	rf := NewRandomForest(42)
	rf.Trees = []*decisionTree{{Root: &treeNode{Leaf: true, ClassProb: 0.7}}}
	rf.Trained = true

	original := NewEnsemble(models.SportCS2, "20260101000000", scaler, lr, rf)
	trainedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, SaveEnsemble(dir, original, trainedAt))

	loaded, err := LoadEnsemble(dir, models.SportCS2)
	require.NoError(t, err)

	assert.Equal(t, original.Version, loaded.Version)
	assert.Equal(t, original.Features, loaded.Features)
	assert.InDelta(t, scaler.Means[0], loaded.Scaler.Means[0], 1e-9)

	// Loaded ensemble predicts without error
	result, err := loaded.Predict(map[string]float64{"rating_diff": 10})
	require.NoError(t, err)
	assert.Contains(t, []string{models.OutcomeTeam1, models.OutcomeTeam2}, result.Label)
}

func TestLoadEnsembleMissing(t *testing.T) {
	_, err := LoadEnsemble(t.TempDir(), models.SportKHL)
	assert.ErrorIs(t, err, ErrModelNotFound)
}
