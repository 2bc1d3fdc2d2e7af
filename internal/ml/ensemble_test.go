package ml

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/models"
)

// stubClassifier returns a fixed probability vector.
type stubClassifier struct {
	probs []float64
}

func (s *stubClassifier) Fit(X [][]float64, y []int) error { return nil }
func (s *stubClassifier) PredictProba(x []float64) []float64 {
	return s.probs
}
func (s *stubClassifier) Type() string { return "stub" }

func TestEnsemblePredictAveragesProbabilities(t *testing.T) {
	scaler := NewScaler(len(FeatureNames))
	ensemble := NewEnsemble("cs2", "v1", scaler,
		&stubClassifier{probs: []float64{0.4, 0.6}},
		&stubClassifier{probs: []float64{0.2, 0.8}},
	)

	result, err := ensemble.Predict(map[string]float64{"rating_diff": 100})
	require.NoError(t, err)

	// Mean of the two class vectors
	assert.InDelta(t, 0.7, result.Probabilities[models.OutcomeTeam1], 1e-9)
	assert.InDelta(t, 0.3, result.Probabilities[models.OutcomeTeam2], 1e-9)

	// Label is argmax of the averaged vector, confidence its maximum
	assert.Equal(t, models.OutcomeTeam1, result.Label)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.InDelta(t, 0.49, result.ValueScore, 1e-9)
	assert.Equal(t, "v1", result.ModelVersion)
	assert.Equal(t, 2, result.ModelsUsed)
	assert.False(t, result.Fallback)
}

func TestEnsemblePredictArgmaxNotMajorityVote(t *testing.T) {
	// Two models vote team2 by a hair, one votes team1 strongly: the
	// averaged vector favours team1 even though team2 wins a majority vote.
	scaler := NewScaler(len(FeatureNames))
	ensemble := NewEnsemble("cs2", "v1", scaler,
		&stubClassifier{probs: []float64{0.52, 0.48}},
		&stubClassifier{probs: []float64{0.52, 0.48}},
		&stubClassifier{probs: []float64{0.05, 0.95}},
	)

	result, err := ensemble.Predict(map[string]float64{})
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeTeam1, result.Label)
}

func TestEnsemblePredictNoModels(t *testing.T) {
	ensemble := &Ensemble{Sport: "cs2", Scaler: NewScaler(len(FeatureNames))}

	_, err := ensemble.Predict(map[string]float64{})
	assert.ErrorIs(t, err, ErrModelNotTrained)
}

func TestFallbackPredict(t *testing.T) {
	tests := []struct {
		name          string
		ratingDiff    float64
		expectedLabel string
	}{
		{
			name:          "positive gap favours team1",
			ratingDiff:    200,
			expectedLabel: models.OutcomeTeam1,
		},
		{
			name:          "negative gap favours team2",
			ratingDiff:    -200,
			expectedLabel: models.OutcomeTeam2,
		},
		{
			name:          "even ratings lean team1",
			ratingDiff:    0,
			expectedLabel: models.OutcomeTeam1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FallbackPredict(map[string]float64{"rating_diff": tt.ratingDiff})

			assert.Equal(t, tt.expectedLabel, result.Label)
			assert.True(t, result.Fallback)
			assert.Equal(t, "fallback", result.ModelVersion)

			p1 := result.Probabilities[models.OutcomeTeam1]
			p2 := result.Probabilities[models.OutcomeTeam2]
			assert.InDelta(t, 1.0, p1+p2, 1e-9)
			assert.GreaterOrEqual(t, result.Confidence, 0.5)
		})
	}

	// ELO expectation for a 400-point gap is about 0.909
	result := FallbackPredict(map[string]float64{"rating_diff": 400})
	assert.InDelta(t, 0.909, result.Probabilities[models.OutcomeTeam1], 0.001)
}

func TestManagerPredictFallsBackWithoutModel(t *testing.T) {
	manager := NewManager(t.TempDir(), nil)

	result, err := manager.Predict(context.Background(), "khl", uuid.New(), map[string]float64{"rating_diff": 100})
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Equal(t, "fallback", manager.Version("khl"))
}

func TestCachedPredictorCachesByVersion(t *testing.T) {
	manager := NewManager(t.TempDir(), nil)
	manager.Set("cs2", NewEnsemble("cs2", "v1", NewScaler(len(FeatureNames)),
		&stubClassifier{probs: []float64{0.3, 0.7}},
	))

	cached := NewCachedPredictor(manager, time.Minute, 100)
	matchID := uuid.New()
	features := map[string]float64{"rating_diff": 50}

	first, err := cached.Predict(context.Background(), "cs2", matchID, features)
	require.NoError(t, err)

	second, err := cached.Predict(context.Background(), "cs2", matchID, features)
	require.NoError(t, err)
	assert.Same(t, first, second)

	hits, misses, _ := cached.CacheStats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	// Invalidation forces a fresh prediction
	cached.InvalidateSport(context.Background(), "cs2")
	third, err := cached.Predict(context.Background(), "cs2", matchID, features)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}
