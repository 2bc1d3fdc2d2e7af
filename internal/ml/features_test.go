package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureEngineerExtract(t *testing.T) {
	fe := NewFeatureEngineer()

	tests := []struct {
		name     string
		bag      map[string]float64
		expected map[string]float64
	}{
		{
			name: "empty bag defaults",
			bag:  map[string]float64{},
			expected: map[string]float64{
				"rating_diff":           0,
				"home_advantage":        0,
				"tournament_importance": 0,
				"stage_importance":      0,
				"format_importance":     1,
				"team1_form":            5, // default rating 1000 / 20 clamped to 5
				"team2_form":            5,
				"h2h_advantage":         0,
			},
		},
		{
			name: "rating gap and home side",
			bag: map[string]float64{
				"team1_rating": 1100,
				"team2_rating": 950,
				"team1_home":   1,
			},
			expected: map[string]float64{
				"rating_diff":    150,
				"home_advantage": 1,
			},
		},
		{
			name: "h2h advantage centered",
			bag: map[string]float64{
				"h2h_team1_winrate": 0.8,
			},
			expected: map[string]float64{
				"h2h_advantage": 0.3,
			},
		},
		{
			name: "importance values clamped",
			bag: map[string]float64{
				"tournament_tier":   7,
				"stage_importance":  -1,
				"format_importance": 9,
			},
			expected: map[string]float64{
				"tournament_importance": 3,
				"stage_importance":      0,
				"format_importance":     3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features := fe.Extract(tt.bag)
			for name, want := range tt.expected {
				assert.InDelta(t, want, features[name], 1e-9, "feature %s", name)
			}
		})
	}
}

func TestVectorOrder(t *testing.T) {
	features := map[string]float64{
		"rating_diff":    150,
		"home_advantage": 1,
		"h2h_advantage":  0.3,
	}

	vec := Vector(features)

	assert.Len(t, vec, len(FeatureNames))
	assert.Equal(t, 150.0, vec[0])
	assert.Equal(t, 1.0, vec[1])
	// Unknown columns fill with zero
	assert.Equal(t, 0.0, vec[2])
	assert.Equal(t, 0.3, vec[len(vec)-1])
}

func TestScalerFitTransform(t *testing.T) {
	scaler := NewScaler(2)
	data := [][]float64{
		{1, 10},
		{2, 10},
		{3, 10},
	}

	normalized := scaler.FitTransform(data)

	assert.True(t, scaler.Fitted)
	// Mean of the first column is 2
	assert.InDelta(t, 2.0, scaler.Means[0], 1e-9)
	// Second column is constant: stddev floored to 1 and values centered to 0
	assert.InDelta(t, 1.0, scaler.Stddevs[1], 1e-9)
	assert.InDelta(t, 0.0, normalized[0][1], 1e-9)
	// Symmetric column normalizes symmetrically
	assert.InDelta(t, -normalized[2][0], normalized[0][0], 1e-9)
}

func TestScalerTransformUnfitted(t *testing.T) {
	scaler := NewScaler(3)
	features := []float64{1, 2, 3}

	// Unfitted scalers pass through
	assert.Equal(t, features, scaler.Transform(features))
}
