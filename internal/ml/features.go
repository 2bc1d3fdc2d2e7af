// Package ml provides in-process model training and prediction for match outcomes.
package ml

import "math"

// FeatureNames is the canonical column order for every persisted model.
// Prediction inputs are re-ordered by this list; missing keys are filled with 0.
var FeatureNames = []string{
	"rating_diff",
	"home_advantage",
	"tournament_importance",
	"stage_importance",
	"format_importance",
	"team1_form",
	"team2_form",
	"h2h_advantage",
}

const defaultRating = 1000.0

// FeatureEngineer derives the fixed-order numeric feature vector from a
// match's free-form feature bag.
type FeatureEngineer struct{}

// NewFeatureEngineer creates a new feature engineer.
func NewFeatureEngineer() *FeatureEngineer {
	return &FeatureEngineer{}
}

// Extract builds the feature vector from a raw feature bag. Ratings default
// to 1000 so rating_diff defaults to 0 when both are absent.
func (fe *FeatureEngineer) Extract(bag map[string]float64) map[string]float64 {
	rating1 := bagValue(bag, "team1_rating", defaultRating)
	rating2 := bagValue(bag, "team2_rating", defaultRating)

	features := map[string]float64{
		"rating_diff":           rating1 - rating2,
		"home_advantage":        bagValue(bag, "team1_home", 0),
		"tournament_importance": clamp(bagValue(bag, "tournament_tier", 0), 0, 3),
		"stage_importance":      clamp(bagValue(bag, "stage_importance", 0), 0, 3),
		"format_importance":     clamp(bagValue(bag, "format_importance", 1), 1, 3),
		"team1_form":            clamp(rating1/20, 1, 5),
		"team2_form":            clamp(rating2/20, 1, 5),
		"h2h_advantage":         bagValue(bag, "h2h_team1_winrate", 0.5) - 0.5,
	}

	return features
}

// Vector re-orders a feature map into the canonical column order.
func Vector(features map[string]float64) []float64 {
	vec := make([]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		vec[i] = features[name]
	}
	return vec
}

func bagValue(bag map[string]float64, key string, fallback float64) float64 {
	if v, ok := bag[key]; ok && !math.IsNaN(v) {
		return v
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
