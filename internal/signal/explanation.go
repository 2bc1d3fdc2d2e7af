package signal

import (
	"fmt"
	"strings"

	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/models"
)

// Feature thresholds that earn a line in the explanation
const (
	ratingDiffThreshold = 50.0
	formDiffThreshold   = 0.2
	h2hDeviationMin     = 0.1
)

// BuildExplanation writes the human-readable reasoning for a signal from
// the feature vector the prediction was made on.
func BuildExplanation(match *models.Match, prediction *ml.PredictionResult, features map[string]float64) string {
	favored, other := match.Team1, match.Team2
	sign := 1.0
	if prediction.Label == models.OutcomeTeam2 {
		favored, other = match.Team2, match.Team1
		sign = -1.0
	}

	var reasons []string

	if diff := sign * features["rating_diff"]; diff > ratingDiffThreshold {
		reasons = append(reasons, fmt.Sprintf("%s holds a %.0f-point rating edge", favored, diff))
	}
	if formDiff := sign * (features["team1_form"] - features["team2_form"]); formDiff > formDiffThreshold {
		reasons = append(reasons, fmt.Sprintf("%s is in better recent form", favored))
	}
	if h2h := sign * features["h2h_advantage"]; h2h > h2hDeviationMin {
		reasons = append(reasons, fmt.Sprintf("%s dominates the head-to-head record", favored))
	}
	if sign > 0 && features["home_advantage"] > 0 {
		reasons = append(reasons, fmt.Sprintf("%s plays at home", favored))
	}
	if features["tournament_importance"] >= 2 {
		reasons = append(reasons, "high-stakes tournament raises favourite reliability")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("model ensemble favours %s over %s", favored, other))
	}

	return fmt.Sprintf("Prediction: %s to win (%.0f%% confidence). %s.",
		favored, prediction.Confidence*100, strings.Join(reasons, "; "))
}
