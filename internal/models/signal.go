package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Signal outcomes
const (
	OutcomeTeam1 = "team1"
	OutcomeTeam2 = "team2"
)

// Settlement results
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultPush = "push"
)

// Confidence buckets
const (
	BucketHigh   = "high"
	BucketMedium = "medium"
	BucketLow    = "low"
)

// Signal represents a betting signal produced by the analysis pipeline
type Signal struct {
	ID           uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	MatchID      uuid.UUID       `db:"match_id" json:"match_id" validate:"required,uuid4"`
	Sport        string          `db:"sport" json:"sport" validate:"required,oneof=cs2 khl"`
	Outcome      string          `db:"outcome" json:"outcome" validate:"required,oneof=team1 team2"`
	Probability  float64         `db:"probability" json:"probability" validate:"required,gte=0,lte=1"`
	Confidence   float64         `db:"confidence" json:"confidence" validate:"required,gte=0,lte=1"`
	ValueScore   float64         `db:"value_score" json:"value_score" validate:"gte=0"`
	Explanation  string          `db:"explanation" json:"explanation"`
	Features     json.RawMessage `db:"features" json:"features"`
	ModelVersion string          `db:"model_version" json:"model_version"`
	Published    bool            `db:"published" json:"published"`
	PublishedAt  *time.Time      `db:"published_at" json:"published_at"`
	Result       *string         `db:"result" json:"result"`
	SettledAt    *time.Time      `db:"settled_at" json:"settled_at"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// MeetsThreshold checks if the confidence meets the given threshold
func (s *Signal) MeetsThreshold(threshold float64) bool {
	return s.Confidence >= threshold
}

// IsSettled checks if the signal has a recorded result
func (s *Signal) IsSettled() bool {
	return s.Result != nil && s.SettledAt != nil
}

// IsWin checks if the signal settled as a win
func (s *Signal) IsWin() bool {
	return s.Result != nil && *s.Result == ResultWin
}

// Age returns the time elapsed since the signal was created
func (s *Signal) Age() time.Duration {
	return time.Since(s.CreatedAt)
}

// ConfidenceBucket classifies the signal by confidence level
func (s *Signal) ConfidenceBucket() string {
	switch {
	case s.Confidence >= 0.80:
		return BucketHigh
	case s.Confidence >= 0.70:
		return BucketMedium
	default:
		return BucketLow
	}
}

// GetFeature retrieves a feature value from the Features JSON
func (s *Signal) GetFeature(name string) (float64, error) {
	if s.Features == nil {
		return 0, nil
	}

	var features map[string]float64
	if err := json.Unmarshal(s.Features, &features); err != nil {
		return 0, err
	}

	return features[name], nil
}
