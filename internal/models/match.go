package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sport identifiers supported by the pipeline
const (
	SportCS2 = "cs2"
	SportKHL = "khl"
)

// Match statuses
const (
	MatchStatusUpcoming  = "upcoming"
	MatchStatusLive      = "live"
	MatchStatusFinished  = "finished"
	MatchStatusCancelled = "cancelled"
)

// Match represents a scheduled or completed match between two teams
type Match struct {
	ID          uuid.UUID        `db:"id" json:"id" validate:"required,uuid4"`
	Sport       string           `db:"sport" json:"sport" validate:"required,oneof=cs2 khl"`
	ExternalID  string           `db:"external_id" json:"external_id" validate:"required"`
	Source      string           `db:"source" json:"source" validate:"required"`
	Team1       string           `db:"team1" json:"team1" validate:"required"`
	Team2       string           `db:"team2" json:"team2" validate:"required"`
	Tournament  string           `db:"tournament" json:"tournament"`
	Stage       string           `db:"stage" json:"stage"`
	Format      string           `db:"format" json:"format"`
	ScheduledAt time.Time        `db:"scheduled_at" json:"scheduled_at" validate:"required"`
	StartedAt   *time.Time       `db:"started_at" json:"started_at"`
	Status      string           `db:"status" json:"status" validate:"oneof=upcoming live finished cancelled"`
	ScoreTeam1  int              `db:"score_team1" json:"score_team1"`
	ScoreTeam2  int              `db:"score_team2" json:"score_team2"`
	OddsTeam1   *decimal.Decimal `db:"odds_team1" json:"odds_team1"`
	OddsTeam2   *decimal.Decimal `db:"odds_team2" json:"odds_team2"`
	Features    json.RawMessage  `db:"features" json:"features"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// IsUpcoming checks if the match hasn't started yet
func (m *Match) IsUpcoming() bool {
	return m.Status == MatchStatusUpcoming && m.StartedAt == nil
}

// IsLive checks if the match is in progress
func (m *Match) IsLive() bool {
	return m.Status == MatchStatusLive
}

// IsFinished checks if the match has completed
func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// TimeToStart returns the duration until the scheduled start
func (m *Match) TimeToStart() time.Duration {
	return time.Until(m.ScheduledAt)
}

// StartsWithin checks if the match starts within the given window
func (m *Match) StartsWithin(window time.Duration) bool {
	ttl := m.TimeToStart()
	return ttl >= 0 && ttl <= window
}

// FeatureMap decodes the Features JSON into a feature vector
func (m *Match) FeatureMap() (map[string]float64, error) {
	if m.Features == nil {
		return map[string]float64{}, nil
	}

	var features map[string]float64
	if err := json.Unmarshal(m.Features, &features); err != nil {
		return nil, err
	}

	return features, nil
}

// Winner returns the outcome of a finished match, or empty string
func (m *Match) Winner() string {
	if !m.IsFinished() {
		return ""
	}
	switch {
	case m.ScoreTeam1 > m.ScoreTeam2:
		return OutcomeTeam1
	case m.ScoreTeam2 > m.ScoreTeam1:
		return OutcomeTeam2
	default:
		return ""
	}
}
