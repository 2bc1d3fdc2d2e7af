package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OddsSnapshot represents a point-in-time snapshot of bookmaker odds for a match
type OddsSnapshot struct {
	Time      time.Time        `db:"time" json:"time" validate:"required"`
	MatchID   uuid.UUID        `db:"match_id" json:"match_id" validate:"required,uuid4"`
	Source    string           `db:"source" json:"source"`
	OddsTeam1 *decimal.Decimal `db:"odds_team1" json:"odds_team1"`
	OddsTeam2 *decimal.Decimal `db:"odds_team2" json:"odds_team2"`
}

// GetImpliedProbability returns the implied win probability for the given outcome
func (o *OddsSnapshot) GetImpliedProbability(outcome string) float64 {
	var odds *decimal.Decimal
	switch outcome {
	case OutcomeTeam1:
		odds = o.OddsTeam1
	case OutcomeTeam2:
		odds = o.OddsTeam2
	}
	if odds == nil {
		return 0
	}
	f, _ := odds.Float64()
	if f <= 0 {
		return 0
	}
	return 1.0 / f
}

// GetOverround returns the bookmaker margin implied by the two-way prices
func (o *OddsSnapshot) GetOverround() float64 {
	p1 := o.GetImpliedProbability(OutcomeTeam1)
	p2 := o.GetImpliedProbability(OutcomeTeam2)
	if p1 == 0 || p2 == 0 {
		return 0
	}
	return p1 + p2 - 1.0
}
