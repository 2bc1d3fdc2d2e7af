package service

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/betpulse/internal/models"
)

// DataValidator validates match data before persistence
type DataValidator struct {
	logger *log.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *log.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateMatch validates match data for required fields and constraints
func (v *DataValidator) ValidateMatch(match *models.Match) []string {
	var errors []string

	if !v.IsValidSport(match.Sport) {
		errors = append(errors, fmt.Sprintf("unsupported sport: %q", match.Sport))
	}

	if match.ExternalID == "" {
		errors = append(errors, "external_id is required")
	}

	if match.Source == "" {
		errors = append(errors, "source is required")
	}

	if match.Team1 == "" {
		errors = append(errors, "team1 is required")
	}

	if match.Team2 == "" {
		errors = append(errors, "team2 is required")
	}

	if match.Team1 != "" && match.Team1 == match.Team2 {
		errors = append(errors, "team1 and team2 must differ")
	}

	if match.ScheduledAt.IsZero() {
		errors = append(errors, "scheduled_at is required")
	}

	// Upcoming matches should not be scheduled far in the past or future
	now := time.Now()
	if !match.ScheduledAt.IsZero() {
		if match.Status == models.MatchStatusUpcoming && match.ScheduledAt.Before(now.Add(-24*time.Hour)) {
			errors = append(errors, fmt.Sprintf("match scheduled in past by %v", now.Sub(match.ScheduledAt).Round(time.Minute)))
		}

		if match.ScheduledAt.After(now.Add(90 * 24 * time.Hour)) {
			errors = append(errors, "match scheduled more than 90 days in future")
		}
	}

	if msg := validateOdds("odds_team1", match.OddsTeam1); msg != "" {
		errors = append(errors, msg)
	}
	if msg := validateOdds("odds_team2", match.OddsTeam2); msg != "" {
		errors = append(errors, msg)
	}

	return errors
}

// validateOdds checks that decimal odds, when present, exceed 1.0
func validateOdds(field string, odds *decimal.Decimal) string {
	if odds == nil {
		return ""
	}
	if odds.LessThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Sprintf("%s must be greater than 1.0, got %s", field, odds.String())
	}
	return ""
}

// ValidateFeatures checks the raw feature bag for obviously broken values
func (v *DataValidator) ValidateFeatures(features map[string]float64) []string {
	var errors []string

	for name, value := range features {
		if value != value { // NaN
			errors = append(errors, fmt.Sprintf("feature %s is NaN", name))
		}
	}

	if rating, ok := features["team1_rating"]; ok && rating < 0 {
		errors = append(errors, "team1_rating cannot be negative")
	}
	if rating, ok := features["team2_rating"]; ok && rating < 0 {
		errors = append(errors, "team2_rating cannot be negative")
	}
	if wr, ok := features["h2h_team1_winrate"]; ok && (wr < 0 || wr > 1) {
		errors = append(errors, fmt.Sprintf("h2h_team1_winrate out of range [0,1], got %v", wr))
	}

	return errors
}

// IsValidSport checks if the sport is supported by the pipeline
func (v *DataValidator) IsValidSport(sport string) bool {
	return sport == models.SportCS2 || sport == models.SportKHL
}

// IsValidFormat checks if the match format is a known series length
func (v *DataValidator) IsValidFormat(format string) bool {
	validFormats := map[string]bool{
		"BO1": true, "BO3": true, "BO5": true, "BO7": true,
	}
	return validFormats[format]
}

// IsValidStatus checks if the match status is a known lifecycle state
func (v *DataValidator) IsValidStatus(status string) bool {
	validStatuses := map[string]bool{
		models.MatchStatusUpcoming:  true,
		models.MatchStatusLive:      true,
		models.MatchStatusFinished:  true,
		models.MatchStatusCancelled: true,
	}
	return validStatuses[status]
}
